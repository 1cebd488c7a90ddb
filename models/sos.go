package models

import (
	"gorm.io/gorm"
)

type SOSStatus string

const (
	SOSPending  SOSStatus = "pending"
	SOSAccepted SOSStatus = "accepted"
	SOSCanceled SOSStatus = "canceled"
	SOSExpired  SOSStatus = "expired"
)

// SOSAlert is an urgent help request broadcast to mentors who teach the
// course and accept SOS sessions. Accepted alerts are billed at double
// rate.
type SOSAlert struct {
	gorm.Model
	StudentID    uint      `json:"student_id" gorm:"index"`
	Student      User      `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course       string    `json:"course"`
	Urgency      string    `json:"urgency"` // e.g. "exam_tomorrow", "assignment_due"
	TimeLeft     int       `json:"time_left"` // minutes until the alert goes stale
	Description  string    `json:"description"`
	Status       SOSStatus `json:"status"`
	DoubleRate   bool      `json:"double_rate" gorm:"default:true"`
	AcceptedByID *uint     `json:"accepted_by_id"`
	AcceptedBy   *User     `json:"accepted_by,omitempty" gorm:"foreignKey:AcceptedByID"`
}

func (a *SOSAlert) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = SOSPending
	}
	return nil
}
