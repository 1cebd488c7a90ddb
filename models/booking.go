package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a tutoring session agreed (or proposed) between a student and
// a mentor. ScheduledDate pins the session to a calendar day; StartTime and
// EndTime are "HH:MM" within the working window.
type Booking struct {
	gorm.Model
	StudentID     uint          `json:"student_id" gorm:"index"`
	Student       User          `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	MentorID      uint          `json:"mentor_id" gorm:"index"`
	Mentor        User          `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
	Course        string        `json:"course"`
	Topic         string        `json:"topic"`
	ScheduledDate time.Time     `json:"scheduled_date"`
	StartTime     string        `json:"start_time"`
	EndTime       string        `json:"end_time"`
	Duration      int           `json:"duration"` // minutes
	TotalAmount   float64       `json:"total_amount"`
	Status        BookingStatus `json:"status"`
	StudentNotes  string        `json:"student_notes"`
	CancelReason  string        `json:"cancel_reason"`
	CanceledByID  *uint         `json:"canceled_by_id"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BookingPending
	}
	return nil
}

// UpdateStatus enforces the booking state machine:
// pending -> confirmed|canceled, confirmed -> completed|canceled.
func (b *Booking) UpdateStatus(tx *gorm.DB, newStatus BookingStatus) error {
	switch b.Status {
	case BookingPending:
		if newStatus != BookingConfirmed && newStatus != BookingCanceled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case BookingConfirmed:
		if newStatus != BookingCompleted && newStatus != BookingCanceled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case BookingCompleted, BookingCanceled:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	}

	b.Status = newStatus
	return tx.Save(b).Error
}

// SessionCost prices a session: (minutes / 60) * hourly rate.
// The amount is recorded on the booking but never captured by a payment
// processor.
func SessionCost(durationMinutes int, hourlyRate float64) float64 {
	return float64(durationMinutes) / 60 * hourlyRate
}
