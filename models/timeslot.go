package models

import (
	"gorm.io/gorm"
)

// TimeSlot is one recurring weekly commitment in a user's timetable,
// usually a class. Times are "HH:MM" in 24h format.
type TimeSlot struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index"`
	User      User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Day       string `json:"day"` // "Monday" .. "Saturday"
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	Color     string `json:"color"`
}
