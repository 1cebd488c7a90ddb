package models

import (
	"time"
)

type User struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name"`
	Email           string     `json:"email" gorm:"unique"`
	Password        string     `json:"password,omitempty"`
	IsVerified      bool       `json:"is_verified"`
	OTP             string     `json:"otp,omitempty"`
	OTPExpiresAt    time.Time  `json:"otp_expires_at,omitempty"`
	RoleID          uint       `json:"role_id"`
	Role            Role       `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Profile         *Profile   `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	TimeSlots       []TimeSlot `json:"time_slots,omitempty" gorm:"foreignKey:UserID"`
	StudentBookings []Booking  `json:"student_bookings,omitempty" gorm:"foreignKey:StudentID"`
	MentorBookings  []Booking  `json:"mentor_bookings,omitempty" gorm:"foreignKey:MentorID"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
