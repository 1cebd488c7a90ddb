package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating      float64 `json:"rating" gorm:"type:decimal(2,1);not null"`
	Comment     string  `json:"comment"`
	MentorID    uint    `json:"mentor_id" gorm:"index"`
	Mentor      User    `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
	StudentID   uint    `json:"student_id"`
	Student     User    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	IsAnonymous bool    `json:"is_anonymous" gorm:"default:false"`
	IsVerified  bool    `json:"is_verified" gorm:"default:false"` // linked to a completed session
	BookingID   *uint   `json:"booking_id"`
}

// BeforeCreate clamps the rating into the 1.0-5.0 band.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1.0 {
		r.Rating = 1.0
	} else if r.Rating > 5.0 {
		r.Rating = 5.0
	}
	return nil
}

// HasExistingReview checks whether the student already reviewed this mentor.
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("student_id = ? AND mentor_id = ? AND deleted_at IS NULL",
			r.StudentID, r.MentorID).
		Count(&count).Error

	return count > 0, err
}
