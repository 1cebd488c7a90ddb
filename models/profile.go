package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Hourly rate bounds for mentors, in PKR.
const (
	MinHourlyRate = 500
	MaxHourlyRate = 1000
)

// Profile holds the campus-specific details of a user. Mentor fields stay
// zero-valued for plain students.
type Profile struct {
	gorm.Model
	UserID            uint    `json:"user_id" gorm:"uniqueIndex"`
	User              User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RollNumber        string  `json:"roll_number"`
	Department        string  `json:"department"`
	Batch             string  `json:"batch"`
	IsMentor          bool    `json:"is_mentor"`
	IsProfileComplete bool    `json:"is_profile_complete"`
	Subjects          string  `json:"subjects"` // JSON-encoded array of course codes
	HourlyRate        float64 `json:"hourly_rate"`
	ProficiencyLevel  string  `json:"proficiency_level"`
	MentorBio         string  `json:"mentor_bio"`
	LivePhotoURL      string  `json:"live_photo_url"`
	AcceptsSOS        bool    `json:"accepts_sos"`
	Rating            float64 `json:"rating" gorm:"type:decimal(2,1);default:0"`
	ReviewCount       int     `json:"review_count" gorm:"default:0"`
	TimetableImageURL string  `json:"timetable_image_url"`
}

// SubjectList decodes the JSON-encoded subjects column.
func (p *Profile) SubjectList() []string {
	if p.Subjects == "" {
		return nil
	}
	var subjects []string
	if err := json.Unmarshal([]byte(p.Subjects), &subjects); err != nil {
		return nil
	}
	return subjects
}

// TeachesSubject reports whether the mentor lists the given course.
func (p *Profile) TeachesSubject(course string) bool {
	for _, s := range p.SubjectList() {
		if s == course {
			return true
		}
	}
	return false
}
