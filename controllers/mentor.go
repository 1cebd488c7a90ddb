package controllers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/models"
	"github.com/tutorhive/tutorhive-api/utils"
)

// SearchMentors filters mentors by course, rate band and free text over
// name or subjects. Only complete mentor profiles are listed, ordered by
// rating.
func SearchMentors(c *fiber.Ctx) error {
	course := c.Query("course")
	search := c.Query("q")
	minRate := c.QueryFloat("min_rate", 0)
	maxRate := c.QueryFloat("max_rate", 0)

	query := db.DB.Model(&models.Profile{}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Where("is_mentor = ? AND is_profile_complete = ?", true, true)

	if course != "" {
		query = query.Where("subjects LIKE ?", "%"+course+"%")
	}
	if minRate > 0 {
		query = query.Where("hourly_rate >= ?", minRate)
	}
	if maxRate > 0 {
		query = query.Where("hourly_rate <= ?", maxRate)
	}
	if search != "" {
		query = query.
			Joins("JOIN users ON users.id = profiles.user_id").
			Where("users.name ILIKE ? OR profiles.subjects ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var profiles []models.Profile
	if err := query.Order("rating DESC").Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to search mentors",
			Error:   err.Error(),
		})
	}

	mentors := make([]fiber.Map, 0, len(profiles))
	for _, p := range profiles {
		mentors = append(mentors, fiber.Map{
			"id":                p.UserID,
			"name":              p.User.Name,
			"photo":             p.LivePhotoURL,
			"department":        p.Department,
			"subjects":          p.SubjectList(),
			"hourly_rate":       p.HourlyRate,
			"rating":            p.Rating,
			"review_count":      p.ReviewCount,
			"proficiency_level": p.ProficiencyLevel,
			"bio":               p.MentorBio,
		})
	}

	return c.JSON(fiber.Map{"mentors": mentors})
}

// GetMentorDetails returns one mentor's public profile.
func GetMentorDetails(c *fiber.Ctx) error {
	mentorID := c.Params("mentor_id")

	var profile models.Profile
	if err := db.DB.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Where("user_id = ? AND is_mentor = ?", mentorID, true).
		First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Mentor not found",
		})
	}

	return c.JSON(fiber.Map{
		"id":                profile.UserID,
		"name":              profile.User.Name,
		"photo":             profile.LivePhotoURL,
		"department":        profile.Department,
		"batch":             profile.Batch,
		"subjects":          profile.SubjectList(),
		"hourly_rate":       profile.HourlyRate,
		"rating":            profile.Rating,
		"review_count":      profile.ReviewCount,
		"proficiency_level": profile.ProficiencyLevel,
		"bio":               profile.MentorBio,
		"accepts_sos":       profile.AcceptsSOS,
	})
}

// UpdateMentorProfile lets a mentor edit their marketplace settings.
// The hourly rate must stay inside the campus band.
func UpdateMentorProfile(c *fiber.Ctx) error {
	profile, ok := c.Locals("mentorProfile").(*models.Profile)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Mentor profile required",
		})
	}

	type ProfileInput struct {
		MentorBio        *string   `json:"mentor_bio"`
		HourlyRate       *float64  `json:"hourly_rate"`
		AcceptsSOS       *bool     `json:"accepts_sos"`
		Subjects         *[]string `json:"subjects"`
		ProficiencyLevel *string   `json:"proficiency_level"`
	}

	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.HourlyRate != nil {
		if *input.HourlyRate < models.MinHourlyRate || *input.HourlyRate > models.MaxHourlyRate {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Rate must be between PKR %d-%d", models.MinHourlyRate, models.MaxHourlyRate),
			})
		}
		profile.HourlyRate = *input.HourlyRate
	}
	if input.MentorBio != nil {
		profile.MentorBio = *input.MentorBio
	}
	if input.AcceptsSOS != nil {
		profile.AcceptsSOS = *input.AcceptsSOS
	}
	if input.ProficiencyLevel != nil {
		profile.ProficiencyLevel = *input.ProficiencyLevel
	}
	if input.Subjects != nil {
		raw, err := json.Marshal(*input.Subjects)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid subjects list",
			})
		}
		profile.Subjects = string(raw)
	}

	profile.IsProfileComplete = profile.MentorBio != "" &&
		profile.HourlyRate > 0 && profile.Subjects != "" && profile.Subjects != "[]"

	if err := db.DB.Save(profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile",
			Error:   err.Error(),
		})
	}

	return c.JSON(profile)
}

// UploadLivePhoto stores the mentor's verification photo.
func UploadLivePhoto(c *fiber.Ctx) error {
	profile, ok := c.Locals("mentorProfile").(*models.Profile)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Mentor profile required",
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	publicID := fmt.Sprintf("mentor-%d", profile.UserID)
	url, err := utils.UploadToCloudinary(file, publicID, "live-photos")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload photo",
			Error:   err.Error(),
		})
	}

	profile.LivePhotoURL = url
	if err := db.DB.Save(profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save photo URL",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

// GetMentorDashboard aggregates a mentor's session and earnings numbers.
func GetMentorDashboard(c *fiber.Ctx) error {
	profile, ok := c.Locals("mentorProfile").(*models.Profile)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Mentor profile required",
		})
	}
	mentorID := profile.UserID

	var statistics struct {
		TotalSessions   int64     `json:"total_sessions"`
		PendingCount    int64     `json:"pending_count"`
		ConfirmedCount  int64     `json:"confirmed_count"`
		CompletedCount  int64     `json:"completed_count"`
		CanceledCount   int64     `json:"canceled_count"`
		TotalEarnings   float64   `json:"total_earnings"`
		Rating          float64   `json:"rating"`
		ReviewCount     int       `json:"review_count"`
		PendingSOSCount int64     `json:"pending_sos_count"`
		LastUpdated     time.Time `json:"last_updated"`
	}

	countByStatus := func(status models.BookingStatus, out *int64) {
		db.DB.Model(&models.Booking{}).
			Where("mentor_id = ? AND status = ?", mentorID, status).
			Count(out)
	}
	db.DB.Model(&models.Booking{}).Where("mentor_id = ?", mentorID).Count(&statistics.TotalSessions)
	countByStatus(models.BookingPending, &statistics.PendingCount)
	countByStatus(models.BookingConfirmed, &statistics.ConfirmedCount)
	countByStatus(models.BookingCompleted, &statistics.CompletedCount)
	countByStatus(models.BookingCanceled, &statistics.CanceledCount)

	type EarningsResult struct {
		TotalEarnings float64
	}
	var earnings EarningsResult
	db.DB.Model(&models.Booking{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.BookingCompleted).
		Select("COALESCE(SUM(total_amount), 0) as total_earnings").
		Scan(&earnings)
	statistics.TotalEarnings = earnings.TotalEarnings

	// Same scoping as the SOS feed: only alerts for courses this mentor
	// teaches.
	statistics.PendingSOSCount = pendingSOSCountFor(profile)

	statistics.Rating = profile.Rating
	statistics.ReviewCount = profile.ReviewCount
	statistics.LastUpdated = time.Now()

	return c.JSON(statistics)
}

// BecomeMentor upgrades a student account to mentor: flips the role and
// creates (or flags) the mentor profile. Marketplace visibility still
// requires completing the profile afterwards.
func BecomeMentor(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type MentorInput struct {
		RollNumber string   `json:"roll_number"`
		Department string   `json:"department"`
		Batch      string   `json:"batch"`
		Subjects   []string `json:"subjects"`
	}

	input := new(MentorInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var mentorRole models.Role
	if err := db.DB.Where("name = ?", models.RoleMentor).First(&mentorRole).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Mentor role not found",
		})
	}

	subjects := "[]"
	if len(input.Subjects) > 0 {
		raw, err := json.Marshal(input.Subjects)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid subjects list",
			})
		}
		subjects = string(raw)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("role_id", mentorRole.ID).Error; err != nil {
			return err
		}

		var profile models.Profile
		if tx.Where("user_id = ?", userID).First(&profile).RowsAffected == 0 {
			profile = models.Profile{UserID: userID}
		}
		profile.RollNumber = input.RollNumber
		profile.Department = input.Department
		profile.Batch = input.Batch
		profile.Subjects = subjects
		profile.IsMentor = true
		return tx.Save(&profile).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to register as mentor",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Mentor registration complete"})
}
