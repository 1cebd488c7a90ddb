package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/models"
	"github.com/tutorhive/tutorhive-api/utils"
)

// CreateReview records a student's rating of a mentor and refreshes the
// mentor's aggregate rating. The review is marked verified when the
// student has a completed session with the mentor.
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type ReviewInput struct {
		MentorID    uint    `json:"mentor_id"`
		Rating      float64 `json:"rating"`
		Comment     string  `json:"comment"`
		IsAnonymous bool    `json:"is_anonymous"`
	}

	input := new(ReviewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.MentorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mentor_id is required",
		})
	}
	if input.MentorID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot review yourself",
		})
	}
	if input.Rating < 1.0 || input.Rating > 5.0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rating must be between 1 and 5",
		})
	}

	var mentorProfile models.Profile
	if err := db.DB.Where("user_id = ? AND is_mentor = ?", input.MentorID, true).
		First(&mentorProfile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Mentor not found",
		})
	}

	review := models.Review{
		Rating:      input.Rating,
		Comment:     input.Comment,
		MentorID:    input.MentorID,
		StudentID:   userID,
		IsAnonymous: input.IsAnonymous,
	}

	exists, err := review.HasExistingReview(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to check existing reviews",
			Error:   err.Error(),
		})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You have already reviewed this mentor",
		})
	}

	var completed models.Booking
	if err := db.DB.
		Where("student_id = ? AND mentor_id = ? AND status = ?",
			userID, input.MentorID, models.BookingCompleted).
		Order("scheduled_date DESC").
		First(&completed).Error; err == nil {
		review.IsVerified = true
		review.BookingID = &completed.ID
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return refreshMentorRating(tx, input.MentorID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create review",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// refreshMentorRating recomputes the mentor's average rating and review
// count from the reviews table.
func refreshMentorRating(tx *gorm.DB, mentorID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Where("mentor_id = ?", mentorID).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Scan(&agg).Error; err != nil {
		return err
	}

	return tx.Model(&models.Profile{}).
		Where("user_id = ?", mentorID).
		Updates(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		}).Error
}

// GetMentorReviews lists a mentor's reviews, newest first, paginated.
// Anonymous reviews come back without the student.
func GetMentorReviews(c *fiber.Ctx) error {
	mentorID := c.Params("mentor_id")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var total int64
	db.DB.Model(&models.Review{}).Where("mentor_id = ?", mentorID).Count(&total)

	var reviews []models.Review
	if err := db.DB.
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Where("mentor_id = ?", mentorID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch reviews",
			Error:   err.Error(),
		})
	}

	for i := range reviews {
		if reviews[i].IsAnonymous {
			reviews[i].StudentID = 0
			reviews[i].Student = models.User{}
		}
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
