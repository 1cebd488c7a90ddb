package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/models"
	"github.com/tutorhive/tutorhive-api/utils"
)

// CreateSOSAlert raises an urgent help request and emails every mentor
// who teaches the course and has SOS enabled.
func CreateSOSAlert(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type SOSInput struct {
		Course      string `json:"course"`
		Urgency     string `json:"urgency"`
		TimeLeft    int    `json:"time_left"`
		Description string `json:"description"`
	}

	input := new(SOSInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Course == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Course is required",
		})
	}
	if input.TimeLeft <= 0 || input.TimeLeft > 24*60 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "time_left must be between 1 minute and 24 hours",
		})
	}

	var open int64
	db.DB.Model(&models.SOSAlert{}).
		Where("student_id = ? AND status = ?", userID, models.SOSPending).
		Count(&open)
	if open > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already have a pending SOS alert",
		})
	}

	alert := models.SOSAlert{
		StudentID:   userID,
		Course:      input.Course,
		Urgency:     input.Urgency,
		TimeLeft:    input.TimeLeft,
		Description: input.Description,
		DoubleRate:  true,
	}
	if err := db.DB.Create(&alert).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create SOS alert",
			Error:   err.Error(),
		})
	}

	go notifySOSMentors(alert)

	return c.Status(fiber.StatusCreated).JSON(alert)
}

// notifySOSMentors emails mentors who teach the alert's course and have
// opted into SOS sessions. Subject matching happens in Go because
// subjects are stored as a JSON string.
func notifySOSMentors(alert models.SOSAlert) {
	var profiles []models.Profile
	if err := db.DB.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).
		Where("is_mentor = ? AND accepts_sos = ? AND subjects LIKE ?",
			true, true, "%"+alert.Course+"%").
		Find(&profiles).Error; err != nil {
		return
	}

	var recipients []string
	for _, p := range profiles {
		if p.TeachesSubject(alert.Course) && p.User.Email != "" {
			recipients = append(recipients, p.User.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("SOS: %s student needs help now", alert.Course)
	body := fmt.Sprintf(
		"A student urgently needs help with %s (%s).\n\n%s\n\nThe alert expires in %d minutes. Sessions accepted via SOS are billed at double your hourly rate.",
		alert.Course, alert.Urgency, alert.Description, alert.TimeLeft,
	)
	utils.BroadcastEmail(recipients, subject, body)
}

// GetSOSAlertsForMentor lists pending alerts matching the mentor's
// subjects, newest first.
func GetSOSAlertsForMentor(c *fiber.Ctx) error {
	profile, ok := c.Locals("mentorProfile").(*models.Profile)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Mentor profile required",
		})
	}

	var alerts []models.SOSAlert
	if err := db.DB.
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Where("status = ?", models.SOSPending).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch SOS alerts",
			Error:   err.Error(),
		})
	}

	matching := make([]models.SOSAlert, 0, len(alerts))
	for _, a := range alerts {
		if profile.TeachesSubject(a.Course) {
			matching = append(matching, a)
		}
	}

	return c.JSON(fiber.Map{"alerts": matching})
}

// pendingSOSCountFor counts the pending alerts the mentor would see in
// their feed, i.e. those for courses they teach.
func pendingSOSCountFor(profile *models.Profile) int64 {
	var alerts []models.SOSAlert
	if err := db.DB.Select("course").
		Where("status = ?", models.SOSPending).
		Find(&alerts).Error; err != nil {
		return 0
	}

	var count int64
	for _, a := range alerts {
		if profile.TeachesSubject(a.Course) {
			count++
		}
	}
	return count
}

// AcceptSOSAlert claims a pending alert for the calling mentor. The row
// is locked so two mentors cannot accept the same alert.
func AcceptSOSAlert(c *fiber.Ctx) error {
	profile, ok := c.Locals("mentorProfile").(*models.Profile)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Mentor profile required",
		})
	}
	alertID := c.Params("id")

	var alert models.SOSAlert
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(
			"SELECT * FROM sos_alerts WHERE id = ? AND deleted_at IS NULL FOR UPDATE",
			alertID,
		).Scan(&alert).Error; err != nil {
			return err
		}
		if alert.ID == 0 {
			return fmt.Errorf("alert not found")
		}
		if alert.Status != models.SOSPending {
			return fmt.Errorf("alert is %s", alert.Status)
		}
		if alert.StudentID == profile.UserID {
			return fmt.Errorf("cannot accept your own alert")
		}
		if time.Since(alert.CreatedAt) > time.Duration(alert.TimeLeft)*time.Minute {
			return fmt.Errorf("alert has expired")
		}

		mentorID := profile.UserID
		alert.Status = models.SOSAccepted
		alert.AcceptedByID = &mentorID
		return tx.Save(&alert).Error
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	go sendSOSAcceptedEmail(alert, profile)

	return c.JSON(alert)
}

func sendSOSAcceptedEmail(alert models.SOSAlert, mentor *models.Profile) {
	var student, mentorUser models.User
	if err := db.DB.Select("id, name, email").First(&student, alert.StudentID).Error; err != nil {
		return
	}
	if student.Email == "" {
		return
	}
	if err := db.DB.Select("id, name").First(&mentorUser, mentor.UserID).Error; err != nil {
		return
	}

	rate := mentor.HourlyRate * 2
	subject := fmt.Sprintf("Your SOS for %s was accepted", alert.Course)
	body := fmt.Sprintf(
		"%s accepted your SOS alert for %s and will reach out shortly.\n\nSOS sessions are billed at double rate: PKR %.0f/hour.",
		mentorUser.Name, alert.Course, rate,
	)
	utils.SendEmail(student.Email, subject, body)
}

// GetMySOSAlerts lists the calling student's alerts, newest first.
func GetMySOSAlerts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var alerts []models.SOSAlert
	if err := db.DB.
		Preload("AcceptedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).
		Where("student_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch SOS alerts",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"alerts": alerts})
}

// CancelSOSAlert withdraws a pending alert. Only the owner can cancel,
// and only while the alert is still pending.
func CancelSOSAlert(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}
	alertID := c.Params("id")

	var alert models.SOSAlert
	if err := db.DB.Where("id = ? AND student_id = ?", alertID, userID).
		First(&alert).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Alert not found",
		})
	}
	if alert.Status != models.SOSPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Cannot cancel an alert that is %s", alert.Status),
		})
	}

	alert.Status = models.SOSCanceled
	if err := db.DB.Save(&alert).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to cancel alert",
			Error:   err.Error(),
		})
	}

	return c.JSON(alert)
}
