package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/models"
	"github.com/tutorhive/tutorhive-api/redis"
	"github.com/tutorhive/tutorhive-api/scheduling"
	"github.com/tutorhive/tutorhive-api/utils"
)

// validateTimeSlot runs a timetable entry through the scheduling parser so
// malformed times or inverted ranges never reach the matcher.
func validateTimeSlot(slot *models.TimeSlot) error {
	validDay := false
	for _, day := range scheduling.Week {
		if string(day) == slot.Day {
			validDay = true
			break
		}
	}
	if !validDay {
		return fmt.Errorf("invalid day %q", slot.Day)
	}

	startMins, err := scheduling.ToMinutes(slot.StartTime)
	if err != nil {
		return err
	}
	endMins, err := scheduling.ToMinutes(slot.EndTime)
	if err != nil {
		return err
	}
	if startMins >= endMins {
		return fmt.Errorf("%w: %s-%s", scheduling.ErrInvalidInterval, slot.StartTime, slot.EndTime)
	}
	return nil
}

// GetTimeSlots returns the caller's timetable ordered by day and start time.
func GetTimeSlots(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var timeSlots []models.TimeSlot
	if err := db.DB.Where("user_id = ?", userID).
		Order("day ASC, start_time ASC").
		Find(&timeSlots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch time slots",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"time_slots": timeSlots})
}

// CreateTimeSlot adds one entry to the caller's timetable.
func CreateTimeSlot(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	slot := new(models.TimeSlot)
	if err := c.BodyParser(slot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	slot.ID = 0
	slot.UserID = userID

	if err := validateTimeSlot(slot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid time slot",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Create(slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create time slot",
			Error:   err.Error(),
		})
	}

	redis.InvalidateFreeTime(userID)

	return c.Status(fiber.StatusCreated).JSON(slot)
}

// UpdateTimeSlot edits one of the caller's own timetable entries.
func UpdateTimeSlot(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id := c.Params("id")
	var slot models.TimeSlot
	if err := db.DB.Where("id = ? AND user_id = ?", id, userID).First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Time slot not found",
		})
	}

	slotID := slot.ID
	if err := c.BodyParser(&slot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	// The body can carry "id" and "user_id"; pin the row to the one
	// fetched so Save can't retarget another user's slot.
	slot.ID = slotID
	slot.UserID = userID

	if err := validateTimeSlot(&slot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid time slot",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Save(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update time slot",
			Error:   err.Error(),
		})
	}

	redis.InvalidateFreeTime(userID)

	return c.JSON(slot)
}

// DeleteTimeSlot removes one of the caller's own timetable entries.
func DeleteTimeSlot(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id := c.Params("id")
	var slot models.TimeSlot
	if err := db.DB.Where("id = ? AND user_id = ?", id, userID).First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Time slot not found",
		})
	}

	if err := db.DB.Delete(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete time slot",
			Error:   err.Error(),
		})
	}

	redis.InvalidateFreeTime(userID)

	return c.SendStatus(fiber.StatusNoContent)
}

// ClearTimeSlots wipes the caller's whole timetable.
func ClearTimeSlots(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	if err := db.DB.Where("user_id = ?", userID).Delete(&models.TimeSlot{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to clear time slots",
			Error:   err.Error(),
		})
	}

	redis.InvalidateFreeTime(userID)

	return c.JSON(fiber.Map{"message": "Timetable cleared"})
}

// ReplaceTimeSlots swaps the caller's entire timetable in one call. Used
// by the bulk import after the external extraction service has read a
// timetable screenshot. Every entry is validated before anything is
// deleted, so a bad batch leaves the old timetable intact.
func ReplaceTimeSlots(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type ReplaceInput struct {
		TimeSlots []models.TimeSlot `json:"time_slots"`
	}

	input := new(ReplaceInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	for i := range input.TimeSlots {
		input.TimeSlots[i].ID = 0
		input.TimeSlots[i].UserID = userID
		if err := validateTimeSlot(&input.TimeSlots[i]); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: fmt.Sprintf("Invalid time slot at index %d", i),
				Error:   err.Error(),
			})
		}
	}

	// Delete and create commit together, so a batch that fails at the
	// database keeps the old timetable too.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.TimeSlot{}).Error; err != nil {
			return err
		}
		if len(input.TimeSlots) > 0 {
			return tx.Create(&input.TimeSlots).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save time slots",
			Error:   err.Error(),
		})
	}

	redis.InvalidateFreeTime(userID)

	return c.JSON(fiber.Map{"count": len(input.TimeSlots)})
}

// UploadTimetableImage stores a timetable screenshot for the external
// extraction service and records its URL on the profile. Extraction itself
// happens outside this API; the client follows up with ReplaceTimeSlots.
func UploadTimetableImage(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	fileHeader, err := c.FormFile("timetable")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	if fileHeader.Size > 5*1024*1024 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image size must be less than 5MB",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	publicID := fmt.Sprintf("timetable-%d", userID)
	url, err := utils.UploadToCloudinary(file, publicID, "timetables")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload timetable image",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("timetable_image_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save image URL",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"url": url})
}
