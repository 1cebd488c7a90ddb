package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/models"
	"github.com/tutorhive/tutorhive-api/redis"
	"github.com/tutorhive/tutorhive-api/scheduling"
	"github.com/tutorhive/tutorhive-api/utils"
)

// busyFromTimeSlots converts a user's timetable entries into the matcher's
// busy-interval shape.
func busyFromTimeSlots(slots []models.TimeSlot) []scheduling.Interval {
	busy := make([]scheduling.Interval, 0, len(slots))
	for _, s := range slots {
		busy = append(busy, scheduling.Interval{
			Day:       scheduling.Weekday(s.Day),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	return busy
}

// appendBookingBusy converts an active booking's calendar date into a
// weekday and appends it as a busy interval. Sundays map to no
// scheduling day and are skipped.
func appendBookingBusy(busy []scheduling.Interval, b models.Booking) []scheduling.Interval {
	day, ok := scheduling.WeekdayFromTime(b.ScheduledDate)
	if !ok {
		return busy
	}
	return append(busy, scheduling.Interval{
		Day:       day,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	})
}

// FindAvailableSlots returns the mutual bookable slots for the logged-in
// student and the requested mentor. Timetable entries and active bookings
// of both parties count as busy; everything else inside the working window
// is fair game.
func FindAvailableSlots(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	mentorID, err := c.ParamsInt("mentor_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mentor ID",
		})
	}

	duration := c.QueryInt("duration", 60)
	if !scheduling.IsAllowedDuration(duration) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Session duration must be one of %v minutes", scheduling.SessionDurations),
		})
	}

	var mentor models.User
	if err := db.DB.First(&mentor, mentorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Mentor not found",
		})
	}

	var studentSlots []models.TimeSlot
	if err := db.DB.Where("user_id = ?", studentID).Find(&studentSlots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch timetable",
			Error:   err.Error(),
		})
	}

	var mentorSlots []models.TimeSlot
	if err := db.DB.Where("user_id = ?", mentorID).Find(&mentorSlots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch mentor timetable",
			Error:   err.Error(),
		})
	}

	var bookings []models.Booking
	if err := db.DB.
		Where("(student_id = ? OR mentor_id = ?) AND status IN (?, ?)",
			studentID, mentorID, models.BookingPending, models.BookingConfirmed).
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}

	studentBusy := busyFromTimeSlots(studentSlots)
	mentorBusy := busyFromTimeSlots(mentorSlots)
	for _, b := range bookings {
		if b.StudentID == studentID {
			studentBusy = appendBookingBusy(studentBusy, b)
		}
		if b.MentorID == uint(mentorID) {
			mentorBusy = appendBookingBusy(mentorBusy, b)
		}
	}

	availableSlots, err := scheduling.FindMutualSlots(scheduling.DefaultConfig(), studentBusy, mentorBusy, duration)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Failed to compute availability",
			Error:   err.Error(),
		})
	}

	// The caller tells "no timetable" apart from "no mutual free time"
	// using these flags; the matcher result is just empty either way.
	return c.JSON(fiber.Map{
		"available_slots":       availableSlots,
		"session_duration":      duration,
		"student_has_timetable": len(studentSlots) > 0,
		"mentor_has_timetable":  len(mentorSlots) > 0,
	})
}

// GetMentorFreeSlots returns a mentor's free time per weekday, for the
// public mentor card. The one-sided computation skips the second party and
// is cached briefly in Redis since it changes only when the mentor's
// timetable or bookings do.
func GetMentorFreeSlots(c *fiber.Ctx) error {
	mentorID, err := c.ParamsInt("mentor_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mentor ID",
		})
	}

	if redis.Client != nil {
		if cached, err := redis.Client.Get(redis.Ctx, redis.FreeTimeKey(uint(mentorID))).Result(); err == nil {
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	var mentorSlots []models.TimeSlot
	if err := db.DB.Where("user_id = ?", mentorID).Find(&mentorSlots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch mentor timetable",
			Error:   err.Error(),
		})
	}

	var bookings []models.Booking
	if err := db.DB.
		Where("mentor_id = ? AND status IN (?, ?)",
			mentorID, models.BookingPending, models.BookingConfirmed).
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch mentor bookings",
			Error:   err.Error(),
		})
	}

	busy := busyFromTimeSlots(mentorSlots)
	for _, b := range bookings {
		busy = appendBookingBusy(busy, b)
	}

	freeTime, err := scheduling.FreeTimeForParty(scheduling.DefaultConfig(), busy)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Failed to compute free time",
			Error:   err.Error(),
		})
	}

	payload := fiber.Map{
		"free_slots":    freeTime,
		"has_timetable": len(mentorSlots) > 0,
	}

	if redis.Client != nil {
		if raw, err := json.Marshal(payload); err == nil {
			redis.Client.Set(redis.Ctx, redis.FreeTimeKey(uint(mentorID)), raw, redis.FreeTimeCacheTTL)
		}
	}

	return c.JSON(payload)
}

// CreateBooking books a chosen slot. The availability result the student
// picked from is a snapshot, so the slot is re-checked against conflicting
// bookings inside the transaction before committing.
func CreateBooking(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	type BookingInput struct {
		MentorID      uint   `json:"mentor_id"`
		Course        string `json:"course"`
		Topic         string `json:"topic"`
		ScheduledDate string `json:"scheduled_date"` // "YYYY-MM-DD"
		StartTime     string `json:"start_time"`
		EndTime       string `json:"end_time"`
		Notes         string `json:"notes"`
	}

	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Course == "" || input.MentorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	scheduledDate, err := time.Parse("2006-01-02", input.ScheduledDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format, use YYYY-MM-DD",
		})
	}
	if _, ok := scheduling.WeekdayFromTime(scheduledDate); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Sessions cannot be scheduled on Sundays",
		})
	}

	startMins, err := scheduling.ToMinutes(input.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start time format",
		})
	}
	endMins, err := scheduling.ToMinutes(input.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end time format",
		})
	}
	if startMins >= endMins {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Start time must be before end time",
		})
	}
	durationMinutes := endMins - startMins
	if !scheduling.IsAllowedDuration(durationMinutes) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Session duration must be one of %v minutes", scheduling.SessionDurations),
		})
	}

	var mentorProfile models.Profile
	if err := db.DB.Where("user_id = ? AND is_mentor = ?", input.MentorID, true).First(&mentorProfile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Mentor not found",
		})
	}

	hourlyRate := mentorProfile.HourlyRate
	if hourlyRate == 0 {
		hourlyRate = models.MinHourlyRate
	}

	booking := models.Booking{
		StudentID:     studentID,
		MentorID:      input.MentorID,
		Course:        input.Course,
		Topic:         input.Topic,
		ScheduledDate: scheduledDate,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Duration:      durationMinutes,
		TotalAmount:   models.SessionCost(durationMinutes, hourlyRate),
		Status:        models.BookingPending,
		StudentNotes:  input.Notes,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		free, err := utils.CheckSlotStillFree(tx, studentID, input.MentorID, scheduledDate, input.StartTime, input.EndTime)
		if err != nil {
			return err
		}
		if !free {
			return fmt.Errorf("time slot no longer available")
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Time slot not available or failed to create booking",
			Error:   err.Error(),
		})
	}

	redis.InvalidateFreeTime(input.MentorID)

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetMyBookings lists the caller's bookings, as student or mentor.
func GetMyBookings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var bookings []models.Booking
	if err := db.DB.
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).
		Preload("Mentor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).
		Where("student_id = ? OR mentor_id = ?", userID, userID).
		Order("scheduled_date ASC, start_time ASC").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

// UpdateBookingStatus moves a booking through its state machine
// (accept/complete/cancel). Only participants may touch it.
func UpdateBookingStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id := c.Params("id")

	type StatusInput struct {
		Status models.BookingStatus `json:"status"`
		Reason string               `json:"reason"`
	}

	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var booking models.Booking
	if err := db.DB.Preload("Student").Preload("Mentor").First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	if booking.StudentID != userID && booking.MentorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not part of this booking",
		})
	}

	// Only mentors confirm; students can't accept their own request.
	if input.Status == models.BookingConfirmed && booking.MentorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the mentor can confirm a booking",
		})
	}

	if input.Status == models.BookingCanceled {
		booking.CancelReason = input.Reason
		booking.CanceledByID = &userID
	}

	if err := booking.UpdateStatus(db.DB, input.Status); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Failed to update booking",
			Error:   err.Error(),
		})
	}

	redis.InvalidateFreeTime(booking.MentorID)

	if input.Status == models.BookingConfirmed {
		go func(b models.Booking) {
			subject := fmt.Sprintf("Session Confirmed - %s", b.Course)
			body := fmt.Sprintf(
				"<p>Hi %s,</p><p>%s confirmed your %d-minute session for %s on %s at %s. Total: %.0f PKR.</p>",
				b.Student.Name, b.Mentor.Name, b.Duration, b.Course,
				b.ScheduledDate.Format("2006-01-02"), b.StartTime, b.TotalAmount)
			if err := utils.SendEmail(b.Student.Email, subject, body); err != nil {
				log.Printf("Failed to send confirmation email for booking %d: %v", b.ID, err)
			}
		}(booking)
	}

	return c.JSON(booking)
}
