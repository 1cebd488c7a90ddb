package utils

import (
	"time"

	"gorm.io/gorm"

	"github.com/tutorhive/tutorhive-api/models"
)

// CheckSlotStillFree re-checks that neither party picked up a conflicting
// booking on the given date since the availability snapshot was computed.
// Times are zero-padded "HH:MM", which compare correctly as strings in SQL.
// Bookings are half-open intervals, so back-to-back sessions are fine.
// Must run inside the caller's transaction so the row locks hold until
// the new booking commits.
func CheckSlotStillFree(tx *gorm.DB, studentID, mentorID uint, date time.Time, startTime, endTime string) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	// Lock conflicting rows so two students can't confirm the same slot
	var conflict models.Booking
	err := tx.Raw(`
		SELECT *
		FROM bookings
		WHERE (mentor_id = ? OR student_id = ?)
		  AND scheduled_date >= ? AND scheduled_date < ?
		  AND status IN (?, ?)
		  AND start_time < ? AND end_time > ?
		LIMIT 1
		FOR UPDATE
	`, mentorID, studentID, dayStart, dayEnd,
		models.BookingPending, models.BookingConfirmed,
		endTime, startTime).
		Scan(&conflict).Error

	if err == nil && conflict.ID != 0 {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
