package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/models"
	"github.com/tutorhive/tutorhive-api/utils"
)

// StartCronJobs initializes the background scheduler: session reminders
// and SOS alert expiry, both checked every minute.
func StartCronJobs() {
	c := cron.New()
	_, err := c.AddFunc("* * * * *", sendSessionReminders)
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}
	_, err = c.AddFunc("* * * * *", expireStaleSOSAlerts)
	if err != nil {
		log.Fatalf("Failed to add SOS expiry cron job: %v", err)
	}
	c.Start()
	log.Println("Cron scheduler started (session reminders, SOS expiry)")
}

// sendSessionReminders emails students about confirmed sessions starting
// in roughly one hour.
func sendSessionReminders() {
	now := time.Now()
	dayStart, dayEnd := reminderDayRange(now)
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var bookings []models.Booking
	err := db.DB.Preload("Student").Preload("Mentor").
		Where("status = ? AND scheduled_date >= ? AND scheduled_date < ?",
			models.BookingConfirmed, dayStart, dayEnd).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching bookings for reminders: %v", err)
		return
	}

	for _, booking := range bookings {
		start, err := sessionStart(booking, now.Location())
		if err != nil {
			log.Printf("Booking %d has unparsable start time %q", booking.ID, booking.StartTime)
			continue
		}
		if start.Before(startWindow) || start.After(endWindow) {
			continue
		}
		if err := sendReminderEmail(&booking, start); err != nil {
			log.Printf("Failed to send reminder for booking %d: %v", booking.ID, err)
			continue
		}
		log.Printf("Sent reminder for booking %d to %s", booking.ID, booking.Student.Email)
	}
}

// reminderDayRange is the half-open range of booking dates that count as
// today. Booking dates are stored as UTC midnight of their calendar day
// ("YYYY-MM-DD" parse), so the bounds come from the local calendar date
// but are expressed in UTC, matching how they were written.
func reminderDayRange(now time.Time) (time.Time, time.Time) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart, dayStart.Add(24 * time.Hour)
}

// sessionStart combines the stored calendar day with the "HH:MM" start
// time. The wall-clock time means campus local time, so the instant is
// built in loc, not in the UTC the date column carries.
func sessionStart(b models.Booking, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", b.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	d := b.ScheduledDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

func sendReminderEmail(booking *models.Booking, start time.Time) error {
	subject := fmt.Sprintf("Reminder: Tutoring Session - %s", booking.Course)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your tutoring session starting in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Course:</strong> %s</li>
			<li><strong>Mentor:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>Duration:</strong> %d minutes</li>
		</ul>
		<p>If you need to cancel, please do so as soon as possible.</p>
		<p>Best regards,</p>
		<p>TutorHive</p>
	`, booking.Student.Name, booking.Course, booking.Mentor.Name,
		start.Format("2006-01-02 15:04"), booking.Duration)

	return utils.SendEmail(booking.Student.Email, subject, body)
}

// expireStaleSOSAlerts marks pending SOS alerts as expired once their
// time-left window has passed, so mentors stop seeing dead requests.
func expireStaleSOSAlerts() {
	var alerts []models.SOSAlert
	err := db.DB.Where("status = ?", models.SOSPending).Find(&alerts).Error
	if err != nil {
		log.Printf("Error fetching SOS alerts for expiry: %v", err)
		return
	}

	now := time.Now()
	for _, alert := range alerts {
		deadline := alert.CreatedAt.Add(time.Duration(alert.TimeLeft) * time.Minute)
		if now.Before(deadline) {
			continue
		}
		if err := db.DB.Model(&alert).Update("status", models.SOSExpired).Error; err != nil {
			log.Printf("Failed to expire SOS alert %d: %v", alert.ID, err)
			continue
		}
		log.Printf("Expired SOS alert %d (course %s)", alert.ID, alert.Course)
	}
}
