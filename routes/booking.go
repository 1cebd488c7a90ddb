package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhive/tutorhive-api/controllers"
	"github.com/tutorhive/tutorhive-api/middleware"
)

// SetupBookingRoutes configures slot discovery and booking routes
func SetupBookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings", middleware.Protected())

	bookings.Get("/mentors/:mentor_id/slots", controllers.FindAvailableSlots)
	bookings.Get("/mentors/:mentor_id/free-time", controllers.GetMentorFreeSlots)
	bookings.Post("/", controllers.CreateBooking)
	bookings.Get("/", controllers.GetMyBookings)
	bookings.Patch("/:id/status", controllers.UpdateBookingStatus)
}
