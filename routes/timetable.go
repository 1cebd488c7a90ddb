package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhive/tutorhive-api/controllers"
	"github.com/tutorhive/tutorhive-api/middleware"
)

// SetupTimetableRoutes configures the weekly timetable routes. All of
// them operate on the caller's own timetable.
func SetupTimetableRoutes(app *fiber.App) {
	timetable := app.Group("/timetable", middleware.Protected())

	timetable.Get("/", controllers.GetTimeSlots)
	timetable.Post("/", controllers.CreateTimeSlot)
	timetable.Put("/replace", controllers.ReplaceTimeSlots)
	timetable.Post("/image", controllers.UploadTimetableImage)
	timetable.Delete("/clear", controllers.ClearTimeSlots)
	timetable.Patch("/:id", controllers.UpdateTimeSlot)
	timetable.Delete("/:id", controllers.DeleteTimeSlot)
}
