package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhive/tutorhive-api/controllers"
	"github.com/tutorhive/tutorhive-api/middleware"
)

// SetupSOSRoutes configures the urgent help alert routes
func SetupSOSRoutes(app *fiber.App) {
	sos := app.Group("/sos", middleware.Protected())

	sos.Post("/", controllers.CreateSOSAlert)
	sos.Get("/mine", controllers.GetMySOSAlerts)
	sos.Get("/feed", middleware.RequireMentorProfile(), controllers.GetSOSAlertsForMentor)
	sos.Post("/:id/accept", middleware.RequireMentorProfile(), controllers.AcceptSOSAlert)
	sos.Post("/:id/cancel", controllers.CancelSOSAlert)
}
