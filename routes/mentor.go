package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhive/tutorhive-api/controllers"
	"github.com/tutorhive/tutorhive-api/middleware"
)

// SetupMentorRoutes configures mentor discovery and mentor-side routes
func SetupMentorRoutes(app *fiber.App) {
	mentors := app.Group("/mentors", middleware.Protected())

	// Becoming and being a mentor. Registered before the wildcard
	// detail route so "register" and "me" are not taken as IDs.
	mentors.Post("/register", controllers.BecomeMentor)
	mentors.Patch("/me/profile", middleware.RequireMentorProfile(), controllers.UpdateMentorProfile)
	mentors.Post("/me/photo", middleware.RequireMentorProfile(), controllers.UploadLivePhoto)
	mentors.Get("/me/dashboard", middleware.RequireMentorProfile(), controllers.GetMentorDashboard)

	// Discovery
	mentors.Get("/", controllers.SearchMentors)
	mentors.Get("/:mentor_id", controllers.GetMentorDetails)
	mentors.Get("/:mentor_id/reviews", controllers.GetMentorReviews)
}
