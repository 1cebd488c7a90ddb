package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhive/tutorhive-api/controllers"
	"github.com/tutorhive/tutorhive-api/middleware"
)

// SetupReviewRoutes configures review submission. Reading a mentor's
// reviews lives under the mentor routes.
func SetupReviewRoutes(app *fiber.App) {
	reviews := app.Group("/reviews", middleware.Protected())

	reviews.Post("/", controllers.CreateReview)
}
