package main

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/tutorhive/tutorhive-api/cron"
	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/redis"
	"github.com/tutorhive/tutorhive-api/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	redis.InitRedis()
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("TutorHive API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupTimetableRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupMentorRoutes(app)
	routes.SetupSOSRoutes(app)
	routes.SetupReviewRoutes(app)

	log.Fatal(app.Listen(":8000"))
}
