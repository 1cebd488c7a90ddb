package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tutorhive/tutorhive-api/db"
	"github.com/tutorhive/tutorhive-api/models"
)

// setupTestDB points the global handle at a fresh in-memory database for
// one test. Handlers read db.DB directly, so swapping the global is how
// they get exercised without Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Each sqlite :memory: connection is its own database; keep the
	// pool at one connection so every query sees the same data.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Profile{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.SOSAlert{},
		&models.Review{},
	))

	prev := db.DB
	db.DB = conn
	t.Cleanup(func() { db.DB = prev })

	return conn
}

// newAuthedApp builds a Fiber app that acts as the given user, the way
// the JWT middleware would after validating a token.
func newAuthedApp(userID uint, register func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	register(app)
	return app
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}
