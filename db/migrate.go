package db

import (
	"fmt"
	"log"

	"github.com/tutorhive/tutorhive-api/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Profile{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.SOSAlert{},
		&models.Review{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRoles()

	fmt.Println("✅ Migrations applied successfully!")
}

func seedRoles() {
	roles := []models.Role{
		{Name: models.RoleStudent, Description: "Student who can book tutoring sessions"},
		{Name: models.RoleMentor, Description: "Student-mentor who offers paid sessions"},
		{Name: models.RoleAdmin, Description: "Administrator with full access"},
	}

	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}
