package database

import (
	"fmt"
	"log"

	"rsvphub/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Invitation{},
		&models.RSVP{},
		&models.Subscription{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	fmt.Println("Migrations completed")
}
