package main

import (
	"log"
	"os"

	"github.com/aokimura/chatplaza/internal/config"
	"github.com/aokimura/chatplaza/internal/database"
	"github.com/aokimura/chatplaza/internal/models"
	"github.com/aokimura/chatplaza/internal/utils"
	"github.com/google/uuid"
)

// Seeds the staff account and a couple of starter articles. Safe to run
// repeatedly; existing rows are left alone.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	staffEmail := os.Getenv("STAFF_EMAIL")
	staffUsername := os.Getenv("STAFF_USERNAME")
	staffPassword := os.Getenv("STAFF_PASSWORD")

	if staffEmail == "" || staffUsername == "" || staffPassword == "" {
		log.Fatal("Missing environment variables: STAFF_EMAIL, STAFF_USERNAME, STAFF_PASSWORD")
	}

	var staff models.User
	result := database.DB.Where("email = ?", staffEmail).First(&staff)

	if result.Error == nil {
		log.Println("Staff user already exists:", staff.Email)
	} else {
		passwordHash, err := utils.HashPassword(staffPassword)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}

		staff = models.User{
			ID:           uuid.New(),
			Email:        staffEmail,
			Username:     staffUsername,
			Nickname:     staffUsername,
			PasswordHash: passwordHash,
			IsActive:     true,
			IsStaff:      true,
		}

		if err := database.DB.Create(&staff).Error; err != nil {
			log.Fatal("Failed to create staff user:", err)
		}

		log.Println("Staff user created:", staff.Email)
	}

	var articleCount int64
	database.DB.Model(&models.Article{}).Count(&articleCount)
	if articleCount == 0 {
		articles := []models.Article{
			{Title: "Welcome to chatplaza", Text: "Create a numbered room and start chatting."},
			{Title: "House rules", Text: "Keep messages short (120 characters) and friendly."},
		}
		if err := database.DB.Create(&articles).Error; err != nil {
			log.Fatal("Failed to seed articles:", err)
		}
		log.Println("Seeded starter articles")
	}
}
