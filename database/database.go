package database

import (
	"fmt"
	"log"
	"os"

	"iptv-app/internal/domain/plans"
	"iptv-app/internal/domain/subscriptions"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	// TranslateError so duplicate payment refs surface as
	// gorm.ErrDuplicatedKey instead of a driver-specific error.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		&plans.Plan{},
		&subscriptions.Subscription{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	if err := plans.EnsureDefaults(DB); err != nil {
		log.Fatal("❌ Plan seeding error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
