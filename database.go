package main

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("database connected and migrated")
}

// Migrate creates or updates the schema for all models. Registrations are
// cascade-deleted with their session at the application level (see
// DeleteSession), so no FK constraint is relied on here.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&AdminUser{}, &Session{}, &Registration{})
}
