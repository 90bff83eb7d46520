package main

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. A .env file is
// loaded first so local development works without exporting variables.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	JWTSecret string `env:"JWT_SECRET"`

	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBUser string `env:"DB_USER" envDefault:"postgres"`
	DBPass string `env:"DB_PASS"`
	DBName string `env:"DB_NAME" envDefault:"workshops"`
	DBPort string `env:"DB_PORT" envDefault:"5432"`

	// Operator account created on startup when both values are set.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Email notifications are disabled when the API key is empty.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	NotifyFrom   string `env:"NOTIFY_FROM" envDefault:"סדנאות יצירה <onboarding@resend.dev>"`
	NotifyTo     string `env:"NOTIFY_TO" envDefault:"info@workshop.co.il"`
}

var cfg Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}
}
