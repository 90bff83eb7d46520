package main

import (
	"log"

	"github.com/gin-gonic/gin"
)

var notifier *Notifier

func main() {

	// Load .env and parse configuration
	LoadConfig()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is missing")
	}

	// Connect DB
	InitDB()

	// Bootstrap the operator account
	EnsureAdminUser()

	// Email worker (optional)
	if cfg.ResendAPIKey != "" {
		notifier = NewNotifier(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyTo)
		notifier.Start()
	} else {
		log.Println("RESEND_API_KEY not set, email notifications disabled")
	}

	// Start Gin
	r := gin.Default()

	// CORS
	r.Use(CORSMiddleware())

	// Routes
	SetupRoutes(r)

	// Start server
	log.Printf("server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
