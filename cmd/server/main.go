package main

import (
	"log"

	"goddit/internal/auth"
	"goddit/internal/config"
	"goddit/internal/db"
	"goddit/internal/router"
	"goddit/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from the environment")
	}
	cfg := config.Load()

	// Initialize Database
	db.Init(cfg.DatabaseURL)

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}

	uploads, err := services.NewUploadService(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	r := router.Setup(cfg, tokens, uploads)

	log.Printf("goddit server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
