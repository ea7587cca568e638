package db

import (
	"fmt"
	"log"
	"strings"

	"goddit/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init connects to the database named by dbURL and migrates the schema.
// "postgres://..." selects Postgres, "sqlite://<path>" a local SQLite
// file for development.
func Init(dbURL string) {
	var err error
	DB, err = Open(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")

	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Open dials the database without touching the package-level handle.
// Tests use it to build isolated in-memory instances.
func Open(dbURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "host="):
		dialector = postgres.Open(dbURL)
	case strings.HasPrefix(dbURL, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://"))
	default:
		return nil, fmt.Errorf("db: unsupported DATABASE_URL %q", dbURL)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// AutoMigrate creates or updates the tables for every entity.
func AutoMigrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.User{},
		&models.Sub{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
	)
}
