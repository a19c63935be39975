package database

import (
	"fmt"
	"log"

	"whatsapp-crm/internal/config"
	"whatsapp-crm/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to PostgreSQL when DB_HOST is set, otherwise falls back to
// a local SQLite file for development.
func InitDB(cfg *config.Config) {
	var err error

	if cfg.DBHost != "" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		log.Println("Connected to PostgreSQL successfully")
	} else {
		DB, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			log.Fatalf("Failed to open SQLite at %s: %v", cfg.DBPath, err)
		}
		log.Printf("Using SQLite database at %s", cfg.DBPath)
	}

	Migrate(DB)
}

// Migrate runs auto-migration for all models.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Contact{},
		&models.Message{},
		&models.Template{},
		&models.Workflow{},
		&models.WorkflowStep{},
		&models.ImportLog{},
		&models.OrgSetting{},
	)
	if err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	log.Println("Database migration completed")
}
