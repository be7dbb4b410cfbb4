package database

import (
	"atomq/config"
	"atomq/models"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	// Build the PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	RunMigrations(db)
	SeedDefaults(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Settings{},
		&models.Question{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizUser{},
		&models.QuizAttempt{},
		&models.QuizAnswer{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Partial unique index: at most one IN_PROGRESS attempt per (user, quiz).
	// AutoMigrate cannot express the WHERE clause.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_one_in_progress
		 ON quiz_attempts (user_id, quiz_id)
		 WHERE status = 'IN_PROGRESS' AND deleted_at IS NULL`,
	).Error; err != nil {
		log.Fatalf("Failed to create attempt uniqueness index: %v", err)
	}

	log.Println("Migrations completed successfully.")
}

// SeedDefaults creates the admin user and the settings row if missing
func SeedDefaults(db *gorm.DB) {
	var settingsCount int64
	db.Model(&models.Settings{}).Count(&settingsCount)
	if settingsCount == 0 {
		if err := db.Create(&models.Settings{SiteTitle: "Atom Q"}).Error; err != nil {
			log.Printf("Error seeding settings: %v", err)
		}
	}

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&adminCount)
	if adminCount > 0 {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(config.AppConfig.AdminPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Admin",
		Email:    config.AppConfig.AdminEmail,
		Password: string(hashedPassword),
		Role:     "ADMIN",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user %s", admin.Email)
}
