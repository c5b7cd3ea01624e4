package database

import (
	"fmt"
	"log"
	"os"

	"learnhub/config"
	"learnhub/models"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	"learnhub/models/gamification"
	"learnhub/models/platform"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes the connection selected by DB_DRIVER
func ConnectDb() {
	cfg := config.AppConfig

	db, err := Open(cfg.DBDriver, BuildDSN(cfg))
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)   // Maximum open connections
	sqlDB.SetMaxIdleConns(5)    // Maximum idle connections
	sqlDB.SetConnMaxLifetime(0) // No timeout

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// Open returns a gorm handle for the given driver name
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	// TranslateError maps unique violations to gorm.ErrDuplicatedKey on every driver
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// BuildDSN assembles a driver specific DSN unless DB_DSN is set
func BuildDSN(cfg *config.Config) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	switch cfg.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case "sqlite":
		return cfg.DBName + ".db"
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.CourseContent{},
		&courseModels.ContentCompletion{},
		&courseModels.Enrollment{},
		&courseModels.MCQOption{},
		&courseModels.MCQAttempt{},
		&courseModels.CertificateRequest{},
		&courseModels.Certificate{},
		&courseModels.Review{},
		&billing.WalletTransaction{},
		&billing.Coupon{},
		&billing.Payment{},
		&billing.Commission{},
		&platform.FeatureFlag{},
		&platform.FeatureFlagOverride{},
		&platform.VideoJob{},
		&platform.Webhook{},
		&platform.WebhookDelivery{},
		&gamification.PointsEntry{},
	)
	if err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}
