package pkg

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/config"
	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the PostgreSQL connection and migrates the schema.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for every governance model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.SequenceCounter{},
		&models.User{},
		&models.Faculty{},
		&models.Degree{},
		&models.Specialty{},
		&models.Subject{},
		&models.SubjectAggregate{},
		&models.Proposal{},
		&models.ProfessorProposal{},
		&models.TokenGrant{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
