package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/school-admin-service/internal/config"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// InitDatabase opens the Postgres connection, tunes the pool and runs
// schema migration for all domain tables.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.Environment == "development" {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.Board{},
		&models.Grade{},
		&models.Section{},
		&models.Subject{},
		&models.Division{},
		&models.DivisionSubject{},
		&models.SubjectTopic{},
		&models.Teacher{},
		&models.Student{},
		&models.StudentDivision{},
		&models.TeacherDivisionSubject{},
		&models.ClassSchedule{},
		&models.ClassDetailsRel{},
		&models.Question{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.PublishedQuiz{},
		&models.StudentQuizResponseRel{},
		&models.TeacherTask{},
	)
}
