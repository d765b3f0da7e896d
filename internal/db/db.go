package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	db.Exec(
		"UPDATE salons SET timezone = ? WHERE timezone IS NULL OR timezone = ''",
		cfg.DefaultTimezone,
	)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.Staff{},
		&models.Service{},
		&models.Client{},
		&models.WorkingHours{},
		&models.ScheduleOverride{},
		&models.Appointment{},
		&models.SlotLock{},
		&models.WaitlistEntry{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// IsPostgres reports whether row locks (SELECT ... FOR UPDATE) are available.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
