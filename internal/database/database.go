package database

import (
	"fmt"
	"time"

	"staffing-platform-backend/internal/database/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	LogLevel        logger.LogLevel
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// SkipMigrate leaves the schema untouched; migration runs by default
	SkipMigrate bool
}

// applyDefaults normalizes nil or zero-valued options
func applyDefaults(opts *Options) *Options {
	if opts == nil {
		opts = &Options{}
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Error
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 20
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 10
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}
	if opts.ConnMaxIdleTime == 0 {
		opts.ConnMaxIdleTime = 10 * time.Minute
	}
	return opts
}

// Initialize opens a Postgres connection and creates the schema from GORM
// models, including the partial unique index backing the candidate lock.
func Initialize(dsn string, opts *Options) (*gorm.DB, error) {
	opts = applyDefaults(opts)

	// Open DB
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	// Ensure required extension for UUID generation (used by BaseModel default gen_random_uuid())
	_ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error

	if !opts.SkipMigrate {
		all := []interface{}{
			&models.Agency{},
			&models.Employer{},
			&models.Employee{},
			&models.Location{},
			&models.Assignment{},
			&models.AssignmentExtension{},
			&models.Shift{},
			&models.ShiftOffer{},
			&models.Timesheet{},
			&models.Invoice{},
			&models.Payout{},
			&models.Payroll{},
			&models.AuditLog{},
			&models.WebhookSubscription{},
		}
		if err := db.AutoMigrate(all...); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}

		// Candidate lock: at most one pending offer per shift. GORM cannot
		// express a partial unique index via tags, so it is created here.
		if err := db.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_offers_pending_shift
			 ON shift_offers (shift_id) WHERE status = 'pending'`,
		).Error; err != nil {
			return nil, fmt.Errorf("create candidate-lock index: %w", err)
		}
	}

	return db, nil
}
