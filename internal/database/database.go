package database

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iTakecare/itakecarehub-sub001/internal/config"
	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

// NewDatabase opens the database connection, retrying the initial ping with
// exponential backoff so the API survives a slow-starting postgres.
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.ConnectionString()

	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		return nil
	}

	retries := cfg.ConnectRetries
	if retries <= 0 {
		retries = 1
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries))
	notify := func(err error, next time.Duration) {
		log.Warn("Database connection failed, retrying",
			zap.Error(err),
			zap.Duration("next_attempt_in", next),
		)
	}
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return db, nil
}

// AutoMigrate runs automatic migrations (for development only)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Leaser{},
		&domain.LeaserRange{},
		&domain.CommissionLevel{},
		&domain.CommissionRange{},
		&domain.Client{},
		&domain.Ambassador{},
		&domain.Offer{},
		&domain.EquipmentItem{},
		&domain.WorkflowLog{},
		&domain.Contract{},
		&domain.Document{},
	)
}
