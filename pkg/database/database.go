package database

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds database connection configuration
type Config struct {
	Driver          string
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime time.Duration
	ConnectAttempts uint
	Debug           bool
}

// DefaultConfig returns a local sqlite configuration
func DefaultConfig() *Config {
	return &Config{
		Driver:          "sqlite",
		DSN:             "marquee.db",
		SSLMode:         "disable",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: time.Hour,
		ConnectAttempts: 5,
	}
}

// PostgresDSN builds a key/value DSN unless an explicit one is set.
func (c *Config) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "sqlite":
		return sqlite.Open(c.DSN), nil
	case "postgres":
		return postgres.Open(c.PostgresDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
}

// Open connects to the configured database, retrying while it comes up.
// The returned cleanup closes the underlying pool.
func Open(ctx context.Context, cfg *Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, nil, err
	}

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	var db *gorm.DB
	err = retry.Do(
		func() error {
			var openErr error
			db, openErr = gorm.Open(dialector, &gorm.Config{
				Logger: NewGormLogger(logger, cfg.Debug),
				NowFunc: func() time.Time {
					return time.Now().UTC()
				},
				PrepareStmt: cfg.Driver == "postgres",
			})
			if openErr != nil {
				return openErr
			}
			sqlDB, openErr := db.DB()
			if openErr != nil {
				return openErr
			}
			return sqlDB.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database not ready, retrying",
				zap.Uint("attempt", n+1),
				zap.String("driver", cfg.Driver),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// Configure connection pool
	if cfg.Driver == "sqlite" {
		// a single writer keeps sqlite from returning SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
		sqlDB.SetMaxIdleConns(cfg.MinConnections)
	}
	sqlDB.SetConnMaxLifetime(cfg.MaxConnLifetime)

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}

	return db, cleanup, nil
}
