// Package persistence provides the gorm-backed adapters of the fulfillment
// context: the remote-order cache store and the host order gateway.
package persistence

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/erp/wms-connect/internal/infrastructure/config"
)

// Database owns the gorm connection pool shared by the adapters.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a postgres connection, applies the configured pool
// limits, and verifies connectivity with a ping.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Database{DB: db}, nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	pool, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	return pool.Close()
}

// Ping reports whether the connection is still alive.
func (d *Database) Ping() error {
	pool, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	return pool.Ping()
}

// Transaction runs fn inside a single database transaction.
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}
