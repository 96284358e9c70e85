package database

import (
	"fmt"

	"rentledger/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for every model. Split out from
// NewConnection so sqlite-backed tests can reuse it.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Apartment{},
		&model.Rate{},
		&model.Intermediary{},
		&model.Income{},
		&model.Expense{},
		&model.AuditLog{},
	)
}
