package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration represents an applied database migration
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// MigrationFunc is a function that performs a migration
type MigrationFunc func(*gorm.DB) error

// MigrationEntry represents a single migration
type MigrationEntry struct {
	Version string
	Name    string
	Up      MigrationFunc
}

// Migrator handles database migrations
type Migrator struct {
	db         *gorm.DB
	migrations []MigrationEntry
}

// NewMigrator creates a migrator for the given ordered migrations
func NewMigrator(db *gorm.DB, migrations ...MigrationEntry) *Migrator {
	return &Migrator{
		db:         db,
		migrations: migrations,
	}
}

// Migrate runs all pending migrations and returns the versions it applied
func (m *Migrator) Migrate() ([]string, error) {
	if err := m.db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}

			return tx.Create(&Migration{
				Version:   migration.Version,
				Name:      migration.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return ran, fmt.Errorf("failed to run migration %s: %w", migration.Version, err)
		}
		ran = append(ran, migration.Version)
	}

	return ran, nil
}

// GetPendingMigrations returns the migrations that haven't been applied yet
func (m *Migrator) GetPendingMigrations() ([]MigrationEntry, error) {
	if err := m.db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return nil, err
	}

	var pending []MigrationEntry
	for _, migration := range m.migrations {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}

	return pending, nil
}

func (m *Migrator) appliedVersions() (map[string]bool, error) {
	var appliedMigrations []Migration
	if err := m.db.Find(&appliedMigrations).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(appliedMigrations))
	for _, migration := range appliedMigrations {
		applied[migration.Version] = true
	}
	return applied, nil
}
