package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestMigrator_AppliesPendingOnce(t *testing.T) {
	db := newTestDB(t)
	calls := 0
	entries := []MigrationEntry{
		{
			Version: "001",
			Name:    "create widgets",
			Up: func(tx *gorm.DB) error {
				calls++
				return tx.AutoMigrate(&widget{})
			},
		},
	}

	ran, err := NewMigrator(db, entries...).Migrate()
	require.NoError(t, err)
	assert.Equal(t, []string{"001"}, ran)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	ran, err = NewMigrator(db, entries...).Migrate()
	require.NoError(t, err)
	assert.Empty(t, ran)
	assert.Equal(t, 1, calls)

	pending, err := NewMigrator(db, entries...).GetPendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	db := newTestDB(t)
	entries := []MigrationEntry{
		{Version: "001", Name: "broken", Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE TABLE").Error
		}},
	}

	_, err := NewMigrator(db, entries...).Migrate()
	require.Error(t, err)

	pending, err := NewMigrator(db, entries...).GetPendingMigrations()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestConfig_PostgresDSN(t *testing.T) {
	cfg := &Config{Host: "db", Port: 5432, User: "u", Password: "p", Database: "marquee", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=marquee sslmode=disable", cfg.PostgresDSN())

	cfg.DSN = "postgres://explicit"
	assert.Equal(t, "postgres://explicit", cfg.PostgresDSN())
}

func TestConfig_UnsupportedDriver(t *testing.T) {
	_, err := (&Config{Driver: "mysql"}).dialector()
	assert.Error(t, err)
}
