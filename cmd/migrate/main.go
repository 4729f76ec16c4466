package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/narwhalmedia/marquee/internal/owned/repository"
	"github.com/narwhalmedia/marquee/pkg/config"
	"github.com/narwhalmedia/marquee/pkg/database"
)

func main() {
	var (
		driver = flag.String("driver", "", "Database driver (sqlite, postgres); overrides configuration")
		dsn    = flag.String("dsn", "", "Database DSN; overrides configuration")
		status = flag.Bool("status", false, "Show migration status")
		dryRun = flag.Bool("dry-run", false, "Show pending migrations without applying them")
	)
	flag.Parse()

	cfg := config.MustLoadServiceConfig(config.DefaultServiceName, config.GetDefaults())

	dbCfg := cfg.Database.ToDatabaseConfig()
	if *driver != "" {
		dbCfg.Driver = *driver
	}
	if *dsn != "" {
		dbCfg.DSN = *dsn
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Connect to database
	db, closeDB, err := database.Open(context.Background(), dbCfg, zl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB()

	migrator := database.NewMigrator(db, repository.Migrations()...)

	// Handle different commands
	switch {
	case *status:
		showMigrationStatus(db, migrator)
	case *dryRun:
		showPendingMigrations(migrator)
	default:
		runMigrations(migrator)
	}
}

// runMigrations applies all pending migrations
func runMigrations(migrator *database.Migrator) {
	fmt.Println("Running database migrations...")

	applied, err := migrator.Migrate()
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	for _, version := range applied {
		fmt.Printf("Applied %s\n", version)
	}
	fmt.Println("Migrations completed successfully!")
}

// showMigrationStatus displays the current migration status
func showMigrationStatus(db *gorm.DB, migrator *database.Migrator) {
	pending, err := migrator.GetPendingMigrations()
	if err != nil {
		log.Fatalf("Failed to get pending migrations: %v", err)
	}

	var migrations []database.Migration
	if err := db.Order("applied_at DESC").Find(&migrations).Error; err != nil {
		log.Fatalf("Failed to get migrations: %v", err)
	}

	if len(migrations) == 0 {
		fmt.Println("No migrations have been applied yet.")
	} else {
		fmt.Println("Applied migrations:")
		fmt.Println("==================")
		for _, m := range migrations {
			fmt.Printf("%s | %s | Applied at: %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
		}
	}

	if len(pending) > 0 {
		fmt.Println("\nPending migrations:")
		fmt.Println("==================")
		for _, m := range pending {
			fmt.Printf("%s | %s\n", m.Version, m.Name)
		}
	} else {
		fmt.Println("\nAll migrations are up to date!")
	}
}

// showPendingMigrations displays migrations that would be applied
func showPendingMigrations(migrator *database.Migrator) {
	pending, err := migrator.GetPendingMigrations()
	if err != nil {
		log.Fatalf("Failed to get pending migrations: %v", err)
	}

	if len(pending) == 0 {
		fmt.Println("No pending migrations.")
		return
	}

	fmt.Println("Pending migrations that would be applied:")
	fmt.Println("========================================")
	for _, m := range pending {
		fmt.Printf("%s | %s\n", m.Version, m.Name)
	}
}
