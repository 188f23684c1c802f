package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the migrate database drivers and
	// the file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"montarreda/internal/models"
)

// ConnectAndMigrate opens the store described by rawDSN and brings the
// schema up to date. A sqlite file path keeps everything local to the
// machine, which is the normal deployment for the shop; a Postgres DSN
// is accepted for shared installs.
func ConnectAndMigrate(rawDSN string) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN è vuoto, verificare la configurazione dell'ambiente")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	if IsPostgresDSN(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			fmt.Println("Retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// Basic connectivity test
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// If MIGRATIONS=1 we run sql migrations via golang-migrate; otherwise
	// AutoMigrate keeps the schema current (dev convenience, and the normal
	// path for the embedded sqlite store).
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range []interface{}{&models.User{}, &models.Timbratura{}, &models.Lavoro{}} {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	// sanity check: ensure required tables exist
	for _, table := range []string{"users", "timbrature", "lavori"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// seed inserts the shop's initial users, skipping names already present.
func seed(db *gorm.DB) {
	baseUsers := []models.User{
		{FullName: "Carlo D'Elia", Code: "0000"},
		{FullName: "Giovanni Tarantino", Code: "1111"},
		{FullName: "Samuele Tarantino", Code: "2222"},
	}
	for _, u := range baseUsers {
		var existing models.User
		if err := db.Where("full_name = ?", u.FullName).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&u)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	target := dsn
	if !IsPostgresDSN(dsn) {
		target = "sqlite3://" + dsn
	}
	m, err := migrate.New("file://migrations", target)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
