package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect opens the database, stores it in DB and prepares the schema
func Connect(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open establishes a connection and initializes the schema
func Open(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite && dsn != ":memory:" {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	timestamp := "TIMESTAMP"
	if db.DriverName() == DriverPostgres {
		timestamp = "TIMESTAMPTZ"
	}

	statements := []struct {
		table string
		ddl   string
	}{
		{"learners", `
			CREATE TABLE IF NOT EXISTS learners (
				telegram_id BIGINT PRIMARY KEY,
				username TEXT NOT NULL DEFAULT '',
				first_name TEXT NOT NULL DEFAULT '',
				notification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
				notification_hour INTEGER NOT NULL DEFAULT 9,
				created_at ` + timestamp + ` NOT NULL,
				updated_at ` + timestamp + ` NOT NULL
			)`},
		{"words", `
			CREATE TABLE IF NOT EXISTS words (
				id TEXT PRIMARY KEY,
				word TEXT NOT NULL UNIQUE,
				translation TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				proficiency_tier INTEGER NOT NULL DEFAULT 1,
				created_at ` + timestamp + ` NOT NULL,
				updated_at ` + timestamp + ` NOT NULL
			)`},
		{"daily_challenges", `
			CREATE TABLE IF NOT EXISTS daily_challenges (
				id TEXT PRIMARY KEY,
				owner TEXT NOT NULL,
				challenge_date TEXT NOT NULL,
				item_ids TEXT NOT NULL,
				completed_item_ids TEXT NOT NULL DEFAULT '[]',
				mastery_scores TEXT NOT NULL DEFAULT '{}',
				review_item_ids TEXT NOT NULL DEFAULT '[]',
				difficulty_tier INTEGER NOT NULL DEFAULT 1,
				is_completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at ` + timestamp + ` NOT NULL,
				updated_at ` + timestamp + ` NOT NULL,
				UNIQUE(owner, challenge_date)
			)`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.table, err)
		}
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_words_tier ON words (proficiency_tier)`); err != nil {
		return fmt.Errorf("failed to create words index: %w", err)
	}
	return nil
}
