package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Type returns the configured database type: "sqlite" (default) or "postgres"
func Type() string {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}
	return dbType
}

// Connect establishes a connection to the database
func Connect() error {
	if Type() == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// SQLite (default): keep the file under a local data directory
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, "flashdeck.db")
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create cards table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			deck TEXT NOT NULL,
			prompt TEXT NOT NULL,
			answer TEXT NOT NULL,
			topic TEXT DEFAULT '',
			difficulty INTEGER DEFAULT 1,
			position INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(deck, prompt)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %v", err)
	}

	// Create card_schedules table
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if Type() == "postgres" {
		idColumn = "SERIAL PRIMARY KEY"
	}
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS card_schedules (
			id ` + idColumn + `,
			deck TEXT NOT NULL,
			card_id TEXT NOT NULL,
			ease_factor REAL DEFAULT 2.5,
			interval INTEGER DEFAULT 0,
			repetitions INTEGER DEFAULT 0,
			next_review_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_review_at TIMESTAMP,
			last_rating INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (card_id) REFERENCES cards(id),
			UNIQUE(deck, card_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create card_schedules table: %v", err)
	}

	// Create deck_progress table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS deck_progress (
			deck TEXT PRIMARY KEY,
			studied INTEGER DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create deck_progress table: %v", err)
	}

	// Create global_stats table (single row, id always 1)
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS global_stats (
			id INTEGER PRIMARY KEY,
			total_studied INTEGER DEFAULT 0,
			current_streak INTEGER DEFAULT 0,
			last_study_date TEXT DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create global_stats table: %v", err)
	}

	return nil
}
