package config

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var (
	DB         *sql.DB
	initDBOnce sync.Once
)

// InitDB initializes the PostgreSQL connection as a singleton.
// Postgres only holds the admin accounts; everything chat related
// lives in MongoDB.
func InitDB() error {
	var initError error
	initDBOnce.Do(func() {
		connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			PostgresUser, PostgresPassword, PostgresHost, PostgresPort, PostgresDB)

		db, err := sql.Open("postgres", connStr)
		if err != nil {
			initError = fmt.Errorf("failed to open PostgreSQL connection: %v", err)
			return
		}

		// Set connection pool limits
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(10 * time.Minute)

		if err := db.Ping(); err != nil {
			initError = fmt.Errorf("failed to ping PostgreSQL: %v", err)
			return
		}

		DB = db
		log.Println("✅ Connected to PostgreSQL!")
	})

	return initError
}

// CloseDB closes the database connection gracefully
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
