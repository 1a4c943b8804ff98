package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB holds the database connection
var DB *sql.DB

// InitDB opens and pings the database, then makes sure the schema exists
func InitDB(connStr string) error {
	if connStr == "" {
		return fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	var err error
	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	ctx := context.Background()
	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := InitSchema(ctx, DB); err != nil {
		return err
	}

	log.Printf("✓ Database connection established successfully")
	return nil
}

// InitSchema creates the tables this service writes to
func InitSchema(ctx context.Context, conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			contact_name VARCHAR(200) NOT NULL,
			contact_email VARCHAR(320) NOT NULL,
			contact_phone VARCHAR(40),
			notes TEXT,
			project_type VARCHAR(100) NOT NULL,
			price_net BIGINT NOT NULL,
			price_gross BIGINT NOT NULL,
			deposit BIGINT NOT NULL,
			total_days INT NOT NULL,
			quote JSONB NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS contact_messages (
			id UUID PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			email VARCHAR(320) NOT NULL,
			phone VARCHAR(40),
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
