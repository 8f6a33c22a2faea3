package data

import (
	"database/sql"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/conf"
)

// Data holds the process-wide database handle. It is created once before the
// first query and is safe for concurrent read use; the pool is managed by
// database/sql.
type Data struct {
	db *sql.DB
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	db, err := sql.Open(c.Database.Driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		db.Close()
	}
	return &Data{db: db}, cleanup, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			access_code_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS store_patterns (
			id SERIAL PRIMARY KEY,
			store_code TEXT NOT NULL REFERENCES stores(code),
			month TEXT NOT NULL,
			categories JSONB NOT NULL DEFAULT '{}',
			weekday_slots JSONB NOT NULL DEFAULT '[]',
			weekend_slots JSONB NOT NULL DEFAULT '[]',
			weekend_ratio DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			UNIQUE (store_code, month)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price INTEGER NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			month TEXT NOT NULL,
			monthly_sales INTEGER NOT NULL DEFAULT 0,
			sales_rank INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}
