package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a SQLite database. Used for local development and
// tests; production deployments run against PostgreSQL.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

// Connect opens the database selected by the DSN. DSNs with a sqlite://
// scheme (or the literal :memory:) use the SQLite driver, everything else
// goes through PostgreSQL.
func Connect(dsn string, maxOpen, maxIdle, connMaxLife int) (*gorm.DB, error) {
	if path, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return NewSQLiteDB(path)
	}
	if dsn == ":memory:" {
		return NewSQLiteDB(":memory:")
	}
	return NewPostgresDB(dsn, maxOpen, maxIdle, connMaxLife)
}
