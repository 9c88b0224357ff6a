// Package repotest opens throwaway in-memory stores for tests.
package repotest

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"studio-marketplace/internal/core/database"
	"studio-marketplace/internal/repo"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// A single connection keeps the in-memory database alive for the test's lifetime.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.NewStore(db).Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewStore(t testing.TB) *repo.Store {
	t.Helper()
	return repo.NewStore(NewDB(t))
}
