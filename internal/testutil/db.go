// Package testutil provides test database setup.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/MrMEEE/yseal/internal/migrations"
)

// NewTestDB creates an in-memory SQLite database with the full schema
// applied. The database is closed when the test finishes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// in-memory SQLite vanishes if the pool opens a second connection
	db.SetMaxOpenConns(1)
	require.NoError(t, migrations.Up(db.DB))
	t.Cleanup(func() { db.Close() })
	return db
}
