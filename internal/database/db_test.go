package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T, name string, profile Profile) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_CreatesDirectoryAndConnects(t *testing.T) {
	dir := t.TempDir()
	db, err := New(Config{
		Path: filepath.Join(dir, "nested", "deeper", "goals.db"),
		Name: "goals",
	})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "goals", db.Name())
	assert.NoError(t, db.QuickCheck(context.Background()))
}

func TestMigrate_AppliesSchemas(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		table   string
	}{
		{"goals", ProfileStandard, "financial_goals"},
		{"optimizer", ProfileStandard, "gap_analyses"},
		{"cache", ProfileCache, "summary_cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openDB(t, tt.name, tt.profile)
			require.NoError(t, db.Migrate())

			var count int
			err := db.Conn().QueryRow(
				`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
				tt.table,
			).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			// Idempotent, can run on every startup.
			assert.NoError(t, db.Migrate())
		})
	}
}

func TestMigrate_UnknownDatabaseIsNoop(t *testing.T) {
	db := openDB(t, "scratch", ProfileStandard)
	assert.NoError(t, db.Migrate())
}

func TestHealthCheck(t *testing.T) {
	db := openDB(t, "goals", ProfileStandard)
	require.NoError(t, db.Migrate())

	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestWithTransaction_Commit(t *testing.T) {
	db := openDB(t, "goals", ProfileStandard)
	require.NoError(t, db.Migrate())

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO financial_goals (id, name, created_date)
			VALUES ('g1', 'Test goal', '2026-01-01T00:00:00Z')`)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM financial_goals`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := openDB(t, "goals", ProfileStandard)
	require.NoError(t, db.Migrate())

	sentinel := errors.New("business rule violated")
	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, execErr := tx.Exec(`INSERT INTO financial_goals (id, name, created_date)
			VALUES ('g1', 'Test goal', '2026-01-01T00:00:00Z')`)
		require.NoError(t, execErr)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM financial_goals`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransaction_NilDB(t *testing.T) {
	err := WithTransaction(nil, func(tx *sql.Tx) error { return nil })
	assert.Error(t, err)
}
