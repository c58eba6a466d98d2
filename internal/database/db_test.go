package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	body, err := fs.ReadFile(migrationFiles, "migrations/00001_init.sql")
	require.NoError(t, err)
	sql := string(body)
	require.True(t, strings.HasPrefix(sql, "-- +goose Up"))
	require.Contains(t, sql, "UNIQUE KEY uk_reservation_slot (date, time_id, theme_id)")
	require.Contains(t, sql, "UNIQUE KEY uk_reservation_time_start_at (start_at)")
	require.Contains(t, sql, "ON DELETE RESTRICT")
}
