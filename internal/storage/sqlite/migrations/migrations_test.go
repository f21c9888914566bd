package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/storage/sqlite/migrations"
)

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestMigratorUpDown(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrations.db"))
	require.NoError(err)
	t.Cleanup(func() { db.Close() })

	m, err := migrations.NewMigrator(db, log.Noop)
	require.NoError(err)

	require.NoError(m.Up(context.Background()))
	assert.True(tableExists(t, db, "runs"))

	// Running again is a no-op.
	require.NoError(m.Up(context.Background()))

	require.NoError(m.Down(context.Background()))
	assert.False(tableExists(t, db, "runs"))
}

func TestNewMigratorWithoutDB(t *testing.T) {
	_, err := migrations.NewMigrator(nil, log.Noop)
	assert.Error(t, err)
}

func TestMigratorVersion(t *testing.T) {
	require := require.New(t)

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "version.db"))
	require.NoError(err)
	t.Cleanup(func() { db.Close() })

	m, err := migrations.NewMigrator(db, log.Noop)
	require.NoError(err)

	v, err := m.Version(context.Background())
	require.NoError(err)
	assert.Equal(t, uint(0), v)

	require.NoError(m.Up(context.Background()))
	v, err = m.Version(context.Background())
	require.NoError(err)
	assert.Equal(t, uint(1), v)
}
