package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	dsn, err := SQLiteDSN(":memory:")
	require.NoError(t, err)
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)", dsn)

	dsn, err = SQLiteDSN("file:test?mode=memory")
	require.NoError(t, err)
	assert.Equal(t, "file:test?mode=memory&_pragma=foreign_keys(1)", dsn)

	path := filepath.Join(t.TempDir(), "nested", "chat.db")
	dsn, err = SQLiteDSN(path)
	require.NoError(t, err)
	assert.Contains(t, dsn, path+"?")
	assert.Contains(t, dsn, "journal_mode(wal)")
	assert.DirExists(t, filepath.Dir(path))
}

func TestOpenSQLiteFile(t *testing.T) {
	db, err := Open(Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "chat.db"), Silent: true})
	require.NoError(t, err)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle"})
	assert.Error(t, err)
}
