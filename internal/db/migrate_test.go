package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindMigrationsDirWalksUp(t *testing.T) {
	root := t.TempDir()
	migrations := filepath.Join(root, migrationsDirName)
	nested := filepath.Join(root, "cmd", "hatim-app")
	require.NoError(t, os.MkdirAll(migrations, 0o755))
	require.NoError(t, os.MkdirAll(nested, 0o755))

	chdir(t, nested)

	found, err := findMigrationsDir(migrationsDirName)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(migrations)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFindMigrationsDirMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := findMigrationsDir("no-such-migrations-dir")
	require.ErrorIs(t, err, os.ErrNotExist)
}
