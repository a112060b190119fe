package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScriptsDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "mysql"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sqlite"), 0o755))
	return root
}

func TestCreateScripts(t *testing.T) {
	root := setupScriptsDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "mysql", "000001_init.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "mysql", "000001_init.down.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlite", "00001_init.sql"), nil, 0o644))

	created, err := CreateScripts(root, "Add Refund Column")
	require.NoError(t, err)
	require.Len(t, created, 3)

	for _, path := range []string{
		filepath.Join(root, "mysql", "000002_add_refund_column.up.sql"),
		filepath.Join(root, "mysql", "000002_add_refund_column.down.sql"),
		filepath.Join(root, "sqlite", "00002_add_refund_column.sql"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	content, err := os.ReadFile(filepath.Join(root, "sqlite", "00002_add_refund_column.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "+goose Up")
	assert.Contains(t, string(content), "+goose Down")
}

func TestCreateScripts_FirstMigration(t *testing.T) {
	root := setupScriptsDir(t)

	created, err := CreateScripts(root, "init")
	require.NoError(t, err)
	assert.Len(t, created, 3)

	_, err = os.Stat(filepath.Join(root, "mysql", "000001_init.up.sql"))
	assert.NoError(t, err)
}

func TestCreateScripts_EmptyName(t *testing.T) {
	root := setupScriptsDir(t)

	_, err := CreateScripts(root, "  ")
	require.Error(t, err)
}
