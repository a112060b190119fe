package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var scriptNamePattern = regexp.MustCompile(`^(\d+)_`)

// CreateScripts scaffolds an empty migration under both dialect directories.
// Every schema change ships for MySQL and SQLite together, so one call
// produces the golang-migrate up/down pair and the goose-annotated file,
// each numbered after the highest existing script in its directory.
func CreateScripts(scriptsPath, name string) ([]string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return nil, fmt.Errorf("migration name is required")
	}

	mysqlDir := filepath.Join(scriptsPath, "mysql")
	sqliteDir := filepath.Join(scriptsPath, "sqlite")

	mysqlSeq, err := nextScriptSequence(mysqlDir)
	if err != nil {
		return nil, err
	}
	sqliteSeq, err := nextScriptSequence(sqliteDir)
	if err != nil {
		return nil, err
	}

	files := map[string]string{
		filepath.Join(mysqlDir, fmt.Sprintf("%06d_%s.up.sql", mysqlSeq, name)):   "",
		filepath.Join(mysqlDir, fmt.Sprintf("%06d_%s.down.sql", mysqlSeq, name)): "",
		filepath.Join(sqliteDir, fmt.Sprintf("%05d_%s.sql", sqliteSeq, name)):    "-- +goose Up\n\n-- +goose Down\n",
	}

	created := make([]string, 0, len(files))
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return created, fmt.Errorf("failed to write %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}

// nextScriptSequence returns one past the highest numeric prefix in dir.
func nextScriptSequence(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read scripts directory %s: %w", dir, err)
	}

	max := 0
	for _, entry := range entries {
		m := scriptNamePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}
