package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// migrationSlug lower-cases name and collapses everything else into single underscores.
func migrationSlug(name string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// CreateSQLMigration writes <dir>/<version>_<slug>.sql and returns its path. The version is the
// current UTC time, bumped past the newest existing migration so versions never collide.
// Names shaped like "create <table> table" get a CREATE/DROP TABLE scaffold.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now().UTC())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	var ignored error
	existing, err := listMigrations(dir, &ignored)
	if err != nil {
		return "", err
	}
	version := now.Truncate(time.Second)
	if n := len(existing); n > 0 {
		latest, err := time.Parse(versionTemplate, existing[n-1].version)
		if err == nil && !version.After(latest) {
			version = latest.Add(time.Second)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version.Format(versionTemplate), slug))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("migration already exists: %s", path)
		}
		return "", fmt.Errorf("create migration %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(migrationBody(slug)); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

func migrationBody(slug string) string {
	up := "-- " + slug
	down := "-- revert " + slug
	if table, ok := scaffoldTable(slug); ok {
		up = fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  id BIGSERIAL PRIMARY KEY,\n  created_at TIMESTAMPTZ NOT NULL DEFAULT now()\n);", table)
		down = fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)
	}
	return strings.Join([]string{
		upMarker, statementBegin, up, statementEnd,
		"",
		downMarker, statementBegin, down, statementEnd,
		"",
	}, "\n")
}

func scaffoldTable(slug string) (string, bool) {
	if !strings.HasPrefix(slug, "create_") || !strings.HasSuffix(slug, "_table") {
		return "", false
	}
	table := strings.TrimSuffix(strings.TrimPrefix(slug, "create_"), "_table")
	return table, table != ""
}
