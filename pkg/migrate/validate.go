package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

const (
	upMarker        = "-- +goose Up"
	downMarker      = "-- +goose Down"
	statementBegin  = "-- +goose StatementBegin"
	statementEnd    = "-- +goose StatementEnd"
	versionTemplate = "20060102150405"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

type migrationFile struct {
	version string
	name    string
	path    string
}

// listMigrations returns the well-formed .sql files of dir ordered by version. Malformed
// filenames are reported through problems.
func listMigrations(dir string, problems *error) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	files := make([]migrationFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := migrationFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			multierr.AppendInto(problems, fmt.Errorf("%s: filename must look like %s_name.sql", e.Name(), versionTemplate))
			continue
		}
		files = append(files, migrationFile{version: m[1], name: e.Name(), path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

// ValidateDir reports every malformed migration in dir at once: bad filenames, reused
// versions, missing or misordered Up/Down sections and unbalanced statement blocks.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var problems error
	files, err := listMigrations(dir, &problems)
	if err != nil {
		return err
	}

	seen := map[string]string{}
	for _, f := range files {
		if prev, ok := seen[f.version]; ok {
			multierr.AppendInto(&problems, fmt.Errorf("%s: version %s already used by %s", f.name, f.version, prev))
		}
		seen[f.version] = f.name

		body, err := os.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.path, err)
		}
		checkSections(f.name, string(body), &problems)
	}
	return problems
}

func checkSections(name, body string, problems *error) {
	up := strings.Index(body, upMarker)
	down := strings.Index(body, downMarker)
	switch {
	case up < 0:
		multierr.AppendInto(problems, fmt.Errorf("%s: missing %q", name, upMarker))
	case down < 0:
		multierr.AppendInto(problems, fmt.Errorf("%s: missing %q", name, downMarker))
	case down < up:
		multierr.AppendInto(problems, fmt.Errorf("%s: down section precedes up section", name))
	}

	open := false
	for i, line := range strings.Split(body, "\n") {
		switch strings.TrimSpace(line) {
		case statementBegin:
			if open {
				multierr.AppendInto(problems, fmt.Errorf("%s:%d: statement block opened twice", name, i+1))
			}
			open = true
		case statementEnd:
			if !open {
				multierr.AppendInto(problems, fmt.Errorf("%s:%d: statement block closed without being opened", name, i+1))
			}
			open = false
		case upMarker, downMarker:
			if open {
				multierr.AppendInto(problems, fmt.Errorf("%s:%d: section starts inside a statement block", name, i+1))
				open = false
			}
		}
	}
	if open {
		multierr.AppendInto(problems, fmt.Errorf("%s: statement block is never closed", name))
	}
}
