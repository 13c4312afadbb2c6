package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/productmgmt-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestDirectoryMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_directory_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS currencies",
		"CREATE TABLE IF NOT EXISTS stores",
		"CREATE TABLE IF NOT EXISTS store_currencies",
		"PRIMARY KEY (store_id, currency_code)",
		"CREATE TABLE IF NOT EXISTS price_types",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_price_types_name",
		"CREATE TABLE IF NOT EXISTS locales",
		"DROP TABLE IF EXISTS currencies",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_product_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS product_abstracts",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_abstracts_sku",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_localized_attributes_product_locale",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_price_product_stores_coordinate",
		"FOREIGN KEY (price_product_id) REFERENCES price_products(id) ON DELETE CASCADE",
		"CHECK (gross_amount IS NULL OR gross_amount >= 0)",
		"DROP TABLE IF EXISTS price_product_stores",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestImageMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_product_image_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS product_image_sets",
		"CREATE TABLE IF NOT EXISTS product_images",
		"FOREIGN KEY (product_abstract_id) REFERENCES product_abstracts(id) ON DELETE CASCADE",
		"FOREIGN KEY (product_image_set_id) REFERENCES product_image_sets(id) ON DELETE CASCADE",
		"CHECK (btrim(name) <> '')",
		"CHECK (btrim(external_url_small) <> '')",
		"CHECK (btrim(external_url_large) <> '')",
		"DROP TABLE IF EXISTS product_image_sets",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Price Dimensions!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_price_dimensions.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := migrate.CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatalf("expected error for unusable name")
	}
}

func TestCreateSQLMigrationScaffoldsTables(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Create bundle_items table")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, sub := range []string{"CREATE TABLE IF NOT EXISTS bundle_items (", "DROP TABLE IF EXISTS bundle_items;"} {
		if !strings.Contains(string(data), sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationNeverReusesVersions(t *testing.T) {
	dir := t.TempDir()
	future := filepath.Join(dir, "29991231235958_future.sql")
	if err := os.WriteFile(future, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	first, err := migrate.CreateSQLMigration(dir, "first")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	second, err := migrate.CreateSQLMigration(dir, "second")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(first) != "29991231235959_first.sql" {
		t.Fatalf("unexpected filename %s", first)
	}
	if filepath.Base(second) != "30000101000000_second.sql" {
		t.Fatalf("unexpected filename %s", second)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migrations should validate: %v", err)
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"20260101000000_ok.sql":         "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n-- +goose Down\n",
		"20260101000000_duplicate.sql":  "-- +goose Up\n-- +goose Down\n",
		"20260102000000_no_down.sql":    "-- +goose Up\nSELECT 1;\n",
		"20260103000000_reversed.sql":   "-- +goose Down\n-- +goose Up\n",
		"20260104000000_unbalanced.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		"Add Things.sql":                "-- +goose Up\n-- +goose Down\n",
		"notes.txt":                     "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	err := migrate.ValidateDir(dir)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, sub := range []string{
		"Add Things.sql: filename must look like",
		"version 20260101000000 already used",
		`20260102000000_no_down.sql: missing "-- +goose Down"`,
		"20260103000000_reversed.sql: down section precedes up section",
		"20260104000000_unbalanced.sql:4: section starts inside a statement block",
	} {
		if !strings.Contains(msg, sub) {
			t.Errorf("expected %q in %q", sub, msg)
		}
	}
	if strings.Contains(msg, "notes.txt") {
		t.Errorf("non-sql files must be ignored: %q", msg)
	}
}

func TestDialect(t *testing.T) {
	if got := migrate.Dialect("sqlite"); got != "sqlite3" {
		t.Fatalf("expected sqlite3, got %s", got)
	}
	if got := migrate.Dialect("postgres"); got != "postgres" {
		t.Fatalf("expected postgres, got %s", got)
	}
}
