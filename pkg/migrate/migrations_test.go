package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSubmissionsMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_order_submissions.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one order_submissions migration, found %d", len(matches))
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS order_submissions",
		"total NUMERIC(12,2) NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_order_submissions_checkout_store",
		"CREATE INDEX IF NOT EXISTS idx_order_submissions_orphaned",
		"DROP TABLE IF EXISTS order_submissions",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateFS(t *testing.T) {
	if err := ValidateFS(Embedded()); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}

	dir := t.TempDir()
	if err := ValidateFS(Source(dir)); err == nil {
		t.Fatalf("expected empty dir to fail")
	}

	if err := os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateFS(Source(dir)); err == nil || !strings.Contains(err.Error(), "invalid migration filename") {
		t.Fatalf("expected filename error, got %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Submission Notes!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_submission_notes.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateFS(Source(dir)); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Add Submission Notes!": "add_submission_notes",
		"  orders--index  ":     "orders_index",
		"café":                  "caf",
		"???":                   "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFilename(t *testing.T) {
	if v, ok := parseFilename("20261001120000_create_order_submissions.sql"); !ok || v != "20261001120000" {
		t.Fatalf("expected valid filename, got %q %v", v, ok)
	}
	for _, bad := range []string{"2026_create.sql", "20261399120000_x.sql", "20261001120000_Bad-Name.sql", "20261001120000.sql"} {
		if _, ok := parseFilename(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
