package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const versionLayout = "20060102150405"

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty timestamped goose migration into dir and
// returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q is empty after normalizing", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir %q: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", time.Now().UTC().Format(versionLayout), slug))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %q: %w", path, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, migrationTemplate, slug); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

// ValidateFS checks every .sql file in fsys: timestamped snake_case name,
// unique version, and both goose sections present.
func ValidateFS(fsys fs.FS) error {
	if fsys == nil {
		return fmt.Errorf("migration source is required")
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	versions := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		version, ok := parseFilename(name)
		if !ok {
			return fmt.Errorf("invalid migration filename %q (want <%s>_<snake_name>.sql)", name, versionLayout)
		}
		if prev, dup := versions[version]; dup {
			return fmt.Errorf("migration version %s used by %q and %q", version, prev, name)
		}
		versions[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %q: %w", name, err)
		}
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(body), marker) {
				return fmt.Errorf("migration %q lacks %q", name, marker)
			}
		}
	}
	if len(versions) == 0 {
		return fmt.Errorf("no migrations found")
	}
	return nil
}

func parseFilename(name string) (string, bool) {
	base := strings.TrimSuffix(name, ".sql")
	version, slug, found := strings.Cut(base, "_")
	if !found || len(version) != len(versionLayout) || slug == "" {
		return "", false
	}
	if _, err := time.Parse(versionLayout, version); err != nil {
		return "", false
	}
	if slugify(slug) != slug {
		return "", false
	}
	return version, true
}

func slugify(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
