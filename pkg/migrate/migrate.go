package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pressly/goose/v3"
)

// DefaultDir is the migrations directory relative to the repository root.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Embedded returns the migrations compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrations not embedded: %v", err))
	}
	return sub
}

// Source resolves where migrations are read from: an explicit directory, or
// the embedded set when dir is empty.
func Source(dir string) fs.FS {
	if strings.TrimSpace(dir) == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}

// Applied describes one migration touched by a run.
type Applied struct {
	Version   int64
	Path      string
	Direction string
}

// State describes one migration known to the database.
type State struct {
	Version int64
	Path    string
	Applied bool
}

func newProvider(db *sql.DB, fsys fs.FS) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if fsys == nil {
		return nil, fmt.Errorf("migration source is required")
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, fsys fs.FS) ([]Applied, error) {
	provider, err := newProvider(db, fsys)
	if err != nil {
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}
	return toApplied(results), nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, fsys fs.FS) ([]Applied, error) {
	provider, err := newProvider(db, fsys)
	if err != nil {
		return nil, err
	}
	result, err := provider.Down(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose down: %w", err)
	}
	return toApplied([]*goose.MigrationResult{result}), nil
}

// Status lists every known migration and whether it has been applied.
func Status(ctx context.Context, db *sql.DB, fsys fs.FS) ([]State, error) {
	provider, err := newProvider(db, fsys)
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]State, 0, len(statuses))
	for _, st := range statuses {
		if st == nil || st.Source == nil {
			continue
		}
		out = append(out, State{
			Version: st.Source.Version,
			Path:    st.Source.Path,
			Applied: st.State == goose.StateApplied,
		})
	}
	return out, nil
}

// ToVersion migrates up or down until the database sits at target.
func ToVersion(ctx context.Context, db *sql.DB, fsys fs.FS, target int64) ([]Applied, error) {
	provider, err := newProvider(db, fsys)
	if err != nil {
		return nil, err
	}
	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil, nil
	case current < target:
		results, err = provider.UpTo(ctx, target)
	default:
		results, err = provider.DownTo(ctx, target)
	}
	if err != nil {
		return nil, fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return toApplied(results), nil
}

func toApplied(results []*goose.MigrationResult) []Applied {
	out := make([]Applied, 0, len(results))
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		out = append(out, Applied{
			Version:   r.Source.Version,
			Path:      r.Source.Path,
			Direction: r.Direction,
		})
	}
	return out
}
