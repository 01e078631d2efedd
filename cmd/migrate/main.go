package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/shery7378/multifront/pkg/config"
	"github.com/shery7378/multifront/pkg/db"
	"github.com/shery7378/multifront/pkg/logger"
	"github.com/shery7378/multifront/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", "", "migrations directory (default: migrations embedded in the binary)")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate only touch the filesystem
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			fail("missing -name for create")
		}
		dir := opts.dir
		if dir == "" {
			dir = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(dir, opts.name)
		if err != nil {
			fail("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateFS(migrate.Source(opts.dir)); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": opts.cmd,
		"dir": opts.dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to obtain sql database", err)
		os.Exit(1)
	}

	if err := runDB(ctx, sqlDB, opts); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration finished")
}

func runDB(ctx context.Context, sqlDB *sql.DB, opts options) error {
	src := migrate.Source(opts.dir)
	switch opts.cmd {
	case "up":
		applied, err := migrate.Up(ctx, sqlDB, src)
		printApplied(applied)
		return err
	case "down":
		applied, err := migrate.Down(ctx, sqlDB, src)
		printApplied(applied)
		return err
	case "status":
		states, err := migrate.Status(ctx, sqlDB, src)
		if err != nil {
			return err
		}
		for _, st := range states {
			state := "pending"
			if st.Applied {
				state = "applied"
			}
			fmt.Printf("%-8s %d %s\n", state, st.Version, st.Path)
		}
		return nil
	case "version":
		if opts.version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		target, err := strconv.ParseInt(opts.version, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid -version %q: %w", opts.version, err)
		}
		applied, err := migrate.ToVersion(ctx, sqlDB, src, target)
		printApplied(applied)
		return err
	default:
		return fmt.Errorf("unknown -cmd value: %s", opts.cmd)
	}
}

func printApplied(applied []migrate.Applied) {
	for _, a := range applied {
		fmt.Printf("%-4s %d %s\n", a.Direction, a.Version, a.Path)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
