package migrate

import (
	"context"
	"fmt"

	"github.com/shery7378/multifront/pkg/config"
	"github.com/shery7378/multifront/pkg/db"
	"github.com/shery7378/multifront/pkg/logger"
)

// MaybeRunDev applies the embedded migrations on boot when running in dev
// with auto-migrate enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.App.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	applied, err := Up(ctx, sqlDB, Embedded())
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", len(applied)), "dev migrations applied")
	return nil
}
