package helpers

import (
	"fmt"
	"garden-hub/backend/internal/config"
	"garden-hub/backend/internal/migrations"
	"garden-hub/backend/pkg/migrator"
	"garden-hub/backend/pkg/utils"
	"log/slog"
)

func GetLogger(config *config.Config) *slog.Logger {
	logOptions := slog.HandlerOptions{
		Level:       config.LogLevel,
		ReplaceAttr: utils.SlogReplacer,
	}

	logHandler := slog.NewJSONHandler(config.LogOutput, &logOptions)

	return slog.New(logHandler).With(slog.String("version", utils.GetVersionShort()))
}

func RunMigrations(l *slog.Logger, c *config.Config) error {
	l.Info("Running database migrations")

	mig, err := migrator.New(l, c.Dialect, c.Database, migrations.GetFS())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := mig.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	l.Info("Database migrations completed successfully")

	return nil
}
