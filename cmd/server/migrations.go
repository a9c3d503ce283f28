package main

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// runMigrations applies any pending schema migrations. Migrations are
// embedded in the binary so the server needs no filesystem layout at
// deploy time.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(embeddedMigrations)
	goose.SetLogger(&gooseSlogAdapter{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Database migrations applied")
	return nil
}

// gooseSlogAdapter routes goose output through the structured logger.
type gooseSlogAdapter struct {
	logger *slog.Logger
}

func (l *gooseSlogAdapter) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "migrations")
}

func (l *gooseSlogAdapter) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...), "component", "migrations")
}
