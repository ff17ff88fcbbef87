// Command migrate applies the embedded Postgres schema migrations.
// SQLite migrations run automatically at repository startup; this tool
// exists so Postgres schemas can be managed ahead of a deploy.
package main

import (
	"os"

	"github.com/joho/godotenv"

	applog "expensetracker/internal/log"
	"expensetracker/internal/postgres"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		logger.Error("POSTGRES_URL is required")
		os.Exit(1)
	}

	if err := postgres.RunMigrations(url); err != nil {
		logger.Error("Migration failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Migrations applied")
}
