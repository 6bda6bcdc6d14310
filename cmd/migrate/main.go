// Command migrate applies the SQL migrations to the configured database.
package main

import (
	"flag"
	"fmt"
	"os"

	"fin-dashboard/pkg/config"
	"fin-dashboard/pkg/logger"
	"fin-dashboard/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	path := flag.String("path", cfg.Migrations.Path, "directory with *.up.sql and *.down.sql files")
	flag.Parse()

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Get()
	if err := postgres.RunMigrations(&cfg.Database, *path, log); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
}
