// Package main provides a database migration runner for the match ledger.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/seabattle/internal/config"
	"github.com/cory-johannsen/seabattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	dbCfg := cfg.Database
	url := dbCfg.MigrationsURL()

	var status postgres.MigrationStatus
	switch *direction {
	case "up":
		status, err = postgres.Migrate(url, dbCfg.DSN(), *steps)
	case "down":
		if *steps > 0 {
			status, err = postgres.Migrate(url, dbCfg.DSN(), -*steps)
		} else {
			status, err = postgres.MigrateDown(url, dbCfg.DSN())
		}
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	elapsed := time.Since(start)
	if !status.Changed {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", status.Version, status.Dirty, elapsed)
	} else {
		fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", *direction, status.Version, status.Dirty, elapsed)
	}
}
