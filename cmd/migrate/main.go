package main

import (
	"flag"
	"fmt"
	"os"

	"mg_dashboard/internal/logger"
	"mg_dashboard/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT") == "json")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	down := flag.Int("down", 0, "roll back this many migrations")
	version := flag.Bool("version", false, "print the current schema version and exit")
	flag.Parse()

	switch {
	case *version:
		v, dirty, err := migrations.Version(dsn)
		if err != nil {
			logger.Fatal("read schema version", "error", err)
		}
		fmt.Printf("version %d (dirty=%t)\n", v, dirty)
	case *down > 0:
		if err := migrations.Down(dsn, *down); err != nil {
			logger.Fatal("rollback failed", "error", err)
		}
		logger.Info("rolled back", "steps", *down)
	default:
		if err := migrations.Up(dsn); err != nil {
			logger.Fatal("migrate failed", "error", err)
		}
		logger.Info("migrations applied")
	}
}
