package main

// Apply, roll back or inspect database migrations:
//   go run ./cmd/migrate            (up)
//   go run ./cmd/migrate -cmd down
//   go run ./cmd/migrate -cmd status

import (
	"context"
	"flag"
	"log"
	"os"

	"bizops-backend/internal/shared/config"
	"bizops-backend/internal/shared/storage/db"
)

func main() {
	command := flag.String("cmd", "up", "Migration command: up, down, status or version")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		log.Printf("migrate %s: %v", *command, err)
		sqlDB.Close()
		os.Exit(1)
	}
	log.Printf("migrate %s: done", *command)
}
