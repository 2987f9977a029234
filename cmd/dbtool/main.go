package main

import (
	"log"
	"movesmart-route-service/internal/adapters/ledger"
	"movesmart-route-service/internal/adapters/repositories"
	"movesmart-route-service/internal/config"
	"movesmart-route-service/internal/platform/db"
	"os"
)

// dbtool prepares storage ahead of a deploy: it migrates the analytics
// database and, with -ledger as the first argument, the local SQLite ledger.
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if len(os.Args) > 1 && os.Args[1] == "-ledger" {
		conn, err := db.OpenSQLite(cfg.Ledger.Path)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		log.Println("Initializing ledger schema...")
		if err := ledger.InitSchema(conn); err != nil {
			log.Fatalf("ledger schema initialization failed: %v", err)
		}
		log.Println("Ledger schema ready.")
		return
	}

	if cfg.Server.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.Server.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Applying analytics migrations...")
	if err := repositories.MigratePostgres(conn); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Migrations complete.")
}
