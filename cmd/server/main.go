package main

import (
	"database/sql"
	"fmt"
	"log"
	"movesmart-route-service/internal/adapters/repositories"
	"movesmart-route-service/internal/api"
	"movesmart-route-service/internal/config"
	"movesmart-route-service/internal/platform/db"
	"movesmart-route-service/internal/ports"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// main is the analytics service composition root. It stores trips in
// PostgreSQL when DATABASE_URL is set, otherwise in a local SQLite file.
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, repo, err := openTripRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	router := api.NewRouter(repo, conn, cfg.Server.TopRoutes)

	log.Printf("Server listening addr=:%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openTripRepository(cfg *config.Config) (*sql.DB, ports.TripRepository, error) {
	if cfg.Server.DatabaseURL != "" {
		conn, err := db.Open(cfg.Server.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.MigratePostgres(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		log.Printf("trip storage backend=postgres")
		return conn, repositories.NewSQLTripRepository(conn), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Server.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir for %q: %w", cfg.Server.DBPath, err)
	}
	conn, err := db.OpenSQLite(cfg.Server.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.MigrateSQLite(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	log.Printf("trip storage backend=sqlite path=%s", cfg.Server.DBPath)
	return conn, repositories.NewSqliteTripRepository(conn), nil
}
