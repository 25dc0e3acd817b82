package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
	"transport-planning-service/internal/adapters/repositories"
	"transport-planning-service/internal/api"
	"transport-planning-service/internal/config"
	"transport-planning-service/internal/platform/db"
	"transport-planning-service/internal/ports"
	"transport-planning-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires the run repository and planner tuning behind the HTTP API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("TRANSPORT_CONFIG", ""))
	if err != nil {
		log.Fatal(err)
	}

	conn, repo, err := openRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	router := api.NewRouter(repo, plannerOptions(cfg.Planner), cfg.Planner.Timeout)

	// Write timeout leaves room for the longest allowed planning request.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// Postgres when a database URL is configured, SQLite otherwise. The SQLite
// schema is created on startup; Postgres is prepared by dbtool.
func openRepository(cfg config.Config) (*sql.DB, ports.RunRepository, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Storing runs in postgres")
		return conn, repositories.NewSQLRunRepository(conn), nil
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("open repository: create db dir %q: %w", dir, err)
		}
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open repository: %w", err)
	}
	log.Printf("Storing runs in sqlite path=%s", cfg.DBPath)
	return conn, repositories.NewSqliteRunRepository(conn), nil
}

func plannerOptions(c config.PlannerConfig) services.PlannerOptions {
	return services.PlannerOptions{
		Exploration: c.Exploration,
		Temperature: c.Temperature,
		RefuelMin:   c.RefuelMin,
		RefuelMax:   c.RefuelMax,
		RefuelStep:  c.RefuelStep,
		RefuelEvery: c.RefuelEvery,
		Seed:        c.Seed,
	}
}
