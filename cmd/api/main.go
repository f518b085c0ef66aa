package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/rs/cors"

	"github.com/coinboard/backend/internal/auth"
	"github.com/coinboard/backend/internal/config"
	"github.com/coinboard/backend/internal/dashboard"
	"github.com/coinboard/backend/internal/ledger"
	"github.com/coinboard/backend/internal/registry"
	"github.com/coinboard/backend/internal/router"
	"github.com/coinboard/backend/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("config load failed, running with defaults", "path", *configPath, "error", err)
		cfg = config.Default()
	}

	// State is in-memory and lives for the process lifetime; the ledger is
	// the durable log to replay if persistence is ever added.
	accounts := registry.NewAccounts()
	tasks := registry.NewTasks()
	led := ledger.New()
	engine := services.NewEngine(accounts, tasks, led, logger)

	if err := auth.Seed(engine, cfg.Seed.Accounts); err != nil {
		slog.Error("seeding accounts failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seeded accounts", "count", len(cfg.Seed.Accounts))

	authSvc := auth.NewService(engine, cfg.Auth.JWTSecret, cfg.Market.SignupGrant)
	authHandler := auth.NewHandler(authSvc, logger)
	dashHandler := dashboard.NewHandler(authSvc, engine, logger)

	apiV1Router := router.New(authHandler, dashHandler)

	mux := http.NewServeMux()
	mux.Handle("/api/", apiV1Router)
	RegisterV1Routes(mux, engine, authSvc, cfg, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	slog.Info("Starting HTTP server", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
