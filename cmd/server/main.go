package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/guard-roster-go/pkg/auth"
	"github.com/arnavshah/guard-roster-go/pkg/config"
	"github.com/arnavshah/guard-roster-go/pkg/database"
	"github.com/arnavshah/guard-roster-go/pkg/handlers"
	"github.com/arnavshah/guard-roster-go/pkg/logging"
	"github.com/arnavshah/guard-roster-go/pkg/metrics"
)

func main() {
	// Load .env if it exists
	config.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		logger.Warn("could not seed admin user", "error", err)
	}

	roster, err := config.LoadRoster(cfg.RosterFile)
	if err != nil {
		log.Fatalf("could not load roster: %v", err)
	}

	h := &handlers.Handler{
		DB:          db,
		Auth:        auth.NewManager(cfg.JWTSecret, cfg.APIMasterSecret),
		Roster:      roster,
		Logger:      logger,
		Recorder:    metrics.NewPrometheus(nil, ""),
		DefaultMode: cfg.SolverMode,
		TimeLimit:   cfg.SolverTimeLimit,
	}
	r := handlers.NewRouter(h, "Guard Roster API")

	logger.Info("roster loaded", "workers", len(roster.Workers), "slots", len(roster.Grid.Slots()))
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
