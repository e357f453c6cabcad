package handler

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/guard-roster-go/pkg/auth"
	"github.com/arnavshah/guard-roster-go/pkg/config"
	"github.com/arnavshah/guard-roster-go/pkg/database"
	"github.com/arnavshah/guard-roster-go/pkg/handlers"
	"github.com/arnavshah/guard-roster-go/pkg/logging"
	"github.com/arnavshah/guard-roster-go/pkg/metrics"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	config.LoadDotEnv(".env", "../.env")

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := logging.New(cfg.LogLevel, "json", os.Stderr)

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	_ = auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger)

	roster, err := config.LoadRoster(cfg.RosterFile)
	if err != nil {
		log.Fatalf("could not load roster: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r = handlers.NewRouter(&handlers.Handler{
		DB:          db,
		Auth:        auth.NewManager(cfg.JWTSecret, cfg.APIMasterSecret),
		Roster:      roster,
		Logger:      logger,
		Recorder:    metrics.NewPrometheus(nil, ""),
		DefaultMode: cfg.SolverMode,
		TimeLimit:   cfg.SolverTimeLimit,
	}, "Guard Roster API (Vercel)")
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
