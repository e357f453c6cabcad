package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/guard-roster-go/pkg/auth"
	"github.com/arnavshah/guard-roster-go/pkg/config"
	"github.com/arnavshah/guard-roster-go/pkg/database"
	"github.com/arnavshah/guard-roster-go/pkg/models"
	"github.com/arnavshah/guard-roster-go/pkg/scheduler"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Auth     *auth.Manager
	Roster   *config.Roster
	Logger   *slog.Logger
	Recorder scheduler.Recorder
	Metrics  http.Handler

	// DefaultMode is used when a request names no mode.
	DefaultMode string
	// TimeLimit is the exact solver budget. Requests may only lower it.
	TimeLimit time.Duration
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for scheduler routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c.GetHeader("Authorization"))
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		if h.DB != nil {
			// Fetch or create API key record to track usage
			var apiKey database.APIKey
			h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
				Key:        key,
				KeyPreview: preview(key),
				Name:       userID,
				RateLimit:  10000,
			})
			now := time.Now()
			h.DB.Model(&apiKey).Update("last_used", &now)
			c.Set("apiKey", &apiKey)
		}

		c.Set("userID", userID)
		c.Next()
	}
}

func bearer(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// runRequest is what both schedule endpoints hand to the engine
type runRequest struct {
	workers      []models.Worker
	active       []string
	mode         string
	timeLimit    time.Duration
	allowPartial bool
}

// run snapshots the roster for this request and solves the week once
func (h *Handler) run(ctx context.Context, req runRequest) (*scheduler.Result, int, error) {
	roster := h.Roster
	if len(req.workers) > 0 {
		roster = &config.Roster{Workers: req.workers, Grid: h.Roster.Grid, Policy: h.Roster.Policy}
	}
	workers, err := roster.Active(req.active)
	if err != nil {
		return nil, 0, err
	}

	modeName := req.mode
	if modeName == "" {
		modeName = h.DefaultMode
	}
	mode, err := scheduler.ParseMode(modeName)
	if err != nil {
		return nil, 0, err
	}

	s, err := scheduler.NewScheduler(workers, roster.Grid,
		scheduler.WithPolicy(roster.Policy),
		scheduler.WithLogger(h.Logger),
		scheduler.WithRecorder(h.Recorder),
	)
	if err != nil {
		return nil, 0, err
	}

	limit := h.TimeLimit
	if req.timeLimit > 0 && (limit == 0 || req.timeLimit < limit) {
		limit = req.timeLimit
	}

	result := s.Run(ctx, scheduler.RunOptions{
		Mode: mode,
		ExactOptions: scheduler.ExactOptions{
			TimeLimit:    limit,
			AllowPartial: req.allowPartial,
		},
	})
	return result, len(workers), nil
}

// respondError maps configuration problems to 400 and everything else to 500
func respondError(c *gin.Context, err error) {
	var cfgErr *models.ConfigError
	if errors.As(err, &cfgErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrConfiguration.Error(), "problems": cfgErr.Problems})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// ScheduleJSON handles the JSON-based scheduling request
func (h *Handler) ScheduleJSON(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, workerCount, err := h.run(c.Request.Context(), runRequest{
		workers:      input.Workers,
		active:       input.ActiveWorkers,
		mode:         input.Mode,
		timeLimit:    time.Duration(input.TimeLimitSeconds * float64(time.Second)),
		allowPartial: input.AllowPartial,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.RecordUsage(c, len(result.Rows), workerCount)
	h.recordRun(c, result, workerCount)

	c.JSON(http.StatusOK, models.ScheduleResponse{
		RunID:   result.Summary.RunID,
		Rows:    result.Rows,
		Summary: result.Summary,
	})
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, slotCount, workerCount int) {
	if h.DB == nil {
		return
	}
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_slots":   gorm.Expr("total_slots + ?", slotCount),
			"total_workers": gorm.Expr("total_workers + ?", workerCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:        apiKey.ID,
		Date:         today,
		RequestCount: 1,
		TotalSlots:   slotCount,
		TotalWorkers: workerCount,
	})
}

func (h *Handler) recordRun(c *gin.Context, result *scheduler.Result, workerCount int) {
	if h.DB == nil {
		return
	}
	run := database.ScheduleRun{
		RunID:      result.Summary.RunID,
		Mode:       result.Summary.Mode,
		Status:     string(result.Summary.Status),
		Fallback:   result.Summary.Fallback,
		Workers:    workerCount,
		Slots:      len(result.Rows),
		Unfilled:   len(result.Summary.UnfilledSlots),
		TotalCost:  result.Summary.TotalCost,
		TotalHours: result.Summary.TotalHours,
		DurationMs: result.Summary.Duration.Milliseconds(),
	}
	if raw, ok := c.Get("apiKey"); ok {
		run.KeyID = raw.(*database.APIKey).ID
	}
	if err := h.DB.Create(&run).Error; err != nil && h.Logger != nil {
		h.Logger.Error("could not record run", "run_id", run.RunID, "error", err)
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		RateLimit int    `json:"rate_limit" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RateLimit == 0 {
		req.RateLimit = 10000
	}

	key := h.Auth.GenerateHMACKey(req.Name)
	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: preview(key),
		RateLimit:  req.RateLimit,
	}

	if err := h.DB.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": req.Name,
		"key":  key,
	})
}

// preview masks a key for listings (e.g. "ops...9f3a")
func preview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	h.DB.Find(&keys)
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes an API key
func (h *Handler) RevokeKey(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&database.APIKey{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// Try JSON first, then Form/Query
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit is required"})
			return
		}
	}

	if req.RateLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate limit"})
		return
	}

	if err := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id := c.Param("id")
	var usage []database.APIUsage
	h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage)
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}
