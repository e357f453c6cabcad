package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported on the index route
const Version = "3.0.0"

// GetRoster returns the configured workers and the expanded slot grid
func (h *Handler) GetRoster(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"workers":             h.Roster.Workers,
		"days":                h.Roster.Grid.Days,
		"shifts":              h.Roster.Grid.Shifts,
		"slot_duration_hours": h.Roster.Grid.SlotDuration,
		"max_hours_per_week":  h.Roster.Grid.MaxHoursPerWeek,
		"slots":               h.Roster.Grid.Slots(),
		"policy": gin.H{
			"heuristic_one_shift_per_day": h.Roster.Policy.HeuristicOneShiftPerDay,
			"exact_one_shift_per_day":     h.Roster.Policy.ExactOneShiftPerDay,
		},
	})
}

// NewRouter wires every route. Login, key management and usage history are
// only mounted when a database is configured.
func NewRouter(h *Handler, name string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": name,
			"version": Version,
		})
	})

	metrics := h.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metrics))

	if h.DB != nil {
		r.POST("/admin/login", h.Login)

		// Admin Endpoints
		admin := r.Group("/admin")
		admin.Use(h.AuthMiddleware())
		{
			admin.POST("/keys", h.GenerateKey)
			admin.GET("/keys", h.ListKeys)
			admin.PUT("/keys/:id", h.UpdateKeyLimit)
			admin.DELETE("/keys/:id", h.RevokeKey)
			admin.GET("/usage/:id", h.GetUsage)
			admin.GET("/runs", h.ListRuns)
		}
	}

	// Scheduler Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule", h.ScheduleJSON)
		api.POST("/schedule/csv", h.ScheduleCSV)
		api.POST("/validate", h.ValidateInput)
		api.GET("/roster", h.GetRoster)
		if h.DB != nil {
			api.GET("/usage", h.GetMyUsage)
		}
	}

	return r
}
