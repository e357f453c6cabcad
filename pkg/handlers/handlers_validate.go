package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/guard-roster-go/pkg/config"
	"github.com/arnavshah/guard-roster-go/pkg/models"
	"github.com/arnavshah/guard-roster-go/pkg/scheduler"
)

// ValidateInput checks a scheduling request without solving it
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	roster := h.Roster
	if len(input.Workers) > 0 {
		roster = &config.Roster{Workers: input.Workers, Grid: h.Roster.Grid, Policy: h.Roster.Policy}
	}

	workers, err := roster.Active(input.ActiveWorkers)
	if err == nil {
		err = models.Validate(workers, roster.Grid)
	}
	if err == nil && input.Mode != "" {
		_, err = scheduler.ParseMode(input.Mode)
	}
	if err != nil {
		resp := gin.H{"valid": false, "error": err.Error()}
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			resp["problems"] = cfgErr.Problems
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	slots := roster.Grid.Slots()
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"warnings": scheduler.CapacityWarnings(workers, roster.Grid),
		"stats": gin.H{
			"worker_count": len(workers),
			"slot_count":   len(slots),
		},
	})
}
