package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/guard-roster-go/pkg/models"
	"github.com/arnavshah/guard-roster-go/pkg/report"
)

// ParseWorkersCSV reads a roster with the header name,rate,qualifications.
// Qualifications are separated by "|".
func ParseWorkersCSV(r io.Reader) ([]models.Worker, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, models.NewConfigError("read roster header: %v", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "rate"} {
		if _, ok := cols[required]; !ok {
			return nil, models.NewConfigError("roster header is missing column %q", required)
		}
	}

	var workers []models.Worker
	var problems []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(record[cols["rate"]]), 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: invalid rate %q", line, record[cols["rate"]]))
			continue
		}

		w := models.Worker{Name: strings.TrimSpace(record[cols["name"]]), Rate: rate}
		if idx, ok := cols["qualifications"]; ok && idx < len(record) && record[idx] != "" {
			for _, tag := range strings.Split(record[idx], "|") {
				if tag = strings.TrimSpace(tag); tag != "" {
					w.Qualifications = append(w.Qualifications, tag)
				}
			}
		}
		workers = append(workers, w)
	}

	if len(problems) > 0 {
		return nil, &models.ConfigError{Problems: problems}
	}
	return workers, nil
}

// ScheduleCSV handles roster CSV uploads and returns the roster table as CSV
func (h *Handler) ScheduleCSV(c *gin.Context) {
	var workers []models.Worker
	if rosterFile, _ := c.FormFile("roster_file"); rosterFile != nil {
		f, err := rosterFile.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open roster file"})
			return
		}
		defer f.Close()

		workers, err = ParseWorkersCSV(f)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	var active []string
	for _, name := range strings.Split(c.PostForm("active"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			active = append(active, name)
		}
	}
	allowPartial, _ := strconv.ParseBool(c.DefaultPostForm("allow_partial", "false"))

	result, workerCount, err := h.run(c.Request.Context(), runRequest{
		workers:      workers,
		active:       active,
		mode:         c.PostForm("mode"),
		allowPartial: allowPartial,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.RecordUsage(c, len(result.Rows), workerCount)
	h.recordRun(c, result, workerCount)

	var out strings.Builder
	if err := report.WriteCSV(&out, result.Rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write roster CSV"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": result.Summary.RunID,
		"status": result.Summary.Status,
		"csv":    out.String(),
	})
}
