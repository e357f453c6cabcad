// Package report renders roster tables and run summaries for the CLI and API.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	unfilledStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("9"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

var csvHeader = []string{"day", "shift", "time", "worker", "hours", "cost"}

// WriteCSV writes the roster table with one row per slot
func WriteCSV(w io.Writer, rows []models.RosterRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{
			r.Day,
			r.Shift,
			r.Time,
			r.Worker,
			strconv.FormatFloat(r.Hours, 'f', -1, 64),
			fmt.Sprintf("%.2f", r.Cost),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes rows and summary as one indented document
func WriteJSON(w io.Writer, rows []models.RosterRow, summary models.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(models.ScheduleResponse{RunID: summary.RunID, Rows: rows, Summary: summary})
}

// Table renders the roster for a terminal
func Table(rows []models.RosterRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Day", "Shift", "Time", "Worker", "Hours", "Cost").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && rows[row].Worker == models.Unfilled {
				return unfilledStyle
			}
			return cellStyle
		})

	for _, r := range rows {
		t.Row(r.Day, r.Shift, r.Time, r.Worker, strconv.FormatFloat(r.Hours, 'f', -1, 64), fmt.Sprintf("$%.2f", r.Cost))
	}
	return t.String()
}

// SummaryText renders totals, coverage and per-worker utilization
func SummaryText(s models.Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Executive Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Status: %s", s.Status)
	if s.Fallback {
		b.WriteString(" (heuristic fallback)")
	}
	b.WriteString("\n")
	if s.Message != "" {
		fmt.Fprintf(&b, "Note: %s\n", s.Message)
	}
	fmt.Fprintf(&b, "Total Weekly Cost: $%.2f\n", s.TotalCost)
	fmt.Fprintf(&b, "Total Hours Scheduled: %g hrs\n", s.TotalHours)
	fmt.Fprintf(&b, "Avg Hourly Rate: $%.2f\n", s.Efficiency)
	fmt.Fprintf(&b, "Fairness: %.1f%%\n", s.FairnessScore)

	if n := len(s.UnfilledSlots); n > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("WARNING: %d Unfilled Shifts!", n)))
		b.WriteString("\n")
		for _, c := range s.Conflicts {
			fmt.Fprintf(&b, "  - %s: %s\n", c.Slot, strings.Join(c.Reasons, "; "))
		}
		if len(s.Conflicts) == 0 {
			for _, slot := range s.UnfilledSlots {
				fmt.Fprintf(&b, "  - %s\n", slot)
			}
		}
	} else {
		b.WriteString(okStyle.Render("All shifts covered successfully."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Worker Utilization"))
	b.WriteString("\n")
	for _, e := range s.WorkerStats {
		fmt.Fprintf(&b, "%-15s: %g hrs | $%.2f\n", e.Name, e.Hours, e.Pay)
	}
	return b.String()
}

// SlotTable renders the week's slots with their qualification requirements
func SlotTable(slots []models.Slot) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Slot", "Time", "Hours", "Requires").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range slots {
		t.Row(strconv.Itoa(s.Index), s.Label(), s.Time, strconv.FormatFloat(s.Duration, 'f', -1, 64), strings.Join(s.Required, ", "))
	}
	return t.String()
}

// WorkerTable renders the roster's workers
func WorkerTable(workers []models.Worker) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Worker", "Rate", "Qualifications").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, w := range workers {
		t.Row(w.Name, fmt.Sprintf("$%.2f", w.Rate), strings.Join(w.Qualifications, ", "))
	}
	return t.String()
}
