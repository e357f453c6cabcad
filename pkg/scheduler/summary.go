package scheduler

import (
	"math"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

// Ledger derives per-worker hours and pay from an assignment, in roster order
func Ledger(workers []models.Worker, slots []models.Slot, a *models.Assignment) []models.LedgerEntry {
	ledger := make([]models.LedgerEntry, len(workers))
	for i, w := range workers {
		ledger[i].Name = w.Name
	}
	for _, slot := range slots {
		w, ok := a.Worker(slot.Index)
		if !ok {
			continue
		}
		ledger[w].Hours += slot.Duration
		ledger[w].Pay += slot.Duration * workers[w].Rate
	}
	return ledger
}

// Summarize turns an assignment into totals, unfilled slots and efficiency figures.
// Status and run metadata are left for the caller.
func Summarize(workers []models.Worker, slots []models.Slot, a *models.Assignment) models.Summary {
	ledger := Ledger(workers, slots, a)

	var totalCost, totalHours float64
	for _, e := range ledger {
		totalCost += e.Pay
		totalHours += e.Hours
	}

	unfilled := make([]string, 0)
	for _, idx := range a.Unfilled() {
		unfilled = append(unfilled, slots[idx].Label())
	}

	efficiency := 0.0
	if totalHours > 0 {
		efficiency = totalCost / totalHours
	}

	return models.Summary{
		TotalCost:     totalCost,
		TotalHours:    totalHours,
		UnfilledSlots: unfilled,
		WorkerStats:   ledger,
		Efficiency:    efficiency,
		FairnessScore: CalculateFairnessScore(ledger),
	}
}

// Rows renders the roster table in slot-grid order
func Rows(workers []models.Worker, slots []models.Slot, a *models.Assignment) []models.RosterRow {
	rows := make([]models.RosterRow, 0, len(slots))
	for _, slot := range slots {
		row := models.RosterRow{
			Day:    slot.Day,
			Shift:  slot.Shift,
			Time:   slot.Time,
			Worker: models.Unfilled,
		}
		if w, ok := a.Worker(slot.Index); ok {
			row.Worker = workers[w].Name
			row.Hours = slot.Duration
			row.Cost = slot.Duration * workers[w].Rate
		}
		rows = append(rows, row)
	}
	return rows
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// hours are distributed. 100% is perfectly fair (Standard Deviation = 0).
func CalculateFairnessScore(ledger []models.LedgerEntry) float64 {
	if len(ledger) == 0 {
		return 100.0
	}

	var sum float64
	for _, e := range ledger {
		sum += e.Hours
	}
	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(ledger))

	var varianceSum float64
	for _, e := range ledger {
		diff := e.Hours - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(ledger)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
