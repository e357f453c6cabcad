package scheduler

import (
	"fmt"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

// Verdict records which rules a worker/slot pair failed
type Verdict struct {
	Unqualified bool
	AtMaxHours  bool
	SameDay     bool
}

// Eligible reports whether every applicable rule held
func (v Verdict) Eligible() bool {
	return !v.Unqualified && !v.AtMaxHours && !v.SameDay
}

// Qualified checks the worker holds every tag the slot requires
func Qualified(worker models.Worker, slot models.Slot) bool {
	for _, tag := range slot.Required {
		if !worker.Has(tag) {
			return false
		}
	}
	return true
}

// WithinCap checks the slot fits in what is left of the weekly cap
func WithinCap(hoursSoFar float64, slot models.Slot, maxHours float64) bool {
	return hoursSoFar+slot.Duration <= maxHours+1e-9
}

// NoDoubleBook checks the worker has nothing else on the slot's day
func NoDoubleBook(prior []models.Slot, slot models.Slot) bool {
	for _, p := range prior {
		if p.DayIndex == slot.DayIndex {
			return false
		}
	}
	return true
}

// Legal evaluates all rules for assigning slot to worker given what the worker
// already holds. oneShiftPerDay toggles the same-day rule.
func Legal(worker models.Worker, slot models.Slot, prior []models.Slot, hoursSoFar, maxHours float64, oneShiftPerDay bool) Verdict {
	return Verdict{
		Unqualified: !Qualified(worker, slot),
		AtMaxHours:  !WithinCap(hoursSoFar, slot, maxHours),
		SameDay:     oneShiftPerDay && !NoDoubleBook(prior, slot),
	}
}

// CapacityWarnings flags qualification tags whose required slots outnumber
// what the qualified workers can cover under the weekly cap. Any such tag makes
// a strict exact run infeasible.
func CapacityWarnings(workers []models.Worker, grid models.Grid) []string {
	slots := grid.Slots()
	perWorker := grid.MaxSlotsPerWorker()
	warnings := make([]string, 0)

	var tags []string
	demand := make(map[string]int)
	for _, slot := range slots {
		for _, tag := range slot.Required {
			if _, ok := demand[tag]; !ok {
				tags = append(tags, tag)
			}
			demand[tag]++
		}
	}

	for _, tag := range tags {
		qualified := 0
		for _, w := range workers {
			if w.Has(tag) {
				qualified++
			}
		}
		if capacity := qualified * perWorker; capacity < demand[tag] {
			warnings = append(warnings, fmt.Sprintf("%d slots require %s but %d qualified workers can cover at most %d", demand[tag], tag, qualified, capacity))
		}
	}

	if total := len(workers) * perWorker; total < len(slots) {
		warnings = append(warnings, fmt.Sprintf("%d slots but the roster can cover at most %d under the weekly cap", len(slots), total))
	}
	return warnings
}
