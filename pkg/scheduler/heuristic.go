package scheduler

import (
	"fmt"
	"strings"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

// AssignHeuristic fills slots in canonical order, giving each to the legal worker
// with the fewest hours so far (first in roster order on ties). It never revisits
// an earlier choice, so a slot can go unfilled even when a full cover exists.
func (s *Scheduler) AssignHeuristic() *Outcome {
	assignment := models.NewAssignment(len(s.slots))
	hours := make([]float64, len(s.Workers))
	held := make([][]models.Slot, len(s.Workers))
	maxHours := s.Grid.MaxHoursPerWeek

	var conflicts []models.ConflictReason
	for _, slot := range s.slots {
		best := -1
		unqualifiedCount := 0
		maxHoursCount := 0
		sameDayCount := 0

		for w, worker := range s.Workers {
			v := Legal(worker, slot, held[w], hours[w], maxHours, s.Policy.HeuristicOneShiftPerDay)
			if v.Eligible() {
				if best < 0 || hours[w] < hours[best] {
					best = w
				}
				continue
			}
			if v.Unqualified {
				unqualifiedCount++
			}
			if v.AtMaxHours {
				maxHoursCount++
			}
			if v.SameDay {
				sameDayCount++
			}
		}

		if best >= 0 {
			assignment.Set(slot.Index, best)
			hours[best] += slot.Duration
			held[best] = append(held[best], slot)
			continue
		}

		var reasons []string
		if unqualifiedCount > 0 {
			reasons = append(reasons, fmt.Sprintf("%d workers lacked qualifications [%s]", unqualifiedCount, strings.Join(slot.Required, ", ")))
		}
		if maxHoursCount > 0 {
			reasons = append(reasons, fmt.Sprintf("%d workers were at max hours", maxHoursCount))
		}
		if sameDayCount > 0 {
			reasons = append(reasons, fmt.Sprintf("%d workers already worked %s", sameDayCount, slot.Day))
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "no workers on the roster")
		}
		conflicts = append(conflicts, models.ConflictReason{Slot: slot.Label(), Reasons: reasons})
	}

	out := &Outcome{
		Assignment: assignment,
		Status:     models.StatusFeasible,
		Conflicts:  conflicts,
	}
	if len(conflicts) > 0 {
		out.Message = fmt.Sprintf("greedy pass left %d of %d slots unfilled", len(conflicts), len(s.slots))
	}
	return out
}
