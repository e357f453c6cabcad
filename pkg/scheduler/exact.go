package scheduler

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/arnavshah/guard-roster-go/internal/ilp"
	"github.com/arnavshah/guard-roster-go/pkg/models"
)

const defaultNodeLimit = 200000

// ExactOptions tunes the optimization model and its backend
type ExactOptions struct {
	// TimeLimit is the solve budget. When it runs out the best assignment found
	// so far is returned as FEASIBLE, or nothing as UNKNOWN.
	TimeLimit time.Duration
	NodeLimit int
	// AllowPartial relaxes coverage to at most one worker per slot, charging
	// UnfilledPenalty for each empty slot.
	AllowPartial bool
	// UnfilledPenalty is the cost of leaving a slot empty. Zero picks a penalty
	// larger than any full week's wage bill, so coverage always comes first.
	UnfilledPenalty float64
}

// formulation is the dense (worker, slot) variable table over an ilp model
type formulation struct {
	model    *ilp.Model
	vars     [][]int
	unfilled []int
}

// cents converts a cost to the integer coefficients used by the model
func cents(v float64) float64 {
	return math.Round(v * 100)
}

// AssignExact builds the minimum-cost cover model and solves it. With strict
// coverage a single uncoverable slot makes the whole week infeasible.
func (s *Scheduler) AssignExact(ctx context.Context, opts ExactOptions) *Outcome {
	if opts.NodeLimit == 0 {
		opts.NodeLimit = defaultNodeLimit
	}

	f, conflicts := s.formulate(opts)
	if len(conflicts) > 0 && !opts.AllowPartial {
		labels := make([]string, len(conflicts))
		for i, c := range conflicts {
			labels[i] = c.Slot
		}
		return &Outcome{
			Assignment: models.NewAssignment(len(s.slots)),
			Status:     models.StatusInfeasible,
			Message:    "provably infeasible: no eligible worker for " + strings.Join(labels, ", "),
			Conflicts:  conflicts,
		}
	}

	sol, err := ilp.Solve(ctx, f.model, ilp.Options{
		TimeLimit:         opts.TimeLimit,
		NodeLimit:         opts.NodeLimit,
		IntegralObjective: true,
	})
	if err != nil {
		return &Outcome{
			Assignment: models.NewAssignment(len(s.slots)),
			Status:     models.StatusUnknown,
			Message:    "solver gave up: " + err.Error(),
		}
	}
	s.logger.Debug("exact backend finished",
		"status", sol.Status.String(),
		"nodes", sol.Nodes,
		"variables", f.model.NumVars(),
		"constraints", f.model.NumConstraints())

	out := &Outcome{Assignment: models.NewAssignment(len(s.slots))}
	switch sol.Status {
	case ilp.StatusOptimal:
		out.Status = models.StatusOptimal
	case ilp.StatusFeasible:
		out.Status = models.StatusFeasible
		out.Message = sol.Reason + "; returning best assignment found"
	case ilp.StatusInfeasible:
		out.Status = models.StatusInfeasible
		out.Message = "provably infeasible: " + sol.Reason
		return out
	default:
		out.Status = models.StatusUnknown
		out.Message = "solver gave up: " + sol.Reason
		return out
	}

	for slot := range s.slots {
		for w := range s.Workers {
			if v := f.vars[w][slot]; v >= 0 && sol.Values[v] {
				out.Assignment.Set(slot, w)
				break
			}
		}
	}

	if opts.AllowPartial {
		for _, idx := range out.Assignment.Unfilled() {
			reasons := []string{"left unfilled by the partial-coverage optimum"}
			for _, c := range conflicts {
				if c.Slot == s.slots[idx].Label() {
					reasons = c.Reasons
				}
			}
			out.Conflicts = append(out.Conflicts, models.ConflictReason{Slot: s.slots[idx].Label(), Reasons: reasons})
		}
		if n := len(out.Conflicts); n > 0 {
			out.Message = joinMessages(out.Message, fmt.Sprintf("%d slots left unfilled", n))
		}
	}
	return out
}

// formulate creates one binary per eligible (worker, slot) pair plus the
// coverage, hour cap and optional one-per-day rows. Pairs failing the
// qualification rule get no variable, which fixes them at zero.
func (s *Scheduler) formulate(opts ExactOptions) (*formulation, []models.ConflictReason) {
	nW, nS := len(s.Workers), len(s.slots)
	perWorker := s.Grid.MaxSlotsPerWorker()

	f := &formulation{model: ilp.NewModel(), vars: make([][]int, nW)}
	for w := range f.vars {
		f.vars[w] = make([]int, nS)
		for j := range f.vars[w] {
			f.vars[w][j] = -1
		}
	}

	var conflicts []models.ConflictReason
	var worstWeek float64
	slotMax := make([]float64, nS)
	for j, slot := range s.slots {
		unqualified := 0
		for w, worker := range s.Workers {
			if !Qualified(worker, slot) {
				unqualified++
				continue
			}
			if perWorker < 1 {
				continue
			}
			cost := cents(slot.Duration * worker.Rate)
			f.vars[w][j] = f.model.AddBinary(fmt.Sprintf("x[%s,%s]", worker.Name, slot.Label()), cost)
			slotMax[j] = math.Max(slotMax[j], cost)
		}
		worstWeek += slotMax[j]

		if !hasVar(f.vars, j) {
			var reasons []string
			if unqualified > 0 {
				reasons = append(reasons, fmt.Sprintf("%d workers lacked qualifications [%s]", unqualified, strings.Join(slot.Required, ", ")))
			}
			if perWorker < 1 && unqualified < nW {
				reasons = append(reasons, fmt.Sprintf("weekly cap %vh is below the %vh slot duration", s.Grid.MaxHoursPerWeek, slot.Duration))
			}
			if len(reasons) == 0 {
				reasons = append(reasons, "no workers on the roster")
			}
			conflicts = append(conflicts, models.ConflictReason{Slot: slot.Label(), Reasons: reasons})
		}
	}

	if opts.AllowPartial {
		penalty := cents(opts.UnfilledPenalty)
		if penalty <= 0 {
			penalty = worstWeek + 1
		}
		f.unfilled = make([]int, nS)
		for j, slot := range s.slots {
			f.unfilled[j] = f.model.AddBinary("unfilled["+slot.Label()+"]", penalty)
		}
	}

	// Coverage: exactly one worker (or the unfilled marker) per slot.
	for j, slot := range s.slots {
		var terms []ilp.Term
		for w := range s.Workers {
			if v := f.vars[w][j]; v >= 0 {
				terms = append(terms, ilp.Term{Var: v, Coef: 1})
			}
		}
		if f.unfilled != nil {
			terms = append(terms, ilp.Term{Var: f.unfilled[j], Coef: 1})
		}
		if len(terms) == 0 {
			continue
		}
		_ = f.model.AddConstraint("cover["+slot.Label()+"]", terms, ilp.Equal, 1)
	}

	// Hour cap: slot counts per worker, since every slot has the same duration.
	for w, worker := range s.Workers {
		var terms []ilp.Term
		for j := range s.slots {
			if v := f.vars[w][j]; v >= 0 {
				terms = append(terms, ilp.Term{Var: v, Coef: 1})
			}
		}
		if len(terms) > perWorker {
			_ = f.model.AddConstraint("cap["+worker.Name+"]", terms, ilp.LessEqual, float64(perWorker))
		}
	}

	if s.Policy.ExactOneShiftPerDay {
		for w, worker := range s.Workers {
			byDay := make(map[int][]ilp.Term)
			for j, slot := range s.slots {
				if v := f.vars[w][j]; v >= 0 {
					byDay[slot.DayIndex] = append(byDay[slot.DayIndex], ilp.Term{Var: v, Coef: 1})
				}
			}
			for d, day := range s.Grid.Days {
				if terms := byDay[d]; len(terms) > 1 {
					_ = f.model.AddConstraint("day["+worker.Name+","+day+"]", terms, ilp.LessEqual, 1)
				}
			}
		}
	}

	return f, conflicts
}

func hasVar(vars [][]int, slot int) bool {
	for _, row := range vars {
		if row[slot] >= 0 {
			return true
		}
	}
	return false
}
