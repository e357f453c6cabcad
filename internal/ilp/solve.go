package ilp

import (
	"context"
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the outcome of a search
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// ErrEmptyModel is returned when a model has no variables
var ErrEmptyModel = errors.New("ilp: model has no variables")

var (
	errNodeInfeasible = errors.New("ilp: node infeasible")
	errOverdetermined = errors.New("ilp: relaxation has more rows than columns")
)

const (
	defaultTolerance = 1e-9
	integralityTol   = 1e-6
)

// Options bound the search
type Options struct {
	// TimeLimit stops the search and returns the incumbent. Zero means no limit.
	TimeLimit time.Duration
	// NodeLimit caps the number of relaxations solved. Zero means no limit.
	NodeLimit int
	// IntegralObjective allows bounds to be rounded up when every cost is an integer.
	IntegralObjective bool
	// Tolerance is handed to the simplex solver.
	Tolerance float64
}

// Solution is the best point found
type Solution struct {
	Status    Status
	Objective float64
	Values    []bool
	Nodes     int
	// Reason explains a non-optimal status.
	Reason string
}

type search struct {
	model   *Model
	opts    Options
	implied []bool

	incumbent []bool
	best      float64
	nodes     int

	incomplete bool
	lastErr    error
}

type relaxation struct {
	bound float64
	x     []float64
}

// Solve minimizes the model. Nodes are explored depth first with the x=1 branch
// first, so the result is reproducible for a fixed model.
func Solve(ctx context.Context, m *Model, opts Options) (*Solution, error) {
	if m.NumVars() == 0 {
		return nil, ErrEmptyModel
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultTolerance
	}
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	s := &search{model: m, opts: opts, implied: m.impliedUpperBounds()}

	root := make([]int8, m.NumVars())
	for j := range root {
		root[j] = -1
	}

	stack := [][]int8{root}
	stopped := ""
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			stopped = "time limit reached before the search finished"
			break
		}
		if opts.NodeLimit > 0 && s.nodes >= opts.NodeLimit {
			stopped = "node limit reached before the search finished"
			break
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.nodes++

		rel, err := s.relax(node)
		if errors.Is(err, errNodeInfeasible) {
			continue
		}
		if err != nil {
			s.incomplete = true
			s.lastErr = err
			continue
		}
		if s.incumbent != nil && !s.improves(rel.bound) {
			continue
		}

		j := s.branchVar(rel.x, node)
		if j < 0 {
			values := make([]bool, len(rel.x))
			for i, v := range rel.x {
				values[i] = v > 0.5
			}
			obj := m.Objective(values)
			if s.incumbent == nil || obj < s.best-defaultTolerance {
				s.incumbent = values
				s.best = obj
			}
			continue
		}

		zero := append([]int8(nil), node...)
		zero[j] = 0
		one := append([]int8(nil), node...)
		one[j] = 1
		stack = append(stack, zero, one)
	}

	sol := &Solution{Nodes: s.nodes}
	switch {
	case stopped == "" && !s.incomplete:
		if s.incumbent != nil {
			sol.Status = StatusOptimal
		} else {
			sol.Status = StatusInfeasible
			sol.Reason = "no assignment satisfies every constraint"
		}
	default:
		if stopped == "" {
			stopped = "relaxation failed: " + s.lastErr.Error()
		}
		sol.Reason = stopped
		if s.incumbent != nil {
			sol.Status = StatusFeasible
		} else {
			sol.Status = StatusUnknown
		}
	}
	if s.incumbent != nil {
		sol.Values = s.incumbent
		sol.Objective = s.best
	}
	return sol, nil
}

func (s *search) improves(bound float64) bool {
	if s.opts.IntegralObjective {
		bound = math.Ceil(bound - integralityTol)
	}
	return bound < s.best-integralityTol
}

// branchVar picks the most fractional free variable, or -1 when the point is integral
func (s *search) branchVar(x []float64, fix []int8) int {
	best := -1
	bestFrac := integralityTol
	for j, v := range x {
		if fix[j] != -1 {
			continue
		}
		frac := math.Abs(v - math.Round(v))
		if frac > bestFrac {
			best = j
			bestFrac = frac
		}
	}
	return best
}

type lpRow struct {
	cols  []int
	vals  []float64
	slack bool
	rhs   float64
}

// relax solves the LP relaxation with fixed variables substituted out.
// It returns the bound and a full-length point.
func (s *search) relax(fix []int8) (*relaxation, error) {
	m := s.model
	n := m.NumVars()
	tol := s.opts.Tolerance

	col := make([]int, n)
	free := 0
	objConst := 0.0
	for j, f := range fix {
		col[j] = -1
		switch f {
		case 1:
			objConst += m.cost[j]
		case -1:
			col[j] = free
			free++
		}
	}

	var rows []lpRow
	for _, r := range m.rows {
		rhs := r.rhs
		var cols []int
		var vals []float64
		for _, t := range r.terms {
			switch fix[t.Var] {
			case 1:
				rhs -= t.Coef
			case -1:
				cols = append(cols, col[t.Var])
				vals = append(vals, t.Coef)
			}
		}
		if len(cols) == 0 {
			if (r.sense == Equal && math.Abs(rhs) > integralityTol) || (r.sense == LessEqual && rhs < -integralityTol) {
				return nil, errNodeInfeasible
			}
			continue
		}
		rows = append(rows, lpRow{cols: cols, vals: vals, slack: r.sense == LessEqual, rhs: rhs})
	}
	for j, f := range fix {
		if f == -1 && !s.implied[j] {
			rows = append(rows, lpRow{cols: []int{col[j]}, vals: []float64{1}, slack: true, rhs: 1})
		}
	}

	x := make([]float64, n)
	for j, f := range fix {
		if f == 1 {
			x[j] = 1
		}
	}
	if free == 0 {
		return &relaxation{bound: objConst, x: x}, nil
	}

	slacks := 0
	for _, r := range rows {
		if r.slack {
			slacks++
		}
	}
	rowsN, colsN := len(rows), free+slacks
	if rowsN == 0 || rowsN > colsN {
		return nil, errOverdetermined
	}

	c := make([]float64, colsN)
	for j, f := range fix {
		if f == -1 {
			c[col[j]] = m.cost[j]
		}
	}

	A := mat.NewDense(rowsN, colsN, nil)
	b := make([]float64, rowsN)
	next := free
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for k, cj := range r.cols {
			A.Set(i, cj, sign*r.vals[k])
		}
		if r.slack {
			A.Set(i, next, sign)
			next++
		}
		b[i] = sign * r.rhs
	}

	opt, sol, err := lp.Simplex(c, A, b, tol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, errNodeInfeasible
		}
		return nil, err
	}

	for j, f := range fix {
		if f == -1 {
			x[j] = sol[col[j]]
		}
	}
	return &relaxation{bound: opt + objConst, x: x}, nil
}
