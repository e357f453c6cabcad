// Package ilp solves small 0-1 integer linear programs by branch-and-bound over
// LP relaxations. The relaxations are solved with gonum's simplex implementation.
package ilp

import (
	"fmt"
	"math"
)

// Sense is the comparison of a linear constraint
type Sense int

const (
	LessEqual Sense = iota
	Equal
)

func (s Sense) String() string {
	if s == Equal {
		return "=="
	}
	return "<="
}

// Term is one coefficient of a linear expression
type Term struct {
	Var  int
	Coef float64
}

type constraint struct {
	name  string
	terms []Term
	sense Sense
	rhs   float64
}

// Model is a minimization problem over binary variables
type Model struct {
	names []string
	cost  []float64
	rows  []constraint
}

// NewModel returns an empty model
func NewModel() *Model {
	return &Model{}
}

// AddBinary adds a 0-1 variable with its objective coefficient and returns its index
func (m *Model) AddBinary(name string, cost float64) int {
	m.names = append(m.names, name)
	m.cost = append(m.cost, cost)
	return len(m.cost) - 1
}

// AddConstraint adds sum(terms) <sense> rhs. Repeated variables are merged and
// zero coefficients dropped.
func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) error {
	merged := make([]Term, 0, len(terms))
	pos := make(map[int]int, len(terms))
	for _, t := range terms {
		if t.Var < 0 || t.Var >= len(m.cost) {
			return fmt.Errorf("ilp: constraint %s references unknown variable %d", name, t.Var)
		}
		if i, ok := pos[t.Var]; ok {
			merged[i].Coef += t.Coef
			continue
		}
		pos[t.Var] = len(merged)
		merged = append(merged, t)
	}

	kept := merged[:0]
	for _, t := range merged {
		if t.Coef != 0 {
			kept = append(kept, t)
		}
	}

	m.rows = append(m.rows, constraint{name: name, terms: kept, sense: sense, rhs: rhs})
	return nil
}

// NumVars is the number of binary variables
func (m *Model) NumVars() int { return len(m.cost) }

// NumConstraints is the number of linear constraints
func (m *Model) NumConstraints() int { return len(m.rows) }

// Name returns the name given to a variable
func (m *Model) Name(v int) string { return m.names[v] }

// Objective evaluates the objective at a 0-1 point
func (m *Model) Objective(values []bool) float64 {
	var total float64
	for j, on := range values {
		if on {
			total += m.cost[j]
		}
	}
	return total
}

// Feasible reports whether a 0-1 point satisfies every constraint
func (m *Model) Feasible(values []bool, tol float64) bool {
	for _, r := range m.rows {
		var lhs float64
		for _, t := range r.terms {
			if values[t.Var] {
				lhs += t.Coef
			}
		}
		switch r.sense {
		case Equal:
			if math.Abs(lhs-r.rhs) > tol {
				return false
			}
		case LessEqual:
			if lhs > r.rhs+tol {
				return false
			}
		}
	}
	return true
}

// impliedUpperBounds marks variables that some row already keeps at or below one,
// so the relaxation does not need an explicit x <= 1 row for them.
func (m *Model) impliedUpperBounds() []bool {
	implied := make([]bool, len(m.cost))
	for _, r := range m.rows {
		if r.rhs < 0 {
			continue
		}
		nonNegative := true
		for _, t := range r.terms {
			if t.Coef < 0 {
				nonNegative = false
				break
			}
		}
		if !nonNegative {
			continue
		}
		for _, t := range r.terms {
			if t.Coef >= r.rhs {
				implied[t.Var] = true
			}
		}
	}
	return implied
}
