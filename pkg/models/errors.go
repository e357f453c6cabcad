package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration marks malformed static input. Nothing is solved when it is returned.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigError lists every problem found in a roster or grid
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(e.Problems, "; "))
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigError builds a ConfigError from a single problem
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// Validate checks the roster and grid before any solving work starts
func Validate(workers []Worker, grid Grid) error {
	var problems []string

	seen := make(map[string]bool, len(workers))
	for i, w := range workers {
		if strings.TrimSpace(w.Name) == "" {
			problems = append(problems, fmt.Sprintf("worker #%d has no name", i+1))
			continue
		}
		if seen[w.Name] {
			problems = append(problems, "duplicate worker name: "+w.Name)
		}
		seen[w.Name] = true
		if w.Rate <= 0 {
			problems = append(problems, fmt.Sprintf("worker %s has non-positive rate %v", w.Name, w.Rate))
		}
	}

	if len(grid.Days) == 0 || len(grid.Shifts) == 0 {
		problems = append(problems, "slot grid is empty")
	}
	if grid.SlotDuration <= 0 {
		problems = append(problems, fmt.Sprintf("slot duration must be positive, got %v", grid.SlotDuration))
	}
	if grid.MaxHoursPerWeek <= 0 {
		problems = append(problems, fmt.Sprintf("weekly hour cap must be positive, got %v", grid.MaxHoursPerWeek))
	}

	days := make(map[string]bool, len(grid.Days))
	for _, d := range grid.Days {
		if days[d] {
			problems = append(problems, "duplicate day: "+d)
		}
		days[d] = true
	}
	shifts := make(map[string]bool, len(grid.Shifts))
	for _, s := range grid.Shifts {
		if shifts[s.Name] {
			problems = append(problems, "duplicate shift: "+s.Name)
		}
		shifts[s.Name] = true
	}

	for i, rule := range grid.Rules {
		if len(rule.Requires) == 0 {
			problems = append(problems, fmt.Sprintf("rule #%d requires nothing", i+1))
		}
		for _, d := range rule.Days {
			if !containsFold(grid.Days, d) {
				problems = append(problems, fmt.Sprintf("rule #%d names unknown day %q", i+1, d))
			}
		}
		for _, s := range rule.Shifts {
			if !shiftKnown(grid.Shifts, s) {
				problems = append(problems, fmt.Sprintf("rule #%d names unknown shift %q", i+1, s))
			}
		}
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func shiftKnown(shifts []Shift, name string) bool {
	for _, s := range shifts {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}
