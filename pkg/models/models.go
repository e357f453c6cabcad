package models

import (
	"strings"
	"time"
)

// Unfilled is the worker name reported for a slot nobody covers
const Unfilled = "UNFILLED"

// Worker represents a person on the roster
type Worker struct {
	Name           string   `json:"name" yaml:"name"`
	Rate           float64  `json:"rate" yaml:"rate"`
	Qualifications []string `json:"qualifications,omitempty" yaml:"qualifications,omitempty"`
}

// Has reports whether the worker holds a qualification tag. Tags compare case-insensitively.
func (w Worker) Has(tag string) bool {
	for _, q := range w.Qualifications {
		if strings.EqualFold(q, tag) {
			return true
		}
	}
	return false
}

// Status is the outcome reported by a solver run
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusFeasible   Status = "FEASIBLE"
	StatusInfeasible Status = "INFEASIBLE"
	StatusUnknown    Status = "UNKNOWN"
)

// Solved reports whether the status carries an assignment
func (s Status) Solved() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// LedgerEntry holds the weekly totals for one worker
type LedgerEntry struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
	Pay   float64 `json:"pay"`
}

// RosterRow is one line of the weekly roster table
type RosterRow struct {
	Day    string  `json:"day"`
	Shift  string  `json:"shift"`
	Time   string  `json:"time,omitempty"`
	Worker string  `json:"worker"`
	Hours  float64 `json:"hours"`
	Cost   float64 `json:"cost"`
}

// ConflictReason represents why a slot could not be filled
type ConflictReason struct {
	Slot    string   `json:"slot"`
	Reasons []string `json:"reasons"`
}

// Summary is the aggregated result of a run
type Summary struct {
	RunID         string           `json:"run_id"`
	Mode          string           `json:"mode"`
	Status        Status           `json:"status"`
	Message       string           `json:"message,omitempty"`
	Fallback      bool             `json:"fallback,omitempty"`
	TotalCost     float64          `json:"total_cost"`
	TotalHours    float64          `json:"total_hours"`
	UnfilledSlots []string         `json:"unfilled_slots"`
	WorkerStats   []LedgerEntry    `json:"worker_stats"`
	Efficiency    float64          `json:"efficiency_avg_rate"`
	FairnessScore float64          `json:"fairness_score"`
	Conflicts     []ConflictReason `json:"conflicts,omitempty"`
	Duration      time.Duration    `json:"duration_ns"`
}

// ScheduleInput is the data structure for the scheduling endpoint
type ScheduleInput struct {
	Workers          []Worker `json:"workers,omitempty"`
	ActiveWorkers    []string `json:"active_workers,omitempty"`
	Mode             string   `json:"mode,omitempty"`
	TimeLimitSeconds float64  `json:"time_limit_seconds,omitempty"`
	AllowPartial     bool     `json:"allow_partial,omitempty"`
}

// ScheduleResponse is the data structure for the scheduling result
type ScheduleResponse struct {
	RunID   string      `json:"run_id"`
	Rows    []RosterRow `json:"rows"`
	Summary Summary     `json:"summary"`
}
