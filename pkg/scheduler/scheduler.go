package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

// Mode selects the solving strategy
type Mode string

const (
	ModeExact     Mode = "exact"
	ModeHeuristic Mode = "heuristic"
	// ModeAuto runs the exact solver and falls back to the heuristic when it
	// produces no assignment.
	ModeAuto Mode = "auto"
)

// ParseMode accepts a mode name, defaulting to auto when empty
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ModeAuto, nil
	case ModeExact:
		return ModeExact, nil
	case ModeHeuristic:
		return ModeHeuristic, nil
	case ModeAuto:
		return ModeAuto, nil
	}
	return "", models.NewConfigError("unknown solver mode %q", s)
}

// Policy holds the optional rules that differ between the two solvers
type Policy struct {
	// HeuristicOneShiftPerDay stops the greedy pass from giving a worker two slots on one day.
	HeuristicOneShiftPerDay bool
	// ExactOneShiftPerDay adds the same rule to the optimization model.
	ExactOneShiftPerDay bool
}

// DefaultPolicy keeps the greedy pass's one-shift-per-day rule and leaves the exact model without it
func DefaultPolicy() Policy {
	return Policy{HeuristicOneShiftPerDay: true}
}

// Recorder receives one observation per finished run
type Recorder interface {
	ObserveRun(mode string, status models.Status, unfilled int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(string, models.Status, int, time.Duration) {}

// Scheduler handles the logic of assigning workers to the week's slots.
// It holds an immutable snapshot of its inputs, so runs never influence each other.
type Scheduler struct {
	Workers []models.Worker
	Grid    models.Grid
	Policy  Policy

	slots    []models.Slot
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithPolicy overrides DefaultPolicy
func WithPolicy(p Policy) Option {
	return func(s *Scheduler) { s.Policy = p }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewScheduler validates the inputs and creates a new scheduler instance.
// A *models.ConfigError is returned for malformed input.
func NewScheduler(workers []models.Worker, grid models.Grid, opts ...Option) (*Scheduler, error) {
	if err := models.Validate(workers, grid); err != nil {
		return nil, err
	}

	snapshot := make([]models.Worker, len(workers))
	for i, w := range workers {
		snapshot[i] = models.Worker{
			Name:           w.Name,
			Rate:           w.Rate,
			Qualifications: append([]string(nil), w.Qualifications...),
		}
	}

	s := &Scheduler{
		Workers:  snapshot,
		Grid:     grid,
		Policy:   DefaultPolicy(),
		slots:    grid.Slots(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Slots returns the week's slots in canonical order
func (s *Scheduler) Slots() []models.Slot {
	return append([]models.Slot(nil), s.slots...)
}

// Outcome is what a single solver produced
type Outcome struct {
	Assignment *models.Assignment
	Status     models.Status
	Message    string
	Conflicts  []models.ConflictReason
}

// RunOptions controls one invocation
type RunOptions struct {
	Mode Mode
	ExactOptions
}

// Result bundles the assignment with the aggregated summary and roster table
type Result struct {
	Assignment *models.Assignment
	Summary    models.Summary
	Rows       []models.RosterRow
}

// Run solves the week once and aggregates the outcome
func (s *Scheduler) Run(ctx context.Context, opts RunOptions) *Result {
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID, "mode", string(opts.Mode))
	log.Debug("starting run", "workers", len(s.Workers), "slots", len(s.slots))

	start := time.Now()
	var out *Outcome
	fallback := false

	switch opts.Mode {
	case ModeHeuristic:
		out = s.AssignHeuristic()
	case ModeExact:
		out = s.AssignExact(ctx, opts.ExactOptions)
	default:
		out = s.AssignExact(ctx, opts.ExactOptions)
		if !out.Status.Solved() {
			log.Info("exact solve produced no assignment, using heuristic", "status", out.Status, "reason", out.Message)
			reason := out.Message
			out = s.AssignHeuristic()
			out.Message = joinMessages(fmt.Sprintf("exact solver: %s", reason), out.Message)
			fallback = true
		}
	}
	elapsed := time.Since(start)

	summary := Summarize(s.Workers, s.slots, out.Assignment)
	summary.RunID = runID
	summary.Mode = string(opts.Mode)
	summary.Status = out.Status
	summary.Message = out.Message
	summary.Conflicts = out.Conflicts
	summary.Fallback = fallback
	summary.Duration = elapsed

	if n := len(summary.UnfilledSlots); n > 0 {
		log.Warn("run finished with unfilled slots", "status", summary.Status, "unfilled", n)
	} else {
		log.Debug("run finished", "status", summary.Status, "total_cost", summary.TotalCost, "elapsed", elapsed)
	}
	s.recorder.ObserveRun(string(opts.Mode), summary.Status, len(summary.UnfilledSlots), elapsed)

	return &Result{
		Assignment: out.Assignment,
		Summary:    summary,
		Rows:       Rows(s.Workers, s.slots, out.Assignment),
	}
}

func joinMessages(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "; ")
}
