package models

import (
	"math"
	"strings"
)

// Shift is a shift type repeated on every day of the grid
type Shift struct {
	Name string `json:"name" yaml:"name"`
	Time string `json:"time,omitempty" yaml:"time,omitempty"`
}

// QualificationRule adds required tags to every slot whose day and shift match.
// An empty Days or Shifts list matches everything.
type QualificationRule struct {
	Days     []string `json:"days,omitempty" yaml:"days,omitempty"`
	Shifts   []string `json:"shifts,omitempty" yaml:"shifts,omitempty"`
	Requires []string `json:"requires" yaml:"requires"`
}

func (r QualificationRule) matches(day, shift string) bool {
	return matchAny(r.Days, day) && matchAny(r.Shifts, shift)
}

func matchAny(list []string, v string) bool {
	return len(list) == 0 || containsFold(list, v)
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// Grid is the fixed week of recurring slots: days x shift types
type Grid struct {
	Days            []string            `json:"days"`
	Shifts          []Shift             `json:"shifts"`
	SlotDuration    float64             `json:"slot_duration_hours"`
	MaxHoursPerWeek float64             `json:"max_hours_per_week"`
	Rules           []QualificationRule `json:"rules,omitempty"`
}

// Required returns the qualification tags a (day, shift) slot needs
func (g Grid) Required(day, shift string) []string {
	var tags []string
	for _, rule := range g.Rules {
		if !rule.matches(day, shift) {
			continue
		}
		for _, tag := range rule.Requires {
			if !containsFold(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// Slots expands the grid in canonical order: day-major, shift-minor
func (g Grid) Slots() []Slot {
	slots := make([]Slot, 0, len(g.Days)*len(g.Shifts))
	for di, day := range g.Days {
		for si, shift := range g.Shifts {
			slots = append(slots, Slot{
				Index:      len(slots),
				Day:        day,
				DayIndex:   di,
				Shift:      shift.Name,
				ShiftIndex: si,
				Time:       shift.Time,
				Duration:   g.SlotDuration,
				Required:   g.Required(day, shift.Name),
			})
		}
	}
	return slots
}

// MaxSlotsPerWorker is how many slots fit under the weekly cap
func (g Grid) MaxSlotsPerWorker() int {
	if g.SlotDuration <= 0 {
		return 0
	}
	return int(math.Floor(g.MaxHoursPerWeek/g.SlotDuration + 1e-9))
}

// Slot is one (day, shift) unit of required coverage
type Slot struct {
	Index      int      `json:"index"`
	Day        string   `json:"day"`
	DayIndex   int      `json:"day_index"`
	Shift      string   `json:"shift"`
	ShiftIndex int      `json:"shift_index"`
	Time       string   `json:"time,omitempty"`
	Duration   float64  `json:"duration_hours"`
	Required   []string `json:"required,omitempty"`
}

// Label is the human readable slot name used in reports
func (s Slot) Label() string {
	return s.Day + " - " + s.Shift
}

// Assignment maps each slot index to a worker index, -1 meaning unfilled
type Assignment struct {
	workerOf []int
}

// NewAssignment returns an assignment with every slot unfilled
func NewAssignment(slotCount int) *Assignment {
	a := &Assignment{workerOf: make([]int, slotCount)}
	for i := range a.workerOf {
		a.workerOf[i] = -1
	}
	return a
}

// Set records worker w on slot s. Solvers call it while building, never after returning.
func (a *Assignment) Set(slot, worker int) {
	a.workerOf[slot] = worker
}

// Worker returns the worker index on a slot and whether the slot is filled
func (a *Assignment) Worker(slot int) (int, bool) {
	w := a.workerOf[slot]
	return w, w >= 0
}

// Len is the number of slots covered by the assignment table
func (a *Assignment) Len() int {
	return len(a.workerOf)
}

// Filled counts the slots with a worker
func (a *Assignment) Filled() int {
	n := 0
	for _, w := range a.workerOf {
		if w >= 0 {
			n++
		}
	}
	return n
}

// Unfilled returns the indices of slots nobody covers, in slot order
func (a *Assignment) Unfilled() []int {
	var out []int
	for s, w := range a.workerOf {
		if w < 0 {
			out = append(out, s)
		}
	}
	return out
}
