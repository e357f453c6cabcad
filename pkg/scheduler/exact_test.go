package scheduler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

func TestAssignExact_MorningAndNight(t *testing.T) {
	workers := []models.Worker{
		{Name: "A", Rate: 10},
		{Name: "B", Rate: 12, Qualifications: []string{"Armed"}},
	}
	s := newScheduler(t, workers, twoShiftGrid())

	out := s.AssignExact(context.Background(), ExactOptions{})

	require.Equal(t, models.StatusOptimal, out.Status)
	morning, _ := out.Assignment.Worker(0)
	night, _ := out.Assignment.Worker(1)
	assert.Equal(t, 0, morning)
	assert.Equal(t, 1, night)

	summary := Summarize(s.Workers, s.Slots(), out.Assignment)
	assert.InDelta(t, 176.0, summary.TotalCost, 1e-9)
	assert.Empty(t, summary.UnfilledSlots)
	assert.Empty(t, out.Message)
}

func TestAssignExact_SubCentRates(t *testing.T) {
	// 8h at 10.0006 and at 10.0 both round to 8000 cents.
	workers := []models.Worker{
		{Name: "A", Rate: 10.0006},
		{Name: "B", Rate: 10},
	}
	grid := models.Grid{
		Days:            []string{"Monday", "Tuesday"},
		Shifts:          []models.Shift{{Name: "Morning"}},
		SlotDuration:    8,
		MaxHoursPerWeek: 16,
	}
	s := newScheduler(t, workers, grid)

	out := s.AssignExact(context.Background(), ExactOptions{})

	require.Equal(t, models.StatusOptimal, out.Status)
	assert.Equal(t, 2, out.Assignment.Filled())
	summary := Summarize(s.Workers, s.Slots(), out.Assignment)
	// Each slot's cost is off by at most half a cent.
	assert.InDelta(t, 160.0, summary.TotalCost, 0.01*float64(len(s.Slots())))
}

func TestAssignExact_StrictCoverageIsAllOrNothing(t *testing.T) {
	s := newScheduler(t, []models.Worker{{Name: "A", Rate: 10}}, twoShiftGrid())

	out := s.AssignExact(context.Background(), ExactOptions{})

	assert.Equal(t, models.StatusInfeasible, out.Status)
	assert.Equal(t, 0, out.Assignment.Filled())
	assert.Equal(t, "provably infeasible: no eligible worker for Monday - Night", out.Message)
	require.Len(t, out.Conflicts, 1)
	assert.Equal(t, []string{"1 workers lacked qualifications [Armed]"}, out.Conflicts[0].Reasons)

	summary := Summarize(s.Workers, s.Slots(), out.Assignment)
	assert.Equal(t, []string{"Monday - Morning", "Monday - Night"}, summary.UnfilledSlots)
	assert.Zero(t, summary.TotalCost)
}

func TestAssignExact_AllowPartial(t *testing.T) {
	s := newScheduler(t, []models.Worker{{Name: "A", Rate: 10}}, twoShiftGrid())

	out := s.AssignExact(context.Background(), ExactOptions{AllowPartial: true})

	require.Equal(t, models.StatusOptimal, out.Status)
	w, ok := out.Assignment.Worker(0)
	assert.True(t, ok)
	assert.Equal(t, 0, w)
	_, ok = out.Assignment.Worker(1)
	assert.False(t, ok)

	assert.Equal(t, "1 slots left unfilled", out.Message)
	require.Len(t, out.Conflicts, 1)
	assert.Equal(t, "Monday - Night", out.Conflicts[0].Slot)
	assert.Equal(t, []string{"1 workers lacked qualifications [Armed]"}, out.Conflicts[0].Reasons)
}

func TestAssignExact_AllowPartialPrefersCoverage(t *testing.T) {
	workers := []models.Worker{{Name: "A", Rate: 10}}
	grid := models.Grid{
		Days:            []string{"Monday"},
		Shifts:          []models.Shift{{Name: "Morning"}},
		SlotDuration:    8,
		MaxHoursPerWeek: 40,
	}
	s := newScheduler(t, workers, grid)

	out := s.AssignExact(context.Background(), ExactOptions{AllowPartial: true})
	assert.Equal(t, 1, out.Assignment.Filled())

	// A tiny penalty makes leaving the slot empty cheaper than paying anyone.
	out = s.AssignExact(context.Background(), ExactOptions{AllowPartial: true, UnfilledPenalty: 1})
	assert.Equal(t, 0, out.Assignment.Filled())
	assert.Equal(t, models.StatusOptimal, out.Status)
}

func TestAssignExact_ReferenceWeek(t *testing.T) {
	workers, grid := referenceWeek()
	s := newScheduler(t, workers, grid)

	out := s.AssignExact(context.Background(), ExactOptions{})

	require.Equal(t, models.StatusOptimal, out.Status)
	assert.Equal(t, 21, out.Assignment.Filled())
	assertRosterRules(t, s, out.Assignment, false)

	exact := Summarize(s.Workers, s.Slots(), out.Assignment)
	greedy := Summarize(s.Workers, s.Slots(), s.AssignHeuristic().Assignment)
	assert.InDelta(t, 3188.0, exact.TotalCost, 1e-6)
	assert.LessOrEqual(t, exact.TotalCost, greedy.TotalCost)
}

func TestAssignExact_OneShiftPerDay(t *testing.T) {
	workers, grid := referenceWeek()
	s := newScheduler(t, workers, grid, WithPolicy(Policy{ExactOneShiftPerDay: true}))

	out := s.AssignExact(context.Background(), ExactOptions{})

	require.Equal(t, models.StatusOptimal, out.Status)
	assertRosterRules(t, s, out.Assignment, true)
	assert.InDelta(t, 3188.0, Summarize(s.Workers, s.Slots(), out.Assignment).TotalCost, 1e-6)
}

func TestAssignExact_TooFewQualified(t *testing.T) {
	// Three armed nights, two armed workers, one slot each under the cap.
	workers := []models.Worker{
		{Name: "A", Rate: 10, Qualifications: []string{"Armed"}},
		{Name: "B", Rate: 11, Qualifications: []string{"Armed"}},
		{Name: "C", Rate: 9},
	}
	grid := models.Grid{
		Days:            []string{"Monday", "Tuesday", "Wednesday"},
		Shifts:          []models.Shift{{Name: "Night"}},
		SlotDuration:    8,
		MaxHoursPerWeek: 8,
		Rules:           []models.QualificationRule{{Requires: []string{"Armed"}}},
	}
	s := newScheduler(t, workers, grid)

	exact := s.AssignExact(context.Background(), ExactOptions{})
	assert.Equal(t, models.StatusInfeasible, exact.Status)
	assert.Equal(t, 0, exact.Assignment.Filled())
	assert.True(t, strings.HasPrefix(exact.Message, "provably infeasible"))

	greedy := s.AssignHeuristic()
	assert.GreaterOrEqual(t, len(greedy.Assignment.Unfilled()), 1)
}

func TestAssignExact_CapBelowSlot(t *testing.T) {
	grid := twoShiftGrid()
	grid.MaxHoursPerWeek = 4
	workers := []models.Worker{{Name: "B", Rate: 12, Qualifications: []string{"Armed"}}}
	s := newScheduler(t, workers, grid)

	out := s.AssignExact(context.Background(), ExactOptions{})

	assert.Equal(t, models.StatusInfeasible, out.Status)
	require.Len(t, out.Conflicts, 2)
	assert.Equal(t, []string{"weekly cap 4h is below the 8h slot duration"}, out.Conflicts[0].Reasons)
}

func TestAssignExact_Canceled(t *testing.T) {
	workers, grid := referenceWeek()
	s := newScheduler(t, workers, grid)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := s.AssignExact(ctx, ExactOptions{})

	assert.Equal(t, models.StatusUnknown, out.Status)
	assert.Equal(t, 0, out.Assignment.Filled())
	assert.Equal(t, "solver gave up: time limit reached before the search finished", out.Message)
}

// bruteForce enumerates every full cover and returns the cheapest legal one
func bruteForce(s *Scheduler, oneShiftPerDay bool) (float64, bool) {
	slots := s.Slots()
	choice := make([]int, len(slots))
	best := math.Inf(1)
	found := false

	var walk func(j int)
	walk = func(j int) {
		if j == len(slots) {
			hours := make([]float64, len(s.Workers))
			days := make(map[[2]int]bool)
			cost := 0.0
			for k, w := range choice {
				hours[w] += slots[k].Duration
				if hours[w] > s.Grid.MaxHoursPerWeek+1e-9 {
					return
				}
				key := [2]int{w, slots[k].DayIndex}
				if oneShiftPerDay && days[key] {
					return
				}
				days[key] = true
				cost += slots[k].Duration * s.Workers[w].Rate
			}
			if cost < best {
				best = cost
				found = true
			}
			return
		}
		for w := range s.Workers {
			if !Qualified(s.Workers[w], slots[j]) {
				continue
			}
			choice[j] = w
			walk(j + 1)
		}
	}
	walk(0)
	return best, found
}

func TestAssignExact_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	caps := []float64{8, 16, 24}

	for i := 0; i < 40; i++ {
		var workers []models.Worker
		for w := 0; w < 3; w++ {
			worker := models.Worker{Name: fmt.Sprintf("W%d", w), Rate: float64(10 + rng.Intn(15))}
			if rng.Intn(2) == 0 {
				worker.Qualifications = []string{"Armed"}
			}
			workers = append(workers, worker)
		}
		grid := models.Grid{
			Days:            []string{"Monday", "Tuesday"},
			Shifts:          []models.Shift{{Name: "Morning"}, {Name: "Night"}},
			SlotDuration:    8,
			MaxHoursPerWeek: caps[rng.Intn(len(caps))],
			Rules:           []models.QualificationRule{{Shifts: []string{"Night"}, Requires: []string{"Armed"}}},
		}
		oneShiftPerDay := i%2 == 1

		t.Run(fmt.Sprintf("instance %d", i), func(t *testing.T) {
			s := newScheduler(t, workers, grid, WithPolicy(Policy{ExactOneShiftPerDay: oneShiftPerDay}))
			want, ok := bruteForce(s, oneShiftPerDay)

			out := s.AssignExact(context.Background(), ExactOptions{})
			if !ok {
				assert.Equal(t, models.StatusInfeasible, out.Status)
				return
			}
			require.Equal(t, models.StatusOptimal, out.Status, out.Message)
			assertRosterRules(t, s, out.Assignment, oneShiftPerDay)
			assert.Equal(t, len(s.Slots()), out.Assignment.Filled())
			assert.InDelta(t, want, Summarize(s.Workers, s.Slots(), out.Assignment).TotalCost, 1e-6)
		})
	}
}
