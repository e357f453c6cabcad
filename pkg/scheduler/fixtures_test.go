package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

// twoShiftGrid is one day with a Morning slot and a Night slot that needs Armed
func twoShiftGrid() models.Grid {
	return models.Grid{
		Days:            []string{"Monday"},
		Shifts:          []models.Shift{{Name: "Morning"}, {Name: "Night"}},
		SlotDuration:    8,
		MaxHoursPerWeek: 16,
		Rules: []models.QualificationRule{
			{Shifts: []string{"Night"}, Requires: []string{"Armed"}},
		},
	}
}

// referenceWeek mirrors the built-in roster: seven days, three shifts, armed
// nights and medical weekend mornings.
func referenceWeek() ([]models.Worker, models.Grid) {
	workers := []models.Worker{
		{Name: "John Smith", Rate: 20.0, Qualifications: []string{"Armed"}},
		{Name: "Jane Doe", Rate: 22.0, Qualifications: []string{"Armed", "Medical"}},
		{Name: "Bob Johnson", Rate: 18.5},
		{Name: "Alice Williams", Rate: 21.0, Qualifications: []string{"Medical"}},
		{Name: "Charlie Brown", Rate: 19.0, Qualifications: []string{"Armed"}},
		{Name: "David Miller", Rate: 20.5},
		{Name: "Eva Davis", Rate: 23.0, Qualifications: []string{"Armed", "Medical"}},
		{Name: "Frank Wilson", Rate: 19.5},
		{Name: "Grace Moore", Rate: 21.5, Qualifications: []string{"Medical"}},
		{Name: "Henry Taylor", Rate: 18.0},
	}
	grid := models.Grid{
		Days: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		Shifts: []models.Shift{
			{Name: "Morning", Time: "08:00 - 16:00"},
			{Name: "Swing", Time: "16:00 - 00:00"},
			{Name: "Night", Time: "00:00 - 08:00"},
		},
		SlotDuration:    8,
		MaxHoursPerWeek: 40,
		Rules: []models.QualificationRule{
			{Shifts: []string{"Night"}, Requires: []string{"Armed"}},
			{Days: []string{"Saturday", "Sunday"}, Shifts: []string{"Morning"}, Requires: []string{"Medical"}},
		},
	}
	return workers, grid
}

func newScheduler(t *testing.T, workers []models.Worker, grid models.Grid, opts ...Option) *Scheduler {
	t.Helper()
	s, err := NewScheduler(workers, grid, opts...)
	require.NoError(t, err)
	return s
}

// assertRosterRules checks that every filled slot goes to a qualified worker,
// that nobody exceeds the cap, and that one-per-day holds when asked for.
func assertRosterRules(t *testing.T, s *Scheduler, a *models.Assignment, oneShiftPerDay bool) {
	t.Helper()
	slots := s.Slots()
	require.Equal(t, len(slots), a.Len())

	hours := make([]float64, len(s.Workers))
	days := make([]map[int]bool, len(s.Workers))
	for _, slot := range slots {
		w, ok := a.Worker(slot.Index)
		if !ok {
			continue
		}
		require.Truef(t, Qualified(s.Workers[w], slot), "%s is not qualified for %s", s.Workers[w].Name, slot.Label())
		hours[w] += slot.Duration
		if days[w] == nil {
			days[w] = make(map[int]bool)
		}
		if oneShiftPerDay {
			require.Falsef(t, days[w][slot.DayIndex], "%s works twice on %s", s.Workers[w].Name, slot.Day)
		}
		days[w][slot.DayIndex] = true
	}
	for w, h := range hours {
		require.LessOrEqualf(t, h, s.Grid.MaxHoursPerWeek, "%s is over the weekly cap", s.Workers[w].Name)
	}
}
