package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekendGrid() Grid {
	return Grid{
		Days:            []string{"Friday", "Saturday"},
		Shifts:          []Shift{{Name: "Morning", Time: "08:00 - 16:00"}, {Name: "Night", Time: "00:00 - 08:00"}},
		SlotDuration:    8,
		MaxHoursPerWeek: 20,
		Rules: []QualificationRule{
			{Shifts: []string{"Night"}, Requires: []string{"Armed"}},
			{Days: []string{"saturday"}, Requires: []string{"Medical", "armed"}},
		},
	}
}

func TestGrid_Required(t *testing.T) {
	g := weekendGrid()

	assert.Nil(t, g.Required("Friday", "Morning"))
	assert.Equal(t, []string{"Armed"}, g.Required("Friday", "Night"))
	assert.Equal(t, []string{"Medical", "armed"}, g.Required("Saturday", "Morning"))
	assert.Equal(t, []string{"Armed", "Medical"}, g.Required("Saturday", "Night"), "tags are deduplicated case-insensitively")
}

func TestGrid_Slots(t *testing.T) {
	slots := weekendGrid().Slots()

	require.Len(t, slots, 4)
	labels := make([]string, len(slots))
	for i, s := range slots {
		assert.Equal(t, i, s.Index)
		labels[i] = s.Label()
	}
	assert.Equal(t, []string{"Friday - Morning", "Friday - Night", "Saturday - Morning", "Saturday - Night"}, labels)
	assert.Equal(t, 1, slots[2].DayIndex)
	assert.Equal(t, 0, slots[2].ShiftIndex)
	assert.Equal(t, "00:00 - 08:00", slots[3].Time)
	assert.Equal(t, 8.0, slots[3].Duration)
}

func TestGrid_MaxSlotsPerWorker(t *testing.T) {
	g := weekendGrid()
	assert.Equal(t, 2, g.MaxSlotsPerWorker())

	g.MaxHoursPerWeek = 40
	assert.Equal(t, 5, g.MaxSlotsPerWorker())

	g.SlotDuration = 0
	assert.Equal(t, 0, g.MaxSlotsPerWorker())
}

func TestAssignment(t *testing.T) {
	a := NewAssignment(3)
	assert.Equal(t, 0, a.Filled())
	assert.Equal(t, []int{0, 1, 2}, a.Unfilled())

	a.Set(1, 4)
	w, ok := a.Worker(1)
	assert.True(t, ok)
	assert.Equal(t, 4, w)
	assert.Equal(t, 1, a.Filled())
	assert.Equal(t, []int{0, 2}, a.Unfilled())
}

func TestWorker_Has(t *testing.T) {
	w := Worker{Name: "Jane", Rate: 22, Qualifications: []string{"Armed", "Medical"}}
	assert.True(t, w.Has("armed"))
	assert.False(t, w.Has("K9"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]Worker{{Name: "A", Rate: 10}}, weekendGrid()))

	g := weekendGrid()
	g.Days = append(g.Days, "Friday")
	g.Rules = append(g.Rules, QualificationRule{Days: []string{"Holiday"}, Shifts: []string{"Swing"}})
	g.SlotDuration = 0

	err := Validate([]Worker{{Name: " ", Rate: 10}, {Name: "B", Rate: -1}}, g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ElementsMatch(t, []string{
		"worker #1 has no name",
		"worker B has non-positive rate -1",
		"slot duration must be positive, got 0",
		"duplicate day: Friday",
		"rule #3 requires nothing",
		`rule #3 names unknown day "Holiday"`,
		`rule #3 names unknown shift "Swing"`,
	}, cfgErr.Problems)
}

func TestStatus_Solved(t *testing.T) {
	assert.True(t, StatusOptimal.Solved())
	assert.True(t, StatusFeasible.Solved())
	assert.False(t, StatusInfeasible.Solved())
	assert.False(t, StatusUnknown.Solved())
}
