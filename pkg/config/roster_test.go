package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

func TestDefaultRoster(t *testing.T) {
	r, err := DefaultRoster()
	require.NoError(t, err)

	assert.Len(t, r.Workers, 10)
	assert.Equal(t, "John Smith", r.Workers[0].Name)
	assert.Len(t, r.Grid.Slots(), 21)
	assert.Equal(t, 8.0, r.Grid.SlotDuration)
	assert.Equal(t, 40.0, r.Grid.MaxHoursPerWeek)
	assert.True(t, r.Policy.HeuristicOneShiftPerDay)
	assert.False(t, r.Policy.ExactOneShiftPerDay)

	assert.Equal(t, []string{"Armed"}, r.Grid.Required("Monday", "Night"))
	assert.Equal(t, []string{"Medical"}, r.Grid.Required("Sunday", "Morning"))
	assert.Empty(t, r.Grid.Required("Sunday", "Swing"))
}

func TestParseRoster(t *testing.T) {
	data := []byte(`
slot_duration_hours: 8
max_hours_per_week: 16
days: [Monday]
shifts:
  - name: Morning
  - name: Night
rules:
  - shifts: [Night]
    requires: [Armed]
policy:
  heuristic_one_shift_per_day: false
workers:
  - name: A
    rate: 10
  - name: B
    rate: 12
    qualifications: [Armed]
`)
	r, err := ParseRoster(data)
	require.NoError(t, err)

	assert.Equal(t, []models.Worker{
		{Name: "A", Rate: 10},
		{Name: "B", Rate: 12, Qualifications: []string{"Armed"}},
	}, r.Workers)
	assert.False(t, r.Policy.HeuristicOneShiftPerDay)
	assert.False(t, r.Policy.ExactOneShiftPerDay)
}

func TestParseRoster_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "days: [Monday"},
		{"no shifts", "slot_duration_hours: 8\nmax_hours_per_week: 40\ndays: [Monday]\n"},
		{"zero rate", "slot_duration_hours: 8\nmax_hours_per_week: 40\ndays: [Monday]\nshifts: [{name: Morning}]\nworkers: [{name: A, rate: 0}]\n"},
		{"duplicate worker", "slot_duration_hours: 8\nmax_hours_per_week: 40\ndays: [Monday]\nshifts: [{name: Morning}]\nworkers: [{name: A, rate: 10}, {name: A, rate: 11}]\n"},
		{"unknown shift in rule", "slot_duration_hours: 8\nmax_hours_per_week: 40\ndays: [Monday]\nshifts: [{name: Morning}]\nrules: [{shifts: [Night], requires: [Armed]}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoster([]byte(tt.data))
			assert.ErrorIs(t, err, models.ErrConfiguration)
		})
	}
}

func TestLoadRoster(t *testing.T) {
	r, err := LoadRoster("")
	require.NoError(t, err)
	assert.Len(t, r.Workers, 10)

	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slot_duration_hours: 12\nmax_hours_per_week: 36\ndays: [Mon, Tue]\nshifts: [{name: Day}, {name: Night}]\nworkers: [{name: A, rate: 15}]\n"), 0o600))

	r, err = LoadRoster(path)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Grid.MaxSlotsPerWorker())
	assert.Len(t, r.Grid.Slots(), 4)

	_, err = LoadRoster(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRoster_Active(t *testing.T) {
	r, err := DefaultRoster()
	require.NoError(t, err)

	all, err := r.Active(nil)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	// Roster order wins over filter order.
	some, err := r.Active([]string{"Henry Taylor", "John Smith"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "John Smith", some[0].Name)
	assert.Equal(t, "Henry Taylor", some[1].Name)

	_, err = r.Active([]string{"John Smith", "Nobody"})
	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"unknown active worker: Nobody"}, cfgErr.Problems)
}
