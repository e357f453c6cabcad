package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeRoster(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	data := `slot_duration_hours: 8
max_hours_per_week: 16
days: [Monday]
shifts:
  - name: Morning
  - name: Night
rules:
  - shifts: [Night]
    requires: [Armed]
workers:
  - name: A
    rate: 10
  - name: B
    rate: 12
    qualifications: [Armed]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestSolve_JSON(t *testing.T) {
	out, err := run(t, "solve", "--roster", writeRoster(t), "--mode", "exact", "--format", "json")
	require.NoError(t, err)

	var resp models.ScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, models.StatusOptimal, resp.Summary.Status)
	assert.InDelta(t, 176.0, resp.Summary.TotalCost, 1e-9)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "A", resp.Rows[0].Worker)
	assert.Equal(t, "B", resp.Rows[1].Worker)
}

func TestSolve_CSV(t *testing.T) {
	out, err := run(t, "solve", "--roster", writeRoster(t), "--mode", "exact", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "day,shift,time,worker,hours,cost\nMonday,Morning,,A,8,80.00\nMonday,Night,,B,8,96.00\n", out)
}

func TestSolve_Table(t *testing.T) {
	out, err := run(t, "solve", "--mode", "heuristic")
	require.NoError(t, err)
	assert.Contains(t, out, "Executive Summary")
	assert.Contains(t, out, "All shifts covered successfully.")
	assert.Contains(t, out, "Henry Taylor")
}

func TestSolve_ActiveSubset(t *testing.T) {
	path := writeRoster(t)

	out, err := run(t, "solve", "--roster", path, "--active", "A", "--mode", "exact", "--format", "json")
	require.NoError(t, err)
	var resp models.ScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, models.StatusInfeasible, resp.Summary.Status)
	assert.Equal(t, []string{"Monday - Morning", "Monday - Night"}, resp.Summary.UnfilledSlots)

	out, err = run(t, "solve", "--roster", path, "--active", "A", "--mode", "exact", "--allow-partial", "--format", "json")
	require.NoError(t, err)
	resp = models.ScheduleResponse{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, models.StatusOptimal, resp.Summary.Status)
	assert.Equal(t, []string{"Monday - Night"}, resp.Summary.UnfilledSlots)

	_, err = run(t, "solve", "--roster", path, "--active", "A", "--strict", "--format", "csv")
	assert.ErrorContains(t, err, "1 slots left unfilled")
}

func TestSolve_BadFlags(t *testing.T) {
	_, err := run(t, "solve", "--format", "pdf")
	assert.ErrorContains(t, err, `unknown format "pdf"`)

	_, err = run(t, "solve", "--mode", "fastest")
	assert.ErrorIs(t, err, models.ErrConfiguration)

	_, err = run(t, "solve", "--active", "Nobody")
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestGrid(t *testing.T) {
	out, err := run(t, "grid")
	require.NoError(t, err)
	assert.Contains(t, out, "Sunday - Night")
	assert.Contains(t, out, "Grace Moore")
	assert.Contains(t, out, "Slot length 8 hrs, weekly cap 40 hrs")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "roster OK: 10 workers, 21 slots\n", out)

	out, err = run(t, "validate", "--active", "John Smith,Jane Doe")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: 21 slots but the roster can cover at most 10 under the weekly cap")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("slot_duration_hours: 8\nmax_hours_per_week: 40\ndays: [Monday, Monday]\nshifts: [{name: Morning}]\n"), 0o600))
	out, err = run(t, "validate", "--roster", bad)
	assert.ErrorIs(t, err, models.ErrConfiguration)
	assert.True(t, strings.Contains(out, "problem: duplicate day: Monday"))
}
