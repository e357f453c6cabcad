package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/arnavshah/guard-roster-go/pkg/models"
	"github.com/arnavshah/guard-roster-go/pkg/scheduler"
)

//go:embed default_roster.yaml
var defaultRosterYAML []byte

var validate = validator.New()

// Roster is the static snapshot handed to every run: who can work, the week's
// grid and the optional solver rules. Treat it as read-only.
type Roster struct {
	Workers []models.Worker
	Grid    models.Grid
	Policy  scheduler.Policy
}

type rosterFile struct {
	SlotDuration float64       `yaml:"slot_duration_hours" validate:"gt=0"`
	MaxHours     float64       `yaml:"max_hours_per_week" validate:"gt=0"`
	Days         []string      `yaml:"days" validate:"min=1,dive,required"`
	Shifts       []shiftEntry  `yaml:"shifts" validate:"min=1,dive"`
	Rules        []ruleEntry   `yaml:"rules" validate:"dive"`
	Policy       policyEntry   `yaml:"policy"`
	Workers      []workerEntry `yaml:"workers" validate:"dive"`
}

type shiftEntry struct {
	Name string `yaml:"name" validate:"required"`
	Time string `yaml:"time"`
}

type ruleEntry struct {
	Days     []string `yaml:"days" validate:"dive,required"`
	Shifts   []string `yaml:"shifts" validate:"dive,required"`
	Requires []string `yaml:"requires" validate:"min=1,dive,required"`
}

type policyEntry struct {
	HeuristicOneShiftPerDay *bool `yaml:"heuristic_one_shift_per_day"`
	ExactOneShiftPerDay     *bool `yaml:"exact_one_shift_per_day"`
}

type workerEntry struct {
	Name           string   `yaml:"name" validate:"required"`
	Rate           float64  `yaml:"rate" validate:"gt=0"`
	Qualifications []string `yaml:"qualifications" validate:"dive,required"`
}

// DefaultRoster returns the embedded reference week
func DefaultRoster() (*Roster, error) {
	return ParseRoster(defaultRosterYAML)
}

// LoadRoster reads a roster file, falling back to the embedded reference week when path is empty
func LoadRoster(path string) (*Roster, error) {
	if path == "" {
		return DefaultRoster()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes and validates a YAML roster
func ParseRoster(data []byte) (*Roster, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, models.NewConfigError("parse roster: %v", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, validationError(err)
	}

	r := &Roster{
		Grid: models.Grid{
			Days:            f.Days,
			SlotDuration:    f.SlotDuration,
			MaxHoursPerWeek: f.MaxHours,
		},
		Policy: scheduler.DefaultPolicy(),
	}
	for _, s := range f.Shifts {
		r.Grid.Shifts = append(r.Grid.Shifts, models.Shift{Name: s.Name, Time: s.Time})
	}
	for _, rule := range f.Rules {
		r.Grid.Rules = append(r.Grid.Rules, models.QualificationRule{
			Days:     rule.Days,
			Shifts:   rule.Shifts,
			Requires: rule.Requires,
		})
	}
	for _, w := range f.Workers {
		r.Workers = append(r.Workers, models.Worker{Name: w.Name, Rate: w.Rate, Qualifications: w.Qualifications})
	}
	if f.Policy.HeuristicOneShiftPerDay != nil {
		r.Policy.HeuristicOneShiftPerDay = *f.Policy.HeuristicOneShiftPerDay
	}
	if f.Policy.ExactOneShiftPerDay != nil {
		r.Policy.ExactOneShiftPerDay = *f.Policy.ExactOneShiftPerDay
	}

	if err := models.Validate(r.Workers, r.Grid); err != nil {
		return nil, err
	}
	return r, nil
}

// Active restricts the roster to the named workers, keeping roster order.
// An empty filter selects everyone.
func (r *Roster) Active(names []string) ([]models.Worker, error) {
	if len(names) == 0 {
		return append([]models.Worker(nil), r.Workers...), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var active []models.Worker
	for _, w := range r.Workers {
		if wanted[w.Name] {
			active = append(active, w)
			delete(wanted, w.Name)
		}
	}
	if len(wanted) > 0 {
		var problems []string
		for _, n := range names {
			if wanted[n] {
				problems = append(problems, "unknown active worker: "+n)
			}
		}
		return nil, &models.ConfigError{Problems: problems}
	}
	return active, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewConfigError("%v", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return &models.ConfigError{Problems: problems}
}
