// Package seed loads the demo catalog and visits into a fresh server.
package seed

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/field-visits/internal/catalog"
	"github.com/evcraddock/field-visits/internal/visit"
)

//go:embed data.yaml
var defaultData []byte

// Data is the seed file layout.
type Data struct {
	Brands []catalog.Brand `yaml:"brands"`
	Chains []struct {
		Name       string   `yaml:"name"`
		StoreCount int      `yaml:"store_count"`
		Regions    []string `yaml:"regions"`
	} `yaml:"chains"`
	Stores []catalog.Store `yaml:"stores"`
	Visits []Visit         `yaml:"visits"`
}

// Visit is a seed visit. Dates are relative to the load date.
type Visit struct {
	ID                string         `yaml:"id"`
	Store             string         `yaml:"store"`
	Address           string         `yaml:"address"`
	DayOffset         int            `yaml:"day_offset"`
	Time              string         `yaml:"time"`
	Duration          int            `yaml:"duration"`
	Assignee          string         `yaml:"assignee"`
	Priority          visit.Priority `yaml:"priority"`
	Status            visit.Status   `yaml:"status"`
	Active            bool           `yaml:"active"`
	StartedMinutesAgo int            `yaml:"started_minutes_ago"`
	ActiveMinutes     int            `yaml:"active_minutes"`
	Notes             string         `yaml:"notes"`
	Photos            []string       `yaml:"photos"`
	Tasks             []struct {
		Name      string `yaml:"name"`
		Completed bool   `yaml:"completed"`
	} `yaml:"tasks"`
}

// Result counts what was loaded.
type Result struct {
	Brands int
	Chains int
	Stores int
	Visits int
}

// Parse decodes seed YAML.
func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	return &d, nil
}

// Default returns the embedded demo data.
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Load imports the embedded demo data. Visit dates are computed from now.
func Load(visits *visit.Store, cat *catalog.Repository, now time.Time) (Result, error) {
	d, err := Default()
	if err != nil {
		return Result{}, err
	}
	return d.Apply(visits, cat, now)
}

// Apply imports the catalog entries into cat (when non-nil) and the visits
// into visits.
func (d *Data) Apply(visits *visit.Store, cat *catalog.Repository, now time.Time) (Result, error) {
	var res Result

	if cat != nil {
		for _, b := range d.Brands {
			if _, err := cat.AddBrand(b); err != nil {
				return res, fmt.Errorf("seeding brand %s: %w", b.Name, err)
			}
			res.Brands++
		}
		for _, c := range d.Chains {
			if _, err := cat.AddChain(catalog.Chain{Name: c.Name, StoreCount: c.StoreCount, Regions: c.Regions}); err != nil {
				return res, fmt.Errorf("seeding chain %s: %w", c.Name, err)
			}
			res.Chains++
		}
		for _, s := range d.Stores {
			if _, err := cat.AddStore(s); err != nil {
				return res, fmt.Errorf("seeding store %s: %w", s.Name, err)
			}
			res.Stores++
		}
	}

	for _, sv := range d.Visits {
		v, err := sv.build(now)
		if err != nil {
			return res, fmt.Errorf("seeding visit %s: %w", sv.ID, err)
		}
		if err := visits.Import(v); err != nil {
			return res, fmt.Errorf("seeding visit %s: %w", sv.ID, err)
		}
		res.Visits++
	}

	return res, nil
}

func (sv Visit) build(now time.Time) (*visit.Visit, error) {
	date := now.AddDate(0, 0, sv.DayOffset).Format("2006-01-02")
	clock, err := visit.NormalizeTime(strings.TrimSpace(sv.Time))
	if err != nil {
		return nil, fmt.Errorf("time %q: %w", sv.Time, err)
	}

	v := &visit.Visit{
		ID:                     sv.ID,
		Title:                  sv.Store,
		Store:                  sv.Store,
		Address:                sv.Address,
		ScheduledDate:          date,
		ScheduledTime:          clock,
		PlannedDurationMinutes: sv.Duration,
		Assignee:               sv.Assignee,
		Priority:               sv.Priority,
		Status:                 sv.Status,
		Notes:                  sv.Notes,
		Photos:                 sv.Photos,
		Tasks:                  make([]visit.Task, 0, len(sv.Tasks)),
	}
	for i, t := range sv.Tasks {
		v.Tasks = append(v.Tasks, visit.Task{ID: strconv.Itoa(i + 1), Name: t.Name, Completed: t.Completed})
	}
	if v.Priority == "" {
		v.Priority = visit.PriorityMedium
	}

	switch v.Status {
	case visit.StatusInProgress:
		started := now.Add(-time.Duration(sv.StartedMinutesAgo) * time.Minute)
		v.StartedAt = &started
		v.IsActive = sv.Active
		v.AccumulatedSeconds = int64(sv.ActiveMinutes) * 60
		v.ProgressPercent = visit.Progress(v.Tasks)
	case visit.StatusCompleted:
		started, err := v.ScheduledAt(now.Location())
		if err != nil {
			return nil, err
		}
		ended := started.Add(time.Duration(sv.ActiveMinutes) * time.Minute)
		minutes := sv.ActiveMinutes
		v.StartedAt = &started
		v.EndedAt = &ended
		v.AccumulatedSeconds = int64(sv.ActiveMinutes) * 60
		v.ActualDurationMinutes = &minutes
		v.ProgressPercent = 100
	}

	return v, nil
}
