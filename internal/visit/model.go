// Package visit provides the field visit domain model, the in-memory visit
// store, and the lifecycle engine that drives visits from planned to completed.
package visit

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a visit.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ValidStatuses is the set of allowed visit statuses.
var ValidStatuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further lifecycle transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusPlanned:
		return "Planned"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Priority is an informational urgency level. It never affects the lifecycle.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriorities is the set of allowed priorities, least urgent first.
var ValidPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// IsValid checks if a priority is recognized.
func (p Priority) IsValid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities from low (0) to urgent (3). Unknown values rank -1.
func (p Priority) Rank() int {
	for i, v := range ValidPriorities {
		if p == v {
			return i
		}
	}
	return -1
}

// Task is one checklist item of a visit.
type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Visit is a scheduled field inspection of a retail store.
type Visit struct {
	ID                     string     `json:"id"`
	Title                  string     `json:"title"`
	Store                  string     `json:"store"`
	Address                string     `json:"address"`
	ScheduledDate          string     `json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime          string     `json:"scheduled_time"` // HH:MM
	PlannedDurationMinutes int        `json:"planned_duration_minutes"`
	Assignee               string     `json:"assignee"`
	Priority               Priority   `json:"priority"`
	Status                 Status     `json:"status"`
	IsActive               bool       `json:"is_active"`
	AccumulatedSeconds     int64      `json:"accumulated_active_seconds"`
	StartedAt              *time.Time `json:"started_at,omitempty"`
	EndedAt                *time.Time `json:"ended_at,omitempty"`
	ActualDurationMinutes  *int       `json:"actual_duration_minutes,omitempty"`
	ProgressPercent        int        `json:"progress_percent"`
	Notes                  string     `json:"notes"`
	Tasks                  []Task     `json:"tasks"`
	Photos                 []string   `json:"photos"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// NewVisit is the input for assigning a new visit.
type NewVisit struct {
	Title                  string   `json:"title"`
	Store                  string   `json:"store"`
	Address                string   `json:"address"`
	ScheduledDate          string   `json:"scheduled_date"`
	ScheduledTime          string   `json:"scheduled_time"`
	PlannedDurationMinutes int      `json:"planned_duration_minutes"`
	Assignee               string   `json:"assignee"`
	Priority               Priority `json:"priority"`
	Notes                  string   `json:"notes"`
	Tasks                  []string `json:"tasks"`
}

// Schedule holds the fields a planned visit may be rescheduled with.
// Zero values leave the current value in place.
type Schedule struct {
	ScheduledDate          string   `json:"scheduled_date"`
	ScheduledTime          string   `json:"scheduled_time"`
	PlannedDurationMinutes int      `json:"planned_duration_minutes"`
	Assignee               string   `json:"assignee"`
	Priority               Priority `json:"priority"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ScheduledAt combines the scheduled date and time in the given location.
func (v *Visit) ScheduledAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, v.ScheduledDate+" "+v.ScheduledTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing schedule of visit %s: %w", v.ID, err)
	}
	return t, nil
}

// CompletedTasks returns how many tasks are marked completed.
func (v *Visit) CompletedTasks() int {
	n := 0
	for _, t := range v.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Progress returns round(100 * completed / total), or 0 when there are no tasks.
func Progress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return (200*done + len(tasks)) / (2 * len(tasks))
}

// clone returns a deep copy so stored records never alias caller memory.
func (v *Visit) clone() *Visit {
	c := *v
	if v.Tasks != nil {
		c.Tasks = make([]Task, len(v.Tasks))
		copy(c.Tasks, v.Tasks)
	}
	if v.Photos != nil {
		c.Photos = make([]string, len(v.Photos))
		copy(c.Photos, v.Photos)
	}
	if v.StartedAt != nil {
		t := *v.StartedAt
		c.StartedAt = &t
	}
	if v.EndedAt != nil {
		t := *v.EndedAt
		c.EndedAt = &t
	}
	if v.ActualDurationMinutes != nil {
		m := *v.ActualDurationMinutes
		c.ActualDurationMinutes = &m
	}
	return &c
}

// NormalizeDate validates a YYYY-MM-DD date and returns it zero-padded.
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

// NormalizeTime validates an HH:MM time of day and returns it zero-padded.
func NormalizeTime(s string) (string, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
