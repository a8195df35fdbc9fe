package visit

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultTime is the start time used when an assignment omits one.
const defaultTime = "10:00"

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Status   Status
	Assignee string
	Query    string // case-insensitive match on title or address
}

func (f Filter) matches(v *Visit) bool {
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if f.Assignee != "" && !strings.EqualFold(f.Assignee, v.Assignee) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(v.Title), q) && !strings.Contains(strings.ToLower(v.Address), q) {
			return false
		}
	}
	return true
}

// Store holds the authoritative set of visits in process memory.
// It is safe for concurrent use; every read returns a deep copy.
type Store struct {
	mu      sync.RWMutex
	visits  map[string]*Visit
	newID   func() string
	nowFunc func() time.Time // for testing; defaults to time.Now
}

// NewStore creates an empty visit store.
func NewStore() *Store {
	return &Store{
		visits:  make(map[string]*Visit),
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
		nowFunc: time.Now,
	}
}

// Create validates the input and stores a new planned visit.
func (s *Store) Create(in NewVisit) (*Visit, error) {
	v, err := s.build(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = s.newID()
	for {
		if _, taken := s.visits[v.ID]; !taken {
			break
		}
		v.ID = s.newID()
	}
	s.visits[v.ID] = v

	return v.clone(), nil
}

// build turns assignment input into a planned visit without an id.
func (s *Store) build(in NewVisit) (*Visit, error) {
	store := strings.TrimSpace(in.Store)
	if store == "" {
		return nil, invalid("store", "store is required")
	}
	assignee := strings.TrimSpace(in.Assignee)
	if assignee == "" {
		return nil, invalid("assignee", "assignee is required")
	}
	if in.PlannedDurationMinutes <= 0 {
		return nil, invalid("planned_duration_minutes", "must be greater than zero, got %d", in.PlannedDurationMinutes)
	}
	if strings.TrimSpace(in.ScheduledDate) == "" {
		return nil, invalid("scheduled_date", "date is required (YYYY-MM-DD)")
	}
	date, err := NormalizeDate(strings.TrimSpace(in.ScheduledDate))
	if err != nil {
		return nil, invalid("scheduled_date", "use YYYY-MM-DD, got %q", in.ScheduledDate)
	}
	clock := strings.TrimSpace(in.ScheduledTime)
	if clock == "" {
		clock = defaultTime
	}
	clock, err = NormalizeTime(clock)
	if err != nil {
		return nil, invalid("scheduled_time", "use HH:MM, got %q", in.ScheduledTime)
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, invalid("priority", "unknown priority %q", in.Priority)
	}

	tasks := make([]Task, 0, len(in.Tasks))
	for i, name := range in.Tasks {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalid("tasks", "task %d has no name", i+1)
		}
		tasks = append(tasks, Task{ID: strconv.Itoa(i + 1), Name: name})
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = store
	}

	now := s.nowFunc()
	return &Visit{
		Title:                  title,
		Store:                  store,
		Address:                strings.TrimSpace(in.Address),
		ScheduledDate:          date,
		ScheduledTime:          clock,
		PlannedDurationMinutes: in.PlannedDurationMinutes,
		Assignee:               assignee,
		Priority:               priority,
		Status:                 StatusPlanned,
		Notes:                  in.Notes,
		Tasks:                  tasks,
		Photos:                 []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

// Get returns a copy of the visit with the given id.
func (s *Store) Get(id string) (*Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.visits[id]
	if !ok {
		return nil, &NotFoundError{Kind: "visit", ID: id}
	}
	return v.clone(), nil
}

// Update replaces the stored visit with the same id. The snapshot must keep
// identity fields intact and satisfy the lifecycle invariants.
func (s *Store) Update(v *Visit) error {
	if v == nil {
		return invalid("", "nil visit")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.visits[v.ID]
	if !ok {
		return &NotFoundError{Kind: "visit", ID: v.ID}
	}
	if err := checkUpdate(cur, v); err != nil {
		return err
	}

	next := v.clone()
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.nowFunc()
	s.visits[v.ID] = next
	return nil
}

// Remove deletes a visit. Removing an unknown id is not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.visits, id)
}

// List returns copies of all visits matching the filter, in no particular order.
func (s *Store) List(f Filter) []*Visit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visits := make([]*Visit, 0, len(s.visits))
	for _, v := range s.visits {
		if f.matches(v) {
			visits = append(visits, v.clone())
		}
	}
	return visits
}

// Len returns the number of stored visits.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visits)
}

// Import stores a complete visit record as-is, e.g. seed data that is
// already in progress. The record must satisfy every invariant.
func (s *Store) Import(v *Visit) error {
	if v == nil {
		return invalid("", "nil visit")
	}
	if strings.TrimSpace(v.ID) == "" {
		return invalid("id", "id is required")
	}
	if err := checkFields(v); err != nil {
		return err
	}
	if err := checkInvariants(v); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.visits[v.ID]; exists {
		return invalid("id", "visit %s already exists", v.ID)
	}

	c := v.clone()
	now := s.nowFunc()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	if c.Tasks == nil {
		c.Tasks = []Task{}
	}
	if c.Photos == nil {
		c.Photos = []string{}
	}
	s.visits[c.ID] = c
	return nil
}

// checkUpdate validates a replacement snapshot against the stored record.
func checkUpdate(cur, next *Visit) error {
	if next.Title != cur.Title || next.Store != cur.Store || next.Address != cur.Address {
		return invalid("", "title, store and address are immutable")
	}
	if err := checkFields(next); err != nil {
		return err
	}
	if err := checkInvariants(next); err != nil {
		return err
	}

	if cur.Status == StatusCompleted {
		if !appendOnly(cur.Photos, next.Photos) {
			return invalid("photos", "photos of a completed visit are append-only")
		}
		if !sameChecklist(cur.Tasks, next.Tasks) {
			return invalid("tasks", "tasks of a completed visit can only be checked or unchecked")
		}
		a, b := cur.clone(), next.clone()
		a.Notes, b.Notes = "", ""
		a.Photos, b.Photos = nil, nil
		a.Tasks, b.Tasks = nil, nil
		a.ProgressPercent, b.ProgressPercent = 0, 0
		a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
		a.UpdatedAt, b.UpdatedAt = time.Time{}, time.Time{}
		if !reflect.DeepEqual(a, b) {
			return invalid("", "completed visit %s only accepts notes, photos and task checks", cur.ID)
		}
		return nil
	}

	if next.AccumulatedSeconds < cur.AccumulatedSeconds {
		return invalid("accumulated_active_seconds", "cannot decrease from %d to %d", cur.AccumulatedSeconds, next.AccumulatedSeconds)
	}
	return nil
}

// checkFields validates the descriptive and scheduling fields.
func checkFields(v *Visit) error {
	if strings.TrimSpace(v.Store) == "" {
		return invalid("store", "store is required")
	}
	if strings.TrimSpace(v.Assignee) == "" {
		return invalid("assignee", "assignee is required")
	}
	if v.PlannedDurationMinutes <= 0 {
		return invalid("planned_duration_minutes", "must be greater than zero, got %d", v.PlannedDurationMinutes)
	}
	if d, err := NormalizeDate(v.ScheduledDate); err != nil || d != v.ScheduledDate {
		return invalid("scheduled_date", "use YYYY-MM-DD, got %q", v.ScheduledDate)
	}
	if t, err := NormalizeTime(v.ScheduledTime); err != nil || t != v.ScheduledTime {
		return invalid("scheduled_time", "use HH:MM, got %q", v.ScheduledTime)
	}
	if !v.Priority.IsValid() {
		return invalid("priority", "unknown priority %q", v.Priority)
	}
	if v.ProgressPercent < 0 || v.ProgressPercent > 100 {
		return invalid("progress_percent", "must be 0-100, got %d", v.ProgressPercent)
	}
	return nil
}

// checkInvariants enforces the status-dependent field combinations.
func checkInvariants(v *Visit) error {
	switch v.Status {
	case StatusPlanned:
		if v.IsActive || v.AccumulatedSeconds != 0 || v.StartedAt != nil || v.EndedAt != nil {
			return invalid("status", "planned visit cannot be active, timed, started or ended")
		}
	case StatusInProgress:
		if v.StartedAt == nil {
			return invalid("started_at", "in-progress visit must have a start time")
		}
		if v.EndedAt != nil {
			return invalid("ended_at", "in-progress visit cannot have an end time")
		}
	case StatusCompleted:
		if v.IsActive {
			return invalid("is_active", "completed visit cannot be active")
		}
		if v.EndedAt == nil {
			return invalid("ended_at", "completed visit must have an end time")
		}
		if v.ActualDurationMinutes == nil || int64(*v.ActualDurationMinutes) != v.AccumulatedSeconds/60 {
			return invalid("actual_duration_minutes", "must equal accumulated seconds / 60")
		}
	default:
		return invalid("status", "unknown status %q", v.Status)
	}
	if v.AccumulatedSeconds < 0 {
		return invalid("accumulated_active_seconds", "cannot be negative")
	}
	return nil
}

// sameChecklist reports whether two task lists differ at most in completion.
func sameChecklist(before, after []Task) bool {
	if len(before) != len(after) {
		return false
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Name != after[i].Name {
			return false
		}
	}
	return true
}

func appendOnly(before, after []string) bool {
	if len(after) < len(before) {
		return false
	}
	for i := range before {
		if before[i] != after[i] {
			return false
		}
	}
	return true
}
