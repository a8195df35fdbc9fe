package visit

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Action names a lifecycle operation.
type Action string

const (
	ActionStart      Action = "start"
	ActionPause      Action = "pause"
	ActionResume     Action = "resume"
	ActionFinish     Action = "finish"
	ActionToggleTask Action = "toggle task on"
	ActionAddPhotos  Action = "add photos to"
	ActionEditNotes  Action = "edit notes of"
	ActionReschedule Action = "reschedule"
)

// phase refines Status with the running/paused sub-state of in-progress.
type phase int

const (
	phasePlanned phase = iota
	phaseRunning
	phasePaused
	phaseCompleted
)

func phaseOf(v *Visit) phase {
	switch v.Status {
	case StatusInProgress:
		if v.IsActive {
			return phaseRunning
		}
		return phasePaused
	case StatusCompleted:
		return phaseCompleted
	default:
		return phasePlanned
	}
}

func (p phase) String() string {
	switch p {
	case phaseRunning:
		return "in-progress (running)"
	case phasePaused:
		return "in-progress (paused)"
	case phaseCompleted:
		return "completed"
	default:
		return "planned"
	}
}

// transitions lists the phases each action is allowed from.
var transitions = map[Action][]phase{
	ActionStart:      {phasePlanned},
	ActionPause:      {phaseRunning},
	ActionResume:     {phasePaused},
	ActionFinish:     {phaseRunning, phasePaused},
	ActionToggleTask: {phaseRunning, phasePaused, phaseCompleted},
	ActionAddPhotos:  {phaseRunning, phasePaused, phaseCompleted},
	ActionEditNotes:  {phasePlanned, phaseRunning, phasePaused, phaseCompleted},
	ActionReschedule: {phasePlanned},
}

// Allowed reports whether action may be applied to v in its current state.
func Allowed(v *Visit, action Action) bool {
	p := phaseOf(v)
	for _, from := range transitions[action] {
		if from == p {
			return true
		}
	}
	return false
}

// Timer tracks the live elapsed seconds of running visits.
type Timer interface {
	Start(id string, initialSeconds int64)
	Stop(id string)
	Elapsed(id string) int64
	Reset(id string)
}

// Directory resolves catalog details for a store name.
type Directory interface {
	LookupStore(name string) (address string, found bool, err error)
}

// Engine is the only sanctioned way to change a visit's status, active flag,
// timestamps, or timer. Transitions on the same visit are serialized.
type Engine struct {
	store     *Store
	timer     Timer
	directory Directory
	locks     keyedMutex
	nowFunc   func() time.Time // for testing; defaults to time.Now
}

// NewEngine creates a lifecycle engine over the given store and timer.
func NewEngine(store *Store, timer Timer) *Engine {
	return &Engine{
		store:   store,
		timer:   timer,
		nowFunc: time.Now,
	}
}

// WithDirectory sets the catalog used to fill in store addresses on Assign.
func (e *Engine) WithDirectory(d Directory) *Engine {
	e.directory = d
	return e
}

// Store returns the underlying visit store for reads.
func (e *Engine) Store() *Store {
	return e.store
}

// Assign creates a planned visit. When the store is known to the directory
// and no address was given, the catalog address is used.
func (e *Engine) Assign(in NewVisit) (*Visit, error) {
	if e.directory != nil && strings.TrimSpace(in.Address) == "" && strings.TrimSpace(in.Store) != "" {
		addr, found, err := e.directory.LookupStore(strings.TrimSpace(in.Store))
		if err != nil {
			return nil, err
		}
		if found {
			in.Address = addr
		}
	}

	v, err := e.store.Create(in)
	if err != nil {
		return nil, err
	}
	slog.Info("visit assigned", "visit_id", v.ID, "store", v.Store, "assignee", v.Assignee, "date", v.ScheduledDate)
	return v, nil
}

// Start moves a planned visit to in-progress and starts its timer.
func (e *Engine) Start(id string) (*Visit, error) {
	return e.transition(id, ActionStart, func(v *Visit) (effects, error) {
		now := e.nowFunc()
		v.Status = StatusInProgress
		v.IsActive = true
		v.StartedAt = &now
		return effects{commit: func() { e.timer.Start(id, 0) }}, nil
	})
}

// Pause stops the timer of a running visit and folds the segment into the
// accumulated total.
func (e *Engine) Pause(id string) (*Visit, error) {
	return e.transition(id, ActionPause, func(v *Visit) (effects, error) {
		seg := e.haltSegment(id)
		v.AccumulatedSeconds += seg
		v.IsActive = false
		return effects{undo: func() { e.timer.Start(id, seg) }}, nil
	})
}

// Resume starts a fresh timer segment on a paused visit. The segment is
// folded into the accumulated total at the next pause or finish.
func (e *Engine) Resume(id string) (*Visit, error) {
	return e.transition(id, ActionResume, func(v *Visit) (effects, error) {
		v.IsActive = true
		return effects{commit: func() { e.timer.Start(id, 0) }}, nil
	})
}

// Finish completes an in-progress visit and clears its timer.
func (e *Engine) Finish(id string) (*Visit, error) {
	return e.transition(id, ActionFinish, func(v *Visit) (effects, error) {
		var fx effects
		if v.IsActive {
			seg := e.haltSegment(id)
			v.AccumulatedSeconds += seg
			fx.undo = func() { e.timer.Start(id, seg) }
		}
		now := e.nowFunc()
		minutes := int(v.AccumulatedSeconds / 60)
		v.Status = StatusCompleted
		v.IsActive = false
		v.EndedAt = &now
		v.ActualDurationMinutes = &minutes
		v.ProgressPercent = 100
		fx.commit = func() { e.timer.Reset(id) }
		return fx, nil
	})
}

// ToggleTask flips the completion of one task and recomputes progress,
// including on completed visits.
func (e *Engine) ToggleTask(visitID, taskID string) (*Visit, error) {
	return e.transition(visitID, ActionToggleTask, func(v *Visit) (effects, error) {
		for i := range v.Tasks {
			if v.Tasks[i].ID == taskID {
				v.Tasks[i].Completed = !v.Tasks[i].Completed
				v.ProgressPercent = Progress(v.Tasks)
				return effects{}, nil
			}
		}
		return effects{}, &NotFoundError{Kind: "task", ID: taskID}
	})
}

// EditNotes replaces the notes of a visit in any state.
func (e *Engine) EditNotes(id, text string) (*Visit, error) {
	return e.transition(id, ActionEditNotes, func(v *Visit) (effects, error) {
		v.Notes = text
		return effects{}, nil
	})
}

// AddPhotos appends photo references to a started or completed visit.
func (e *Engine) AddPhotos(id string, photos ...string) (*Visit, error) {
	return e.transition(id, ActionAddPhotos, func(v *Visit) (effects, error) {
		for _, p := range photos {
			p = strings.TrimSpace(p)
			if p == "" {
				return effects{}, invalid("photos", "empty photo reference")
			}
			v.Photos = append(v.Photos, p)
		}
		return effects{}, nil
	})
}

// Reschedule changes the date, time, duration, assignee or priority of a
// planned visit. Zero fields in s are left unchanged.
func (e *Engine) Reschedule(id string, s Schedule) (*Visit, error) {
	return e.transition(id, ActionReschedule, func(v *Visit) (effects, error) {
		if s.ScheduledDate != "" {
			d, err := NormalizeDate(strings.TrimSpace(s.ScheduledDate))
			if err != nil {
				return effects{}, invalid("scheduled_date", "use YYYY-MM-DD, got %q", s.ScheduledDate)
			}
			v.ScheduledDate = d
		}
		if s.ScheduledTime != "" {
			t, err := NormalizeTime(strings.TrimSpace(s.ScheduledTime))
			if err != nil {
				return effects{}, invalid("scheduled_time", "use HH:MM, got %q", s.ScheduledTime)
			}
			v.ScheduledTime = t
		}
		if s.PlannedDurationMinutes < 0 {
			return effects{}, invalid("planned_duration_minutes", "must be greater than zero, got %d", s.PlannedDurationMinutes)
		}
		if s.PlannedDurationMinutes > 0 {
			v.PlannedDurationMinutes = s.PlannedDurationMinutes
		}
		if a := strings.TrimSpace(s.Assignee); a != "" {
			v.Assignee = a
		}
		if s.Priority != "" {
			if !s.Priority.IsValid() {
				return effects{}, invalid("priority", "unknown priority %q", s.Priority)
			}
			v.Priority = s.Priority
		}
		return effects{}, nil
	})
}

// Remove stops and clears the visit's timer and deletes the visit.
// Removing an unknown id is not an error.
func (e *Engine) Remove(id string) {
	unlock := e.locks.lock(id)
	defer unlock()

	e.timer.Reset(id)
	e.store.Remove(id)
	slog.Info("visit removed", "visit_id", id)
}

// ActiveSeconds returns the accumulated active time plus the live timer
// segment when the visit is running. It waits for any in-flight transition
// on the visit.
func (e *Engine) ActiveSeconds(id string) (int64, bool, error) {
	unlock := e.locks.lock(id)
	defer unlock()

	v, err := e.store.Get(id)
	if err != nil {
		return 0, false, err
	}
	total := v.AccumulatedSeconds
	if v.Status == StatusInProgress && v.IsActive {
		total += e.timer.Elapsed(id)
	}
	return total, v.Status == StatusInProgress && v.IsActive, nil
}

// RestoreTimers starts a fresh timer segment for every running visit, e.g.
// after seed data is imported. It returns how many timers were started.
func (e *Engine) RestoreTimers() int {
	n := 0
	for _, v := range e.store.List(Filter{Status: StatusInProgress}) {
		if !v.IsActive {
			continue
		}
		unlock := e.locks.lock(v.ID)
		e.timer.Start(v.ID, 0)
		unlock()
		n++
	}
	return n
}

// effects are the timer changes of a transition. commit runs once the new
// snapshot is stored; undo reverts anything mutate already did to the timer
// when the snapshot is rejected.
type effects struct {
	commit func()
	undo   func()
}

func (fx effects) revert() {
	if fx.undo != nil {
		fx.undo()
	}
}

// haltSegment stops the visit's ticker and returns the seconds it counted.
func (e *Engine) haltSegment(id string) int64 {
	e.timer.Stop(id)
	return e.timer.Elapsed(id)
}

// transition applies mutate to a copy of the visit, validates the result and
// stores it.
func (e *Engine) transition(id string, action Action, mutate func(v *Visit) (effects, error)) (*Visit, error) {
	unlock := e.locks.lock(id)
	defer unlock()

	v, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	from := phaseOf(v)
	if !Allowed(v, action) {
		slog.Debug("transition rejected", "visit_id", id, "action", string(action), "from", from.String())
		return nil, &InvalidTransitionError{VisitID: id, Action: action, From: from.String()}
	}

	fx, err := mutate(v)
	if err != nil {
		fx.revert()
		return nil, err
	}

	if err := e.store.Update(v); err != nil {
		fx.revert()
		return nil, err
	}
	if fx.commit != nil {
		fx.commit()
	}

	slog.Info("visit transition", "visit_id", id, "action", string(action), "from", from.String(), "to", phaseOf(v).String())
	return e.store.Get(id)
}

// keyedMutex serializes work per visit id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(id string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[id]
	if !ok {
		e = &keyedEntry{}
		k.locks[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
