package visit

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/evcraddock/field-visits/internal/timer"
)

// simTicks feeds simulated seconds to the timer registry.
type simTicks struct {
	mu    sync.Mutex
	chans []chan time.Time
}

func (s *simTicks) source(time.Duration) (<-chan time.Time, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan time.Time)
	s.chans = append(s.chans, ch)
	return ch, func() {}
}

// advance delivers n simulated seconds to the most recently started ticker.
func (s *simTicks) advance(t *testing.T, n int) {
	t.Helper()
	s.mu.Lock()
	ch := s.chans[len(s.chans)-1]
	s.mu.Unlock()
	for i := 0; i < n; i++ {
		select {
		case ch <- time.Time{}:
		case <-time.After(2 * time.Second):
			t.Fatalf("simulated second %d not consumed", i+1)
		}
	}
}

type fakeDirectory map[string]string

func (d fakeDirectory) LookupStore(name string) (string, bool, error) {
	addr, ok := d[name]
	return addr, ok, nil
}

func testEngine(t *testing.T) (*Engine, *timer.Registry, *simTicks) {
	t.Helper()
	ticks := &simTicks{}
	reg := timer.New(timer.WithTickSource(ticks.source))
	t.Cleanup(reg.StopAll)

	e := NewEngine(NewStore(), reg)
	fixed := time.Date(2025, 7, 20, 17, 0, 0, 0, time.UTC)
	e.nowFunc = func() time.Time { return fixed }
	return e, reg, ticks
}

func assignTestVisit(t *testing.T, e *Engine) *Visit {
	t.Helper()
	v, err := e.Assign(validInput())
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	return v
}

func snapshot(t *testing.T, e *Engine, id string) string {
	t.Helper()
	v, err := e.Store().Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestEndToEndScenario(t *testing.T) {
	e, reg, _ := testEngine(t)

	v, err := e.Assign(NewVisit{
		Store: "Día Malasaña", ScheduledDate: "2025-07-20", ScheduledTime: "17:00",
		PlannedDurationMinutes: 60, Assignee: "Ana", Priority: PriorityLow,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if v.Status != StatusPlanned || v.ProgressPercent != 0 {
		t.Fatalf("after assign: status=%q progress=%d", v.Status, v.ProgressPercent)
	}

	v, err = e.Start(v.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if v.Status != StatusInProgress || !v.IsActive {
		t.Fatalf("after start: status=%q active=%v", v.Status, v.IsActive)
	}
	if v.StartedAt == nil {
		t.Fatal("expected started_at to be set")
	}
	if !reg.Running(v.ID) {
		t.Fatal("expected timer running after start")
	}

	v, err = e.Finish(v.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if v.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", v.Status)
	}
	if v.ActualDurationMinutes == nil || *v.ActualDurationMinutes != 0 {
		t.Errorf("actual duration = %v, want 0", v.ActualDurationMinutes)
	}
	if v.ProgressPercent != 100 {
		t.Errorf("progress = %d, want 100", v.ProgressPercent)
	}
	if reg.Running(v.ID) {
		t.Error("expected timer stopped after finish")
	}
}

func TestTimerAccumulation(t *testing.T) {
	e, reg, ticks := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	ticks.advance(t, 5)

	paused, err := e.Pause(v.ID)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.AccumulatedSeconds != 5 {
		t.Errorf("accumulated after pause = %d, want 5", paused.AccumulatedSeconds)
	}
	if paused.IsActive {
		t.Error("expected inactive after pause")
	}
	if reg.Running(v.ID) {
		t.Error("expected timer stopped after pause")
	}

	if _, err := e.Resume(v.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	ticks.advance(t, 3)

	done, err := e.Finish(v.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.AccumulatedSeconds != 8 {
		t.Errorf("accumulated = %d, want 8", done.AccumulatedSeconds)
	}
	if done.ActualDurationMinutes == nil || *done.ActualDurationMinutes != 0 {
		t.Errorf("actual duration = %v, want 0", done.ActualDurationMinutes)
	}
}

func TestFinishWhilePausedDoesNotRecount(t *testing.T) {
	e, _, ticks := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	ticks.advance(t, 61)
	if _, err := e.Pause(v.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}

	done, err := e.Finish(v.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.AccumulatedSeconds != 61 {
		t.Errorf("accumulated = %d, want 61", done.AccumulatedSeconds)
	}
	if *done.ActualDurationMinutes != 1 {
		t.Errorf("actual duration = %d, want 1", *done.ActualDurationMinutes)
	}
}

func TestCompletedInvariants(t *testing.T) {
	e, _, ticks := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	ticks.advance(t, 125)
	done, err := e.Finish(v.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}

	if done.IsActive {
		t.Error("completed visit is active")
	}
	if done.EndedAt == nil {
		t.Error("completed visit has no ended_at")
	}
	if int64(*done.ActualDurationMinutes) != done.AccumulatedSeconds/60 {
		t.Errorf("actual = %d, accumulated = %d", *done.ActualDurationMinutes, done.AccumulatedSeconds)
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		setup  []Action
		action Action
	}{
		{"pause planned", nil, ActionPause},
		{"resume planned", nil, ActionResume},
		{"finish planned", nil, ActionFinish},
		{"toggle planned", nil, ActionToggleTask},
		{"photos planned", nil, ActionAddPhotos},
		{"start running", []Action{ActionStart}, ActionStart},
		{"resume running", []Action{ActionStart}, ActionResume},
		{"pause paused", []Action{ActionStart, ActionPause}, ActionPause},
		{"reschedule running", []Action{ActionStart}, ActionReschedule},
		{"finish completed", []Action{ActionStart, ActionFinish}, ActionFinish},
		{"start completed", []Action{ActionStart, ActionFinish}, ActionStart},
		{"reschedule completed", []Action{ActionStart, ActionFinish}, ActionReschedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := testEngine(t)
			v := assignTestVisit(t, e)
			for _, a := range tt.setup {
				if _, err := apply(e, v.ID, a); err != nil {
					t.Fatalf("setup %s: %v", a, err)
				}
			}

			before := snapshot(t, e, v.ID)
			_, err := apply(e, v.ID, tt.action)

			var terr *InvalidTransitionError
			if !asInvalidTransition(err, &terr) {
				t.Fatalf("err = %v, want InvalidTransitionError", err)
			}
			if terr.Action != tt.action || terr.VisitID != v.ID {
				t.Errorf("error = %+v, want action %q on %s", terr, tt.action, v.ID)
			}
			if after := snapshot(t, e, v.ID); after != before {
				t.Errorf("visit changed on rejected transition:\nbefore %s\nafter  %s", before, after)
			}
		})
	}
}

func apply(e *Engine, id string, a Action) (*Visit, error) {
	switch a {
	case ActionStart:
		return e.Start(id)
	case ActionPause:
		return e.Pause(id)
	case ActionResume:
		return e.Resume(id)
	case ActionFinish:
		return e.Finish(id)
	case ActionToggleTask:
		return e.ToggleTask(id, "1")
	case ActionAddPhotos:
		return e.AddPhotos(id, "shelf.jpg")
	case ActionReschedule:
		return e.Reschedule(id, Schedule{ScheduledTime: "08:00"})
	default:
		return e.EditNotes(id, "notes")
	}
}

func asInvalidTransition(err error, target **InvalidTransitionError) bool {
	return errors.As(err, target)
}

func TestTransitionUnknownVisit(t *testing.T) {
	e, _, _ := testEngine(t)

	for _, a := range []Action{ActionStart, ActionPause, ActionResume, ActionFinish, ActionEditNotes} {
		if _, err := apply(e, "ghost", a); !IsNotFound(err) {
			t.Errorf("%s: err = %v, want NotFoundError", a, err)
		}
	}
}

func TestToggleTaskProgress(t *testing.T) {
	e, _, _ := testEngine(t)
	in := validInput()
	in.Tasks = []string{"Auditoría de lineal", "Verificación de PLV", "Comprobar precios"}
	v, err := e.Assign(in)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	v, err = e.ToggleTask(v.ID, "1")
	if err != nil {
		t.Fatalf("toggle 1: %v", err)
	}
	if v.ProgressPercent != 33 {
		t.Errorf("progress = %d, want 33", v.ProgressPercent)
	}

	v, err = e.ToggleTask(v.ID, "2")
	if err != nil {
		t.Fatalf("toggle 2: %v", err)
	}
	if v.ProgressPercent != 67 {
		t.Errorf("progress = %d, want 67", v.ProgressPercent)
	}

	v, err = e.ToggleTask(v.ID, "2")
	if err != nil {
		t.Fatalf("untoggle 2: %v", err)
	}
	if v.ProgressPercent != 33 {
		t.Errorf("progress = %d, want 33", v.ProgressPercent)
	}

	if _, err := e.ToggleTask(v.ID, "99"); !IsNotFound(err) {
		t.Errorf("unknown task: err = %v, want NotFoundError", err)
	}
}

func TestToggleTaskWhilePaused(t *testing.T) {
	e, _, _ := testEngine(t)
	v := assignTestVisit(t, e)
	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.Pause(v.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}

	got, err := e.ToggleTask(v.ID, "1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.ProgressPercent != 50 {
		t.Errorf("progress = %d, want 50", got.ProgressPercent)
	}
}

func TestToggleTaskAfterFinish(t *testing.T) {
	e, _, _ := testEngine(t)
	in := validInput()
	in.Tasks = []string{"Auditoría de lineal", "Verificación de PLV", "Comprobar precios"}
	v, err := e.Assign(in)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	done, err := e.Finish(v.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.ProgressPercent != 100 {
		t.Fatalf("progress after finish = %d, want 100", done.ProgressPercent)
	}

	got, err := e.ToggleTask(v.ID, "1")
	if err != nil {
		t.Fatalf("toggle after finish: %v", err)
	}
	if !got.Tasks[0].Completed {
		t.Error("expected task 1 completed")
	}
	if got.ProgressPercent != 33 {
		t.Errorf("progress = %d, want 33", got.ProgressPercent)
	}
	if got.Status != StatusCompleted || *got.ActualDurationMinutes != *done.ActualDurationMinutes {
		t.Errorf("toggle changed lifecycle fields: %+v", got)
	}
}

func TestEditNotesAnyState(t *testing.T) {
	e, _, _ := testEngine(t)
	v := assignTestVisit(t, e)

	steps := []func() (*Visit, error){
		func() (*Visit, error) { return e.EditNotes(v.ID, "planned note") },
		func() (*Visit, error) { return e.Start(v.ID) },
		func() (*Visit, error) { return e.EditNotes(v.ID, "running note") },
		func() (*Visit, error) { return e.Finish(v.ID) },
		func() (*Visit, error) { return e.EditNotes(v.ID, "completed note") },
	}
	for i, step := range steps {
		if _, err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	got, err := e.Store().Get(v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Notes != "completed note" {
		t.Errorf("notes = %q, want %q", got.Notes, "completed note")
	}
}

func TestAddPhotosAfterCompletion(t *testing.T) {
	e, _, _ := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.AddPhotos(v.ID, "aisle.jpg"); err != nil {
		t.Fatalf("photos while running: %v", err)
	}
	if _, err := e.Finish(v.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}
	got, err := e.AddPhotos(v.ID, "receipt.jpg", "facing.jpg")
	if err != nil {
		t.Fatalf("photos after finish: %v", err)
	}
	if len(got.Photos) != 3 || got.Photos[0] != "aisle.jpg" {
		t.Errorf("photos = %v", got.Photos)
	}

	if _, err := e.AddPhotos(v.ID, " "); !IsValidation(err) {
		t.Errorf("blank photo: err = %v, want ValidationError", err)
	}
}

func TestReschedule(t *testing.T) {
	e, _, _ := testEngine(t)
	v := assignTestVisit(t, e)

	got, err := e.Reschedule(v.ID, Schedule{ScheduledDate: "2025-07-22", ScheduledTime: "8:15", Priority: PriorityUrgent})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if got.ScheduledDate != "2025-07-22" || got.ScheduledTime != "08:15" {
		t.Errorf("schedule = %s %s", got.ScheduledDate, got.ScheduledTime)
	}
	if got.Priority != PriorityUrgent {
		t.Errorf("priority = %q, want urgent", got.Priority)
	}
	if got.PlannedDurationMinutes != 60 || got.Assignee != "Ana" {
		t.Error("unset fields must keep their values")
	}

	if _, err := e.Reschedule(v.ID, Schedule{ScheduledDate: "tomorrow"}); !IsValidation(err) {
		t.Errorf("bad date: err = %v, want ValidationError", err)
	}
}

func TestAssignUsesDirectory(t *testing.T) {
	e, _, _ := testEngine(t)
	e.WithDirectory(fakeDirectory{"Mercadona Chamberí": "C/ de Bravo Murillo, 123"})

	v, err := e.Assign(NewVisit{
		Store: "Mercadona Chamberí", ScheduledDate: "2025-07-20", ScheduledTime: "19:30",
		PlannedDurationMinutes: 75, Assignee: "Luis",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if v.Address != "C/ de Bravo Murillo, 123" {
		t.Errorf("address = %q, want catalog address", v.Address)
	}

	v, err = e.Assign(NewVisit{
		Store: "Unknown Shop", ScheduledDate: "2025-07-20",
		PlannedDurationMinutes: 30, Assignee: "Luis",
	})
	if err != nil {
		t.Fatalf("assign unknown store: %v", err)
	}
	if v.Address != "" {
		t.Errorf("address = %q, want empty", v.Address)
	}
}

func TestRemoveStopsTimer(t *testing.T) {
	e, reg, _ := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Remove(v.ID)
	e.Remove(v.ID)

	if reg.Running(v.ID) {
		t.Error("expected timer stopped after remove")
	}
	if _, err := e.Store().Get(v.ID); !IsNotFound(err) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestActiveSeconds(t *testing.T) {
	e, reg, ticks := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	ticks.advance(t, 10)
	if _, err := e.Pause(v.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := e.Resume(v.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	ticks.advance(t, 4)

	// Wait for the last simulated tick to land on the counter.
	deadline := time.Now().Add(2 * time.Second)
	for reg.Elapsed(v.ID) < 4 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	secs, active, err := e.ActiveSeconds(v.ID)
	if err != nil {
		t.Fatalf("active seconds: %v", err)
	}
	if !active {
		t.Error("expected active")
	}
	if secs != 14 {
		t.Errorf("active seconds = %d, want 14", secs)
	}
}

func TestRestoreTimers(t *testing.T) {
	e, reg, _ := testEngine(t)
	started := time.Date(2025, 7, 20, 14, 30, 0, 0, time.UTC)
	seed := []*Visit{
		{ID: "running", Status: StatusInProgress, IsActive: true, StartedAt: &started},
		{ID: "paused", Status: StatusInProgress, IsActive: false, StartedAt: &started, AccumulatedSeconds: 90},
		{ID: "planned", Status: StatusPlanned},
	}
	for _, v := range seed {
		v.Title, v.Store, v.Assignee = "Carrefour Alcalá", "Carrefour Alcalá", "Carlos"
		v.ScheduledDate, v.ScheduledTime, v.PlannedDurationMinutes = "2025-07-20", "14:30", 90
		v.Priority = PriorityMedium
		if err := e.Store().Import(v); err != nil {
			t.Fatalf("import %s: %v", v.ID, err)
		}
	}

	if n := e.RestoreTimers(); n != 1 {
		t.Errorf("restored %d timers, want 1", n)
	}
	if !reg.Running("running") || reg.Running("paused") {
		t.Error("only the running visit should have a timer")
	}
}

func TestConcurrentPauseCountsOnce(t *testing.T) {
	e, _, ticks := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	ticks.advance(t, 7)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Pause(v.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else if !IsInvalidTransition(err) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d pauses succeeded, want 1", ok)
	}

	got, err := e.Store().Get(v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AccumulatedSeconds != 7 {
		t.Errorf("accumulated = %d, want 7", got.AccumulatedSeconds)
	}
}

// gateTimer is a Timer whose counters are set by hand. While gated, Start
// blocks until release is closed.
type gateTimer struct {
	mu      sync.Mutex
	elapsed map[string]int64
	calls   []string

	gated   bool
	entered chan struct{}
	release chan struct{}
}

func newGateTimer() *gateTimer {
	return &gateTimer{
		elapsed: make(map[string]int64),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gateTimer) Start(id string, initial int64) {
	g.mu.Lock()
	gated := g.gated
	g.calls = append(g.calls, fmt.Sprintf("start %s %d", id, initial))
	g.mu.Unlock()
	if gated {
		close(g.entered)
		<-g.release
	}
	g.set(id, initial)
}

func (g *gateTimer) Stop(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "stop "+id)
}

func (g *gateTimer) Elapsed(id string) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.elapsed[id]
}

func (g *gateTimer) Reset(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "reset "+id)
	delete(g.elapsed, id)
}

func (g *gateTimer) set(id string, secs int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.elapsed[id] = secs
}

func (g *gateTimer) gate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gated = true
}

func (g *gateTimer) history() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func TestActiveSecondsDuringResume(t *testing.T) {
	gt := newGateTimer()
	e := NewEngine(NewStore(), gt)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	gt.set(v.ID, 5)
	if _, err := e.Pause(v.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}

	gt.gate()
	resumed := make(chan error, 1)
	go func() {
		_, err := e.Resume(v.ID)
		resumed <- err
	}()
	<-gt.entered

	type reading struct {
		secs   int64
		active bool
	}
	read := make(chan reading, 1)
	go func() {
		secs, active, err := e.ActiveSeconds(v.ID)
		if err != nil {
			t.Errorf("active seconds: %v", err)
		}
		read <- reading{secs, active}
	}()

	select {
	case r := <-read:
		t.Fatalf("read %d (active=%v) while resume was still starting the timer", r.secs, r.active)
	case <-time.After(50 * time.Millisecond):
	}

	close(gt.release)
	if err := <-resumed; err != nil {
		t.Fatalf("resume: %v", err)
	}
	r := <-read
	if r.secs != 5 || !r.active {
		t.Errorf("active seconds = %d active=%v, want 5 and true", r.secs, r.active)
	}
}

func TestPauseRejectedRestartsTimer(t *testing.T) {
	gt := newGateTimer()
	e := NewEngine(NewStore(), gt)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	// A negative segment would shrink the accumulated total, which the
	// store refuses.
	gt.set(v.ID, -3)

	if _, err := e.Pause(v.ID); !IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	want := []string{"start " + v.ID + " 0", "stop " + v.ID, "start " + v.ID + " -3"}
	if got := gt.history(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("timer calls = %v, want %v", got, want)
	}
	got, err := e.Store().Get(v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsActive || got.AccumulatedSeconds != 0 {
		t.Errorf("visit changed on rejected pause: active=%v accumulated=%d", got.IsActive, got.AccumulatedSeconds)
	}
}

func TestFinishClearsTimer(t *testing.T) {
	e, reg, ticks := testEngine(t)
	v := assignTestVisit(t, e)

	if _, err := e.Start(v.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	ticks.advance(t, 3)

	done, err := e.Finish(v.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.AccumulatedSeconds != 3 {
		t.Errorf("accumulated = %d, want 3", done.AccumulatedSeconds)
	}
	if reg.Running(v.ID) {
		t.Error("expected timer stopped after finish")
	}
	if n := reg.Elapsed(v.ID); n != 0 {
		t.Errorf("timer counter = %d after finish, want cleared", n)
	}
}
