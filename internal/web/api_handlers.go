package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/field-visits/internal/schedule"
	"github.com/evcraddock/field-visits/internal/visit"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiFail maps engine errors to status codes.
func apiFail(w http.ResponseWriter, doing string, err error) {
	var (
		verr *visit.ValidationError
		nerr *visit.NotFoundError
		terr *visit.InvalidTransitionError
	)
	switch {
	case errors.As(err, &verr):
		apiError(w, verr.Error(), http.StatusBadRequest)
	case errors.As(err, &nerr):
		apiError(w, nerr.Error(), http.StatusNotFound)
	case errors.As(err, &terr):
		apiError(w, terr.Error(), http.StatusConflict)
	default:
		slog.Error("request failed", "doing", doing, "error", err)
		apiError(w, fmt.Sprintf("%s: %v", doing, err), http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// visitView is a visit plus its derived display status.
type visitView struct {
	*visit.Visit
	Badge      visit.Badge `json:"badge"`
	BadgeLabel string      `json:"badge_label"`
}

func (s *Server) view(v *visit.Visit) visitView {
	b := visit.DisplayStatus(v, s.now(), s.loc)
	return visitView{Visit: v, Badge: b, BadgeLabel: b.Label()}
}

func (s *Server) views(vs []*visit.Visit) []visitView {
	out := make([]visitView, len(vs))
	for i, v := range vs {
		out[i] = s.view(v)
	}
	return out
}

// handleAPIVisits routes /api/visits requests.
func (s *Server) handleAPIVisits(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/visits")
	path = strings.Trim(path, "/")

	// /api/visits: list or assign
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListVisits(w, r)
		case http.MethodPost:
			s.apiAssignVisit(w, r)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	switch {
	// /api/visits/{id}: show or remove
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			s.apiGetVisit(w, id)
		case http.MethodDelete:
			s.apiRemoveVisit(w, id)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	// /api/visits/{id}/tasks/{taskID}/toggle
	case len(parts) == 4 && parts[1] == "tasks" && parts[3] == "toggle":
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		v, err := s.engine.ToggleTask(id, parts[2])
		s.respondVisit(w, "toggling task", v, err)

	case len(parts) == 2:
		s.handleVisitAction(w, r, id, parts[1])

	default:
		apiError(w, "not found", http.StatusNotFound)
	}
}

// handleVisitAction routes /api/visits/{id}/{action}.
func (s *Server) handleVisitAction(w http.ResponseWriter, r *http.Request, id, action string) {
	methods := map[string]string{
		"start":    http.MethodPost,
		"pause":    http.MethodPost,
		"resume":   http.MethodPost,
		"finish":   http.MethodPost,
		"photos":   http.MethodPost,
		"notes":    http.MethodPut,
		"schedule": http.MethodPut,
		"elapsed":  http.MethodGet,
	}
	want, ok := methods[action]
	if !ok {
		apiError(w, "not found", http.StatusNotFound)
		return
	}
	if r.Method != want {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "start":
		v, err := s.engine.Start(id)
		s.respondVisit(w, "starting visit", v, err)
	case "pause":
		v, err := s.engine.Pause(id)
		s.respondVisit(w, "pausing visit", v, err)
	case "resume":
		v, err := s.engine.Resume(id)
		s.respondVisit(w, "resuming visit", v, err)
	case "finish":
		v, err := s.engine.Finish(id)
		s.respondVisit(w, "finishing visit", v, err)
	case "notes":
		var req struct {
			Notes string `json:"notes"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		v, err := s.engine.EditNotes(id, req.Notes)
		s.respondVisit(w, "editing notes", v, err)
	case "photos":
		var req struct {
			Photos []string `json:"photos"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.Photos) == 0 {
			apiError(w, "photos is required", http.StatusBadRequest)
			return
		}
		v, err := s.engine.AddPhotos(id, req.Photos...)
		s.respondVisit(w, "adding photos", v, err)
	case "schedule":
		var req visit.Schedule
		if !decodeBody(w, r, &req) {
			return
		}
		v, err := s.engine.Reschedule(id, req)
		s.respondVisit(w, "rescheduling visit", v, err)
	case "elapsed":
		s.apiElapsed(w, id)
	}
}

func (s *Server) respondVisit(w http.ResponseWriter, doing string, v *visit.Visit, err error) {
	if err != nil {
		apiFail(w, doing, err)
		return
	}
	apiJSON(w, s.view(v), http.StatusOK)
}

// apiListVisits returns visits in agenda order, optionally filtered.
func (s *Server) apiListVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := visit.Filter{
		Status:   visit.Status(q.Get("status")),
		Assignee: q.Get("assignee"),
		Query:    q.Get("q"),
	}
	if f.Status != "" && !f.Status.IsValid() {
		apiError(w, fmt.Sprintf("unknown status %q", f.Status), http.StatusBadRequest)
		return
	}

	visits := schedule.Agenda(s.engine.Store().List(f))
	apiJSON(w, s.views(visits), http.StatusOK)
}

// apiAssignVisit creates a planned visit.
func (s *Server) apiAssignVisit(w http.ResponseWriter, r *http.Request) {
	var req visit.NewVisit
	if !decodeBody(w, r, &req) {
		return
	}

	v, err := s.engine.Assign(req)
	if err != nil {
		apiFail(w, "assigning visit", err)
		return
	}
	apiJSON(w, s.view(v), http.StatusCreated)
}

// apiGetVisit returns a single visit with its badge.
func (s *Server) apiGetVisit(w http.ResponseWriter, id string) {
	v, err := s.engine.Store().Get(id)
	s.respondVisit(w, "loading visit", v, err)
}

// apiRemoveVisit deletes a visit and its timer.
func (s *Server) apiRemoveVisit(w http.ResponseWriter, id string) {
	s.engine.Remove(id)
	apiJSON(w, map[string]any{"id": id, "removed": true}, http.StatusOK)
}

// apiElapsed returns the live active time for display polling.
func (s *Server) apiElapsed(w http.ResponseWriter, id string) {
	secs, active, err := s.engine.ActiveSeconds(id)
	if err != nil {
		apiFail(w, "reading elapsed time", err)
		return
	}
	apiJSON(w, map[string]any{
		"visit_id":        id,
		"elapsed_seconds": secs,
		"clock":           visit.FormatClock(secs),
		"active":          active,
	}, http.StatusOK)
}

// anchorDate parses the date query parameter, defaulting to today.
func (s *Server) anchorDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got %q", raw)
	}
	return t, nil
}

// apiCalendar answers day, week, month and agenda queries.
func (s *Server) apiCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view, err := schedule.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	anchor, err := s.anchorDate(r)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	all := s.engine.Store().List(visit.Filter{Assignee: r.URL.Query().Get("assignee")})
	apiJSON(w, schedule.ForView(view, all, anchor), http.StatusOK)
}

type summaryResponse struct {
	schedule.Summary
	Date     string      `json:"date"`
	Today    []visitView `json:"today"`
	Upcoming []visitView `json:"upcoming"`
}

// apiSummary returns the dashboard counters and the assigned-visits lists.
func (s *Server) apiSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	anchor, err := s.anchorDate(r)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	all := s.engine.Store().List(visit.Filter{})
	apiJSON(w, summaryResponse{
		Summary:  schedule.Summarize(all),
		Date:     anchor.Format("2006-01-02"),
		Today:    s.views(schedule.Today(all, anchor)),
		Upcoming: s.views(schedule.Upcoming(all, anchor)),
	}, http.StatusOK)
}
