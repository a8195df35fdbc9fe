// Package schedule answers calendar questions over a set of visits: which
// visits fall on a day, week or month, in what order they are shown, and how
// they group into calendar cells.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evcraddock/field-visits/internal/visit"
)

const dateLayout = "2006-01-02"

// View is a calendar granularity.
type View string

const (
	ViewDay    View = "day"
	ViewWeek   View = "week"
	ViewMonth  View = "month"
	ViewAgenda View = "agenda"
)

// ParseView converts a query value to a View. Empty means agenda.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "":
		return ViewAgenda, nil
	case ViewDay, ViewWeek, ViewMonth, ViewAgenda:
		return View(s), nil
	default:
		return "", fmt.Errorf("unknown view %q (use day, week, month or agenda)", s)
	}
}

// Day is one calendar cell.
type Day struct {
	Date   string         `json:"date"`
	Visits []*visit.Visit `json:"visits"`
}

// Period is the result of a calendar query.
type Period struct {
	View View   `json:"view"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Days []Day  `json:"days"`
}

func dateOf(t time.Time) string {
	return t.Format(dateLayout)
}

// OnDate returns the visits scheduled on the anchor's calendar date, in day order.
func OnDate(visits []*visit.Visit, anchor time.Time) []*visit.Visit {
	day := dateOf(anchor)
	return SortForDay(filter(visits, func(v *visit.Visit) bool {
		return v.ScheduledDate == day
	}))
}

// WeekBounds returns the Sunday and Saturday of the week containing anchor.
func WeekBounds(anchor time.Time) (time.Time, time.Time) {
	y, m, d := anchor.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, anchor.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// InWeek returns the visits scheduled in the Sunday to Saturday week that
// contains anchor, in agenda order.
func InWeek(visits []*visit.Visit, anchor time.Time) []*visit.Visit {
	start, end := WeekBounds(anchor)
	from, to := dateOf(start), dateOf(end)
	return Agenda(filter(visits, func(v *visit.Visit) bool {
		return v.ScheduledDate >= from && v.ScheduledDate <= to
	}))
}

// MonthBounds returns the first and last day of the anchor's month.
func MonthBounds(anchor time.Time) (time.Time, time.Time) {
	y, m, _ := anchor.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, anchor.Location())
	return start, start.AddDate(0, 1, -1)
}

// InMonth returns the visits scheduled in the anchor's year and month, in agenda order.
func InMonth(visits []*visit.Visit, anchor time.Time) []*visit.Visit {
	prefix := anchor.Format("2006-01-")
	return Agenda(filter(visits, func(v *visit.Visit) bool {
		return strings.HasPrefix(v.ScheduledDate, prefix)
	}))
}

// SortForDay orders visits by time ascending, then priority descending, then id.
// The input slice is not modified.
func SortForDay(visits []*visit.Visit) []*visit.Visit {
	out := copyOf(visits)
	sort.SliceStable(out, func(i, j int) bool {
		return lessInDay(out[i], out[j])
	})
	return out
}

// Agenda orders visits by date and time ascending with the same tiebreaks as
// SortForDay. The input slice is not modified.
func Agenda(visits []*visit.Visit) []*visit.Visit {
	out := copyOf(visits)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ScheduledDate != b.ScheduledDate {
			return a.ScheduledDate < b.ScheduledDate
		}
		return lessInDay(a, b)
	})
	return out
}

func lessInDay(a, b *visit.Visit) bool {
	if a.ScheduledTime != b.ScheduledTime {
		return a.ScheduledTime < b.ScheduledTime
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	return a.ID < b.ID
}

// GroupByDay buckets visits by scheduled date. Days come in date order and
// only dates with visits are returned.
func GroupByDay(visits []*visit.Visit) []Day {
	var days []Day
	for _, v := range Agenda(visits) {
		if n := len(days); n > 0 && days[n-1].Date == v.ScheduledDate {
			days[n-1].Visits = append(days[n-1].Visits, v)
			continue
		}
		days = append(days, Day{Date: v.ScheduledDate, Visits: []*visit.Visit{v}})
	}
	if days == nil {
		days = []Day{}
	}
	return days
}

// ForView runs the query for view around anchor. Day, week and month views
// return one cell per calendar date in range, including empty ones. The agenda
// view lists only dates that have visits.
func ForView(view View, visits []*visit.Visit, anchor time.Time) Period {
	switch view {
	case ViewDay:
		return fill(view, OnDate(visits, anchor), anchor, anchor)
	case ViewWeek:
		start, end := WeekBounds(anchor)
		return fill(view, InWeek(visits, anchor), start, end)
	case ViewMonth:
		start, end := MonthBounds(anchor)
		return fill(view, InMonth(visits, anchor), start, end)
	default:
		days := GroupByDay(visits)
		p := Period{View: ViewAgenda, Days: days}
		if len(days) > 0 {
			p.From, p.To = days[0].Date, days[len(days)-1].Date
		}
		return p
	}
}

func fill(view View, visits []*visit.Visit, start, end time.Time) Period {
	byDate := make(map[string][]*visit.Visit)
	for _, d := range GroupByDay(visits) {
		byDate[d.Date] = d.Visits
	}

	p := Period{View: view, From: dateOf(start), To: dateOf(end)}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := dateOf(d)
		vs := byDate[key]
		if vs == nil {
			vs = []*visit.Visit{}
		}
		p.Days = append(p.Days, Day{Date: key, Visits: vs})
	}
	return p
}

// Today returns the visits scheduled on now's date, in day order.
func Today(visits []*visit.Visit, now time.Time) []*visit.Visit {
	return OnDate(visits, now)
}

// Upcoming returns the visits scheduled after now's date, in agenda order.
func Upcoming(visits []*visit.Visit, now time.Time) []*visit.Visit {
	today := dateOf(now)
	return Agenda(filter(visits, func(v *visit.Visit) bool {
		return v.ScheduledDate > today
	}))
}

// Summary holds the dashboard counters.
type Summary struct {
	Total          int `json:"total"`
	Planned        int `json:"planned"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"` // percent of visits completed, rounded
	PlannedMinutes int `json:"planned_minutes"`
	ActualMinutes  int `json:"actual_minutes"`
}

// Summarize counts visits by status.
func Summarize(visits []*visit.Visit) Summary {
	var s Summary
	for _, v := range visits {
		s.Total++
		s.PlannedMinutes += v.PlannedDurationMinutes
		switch v.Status {
		case visit.StatusPlanned:
			s.Planned++
		case visit.StatusInProgress:
			s.InProgress++
		case visit.StatusCompleted:
			s.Completed++
			if v.ActualDurationMinutes != nil {
				s.ActualMinutes += *v.ActualDurationMinutes
			}
		}
	}
	if s.Total > 0 {
		s.CompletionRate = (200*s.Completed + s.Total) / (2 * s.Total)
	}
	return s
}

func filter(visits []*visit.Visit, keep func(*visit.Visit) bool) []*visit.Visit {
	out := make([]*visit.Visit, 0, len(visits))
	for _, v := range visits {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func copyOf(visits []*visit.Visit) []*visit.Visit {
	out := make([]*visit.Visit, len(visits))
	copy(out, visits)
	return out
}
