package visit

import "time"

// Badge is the display status of a visit, derived on read and never stored.
type Badge string

const (
	BadgeScheduled    Badge = "scheduled"
	BadgeUpcomingSoon Badge = "upcoming-soon"
	BadgeOverdue      Badge = "overdue"
	BadgeInProgress   Badge = "in-progress"
	BadgePaused       Badge = "paused"
	BadgeCompleted    Badge = "completed"
)

// UpcomingWindow is how close a planned visit must be to count as upcoming soon.
const UpcomingWindow = time.Hour

// Label returns a human-readable label for the badge.
func (b Badge) Label() string {
	switch b {
	case BadgeScheduled:
		return "Scheduled"
	case BadgeUpcomingSoon:
		return "Upcoming soon"
	case BadgeOverdue:
		return "Overdue"
	case BadgeInProgress:
		return "In progress"
	case BadgePaused:
		return "Paused"
	case BadgeCompleted:
		return "Completed"
	default:
		return string(b)
	}
}

// DisplayStatus derives the badge for v at time now. Scheduled times are
// interpreted in loc (time.Local when nil).
func DisplayStatus(v *Visit, now time.Time, loc *time.Location) Badge {
	switch v.Status {
	case StatusCompleted:
		return BadgeCompleted
	case StatusInProgress:
		if v.IsActive {
			return BadgeInProgress
		}
		return BadgePaused
	}

	at, err := v.ScheduledAt(loc)
	if err != nil {
		return BadgeScheduled
	}
	if at.Before(now) {
		return BadgeOverdue
	}
	if at.Sub(now) < UpcomingWindow {
		return BadgeUpcomingSoon
	}
	return BadgeScheduled
}
