package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/evcraddock/field-visits/internal/client"
	"github.com/evcraddock/field-visits/internal/schedule"
	"github.com/evcraddock/field-visits/internal/visit"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitSummary prints a single visit in text format.
func printVisitSummary(v *client.Visit) {
	fmt.Printf("Visit %s\n", v.ID)
	fmt.Printf("  Store:     %s\n", v.Store)
	if v.Address != "" {
		fmt.Printf("  Address:   %s\n", v.Address)
	}
	fmt.Printf("  When:      %s %s (%s planned)\n", v.ScheduledDate, v.ScheduledTime, formatMinutes(v.PlannedDurationMinutes))
	fmt.Printf("  Assignee:  %s\n", v.Assignee)
	fmt.Printf("  Priority:  %s\n", v.Priority)
	fmt.Printf("  Status:    %s\n", badgeText(v))
	fmt.Printf("  Progress:  %s\n", formatProgress(v.ProgressPercent))
	if v.Status != visit.StatusPlanned {
		fmt.Printf("  Active:    %s\n", visit.FormatClock(v.AccumulatedSeconds))
	}
	if v.ActualDurationMinutes != nil {
		fmt.Printf("  Actual:    %s\n", formatMinutes(*v.ActualDurationMinutes))
	}
	if v.Notes != "" {
		fmt.Printf("  Notes:     %s\n", v.Notes)
	}
	if len(v.Photos) > 0 {
		fmt.Printf("  Photos:    %s\n", strings.Join(v.Photos, ", "))
	}
}

// printTasks prints the checklist of a visit.
func printTasks(tasks []visit.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Printf("  [%s] %s. %s\n", mark, t.ID, t.Name)
	}
}

// printVisitTable prints a list of visits as a formatted table.
func printVisitTable(visits []*client.Visit) error {
	if len(visits) == 0 {
		fmt.Println("No visits found.")
		return nil
	}

	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, []string{
			v.ID, v.ScheduledDate, v.ScheduledTime, truncate(v.Store, 30),
			truncate(v.Assignee, 20), string(v.Priority), badgeText(v), fmt.Sprintf("%d%%", v.ProgressPercent),
		})
	}
	if err := writeTable(os.Stdout, []string{"ID", "DATE", "TIME", "STORE", "ASSIGNEE", "PRIORITY", "STATUS", "PROGRESS"}, rows); err != nil {
		return err
	}

	fmt.Printf("\nTotal: %d visits\n", len(visits))
	return nil
}

// writeTable writes a header, a dashed separator and the rows, tab-aligned.
func writeTable(out io.Writer, header []string, rows [][]string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	sep := make([]string, len(header))
	for i, h := range header {
		sep[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, strings.Join(sep, "\t")); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printPeriod prints a calendar view day by day.
func printPeriod(p *schedule.Period) {
	if p.From != "" {
		fmt.Printf("%s view: %s to %s\n\n", p.View, p.From, p.To)
	}
	if len(p.Days) == 0 {
		fmt.Println("No visits scheduled.")
		return
	}

	for _, d := range p.Days {
		fmt.Println(formatDay(d.Date))
		if len(d.Visits) == 0 {
			fmt.Println("  -")
			continue
		}
		for _, v := range d.Visits {
			fmt.Printf("  %s  %-30s %-20s %s\n", v.ScheduledTime, truncate(v.Store, 30), truncate(v.Assignee, 20), v.Status.Label())
		}
	}
}

// printDashboard prints the summary counters and visit lists.
func printDashboard(s *client.Summary) error {
	fmt.Printf("Dashboard for %s\n", s.Date)
	fmt.Printf("  Total:       %d\n", s.Total)
	fmt.Printf("  Planned:     %d\n", s.Planned)
	fmt.Printf("  In progress: %d\n", s.InProgress)
	fmt.Printf("  Completed:   %d (%d%%)\n", s.Completed, s.CompletionRate)
	fmt.Printf("  Time:        %s actual / %s planned\n", formatMinutes(s.ActualMinutes), formatMinutes(s.PlannedMinutes))

	fmt.Println("\nToday:")
	if err := printVisitTable(s.Today); err != nil {
		return err
	}
	fmt.Println("\nUpcoming:")
	return printVisitTable(s.Upcoming)
}

// badgeText renders the display status, falling back to the lifecycle status.
func badgeText(v *client.Visit) string {
	if v.BadgeLabel != "" {
		return v.BadgeLabel
	}
	if v.Badge != "" {
		return v.Badge.Label()
	}
	return v.Status.Label()
}

// formatMinutes renders minutes as "1h 30m", "45m" or "2h".
func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

// formatProgress renders a ten-cell progress bar.
func formatProgress(pct int) string {
	pct = max(0, min(pct, 100))
	filled := pct / 10
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + fmt.Sprintf("] %d%%", pct)
}

// formatDay renders a YYYY-MM-DD date with its weekday.
func formatDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon 2006-01-02")
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
