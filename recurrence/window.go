package recurrence

import "time"

// =============================================================================
// WINDOW - The visible [start, end] interval a view is displaying
// =============================================================================

// Window is an inclusive calendar-time interval, typically one visible
// week or month.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the start of every calendar day in the window, in loc.
// Used by day-grouped views (the chore board) that need membership per
// day rather than full instance expansion.
func (w Window) Days(loc *time.Location) []time.Time {
	var days []time.Time
	end := StartOfDay(w.End, loc)
	for d := StartOfDay(w.Start, loc); !d.After(end) && len(days) < maxExpansionDays; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String formats the window for logs.
func (w Window) String() string {
	return "[" + w.Start.Format("2006-01-02") + ", " + w.End.Format("2006-01-02") + "]"
}
