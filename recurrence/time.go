package recurrence

import "time"

// =============================================================================
// CALENDAR-DAY ARITHMETIC
// =============================================================================
// All comparisons in this package are calendar-day based, never raw
// millisecond based. Subtracting instants straddling a daylight-saving
// transition yields 23h or 25h "days" and produces off-by-one matches, so
// day distances are computed on UTC reconstructions of the civil dates.

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of whole calendar days from the day of
// `from` to the day of `to`. Negative when `to` is earlier.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// StartOfWeek returns midnight of the Sunday starting t's week, in loc.
// Weeks start on Sunday, consistent with the 0=Sunday weekday encoding
// used by Rule.DaysOfWeek.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeeksBetween returns the number of whole calendar weeks between the
// week containing `from` and the week containing `to`.
func WeeksBetween(from, to time.Time, loc *time.Location) int {
	return DaysBetween(StartOfWeek(from, loc), StartOfWeek(to, loc)) / 7
}

// MonthsBetween returns the number of whole calendar months between the
// month containing `from` and the month containing `to`.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// At combines a calendar day with the wall-clock time of `clock`, in loc.
// This is how instances keep the anchor's hour/minute/second regardless
// of which date they land on.
func At(day time.Time, clock time.Time, loc *time.Location) time.Time {
	day = day.In(loc)
	clock = clock.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), loc)
}
