package recurrence_test

import (
	"testing"
	"time"

	"github.com/hearth/household-engine/recurrence"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var utc = time.UTC

func ms(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, utc).UnixMilli()
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, utc)
}

func msPtr(v int64) *int64 { return &v }

// oneShot is a non-recurring rule anchored at 2025-03-10 09:00-09:30.
func oneShot() recurrence.Rule {
	return recurrence.Rule{
		AnchorStart: ms(2025, time.March, 10, 9, 0),
		AnchorEnd:   ms(2025, time.March, 10, 9, 30),
	}
}

// =============================================================================
// NON-RECURRING
// =============================================================================

func TestOccursOn_NonRecurring_MatchesAnchorDayOnly(t *testing.T) {
	rule := oneShot()

	if !recurrence.OccursOn(rule, day(2025, time.March, 10), utc) {
		t.Error("expected match on anchor day")
	}
	if recurrence.OccursOn(rule, day(2025, time.March, 9), utc) {
		t.Error("unexpected match the day before the anchor")
	}
	if recurrence.OccursOn(rule, day(2025, time.March, 11), utc) {
		t.Error("unexpected match the day after the anchor")
	}
}

func TestOccursOn_NonRecurring_IgnoresRecurrenceFields(t *testing.T) {
	// Recurring=false must win over any leftover pattern fields.
	rule := oneShot()
	rule.Frequency = recurrence.FreqDaily
	rule.Interval = 3
	rule.DaysOfWeek = []int{0, 1, 2, 3, 4, 5, 6}

	if recurrence.OccursOn(rule, day(2025, time.March, 13), utc) {
		t.Error("non-recurring rule matched a non-anchor day")
	}
	if !recurrence.OccursOn(rule, day(2025, time.March, 10), utc) {
		t.Error("non-recurring rule missed its own anchor day")
	}
}

func TestOccursOn_CandidateTimeOfDayIgnored(t *testing.T) {
	rule := oneShot()

	// 23:59 on the anchor day still matches: only the civil date counts.
	lateCandidate := time.Date(2025, time.March, 10, 23, 59, 59, 0, utc)
	if !recurrence.OccursOn(rule, lateCandidate, utc) {
		t.Error("candidate time-of-day should be ignored")
	}
}

// =============================================================================
// DAILY
// =============================================================================

func TestOccursOn_Daily_IntervalArithmetic(t *testing.T) {
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 10, 9, 0),
		AnchorEnd:   ms(2025, time.March, 10, 9, 30),
		Recurring:   true,
		Frequency:   recurrence.FreqDaily,
		Interval:    3,
	}

	cases := []struct {
		d    time.Time
		want bool
	}{
		{day(2025, time.March, 10), true},  // offset 0
		{day(2025, time.March, 11), false}, // offset 1
		{day(2025, time.March, 12), false}, // offset 2
		{day(2025, time.March, 13), true},  // offset 3
		{day(2025, time.March, 16), true},  // offset 6
		{day(2025, time.April, 9), true},   // offset 30
	}
	for _, c := range cases {
		if got := recurrence.OccursOn(rule, c.d, utc); got != c.want {
			t.Errorf("daily/3 on %s: got %v, want %v", c.d.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestOccursOn_NeverBeforeAnchorDay(t *testing.T) {
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 10, 9, 0),
		AnchorEnd:   ms(2025, time.March, 10, 10, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqDaily,
		Interval:    1,
	}

	if recurrence.OccursOn(rule, day(2025, time.March, 9), utc) {
		t.Error("retroactive occurrence before the anchor day")
	}
	if recurrence.OccursOn(rule, day(2024, time.March, 10), utc) {
		t.Error("retroactive occurrence a year before the anchor")
	}
}

func TestOccursOn_NeverAfterEndDate(t *testing.T) {
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 10, 9, 0),
		AnchorEnd:   ms(2025, time.March, 10, 10, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqDaily,
		Interval:    1,
		EndDate:     msPtr(ms(2025, time.March, 13, 0, 0)),
	}

	// End date day itself is inclusive.
	if !recurrence.OccursOn(rule, day(2025, time.March, 13), utc) {
		t.Error("end date day should still be eligible")
	}
	if recurrence.OccursOn(rule, day(2025, time.March, 14), utc) {
		t.Error("occurrence after the end date day")
	}
}

func TestOccursOn_NonPositiveIntervalTreatedAsOne(t *testing.T) {
	for _, interval := range []int{0, -5} {
		rule := recurrence.Rule{
			AnchorStart: ms(2025, time.March, 10, 9, 0),
			AnchorEnd:   ms(2025, time.March, 10, 10, 0),
			Recurring:   true,
			Frequency:   recurrence.FreqDaily,
			Interval:    interval,
		}
		if !recurrence.OccursOn(rule, day(2025, time.March, 11), utc) {
			t.Errorf("interval %d should behave as 1 (every day)", interval)
		}
	}
}

// =============================================================================
// WEEKLY
// =============================================================================

func TestOccursOn_Weekly_ExplicitWeekdaySet(t *testing.T) {
	// Anchor is Wednesday 2025-03-12; set says Mon/Wed/Fri.
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 12, 18, 0),
		AnchorEnd:   ms(2025, time.March, 12, 19, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqWeekly,
		Interval:    1,
		DaysOfWeek:  []int{1, 3, 5},
	}

	if !recurrence.OccursOn(rule, day(2025, time.March, 12), utc) { // Wed
		t.Error("expected match on Wednesday (in set)")
	}
	if !recurrence.OccursOn(rule, day(2025, time.March, 14), utc) { // Fri
		t.Error("expected match on Friday (in set)")
	}
	if recurrence.OccursOn(rule, day(2025, time.March, 13), utc) { // Thu
		t.Error("Thursday is not in the weekday set")
	}
	// Next week's Monday.
	if !recurrence.OccursOn(rule, day(2025, time.March, 17), utc) {
		t.Error("expected match on following Monday (in set)")
	}
}

func TestOccursOn_Weekly_FallsBackToAnchorWeekday(t *testing.T) {
	// No weekday set: only the anchor's own weekday (Wednesday) matches.
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 12, 18, 0),
		AnchorEnd:   ms(2025, time.March, 12, 19, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqWeekly,
		Interval:    1,
	}

	if !recurrence.OccursOn(rule, day(2025, time.March, 19), utc) { // next Wed
		t.Error("expected match on anchor weekday next week")
	}
	if recurrence.OccursOn(rule, day(2025, time.March, 18), utc) { // Tue
		t.Error("unexpected match off the anchor weekday")
	}
}

func TestOccursOn_Weekly_IntervalSkipsWeeks(t *testing.T) {
	// Biweekly from Wednesday 2025-03-12, Mon/Wed/Fri.
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 12, 18, 0),
		AnchorEnd:   ms(2025, time.March, 12, 19, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqWeekly,
		Interval:    2,
		DaysOfWeek:  []int{1, 3, 5},
	}

	// Week 0 (Sun Mar 9 - Sat Mar 15): matches.
	if !recurrence.OccursOn(rule, day(2025, time.March, 14), utc) {
		t.Error("expected match in anchor week")
	}
	// Week 1 (Mar 16 - Mar 22): off-week regardless of weekday membership.
	if recurrence.OccursOn(rule, day(2025, time.March, 17), utc) {
		t.Error("weekday in set must not match in an off-interval week")
	}
	// Week 2 (Mar 23 - Mar 29): matches again.
	if !recurrence.OccursOn(rule, day(2025, time.March, 24), utc) {
		t.Error("expected match two weeks after the anchor week")
	}
}

// =============================================================================
// MONTHLY
// =============================================================================

func TestOccursOn_Monthly_DayOfMonthAlignment(t *testing.T) {
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.January, 15, 12, 0),
		AnchorEnd:   ms(2025, time.January, 15, 13, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqMonthly,
		Interval:    1,
	}

	if !recurrence.OccursOn(rule, day(2025, time.February, 15), utc) {
		t.Error("expected match on the 15th of the following month")
	}
	if recurrence.OccursOn(rule, day(2025, time.February, 14), utc) {
		t.Error("unexpected match on a mismatched day-of-month")
	}
}

func TestOccursOn_Monthly_SkipsShortMonths(t *testing.T) {
	// Anchor on Jan 31: February has no 31st, so February is skipped
	// entirely - no clamping to Feb 28.
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.January, 31, 10, 0),
		AnchorEnd:   ms(2025, time.January, 31, 11, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqMonthly,
		Interval:    1,
	}

	for d := 1; d <= 28; d++ {
		if recurrence.OccursOn(rule, day(2025, time.February, d), utc) {
			t.Fatalf("February %d should not match a 31st-anchored monthly rule", d)
		}
	}
	if !recurrence.OccursOn(rule, day(2025, time.March, 31), utc) {
		t.Error("expected match on March 31")
	}
	if recurrence.OccursOn(rule, day(2025, time.April, 30), utc) {
		t.Error("April (30 days) should be skipped, not clamped")
	}
}

func TestOccursOn_Monthly_IntervalSkipsMonths(t *testing.T) {
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.January, 10, 8, 0),
		AnchorEnd:   ms(2025, time.January, 10, 9, 0),
		Recurring:   true,
		Frequency:   recurrence.FreqMonthly,
		Interval:    3,
	}

	if recurrence.OccursOn(rule, day(2025, time.February, 10), utc) {
		t.Error("off-interval month matched")
	}
	if !recurrence.OccursOn(rule, day(2025, time.April, 10), utc) {
		t.Error("expected match three months after the anchor")
	}
	if !recurrence.OccursOn(rule, day(2026, time.January, 10), utc) {
		t.Error("expected match twelve months after the anchor")
	}
}

// =============================================================================
// FALLBACKS
// =============================================================================

func TestOccursOn_RecurringWithoutType_MatchesEveryEligibleDay(t *testing.T) {
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 10, 9, 0),
		AnchorEnd:   ms(2025, time.March, 10, 10, 0),
		Recurring:   true,
		// Frequency deliberately absent.
	}

	if !recurrence.OccursOn(rule, day(2025, time.March, 10), utc) {
		t.Error("expected match on the anchor day")
	}
	if !recurrence.OccursOn(rule, day(2025, time.March, 27), utc) {
		t.Error("typeless recurring rule should match every later day")
	}
	if recurrence.OccursOn(rule, day(2025, time.March, 9), utc) {
		t.Error("fallback must still respect the anchor lower bound")
	}
}

func TestOccursOn_UnknownFrequency_TreatedAsTypeless(t *testing.T) {
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 10, 9, 0),
		AnchorEnd:   ms(2025, time.March, 10, 10, 0),
		Recurring:   true,
		Frequency:   recurrence.Frequency("fortnightly"),
	}

	if !recurrence.OccursOn(rule, day(2025, time.March, 22), utc) {
		t.Error("unknown frequency should fall back to match-every-day")
	}
}

func TestNormalize_DefaultingPolicy(t *testing.T) {
	r := recurrence.Rule{Interval: -2, Frequency: recurrence.Frequency("bogus")}
	n := r.Normalize()

	if n.Interval != 1 {
		t.Errorf("interval: got %d, want 1", n.Interval)
	}
	if n.Frequency != recurrence.FreqNone {
		t.Errorf("frequency: got %q, want FreqNone", n.Frequency)
	}
	// Normalize returns a copy; the original stays as authored.
	if r.Interval != -2 {
		t.Error("Normalize must not mutate its receiver")
	}
}

// =============================================================================
// EXPLICIT LOCATION
// =============================================================================

func TestOccursOn_RespectsExplicitLocation(t *testing.T) {
	// Anchor instant is 2025-03-10 23:30 UTC. In UTC+10 that is already
	// the 11th, so the anchor *day* differs by location.
	east := time.FixedZone("UTC+10", 10*3600)
	rule := recurrence.Rule{
		AnchorStart: ms(2025, time.March, 10, 23, 30),
		AnchorEnd:   ms(2025, time.March, 11, 0, 0),
	}

	if !recurrence.OccursOn(rule, day(2025, time.March, 10), utc) {
		t.Error("UTC: anchor day should be March 10")
	}
	candidate := time.Date(2025, time.March, 11, 8, 0, 0, 0, east)
	if !recurrence.OccursOn(rule, candidate, east) {
		t.Error("UTC+10: anchor day should be March 11")
	}
}
