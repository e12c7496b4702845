/*
occurs.go - The per-day occurrence predicate

PURPOSE:
  Answers "does this item occur on this calendar day?" for one rule and
  one candidate day. This is the membership primitive the chore board
  calls once per visible day, and the building block Expand walks over.

ALGORITHM:
  1. Normalize the rule (defaulting policy lives in Rule.Normalize)
  2. Strip time-of-day from candidate and anchor - day math only
  3. Reject days before the anchor day (no retroactive occurrences)
  4. Reject days after the end date's day, when one is set
  5. Non-recurring: match iff candidate day == anchor day
  6. Recurring: dispatch on frequency
       daily:   whole-day distance mod interval == 0
       weekly:  whole-week distance mod interval == 0, then weekday
                membership (explicit set, else anchor's weekday)
       monthly: whole-month distance mod interval == 0, then day-of-month
                equality - months lacking the anchor's day-of-month are
                skipped, never clamped to month end (changing this changes
                user-visible occurrence counts; see the monthly test)
       none:    match every eligible day (fallback for recurring rules
                saved without a recognized pattern)

GUARANTEES:
  Pure, total, deterministic. No error paths. Safe for concurrent use.
*/
package recurrence

import "time"

// OccursOn reports whether the rule produces an occurrence on the
// calendar day containing `day`, evaluated in loc. Time-of-day on `day`
// is ignored; only the civil date matters.
func OccursOn(rule Rule, day time.Time, loc *time.Location) bool {
	r := rule.Normalize()

	candidate := StartOfDay(day, loc)
	anchor := StartOfDay(r.AnchorTime(loc), loc)

	if candidate.Before(anchor) {
		return false
	}
	if r.EndDate != nil {
		last := StartOfDay(time.UnixMilli(*r.EndDate).In(loc), loc)
		if candidate.After(last) {
			return false
		}
	}

	if !r.Recurring {
		return candidate.Equal(anchor)
	}

	switch r.Frequency {
	case FreqDaily:
		return DaysBetween(anchor, candidate)%r.Interval == 0

	case FreqWeekly:
		if WeeksBetween(anchor, candidate, loc)%r.Interval != 0 {
			return false
		}
		if len(r.DaysOfWeek) > 0 {
			return r.hasWeekday(candidate.Weekday())
		}
		return candidate.Weekday() == anchor.Weekday()

	case FreqMonthly:
		if MonthsBetween(anchor, candidate)%r.Interval != 0 {
			return false
		}
		// Skip-not-clamp: an anchor on the 31st never matches inside a
		// 30-day month.
		return candidate.Day() == anchor.Day()

	default:
		// Recurring with no recognized pattern: every eligible day.
		return true
	}
}
