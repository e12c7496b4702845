/*
Package recurrence is the core engine deciding when recurring household
items (calendar events, chores) occur.

PURPOSE:
  This package contains domain-agnostic types and algorithms for
  recurrence matching and expansion. Whether the item is a family dinner,
  a weekly chore, or a monthly bill reminder, the same engine answers
  "does this occur on day X?" and "which concrete instances fall inside
  this visible window?".

KEY CONCEPTS IN THIS FILE (rule.go):
  - Rule: The user-authored recurrence description embedded in an entity
  - Frequency: daily / weekly / monthly occurrence pattern
  - Normalize: The single, named default-resolution step for partial rules

DESIGN PRINCIPLES:
  1. Purity: No I/O, no ambient state. Every day-boundary operation takes
     an explicit *time.Location so behavior is deterministic across hosts.
  2. Totality: Every input produces an answer. Partial or sloppy rules
     resolve to documented fallbacks, never errors - rules are
     user-authored data that must render something reasonable.
  3. Read-only: Rules are input. This package never mutates entities and
     never persists expansion output.

USAGE:
  rule := item.RecurrenceRule()
  if recurrence.OccursOn(rule, day, loc) { ... }
  instances := recurrence.Expand(items, weekStart, weekEnd, loc)

SEE ALSO:
  - occurs.go: The per-day occurrence predicate
  - expand.go: Window expansion into dated instances
  - time.go:   Calendar-day arithmetic
  - factory/:  Creation-time validation (the strict counterpart of
    Normalize's read-time leniency)
*/
package recurrence

import "time"

// =============================================================================
// FREQUENCY - Occurrence pattern
// =============================================================================

type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"

	// FreqNone is the zero value: no pattern recorded. A recurring rule
	// with no recognized frequency matches every eligible day (documented
	// fallback, not an error).
	FreqNone Frequency = ""
)

// KnownFrequency reports whether f is one of the recognized patterns.
func KnownFrequency(f Frequency) bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly:
		return true
	}
	return false
}

// =============================================================================
// RULE - User-authored recurrence description
// =============================================================================

// Rule describes when an item occurs. Timestamps are milliseconds since
// the Unix epoch, matching how the owning entities store them.
//
// The anchor supplies three things: the first possible occurrence day,
// the wall-clock time-of-day of every generated instance, and (via
// AnchorEnd - AnchorStart) the duration of every generated instance.
type Rule struct {
	// AnchorStart is the original item start (unix ms).
	AnchorStart int64

	// AnchorEnd is the original item end (unix ms). The engine does not
	// clamp a degenerate AnchorEnd < AnchorStart; callers writing rules
	// are responsible for supplying a sane duration.
	AnchorEnd int64

	// Recurring is false for one-shot items: they occur exactly once,
	// at AnchorStart, and every other field below is ignored.
	Recurring bool

	// Frequency selects the pattern. FreqNone while Recurring is true
	// means "occurs every day" (see Normalize).
	Frequency Frequency

	// Interval is the "every N" multiplier (days/weeks/months depending
	// on Frequency). Values below 1 are treated as 1.
	Interval int

	// DaysOfWeek holds explicit weekday membership for weekly rules,
	// encoded 0..6 with 0 = Sunday. Empty means "the anchor's weekday".
	DaysOfWeek []int

	// EndDate, when set, is the inclusive last calendar day eligible for
	// an occurrence (unix ms; only the calendar day matters). Nil means
	// unbounded.
	EndDate *int64
}

// =============================================================================
// NORMALIZATION - The defaulting policy, in one auditable place
// =============================================================================

// Normalize returns a copy of the rule with the documented fallbacks
// applied:
//
//   - Interval <= 0 becomes 1 (avoids zero-modulus and infinite-match
//     bugs from malformed stored rules)
//   - An unrecognized Frequency string becomes FreqNone, which the
//     predicate treats as "every eligible day"
//
// Weekday fallback (empty DaysOfWeek => anchor's weekday) is resolved at
// match time because it needs the anchor's location-aware weekday.
//
// Normalize is invoked at the top of OccursOn and Expand so the matching
// logic itself never has to coerce anything.
func (r Rule) Normalize() Rule {
	if r.Interval < 1 {
		r.Interval = 1
	}
	if !KnownFrequency(r.Frequency) {
		r.Frequency = FreqNone
	}
	return r
}

// Duration returns AnchorEnd - AnchorStart. Not clamped; see AnchorEnd.
func (r Rule) Duration() time.Duration {
	return time.Duration(r.AnchorEnd-r.AnchorStart) * time.Millisecond
}

// AnchorTime returns the anchor start as a time.Time in loc.
func (r Rule) AnchorTime(loc *time.Location) time.Time {
	return time.UnixMilli(r.AnchorStart).In(loc)
}

// hasWeekday reports membership of wd (0=Sunday) in the explicit set.
func (r Rule) hasWeekday(wd time.Weekday) bool {
	for _, d := range r.DaysOfWeek {
		if d == int(wd) {
			return true
		}
	}
	return false
}
