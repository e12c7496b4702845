/*
expand.go - Window expansion into concrete dated instances

PURPOSE:
  Turns a collection of recurring entities plus a visible [start, end]
  window into the flat, time-sorted instance list a calendar view lays
  out. One underlying algorithm serves both call sites (events, chores);
  the entity payload rides through a type parameter.

PER-ITEM BEHAVIOR:
  Non-recurring: at most one instance, included iff the anchor start
  falls inside the window.

  Recurring: walk calendar days from max(rangeStart, anchor day) up to
  min(rangeEnd, end date), asking OccursOn for each day. Each match
  becomes an instance whose start is the matched day combined with the
  anchor's wall-clock time and whose end preserves the original
  duration. The instance is kept only if its computed start itself lies
  inside the window - a matched day at the window edge can still carry a
  time-of-day that pushes the instant out.

TERMINATION:
  A hard cap of maxExpansionDays days bounds the walk per item, so an
  open-ended rule paired with a huge (or even inverted) window cannot
  loop forever. Hitting the cap silently stops expansion for that item;
  this is a rendering path, best-effort beats erroring.

GUARANTEES:
  Pure transform. Input entities are never mutated; output is rebuilt on
  every call and never cached or persisted here.
*/
package recurrence

import (
	"sort"
	"time"
)

// maxExpansionDays bounds the per-item day walk.
const maxExpansionDays = 400

// =============================================================================
// RECURRER - What an expandable entity must provide
// =============================================================================

// Recurrer is the generic shape both events and chores conform to:
// an identity plus an embedded recurrence rule. Entity payload stays in
// the concrete type and is carried through expansion untouched.
type Recurrer interface {
	EntityID() string
	RecurrenceRule() Rule
}

// Instance is one concrete dated materialization of an entity.
// Instances are ephemeral: constructed fresh per call, discarded after
// render. Recurring entities produce many instances sharing one
// SourceEntityID.
type Instance[T Recurrer] struct {
	// Source is the originating entity, payload intact.
	Source T

	// SourceEntityID back-references the originating entity.
	SourceEntityID string

	// OccurrenceDate is the matched calendar day (start of day in the
	// expansion location).
	OccurrenceDate time.Time

	// Start and End are the recomputed instance timestamps: the matched
	// day at the anchor's wall-clock time, plus the original duration.
	Start time.Time
	End   time.Time
}

// =============================================================================
// EXPAND - The window expander
// =============================================================================

// Expand produces every instance of every item whose start falls inside
// the inclusive [rangeStart, rangeEnd] window, sorted ascending by
// instance start. Callers supply a valid window; an inverted one simply
// yields nothing (the cap bounds the walk even under misuse).
func Expand[T Recurrer](items []T, rangeStart, rangeEnd time.Time, loc *time.Location) []Instance[T] {
	var out []Instance[T]
	for _, item := range items {
		out = append(out, expandItem(item, rangeStart, rangeEnd, loc)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func expandItem[T Recurrer](item T, rangeStart, rangeEnd time.Time, loc *time.Location) []Instance[T] {
	rule := item.RecurrenceRule().Normalize()
	anchor := rule.AnchorTime(loc)
	duration := rule.Duration()

	if !rule.Recurring {
		if anchor.Before(rangeStart) || anchor.After(rangeEnd) {
			return nil
		}
		return []Instance[T]{{
			Source:         item,
			SourceEntityID: item.EntityID(),
			OccurrenceDate: StartOfDay(anchor, loc),
			Start:          anchor,
			End:            anchor.Add(duration),
		}}
	}

	// Effective ceiling: the window end, pulled in by the rule's own end
	// date when that is earlier.
	ceiling := StartOfDay(rangeEnd, loc)
	if rule.EndDate != nil {
		last := StartOfDay(time.UnixMilli(*rule.EndDate).In(loc), loc)
		if last.Before(ceiling) {
			ceiling = last
		}
	}

	cursor := rangeStart
	if anchor.After(cursor) {
		cursor = anchor
	}
	cursor = StartOfDay(cursor, loc)

	var out []Instance[T]
	for steps := 0; steps < maxExpansionDays && !cursor.After(ceiling); steps++ {
		if OccursOn(rule, cursor, loc) {
			start := At(cursor, anchor, loc)
			if !start.Before(rangeStart) && !start.After(rangeEnd) {
				out = append(out, Instance[T]{
					Source:         item,
					SourceEntityID: item.EntityID(),
					OccurrenceDate: cursor,
					Start:          start,
					End:            start.Add(duration),
				})
			}
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return out
}
