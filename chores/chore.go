/*
Package chores implements the chore-board domain: recurring chores worth
points, day-grouped board views, and the append-only completion log the
family leaderboard sums over.

KEY DIFFERENCES FROM THE CALENDAR DOMAIN:
  1. The board groups by day and only needs occurrence *membership*, so
     it calls the predicate directly instead of expanding instances.
  2. Chores carry a point value (decimal, never float - point math must
     stay exact when plans multiply and split them).
  3. Completions are recorded, one per chore+member+day, and points are
     derived by summing completions - there is no stored balance to
     drift out of sync.

SEE ALSO:
  - board.go:  Day-grouped board construction
  - points.go: Completion log and point totals
  - recurrence/: The shared engine both domains sit on
*/
package chores

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearth/household-engine/recurrence"
)

// =============================================================================
// CHORE - A recurring task worth points
// =============================================================================

type Chore struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
	Title    string `json:"title"`
	Notes    string `json:"notes,omitempty"`
	Icon     string `json:"icon,omitempty"`

	// Points awarded per completion.
	Points decimal.Decimal `json:"points"`

	// AssigneeIDs lists the members responsible. Empty means anyone.
	AssigneeIDs []string `json:"assignee_ids,omitempty"`

	// Anchor timestamps, unix ms. For an all-day chore the clock part is
	// midnight; the recurrence engine only needs the calendar day.
	StartAt int64 `json:"start_at"`
	EndAt   int64 `json:"end_at"`

	Recurring          bool   `json:"recurring"`
	RecurrenceType     string `json:"recurrence_type,omitempty"`
	RecurrenceInterval int    `json:"recurrence_interval,omitempty"`
	DaysOfWeek         []int  `json:"days_of_week,omitempty"`
	RecurrenceEndAt    *int64 `json:"recurrence_end_at,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// EntityID implements recurrence.Recurrer.
func (c Chore) EntityID() string { return c.ID }

// RecurrenceRule implements recurrence.Recurrer.
func (c Chore) RecurrenceRule() recurrence.Rule {
	return recurrence.Rule{
		AnchorStart: c.StartAt,
		AnchorEnd:   c.EndAt,
		Recurring:   c.Recurring,
		Frequency:   recurrence.Frequency(c.RecurrenceType),
		Interval:    c.RecurrenceInterval,
		DaysOfWeek:  c.DaysOfWeek,
		EndDate:     c.RecurrenceEndAt,
	}
}

// Compile-time check that Chore satisfies the engine's entity shape
var _ recurrence.Recurrer = Chore{}

// OccursOn reports whether the chore is due on the calendar day
// containing `day`. This is the standalone predicate call site: the
// board needs membership per visible day, not instance payloads.
func OccursOn(c Chore, day time.Time, loc *time.Location) bool {
	return recurrence.OccursOn(c.RecurrenceRule(), day, loc)
}

// ChoreInstance is one dated materialization of a chore, used where the
// full calendar view mixes chores in with events.
type ChoreInstance struct {
	Chore

	SourceChoreID  string `json:"source_chore_id"`
	OccurrenceDate int64  `json:"occurrence_date"`
}

// ExpandChores materializes chore occurrences over the window, sorted
// ascending by start. Same contract as calendar.ExpandEvents.
func ExpandChores(items []Chore, rangeStart, rangeEnd time.Time, loc *time.Location) []ChoreInstance {
	expanded := recurrence.Expand(items, rangeStart, rangeEnd, loc)

	out := make([]ChoreInstance, 0, len(expanded))
	for _, inst := range expanded {
		ch := inst.Source
		ch.StartAt = inst.Start.UnixMilli()
		ch.EndAt = inst.End.UnixMilli()
		out = append(out, ChoreInstance{
			Chore:          ch,
			SourceChoreID:  inst.SourceEntityID,
			OccurrenceDate: inst.OccurrenceDate.UnixMilli(),
		})
	}
	return out
}
