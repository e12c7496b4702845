// Package calendar implements the family calendar domain: events carrying
// embedded recurrence rules, and their expansion into the dated instances
// a week or month view renders.
package calendar

import (
	"time"

	"github.com/hearth/household-engine/recurrence"
)

// =============================================================================
// EVENT - A calendar entry owned by a family
// =============================================================================

// Event is the stored calendar entity. StartAt/EndAt double as the
// recurrence anchor: they supply the first occurrence day, the wall-clock
// time and the duration of every generated instance.
type Event struct {
	ID        string `json:"id"`
	FamilyID  string `json:"family_id"`
	Title     string `json:"title"`
	Location  string `json:"location,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Color     string `json:"color,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`

	// AttendeeIDs lists participating member IDs; copied verbatim onto
	// every expanded instance like the rest of the payload.
	AttendeeIDs []string `json:"attendee_ids,omitempty"`

	// Anchor timestamps, unix ms.
	StartAt int64 `json:"start_at"`
	EndAt   int64 `json:"end_at"`

	// Recurrence rule fields, stored flat the way the edit form writes them.
	Recurring          bool   `json:"recurring"`
	RecurrenceType     string `json:"recurrence_type,omitempty"`
	RecurrenceInterval int    `json:"recurrence_interval,omitempty"`
	DaysOfWeek         []int  `json:"days_of_week,omitempty"`
	RecurrenceEndAt    *int64 `json:"recurrence_end_at,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// EntityID implements recurrence.Recurrer.
func (e Event) EntityID() string { return e.ID }

// RecurrenceRule implements recurrence.Recurrer.
func (e Event) RecurrenceRule() recurrence.Rule {
	return recurrence.Rule{
		AnchorStart: e.StartAt,
		AnchorEnd:   e.EndAt,
		Recurring:   e.Recurring,
		Frequency:   recurrence.Frequency(e.RecurrenceType),
		Interval:    e.RecurrenceInterval,
		DaysOfWeek:  e.DaysOfWeek,
		EndDate:     e.RecurrenceEndAt,
	}
}

// Compile-time check that Event satisfies the engine's entity shape
var _ recurrence.Recurrer = Event{}

// =============================================================================
// EVENT INSTANCE - One dated materialization for rendering
// =============================================================================

// EventInstance is an Event copy with StartAt/EndAt recomputed for one
// occurrence. Instances are ephemeral; they are rebuilt on every query
// and never persisted.
type EventInstance struct {
	Event

	// SourceEventID back-references the originating event, since a
	// recurring event produces many instances sharing one ID.
	SourceEventID string `json:"source_event_id"`

	// OccurrenceDate is the matched calendar day, start of day (unix ms).
	OccurrenceDate int64 `json:"occurrence_date"`
}

// ExpandEvents materializes every event occurrence whose start falls in
// the inclusive [rangeStart, rangeEnd] window, sorted ascending by start.
// The payload rides through untouched; only StartAt/EndAt move to the
// matched day, preserving the anchor's clock time and duration.
func ExpandEvents(events []Event, rangeStart, rangeEnd time.Time, loc *time.Location) []EventInstance {
	expanded := recurrence.Expand(events, rangeStart, rangeEnd, loc)

	out := make([]EventInstance, 0, len(expanded))
	for _, inst := range expanded {
		ev := inst.Source
		ev.StartAt = inst.Start.UnixMilli()
		ev.EndAt = inst.End.UnixMilli()
		out = append(out, EventInstance{
			Event:          ev,
			SourceEventID:  inst.SourceEntityID,
			OccurrenceDate: inst.OccurrenceDate.UnixMilli(),
		})
	}
	return out
}
