package chores

import (
	"time"

	"github.com/hearth/household-engine/recurrence"
)

// =============================================================================
// BOARD - Day-grouped chore view
// =============================================================================

// BoardDay is one column of the chore board: a calendar day plus the IDs
// of every chore due that day.
type BoardDay struct {
	// Date is the start of the day, unix ms.
	Date time.Time `json:"-"`

	// DateMillis mirrors Date for wire serialization.
	DateMillis int64 `json:"date"`

	// ChoreIDs lists the chores due on this day, in input order.
	ChoreIDs []string `json:"chore_ids"`
}

// Board builds the day-grouped view for the visible window by asking the
// occurrence predicate once per chore per day. No instances are
// constructed; the board only needs membership.
func Board(items []Chore, window recurrence.Window, loc *time.Location) []BoardDay {
	days := window.Days(loc)

	out := make([]BoardDay, 0, len(days))
	for _, day := range days {
		bd := BoardDay{Date: day, DateMillis: day.UnixMilli()}
		for _, ch := range items {
			if OccursOn(ch, day, loc) {
				bd.ChoreIDs = append(bd.ChoreIDs, ch.ID)
			}
		}
		out = append(out, bd)
	}
	return out
}
