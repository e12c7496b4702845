/*
points.go - Completion log and point totals

PURPOSE:
  Records chore completions and derives member point totals from them.
  Completions are append-only: a mistaken completion is undone with a
  negating entry, never edited, so the leaderboard can always be
  re-derived from history.

UNIQUENESS:
  One completion per chore+member+day. A child tapping "done" twice (or
  a retried request) must not double-award points; the store enforces
  this through the completion key.
*/
package chores

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPLETION - One member finishing one chore occurrence
// =============================================================================

type Completion struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
	ChoreID  string `json:"chore_id"`
	MemberID string `json:"member_id"`

	// Day is the occurrence day being completed, start of day (unix ms).
	Day int64 `json:"day"`

	// Points captured at completion time, so later chore edits don't
	// rewrite history.
	Points decimal.Decimal `json:"points"`

	CompletedAt int64 `json:"completed_at"`
}

// Key returns the uniqueness key enforcing one completion per
// chore+member+day. Stores reject a second append with the same key.
func (c Completion) Key() string {
	return fmt.Sprintf("%s|%s|%d", c.ChoreID, c.MemberID, c.Day)
}

// NewCompletion records member finishing chore on the given occurrence
// day, capturing the chore's current point value.
func NewCompletion(id string, ch Chore, memberID string, day time.Time, loc *time.Location, now time.Time) Completion {
	d := time.Date(day.In(loc).Year(), day.In(loc).Month(), day.In(loc).Day(), 0, 0, 0, 0, loc)
	return Completion{
		ID:          id,
		FamilyID:    ch.FamilyID,
		ChoreID:     ch.ID,
		MemberID:    memberID,
		Day:         d.UnixMilli(),
		Points:      ch.Points,
		CompletedAt: now.UnixMilli(),
	}
}

// =============================================================================
// TOTALS - Simple sums over the completion log
// =============================================================================

// MemberTotal is one leaderboard row.
type MemberTotal struct {
	MemberID    string          `json:"member_id"`
	Points      decimal.Decimal `json:"points"`
	Completions int             `json:"completions"`
}

// TotalPoints sums completions per member. Deliberately a plain
// replay-and-sum: no cached balances to invalidate.
func TotalPoints(completions []Completion) map[string]MemberTotal {
	totals := make(map[string]MemberTotal)
	for _, c := range completions {
		t := totals[c.MemberID]
		t.MemberID = c.MemberID
		t.Points = t.Points.Add(c.Points)
		t.Completions++
		totals[c.MemberID] = t
	}
	return totals
}
