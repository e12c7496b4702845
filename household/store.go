/*
store.go - Persistence interface for household data

PURPOSE:
  Defines the interface between HTTP handlers and the database. Entities
  are plain CRUD; chore completions are the one append-only corner
  (points history is replayed, never edited).

QUERY SHAPE FOR EXPANSION:
  ListEventsOverlapping / ListChoresOverlapping return the items that
  could plausibly produce an occurrence inside a window:
    - non-recurring items anchored inside the window
    - recurring items anchored no later than the window end whose end
      date (if any) hasn't passed before the window start
  The recurrence engine then does the exact per-day work in memory;
  the store filter only has to be a superset.

IMPLEMENTATIONS:
  - store/sqlite: production
  - store/memory: tests and dev
*/
package household

import (
	"context"

	"github.com/hearth/household-engine/calendar"
	"github.com/hearth/household-engine/chores"
)

// Store handles persistence for all household entities.
type Store interface {
	// Families
	SaveFamily(ctx context.Context, f Family) error
	GetFamily(ctx context.Context, id string) (Family, error)
	ListFamilies(ctx context.Context) ([]Family, error)

	// Members
	SaveMember(ctx context.Context, m Member) error
	GetMember(ctx context.Context, id string) (Member, error)
	ListMembers(ctx context.Context, familyID string) ([]Member, error)
	DeleteMember(ctx context.Context, id string) error

	// Invitations
	SaveInvitation(ctx context.Context, inv Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (Invitation, error)
	ListInvitations(ctx context.Context, familyID string) ([]Invitation, error)
	ListPendingInvitations(ctx context.Context) ([]Invitation, error)

	// Events
	SaveEvent(ctx context.Context, ev calendar.Event) error
	GetEvent(ctx context.Context, id string) (calendar.Event, error)
	ListEvents(ctx context.Context, familyID string) ([]calendar.Event, error)
	ListEventsOverlapping(ctx context.Context, familyID string, rangeStart, rangeEnd int64) ([]calendar.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// Chores
	SaveChore(ctx context.Context, ch chores.Chore) error
	GetChore(ctx context.Context, id string) (chores.Chore, error)
	ListChores(ctx context.Context, familyID string) ([]chores.Chore, error)
	ListChoresOverlapping(ctx context.Context, familyID string, rangeStart, rangeEnd int64) ([]chores.Chore, error)
	DeleteChore(ctx context.Context, id string) error

	// Completions (append-only; duplicate keys rejected)
	AppendCompletion(ctx context.Context, c chores.Completion) error
	ListCompletions(ctx context.Context, familyID string) ([]chores.Completion, error)
}
