/*
Package memory provides an in-memory household.Store for tests and
local development.

PURPOSE:
  Same contract as store/sqlite without the file on disk. Handler tests
  run against this store; the overlap queries apply the identical
  superset filter so engine behavior matches production.

THREAD SAFETY:
  A single RWMutex guards all maps. Values are copied on the way in and
  out so callers can't mutate stored state.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hearth/household-engine/calendar"
	"github.com/hearth/household-engine/chores"
	"github.com/hearth/household-engine/household"
)

// Store implements household.Store with in-process maps.
type Store struct {
	mu          sync.RWMutex
	families    map[string]household.Family
	members     map[string]household.Member
	invitations map[string]household.Invitation
	events      map[string]calendar.Event
	chores      map[string]chores.Chore
	completions []chores.Completion
	byKey       map[string]bool
}

var _ household.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		families:    make(map[string]household.Family),
		members:     make(map[string]household.Member),
		invitations: make(map[string]household.Invitation),
		events:      make(map[string]calendar.Event),
		chores:      make(map[string]chores.Chore),
		byKey:       make(map[string]bool),
	}
}

// =============================================================================
// FAMILIES
// =============================================================================

func (s *Store) SaveFamily(_ context.Context, f household.Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.families[f.ID] = f
	return nil
}

func (s *Store) GetFamily(_ context.Context, id string) (household.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.families[id]
	if !ok {
		return household.Family{}, household.ErrFamilyNotFound
	}
	return f, nil
}

func (s *Store) ListFamilies(_ context.Context) ([]household.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]household.Family, 0, len(s.families))
	for _, f := range s.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

// =============================================================================
// MEMBERS
// =============================================================================

func (s *Store) SaveMember(_ context.Context, m household.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = m
	return nil
}

func (s *Store) GetMember(_ context.Context, id string) (household.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return household.Member{}, household.ErrMemberNotFound
	}
	return m, nil
}

func (s *Store) ListMembers(_ context.Context, familyID string) ([]household.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []household.Member
	for _, m := range s.members {
		if m.FamilyID == familyID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt < out[j].JoinedAt })
	return out, nil
}

func (s *Store) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return household.ErrMemberNotFound
	}
	delete(s.members, id)
	return nil
}

// =============================================================================
// INVITATIONS
// =============================================================================

func (s *Store) SaveInvitation(_ context.Context, inv household.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations[inv.ID] = inv
	return nil
}

func (s *Store) GetInvitationByToken(_ context.Context, token string) (household.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return household.Invitation{}, household.ErrInvitationNotFound
}

func (s *Store) ListInvitations(_ context.Context, familyID string) ([]household.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []household.Invitation
	for _, inv := range s.invitations {
		if inv.FamilyID == familyID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (s *Store) ListPendingInvitations(_ context.Context) ([]household.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []household.Invitation
	for _, inv := range s.invitations {
		if inv.Status == household.InvitationPending {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) SaveEvent(_ context.Context, ev calendar.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = ev
	return nil
}

func (s *Store) GetEvent(_ context.Context, id string) (calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return calendar.Event{}, household.ErrEventNotFound
	}
	return ev, nil
}

func (s *Store) ListEvents(_ context.Context, familyID string) ([]calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []calendar.Event
	for _, ev := range s.events {
		if ev.FamilyID == familyID {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out, nil
}

func (s *Store) ListEventsOverlapping(_ context.Context, familyID string, rangeStart, rangeEnd int64) ([]calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []calendar.Event
	for _, ev := range s.events {
		if ev.FamilyID != familyID {
			continue
		}
		if overlaps(ev.StartAt, ev.Recurring, ev.RecurrenceEndAt, rangeStart, rangeEnd) {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out, nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return household.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

// =============================================================================
// CHORES
// =============================================================================

func (s *Store) SaveChore(_ context.Context, ch chores.Chore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chores[ch.ID] = ch
	return nil
}

func (s *Store) GetChore(_ context.Context, id string) (chores.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.chores[id]
	if !ok {
		return chores.Chore{}, household.ErrChoreNotFound
	}
	return ch, nil
}

func (s *Store) ListChores(_ context.Context, familyID string) ([]chores.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []chores.Chore
	for _, ch := range s.chores {
		if ch.FamilyID == familyID {
			out = append(out, ch)
		}
	}
	sortChores(out)
	return out, nil
}

func (s *Store) ListChoresOverlapping(_ context.Context, familyID string, rangeStart, rangeEnd int64) ([]chores.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []chores.Chore
	for _, ch := range s.chores {
		if ch.FamilyID != familyID {
			continue
		}
		if overlaps(ch.StartAt, ch.Recurring, ch.RecurrenceEndAt, rangeStart, rangeEnd) {
			out = append(out, ch)
		}
	}
	sortChores(out)
	return out, nil
}

func (s *Store) DeleteChore(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chores[id]; !ok {
		return household.ErrChoreNotFound
	}
	delete(s.chores, id)
	return nil
}

// =============================================================================
// COMPLETIONS
// =============================================================================

func (s *Store) AppendCompletion(_ context.Context, c chores.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byKey[c.Key()] {
		return household.ErrDuplicateCompletion
	}
	s.byKey[c.Key()] = true
	s.completions = append(s.completions, c)
	return nil
}

func (s *Store) ListCompletions(_ context.Context, familyID string) ([]chores.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []chores.Completion
	for _, c := range s.completions {
		if c.FamilyID == familyID {
			out = append(out, c)
		}
	}
	return out, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// endDateSlackMillis widens the end-date comparison by two days: the end
// date is an inclusive calendar day in the family's zone, so the stored
// instant can precede a window start that still falls on the last
// eligible day. The engine discards the extras exactly.
const endDateSlackMillis = 2 * 86_400_000

// overlaps is the same superset filter the SQLite store expresses in SQL.
func overlaps(startAt int64, recurring bool, recurrenceEndAt *int64, rangeStart, rangeEnd int64) bool {
	if startAt > rangeEnd {
		return false
	}
	if !recurring {
		return startAt >= rangeStart
	}
	return recurrenceEndAt == nil || *recurrenceEndAt >= rangeStart-endDateSlackMillis
}

func sortEvents(evs []calendar.Event) {
	sort.Slice(evs, func(i, j int) bool {
		if evs[i].StartAt != evs[j].StartAt {
			return evs[i].StartAt < evs[j].StartAt
		}
		return evs[i].ID < evs[j].ID
	})
}

func sortChores(chs []chores.Chore) {
	sort.Slice(chs, func(i, j int) bool {
		if chs[i].StartAt != chs[j].StartAt {
			return chs[i].StartAt < chs[j].StartAt
		}
		return chs[i].ID < chs[j].ID
	})
}
