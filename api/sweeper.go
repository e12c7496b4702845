/*
sweeper.go - Scheduled invitation expiry

PURPOSE:
  Periodically flips pending invitations past their deadline to expired,
  so list views and token lookups reflect reality without waiting for
  someone to try the token.

DESIGN:
  - robfig/cron drives the schedule (default hourly, configurable)
  - Sweep is idempotent: it only touches pending invitations whose
    deadline has passed, and a second run is a no-op
  - Accept() performs the same check inline, so the sweep is a tidiness
    pass, not a correctness requirement

USAGE:
  sweeper := NewInvitationSweeper(store, "0 * * * *")
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - household/invitation.go: MarkExpiredIfDue
*/
package api

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hearth/household-engine/household"
)

// InvitationSweeper expires overdue pending invitations on a schedule.
type InvitationSweeper struct {
	Store household.Store

	// Now is swappable for tests.
	Now func() time.Time

	schedule string
	cron     *cron.Cron
}

// NewInvitationSweeper creates a sweeper with a cron schedule
// (standard 5-field syntax, e.g. "0 * * * *" for hourly).
func NewInvitationSweeper(store household.Store, schedule string) *InvitationSweeper {
	return &InvitationSweeper{
		Store:    store,
		Now:      time.Now,
		schedule: schedule,
	}
}

// Start begins the scheduled sweeps. The first sweep runs immediately.
func (s *InvitationSweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, func() { s.SweepNow() }); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[Sweeper] Started with schedule %q", s.schedule)

	s.SweepNow()
	return nil
}

// Stop halts the schedule, waiting for a running sweep to finish.
func (s *InvitationSweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		log.Println("[Sweeper] Stopped")
	}
}

// SweepNow expires all overdue pending invitations once. Returns how
// many invitations were flipped.
func (s *InvitationSweeper) SweepNow() int {
	ctx := context.Background()
	now := s.Now()

	pending, err := s.Store.ListPendingInvitations(ctx)
	if err != nil {
		log.Printf("[Sweeper] Error listing pending invitations: %v", err)
		return 0
	}

	expired := 0
	for _, inv := range pending {
		if !inv.MarkExpiredIfDue(now) {
			continue
		}
		if err := s.Store.SaveInvitation(ctx, inv); err != nil {
			log.Printf("[Sweeper] Error expiring invitation %s: %v", inv.ID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Printf("[Sweeper] Expired %d invitation(s)", expired)
	}
	return expired
}
