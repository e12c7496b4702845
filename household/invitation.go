package household

import "time"

// =============================================================================
// INVITATION - Bringing a new member into a family
// =============================================================================

// Invitation is a pending offer to join a family. The token is an opaque
// string minted by the caller (token generation is an identity concern,
// not a household one); this package only stores and matches it.
type Invitation struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Token    string `json:"-"`

	Status    InvitationStatus `json:"status"`
	CreatedAt int64            `json:"created_at"`
	ExpiresAt int64            `json:"expires_at"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// IsExpired reports whether the invitation's deadline has passed.
func (i Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt > 0 && now.UnixMilli() > i.ExpiresAt
}

// Accept transitions a pending, unexpired invitation to accepted.
func (i *Invitation) Accept(now time.Time) error {
	if i.Status != InvitationPending {
		return ErrInvitationClosed
	}
	if i.IsExpired(now) {
		i.Status = InvitationExpired
		return ErrInvitationExpired
	}
	i.Status = InvitationAccepted
	return nil
}

// Decline transitions a pending invitation to declined.
func (i *Invitation) Decline() error {
	if i.Status != InvitationPending {
		return ErrInvitationClosed
	}
	i.Status = InvitationDeclined
	return nil
}

// MarkExpiredIfDue flips a pending invitation past its deadline to
// expired. The background sweeper calls this; returns true on change.
func (i *Invitation) MarkExpiredIfDue(now time.Time) bool {
	if i.Status == InvitationPending && i.IsExpired(now) {
		i.Status = InvitationExpired
		return true
	}
	return false
}
