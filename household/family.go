/*
Package household models the family itself: the household record, its
members and roles, membership limits derived from the subscription plan,
and the invitation lifecycle that brings new members in.

The package owns no algorithmic logic; it is the CRUD-shaped center the
calendar and chore domains hang off. Authentication, token generation and
payment-provider interaction all live outside - this package only stores
their artifacts (member identities, opaque invite tokens, a plan name).
*/
package household

// =============================================================================
// FAMILY
// =============================================================================

type Family struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	OwnerID string   `json:"owner_id"`
	Plan    PlanName `json:"plan"`

	// Timezone is the family's display timezone (IANA name). All
	// calendar-day math for this family's events and chores runs in it.
	Timezone string `json:"timezone,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// =============================================================================
// MEMBERS
// =============================================================================

type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

type Member struct {
	ID          string `json:"id"`
	FamilyID    string `json:"family_id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	Color       string `json:"color,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	JoinedAt    int64  `json:"joined_at"`
}

// CountChildren returns how many members hold the child role.
func CountChildren(members []Member) int {
	n := 0
	for _, m := range members {
		if m.Role == RoleChild {
			n++
		}
	}
	return n
}

// CanAddChild checks the family's plan limit before admitting another
// child member. Parents are never limited.
func CanAddChild(plan Plan, members []Member) error {
	if plan.MaxChildren == 0 {
		return nil // unlimited
	}
	if CountChildren(members) >= plan.MaxChildren {
		return &ChildLimitError{Plan: plan.Name, Limit: plan.MaxChildren}
	}
	return nil
}
