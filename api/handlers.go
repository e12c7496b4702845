/*
handlers.go - HTTP API handlers for the household service

PURPOSE:
  Exposes families, members, invitations, the calendar and the chore
  board via REST. Handles HTTP request/response, JSON serialization, and
  delegates to domain logic.

ENDPOINTS:
  Families:
    GET    /api/families                     List families
    POST   /api/families                     Create family + owner member
    GET    /api/families/{id}                Get family
    POST   /api/families/{id}/plan           Switch plan by price ID

  Members:
    GET    /api/families/{id}/members        List members
    POST   /api/families/{id}/members        Add member (plan limit applies)
    DELETE /api/members/{id}                 Remove member

  Invitations:
    GET    /api/families/{id}/invitations    List invitations
    POST   /api/families/{id}/invitations    Create invitation (returns token once)
    POST   /api/invitations/{token}/accept   Join the family
    POST   /api/invitations/{token}/decline  Decline

  Calendar:
    GET    /api/families/{id}/events         List raw events
    POST   /api/families/{id}/events         Create event
    GET    /api/events/{id}                  Get event
    PUT    /api/events/{id}                  Update event
    DELETE /api/events/{id}                  Delete event
    GET    /api/families/{id}/calendar       Expanded window (?start=&end=, unix ms)
    GET    /api/families/{id}/calendar.ics   ICS feed

  Chores:
    GET    /api/families/{id}/chores         List chores
    POST   /api/families/{id}/chores         Create chore
    GET    /api/chores/{id}                  Get chore
    PUT    /api/chores/{id}                  Update chore
    DELETE /api/chores/{id}                  Delete chore
    GET    /api/families/{id}/chores/board   Day-grouped board (?start=&end=)
    POST   /api/chores/{id}/complete         Record a completion
    GET    /api/families/{id}/points         Leaderboard

  Plans:
    GET    /api/plans                        Plan catalog

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate completion)
  - 410: Expired invitation
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. Identity and session handling live in
  front of this service.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - sweeper.go: Invitation expiry cron
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hearth/household-engine/calendar"
	"github.com/hearth/household-engine/chores"
	"github.com/hearth/household-engine/factory"
	"github.com/hearth/household-engine/household"
	"github.com/hearth/household-engine/metrics"
	"github.com/hearth/household-engine/recurrence"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  household.Store
	Rules  *factory.RuleFactory
	Prices household.PriceIDs

	// DefaultLoc is the zone for families without a timezone of their own.
	DefaultLoc *time.Location

	// InvitationTTL is how long a new invitation stays acceptable.
	InvitationTTL time.Duration

	// Now is swappable for tests.
	Now func() time.Time
}

// NewHandler creates a handler with production defaults.
func NewHandler(store household.Store, prices household.PriceIDs, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Store:         store,
		Rules:         factory.NewRuleFactory(),
		Prices:        prices,
		DefaultLoc:    loc,
		InvitationTTL: 7 * 24 * time.Hour,
		Now:           time.Now,
	}
}

// familyLocation resolves the zone all of a family's day math runs in.
func (h *Handler) familyLocation(f household.Family) *time.Location {
	if f.Timezone == "" {
		return h.DefaultLoc
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return h.DefaultLoc
	}
	return loc
}

// =============================================================================
// FAMILY HANDLERS
// =============================================================================

// ListFamilies returns all families.
func (h *Handler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.Store.ListFamilies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list families", err)
		return
	}
	if families == nil {
		families = []household.Family{}
	}
	writeJSON(w, http.StatusOK, families)
}

// CreateFamily creates a family and its owning parent member.
func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.OwnerName == "" {
		writeError(w, http.StatusBadRequest, "name and owner_name are required", nil)
		return
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			writeError(w, http.StatusBadRequest, "Unknown timezone", err)
			return
		}
	}

	now := h.Now().UnixMilli()
	owner := household.Member{
		ID:          uuid.NewString(),
		DisplayName: req.OwnerName,
		Role:        household.RoleParent,
		JoinedAt:    now,
	}
	fam := household.Family{
		ID:        uuid.NewString(),
		Name:      req.Name,
		OwnerID:   owner.ID,
		Plan:      household.PlanFree,
		Timezone:  req.Timezone,
		CreatedAt: now,
	}
	owner.FamilyID = fam.ID

	ctx := r.Context()
	if err := h.Store.SaveFamily(ctx, fam); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create family", err)
		return
	}
	if err := h.Store.SaveMember(ctx, owner); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create owner member", err)
		return
	}

	writeJSON(w, http.StatusCreated, fam)
}

// GetFamily returns a single family.
func (h *Handler) GetFamily(w http.ResponseWriter, r *http.Request) {
	fam, err := h.Store.GetFamily(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}
	writeJSON(w, http.StatusOK, fam)
}

// UpdatePlan switches the family's plan by provider price ID.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	fam.Plan = household.PriceToPlan(h.Prices, req.PriceID)
	fam.UpdatedAt = h.Now().UnixMilli()
	if err := h.Store.SaveFamily(ctx, fam); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update plan", err)
		return
	}
	writeJSON(w, http.StatusOK, fam)
}

// ListPlans returns the plan catalog.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, household.Catalog(h.Prices))
}

// =============================================================================
// MEMBER HANDLERS
// =============================================================================

// ListMembers returns a family's members.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list members", err)
		return
	}
	if members == nil {
		members = []household.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

// AddMember adds a member directly, subject to the plan's child limit.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "display_name is required", nil)
		return
	}
	if req.Role != household.RoleParent && req.Role != household.RoleChild {
		writeError(w, http.StatusBadRequest, "role must be parent or child", nil)
		return
	}

	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	if req.Role == household.RoleChild {
		members, err := h.Store.ListMembers(ctx, fam.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list members", err)
			return
		}
		plan := household.PlanByName(h.Prices, fam.Plan)
		if err := household.CanAddChild(plan, members); err != nil {
			writeError(w, http.StatusForbidden, "Child limit reached for plan", err)
			return
		}
	}

	m := household.Member{
		ID:          uuid.NewString(),
		FamilyID:    fam.ID,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Color:       req.Color,
		AvatarURL:   req.AvatarURL,
		JoinedAt:    h.Now().UnixMilli(),
	}
	if err := h.Store.SaveMember(ctx, m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save member", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// RemoveMember deletes a member.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVITATION HANDLERS
// =============================================================================

// CreateInvitation mints an invitation. The opaque token appears in this
// response only; the caller is responsible for delivering it.
func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required", nil)
		return
	}
	if req.Role != household.RoleParent && req.Role != household.RoleChild {
		writeError(w, http.StatusBadRequest, "role must be parent or child", nil)
		return
	}

	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	now := h.Now()
	inv := household.Invitation{
		ID:        uuid.NewString(),
		FamilyID:  fam.ID,
		Email:     req.Email,
		Role:      req.Role,
		Token:     uuid.NewString(),
		Status:    household.InvitationPending,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(h.InvitationTTL).UnixMilli(),
	}
	if err := h.Store.SaveInvitation(ctx, inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save invitation", err)
		return
	}
	writeJSON(w, http.StatusCreated, InvitationCreatedResponse{Invitation: inv, Token: inv.Token})
}

// ListInvitations returns a family's invitations, tokens omitted.
func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Store.ListInvitations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invitations", err)
		return
	}
	if invs == nil {
		invs = []household.Invitation{}
	}
	writeJSON(w, http.StatusOK, invs)
}

// AcceptInvitation joins the invitee to the family as a new member.
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "display_name is required", nil)
		return
	}

	ctx := r.Context()
	inv, err := h.Store.GetInvitationByToken(ctx, chi.URLParam(r, "token"))
	if err != nil {
		writeStoreError(w, "Failed to look up invitation", err)
		return
	}

	fam, err := h.Store.GetFamily(ctx, inv.FamilyID)
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	if inv.Role == household.RoleChild {
		members, err := h.Store.ListMembers(ctx, fam.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list members", err)
			return
		}
		plan := household.PlanByName(h.Prices, fam.Plan)
		if err := household.CanAddChild(plan, members); err != nil {
			writeError(w, http.StatusForbidden, "Child limit reached for plan", err)
			return
		}
	}

	if err := inv.Accept(h.Now()); err != nil {
		// Accept may have flipped the status to expired; persist that.
		_ = h.Store.SaveInvitation(ctx, inv)
		writeInvitationError(w, err)
		return
	}
	if err := h.Store.SaveInvitation(ctx, inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update invitation", err)
		return
	}

	m := household.Member{
		ID:          uuid.NewString(),
		FamilyID:    fam.ID,
		DisplayName: req.DisplayName,
		Role:        inv.Role,
		Color:       req.Color,
		JoinedAt:    h.Now().UnixMilli(),
	}
	if err := h.Store.SaveMember(ctx, m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save member", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// DeclineInvitation resolves an invitation without joining.
func (h *Handler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inv, err := h.Store.GetInvitationByToken(ctx, chi.URLParam(r, "token"))
	if err != nil {
		writeStoreError(w, "Failed to look up invitation", err)
		return
	}
	if err := inv.Decline(); err != nil {
		writeInvitationError(w, err)
		return
	}
	if err := h.Store.SaveInvitation(ctx, inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update invitation", err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// ListEvents returns a family's raw (unexpanded) events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.ListEvents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent validates the recurrence payload and stores the event.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	ev, err := h.eventFromRequest(req, fam.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event", err)
		return
	}
	ev.ID = uuid.NewString()
	ev.CreatedAt = h.Now().UnixMilli()

	if err := h.Store.SaveEvent(ctx, ev); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save event", err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// GetEvent returns one event.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// UpdateEvent replaces an event's payload and rule.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	existing, err := h.Store.GetEvent(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get event", err)
		return
	}

	ev, err := h.eventFromRequest(req, existing.FamilyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event", err)
		return
	}
	ev.ID = existing.ID
	ev.CreatedBy = existing.CreatedBy
	ev.CreatedAt = existing.CreatedAt
	ev.UpdatedAt = h.Now().UnixMilli()

	if err := h.Store.SaveEvent(ctx, ev); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent removes an event.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) eventFromRequest(req EventRequest, familyID string) (calendar.Event, error) {
	if req.Title == "" {
		return calendar.Event{}, errors.New("title is required")
	}
	if _, err := h.Rules.FromJSON(req.RuleJSON); err != nil {
		return calendar.Event{}, err
	}
	return calendar.Event{
		FamilyID:           familyID,
		Title:              req.Title,
		Location:           req.Location,
		Notes:              req.Notes,
		Color:              req.Color,
		CreatedBy:          req.CreatedBy,
		AttendeeIDs:        req.AttendeeIDs,
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		Recurring:          req.Recurring,
		RecurrenceType:     req.RecurrenceType,
		RecurrenceInterval: intOrOne(req.RecurrenceInterval, req.Recurring),
		DaysOfWeek:         req.DaysOfWeek,
		RecurrenceEndAt:    req.RecurrenceEndAt,
	}, nil
}

// =============================================================================
// CALENDAR VIEW HANDLERS
// =============================================================================

// GetCalendar expands events and chores over the requested window.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	rangeStart, rangeEnd, err := windowParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}
	loc := h.familyLocation(fam)

	events, err := h.Store.ListEventsOverlapping(ctx, fam.ID, rangeStart.UnixMilli(), rangeEnd.UnixMilli())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}
	items, err := h.Store.ListChoresOverlapping(ctx, fam.ID, rangeStart.UnixMilli(), rangeEnd.UnixMilli())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list chores", err)
		return
	}

	eventInstances := calendar.ExpandEvents(events, rangeStart, rangeEnd, loc)
	choreInstances := chores.ExpandChores(items, rangeStart, rangeEnd, loc)
	metrics.ObserveExpansion("events", len(eventInstances))
	metrics.ObserveExpansion("chores", len(choreInstances))

	writeJSON(w, http.StatusOK, CalendarResponse{
		RangeStart: rangeStart.UnixMilli(),
		RangeEnd:   rangeEnd.UnixMilli(),
		Events:     eventInstances,
		Chores:     choreInstances,
	})
}

// GetCalendarICS serves the family calendar as an ICS feed.
func (h *Handler) GetCalendarICS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	events, err := h.Store.ListEvents(ctx, fam.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	feed := calendar.ICSFeed(fam.Name, events, h.familyLocation(fam))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(feed))
}

// =============================================================================
// CHORE HANDLERS
// =============================================================================

// ListChores returns a family's chores.
func (h *Handler) ListChores(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListChores(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list chores", err)
		return
	}
	if items == nil {
		items = []chores.Chore{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateChore validates the recurrence payload and stores the chore.
func (h *Handler) CreateChore(w http.ResponseWriter, r *http.Request) {
	var req ChoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	ch, err := h.choreFromRequest(req, fam.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chore", err)
		return
	}
	ch.ID = uuid.NewString()
	ch.CreatedAt = h.Now().UnixMilli()

	if err := h.Store.SaveChore(ctx, ch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save chore", err)
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

// GetChore returns one chore.
func (h *Handler) GetChore(w http.ResponseWriter, r *http.Request) {
	ch, err := h.Store.GetChore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get chore", err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// UpdateChore replaces a chore's payload and rule.
func (h *Handler) UpdateChore(w http.ResponseWriter, r *http.Request) {
	var req ChoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	existing, err := h.Store.GetChore(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get chore", err)
		return
	}

	ch, err := h.choreFromRequest(req, existing.FamilyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chore", err)
		return
	}
	ch.ID = existing.ID
	ch.CreatedAt = existing.CreatedAt
	ch.UpdatedAt = h.Now().UnixMilli()

	if err := h.Store.SaveChore(ctx, ch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update chore", err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// DeleteChore removes a chore.
func (h *Handler) DeleteChore(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteChore(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete chore", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) choreFromRequest(req ChoreRequest, familyID string) (chores.Chore, error) {
	if req.Title == "" {
		return chores.Chore{}, errors.New("title is required")
	}
	if req.Points.IsNegative() {
		return chores.Chore{}, errors.New("points must not be negative")
	}
	if _, err := h.Rules.FromJSON(req.RuleJSON); err != nil {
		return chores.Chore{}, err
	}
	return chores.Chore{
		FamilyID:           familyID,
		Title:              req.Title,
		Notes:              req.Notes,
		Icon:               req.Icon,
		Points:             req.Points,
		AssigneeIDs:        req.AssigneeIDs,
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		Recurring:          req.Recurring,
		RecurrenceType:     req.RecurrenceType,
		RecurrenceInterval: intOrOne(req.RecurrenceInterval, req.Recurring),
		DaysOfWeek:         req.DaysOfWeek,
		RecurrenceEndAt:    req.RecurrenceEndAt,
	}, nil
}

// GetBoard returns the day-grouped chore board for a window.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fam, err := h.Store.GetFamily(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}

	rangeStart, rangeEnd, err := windowParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}

	items, err := h.Store.ListChoresOverlapping(ctx, fam.ID, rangeStart.UnixMilli(), rangeEnd.UnixMilli())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list chores", err)
		return
	}

	loc := h.familyLocation(fam)
	window := recurrence.Window{Start: rangeStart, End: rangeEnd}
	writeJSON(w, http.StatusOK, BoardResponse{Days: chores.Board(items, window, loc)})
}

// CompleteChore records one member finishing one chore occurrence.
func (h *Handler) CompleteChore(w http.ResponseWriter, r *http.Request) {
	var req CompleteChoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.MemberID == "" || req.Day == 0 {
		writeError(w, http.StatusBadRequest, "member_id and day are required", nil)
		return
	}

	ctx := r.Context()
	ch, err := h.Store.GetChore(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get chore", err)
		return
	}
	fam, err := h.Store.GetFamily(ctx, ch.FamilyID)
	if err != nil {
		writeStoreError(w, "Failed to get family", err)
		return
	}
	member, err := h.Store.GetMember(ctx, req.MemberID)
	if err != nil {
		writeStoreError(w, "Failed to get member", err)
		return
	}
	if member.FamilyID != ch.FamilyID {
		writeError(w, http.StatusBadRequest, "Member does not belong to this family", nil)
		return
	}

	loc := h.familyLocation(fam)
	day := time.UnixMilli(req.Day).In(loc)
	if !chores.OccursOn(ch, day, loc) {
		writeError(w, http.StatusBadRequest, "Chore is not due on that day", nil)
		return
	}

	completion := chores.NewCompletion(uuid.NewString(), ch, req.MemberID, day, loc, h.Now())
	if err := h.Store.AppendCompletion(ctx, completion); err != nil {
		if errors.Is(err, household.ErrDuplicateCompletion) {
			writeError(w, http.StatusConflict, "Already completed for that day", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record completion", err)
		return
	}
	writeJSON(w, http.StatusCreated, completion)
}

// GetPoints returns the family leaderboard, highest total first.
func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	completions, err := h.Store.ListCompletions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list completions", err)
		return
	}

	byMember := chores.TotalPoints(completions)
	totals := make([]chores.MemberTotal, 0, len(byMember))
	for _, t := range byMember {
		totals = append(totals, t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Points.Equal(totals[j].Points) {
			return totals[i].Points.GreaterThan(totals[j].Points)
		}
		return totals[i].MemberID < totals[j].MemberID
	})
	writeJSON(w, http.StatusOK, PointsResponse{Totals: totals})
}

// =============================================================================
// HELPERS
// =============================================================================

// windowParams parses the ?start=&end= unix-ms query parameters.
func windowParams(r *http.Request) (time.Time, time.Time, error) {
	start, err := strconv.ParseInt(r.URL.Query().Get("start"), 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start must be a unix ms timestamp")
	}
	end, err := strconv.ParseInt(r.URL.Query().Get("end"), 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end must be a unix ms timestamp")
	}
	return time.UnixMilli(start), time.UnixMilli(end), nil
}

func intOrOne(p *int, recurring bool) int {
	if p != nil {
		return *p
	}
	if recurring {
		return 1
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store sentinels to HTTP statuses.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case household.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeInvitationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, household.ErrInvitationExpired):
		writeError(w, http.StatusGone, "Invitation expired", err)
	case errors.Is(err, household.ErrInvitationClosed):
		writeError(w, http.StatusConflict, "Invitation already resolved", err)
	default:
		writeError(w, http.StatusInternalServerError, "Invitation error", err)
	}
}
