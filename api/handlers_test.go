package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth/household-engine/household"
	"github.com/hearth/household-engine/store/memory"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

func testServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()
	h := NewHandler(memory.New(), household.PriceIDs{
		FamilyPlusMonthly: "price_plus_m",
		FamilyPlusAnnual:  "price_plus_y",
		FamilyProMonthly:  "price_pro_m",
		FamilyProAnnual:   "price_pro_y",
	}, time.UTC)
	h.Now = func() time.Time {
		return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	srv := httptest.NewServer(NewRouter(h, []string{"http://localhost:3000"}))
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createFamily(t *testing.T, srv *httptest.Server) household.Family {
	t.Helper()
	var fam household.Family
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families", CreateFamilyRequest{
		Name:      "The Riveras",
		OwnerName: "Rosa",
		Timezone:  "America/New_York",
	}, &fam)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return fam
}

func ms(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC).UnixMilli()
}

func pointsOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// FAMILIES AND MEMBERS
// =============================================================================

func TestCreateFamily_CreatesOwnerMember(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	assert.Equal(t, household.PlanFree, fam.Plan)
	assert.NotEmpty(t, fam.OwnerID)

	var members []household.Member
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/families/"+fam.ID+"/members", nil, &members)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, members, 1)
	assert.Equal(t, "Rosa", members[0].DisplayName)
	assert.Equal(t, household.RoleParent, members[0].Role)
}

func TestCreateFamily_RejectsBadTimezone(t *testing.T) {
	srv, _ := testServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families", CreateFamilyRequest{
		Name: "X", OwnerName: "Y", Timezone: "Nowhere/Void",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddMember_FreePlanChildLimit(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	addChild := func(name string) *http.Response {
		return doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/members",
			AddMemberRequest{DisplayName: name, Role: household.RoleChild}, nil)
	}

	// Free tier allows two children.
	assert.Equal(t, http.StatusCreated, addChild("Kid 1").StatusCode)
	assert.Equal(t, http.StatusCreated, addChild("Kid 2").StatusCode)
	assert.Equal(t, http.StatusForbidden, addChild("Kid 3").StatusCode)

	// Upgrading lifts the cap.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/plan",
		UpdatePlanRequest{PriceID: "price_plus_m"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusCreated, addChild("Kid 3").StatusCode)
}

func TestUpdatePlan_UnknownPriceFallsBackToFree(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	var updated household.Family
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/plan",
		UpdatePlanRequest{PriceID: "price_bogus"}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, household.PlanFree, updated.Plan)
}

func TestGetFamily_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/families/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// INVITATIONS
// =============================================================================

func TestInvitationFlow_AcceptCreatesMember(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	var created InvitationCreatedResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/invitations",
		CreateInvitationRequest{Email: "tio@example.com", Role: household.RoleParent}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.Token)

	// Token is absent from the list view.
	var listed []household.Invitation
	doJSON(t, http.MethodGet, srv.URL+"/api/families/"+fam.ID+"/invitations", nil, &listed)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Token)

	var member household.Member
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/invitations/"+created.Token+"/accept",
		AcceptInvitationRequest{DisplayName: "Tio Berto"}, &member)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, fam.ID, member.FamilyID)
	assert.Equal(t, household.RoleParent, member.Role)

	// A second resolution is rejected.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/invitations/"+created.Token+"/decline", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInvitation_AcceptAfterExpiryIsGone(t *testing.T) {
	srv, h := testServer(t)
	fam := createFamily(t, srv)

	var created InvitationCreatedResponse
	doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/invitations",
		CreateInvitationRequest{Email: "late@example.com", Role: household.RoleChild}, &created)

	// Jump past the TTL.
	h.Now = func() time.Time {
		return time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/invitations/"+created.Token+"/accept",
		AcceptInvitationRequest{DisplayName: "Too Late"}, nil)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

// =============================================================================
// EVENTS AND THE CALENDAR WINDOW
// =============================================================================

func weeklyDinnerRequest() EventRequest {
	req := EventRequest{Title: "Family dinner", Location: "Home"}
	req.StartAt = ms(2025, time.March, 12, 18, 30) // Wednesday
	req.EndAt = ms(2025, time.March, 12, 19, 30)
	req.Recurring = true
	req.RecurrenceType = "weekly"
	return req
}

func TestCreateEvent_RejectsInvalidRule(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	req := weeklyDinnerRequest()
	req.RecurrenceType = "fortnightly"
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/events", req, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCalendar_ExpandsRecurringEvent(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/events",
		weeklyDinnerRequest(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Four Wednesdays in the window Mar 10 - Apr 6.
	url := fmt.Sprintf("%s/api/families/%s/calendar?start=%d&end=%d",
		srv.URL, fam.ID, ms(2025, time.March, 10, 0, 0), ms(2025, time.April, 6, 23, 59))
	var cal CalendarResponse
	resp = doJSON(t, http.MethodGet, url, nil, &cal)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, cal.Events, 4)
	for _, inst := range cal.Events {
		assert.Equal(t, "Family dinner", inst.Title)
		assert.NotEmpty(t, inst.SourceEventID)
	}
	// The 18:30 UTC anchor is 14:30 in New York; every instance keeps
	// that wall-clock time in the family's zone.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	for _, inst := range cal.Events {
		at := time.UnixMilli(inst.StartAt).In(ny)
		assert.Equal(t, 14, at.Hour())
		assert.Equal(t, 30, at.Minute())
	}
	assert.Equal(t, ms(2025, time.March, 12, 18, 30), cal.Events[0].StartAt)
}

func TestGetCalendar_MissingWindowParams(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/families/"+fam.ID+"/calendar", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCalendarICS(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/events",
		weeklyDinnerRequest(), nil)

	resp, err := http.Get(srv.URL + "/api/families/" + fam.ID + "/calendar.ics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
}

func TestUpdateEvent_ReplacesRule(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	var ev struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/events",
		weeklyDinnerRequest(), &ev)

	update := weeklyDinnerRequest()
	update.Title = "Taco night"
	interval := 2
	update.RecurrenceInterval = &interval

	var updated struct {
		Title              string `json:"title"`
		RecurrenceInterval int    `json:"recurrence_interval"`
	}
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/events/"+ev.ID, update, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Taco night", updated.Title)
	assert.Equal(t, 2, updated.RecurrenceInterval)
}

// =============================================================================
// CHORES, BOARD, POINTS
// =============================================================================

func dishesRequest() ChoreRequest {
	req := ChoreRequest{Title: "Dishes"}
	req.Points = pointsOf("5")
	req.StartAt = ms(2025, time.March, 12, 0, 0) // Wednesday
	req.EndAt = ms(2025, time.March, 12, 0, 30)
	req.Recurring = true
	req.RecurrenceType = "weekly"
	req.DaysOfWeek = []int{1, 3, 5}
	return req
}

func TestCompleteChore_DuplicateDayConflicts(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	var member household.Member
	doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/members",
		AddMemberRequest{DisplayName: "Kid", Role: household.RoleChild}, &member)

	var ch struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/chores",
		dishesRequest(), &ch)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Friday March 14 is a due day (weekday 5).
	complete := CompleteChoreRequest{MemberID: member.ID, Day: ms(2025, time.March, 14, 10, 0)}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/chores/"+ch.ID+"/complete", complete, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/chores/"+ch.ID+"/complete", complete, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Thursday is not a due day.
	offDay := CompleteChoreRequest{MemberID: member.ID, Day: ms(2025, time.March, 13, 10, 0)}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/chores/"+ch.ID+"/complete", offDay, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var points PointsResponse
	doJSON(t, http.MethodGet, srv.URL+"/api/families/"+fam.ID+"/points", nil, &points)
	require.Len(t, points.Totals, 1)
	assert.Equal(t, member.ID, points.Totals[0].MemberID)
	assert.True(t, points.Totals[0].Points.Equal(pointsOf("5")))
	assert.Equal(t, 1, points.Totals[0].Completions)
}

func TestCompleteChore_RejectsMemberFromAnotherFamily(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)
	other := createFamily(t, srv)

	var outsider household.Member
	doJSON(t, http.MethodPost, srv.URL+"/api/families/"+other.ID+"/members",
		AddMemberRequest{DisplayName: "Neighbor Kid", Role: household.RoleChild}, &outsider)

	var ch struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/chores",
		dishesRequest(), &ch)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	complete := CompleteChoreRequest{MemberID: outsider.ID, Day: ms(2025, time.March, 14, 10, 0)}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/chores/"+ch.ID+"/complete", complete, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var points PointsResponse
	doJSON(t, http.MethodGet, srv.URL+"/api/families/"+fam.ID+"/points", nil, &points)
	assert.Empty(t, points.Totals)
}

func TestGetBoard_GroupsByDay(t *testing.T) {
	srv, _ := testServer(t)
	fam := createFamily(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/api/families/"+fam.ID+"/chores", dishesRequest(), nil)

	// Mon Mar 10 - Sun Mar 16 UTC; in New York that window touches
	// 8 civil days (the UTC start falls on the evening of Mar 9).
	url := fmt.Sprintf("%s/api/families/%s/chores/board?start=%d&end=%d",
		srv.URL, fam.ID, ms(2025, time.March, 10, 0, 0), ms(2025, time.March, 16, 23, 59))
	var board BoardResponse
	resp := doJSON(t, http.MethodGet, url, nil, &board)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, board.Days, 8)
	due := 0
	for _, day := range board.Days {
		due += len(day.ChoreIDs)
	}
	// Wednesday and Friday fall on/after the anchor; earlier days precede it.
	assert.Equal(t, 2, due)
}

func TestListPlans(t *testing.T) {
	srv, _ := testServer(t)

	var plans []household.Plan
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/plans", nil, &plans)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, plans, 3)
	assert.Equal(t, household.PlanFree, plans[0].Name)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
