package calendar_test

import (
	"testing"
	"time"

	"github.com/hearth/household-engine/calendar"
)

func ms(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC).UnixMilli()
}

func weeklyDinner() calendar.Event {
	return calendar.Event{
		ID:                 "ev-dinner",
		FamilyID:           "fam-1",
		Title:              "Family dinner",
		Color:              "#e07a5f",
		AttendeeIDs:        []string{"mem-1", "mem-2", "mem-3"},
		StartAt:            ms(2025, time.March, 12, 18, 30), // Wednesday
		EndAt:              ms(2025, time.March, 12, 19, 30),
		Recurring:          true,
		RecurrenceType:     "weekly",
		RecurrenceInterval: 1,
	}
}

func TestEvent_RecurrenceRuleMapping(t *testing.T) {
	end := ms(2025, time.June, 1, 0, 0)
	ev := weeklyDinner()
	ev.DaysOfWeek = []int{3, 5}
	ev.RecurrenceEndAt = &end

	rule := ev.RecurrenceRule()

	if rule.AnchorStart != ev.StartAt || rule.AnchorEnd != ev.EndAt {
		t.Error("anchor timestamps not carried over")
	}
	if !rule.Recurring || string(rule.Frequency) != "weekly" || rule.Interval != 1 {
		t.Error("recurrence fields not carried over")
	}
	if len(rule.DaysOfWeek) != 2 || rule.EndDate == nil || *rule.EndDate != end {
		t.Error("weekday set or end date not carried over")
	}
}

func TestExpandEvents_PayloadCopiedVerbatim(t *testing.T) {
	ev := weeklyDinner()
	start := time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 22, 23, 59, 59, 0, time.UTC)

	got := calendar.ExpandEvents([]calendar.Event{ev}, start, end, time.UTC)

	if len(got) != 1 {
		t.Fatalf("got %d instances, want 1 (next Wednesday)", len(got))
	}
	inst := got[0]
	if inst.Title != ev.Title || inst.Color != ev.Color || inst.FamilyID != ev.FamilyID {
		t.Error("payload fields not copied onto the instance")
	}
	if len(inst.AttendeeIDs) != 3 {
		t.Error("attendee list not copied onto the instance")
	}
	if inst.SourceEventID != "ev-dinner" {
		t.Errorf("source back-reference %q, want ev-dinner", inst.SourceEventID)
	}
}

func TestExpandEvents_RecomputesTimestamps(t *testing.T) {
	ev := weeklyDinner()
	start := time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 22, 23, 59, 59, 0, time.UTC)

	got := calendar.ExpandEvents([]calendar.Event{ev}, start, end, time.UTC)

	if len(got) != 1 {
		t.Fatalf("got %d instances, want 1", len(got))
	}
	inst := got[0]
	wantStart := ms(2025, time.March, 19, 18, 30)
	if inst.StartAt != wantStart {
		t.Errorf("instance StartAt %d, want %d (Mar 19 18:30)", inst.StartAt, wantStart)
	}
	if inst.EndAt-inst.StartAt != ev.EndAt-ev.StartAt {
		t.Error("instance duration differs from the anchor duration")
	}
	wantDay := ms(2025, time.March, 19, 0, 0)
	if inst.OccurrenceDate != wantDay {
		t.Errorf("occurrence date %d, want start of Mar 19", inst.OccurrenceDate)
	}
}

func TestExpandEvents_NonRecurringSingleton(t *testing.T) {
	ev := calendar.Event{
		ID:      "ev-once",
		Title:   "Dentist",
		StartAt: ms(2025, time.March, 14, 10, 0),
		EndAt:   ms(2025, time.March, 14, 10, 45),
	}
	start := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 15, 23, 59, 59, 0, time.UTC)

	got := calendar.ExpandEvents([]calendar.Event{ev}, start, end, time.UTC)
	if len(got) != 1 {
		t.Fatalf("got %d instances, want 1", len(got))
	}

	// Shift the window past the event: nothing.
	start = time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)
	end = time.Date(2025, time.March, 22, 23, 59, 59, 0, time.UTC)
	got = calendar.ExpandEvents([]calendar.Event{ev}, start, end, time.UTC)
	if len(got) != 0 {
		t.Fatalf("got %d instances, want 0", len(got))
	}
}
