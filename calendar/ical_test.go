package calendar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/hearth/household-engine/calendar"
)

func TestICSFeed_NonRecurringEvent(t *testing.T) {
	ev := calendar.Event{
		ID:       "ev-once",
		Title:    "School play",
		Location: "Auditorium",
		StartAt:  ms(2025, time.March, 14, 19, 0),
		EndAt:    ms(2025, time.March, 14, 21, 0),
	}

	feed := calendar.ICSFeed("Smith family", []calendar.Event{ev}, time.UTC)

	if !strings.Contains(feed, "BEGIN:VCALENDAR") || !strings.Contains(feed, "END:VCALENDAR") {
		t.Fatal("not a VCALENDAR document")
	}
	if !strings.Contains(feed, "SUMMARY:School play") {
		t.Error("missing SUMMARY")
	}
	if !strings.Contains(feed, "LOCATION:Auditorium") {
		t.Error("missing LOCATION")
	}
	if strings.Contains(feed, "RRULE") {
		t.Error("non-recurring event must not carry an RRULE")
	}
}

func TestICSFeed_WeeklyRRule(t *testing.T) {
	ev := weeklyDinner()
	ev.DaysOfWeek = []int{1, 3, 5}
	ev.RecurrenceInterval = 2

	feed := calendar.ICSFeed("Smith family", []calendar.Event{ev}, time.UTC)

	if !strings.Contains(feed, "RRULE:") {
		t.Fatal("missing RRULE line")
	}
	if !strings.Contains(feed, "FREQ=WEEKLY") {
		t.Error("missing FREQ=WEEKLY")
	}
	if !strings.Contains(feed, "INTERVAL=2") {
		t.Error("missing INTERVAL=2")
	}
	for _, day := range []string{"MO", "WE", "FR"} {
		if !strings.Contains(feed, day) {
			t.Errorf("BYDAY missing %s", day)
		}
	}
}

func TestICSFeed_EndDateBecomesUntil(t *testing.T) {
	end := ms(2025, time.June, 1, 0, 0)
	ev := weeklyDinner()
	ev.RecurrenceEndAt = &end

	feed := calendar.ICSFeed("Smith family", []calendar.Event{ev}, time.UTC)

	if !strings.Contains(feed, "UNTIL=20250601") {
		t.Error("end date should serialize as an UNTIL on the inclusive last day")
	}
}

func TestICSFeed_TypelessRecurringFallsBackToDaily(t *testing.T) {
	ev := weeklyDinner()
	ev.RecurrenceType = ""

	feed := calendar.ICSFeed("Smith family", []calendar.Event{ev}, time.UTC)

	if !strings.Contains(feed, "FREQ=DAILY") {
		t.Error("typeless recurring event should export as plain daily")
	}
}
