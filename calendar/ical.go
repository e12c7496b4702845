/*
ical.go - iCalendar feed export

PURPOSE:
  Serializes a family's events into an ICS document so members can
  subscribe from external calendar apps. Recurring events are emitted as
  a single VEVENT with an RRULE line rather than pre-expanded instances,
  so the subscriber's client does its own expansion.

MAPPING:
  daily/weekly/monthly  -> FREQ=DAILY/WEEKLY/MONTHLY with INTERVAL
  DaysOfWeek            -> BYDAY (weekly only)
  EndDate               -> UNTIL (end of the inclusive last day, UTC)
  typeless recurring    -> FREQ=DAILY;INTERVAL=1 (the engine's
                           match-every-day fallback has no RRULE
                           equivalent beyond plain daily)

SEE ALSO:
  - event.go: Event and its embedded rule fields
  - api/handlers.go: the /calendar.ics endpoint
*/
package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/hearth/household-engine/recurrence"
)

// icalWeekdays maps the 0=Sunday encoding onto RRULE BYDAY tokens.
var icalWeekdays = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// ICSFeed renders events as an iCalendar document. Anchor instants are
// written in loc so subscribers see the family's wall-clock times.
func ICSFeed(calendarName string, events []Event, loc *time.Location) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//hearth//household-engine//EN")
	cal.SetDescription(calendarName)

	now := time.Now().UTC()
	for _, ev := range events {
		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(now)
		ve.SetStartAt(time.UnixMilli(ev.StartAt).In(loc))
		ve.SetEndAt(time.UnixMilli(ev.EndAt).In(loc))
		ve.SetSummary(ev.Title)
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.Notes != "" {
			ve.SetDescription(ev.Notes)
		}
		if ev.Recurring {
			if rr := rruleFor(ev); rr != "" {
				ve.AddRrule(rr)
			}
		}
	}
	return cal.Serialize()
}

// rruleFor builds the RRULE value for a recurring event. Returns "" only
// if the rrule library rejects the options, which normalized rules do
// not trigger.
func rruleFor(ev Event) string {
	rule := ev.RecurrenceRule().Normalize()

	opt := rrule.ROption{Interval: rule.Interval}
	switch rule.Frequency {
	case recurrence.FreqWeekly:
		opt.Freq = rrule.WEEKLY
		for _, d := range rule.DaysOfWeek {
			if d >= 0 && d < len(icalWeekdays) {
				opt.Byweekday = append(opt.Byweekday, icalWeekdays[d])
			}
		}
	case recurrence.FreqMonthly:
		opt.Freq = rrule.MONTHLY
	case recurrence.FreqDaily:
		opt.Freq = rrule.DAILY
	default:
		opt.Freq = rrule.DAILY
		opt.Interval = 1
	}
	if rule.EndDate != nil {
		// EndDate is an inclusive calendar day; UNTIL is an instant.
		last := time.UnixMilli(*rule.EndDate).UTC()
		opt.Until = time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, time.UTC)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return ""
	}
	return r.OrigOptions.RRuleString()
}
