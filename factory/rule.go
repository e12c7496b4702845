/*
Package factory converts user-authored JSON recurrence payloads into
engine rules.

PURPOSE:
  The edit form posts recurrence settings as JSON. The factory parses
  and validates them ONCE, at creation/update time - the strict
  counterpart of the engine's read-time leniency. The engine tolerates a
  zero interval or an unknown frequency because stored data must render
  something; the factory rejects the same input because bad data should
  never be stored in the first place.

VALIDATION RULES:
  - end must not precede start
  - recurrence_type, when present, must be daily/weekly/monthly
  - recurrence_interval, when present, must be >= 1
  - days_of_week entries must be 0..6 (0 = Sunday) without duplicates
  - days_of_week only makes sense on weekly rules
  - recurrence_end_date must not precede the start day

USAGE:
  f := factory.NewRuleFactory()
  rule, err := f.ParseRule(body)
  if err != nil { ... } // 400 to the form

SEE ALSO:
  - recurrence/rule.go: Normalize, the read-time fallback policy
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hearth/household-engine/recurrence"
)

// ErrInvalidRule is wrapped by every validation failure.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// =============================================================================
// JSON SCHEMA
// =============================================================================

// RuleJSON is the wire shape the edit form posts. Timestamps are unix ms.
type RuleJSON struct {
	StartAt            int64  `json:"start_at"`
	EndAt              int64  `json:"end_at"`
	Recurring          bool   `json:"recurring"`
	RecurrenceType     string `json:"recurrence_type,omitempty"`
	RecurrenceInterval *int   `json:"recurrence_interval,omitempty"`
	DaysOfWeek         []int  `json:"days_of_week,omitempty"`
	RecurrenceEndAt    *int64 `json:"recurrence_end_at,omitempty"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

type RuleFactory struct{}

func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParseRule decodes and validates a JSON rule payload.
func (f *RuleFactory) ParseRule(raw []byte) (recurrence.Rule, error) {
	var rj RuleJSON
	if err := json.Unmarshal(raw, &rj); err != nil {
		return recurrence.Rule{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return f.FromJSON(rj)
}

// FromJSON validates an already-decoded payload.
func (f *RuleFactory) FromJSON(rj RuleJSON) (recurrence.Rule, error) {
	if rj.StartAt == 0 {
		return recurrence.Rule{}, fmt.Errorf("%w: start_at is required", ErrInvalidRule)
	}
	if rj.EndAt < rj.StartAt {
		return recurrence.Rule{}, fmt.Errorf("%w: end_at precedes start_at", ErrInvalidRule)
	}

	rule := recurrence.Rule{
		AnchorStart: rj.StartAt,
		AnchorEnd:   rj.EndAt,
		Recurring:   rj.Recurring,
	}
	if !rj.Recurring {
		// One-shot: pattern fields are ignored by the engine, and we
		// refuse to store them to keep records clean.
		if rj.RecurrenceType != "" || rj.RecurrenceInterval != nil || len(rj.DaysOfWeek) > 0 || rj.RecurrenceEndAt != nil {
			return recurrence.Rule{}, fmt.Errorf("%w: recurrence fields on a non-recurring item", ErrInvalidRule)
		}
		return rule, nil
	}

	freq := recurrence.Frequency(rj.RecurrenceType)
	if rj.RecurrenceType != "" && !recurrence.KnownFrequency(freq) {
		return recurrence.Rule{}, fmt.Errorf("%w: unknown recurrence_type %q", ErrInvalidRule, rj.RecurrenceType)
	}
	rule.Frequency = freq

	rule.Interval = 1
	if rj.RecurrenceInterval != nil {
		if *rj.RecurrenceInterval < 1 {
			return recurrence.Rule{}, fmt.Errorf("%w: recurrence_interval must be >= 1", ErrInvalidRule)
		}
		rule.Interval = *rj.RecurrenceInterval
	}

	if len(rj.DaysOfWeek) > 0 {
		if freq != recurrence.FreqWeekly {
			return recurrence.Rule{}, fmt.Errorf("%w: days_of_week requires a weekly rule", ErrInvalidRule)
		}
		seen := make(map[int]bool)
		for _, d := range rj.DaysOfWeek {
			if d < 0 || d > 6 {
				return recurrence.Rule{}, fmt.Errorf("%w: weekday %d out of range 0..6", ErrInvalidRule, d)
			}
			if seen[d] {
				return recurrence.Rule{}, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidRule, d)
			}
			seen[d] = true
		}
		rule.DaysOfWeek = append([]int(nil), rj.DaysOfWeek...)
	}

	if rj.RecurrenceEndAt != nil {
		if *rj.RecurrenceEndAt < rj.StartAt {
			return recurrence.Rule{}, fmt.Errorf("%w: recurrence_end_at precedes start_at", ErrInvalidRule)
		}
		end := *rj.RecurrenceEndAt
		rule.EndDate = &end
	}

	return rule, nil
}
