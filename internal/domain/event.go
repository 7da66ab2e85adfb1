package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trigger names what started a lookup.
type Trigger string

const (
	TriggerMount    Trigger = "mount"
	TriggerSearch   Trigger = "search"
	TriggerLocate   Trigger = "locate"
	TriggerLanguage Trigger = "language"
)

// Outcome of a completed lookup.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeStale   Outcome = "stale" // superseded by a later lookup and discarded
)

// LookupEvent records one completed lookup.
type LookupEvent struct {
	ID          string        `json:"id"`
	Session     string        `json:"session,omitempty"`
	Sequence    uint64        `json:"sequence"`
	Trigger     Trigger       `json:"trigger"`
	Query       string        `json:"query"`
	Language    Language      `json:"language"`
	Outcome     Outcome       `json:"outcome"`
	Reason      string        `json:"reason,omitempty"`
	Location    string        `json:"location,omitempty"`
	Country     string        `json:"country,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
	CompletedAt time.Time     `json:"completed_at"`
}

// NewLookupEvent stamps an event with a fresh ID and the current time.
func NewLookupEvent(session string, seq uint64, trigger Trigger, q LookupQuery, outcome Outcome, took time.Duration) LookupEvent {
	return LookupEvent{
		ID:          uuid.NewString(),
		Session:     session,
		Sequence:    seq,
		Trigger:     trigger,
		Query:       q.String(),
		Language:    q.Language,
		Outcome:     outcome,
		Duration:    took,
		CompletedAt: clock.Now().UTC(),
	}
}
