package view

import "github.com/couchcryptid/weather-view-service/internal/domain"

// Status is the lookup lifecycle of a view.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is an immutable snapshot of a view. Transitions build a new State
// and replace the old one; Document is shared between snapshots and never
// mutated.
type State struct {
	Query    string
	Unit     domain.Unit
	Language domain.Language
	Theme    domain.Theme
	Status   Status
	Loading  bool
	Err      string
	Document *domain.ForecastDocument
	Seq      uint64 // latest issued lookup
	Version  uint64 // bumped on every transition
}

// DefaultState is the state of a freshly created view.
func DefaultState() State {
	return State{
		Unit:     domain.Celsius,
		Language: domain.DefaultLanguage,
		Theme:    domain.Light,
		Status:   StatusIdle,
	}
}
