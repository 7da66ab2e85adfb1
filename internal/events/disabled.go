package events

import (
	"context"

	"github.com/couchcryptid/weather-view-service/internal/domain"
)

// Disabled stands in for the Publisher when no sink is configured.
type Disabled struct{}

// Record discards ev.
func (Disabled) Record(domain.LookupEvent) {}

// CheckReadiness always reports ready.
func (Disabled) CheckReadiness(context.Context) error { return nil }
