package domain

import "context"

// ForecastProvider fetches a forecast document for a lookup query.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, q LookupQuery) (ForecastDocument, error)
}

// Locator resolves the device's current position. Implementations return a
// *LocationError on denial or unavailability.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}
