// Package geo provides domain.Locator implementations for device positions
// reported by the browser.
package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/couchcryptid/weather-view-service/internal/domain"
)

// ErrDenied is reported when the user refuses to share a position.
var ErrDenied = errors.New("permission denied")

// Fixed is a position the browser has already reported.
type Fixed domain.Coordinates

// Locate returns the fixed position, or a LocationError if it is not a valid coordinate.
func (f Fixed) Locate(_ context.Context) (domain.Coordinates, error) {
	c := domain.Coordinates(f)
	if !c.Valid() {
		return domain.Coordinates{}, &domain.LocationError{Err: errors.New("invalid coordinates reported")}
	}
	return c, nil
}

// Failed is a geolocation attempt that already failed in the browser.
type Failed struct {
	Err error
}

// Locate always returns a LocationError.
func (f Failed) Locate(_ context.Context) (domain.Coordinates, error) {
	err := f.Err
	if err == nil {
		err = ErrDenied
	}
	return domain.Coordinates{}, &domain.LocationError{Err: err}
}

// Deferred waits for a position that the browser reports asynchronously.
// The first Report or Deny wins; later calls are ignored.
type Deferred struct {
	timeout time.Duration
	once    sync.Once
	done    chan struct{}
	coords  domain.Coordinates
	err     error
}

// NewDeferred creates a locator that gives up after timeout.
func NewDeferred(timeout time.Duration) *Deferred {
	return &Deferred{timeout: timeout, done: make(chan struct{})}
}

// Report delivers the device position.
func (d *Deferred) Report(c domain.Coordinates) {
	d.once.Do(func() {
		if !c.Valid() {
			d.err = errors.New("invalid coordinates reported")
		} else {
			d.coords = c
		}
		close(d.done)
	})
}

// Deny delivers a geolocation failure.
func (d *Deferred) Deny(err error) {
	if err == nil {
		err = ErrDenied
	}
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Locate blocks until a report arrives, the timeout passes, or ctx is done.
func (d *Deferred) Locate(ctx context.Context) (domain.Coordinates, error) {
	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case <-d.done:
		if d.err != nil {
			return domain.Coordinates{}, &domain.LocationError{Err: d.err}
		}
		return d.coords, nil
	case <-timer.C:
		return domain.Coordinates{}, &domain.LocationError{Err: errors.New("timed out waiting for device position")}
	case <-ctx.Done():
		return domain.Coordinates{}, &domain.LocationError{Err: ctx.Err()}
	}
}

// Settled reports whether a position or failure has been delivered.
func (d *Deferred) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}
