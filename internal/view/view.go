package view

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Recorder receives an event for every completed lookup, including discarded ones.
type Recorder interface {
	Record(ev domain.LookupEvent)
}

// Options configure a View.
type Options struct {
	Session     string
	DefaultCity string
	MountDelay  time.Duration
	Clock       clockwork.Clock
	Recorder    Recorder // optional
	Metrics     *observability.Metrics
	Logger      *slog.Logger
}

// View owns the UI state of one page and drives the forecast provider.
//
// Every lookup gets a sequence number; only the completion of the latest
// issued lookup is applied; earlier ones are discarded when they land.
type View struct {
	provider domain.ForecastProvider
	opts     Options
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
	mounting atomic.Bool

	mu      sync.Mutex
	state   State
	seq     uint64
	closed  bool
	subs    map[int]chan State
	nextSub int
}

// New creates a view in its default state.
func New(provider domain.ForecastProvider, opts Options) *View {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	if strings.TrimSpace(opts.DefaultCity) == "" {
		opts.DefaultCity = "London"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		provider: provider,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		state:    DefaultState(),
		subs:     make(map[int]chan State),
	}
}

// Snapshot returns the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe returns a channel that receives the latest state after each
// transition. Slow readers only see the most recent snapshot.
func (v *View) Subscribe() (<-chan State, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan State, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if c, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(c)
		}
	}
}

// Wait blocks until the pending mount and all issued lookups have settled.
// Lookups started from another goroutine while Wait is blocked may or may not
// be waited for, so callers stop issuing operations first; only one-shot
// runs and tests use it.
func (v *View) Wait() {
	v.inflight.Wait()
}

// Close unloads the view: a pending mount is abandoned, subscribers are
// released and later completions are ignored.
func (v *View) Close() {
	v.cancel()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for id, ch := range v.subs {
		close(ch)
		delete(v.subs, id)
	}
}

// Mount runs the initial lookup: after the mount delay it asks locator for
// the device position and falls back to the default city without showing
// an error.
func (v *View) Mount(locator domain.Locator) {
	v.mounting.Store(true)
	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		defer v.mounting.Store(false)

		select {
		case <-v.opts.Clock.After(v.opts.MountDelay):
		case <-v.ctx.Done():
			return
		}

		coords, err := locator.Locate(v.ctx)
		if v.ctx.Err() != nil {
			return
		}
		if err != nil {
			v.opts.Logger.Warn("geolocation unavailable on mount, using default city",
				"session", v.opts.Session, "default_city", v.opts.DefaultCity, "error", err)
			v.opts.Metrics.LocationErrors.WithLabelValues(string(domain.TriggerMount)).Inc()
			v.issue(domain.TriggerMount, nil, func(s State) domain.LookupQuery {
				return domain.TextQuery(v.opts.DefaultCity, s.Language)
			})
			return
		}
		v.issue(domain.TriggerMount, nil, func(s State) domain.LookupQuery {
			return domain.CoordinateQuery(coords, s.Language)
		})
	}()
}

// MountPending reports whether Mount is still waiting for its delay or for
// the device position.
func (v *View) MountPending() bool {
	return v.mounting.Load()
}

// SetQuery replaces the search text.
func (v *View) SetQuery(text string) {
	v.update(func(s *State) { s.Query = text })
}

// Search looks up the current query text. A blank query sets the input
// error and issues nothing.
func (v *View) Search() error {
	v.mu.Lock()
	blank := strings.TrimSpace(v.state.Query) == ""
	v.mu.Unlock()

	if blank {
		v.opts.Metrics.InputErrors.Inc()
		v.update(func(s *State) { s.Err = domain.MsgEnterCity })
		return &domain.InputError{Message: domain.MsgEnterCity}
	}
	v.issue(domain.TriggerSearch, nil, func(s State) domain.LookupQuery {
		return domain.TextQuery(s.Query, s.Language)
	})
	return nil
}

// UseMyLocation asks locator for the device position. On success the query
// text is cleared and the position is looked up; on failure the location
// error is shown and the default city is looked up instead.
func (v *View) UseMyLocation(locator domain.Locator) {
	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()

		coords, err := locator.Locate(v.ctx)
		if err != nil {
			v.opts.Logger.Warn("geolocation failed",
				"session", v.opts.Session, "default_city", v.opts.DefaultCity, "error", err)
			v.opts.Metrics.LocationErrors.WithLabelValues(string(domain.TriggerLocate)).Inc()
			v.issue(domain.TriggerLocate,
				func(s *State) { s.Err = domain.MsgLocationFailed },
				func(s State) domain.LookupQuery { return domain.TextQuery(v.opts.DefaultCity, s.Language) },
			)
			return
		}
		v.issue(domain.TriggerLocate,
			func(s *State) { s.Query = "" },
			func(s State) domain.LookupQuery { return domain.CoordinateQuery(coords, s.Language) },
		)
	}()
}

// SetLanguage switches the display language. If a document is held it is
// looked up again by location name in the new language.
func (v *View) SetLanguage(lang domain.Language) error {
	if !lang.Supported() {
		return fmt.Errorf("unsupported language %q", lang)
	}

	v.mu.Lock()
	current, doc := v.state.Language, v.state.Document
	v.mu.Unlock()

	switch {
	case lang == current:
		return nil
	case doc == nil:
		v.update(func(s *State) { s.Language = lang })
		return nil
	}
	v.issue(domain.TriggerLanguage,
		func(s *State) { s.Language = lang },
		func(s State) domain.LookupQuery { return domain.TextQuery(doc.Location.Name, s.Language) },
	)
	return nil
}

// SetUnit changes the display unit. It never issues a lookup.
func (v *View) SetUnit(u domain.Unit) {
	v.update(func(s *State) { s.Unit = u })
}

// ToggleUnit flips between Celsius and Fahrenheit.
func (v *View) ToggleUnit() {
	v.update(func(s *State) { s.Unit = s.Unit.Toggle() })
}

// ToggleTheme flips between light and dark.
func (v *View) ToggleTheme() {
	v.update(func(s *State) { s.Theme = s.Theme.Toggle() })
}

// update applies fn to a copy of the state and publishes it.
func (v *View) update(fn func(*State)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	next := v.state
	fn(&next)
	v.commit(next)
}

// commit replaces the state and notifies subscribers. Callers hold mu.
func (v *View) commit(next State) {
	next.Version = v.state.Version + 1
	v.state = next
	for _, ch := range v.subs {
		select {
		case ch <- next:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- next
		}
	}
}

// issue applies mutate, builds the query from the resulting state, and starts
// the lookup in the background.
func (v *View) issue(trigger domain.Trigger, mutate func(*State), build func(State) domain.LookupQuery) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	next := v.state
	if mutate != nil {
		mutate(&next)
	}
	q := build(next)
	v.seq++
	seq := v.seq
	next.Seq = seq
	next.Status = StatusLoading
	next.Loading = true
	v.commit(next)
	v.inflight.Add(1)
	v.mu.Unlock()

	v.opts.Logger.Debug("lookup issued", "session", v.opts.Session, "seq", seq, "trigger", trigger, "query", q.String(), "lang", q.Language)

	start := v.opts.Clock.Now()
	go func() {
		defer v.inflight.Done()
		// Superseded lookups are not cancelled; they run to completion and are discarded.
		doc, err := v.provider.FetchForecast(context.WithoutCancel(v.ctx), q)
		v.complete(seq, trigger, q, start, doc, err)
	}()
}

func (v *View) complete(seq uint64, trigger domain.Trigger, q domain.LookupQuery, start time.Time, doc domain.ForecastDocument, err error) {
	took := v.opts.Clock.Since(start)
	v.opts.Metrics.LookupDuration.Observe(took.Seconds())

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if seq != v.seq {
		latest := v.seq
		v.mu.Unlock()
		v.opts.Logger.Debug("discarding superseded lookup", "session", v.opts.Session, "seq", seq, "latest", latest)
		v.opts.Metrics.StaleCompletions.Inc()
		v.opts.Metrics.Lookups.WithLabelValues(string(trigger), string(domain.OutcomeStale)).Inc()
		v.record(domain.NewLookupEvent(v.opts.Session, seq, trigger, q, domain.OutcomeStale, took))
		return
	}

	next := v.state
	next.Loading = false
	if err != nil {
		next.Status = StatusFailed
		next.Document = nil
		next.Err = domain.Reason(err)
	} else {
		next.Status = StatusReady
		next.Document = &doc
		next.Err = ""
	}
	v.commit(next)
	v.mu.Unlock()

	ev := domain.NewLookupEvent(v.opts.Session, seq, trigger, q, domain.OutcomeSuccess, took)
	if err != nil {
		ev.Outcome = domain.OutcomeFailure
		ev.Reason = domain.Reason(err)
		v.opts.Logger.Warn("lookup failed", "session", v.opts.Session, "seq", seq, "query", q.String(), "error", err)
	} else {
		ev.Location = doc.Location.Name
		ev.Country = doc.Location.Country
		v.opts.Logger.Info("lookup completed", "session", v.opts.Session, "seq", seq, "trigger", trigger, "location", doc.Location.Name)
	}
	v.opts.Metrics.Lookups.WithLabelValues(string(trigger), string(ev.Outcome)).Inc()
	v.record(ev)
}

func (v *View) record(ev domain.LookupEvent) {
	if v.opts.Recorder != nil {
		v.opts.Recorder.Record(ev)
	}
}
