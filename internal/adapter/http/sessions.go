package http

import (
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/weather-view-service/internal/adapter/geo"
	"github.com/couchcryptid/weather-view-service/internal/observability"
	"github.com/couchcryptid/weather-view-service/internal/view"
	"github.com/google/uuid"
)

// ViewFactory builds the view for a new session.
type ViewFactory func(sessionID string) *view.View

// Session is one browser's page state.
type Session struct {
	ID   string
	View *view.View
	// Geo receives the position the browser reports after the page loads.
	Geo *geo.Deferred
}

// Sessions is a bounded LRU of sessions. Evicted sessions have their view
// closed.
type Sessions struct {
	newView    ViewFactory
	geoTimeout time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger

	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	session *Session
	prev    *entry
	next    *entry
}

// NewSessions creates a store holding at most maxEntries sessions.
func NewSessions(maxEntries int, newView ViewFactory, geoTimeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Sessions {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Sessions{
		newView:    newView,
		geoTimeout: geoTimeout,
		metrics:    metrics,
		logger:     logger,
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// Get returns the session with id and marks it recently used.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	s.moveToFront(e)
	return e.session, true
}

// Create starts a new session and mounts its view. The view waits for the
// browser's geolocation report through the session's deferred locator.
func (s *Sessions) Create() *Session {
	sess := &Session{
		ID:  uuid.NewString(),
		Geo: geo.NewDeferred(s.geoTimeout),
	}
	sess.View = s.newView(sess.ID)

	s.mu.Lock()
	e := &entry{session: sess}
	s.entries[sess.ID] = e
	s.addToFront(e)
	var evicted *Session
	if len(s.entries) > s.maxEntries {
		evicted = s.evictTail()
	}
	s.metrics.SessionsActive.Set(float64(len(s.entries)))
	s.mu.Unlock()

	if evicted != nil {
		s.logger.Info("session evicted", "session", evicted.ID)
		evicted.View.Close()
	}
	s.logger.Debug("session created", "session", sess.ID)
	sess.View.Mount(sess.Geo)
	return sess
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close closes every session's view and empties the store.
func (s *Sessions) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.entries))
	for _, e := range s.entries {
		sessions = append(sessions, e.session)
	}
	s.entries = make(map[string]*entry)
	s.head, s.tail = nil, nil
	s.metrics.SessionsActive.Set(0)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.View.Close()
	}
}

func (s *Sessions) moveToFront(e *entry) {
	if e == s.head {
		return
	}
	s.remove(e)
	s.addToFront(e)
}

func (s *Sessions) addToFront(e *entry) {
	e.next = s.head
	e.prev = nil
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *Sessions) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
}

func (s *Sessions) evictTail() *Session {
	if s.tail == nil {
		return nil
	}
	victim := s.tail
	delete(s.entries, victim.session.ID)
	s.remove(victim)
	return victim.session
}
