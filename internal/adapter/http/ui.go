package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/weather-view-service/internal/adapter/geo"
	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/locationmap"
	"github.com/couchcryptid/weather-view-service/internal/view"
	"github.com/gorilla/websocket"
)

// SessionCookie carries the session id.
const SessionCookie = "weather_session"

const wsWriteWait = 10 * time.Second

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html.tmpl").
	Funcs(template.FuncMap{"glyph": glyph}).
	ParseFS(templateFS, "templates/index.html.tmpl"))

var glyphs = map[string]string{
	domain.IconCloudRain:   "🌧️",
	domain.IconSnowflake:   "❄️",
	domain.IconCloud:       "☁️",
	domain.IconSun:         "☀️",
	domain.IconThermometer: "🌡️",
}

func glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return glyphs[domain.IconThermometer]
}

// indexData is the template input.
type indexData struct {
	view.Page
	// Mounting asks the page to report the device position while the view
	// still waits for it.
	Mounting bool
}

// UI serves the weather page and its form actions for browser sessions.
type UI struct {
	sessions *Sessions
	mapOpts  locationmap.Options
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewUI creates the page handlers.
func NewUI(sessions *Sessions, mapOpts locationmap.Options, logger *slog.Logger) *UI {
	return &UI{
		sessions: sessions,
		mapOpts:  mapOpts,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (u *UI) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", u.handleIndex)
	mux.HandleFunc("POST /search", u.handleSearch)
	mux.HandleFunc("POST /locate", u.handleLocate)
	mux.HandleFunc("POST /geolocation", u.handleGeolocation)
	mux.HandleFunc("POST /language", u.handleLanguage)
	mux.HandleFunc("POST /unit", u.handleUnit)
	mux.HandleFunc("POST /theme", u.handleTheme)
	mux.HandleFunc("GET /api/state", u.handleState)
	mux.HandleFunc("GET /ws", u.handleWS)
}

// session returns the caller's session, starting a new one if the cookie is
// missing or names an evicted session.
func (u *UI) session(w http.ResponseWriter, r *http.Request) *Session {
	if sess, ok := u.existingSession(r); ok {
		return sess
	}
	sess := u.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (u *UI) existingSession(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return u.sessions.Get(c.Value)
}

func (u *UI) present(sess *Session) view.Page {
	return view.Present(sess.View.Snapshot(), u.mapOpts)
}

func (u *UI) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)

	var buf bytes.Buffer
	data := indexData{Page: u.present(sess), Mounting: sess.View.MountPending() && !sess.Geo.Settled()}
	if err := indexTemplate.Execute(&buf, data); err != nil {
		u.logger.Error("render page failed", "session", sess.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w) //nolint:errcheck // client went away
}

func (u *UI) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)
	sess.View.SetQuery(r.FormValue("q"))
	if err := sess.View.Search(); err != nil {
		u.logger.Debug("search rejected", "session", sess.ID, "error", err)
	}
	seeOther(w, r)
}

func (u *UI) handleLocate(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)
	sess.View.UseMyLocation(reportedLocator(r))
	seeOther(w, r)
}

func (u *UI) handleGeolocation(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)
	switch loc := reportedLocator(r).(type) {
	case geo.Fixed:
		sess.Geo.Report(domain.Coordinates(loc))
	case geo.Failed:
		sess.Geo.Deny(loc.Err)
	}
	seeOther(w, r)
}

func (u *UI) handleLanguage(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)
	if err := sess.View.SetLanguage(domain.Language(r.FormValue("lang"))); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seeOther(w, r)
}

func (u *UI) handleUnit(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)
	raw := r.FormValue("unit")
	if raw == "" {
		sess.View.ToggleUnit()
		seeOther(w, r)
		return
	}
	unit, err := domain.ParseUnit(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.View.SetUnit(unit)
	seeOther(w, r)
}

func (u *UI) handleTheme(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)
	sess.View.ToggleTheme()
	seeOther(w, r)
}

func (u *UI) handleState(w http.ResponseWriter, r *http.Request) {
	sess := u.session(w, r)
	sharedobs.WriteJSON(w, http.StatusOK, u.present(sess))
}

// handleWS sends the caller's current page, then pushes it again after every
// state change of the session.
func (u *UI) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := u.existingSession(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	// Subscribe before the handshake completes so no transition is missed.
	updates, unsubscribe := sess.View.Subscribe()
	defer unsubscribe()

	conn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		u.logger.Warn("websocket upgrade failed", "session", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	// A lookup may have finished between rendering the page and this
	// handshake; the first message lets the client catch up.
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck // surfaced by WriteJSON
	if err := conn.WriteJSON(u.present(sess)); err != nil {
		u.logger.Debug("websocket write failed", "session", sess.ID, "error", err)
		return
	}

	// The client never sends anything useful; reading only detects disconnects.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					u.logger.Debug("websocket read error", "session", sess.ID, "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case s, ok := <-updates:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
				conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait)) //nolint:errcheck // closing anyway
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck // surfaced by WriteJSON
			if err := conn.WriteJSON(view.Present(s, u.mapOpts)); err != nil {
				u.logger.Debug("websocket write failed", "session", sess.ID, "error", err)
				return
			}
		}
	}
}

// reportedLocator turns a browser geolocation report into a Locator. A
// non-empty error field or unparsable coordinates count as a failure.
func reportedLocator(r *http.Request) domain.Locator {
	if msg := r.FormValue("error"); msg != "" {
		return geo.Failed{Err: errors.New(msg)}
	}
	lat, err := strconv.ParseFloat(r.FormValue("lat"), 64)
	if err != nil {
		return geo.Failed{Err: errors.New("missing latitude")}
	}
	lon, err := strconv.ParseFloat(r.FormValue("lon"), 64)
	if err != nil {
		return geo.Failed{Err: errors.New("missing longitude")}
	}
	return geo.Fixed{Lat: lat, Lon: lon}
}

func seeOther(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
