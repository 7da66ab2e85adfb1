package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LookupQuery identifies what to look up: either a free-text place name or a
// coordinate pair, in a target language.
type LookupQuery struct {
	Text     string
	Coords   *Coordinates
	Language Language
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both values are finite and within range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String renders the pair the way the provider expects it in q: "lat,lon".
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// TextQuery builds a free-text lookup.
func TextQuery(text string, lang Language) LookupQuery {
	return LookupQuery{Text: text, Language: lang}
}

// CoordinateQuery builds a coordinate lookup.
func CoordinateQuery(c Coordinates, lang Language) LookupQuery {
	return LookupQuery{Coords: &c, Language: lang}
}

// Validate checks the input constraints of a lookup. Empty text is an
// InputError; bad coordinates are reported as a plain validation error.
func (q LookupQuery) Validate() error {
	if q.Coords != nil {
		if !q.Coords.Valid() {
			return fmt.Errorf("invalid coordinates %v,%v", q.Coords.Lat, q.Coords.Lon)
		}
	} else if strings.TrimSpace(q.Text) == "" {
		return &InputError{Message: MsgEnterCity}
	}
	if q.Language != "" && !q.Language.Supported() {
		return fmt.Errorf("unsupported language %q", q.Language)
	}
	return nil
}

// Q returns the provider's location parameter.
func (q LookupQuery) Q() string {
	if q.Coords != nil {
		return q.Coords.String()
	}
	return strings.TrimSpace(q.Text)
}

// String is used in logs and lookup events.
func (q LookupQuery) String() string {
	return q.Q()
}
