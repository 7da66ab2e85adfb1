package view

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/locationmap"
)

// Page is everything a renderer needs, derived from a State.
type Page struct {
	Query           string           `json:"query"`
	Unit            domain.Unit      `json:"unit"`
	UnitToggleLabel string           `json:"unit_toggle_label"`
	Theme           domain.Theme     `json:"theme"`
	Dark            bool             `json:"dark"`
	Language        domain.Language  `json:"language"`
	Languages       []LanguageChoice `json:"languages"`
	Status          string           `json:"status"`
	Loading         bool             `json:"loading"`
	Error           string           `json:"error,omitempty"`
	Background      string           `json:"background"`
	Weather         *Weather         `json:"weather,omitempty"`
	Version         uint64           `json:"version"`
}

// LanguageChoice is one entry of the language selector.
type LanguageChoice struct {
	Code     domain.Language `json:"code"`
	Label    string          `json:"label"`
	Selected bool            `json:"selected"`
}

// Weather is the rendered forecast document.
type Weather struct {
	Heading   string              `json:"heading"`
	LocalTime string              `json:"local_time"`
	Icon      string              `json:"icon"`
	Condition string              `json:"condition"`
	Temp      string              `json:"temp"`
	FeelsLike string              `json:"feels_like"`
	Humidity  string              `json:"humidity"`
	Wind      string              `json:"wind"`
	AQI       string              `json:"aqi"`
	Sunrise   string              `json:"sunrise"`
	Sunset    string              `json:"sunset"`
	Days      []Day               `json:"days"`
	Alerts    []domain.Alert      `json:"alerts"`
	Map       *locationmap.Marker `json:"map,omitempty"`
}

// Day is one forecast card.
type Day struct {
	Date      string `json:"date"`
	Icon      string `json:"icon"`
	Condition string `json:"condition"`
	Max       string `json:"max"`
	Min       string `json:"min"`
	Sunrise   string `json:"sunrise"`
	Sunset    string `json:"sunset"`
}

// Present derives the page from s. It is pure: the same state always gives
// the same page, and nothing here touches the network.
func Present(s State, mapOpts locationmap.Options) Page {
	p := Page{
		Query:           s.Query,
		Unit:            s.Unit,
		UnitToggleLabel: unitToggleLabel(s.Unit),
		Theme:           s.Theme,
		Dark:            s.Theme == domain.Dark,
		Language:        s.Language,
		Status:          s.Status.String(),
		Loading:         s.Loading,
		Error:           s.Err,
		Version:         s.Version,
	}
	for _, opt := range domain.Languages {
		p.Languages = append(p.Languages, LanguageChoice{Code: opt.Code, Label: opt.Label, Selected: opt.Code == s.Language})
	}

	var condition string
	if s.Document != nil {
		condition = s.Document.Current.Condition
		p.Weather = presentWeather(s.Document, s.Unit, mapOpts)
	}
	p.Background = domain.BackgroundClass(condition, s.Theme)
	return p
}

func presentWeather(doc *domain.ForecastDocument, u domain.Unit, mapOpts locationmap.Options) *Weather {
	cur := doc.Current
	w := &Weather{
		Heading:   doc.Location.Name + ", " + doc.Location.Country,
		LocalTime: doc.Location.LocalTime,
		Icon:      domain.ConditionIcon(cur.Condition),
		Condition: cur.Condition,
		Temp:      FormatTemp(cur.Temp, u),
		FeelsLike: FormatTemp(cur.FeelsLike, u),
		Humidity:  strconv.Itoa(cur.Humidity) + "%",
		Wind:      formatNumber(cur.WindKph) + " kph",
		AQI:       "N/A",
		Alerts:    doc.Alerts,
	}
	if cur.PM25 != nil {
		w.AQI = fmt.Sprintf("%.2f", *cur.PM25)
	}
	if len(doc.ForecastDays) > 0 {
		w.Sunrise = doc.ForecastDays[0].Sunrise
		w.Sunset = doc.ForecastDays[0].Sunset
	}
	for _, d := range doc.ForecastDays {
		w.Days = append(w.Days, Day{
			Date:      d.Date,
			Icon:      domain.ConditionIcon(d.Condition),
			Condition: d.Condition,
			Max:       FormatTemp(d.Max, u),
			Min:       FormatTemp(d.Min, u),
			Sunrise:   d.Sunrise,
			Sunset:    d.Sunset,
		})
	}
	coords := doc.Location.Coordinates()
	w.Map = locationmap.Render(&coords, "📍 "+doc.Location.Name, mapOpts)
	return w
}

// FormatTemp renders a temperature in the display unit, e.g. "24.2°C".
func FormatTemp(t domain.Temperature, u domain.Unit) string {
	return formatNumber(t.In(u)) + "°" + string(u)
}

// formatNumber prints the shortest decimal form: 16 rather than 16.0.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func unitToggleLabel(u domain.Unit) string {
	if u == domain.Fahrenheit {
		return "°F → °C"
	}
	return "°C → °F"
}
