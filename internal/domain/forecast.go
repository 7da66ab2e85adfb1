package domain

import (
	"errors"
	"fmt"
)

// ForecastDays is the fixed number of days requested and required in a document.
const ForecastDays = 3

// ForecastDocument is the parsed result of a successful lookup.
type ForecastDocument struct {
	Location     Place         `json:"location"`
	Current      Current       `json:"current"`
	ForecastDays []ForecastDay `json:"forecast_days"`
	Alerts       []Alert       `json:"alerts"`
}

// Place describes where the forecast applies.
type Place struct {
	Name      string  `json:"name"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country"`
	LocalTime string  `json:"local_time"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Coordinates returns the place's position.
func (p Place) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lon: p.Lon}
}

// Temperature stores a reading in both units as reported by the provider.
type Temperature struct {
	C float64 `json:"c"`
	F float64 `json:"f"`
}

// In picks the value for the display unit.
func (t Temperature) In(u Unit) float64 {
	if u == Fahrenheit {
		return t.F
	}
	return t.C
}

// Current holds present conditions.
type Current struct {
	Condition string      `json:"condition"`
	Temp      Temperature `json:"temp"`
	FeelsLike Temperature `json:"feels_like"`
	Humidity  int         `json:"humidity"`
	WindKph   float64     `json:"wind_kph"`
	PM25      *float64    `json:"pm2_5,omitempty"` // fine-particulate air quality; nil when not reported
}

// ForecastDay is one entry of the daily forecast.
type ForecastDay struct {
	Date      string      `json:"date"`
	Condition string      `json:"condition"`
	Max       Temperature `json:"max"`
	Min       Temperature `json:"min"`
	Sunrise   string      `json:"sunrise"`
	Sunset    string      `json:"sunset"`
}

// Alert is a weather warning issued for the location.
type Alert struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Effective   string `json:"effective"`
	Expires     string `json:"expires"`
}

// Validate enforces the document invariants. A document failing validation
// must never reach the view.
func (d ForecastDocument) Validate() error {
	var errs []error
	if d.Location.Name == "" {
		errs = append(errs, errors.New("location name is empty"))
	}
	if !d.Location.Coordinates().Valid() {
		errs = append(errs, fmt.Errorf("location coordinates out of range: %s", d.Location.Coordinates()))
	}
	if len(d.ForecastDays) != ForecastDays {
		errs = append(errs, fmt.Errorf("expected %d forecast days, got %d", ForecastDays, len(d.ForecastDays)))
	}
	for i, day := range d.ForecastDays {
		if day.Date == "" {
			errs = append(errs, fmt.Errorf("forecast day %d has no date", i))
		}
	}
	return errors.Join(errs...)
}
