package view

import (
	"strings"
	"testing"

	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/locationmap"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parisDocument() *domain.ForecastDocument {
	pm := 7.5
	return &domain.ForecastDocument{
		Location: domain.Place{Name: "Paris", Region: "Ile-de-France", Country: "France", LocalTime: "2025-07-15 13:00", Lat: 48.867, Lon: 2.333},
		Current: domain.Current{
			Condition: "Partly cloudy",
			Temp:      domain.Temperature{C: 24.2, F: 75.6},
			FeelsLike: domain.Temperature{C: 25.1, F: 77.2},
			Humidity:  53,
			WindKph:   13,
			PM25:      &pm,
		},
		ForecastDays: []domain.ForecastDay{
			{Date: "2025-07-15", Condition: "Sunny", Max: domain.Temperature{C: 27.3, F: 81.1}, Min: domain.Temperature{C: 16, F: 60.8}, Sunrise: "06:03 AM", Sunset: "09:53 PM"},
			{Date: "2025-07-16", Condition: "Patchy rain nearby", Max: domain.Temperature{C: 22.1, F: 71.8}, Min: domain.Temperature{C: 15.2, F: 59.4}, Sunrise: "06:04 AM", Sunset: "09:52 PM"},
			{Date: "2025-07-17", Condition: "Overcast", Max: domain.Temperature{C: 20, F: 68}, Min: domain.Temperature{C: 14, F: 57.2}, Sunrise: "06:05 AM", Sunset: "09:51 PM"},
		},
		Alerts: []domain.Alert{{Headline: "Orange thunderstorm warning", Description: "Severe thunderstorms expected in the evening."}},
	}
}

func readyState(doc *domain.ForecastDocument) State {
	s := DefaultState()
	s.Status = StatusReady
	s.Document = doc
	return s
}

func TestPresent_Default(t *testing.T) {
	p := Present(DefaultState(), locationmap.DefaultOptions)

	assert.Nil(t, p.Weather)
	assert.Equal(t, "idle", p.Status)
	assert.Equal(t, "bg-default-light", p.Background)
	assert.Equal(t, "°C → °F", p.UnitToggleLabel)
	assert.False(t, p.Dark)
	require.Len(t, p.Languages, len(domain.Languages))
	for _, l := range p.Languages {
		assert.Equal(t, l.Code == "en", l.Selected, l.Code)
	}
}

func TestPresent_Paris(t *testing.T) {
	p := Present(readyState(parisDocument()), locationmap.DefaultOptions)
	require.NotNil(t, p.Weather)
	w := p.Weather

	assert.Equal(t, "Paris, France", w.Heading)
	assert.Equal(t, "2025-07-15 13:00", w.LocalTime)
	assert.Equal(t, "24.2°C", w.Temp)
	assert.Equal(t, "25.1°C", w.FeelsLike)
	assert.Equal(t, "53%", w.Humidity)
	assert.Equal(t, "13 kph", w.Wind)
	assert.Equal(t, "7.50", w.AQI)
	assert.Equal(t, "06:03 AM", w.Sunrise)
	assert.Equal(t, "09:53 PM", w.Sunset)
	assert.Equal(t, "cloud", w.Icon)
	assert.Equal(t, "bg-cloud-light", p.Background)
	require.Len(t, w.Alerts, 1)

	want := []Day{
		{Date: "2025-07-15", Icon: "sun", Condition: "Sunny", Max: "27.3°C", Min: "16°C", Sunrise: "06:03 AM", Sunset: "09:53 PM"},
		{Date: "2025-07-16", Icon: "cloud-rain", Condition: "Patchy rain nearby", Max: "22.1°C", Min: "15.2°C", Sunrise: "06:04 AM", Sunset: "09:52 PM"},
		{Date: "2025-07-17", Icon: "thermometer", Condition: "Overcast", Max: "20°C", Min: "14°C", Sunrise: "06:05 AM", Sunset: "09:51 PM"},
	}
	if diff := cmp.Diff(want, w.Days); diff != "" {
		t.Errorf("days mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, w.Map)
	assert.Equal(t, "📍 Paris", w.Map.Label)
	assert.Equal(t, 11, w.Map.Zoom)
	assert.InDelta(t, 48.867, w.Map.Lat, 1e-9)
}

func TestPresent_Fahrenheit(t *testing.T) {
	s := readyState(parisDocument())
	s.Unit = domain.Fahrenheit
	p := Present(s, locationmap.DefaultOptions)

	assert.Equal(t, "75.6°F", p.Weather.Temp)
	assert.Equal(t, "77.2°F", p.Weather.FeelsLike)
	assert.Equal(t, "68°F", p.Weather.Days[2].Max)
	assert.Equal(t, "°F → °C", p.UnitToggleLabel)
}

func TestPresent_MissingAQI(t *testing.T) {
	doc := parisDocument()
	doc.Current.PM25 = nil
	p := Present(readyState(doc), locationmap.DefaultOptions)
	assert.Equal(t, "N/A", p.Weather.AQI)
}

func TestPresent_DarkThemeBackground(t *testing.T) {
	s := readyState(parisDocument())
	s.Theme = domain.Dark
	p := Present(s, locationmap.DefaultOptions)
	assert.True(t, p.Dark)
	assert.Equal(t, "bg-cloud-dark", p.Background)
}

func TestPresent_ZeroCoordinatesStillShowMap(t *testing.T) {
	doc := parisDocument()
	doc.Location.Lat, doc.Location.Lon = 0, 0
	p := Present(readyState(doc), locationmap.DefaultOptions)
	assert.NotNil(t, p.Weather.Map)
}

func TestPresent_InvalidCoordinatesHideMap(t *testing.T) {
	doc := parisDocument()
	doc.Location.Lat = 120
	p := Present(readyState(doc), locationmap.DefaultOptions)
	assert.Nil(t, p.Weather.Map)
}

func TestPresent_Failed(t *testing.T) {
	s := DefaultState()
	s.Status = StatusFailed
	s.Err = domain.MsgCityNotFound
	p := Present(s, locationmap.DefaultOptions)

	assert.Nil(t, p.Weather)
	assert.Equal(t, "failed", p.Status)
	assert.Equal(t, "City not found", p.Error)
}

func TestFormatTemp(t *testing.T) {
	tests := []struct {
		temp domain.Temperature
		unit domain.Unit
		want string
	}{
		{domain.Temperature{C: 16, F: 60.8}, domain.Celsius, "16°C"},
		{domain.Temperature{C: 16, F: 60.8}, domain.Fahrenheit, "60.8°F"},
		{domain.Temperature{C: -3.5, F: 25.7}, domain.Celsius, "-3.5°C"},
		{domain.Temperature{}, domain.Celsius, "0°C"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatTemp(tt.temp, tt.unit)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasSuffix(got, string(tt.unit)))
		})
	}
}
