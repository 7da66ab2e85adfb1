package main

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/locationmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	got []domain.LookupQuery
	err error
}

func (s *stubProvider) FetchForecast(_ context.Context, q domain.LookupQuery) (domain.ForecastDocument, error) {
	s.got = append(s.got, q)
	if s.err != nil {
		return domain.ForecastDocument{}, s.err
	}
	days := make([]domain.ForecastDay, domain.ForecastDays)
	for i := range days {
		days[i] = domain.ForecastDay{Date: "2025-07-15", Condition: "Sunny", Max: domain.Temperature{C: 20, F: 68}}
	}
	return domain.ForecastDocument{
		Location:     domain.Place{Name: "Paris", Country: "France", Lat: 48.86, Lon: 2.35},
		Current:      domain.Current{Condition: "Clear", Temp: domain.Temperature{C: 18, F: 64.4}},
		ForecastDays: days,
		Alerts:       []domain.Alert{{Headline: "Heat advisory"}},
	}, nil
}

func TestRun_TextQuery(t *testing.T) {
	p := &stubProvider{}
	var out, errOut bytes.Buffer

	code := run(context.Background(), p, options{query: "Paris", lang: "fr", unit: "F"}, locationmap.DefaultOptions, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	require.Len(t, p.got, 1)
	assert.Equal(t, "Paris", p.got[0].Text)
	assert.Equal(t, domain.Language("fr"), p.got[0].Language)
	assert.Contains(t, out.String(), "Paris, France")
	assert.Contains(t, out.String(), "64.4°F")
	assert.Contains(t, out.String(), "! Heat advisory")
	assert.Contains(t, out.String(), "tile.openstreetmap.org/11/")
}

func TestRun_Coordinates(t *testing.T) {
	p := &stubProvider{}
	var out, errOut bytes.Buffer

	code := run(context.Background(), p, options{lat: "48.8566", lon: "2.3522", lang: "en", unit: "C"}, locationmap.DefaultOptions, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	require.Len(t, p.got, 1)
	require.NotNil(t, p.got[0].Coords)
	assert.Equal(t, domain.Coordinates{Lat: 48.8566, Lon: 2.3522}, *p.got[0].Coords)
}

func TestRun_LowZoomMapTile(t *testing.T) {
	tests := []struct {
		zoom int
		want string
	}{
		{zoom: 0, want: "Map: https://tile.openstreetmap.org/0/0/0.png"},
		{zoom: 1, want: "Map: https://tile.openstreetmap.org/1/1/0.png"},
		{zoom: 2, want: "Map: https://tile.openstreetmap.org/2/2/1.png"},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.zoom), func(t *testing.T) {
			var out, errOut bytes.Buffer
			mapOpts := locationmap.Options{Zoom: tt.zoom}

			code := run(context.Background(), &stubProvider{}, options{query: "Paris", lang: "en", unit: "C"}, mapOpts, &out, &errOut)

			require.Equal(t, 0, code, errOut.String())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts options
		err  error
		code int
		want string
	}{
		{"empty query", options{lang: "en", unit: "C"}, nil, 2, "Enter a city name"},
		{"bad unit", options{query: "Paris", lang: "en", unit: "K"}, nil, 2, "unknown unit"},
		{"bad language", options{query: "Paris", lang: "de", unit: "C"}, nil, 2, "unsupported language"},
		{"bad latitude", options{lat: "north", lon: "2", lang: "en", unit: "C"}, nil, 2, "invalid -lat"},
		{"out of range", options{lat: "95", lon: "2", lang: "en", unit: "C"}, nil, 2, "out of range"},
		{"not found", options{query: "Atlantis", lang: "en", unit: "C"}, &domain.ProviderError{Reason: domain.MsgCityNotFound}, 1, "City not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code := run(context.Background(), &stubProvider{err: tt.err}, tt.opts, locationmap.DefaultOptions, &out, &errOut)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, errOut.String(), tt.want)
			assert.Empty(t, out.String())
		})
	}
}
