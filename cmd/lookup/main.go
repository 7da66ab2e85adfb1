// Command lookup fetches one forecast and prints the rendered summary.
//
// Usage:
//
//	WEATHER_API_KEY=... go run ./cmd/lookup -q Paris -lang fr -unit F
//	WEATHER_API_KEY=... go run ./cmd/lookup -lat 48.8566 -lon 2.3522
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-view-service/internal/adapter/geo"
	"github.com/couchcryptid/weather-view-service/internal/adapter/weatherapi"
	"github.com/couchcryptid/weather-view-service/internal/config"
	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/locationmap"
	"github.com/couchcryptid/weather-view-service/internal/observability"
	"github.com/couchcryptid/weather-view-service/internal/view"
)

type options struct {
	query string
	lat   string
	lon   string
	lang  string
	unit  string
}

func main() {
	var opts options
	flag.StringVar(&opts.query, "q", "", "city name to look up")
	flag.StringVar(&opts.lat, "lat", "", "latitude (with -lon, instead of -q)")
	flag.StringVar(&opts.lon, "lon", "", "longitude (with -lat, instead of -q)")
	flag.StringVar(&opts.lang, "lang", string(domain.DefaultLanguage), "display language: en, hi, bn, es, ja, fr")
	flag.StringVar(&opts.unit, "unit", string(domain.Celsius), "temperature unit: C or F")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout,
		observability.NewMetricsForTesting(), logger)
	mapOpts := locationmap.Options{TileURL: cfg.MapTileURL, Zoom: cfg.MapZoom}

	os.Exit(run(context.Background(), client, opts, mapOpts, os.Stdout, os.Stderr))
}

// run performs the lookup through a view, exactly as the page would, and
// prints the result. It returns the process exit code.
func run(ctx context.Context, provider domain.ForecastProvider, opts options, mapOpts locationmap.Options, stdout, stderr io.Writer) int {
	unit, err := domain.ParseUnit(opts.unit)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	v := view.New(provider, view.Options{
		Session: "cli",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer v.Close()

	if err := v.SetLanguage(domain.Language(opts.lang)); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	v.SetUnit(unit)

	switch {
	case opts.lat != "" || opts.lon != "":
		loc, err := parseCoordinates(opts.lat, opts.lon)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		v.UseMyLocation(loc)
	default:
		v.SetQuery(opts.query)
		if err := v.Search(); err != nil {
			fmt.Fprintln(stderr, domain.Reason(err))
			return 2
		}
	}
	v.Wait()

	page := view.Present(v.Snapshot(), mapOpts)
	if page.Weather == nil {
		fmt.Fprintln(stderr, page.Error)
		return 1
	}
	printSummary(stdout, page, mapOpts.TileURL)
	return 0
}

func parseCoordinates(lat, lon string) (geo.Fixed, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Fixed{}, fmt.Errorf("invalid -lat %q", lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geo.Fixed{}, fmt.Errorf("invalid -lon %q", lon)
	}
	c := domain.Coordinates{Lat: la, Lon: lo}
	if !c.Valid() {
		return geo.Fixed{}, fmt.Errorf("coordinates out of range: %s", c)
	}
	return geo.Fixed(c), nil
}

// printSummary writes the page as text. The map is reduced to the URL of
// the tile holding the marker.
func printSummary(w io.Writer, page view.Page, tileTemplate string) {
	wx := page.Weather
	fmt.Fprintf(w, "%s (%s)\n", wx.Heading, wx.LocalTime)
	fmt.Fprintf(w, "%s, %s (feels like %s)\n", wx.Condition, wx.Temp, wx.FeelsLike)
	fmt.Fprintf(w, "Humidity %s · Wind %s · AQI %s\n", wx.Humidity, wx.Wind, wx.AQI)
	fmt.Fprintf(w, "Sunrise %s · Sunset %s\n", wx.Sunrise, wx.Sunset)
	for _, d := range wx.Days {
		fmt.Fprintf(w, "  %s  %-24s %s / %s\n", d.Date, d.Condition, d.Max, d.Min)
	}
	for _, a := range wx.Alerts {
		fmt.Fprintf(w, "! %s\n", strings.TrimSpace(a.Headline))
	}
	if m := wx.Map; m != nil {
		if tileTemplate == "" {
			tileTemplate = locationmap.DefaultOptions.TileURL
		}
		fmt.Fprintf(w, "Map: %s\n", locationmap.TileURL(tileTemplate, m.Zoom, m.TileX, m.TileY))
	}
}
