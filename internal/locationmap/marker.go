// Package locationmap renders a single-marker map from raster slippy-map tiles.
package locationmap

import (
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-view-service/internal/domain"
)

// TileSize is the pixel edge of a raster tile.
const TileSize = 256

// maxMercatorLat is where Web Mercator is cut off.
const maxMercatorLat = 85.05112878

// Options control tile selection.
type Options struct {
	TileURL string // template containing {z}, {x} and {y}
	Zoom    int
}

// DefaultOptions match the public OpenStreetMap tile service at city zoom.
var DefaultOptions = Options{
	TileURL: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
	Zoom:    11,
}

// Tile is one raster tile placed relative to the map's top-left corner.
type Tile struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	URL  string `json:"url"`
	Left int    `json:"left"` // px
	Top  int    `json:"top"`  // px
}

// Marker is a rendered map: a 3×3 tile grid with the marker inside the
// centre tile.
type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Label   string  `json:"label"`
	Zoom    int     `json:"zoom"`
	TileX   int     `json:"tile_x"`
	TileY   int     `json:"tile_y"`
	Tiles   []Tile  `json:"tiles"`
	PinLeft int     `json:"pin_left"` // px from the grid's left edge
	PinTop  int     `json:"pin_top"`  // px from the grid's top edge
}

// Render returns the marker for p, or nil when p is absent or not a valid
// coordinate. Zero latitude or longitude is valid.
func Render(p *domain.Coordinates, label string, opts Options) *Marker {
	if p == nil || !p.Valid() {
		return nil
	}
	if opts.TileURL == "" {
		opts.TileURL = DefaultOptions.TileURL
	}

	fx, fy := tileFraction(p.Lat, p.Lon, opts.Zoom)
	n := 1 << opts.Zoom
	tx, ty := clampTile(int(math.Floor(fx)), n), clampTile(int(math.Floor(fy)), n)

	m := &Marker{
		Lat:     p.Lat,
		Lon:     p.Lon,
		Label:   label,
		Zoom:    opts.Zoom,
		TileX:   tx,
		TileY:   ty,
		PinLeft: TileSize + int((fx-float64(tx))*TileSize),
		PinTop:  TileSize + int((fy-float64(ty))*TileSize),
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			y := ty + dy
			if y < 0 || y >= n {
				continue
			}
			x := ((tx+dx)%n + n) % n // wrap across the antimeridian
			m.Tiles = append(m.Tiles, Tile{
				X:    x,
				Y:    y,
				URL:  TileURL(opts.TileURL, opts.Zoom, x, y),
				Left: (dx + 1) * TileSize,
				Top:  (dy + 1) * TileSize,
			})
		}
	}
	return m
}

// TileURL fills a {z}/{x}/{y} template.
func TileURL(template string, z, x, y int) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(template)
}

// tileFraction projects a point to fractional tile coordinates (Web Mercator).
func tileFraction(lat, lon float64, zoom int) (float64, float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	n := float64(int(1) << zoom)
	latRad := lat * math.Pi / 180
	x := (lon + 180) / 360 * n
	y := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n
	return x, y
}

func clampTile(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
