// Package elevation samples terrain and geoid heights from NetCDF grids
// such as GEBCO and EGM2008.
package elevation

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/adapter/interp"
)

// ErrNoData is returned when the grid has no value at a location.
var ErrNoData = errors.New("no grid data at location")

// defaultMargin is the half-width in degrees of the window read around a
// requested location.
const defaultMargin = 2.0

// gridSource lazily loads a window of a NetCDF grid and reloads it when a
// request falls outside the cached window.
type gridSource struct {
	path   string
	names  variableNames
	margin float64

	mu   sync.Mutex
	grid *interp.Grid2D
	wrap bool
}

func (g *gridSource) sample(lat, lon float64) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.grid == nil || !g.grid.Contains(g.axisLon(lon), lat) {
		grid, err := loadGridSubset(g.path, g.names, lat, lon, g.margin)
		if err != nil {
			return 0, fmt.Errorf("failed to load %s: %w", g.path, err)
		}
		g.grid = grid
		g.wrap = lonAxisRequiresWrap(grid.X)
		log.Debug().
			Str("path", g.path).
			Float64("lat", lat).
			Float64("lon", lon).
			Int("rows", len(grid.Y)).
			Int("cols", len(grid.X)).
			Msg("loaded grid window")
	}

	x := g.axisLon(lon)
	if !g.grid.Contains(x, lat) {
		return 0, ErrNoData
	}
	v, err := g.grid.InterpolateAt(x, lat)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, ErrNoData
	}
	return v, nil
}

func (g *gridSource) axisLon(lon float64) float64 {
	if g.wrap {
		return normalizeLon360(lon)
	}
	return lon
}

// LocalStore reads terrain elevation from a local NetCDF file. The file can
// sit on local disk or on a GCS FUSE mount.
type LocalStore struct {
	src gridSource
}

// NewLocalStore creates a terrain store for a GEBCO-style file with an
// "elevation" variable in meters.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{src: gridSource{path: path, names: terrainVars, margin: defaultMargin}}
}

// Elevation returns the terrain height at lat/lon in meters above sea
// level. Values below sea level are returned as they are.
func (s *LocalStore) Elevation(lat, lon float64) (float64, error) {
	return s.src.sample(lat, lon)
}

// Close releases resources (no-op for local store).
func (s *LocalStore) Close() error {
	return nil
}

// GeoidStore reads geoid undulation N from an EGM2008-style NetCDF file.
type GeoidStore struct {
	src gridSource
}

// NewGeoidStore creates a geoid store.
func NewGeoidStore(path string) *GeoidStore {
	return &GeoidStore{src: gridSource{path: path, names: geoidVars, margin: defaultMargin}}
}

// GeoidHeight returns the separation N between the WGS84 ellipsoid and the
// geoid. An ellipsoidal height h converts to orthometric height as
//
//	H = h - N
func (s *GeoidStore) GeoidHeight(lat, lon float64) (float64, error) {
	return s.src.sample(lat, lon)
}
