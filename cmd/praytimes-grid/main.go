// Command praytimes-grid writes the prayer times of one date over a
// latitude/longitude grid to a NetCDF file, one variable per event.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/adapter/store/elevation"
	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/logging"
	"go.ngs.io/praytimes/internal/usecase"
)

// RegionalGrid defines the geographic bounds and resolution.
type RegionalGrid struct {
	LatMin     float64
	LatMax     float64
	LonMin     float64
	LonMax     float64
	Resolution float64 // degrees
}

// Size returns the number of latitude and longitude points.
func (g RegionalGrid) Size() (nLat, nLon int) {
	return int(math.Round((g.LatMax-g.LatMin)/g.Resolution)) + 1,
		int(math.Round((g.LonMax-g.LonMin)/g.Resolution)) + 1
}

// Validate checks the bounds.
func (g RegionalGrid) Validate() error {
	switch {
	case g.Resolution <= 0:
		return errors.New("resolution must be positive")
	case g.LatMin > g.LatMax || g.LonMin > g.LonMax:
		return errors.New("minimum bounds exceed maximum bounds")
	case g.LatMin < -90 || g.LatMax > 90:
		return errors.New("latitude bounds must be within [-90, 90]")
	case g.LonMin < -180 || g.LonMax > 180:
		return errors.New("longitude bounds must be within [-180, 180]")
	}
	return nil
}

// TimesGrid holds one value per event and grid point, in UTC hours after
// the date's midnight. Absent events are NaN.
type TimesGrid struct {
	Lat    []float64
	Lon    []float64
	Values map[domain.Prayer][]float64
}

func main() {
	method := flag.String("method", domain.MethodMWL, "Calculation method")
	dateStr := flag.String("date", "", "Date as YYYY-MM-DD (default: today UTC)")
	outPath := flag.String("out", "./praytimes.nc", "Output NetCDF file")
	region := flag.String("region", "global", "Region: global, mena or custom")
	latMin := flag.Float64("lat-min", -60.0, "Minimum latitude (custom region)")
	latMax := flag.Float64("lat-max", 60.0, "Maximum latitude (custom region)")
	lonMin := flag.Float64("lon-min", -180.0, "Minimum longitude (custom region)")
	lonMax := flag.Float64("lon-max", 180.0, "Maximum longitude (custom region)")
	resolution := flag.Float64("resolution", 1.0, "Grid resolution in degrees")
	elevationPath := flag.String("elevation", "", "GEBCO NetCDF file for terrain elevation (default: sea level)")
	flag.Parse()

	if err := logging.Setup(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "console")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var grid RegionalGrid
	switch *region {
	case "global":
		grid = RegionalGrid{LatMin: -90, LatMax: 90, LonMin: -180, LonMax: 180, Resolution: *resolution}
	case "mena":
		grid = RegionalGrid{LatMin: 10, LatMax: 42, LonMin: -18, LonMax: 63, Resolution: *resolution}
	case "custom":
		grid = RegionalGrid{LatMin: *latMin, LatMax: *latMax, LonMin: *lonMin, LonMax: *lonMax, Resolution: *resolution}
	default:
		log.Fatal().Str("region", *region).Msg("unknown region (use global, mena or custom)")
	}
	if err := grid.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid grid")
	}

	params, err := usecase.MethodSpec(*method).Resolve()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid method")
	}

	date := domain.DateOf(nowUTC())
	if *dateStr != "" {
		if date, err = domain.ParseDate(*dateStr); err != nil {
			log.Fatal().Err(err).Msg("invalid date")
		}
	}

	var elev usecase.ElevationStore
	if *elevationPath != "" {
		store := elevation.NewLocalStore(*elevationPath)
		defer store.Close()
		elev = store
	}

	nLat, nLon := grid.Size()
	log.Info().
		Str("method", *method).
		Str("date", date.String()).
		Int("lat_points", nLat).
		Int("lon_points", nLon).
		Msg("computing prayer times grid")

	calc := domain.NewCalculator(params, domain.TuneOffsets{})
	times := ComputeGrid(calc, grid, date, elev)

	if err := WriteNetCDF(*outPath, times, *method, date); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("failed to write NetCDF")
	}

	sizeMB := float64(nLat*nLon*8*len(domain.Prayers)) / 1024 / 1024
	log.Info().Str("path", *outPath).Float64("size_mb", sizeMB).Msg("grid written")
}

// ComputeGrid evaluates calc at every grid point. A nil elevation store
// puts every point at sea level; terrain below sea level counts as zero.
func ComputeGrid(calc *domain.Calculator, grid RegionalGrid, date domain.CalendarDate, elev usecase.ElevationStore) TimesGrid {
	nLat, nLon := grid.Size()

	out := TimesGrid{
		Lat:    make([]float64, nLat),
		Lon:    make([]float64, nLon),
		Values: make(map[domain.Prayer][]float64, len(domain.Prayers)),
	}
	for i := range out.Lat {
		out.Lat[i] = grid.LatMin + float64(i)*grid.Resolution
	}
	for j := range out.Lon {
		out.Lon[j] = grid.LonMin + float64(j)*grid.Resolution
	}
	for _, p := range domain.Prayers {
		out.Values[p] = make([]float64, nLat*nLon)
	}

	midnight := date.Midnight()
	for i, lat := range out.Lat {
		for j, lon := range out.Lon {
			loc := domain.Location{Latitude: lat, Longitude: lon}
			if elev != nil {
				if h, err := elev.Elevation(lat, lon); err == nil && h > 0 {
					loc.Elevation = h
				}
			}

			times := calc.Calculate(loc, date)
			idx := i*nLon + j
			for _, p := range domain.Prayers {
				v := math.NaN()
				if t := times.Get(p); t != nil {
					v = t.Sub(midnight).Hours()
				}
				out.Values[p][idx] = v
			}
		}
	}
	return out
}

// WriteNetCDF writes the grid with lat/lon coordinate variables and one
// DOUBLE variable per event.
func WriteNetCDF(path string, g TimesGrid, method string, date domain.CalendarDate) error {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer ds.Close()

	latDim, err := ds.AddDim("lat", uint64(len(g.Lat)))
	if err != nil {
		return err
	}
	lonDim, err := ds.AddDim("lon", uint64(len(g.Lon)))
	if err != nil {
		return err
	}

	latVar, err := ds.AddVar("lat", netcdf.DOUBLE, []netcdf.Dim{latDim})
	if err != nil {
		return err
	}
	if err := latVar.Attr("units").WriteBytes([]byte("degrees_north")); err != nil {
		return err
	}
	lonVar, err := ds.AddVar("lon", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	if err != nil {
		return err
	}
	if err := lonVar.Attr("units").WriteBytes([]byte("degrees_east")); err != nil {
		return err
	}

	vars := make(map[domain.Prayer]netcdf.Var, len(domain.Prayers))
	for _, p := range domain.Prayers {
		v, err := ds.AddVar(p.String(), netcdf.DOUBLE, []netcdf.Dim{latDim, lonDim})
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if err := v.Attr("units").WriteBytes([]byte("hours since " + date.String() + " 00:00:00 UTC")); err != nil {
			return err
		}
		if err := v.Attr("_FillValue").WriteFloat64s([]float64{math.NaN()}); err != nil {
			return err
		}
		vars[p] = v
	}

	if err := ds.Attr("method").WriteBytes([]byte(method)); err != nil {
		return err
	}
	if err := ds.Attr("date").WriteBytes([]byte(date.String())); err != nil {
		return err
	}

	if err := ds.EndDef(); err != nil {
		return err
	}
	if err := latVar.WriteFloat64s(g.Lat); err != nil {
		return err
	}
	if err := lonVar.WriteFloat64s(g.Lon); err != nil {
		return err
	}
	for _, p := range domain.Prayers {
		if err := vars[p].WriteFloat64s(g.Values[p]); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

var nowUTC = func() time.Time { return time.Now().UTC() }

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
