package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"

	"go.ngs.io/praytimes/internal/config"
	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/usecase"
)

// missingTime is printed for events that do not occur.
const missingTime = "-----"

func runCalculate(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON or YAML configuration file")
	method := fs.String("method", "", "Calculation method (without -config)")
	lat := fs.Float64("lat", math.NaN(), "Latitude in degrees (without -config)")
	lon := fs.Float64("lon", math.NaN(), "Longitude in degrees (without -config)")
	elev := fs.Float64("elevation", math.NaN(), "Elevation in meters (default: terrain or 0)")
	dateStr := fs.String("date", "", "Date as YYYY-MM-DD (default: today)")
	format := fs.String("format", "", "strftime format (default: %T)")
	zoneStr := fs.String("zone", "", "local, utc, an offset in seconds or an IANA name")
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	req, err := calculationRequest(*configPath, *method, *lat, *lon, *elev)
	if err != nil {
		return err
	}
	if *dateStr != "" {
		if req.Date, err = domain.ParseDate(*dateStr); err != nil {
			return err
		}
	}
	if *format != "" {
		req.Format = *format
	}
	if req.Format == "" {
		req.Format = usecase.ClockFormat
	}
	if *zoneStr != "" {
		if req.Zone, err = usecase.ParseZone(*zoneStr); err != nil {
			return err
		}
	}

	resp, err := newCalculationUseCase().Execute(ctx, req)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Times)
	}
	printTimes(stdout, resp.Times)
	return nil
}

// calculationRequest reads the config file, or builds a request from the
// method and coordinate flags.
func calculationRequest(configPath, method string, lat, lon, elev float64) (usecase.CalculationRequest, error) {
	if configPath != "" {
		if method != "" || !math.IsNaN(lat) || !math.IsNaN(lon) {
			return usecase.CalculationRequest{}, errors.New("-config cannot be combined with -method, -lat or -lon")
		}
		f, err := config.Load(configPath)
		if err != nil {
			return usecase.CalculationRequest{}, err
		}
		req := f.Request(domain.CalendarDate{})
		if !math.IsNaN(elev) {
			req.Location.Elevation = &elev
		}
		return req, nil
	}

	if method == "" || math.IsNaN(lat) || math.IsNaN(lon) {
		return usecase.CalculationRequest{}, errors.New("either -config or all of -method, -lat and -lon are required")
	}
	req := usecase.CalculationRequest{
		Location:   usecase.LocationInput{Latitude: lat, Longitude: lon},
		Parameters: usecase.MethodSpec(method),
		Zone:       usecase.ZoneLocal,
	}
	if !math.IsNaN(elev) {
		req.Location.Elevation = &elev
	}
	return req, nil
}

func printTimes(w io.Writer, times usecase.FormattedTimes) {
	for _, p := range domain.Prayers {
		value := missingTime
		if s := times.Get(p); s != nil {
			value = *s
		}
		sep := "\t\t"
		if len(p.String()) >= 8 {
			sep = "\t"
		}
		fmt.Fprintf(w, "%s%s%s\n", p, sep, value)
	}
}
