package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/metrics"
)

// ErrInvalidRequest wraps every validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// LocationInput is a location whose elevation may be left out.
type LocationInput struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"`
	// Ellipsoidal marks Elevation as a WGS84 ellipsoidal height, as reported
	// by GPS receivers.
	Ellipsoidal bool `json:"ellipsoidal,omitempty"`
}

// CalculationRequest encapsulates a prayer time calculation request.
type CalculationRequest struct {
	// Date to calculate (defaults to today in Zone).
	Date domain.CalendarDate `json:"date"`

	Location   LocationInput       `json:"location"`
	Parameters ParamSpec           `json:"parameters"`
	Tuning     *domain.TuneOffsets `json:"tuning,omitempty"`

	// Display options.
	Zone   Zone   `json:"zone"`
	Format string `json:"format"`
}

// CalculationResponse contains the formatted prayer times.
type CalculationResponse struct {
	Date       string            `json:"date"`
	Location   domain.Location   `json:"location"`
	Method     string            `json:"method"`
	Parameters domain.Parameters `json:"parameters"`
	Zone       string            `json:"zone"`
	Times      FormattedTimes    `json:"times"`
	Meta       map[string]string `json:"meta"`
}

// NextRequest asks for the first event after a given instant.
type NextRequest struct {
	Location   LocationInput
	Parameters ParamSpec
	Tuning     *domain.TuneOffsets
	Zone       Zone
	Format     string
	// Now defaults to the current time.
	Now time.Time
}

// NextResponse describes the upcoming event.
type NextResponse struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Seconds   int64  `json:"seconds"`
}

// CalculationUseCase orchestrates prayer time calculation.
type CalculationUseCase struct {
	elevation ElevationStore
	geoid     GeoidStore
	cache     TimesCache
	now       func() time.Time
}

// NewCalculationUseCase creates a new calculation use case. Both stores
// are optional.
func NewCalculationUseCase(elevation ElevationStore, cache TimesCache) *CalculationUseCase {
	return &CalculationUseCase{
		elevation: elevation,
		cache:     cache,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for default dates and next events.
func (uc *CalculationUseCase) WithClock(now func() time.Time) *CalculationUseCase {
	uc.now = now
	return uc
}

// WithGeoid enables conversion of ellipsoidal heights.
func (uc *CalculationUseCase) WithGeoid(geoid GeoidStore) *CalculationUseCase {
	uc.geoid = geoid
	return uc
}

// Validate checks if the request is valid.
func (r *CalculationRequest) Validate() error {
	if err := validateLocation(r.Location); err != nil {
		return err
	}
	if !r.Date.IsZero() && !r.Date.Valid() {
		return fmt.Errorf("date %s does not exist", r.Date)
	}
	if r.Parameters.IsZero() {
		return fmt.Errorf("parameters or method must be provided")
	}
	if _, err := r.Parameters.Resolve(); err != nil {
		return err
	}
	if _, err := r.Zone.Location(); err != nil {
		return err
	}
	if r.Format == "" {
		return fmt.Errorf("format must not be empty")
	}
	return nil
}

// Validate checks if the request is valid.
func (r *NextRequest) Validate() error {
	if err := validateLocation(r.Location); err != nil {
		return err
	}
	if _, err := r.Parameters.Resolve(); err != nil {
		return err
	}
	if _, err := r.Zone.Location(); err != nil {
		return err
	}
	return nil
}

// validateLocation rejects non-finite coordinates. Ranges are left to the
// caller; the engine reports unreachable events as absent.
func validateLocation(loc LocationInput) error {
	if !isFinite(loc.Latitude) {
		return fmt.Errorf("latitude must be a finite number")
	}
	if !isFinite(loc.Longitude) {
		return fmt.Errorf("longitude must be a finite number")
	}
	if loc.Elevation != nil && !isFinite(*loc.Elevation) {
		return fmt.Errorf("elevation must be a finite number")
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Execute performs the calculation.
func (uc *CalculationUseCase) Execute(ctx context.Context, req CalculationRequest) (*CalculationResponse, error) {
	if req.Format == "" {
		req.Format = DefaultFormat
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	params, _ := req.Parameters.Resolve()
	zone, _ := req.Zone.Location()
	formatter, err := NewFormatter(req.Format, zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	date := req.Date
	if date.IsZero() {
		date = domain.DateOf(uc.now().In(zone))
	}

	var tune domain.TuneOffsets
	if req.Tuning != nil {
		tune = *req.Tuning
	}

	loc, elevationSource := uc.resolveLocation(req.Location)
	times, source := uc.calculate(ctx, domain.NewCalculator(params, tune), loc, date)

	return &CalculationResponse{
		Date:       date.String(),
		Location:   loc,
		Method:     req.Parameters.Label(),
		Parameters: params,
		Zone:       req.Zone.String(),
		Times:      formatter.FormatTimes(times),
		Meta: map[string]string{
			"source":           source,
			"elevation_source": elevationSource,
		},
	}, nil
}

// Calculate returns the unformatted times for a resolved setup, going
// through the cache when one is configured.
func (uc *CalculationUseCase) Calculate(ctx context.Context, calc *domain.Calculator, loc domain.Location, date domain.CalendarDate) domain.Times {
	times, _ := uc.calculate(ctx, calc, loc, date)
	return times
}

func (uc *CalculationUseCase) calculate(ctx context.Context, calc *domain.Calculator, loc domain.Location, date domain.CalendarDate) (domain.Times, string) {
	if uc.cache == nil {
		metrics.CalculationsTotal.WithLabelValues("computed").Inc()
		return calc.Calculate(loc, date), "computed"
	}

	key, err := CacheKey(calc, loc, date)
	if err != nil {
		log.Warn().Err(err).Msg("failed to build cache key")
		return calc.Calculate(loc, date), "computed"
	}

	cached, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("get").Inc()
		log.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
	}
	if ok {
		metrics.CalculationsTotal.WithLabelValues("cache").Inc()
		return cached, "cache"
	}

	times := calc.Calculate(loc, date)
	metrics.CalculationsTotal.WithLabelValues("computed").Inc()
	if err := uc.cache.Set(ctx, key, times); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("set").Inc()
		log.Warn().Err(err).Str("key", key).Msg("cache store failed")
	}
	return times, "computed"
}

// ResolveLocation validates in and fills a missing elevation.
func (uc *CalculationUseCase) ResolveLocation(in LocationInput) (domain.Location, error) {
	if err := validateLocation(in); err != nil {
		return domain.Location{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	loc, _ := uc.resolveLocation(in)
	return loc, nil
}

// resolveLocation fills a missing elevation from the elevation store.
// Terrain below sea level is treated as zero.
func (uc *CalculationUseCase) resolveLocation(in LocationInput) (domain.Location, string) {
	loc := domain.Location{Latitude: in.Latitude, Longitude: in.Longitude}
	if in.Elevation != nil {
		loc.Elevation = *in.Elevation
		if !in.Ellipsoidal {
			return loc, "request"
		}
		if uc.geoid == nil {
			log.Warn().Msg("ellipsoidal elevation without geoid data, using it as is")
			return loc, "request"
		}
		n, err := uc.geoid.GeoidHeight(in.Latitude, in.Longitude)
		if err != nil {
			log.Warn().Err(err).
				Float64("lat", in.Latitude).
				Float64("lon", in.Longitude).
				Msg("geoid lookup failed, using ellipsoidal elevation as is")
			return loc, "request"
		}
		loc.Elevation = *in.Elevation - n
		return loc, "geoid"
	}
	if uc.elevation == nil {
		return loc, "default"
	}

	elev, err := uc.elevation.Elevation(in.Latitude, in.Longitude)
	if err != nil {
		log.Warn().Err(err).
			Float64("lat", in.Latitude).
			Float64("lon", in.Longitude).
			Msg("elevation lookup failed, using sea level")
		return loc, "default"
	}
	loc.Elevation = math.Max(0, elev)
	return loc, "terrain"
}

// Next returns the first event after req.Now.
func (uc *CalculationUseCase) Next(ctx context.Context, req NextRequest) (*NextResponse, bool, error) {
	if req.Format == "" {
		req.Format = DefaultFormat
	}
	if err := req.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	params, _ := req.Parameters.Resolve()
	zone, _ := req.Zone.Location()
	formatter, err := NewFormatter(req.Format, zone)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	now := req.Now
	if now.IsZero() {
		now = uc.now()
	}

	var tune domain.TuneOffsets
	if req.Tuning != nil {
		tune = *req.Tuning
	}

	loc, _ := uc.resolveLocation(req.Location)
	calc := domain.NewCalculator(params, tune)

	next, found := domain.NextEventFunc(now, func(d domain.CalendarDate) domain.Times {
		return uc.Calculate(ctx, calc, loc, d)
	})
	if !found {
		return nil, false, nil
	}

	remaining := next.Time.Sub(now).Truncate(time.Second)
	return &NextResponse{
		Prayer:    next.Prayer.String(),
		Time:      formatter.Format(next.Time),
		Remaining: remaining.String(),
		Seconds:   int64(remaining / time.Second),
	}, true, nil
}

// Methods returns the built-in calculation methods.
func (uc *CalculationUseCase) Methods() []domain.MethodInfo {
	return domain.Methods()
}

type cacheKeyInput struct {
	Parameters domain.Parameters  `json:"p"`
	Tune       domain.TuneOffsets `json:"t"`
	Location   domain.Location    `json:"l"`
	Date       string             `json:"d"`
}

// CacheKey derives a stable cache key from everything that determines a
// day's result.
func CacheKey(calc *domain.Calculator, loc domain.Location, date domain.CalendarDate) (string, error) {
	b, err := json.Marshal(cacheKeyInput{
		Parameters: calc.Parameters(),
		Tune:       calc.Tuning(),
		Location:   loc,
		Date:       date.String(),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return "praytimes:times:" + hex.EncodeToString(sum[:]), nil
}
