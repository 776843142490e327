package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/praytimes/internal/domain"
)

func makkahInput() LocationInput {
	return LocationInput{Latitude: 21.4225, Longitude: 39.8262}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestExecute_MethodInFixedZone(t *testing.T) {
	uc := NewCalculationUseCase(nil, nil)

	resp, err := uc.Execute(context.Background(), CalculationRequest{
		Date:       domain.CalendarDate{Year: 2024, Month: time.January, Day: 1},
		Location:   makkahInput(),
		Parameters: MethodSpec("MWL"),
		Zone:       FixedZone(3 * 3600),
		Format:     "%H:%M",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", resp.Date)
	assert.Equal(t, "MWL", resp.Method)
	assert.Equal(t, "UTC+03:00", resp.Zone)
	require.NotNil(t, resp.Times.Fajr)
	assert.Equal(t, "05:39", *resp.Times.Fajr)
	assert.Equal(t, "12:23", *resp.Times.Dhuhr)
	assert.Equal(t, "17:49", *resp.Times.Maghrib)
	assert.Equal(t, "computed", resp.Meta["source"])
	assert.Equal(t, "default", resp.Meta["elevation_source"])
}

func TestExecute_DefaultsDateAndFormat(t *testing.T) {
	uc := NewCalculationUseCase(nil, nil).
		WithClock(fixedClock(time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC)))

	resp, err := uc.Execute(context.Background(), CalculationRequest{
		Location:   makkahInput(),
		Parameters: MethodSpec("isna"),
		Zone:       ZoneUTC,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", resp.Date)
	assert.Equal(t, "ISNA", resp.Method)
	require.NotNil(t, resp.Times.Dhuhr)
	_, err = time.Parse("2006-01-02T15:04:05-0700", *resp.Times.Dhuhr)
	assert.NoError(t, err, "default format should be ISO 8601")
}

func TestExecute_MethodWithExtra(t *testing.T) {
	uc := NewCalculationUseCase(nil, nil)
	factor := 2.0

	resp, err := uc.Execute(context.Background(), CalculationRequest{
		Date:     domain.CalendarDate{Year: 2024, Month: time.June, Day: 1},
		Location: makkahInput(),
		Parameters: ParamSpec{
			Method: "MWL",
			Extra:  &domain.PartialParameters{Asr: &factor},
		},
		Zone: ZoneUTC,
	})
	require.NoError(t, err)
	assert.Equal(t, "MWL+", resp.Method)
	assert.Equal(t, 2.0, resp.Parameters.Asr)
	assert.Equal(t, 18.0, resp.Parameters.Fajr)
}

func TestExecute_InvalidRequests(t *testing.T) {
	uc := NewCalculationUseCase(nil, nil)
	nan := math.NaN()

	tests := []struct {
		name string
		req  CalculationRequest
	}{
		{"no parameters", CalculationRequest{Location: makkahInput(), Zone: ZoneUTC}},
		{"unknown method", CalculationRequest{Location: makkahInput(), Parameters: MethodSpec("Hanafi"), Zone: ZoneUTC}},
		{"nan latitude", CalculationRequest{Location: LocationInput{Latitude: nan}, Parameters: MethodSpec("MWL"), Zone: ZoneUTC}},
		{"nan elevation", CalculationRequest{Location: LocationInput{Elevation: &nan}, Parameters: MethodSpec("MWL"), Zone: ZoneUTC}},
		{"bad fixed zone", CalculationRequest{Location: makkahInput(), Parameters: MethodSpec("MWL"), Zone: FixedZone(90000)}},
		{"unknown zone", CalculationRequest{Location: makkahInput(), Parameters: MethodSpec("MWL"), Zone: Zone{Name: "Mars/Olympus"}}},
		{"impossible date", CalculationRequest{
			Date:     domain.CalendarDate{Year: 2023, Month: time.February, Day: 29},
			Location: makkahInput(), Parameters: MethodSpec("MWL"), Zone: ZoneUTC,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest), "error should wrap ErrInvalidRequest: %v", err)
		})
	}
}

func TestExecute_OutOfRangeLatitudeIsNotRejected(t *testing.T) {
	uc := NewCalculationUseCase(nil, nil)

	resp, err := uc.Execute(context.Background(), CalculationRequest{
		Date:       domain.CalendarDate{Year: 2024, Month: time.June, Day: 21},
		Location:   LocationInput{Latitude: 95, Longitude: 0},
		Parameters: MethodSpec("MWL"),
		Zone:       ZoneUTC,
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Times.Dhuhr)
}

func TestExecute_ElevationLookup(t *testing.T) {
	elev := &fakeElevation{value: 1600}
	uc := NewCalculationUseCase(elev, nil)
	date := domain.CalendarDate{Year: 2024, Month: time.May, Day: 5}

	resp, err := uc.Execute(context.Background(), CalculationRequest{
		Date:       date,
		Location:   LocationInput{Latitude: 39.74, Longitude: -104.99},
		Parameters: MethodSpec("ISNA"),
		Zone:       ZoneUTC,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, elev.calls)
	assert.Equal(t, 1600.0, resp.Location.Elevation)
	assert.Equal(t, "terrain", resp.Meta["elevation_source"])

	// An explicit elevation skips the store.
	zero := 0.0
	resp, err = uc.Execute(context.Background(), CalculationRequest{
		Date:       date,
		Location:   LocationInput{Latitude: 39.74, Longitude: -104.99, Elevation: &zero},
		Parameters: MethodSpec("ISNA"),
		Zone:       ZoneUTC,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, elev.calls)
	assert.Equal(t, "request", resp.Meta["elevation_source"])
}

func TestExecute_ElevationBelowSeaLevelAndFailures(t *testing.T) {
	uc := NewCalculationUseCase(&fakeElevation{value: -420}, nil)
	resp, err := uc.Execute(context.Background(), CalculationRequest{
		Date:       domain.CalendarDate{Year: 2024, Month: time.April, Day: 1},
		Location:   LocationInput{Latitude: 31.5, Longitude: 35.5},
		Parameters: MethodSpec("MWL"),
		Zone:       ZoneUTC,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Location.Elevation)
	assert.NotNil(t, resp.Times.Sunrise)

	uc = NewCalculationUseCase(&fakeElevation{err: errors.New("no data")}, nil)
	resp, err = uc.Execute(context.Background(), CalculationRequest{
		Date:       domain.CalendarDate{Year: 2024, Month: time.April, Day: 1},
		Location:   LocationInput{Latitude: 31.5, Longitude: 35.5},
		Parameters: MethodSpec("MWL"),
		Zone:       ZoneUTC,
	})
	require.NoError(t, err)
	assert.Equal(t, "default", resp.Meta["elevation_source"])
}

func TestExecute_Cache(t *testing.T) {
	cache := newMemoryCache()
	uc := NewCalculationUseCase(nil, cache)
	req := CalculationRequest{
		Date:       domain.CalendarDate{Year: 2024, Month: time.January, Day: 1},
		Location:   makkahInput(),
		Parameters: MethodSpec("MWL"),
		Zone:       ZoneUTC,
	}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "computed", first.Meta["source"])
	assert.Len(t, cache.entries, 1)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "cache", second.Meta["source"])
	assert.Equal(t, first.Times, second.Times)

	// A different tuning is a different key.
	one := 1.0
	req.Tuning = &domain.TuneOffsets{Fajr: &one}
	third, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "computed", third.Meta["source"])
	assert.Len(t, cache.entries, 2)
}

func TestExecute_CacheFailureFallsBack(t *testing.T) {
	cache := newMemoryCache()
	cache.failGet = true
	uc := NewCalculationUseCase(nil, cache)

	resp, err := uc.Execute(context.Background(), CalculationRequest{
		Date:       domain.CalendarDate{Year: 2024, Month: time.January, Day: 1},
		Location:   makkahInput(),
		Parameters: MethodSpec("MWL"),
		Zone:       ZoneUTC,
	})
	require.NoError(t, err)
	assert.Equal(t, "computed", resp.Meta["source"])
	assert.NotNil(t, resp.Times.Isha)
}

func TestNext(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	uc := NewCalculationUseCase(nil, nil).WithClock(fixedClock(now))

	resp, ok, err := uc.Next(context.Background(), NextRequest{
		Location:   makkahInput(),
		Parameters: MethodSpec("MWL"),
		Zone:       ZoneUTC,
		Format:     "%H:%M:%S",
	})
	require.NoError(t, err)
	require.True(t, ok)

	// Asr in Makkah on that day is at 12:28:36 UTC.
	assert.Equal(t, "asr", resp.Prayer)
	assert.Equal(t, "12:28:36", resp.Time)
	assert.Equal(t, int64(28*60+36), resp.Seconds)
	assert.Equal(t, "28m36s", resp.Remaining)
}

func TestNext_InvalidRequest(t *testing.T) {
	uc := NewCalculationUseCase(nil, nil)
	_, _, err := uc.Next(context.Background(), NextRequest{Location: makkahInput(), Zone: ZoneUTC})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCacheKey_Stable(t *testing.T) {
	params, _ := domain.Method("MWL")
	calc := domain.NewCalculator(params, domain.TuneOffsets{})
	loc := domain.Location{Latitude: 1, Longitude: 2}
	date := domain.CalendarDate{Year: 2024, Month: time.January, Day: 1}

	a, err := CacheKey(calc, loc, date)
	require.NoError(t, err)
	b, err := CacheKey(domain.NewCalculator(params, domain.TuneOffsets{}), loc, date)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := CacheKey(calc, loc, date.Next())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestExecute_EllipsoidalElevation(t *testing.T) {
	h := 320.0
	req := CalculationRequest{
		Date:       domain.CalendarDate{Year: 2024, Month: time.April, Day: 1},
		Location:   LocationInput{Latitude: 21.4225, Longitude: 39.8262, Elevation: &h, Ellipsoidal: true},
		Parameters: MethodSpec("MWL"),
		Zone:       ZoneUTC,
	}

	uc := NewCalculationUseCase(nil, nil).WithGeoid(fakeGeoid{n: 20})
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 300.0, resp.Location.Elevation)
	assert.Equal(t, "geoid", resp.Meta["elevation_source"])

	uc = NewCalculationUseCase(nil, nil).WithGeoid(fakeGeoid{err: errors.New("outside grid")})
	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 320.0, resp.Location.Elevation)
	assert.Equal(t, "request", resp.Meta["elevation_source"])
}

func TestResolveLocation(t *testing.T) {
	uc := NewCalculationUseCase(&fakeElevation{value: 12}, nil)

	loc, err := uc.ResolveLocation(makkahInput())
	require.NoError(t, err)
	assert.Equal(t, 12.0, loc.Elevation)

	_, err = uc.ResolveLocation(LocationInput{Latitude: math.Inf(1)})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
