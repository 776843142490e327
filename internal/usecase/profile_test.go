package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/praytimes/internal/domain"
)

func newProfileUseCase() (*ProfileUseCase, *memoryProfiles) {
	store := newMemoryProfiles()
	uc := NewProfileUseCase(store, NewCalculationUseCase(&fakeElevation{value: 277}, nil))
	uc.now = fixedClock(time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC))
	return uc, store
}

func TestProfileUseCase_SaveAndTimes(t *testing.T) {
	uc, store := newProfileUseCase()
	ctx := context.Background()

	p, err := uc.Save(ctx, ProfileRequest{
		Name:       "makkah",
		Location:   makkahInput(),
		Parameters: MethodSpec("MWL"),
	})
	require.NoError(t, err)
	assert.Equal(t, "MWL", p.Method)
	assert.Equal(t, 277.0, p.Location.Elevation)
	assert.Equal(t, time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC), p.UpdatedAt)
	assert.Contains(t, store.profiles, "makkah")

	resp, err := uc.Times(ctx, ProfileTimesRequest{
		Name:   "makkah",
		Date:   domain.CalendarDate{Year: 2024, Month: time.May, Day: 1},
		Zone:   ZoneUTC,
		Format: ClockFormat,
	})
	require.NoError(t, err)
	assert.Equal(t, "MWL", resp.Method)
	assert.Equal(t, "makkah", resp.Meta["profile"])
	assert.Equal(t, "request", resp.Meta["elevation_source"])
	assert.NotNil(t, resp.Times.Isha)
}

func TestProfileUseCase_Validation(t *testing.T) {
	uc, _ := newProfileUseCase()
	ctx := context.Background()

	for _, name := range []string{"", "has space", "-leading", strings.Repeat("a", 70)} {
		_, err := uc.Save(ctx, ProfileRequest{Name: name, Location: makkahInput(), Parameters: MethodSpec("MWL")})
		assert.ErrorIs(t, err, ErrInvalidRequest, "name %q", name)
	}

	_, err := uc.Save(ctx, ProfileRequest{Name: "x", Location: makkahInput()})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestProfileUseCase_NotFound(t *testing.T) {
	uc, _ := newProfileUseCase()
	ctx := context.Background()

	_, err := uc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))

	_, err = uc.Times(ctx, ProfileTimesRequest{Name: "missing", Zone: ZoneUTC, Format: ClockFormat})
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))

	assert.True(t, errors.Is(uc.Delete(ctx, "missing"), domain.ErrProfileNotFound))
}

func TestProfileUseCase_ListAndDelete(t *testing.T) {
	uc, _ := newProfileUseCase()
	ctx := context.Background()

	for _, name := range []string{"tehran", "cairo"} {
		_, err := uc.Save(ctx, ProfileRequest{Name: name, Location: makkahInput(), Parameters: MethodSpec("Egypt")})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cairo", list[0].Name)

	require.NoError(t, uc.Delete(ctx, "cairo"))
	list, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
