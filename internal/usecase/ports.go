package usecase

import (
	"context"

	"go.ngs.io/praytimes/internal/domain"
)

// ElevationStore looks up terrain elevation for locations that do not
// specify one.
type ElevationStore interface {
	// Elevation returns meters above sea level at lat/lon.
	Elevation(lat, lon float64) (float64, error)

	// Close releases any resources held by the store.
	Close() error
}

// GeoidStore converts between ellipsoidal and orthometric heights.
type GeoidStore interface {
	// GeoidHeight returns the geoid undulation N in meters at lat/lon.
	GeoidHeight(lat, lon float64) (float64, error)
}

// TimesCache stores computed day timetables.
type TimesCache interface {
	// Get returns the cached times for key. The bool is false on a miss.
	Get(ctx context.Context, key string) (domain.Times, bool, error)

	// Set stores times under key.
	Set(ctx context.Context, key string, times domain.Times) error
}

// ProfileStore persists named calculation profiles.
type ProfileStore interface {
	List(ctx context.Context) ([]domain.Profile, error)
	Get(ctx context.Context, name string) (*domain.Profile, error)
	Put(ctx context.Context, p domain.Profile) error
	Delete(ctx context.Context, name string) error
}
