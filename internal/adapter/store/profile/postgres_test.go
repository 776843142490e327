package profile

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/praytimes/internal/domain"
)

func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, url)
	require.NoError(t, err)
	require.NoError(t, s.RunMigrations(ctx))
	_, err = s.db.ExecContext(ctx, `DELETE FROM profiles WHERE name LIKE 'test-%'`)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresStore_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	params, ok := domain.Method("Tehran")
	require.True(t, ok)
	two := 2.0
	p := domain.Profile{
		Name:       "test-tehran",
		Location:   domain.Location{Latitude: 35.6892, Longitude: 51.389, Elevation: 1190},
		Method:     "Tehran",
		Parameters: params,
		Tune:       domain.TuneOffsets{Maghrib: &two},
		UpdatedAt:  time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Put(ctx, p))

	got, err := s.Get(ctx, p.Name)
	require.NoError(t, err)
	assert.Equal(t, p.Location, got.Location)
	assert.Equal(t, p.Parameters, got.Parameters)
	require.NotNil(t, got.Tune.Maghrib)
	assert.Equal(t, 2.0, *got.Tune.Maghrib)
	assert.True(t, p.UpdatedAt.Equal(got.UpdatedAt))

	p.Method = "custom"
	require.NoError(t, s.Put(ctx, p))
	got, err = s.Get(ctx, p.Name)
	require.NoError(t, err)
	assert.Equal(t, "custom", got.Method)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	require.NoError(t, s.Delete(ctx, p.Name))
	_, err = s.Get(ctx, p.Name)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.ErrorIs(t, s.Delete(ctx, p.Name), domain.ErrProfileNotFound)
}

func TestProfileRow_RoundTrip(t *testing.T) {
	params, _ := domain.Method("Jafari")
	p := domain.Profile{
		Name:       "qom",
		Location:   domain.Location{Latitude: 34.64, Longitude: 50.88},
		Method:     "Jafari",
		Parameters: params,
		UpdatedAt:  time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}

	r, err := rowFromProfile(p)
	require.NoError(t, err)
	back, err := r.profile()
	require.NoError(t, err)
	assert.Equal(t, p, back)
}
