package usecase

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/praytimes/internal/domain"
)

func TestParseZone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "local", false},
		{"local", "local", false},
		{"utc", "utc", false},
		{"12600", "UTC+03:30", false},
		{"-18000", "UTC-05:00", false},
		{"Asia/Tehran", "Asia/Tehran", false},
		{"86400", "", true},
		{"Not/AZone", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			z, err := ParseZone(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidZone), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, z.String())
		})
	}
}

func TestZone_JSON(t *testing.T) {
	var z Zone
	require.NoError(t, json.Unmarshal([]byte(`{"fixed": 16200}`), &z))
	require.NotNil(t, z.Fixed)
	assert.Equal(t, 16200, *z.Fixed)

	b, err := json.Marshal(z)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fixed": 16200}`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`"utc"`), &z))
	assert.Equal(t, ZoneUTC, z)

	assert.Error(t, json.Unmarshal([]byte(`{"offset": 1}`), &z))
}

func TestFormatter_FormatTimes(t *testing.T) {
	loc, err := FixedZone(12600).Location()
	require.NoError(t, err)
	f, err := NewFormatter(ClockFormat, loc)
	require.NoError(t, err)

	fajr := time.Date(2024, time.March, 20, 1, 14, 2, 0, time.UTC)
	times := domain.Times{Fajr: &fajr}

	out := f.FormatTimes(times)
	require.NotNil(t, out.Fajr)
	assert.Equal(t, "04:44:02", *out.Fajr)
	assert.Nil(t, out.Isha)
	assert.Equal(t, out.Fajr, out.Get(domain.Fajr))
}

func TestFormatter_ISO(t *testing.T) {
	f, err := NewFormatter(DefaultFormat, time.UTC)
	require.NoError(t, err)
	got := f.Format(time.Date(2024, time.January, 1, 2, 39, 7, 952e6, time.UTC))
	assert.Equal(t, "2024-01-01T02:39:07+0000", got)

	_, err = NewFormatter("", time.UTC)
	assert.Error(t, err)
}
