package domain

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// TestJulianDay_KnownValues tests the conversion against published Julian Days.
func TestJulianDay_KnownValues(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		day      int
		expected float64
	}{
		{2000, time.January, 1, 2451544.5},
		{1957, time.October, 4, 2436115.5},
		{1987, time.January, 27, 2446822.5},
		{1988, time.June, 19, 2447331.5},
		{2024, time.January, 1, 2460310.5},
		{1600, time.December, 31, 2305812.5},
	}

	for _, tt := range tests {
		got := JulianDay(tt.year, tt.month, tt.day)
		if got != tt.expected {
			t.Errorf("%04d-%02d-%02d: expected %.1f, got %.1f", tt.year, tt.month, tt.day, tt.expected, got)
		}
	}
}

// TestJulianDay_MatchesMeeus cross-checks every day of a leap year and a
// century year against an independent implementation.
func TestJulianDay_MatchesMeeus(t *testing.T) {
	for _, start := range []CalendarDate{{2024, time.January, 1}, {1900, time.January, 1}, {2100, time.January, 1}} {
		d := start
		for i := 0; i < 366; i++ {
			want := julian.CalendarGregorianToJD(d.Year, int(d.Month), float64(d.Day))
			got := JulianDay(d.Year, d.Month, d.Day)
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("%s: expected %.1f, got %.1f", d, want, got)
			}
			d = d.Next()
		}
	}
}

// TestJulianDate_LongitudeShift tests the local solar time alignment.
func TestJulianDate_LongitudeShift(t *testing.T) {
	date := CalendarDate{2024, time.January, 1}
	base := JulianDay(2024, time.January, 1)

	if got := JulianDate(date, 0); got != base {
		t.Errorf("Greenwich: expected %.6f, got %.6f", base, got)
	}

	// 90 degrees east is six hours ahead of Greenwich.
	if got := JulianDate(date, 90); math.Abs(got-(base-0.25)) > 1e-12 {
		t.Errorf("90E: expected %.6f, got %.6f", base-0.25, got)
	}
	if got := JulianDate(date, -180); math.Abs(got-(base+0.5)) > 1e-12 {
		t.Errorf("180W: expected %.6f, got %.6f", base+0.5, got)
	}
}
