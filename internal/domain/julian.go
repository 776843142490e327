package domain

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// JulianDay converts a proleptic Gregorian calendar date to the Julian Day
// at 00:00 UTC.
//
// January and February are treated as months 13 and 14 of the previous
// year, and the Gregorian leap-day correction term b = 2 - a + a/4 is
// applied with truncating integer division.
func JulianDay(year int, month time.Month, day int) float64 {
	y := year
	m := int(month)
	if m <= 2 {
		y--
		m += 12
	}

	a := y / 100
	b := 2 - a + a/4

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + float64(b) - 1524.5
}

// JulianDate returns the Julian Date of a calendar date aligned with the
// local solar time of the given longitude: 15 degrees of longitude shift
// the reference by one hour.
func JulianDate(date CalendarDate, longitude float64) float64 {
	return JulianDay(date.Year, date.Month, date.Day) - longitude/(15.0*24.0)
}
