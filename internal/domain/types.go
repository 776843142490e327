package domain

import (
	"fmt"
	"strings"
	"time"
)

// CalendarDate is a proleptic Gregorian calendar date without a time zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// Midnight returns 00:00 UTC of the date.
func (d CalendarDate) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Midnight().AddDate(0, 0, n))
}

// Next returns the following day.
func (d CalendarDate) Next() CalendarDate { return d.AddDays(1) }

// Prev returns the preceding day.
func (d CalendarDate) Prev() CalendarDate { return d.AddDays(-1) }

// IsZero reports whether the date is unset.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Valid reports whether the fields form an existing calendar day.
func (d CalendarDate) Valid() bool {
	return d.Month >= time.January && d.Month <= time.December && d.Day >= 1 &&
		DateOf(d.Midnight()) == d
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date.
func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Location is an observer position. Ranges are not checked.
type Location struct {
	Latitude  float64 `json:"latitude"`  // Degrees, north positive.
	Longitude float64 `json:"longitude"` // Degrees, east positive.
	Elevation float64 `json:"elevation"` // Meters above the surrounding terrain.
}

// UnitKind tells which alternative of an AngleUnit is set.
type UnitKind int

const (
	// UnitDegrees is a solar depression angle in degrees.
	UnitDegrees UnitKind = iota
	// UnitMinutes is a fixed clock offset in minutes from a reference event.
	UnitMinutes
)

// AngleUnit is either a sun angle or a minute offset. It is used by Imsak,
// Maghrib and Isha, whose formula depends on which alternative is set.
type AngleUnit struct {
	Kind  UnitKind
	Value float64
}

// Degrees returns an AngleUnit holding a sun angle.
func Degrees(v float64) AngleUnit { return AngleUnit{Kind: UnitDegrees, Value: v} }

// Minutes returns an AngleUnit holding a minute offset.
func Minutes(v float64) AngleUnit { return AngleUnit{Kind: UnitMinutes, Value: v} }

func (u AngleUnit) String() string {
	if u.Kind == UnitMinutes {
		return fmt.Sprintf("%gmin", u.Value)
	}
	return fmt.Sprintf("%g°", u.Value)
}

// MidnightMethod selects how Midnight is derived.
type MidnightMethod int

const (
	// MidnightStandard is the midpoint between Sunset and Sunrise.
	MidnightStandard MidnightMethod = iota
	// MidnightJafari is the midpoint between Sunset and Fajr.
	MidnightJafari
)

var midnightNames = []string{"Standard", "Jafari"}

func (m MidnightMethod) String() string {
	if int(m) >= 0 && int(m) < len(midnightNames) {
		return midnightNames[m]
	}
	return fmt.Sprintf("MidnightMethod(%d)", int(m))
}

// ParseMidnightMethod parses a midnight method name (case-insensitive).
func ParseMidnightMethod(s string) (MidnightMethod, error) {
	for i, name := range midnightNames {
		if strings.EqualFold(s, name) {
			return MidnightMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown midnight method %q (expected Standard or Jafari)", s)
}

// HighLatMethod is the adjustment policy for events the sun may not reach
// at high latitudes.
type HighLatMethod int

const (
	// HighLatNone reports unreachable events as absent.
	HighLatNone HighLatMethod = iota
	// HighLatNightMiddle bounds events by half of the night.
	HighLatNightMiddle
	// HighLatOneSeventh bounds events by a seventh of the night.
	HighLatOneSeventh
	// HighLatAngleBased bounds events by angle/60 of the night.
	HighLatAngleBased
)

var highLatNames = []string{"None", "NightMiddle", "OneSeventh", "AngleBased"}

func (h HighLatMethod) String() string {
	if int(h) >= 0 && int(h) < len(highLatNames) {
		return highLatNames[h]
	}
	return fmt.Sprintf("HighLatMethod(%d)", int(h))
}

// ParseHighLatMethod parses a high latitude policy name (case-insensitive).
func ParseHighLatMethod(s string) (HighLatMethod, error) {
	for i, name := range highLatNames {
		if strings.EqualFold(s, name) {
			return HighLatMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown high latitude method %q (expected one of %s)", s, strings.Join(highLatNames, ", "))
}

// Parameters fully describe a calculation method.
type Parameters struct {
	Imsak    AngleUnit      // Sun angle, or minutes before Fajr.
	Fajr     float64        // Sun angle below the horizon.
	Dhuhr    float64        // Minutes after solar noon (negative for before).
	Asr      float64        // Shadow factor: 1 standard, 2 Hanafi.
	Maghrib  AngleUnit      // Sun angle, or minutes after Sunset.
	Isha     AngleUnit      // Sun angle, or minutes after Maghrib.
	Midnight MidnightMethod // Midnight definition.
	HighLats HighLatMethod  // High latitude adjustment policy.
}

// PartialParameters overrides a subset of a method's parameters.
// Nil fields keep the base value.
type PartialParameters struct {
	Imsak    *AngleUnit
	Fajr     *float64
	Dhuhr    *float64
	Asr      *float64
	Maghrib  *AngleUnit
	Isha     *AngleUnit
	Midnight *MidnightMethod
	HighLats *HighLatMethod
}

// Apply returns base with every non-nil field of p substituted.
func (p *PartialParameters) Apply(base Parameters) Parameters {
	if p == nil {
		return base
	}
	out := base
	if p.Imsak != nil {
		out.Imsak = *p.Imsak
	}
	if p.Fajr != nil {
		out.Fajr = *p.Fajr
	}
	if p.Dhuhr != nil {
		out.Dhuhr = *p.Dhuhr
	}
	if p.Asr != nil {
		out.Asr = *p.Asr
	}
	if p.Maghrib != nil {
		out.Maghrib = *p.Maghrib
	}
	if p.Isha != nil {
		out.Isha = *p.Isha
	}
	if p.Midnight != nil {
		out.Midnight = *p.Midnight
	}
	if p.HighLats != nil {
		out.HighLats = *p.HighLats
	}
	return out
}

// TuneOffsets are per-event minute corrections applied after calculation.
// A nil offset leaves the event untouched.
type TuneOffsets struct {
	Imsak    *float64 `json:"imsak,omitempty" yaml:"imsak,omitempty"`
	Fajr     *float64 `json:"fajr,omitempty" yaml:"fajr,omitempty"`
	Sunrise  *float64 `json:"sunrise,omitempty" yaml:"sunrise,omitempty"`
	Dhuhr    *float64 `json:"dhuhr,omitempty" yaml:"dhuhr,omitempty"`
	Asr      *float64 `json:"asr,omitempty" yaml:"asr,omitempty"`
	Sunset   *float64 `json:"sunset,omitempty" yaml:"sunset,omitempty"`
	Maghrib  *float64 `json:"maghrib,omitempty" yaml:"maghrib,omitempty"`
	Isha     *float64 `json:"isha,omitempty" yaml:"isha,omitempty"`
	Midnight *float64 `json:"midnight,omitempty" yaml:"midnight,omitempty"`
}

func (o *TuneOffsets) slot(p Prayer) **float64 {
	switch p {
	case Imsak:
		return &o.Imsak
	case Fajr:
		return &o.Fajr
	case Sunrise:
		return &o.Sunrise
	case Dhuhr:
		return &o.Dhuhr
	case Asr:
		return &o.Asr
	case Sunset:
		return &o.Sunset
	case Maghrib:
		return &o.Maghrib
	case Isha:
		return &o.Isha
	case Midnight:
		return &o.Midnight
	}
	return nil
}

// Offset returns the offset configured for p, or nil.
func (o TuneOffsets) Offset(p Prayer) *float64 {
	if s := o.slot(p); s != nil {
		return *s
	}
	return nil
}

// Set configures a minute offset for p.
func (o *TuneOffsets) Set(p Prayer, minutes float64) {
	if s := o.slot(p); s != nil {
		*s = &minutes
	}
}

// Times holds the nine daily events. A nil field means the event does not
// occur for the location, date and parameters used.
type Times struct {
	Imsak    *time.Time `json:"imsak"`
	Fajr     *time.Time `json:"fajr"`
	Sunrise  *time.Time `json:"sunrise"`
	Dhuhr    *time.Time `json:"dhuhr"`
	Asr      *time.Time `json:"asr"`
	Sunset   *time.Time `json:"sunset"`
	Maghrib  *time.Time `json:"maghrib"`
	Isha     *time.Time `json:"isha"`
	Midnight *time.Time `json:"midnight"`
}

func (t *Times) slot(p Prayer) **time.Time {
	switch p {
	case Imsak:
		return &t.Imsak
	case Fajr:
		return &t.Fajr
	case Sunrise:
		return &t.Sunrise
	case Dhuhr:
		return &t.Dhuhr
	case Asr:
		return &t.Asr
	case Sunset:
		return &t.Sunset
	case Maghrib:
		return &t.Maghrib
	case Isha:
		return &t.Isha
	case Midnight:
		return &t.Midnight
	}
	return nil
}

// Get returns the time of event p, or nil when it is absent.
func (t Times) Get(p Prayer) *time.Time {
	if s := t.slot(p); s != nil {
		return *s
	}
	return nil
}

// Set stores the time of event p. A nil value marks it absent.
func (t *Times) Set(p Prayer, v *time.Time) {
	if s := t.slot(p); s != nil {
		*s = v
	}
}
