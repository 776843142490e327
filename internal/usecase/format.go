package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"go.ngs.io/praytimes/internal/domain"
)

// Output formats.
const (
	// DefaultFormat renders an ISO 8601 timestamp with the zone offset.
	DefaultFormat = "%Y-%m-%dT%H:%M:%S%z"
	// ClockFormat renders the wall-clock time only.
	ClockFormat = "%T"
)

// ErrInvalidZone is returned for unusable time zones.
var ErrInvalidZone = errors.New("invalid time zone")

// Zone selects the time zone used to display results. The engine output is
// always UTC; the zone only affects formatting.
//
// JSON forms: "local", "utc", an IANA name such as "Asia/Tehran", or
// {"fixed": seconds east of UTC}.
type Zone struct {
	Name  string
	Fixed *int
}

// Predefined zones.
var (
	ZoneLocal = Zone{Name: "local"}
	ZoneUTC   = Zone{Name: "utc"}
)

// FixedZone returns a zone offset by seconds east of UTC.
func FixedZone(seconds int) Zone {
	return Zone{Fixed: &seconds}
}

// ParseZone parses "local", "utc", an integer offset in seconds, or an
// IANA zone name.
func ParseZone(s string) (Zone, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZoneLocal, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		z := FixedZone(secs)
		if _, err := z.Location(); err != nil {
			return Zone{}, err
		}
		return z, nil
	}
	z := Zone{Name: s}
	if _, err := z.Location(); err != nil {
		return Zone{}, err
	}
	return z, nil
}

// Location returns the time.Location of the zone.
func (z Zone) Location() (*time.Location, error) {
	if z.Fixed != nil {
		secs := *z.Fixed
		if secs <= -86400 || secs >= 86400 {
			return nil, fmt.Errorf("%w: fixed offset %d out of range", ErrInvalidZone, secs)
		}
		return time.FixedZone(fixedZoneName(secs), secs), nil
	}
	switch strings.ToLower(z.Name) {
	case "", "local":
		return time.Local, nil
	case "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(z.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZone, z.Name)
	}
	return loc, nil
}

func fixedZoneName(secs int) string {
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, secs/3600, (secs%3600)/60)
}

func (z Zone) String() string {
	if z.Fixed != nil {
		return fixedZoneName(*z.Fixed)
	}
	if z.Name == "" {
		return "local"
	}
	return z.Name
}

type fixedZoneJSON struct {
	Fixed *int `json:"fixed"`
}

// MarshalJSON encodes the zone.
func (z Zone) MarshalJSON() ([]byte, error) {
	if z.Fixed != nil {
		return json.Marshal(fixedZoneJSON{Fixed: z.Fixed})
	}
	return json.Marshal(z.String())
}

// UnmarshalJSON decodes a zone name or a fixed offset object.
func (z *Zone) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*z = Zone{Name: name}
		return nil
	}
	var f fixedZoneJSON
	if err := json.Unmarshal(b, &f); err != nil || f.Fixed == nil {
		return fmt.Errorf(`%w: expected a zone name or {"fixed": seconds}`, ErrInvalidZone)
	}
	*z = Zone{Fixed: f.Fixed}
	return nil
}

// FormattedTimes holds the nine events rendered as strings. A nil field
// means the event does not occur.
type FormattedTimes struct {
	Imsak    *string `json:"imsak"`
	Fajr     *string `json:"fajr"`
	Sunrise  *string `json:"sunrise"`
	Dhuhr    *string `json:"dhuhr"`
	Asr      *string `json:"asr"`
	Sunset   *string `json:"sunset"`
	Maghrib  *string `json:"maghrib"`
	Isha     *string `json:"isha"`
	Midnight *string `json:"midnight"`
}

// Get returns the rendered event p.
func (f FormattedTimes) Get(p domain.Prayer) *string {
	switch p {
	case domain.Imsak:
		return f.Imsak
	case domain.Fajr:
		return f.Fajr
	case domain.Sunrise:
		return f.Sunrise
	case domain.Dhuhr:
		return f.Dhuhr
	case domain.Asr:
		return f.Asr
	case domain.Sunset:
		return f.Sunset
	case domain.Maghrib:
		return f.Maghrib
	case domain.Isha:
		return f.Isha
	case domain.Midnight:
		return f.Midnight
	}
	return nil
}

func (f *FormattedTimes) set(p domain.Prayer, s *string) {
	switch p {
	case domain.Imsak:
		f.Imsak = s
	case domain.Fajr:
		f.Fajr = s
	case domain.Sunrise:
		f.Sunrise = s
	case domain.Dhuhr:
		f.Dhuhr = s
	case domain.Asr:
		f.Asr = s
	case domain.Sunset:
		f.Sunset = s
	case domain.Maghrib:
		f.Maghrib = s
	case domain.Isha:
		f.Isha = s
	case domain.Midnight:
		f.Midnight = s
	}
}

// Formatter renders times with a strftime pattern in a zone.
type Formatter struct {
	pattern *strftime.Strftime
	loc     *time.Location
}

// NewFormatter compiles pattern for use in loc.
func NewFormatter(pattern string, loc *time.Location) (*Formatter, error) {
	if pattern == "" {
		return nil, fmt.Errorf("format must not be empty")
	}
	p, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid format %q: %w", pattern, err)
	}
	return &Formatter{pattern: p, loc: loc}, nil
}

// Format renders a single instant.
func (f *Formatter) Format(t time.Time) string {
	return f.pattern.FormatString(t.In(f.loc))
}

// FormatTimes renders every present event.
func (f *Formatter) FormatTimes(times domain.Times) FormattedTimes {
	var out FormattedTimes
	for _, p := range domain.Prayers {
		if t := times.Get(p); t != nil {
			s := f.Format(*t)
			out.set(p, &s)
		}
	}
	return out
}
