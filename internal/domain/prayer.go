package domain

import (
	"fmt"
	"strings"
)

// Prayer identifies one of the daily events.
type Prayer int

// Events in their usual chronological order.
const (
	Imsak Prayer = iota
	Fajr
	Sunrise
	Dhuhr
	Asr
	Sunset
	Maghrib
	Isha
	Midnight
)

// Prayers lists every event in chronological order.
var Prayers = []Prayer{Imsak, Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Isha, Midnight}

var prayerNames = []string{"imsak", "fajr", "sunrise", "dhuhr", "asr", "sunset", "maghrib", "isha", "midnight"}

// String returns the lowercase event name.
func (p Prayer) String() string {
	if int(p) >= 0 && int(p) < len(prayerNames) {
		return prayerNames[p]
	}
	return fmt.Sprintf("Prayer(%d)", int(p))
}

// Title returns the capitalized event name, e.g. "Fajr".
func (p Prayer) Title() string {
	s := p.String()
	if int(p) < 0 || int(p) >= len(prayerNames) {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParsePrayer parses an event name (case-insensitive).
func ParsePrayer(s string) (Prayer, error) {
	for i, name := range prayerNames {
		if strings.EqualFold(s, name) {
			return Prayer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown prayer %q", s)
}

// MarshalText encodes the lowercase name.
func (p Prayer) MarshalText() ([]byte, error) {
	if int(p) < 0 || int(p) >= len(prayerNames) {
		return nil, fmt.Errorf("invalid prayer %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes an event name.
func (p *Prayer) UnmarshalText(b []byte) error {
	parsed, err := ParsePrayer(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
