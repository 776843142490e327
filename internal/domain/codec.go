package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Wire forms. An AngleUnit is the object {"degree": x} or {"minutes": x};
// the key carries the alternative so the two are never confused.

type angleUnitJSON struct {
	Degree  *float64 `json:"degree,omitempty"`
	Minutes *float64 `json:"minutes,omitempty"`
}

// MarshalJSON encodes the unit as a single-key object.
func (u AngleUnit) MarshalJSON() ([]byte, error) {
	v := u.Value
	switch u.Kind {
	case UnitMinutes:
		return json.Marshal(angleUnitJSON{Minutes: &v})
	case UnitDegrees:
		return json.Marshal(angleUnitJSON{Degree: &v})
	}
	return nil, fmt.Errorf("invalid unit kind %d", int(u.Kind))
}

// UnmarshalJSON decodes {"degree": x} or {"minutes": x}.
func (u *AngleUnit) UnmarshalJSON(b []byte) error {
	var w angleUnitJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("angle unit: %w", err)
	}
	switch {
	case w.Degree != nil && w.Minutes != nil:
		return errors.New(`angle unit: "degree" and "minutes" are mutually exclusive`)
	case w.Degree != nil:
		*u = Degrees(*w.Degree)
	case w.Minutes != nil:
		*u = Minutes(*w.Minutes)
	default:
		return errors.New(`angle unit: expected "degree" or "minutes"`)
	}
	return nil
}

// MarshalText encodes the method name.
func (m MidnightMethod) MarshalText() ([]byte, error) {
	if int(m) < 0 || int(m) >= len(midnightNames) {
		return nil, fmt.Errorf("invalid midnight method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a method name.
func (m *MidnightMethod) UnmarshalText(b []byte) error {
	parsed, err := ParseMidnightMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText encodes the policy name.
func (h HighLatMethod) MarshalText() ([]byte, error) {
	if int(h) < 0 || int(h) >= len(highLatNames) {
		return nil, fmt.Errorf("invalid high latitude method %d", int(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText decodes a policy name.
func (h *HighLatMethod) UnmarshalText(b []byte) error {
	parsed, err := ParseHighLatMethod(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

type degreeJSON struct {
	Degree *float64 `json:"degree"`
}

type minutesJSON struct {
	Minutes *float64 `json:"minutes"`
}

type factorJSON struct {
	Factor *float64 `json:"factor"`
}

type parametersJSON struct {
	Imsak    *AngleUnit      `json:"imsak,omitempty"`
	Fajr     *degreeJSON     `json:"fajr,omitempty"`
	Dhuhr    *minutesJSON    `json:"dhuhr,omitempty"`
	Asr      *factorJSON     `json:"asr,omitempty"`
	Maghrib  *AngleUnit      `json:"maghrib,omitempty"`
	Isha     *AngleUnit      `json:"isha,omitempty"`
	Midnight *MidnightMethod `json:"midnight,omitempty"`
	HighLats *HighLatMethod  `json:"highLats,omitempty"`
}

func (w parametersJSON) partial() (PartialParameters, error) {
	p := PartialParameters{
		Imsak:    w.Imsak,
		Maghrib:  w.Maghrib,
		Isha:     w.Isha,
		Midnight: w.Midnight,
		HighLats: w.HighLats,
	}
	if w.Fajr != nil {
		if w.Fajr.Degree == nil {
			return p, errors.New(`fajr: missing "degree"`)
		}
		p.Fajr = w.Fajr.Degree
	}
	if w.Dhuhr != nil {
		if w.Dhuhr.Minutes == nil {
			return p, errors.New(`dhuhr: missing "minutes"`)
		}
		p.Dhuhr = w.Dhuhr.Minutes
	}
	if w.Asr != nil {
		if w.Asr.Factor == nil {
			return p, errors.New(`asr: missing "factor"`)
		}
		p.Asr = w.Asr.Factor
	}
	return p, nil
}

func wireFromPartial(p PartialParameters) parametersJSON {
	w := parametersJSON{
		Imsak:    p.Imsak,
		Maghrib:  p.Maghrib,
		Isha:     p.Isha,
		Midnight: p.Midnight,
		HighLats: p.HighLats,
	}
	if p.Fajr != nil {
		w.Fajr = &degreeJSON{Degree: p.Fajr}
	}
	if p.Dhuhr != nil {
		w.Dhuhr = &minutesJSON{Minutes: p.Dhuhr}
	}
	if p.Asr != nil {
		w.Asr = &factorJSON{Factor: p.Asr}
	}
	return w
}

// Full returns a PartialParameters with every field of p set.
func (p Parameters) Full() PartialParameters {
	return PartialParameters{
		Imsak:    &p.Imsak,
		Fajr:     &p.Fajr,
		Dhuhr:    &p.Dhuhr,
		Asr:      &p.Asr,
		Maghrib:  &p.Maghrib,
		Isha:     &p.Isha,
		Midnight: &p.Midnight,
		HighLats: &p.HighLats,
	}
}

// Complete returns the parameters when every field is set, or an error
// naming the missing ones.
func (p PartialParameters) Complete() (Parameters, error) {
	var missing []string
	if p.Imsak == nil {
		missing = append(missing, "imsak")
	}
	if p.Fajr == nil {
		missing = append(missing, "fajr")
	}
	if p.Dhuhr == nil {
		missing = append(missing, "dhuhr")
	}
	if p.Asr == nil {
		missing = append(missing, "asr")
	}
	if p.Maghrib == nil {
		missing = append(missing, "maghrib")
	}
	if p.Isha == nil {
		missing = append(missing, "isha")
	}
	if p.Midnight == nil {
		missing = append(missing, "midnight")
	}
	if p.HighLats == nil {
		missing = append(missing, "highLats")
	}
	if len(missing) > 0 {
		return Parameters{}, fmt.Errorf("missing parameters: %s", strings.Join(missing, ", "))
	}
	return p.Apply(Parameters{}), nil
}

// MarshalJSON encodes the parameters in their wire form.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireFromPartial(p.Full()))
}

// UnmarshalJSON decodes parameters; all eight fields are required.
func (p *Parameters) UnmarshalJSON(b []byte) error {
	var partial PartialParameters
	if err := json.Unmarshal(b, &partial); err != nil {
		return err
	}
	full, err := partial.Complete()
	if err != nil {
		return err
	}
	*p = full
	return nil
}

// MarshalJSON encodes only the fields that are set.
func (p PartialParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireFromPartial(p))
}

// UnmarshalJSON decodes any subset of the parameter fields.
func (p *PartialParameters) UnmarshalJSON(b []byte) error {
	var w parametersJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	partial, err := w.partial()
	if err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	*p = partial
	return nil
}

// IsEmpty reports whether no field is set.
func (p PartialParameters) IsEmpty() bool {
	return p == PartialParameters{}
}
