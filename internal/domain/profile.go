package domain

import (
	"errors"
	"time"
)

// ErrProfileNotFound is returned when no profile has the requested name.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is a named, saved calculation setup.
type Profile struct {
	Name       string      `json:"name"`
	Location   Location    `json:"location"`
	Method     string      `json:"method,omitempty"`
	Parameters Parameters  `json:"parameters"`
	Tune       TuneOffsets `json:"tune"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Calculator returns a calculator configured with the profile's
// parameters and tuning.
func (p Profile) Calculator() *Calculator {
	return NewCalculator(p.Parameters, p.Tune)
}
