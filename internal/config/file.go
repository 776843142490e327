package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/usecase"
)

// ErrNoCommands is returned when a daemon config has nothing to notify.
var ErrNoCommands = errors.New("config has no commands or mqtt section")

// File is a calculation setup read from disk:
//
//	{
//	  "location": {"latitude": 35.69, "longitude": 51.39},
//	  "parameters": {"method": "Tehran"},
//	  "tune": {"fajr": 1},
//	  "commands": [{"praytime": "fajr", "time_diff": -600, "cmd": "notify-send Fajr"}]
//	}
type File struct {
	Location   usecase.LocationInput `json:"location"`
	Parameters usecase.ParamSpec     `json:"parameters"`
	Tune       *domain.TuneOffsets   `json:"tune,omitempty"`
	Format     string                `json:"format,omitempty"`
	Zone       *usecase.Zone         `json:"zone,omitempty"`

	Commands []Command `json:"commands,omitempty"`
	MQTT     *MQTT     `json:"mqtt,omitempty"`
}

// Command runs a shell command TimeDiff seconds after an event. A negative
// TimeDiff runs it before.
type Command struct {
	Praytime domain.Prayer `json:"praytime"`
	TimeDiff int           `json:"time_diff"`
	Cmd      string        `json:"cmd"`
}

// Offset returns TimeDiff as a duration.
func (c Command) Offset() time.Duration {
	return time.Duration(c.TimeDiff) * time.Second
}

// MQTT publishes every event to a broker.
type MQTT struct {
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	TopicPrefix string `json:"topic_prefix,omitempty"`
	// TimeDiff shifts every publication, in seconds.
	TimeDiff int `json:"time_diff,omitempty"`
}

// Load reads a JSON or YAML file, chosen by extension.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return ParseJSON(b)
	}
}

// ParseJSON decodes a config, rejecting unknown fields.
func ParseJSON(b []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseYAML decodes a YAML config. The document is converted to JSON so
// both formats share one schema.
func ParseYAML(b []byte) (*File, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	j, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return ParseJSON(j)
}

// Validate checks the calculation part of the config.
func (f *File) Validate() error {
	if f.Parameters.IsZero() {
		return fmt.Errorf("invalid config: parameters are required")
	}
	if _, err := f.Parameters.Resolve(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for i, c := range f.Commands {
		if strings.TrimSpace(c.Cmd) == "" {
			return fmt.Errorf("invalid config: commands[%d]: cmd is empty", i)
		}
	}
	if f.MQTT != nil && f.MQTT.Broker == "" {
		return fmt.Errorf("invalid config: mqtt.broker is required")
	}
	return nil
}

// ValidateDaemon additionally requires something to notify.
func (f *File) ValidateDaemon() error {
	if len(f.Commands) == 0 && f.MQTT == nil {
		return ErrNoCommands
	}
	return nil
}

// DisplayZone returns the configured zone, local time by default.
func (f *File) DisplayZone() usecase.Zone {
	if f.Zone == nil {
		return usecase.ZoneLocal
	}
	return *f.Zone
}

// Request builds a calculation request for date.
func (f *File) Request(date domain.CalendarDate) usecase.CalculationRequest {
	return usecase.CalculationRequest{
		Date:       date,
		Location:   f.Location,
		Parameters: f.Parameters,
		Tuning:     f.Tune,
		Zone:       f.DisplayZone(),
		Format:     f.Format,
	}
}

// NextRequest builds a next-event request at now.
func (f *File) NextRequest(now time.Time) usecase.NextRequest {
	return usecase.NextRequest{
		Location:   f.Location,
		Parameters: f.Parameters,
		Tuning:     f.Tune,
		Zone:       f.DisplayZone(),
		Format:     f.Format,
		Now:        now,
	}
}
