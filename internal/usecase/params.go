package usecase

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.ngs.io/praytimes/internal/domain"
)

// ErrUnknownMethod is returned when a method code is not in the registry.
var ErrUnknownMethod = errors.New("unknown calculation method")

// ParamSpec selects calculation parameters either as a complete set or as
// a built-in method with an optional partial override.
//
// On the wire a full set is the parameters object itself, while the method
// form is {"method": "MWL", "extra": {...}}.
type ParamSpec struct {
	Full   *domain.Parameters
	Method string
	Extra  *domain.PartialParameters
}

// MethodSpec returns a spec for a built-in method without overrides.
func MethodSpec(code string) ParamSpec {
	return ParamSpec{Method: code}
}

// FullSpec returns a spec for a complete parameter set.
func FullSpec(p domain.Parameters) ParamSpec {
	return ParamSpec{Full: &p}
}

// IsZero reports whether nothing was specified.
func (s ParamSpec) IsZero() bool {
	return s.Full == nil && s.Method == "" && s.Extra == nil
}

// Resolve returns the effective parameters.
func (s ParamSpec) Resolve() (domain.Parameters, error) {
	if s.Full != nil {
		if s.Method != "" {
			return domain.Parameters{}, fmt.Errorf("parameters and method are mutually exclusive")
		}
		return *s.Full, nil
	}
	if s.Method == "" {
		return domain.Parameters{}, fmt.Errorf("either parameters or method must be provided")
	}
	base, ok := domain.Method(s.Method)
	if !ok {
		return domain.Parameters{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownMethod, s.Method, domain.MethodCodes())
	}
	return s.Extra.Apply(base), nil
}

// Label names the parameters for responses: the method code, with a "+"
// suffix when overridden, or "custom".
func (s ParamSpec) Label() string {
	switch {
	case s.Full != nil:
		return "custom"
	case s.Extra != nil && !s.Extra.IsEmpty():
		if info, ok := domain.LookupMethod(s.Method); ok {
			return info.Code + "+"
		}
		return s.Method + "+"
	default:
		if info, ok := domain.LookupMethod(s.Method); ok {
			return info.Code
		}
		return s.Method
	}
}

type methodSpecJSON struct {
	Method string                    `json:"method"`
	Extra  *domain.PartialParameters `json:"extra,omitempty"`
}

// MarshalJSON encodes either form.
func (s ParamSpec) MarshalJSON() ([]byte, error) {
	if s.Full != nil {
		return json.Marshal(s.Full)
	}
	return json.Marshal(methodSpecJSON{Method: s.Method, Extra: s.Extra})
}

// UnmarshalJSON accepts a full parameters object, a method object, or a
// bare method code string.
func (s *ParamSpec) UnmarshalJSON(b []byte) error {
	var code string
	if err := json.Unmarshal(b, &code); err == nil {
		*s = ParamSpec{Method: code}
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}

	if _, ok := fields["method"]; ok {
		var m methodSpecJSON
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		*s = ParamSpec{Method: m.Method, Extra: m.Extra}
		return nil
	}

	var full domain.Parameters
	if err := json.Unmarshal(b, &full); err != nil {
		return err
	}
	*s = ParamSpec{Full: &full}
	return nil
}
