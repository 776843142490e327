package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.ngs.io/praytimes/internal/domain"
)

var profileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

// ProfileRequest creates or replaces a named profile.
type ProfileRequest struct {
	Name       string              `json:"-"`
	Location   LocationInput       `json:"location"`
	Parameters ParamSpec           `json:"parameters"`
	Tuning     *domain.TuneOffsets `json:"tuning,omitempty"`
}

// Validate checks if the request is valid.
func (r *ProfileRequest) Validate() error {
	if !profileNamePattern.MatchString(r.Name) {
		return fmt.Errorf("profile name %q must be 1-64 letters, digits, '.', '_' or '-'", r.Name)
	}
	if err := validateLocation(r.Location); err != nil {
		return err
	}
	if _, err := r.Parameters.Resolve(); err != nil {
		return err
	}
	return nil
}

// ProfileTimesRequest asks for the times of a saved profile.
type ProfileTimesRequest struct {
	Name   string
	Date   domain.CalendarDate
	Zone   Zone
	Format string
}

// ProfileUseCase manages saved profiles and calculates their times.
type ProfileUseCase struct {
	store ProfileStore
	calc  *CalculationUseCase
	now   func() time.Time
}

// NewProfileUseCase creates a new profile use case.
func NewProfileUseCase(store ProfileStore, calc *CalculationUseCase) *ProfileUseCase {
	return &ProfileUseCase{store: store, calc: calc, now: time.Now}
}

// List returns every saved profile.
func (uc *ProfileUseCase) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Get returns a profile by name.
func (uc *ProfileUseCase) Get(ctx context.Context, name string) (*domain.Profile, error) {
	p, err := uc.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", name, err)
	}
	return p, nil
}

// Save validates, resolves and stores a profile.
func (uc *ProfileUseCase) Save(ctx context.Context, req ProfileRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	params, _ := req.Parameters.Resolve()
	loc, _ := uc.calc.resolveLocation(req.Location)

	p := domain.Profile{
		Name:       req.Name,
		Location:   loc,
		Method:     req.Parameters.Label(),
		Parameters: params,
		UpdatedAt:  uc.now().UTC(),
	}
	if req.Tuning != nil {
		p.Tune = *req.Tuning
	}

	if err := uc.store.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile %s: %w", req.Name, err)
	}
	return &p, nil
}

// Delete removes a profile.
func (uc *ProfileUseCase) Delete(ctx context.Context, name string) error {
	if err := uc.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", name, err)
	}
	return nil
}

// Times calculates the prayer times of a saved profile.
func (uc *ProfileUseCase) Times(ctx context.Context, req ProfileTimesRequest) (*CalculationResponse, error) {
	p, err := uc.Get(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	elevation := p.Location.Elevation
	resp, err := uc.calc.Execute(ctx, CalculationRequest{
		Date: req.Date,
		Location: LocationInput{
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			Elevation: &elevation,
		},
		Parameters: FullSpec(p.Parameters),
		Tuning:     &p.Tune,
		Zone:       req.Zone,
		Format:     req.Format,
	})
	if err != nil {
		return nil, err
	}
	resp.Method = p.Method
	resp.Meta["profile"] = p.Name
	return resp, nil
}
