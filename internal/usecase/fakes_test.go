package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.ngs.io/praytimes/internal/domain"
)

type fakeElevation struct {
	value float64
	err   error
	calls int
}

func (f *fakeElevation) Elevation(_, _ float64) (float64, error) {
	f.calls++
	return f.value, f.err
}

func (f *fakeElevation) Close() error { return nil }

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]domain.Times
	gets    int
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]domain.Times{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (domain.Times, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return domain.Times{}, false, errors.New("connection refused")
	}
	t, ok := c.entries[key]
	return t, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, times domain.Times) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = times
	return nil
}

type memoryProfiles struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{profiles: map[string]domain.Profile{}}
}

func (m *memoryProfiles) List(_ context.Context) ([]domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryProfiles) Get(_ context.Context, name string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[name]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memoryProfiles) Put(_ context.Context, p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.Name] = p
	return nil
}

func (m *memoryProfiles) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[name]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(m.profiles, name)
	return nil
}

type fakeGeoid struct {
	n   float64
	err error
}

func (f fakeGeoid) GeoidHeight(_, _ float64) (float64, error) {
	return f.n, f.err
}
