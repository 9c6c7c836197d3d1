package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/google/uuid"
)

// Memory is an in-process store. Records are lost on exit.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*core.LocationRecord
	byTitle map[string]string
	closed  bool
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*core.LocationRecord),
		byTitle: make(map[string]string),
	}
}

func (m *Memory) FindByTitle(_ context.Context, title string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, unavailable("find location", errMemoryClosed)
	}
	id, ok := m.byTitle[title]
	return id, ok, nil
}

func (m *Memory) Create(_ context.Context, rec *core.LocationRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", unavailable("insert location", errMemoryClosed)
	}
	if _, exists := m.byTitle[rec.Title]; exists {
		return "", fmt.Errorf("insert location: unique constraint on title %q", rec.Title)
	}

	r := cloneRecord(rec)
	r.ID = uuid.NewString()
	r.Services = nonNil(r.Services)
	r.Languages = nonNil(r.Languages)
	m.byID[r.ID] = r
	m.byTitle[r.Title] = r.ID
	return r.ID, nil
}

func (m *Memory) List(_ context.Context, county string) ([]core.LocationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, unavailable("list locations", errMemoryClosed)
	}
	out := make([]core.LocationRecord, 0, len(m.byID))
	for _, r := range m.byID {
		if county != "" && r.Address.County != county {
			continue
		}
		out = append(out, *cloneRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *Memory) SetCoordinates(_ context.Context, id string, c core.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return unavailable("set coordinates", errMemoryClosed)
	}
	r, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("location %s not found", id)
	}
	r.Coordinates = &c
	return nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, unavailable("count locations", errMemoryClosed)
	}
	return len(m.byID), nil
}

// Close makes every later call fail as unavailable.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var errMemoryClosed = errors.New("memory store closed")

// cloneRecord copies rec so the store never shares maps or slices with
// callers.
func cloneRecord(rec *core.LocationRecord) *core.LocationRecord {
	r := *rec
	r.Services = slices.Clone(rec.Services)
	r.Languages = slices.Clone(rec.Languages)
	r.Hours = maps.Clone(rec.Hours)
	if rec.Coordinates != nil {
		c := *rec.Coordinates
		r.Coordinates = &c
	}
	return &r
}
