// Package store provides an in-memory engine.Store implementation
// for testing and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/capacity-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu             sync.RWMutex
	resources      []engine.Resource
	allocations    map[engine.ResourceID][]engine.AllocationPeriod
	availability   map[engine.ResourceID][]engine.AvailabilityRecord
	unavailability map[engine.ResourceID][]engine.UnavailabilityPeriod
}

func NewMemory() *Memory {
	return &Memory{
		allocations:    make(map[engine.ResourceID][]engine.AllocationPeriod),
		availability:   make(map[engine.ResourceID][]engine.AvailabilityRecord),
		unavailability: make(map[engine.ResourceID][]engine.UnavailabilityPeriod),
	}
}

// Compile-time check that Memory implements engine.Store.
var _ engine.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// Writes (not part of engine.Store; used by tests and scenario loaders)
// -----------------------------------------------------------------------------

func (m *Memory) PutResource(r engine.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.resources {
		if existing.ID == r.ID {
			m.resources[i] = r
			return
		}
	}
	m.resources = append(m.resources, r)
}

// PutAllocation inserts keeping per-resource records sorted by StartDate.
func (m *Memory) PutAllocation(a engine.AllocationPeriod) {
	m.mu.Lock()
	defer m.mu.Unlock()

	periods := m.allocations[a.ResourceID]
	i := sort.Search(len(periods), func(i int) bool {
		return periods[i].StartDate.After(a.StartDate)
	})
	periods = append(periods, engine.AllocationPeriod{})
	copy(periods[i+1:], periods[i:])
	periods[i] = a
	m.allocations[a.ResourceID] = periods
}

// PutAvailability inserts keeping the history sorted by EffectiveFrom,
// which is what the last-element resolution policy expects.
func (m *Memory) PutAvailability(r engine.AvailabilityRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.availability[r.ResourceID]
	i := sort.Search(len(history), func(i int) bool {
		return history[i].EffectiveFrom.After(r.EffectiveFrom)
	})
	history = append(history, engine.AvailabilityRecord{})
	copy(history[i+1:], history[i:])
	history[i] = r
	m.availability[r.ResourceID] = history
}

func (m *Memory) PutUnavailability(u engine.UnavailabilityPeriod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailability[u.ResourceID] = append(m.unavailability[u.ResourceID], u)
}

// -----------------------------------------------------------------------------
// engine.Store
// -----------------------------------------------------------------------------

func (m *Memory) Resources(_ context.Context) ([]engine.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]engine.Resource, len(m.resources))
	copy(result, m.resources)
	return result, nil
}

func (m *Memory) Resource(_ context.Context, id engine.ResourceID) (engine.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.resources {
		if r.ID == id {
			return r, nil
		}
	}
	return engine.Resource{}, engine.ErrResourceNotFound
}

func (m *Memory) AllocationsInRange(_ context.Context, id engine.ResourceID, from, to engine.TimePoint) ([]engine.AllocationPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.AllocationPeriod
	for _, a := range m.allocations[id] {
		if a.StartDate.BeforeOrEqual(to) && a.EndDate.AfterOrEqual(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *Memory) AvailabilityHistory(_ context.Context, id engine.ResourceID) ([]engine.AvailabilityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.AvailabilityRecord, len(m.availability[id]))
	copy(result, m.availability[id])
	return result, nil
}

func (m *Memory) UnavailabilityInRange(_ context.Context, id engine.ResourceID, from, to engine.TimePoint) ([]engine.UnavailabilityPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.UnavailabilityPeriod
	for _, u := range m.unavailability[id] {
		if u.StartDate.BeforeOrEqual(to) && u.EndDate.AfterOrEqual(from) {
			result = append(result, u)
		}
	}
	return result, nil
}
