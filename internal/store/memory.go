// Package store keeps analyzed datasets in memory for the lifetime of the
// process. Nothing is persisted across restarts.
package store

import (
	"errors"
	"sync"

	"github.com/couchcryptid/temperature-analytics/internal/pipeline"
)

// ErrNotFound is returned when no analysis exists for a dataset ID.
var ErrNotFound = errors.New("no analysis for dataset")

// Memory is a concurrency-safe in-memory analysis store. Analyses are
// immutable snapshots; retention is bounded by entry count, evicting the
// oldest upload first.
type Memory struct {
	mu         sync.RWMutex
	analyses   map[string]*pipeline.Analysis
	order      []string // insertion order, oldest first
	maxEntries int
}

// NewMemory creates a Memory store retaining at most maxEntries analyses.
// maxEntries <= 0 means unlimited.
func NewMemory(maxEntries int) *Memory {
	return &Memory{
		analyses:   make(map[string]*pipeline.Analysis),
		maxEntries: maxEntries,
	}
}

// Put stores an analysis, evicting the oldest entry when over capacity.
func (m *Memory) Put(a *pipeline.Analysis) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.analyses[a.ID]; !ok {
		m.order = append(m.order, a.ID)
	}
	m.analyses[a.ID] = a

	for m.maxEntries > 0 && len(m.order) > m.maxEntries {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.analyses, oldest)
	}
}

// Get returns the analysis for a dataset ID.
func (m *Memory) Get(id string) (*pipeline.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.analyses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// Latest returns the most recently stored analysis.
func (m *Memory) Latest() (*pipeline.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.order) == 0 {
		return nil, ErrNotFound
	}
	return m.analyses[m.order[len(m.order)-1]], nil
}

// Len reports the number of retained analyses.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
