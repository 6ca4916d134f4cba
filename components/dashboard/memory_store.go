package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

var (
	// ErrCanvasNotFound is returned when a canvas id is unknown to the store.
	ErrCanvasNotFound = errors.New("dashboard: canvas not found")
	// ErrCanvasExists is returned when creating a canvas that already exists.
	ErrCanvasExists = errors.New("dashboard: canvas already exists")
	// ErrStaleLayout is returned when a save races with another save.
	ErrStaleLayout = errors.New("dashboard: layout version changed")
)

// InMemoryCanvasStore provides a concurrency-safe default store.
type InMemoryCanvasStore struct {
	mu   sync.RWMutex
	data map[string]grid.Layout
}

// NewInMemoryCanvasStore creates an empty canvas store.
func NewInMemoryCanvasStore() *InMemoryCanvasStore {
	return &InMemoryCanvasStore{
		data: make(map[string]grid.Layout),
	}
}

// Create registers an empty canvas of the given geometry.
func (s *InMemoryCanvasStore) Create(_ context.Context, canvasID string, g grid.Grid) (grid.Layout, error) {
	if canvasID == "" {
		return grid.Layout{}, errInvalidCanvas
	}
	if err := g.Validate(); err != nil {
		return grid.Layout{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[canvasID]; ok {
		return grid.Layout{}, fmt.Errorf("%w: %s", ErrCanvasExists, canvasID)
	}
	layout := grid.EmptyLayout(g)
	s.data[canvasID] = layout
	return layout.Clone(), nil
}

// Load returns a copy of the stored layout.
func (s *InMemoryCanvasStore) Load(_ context.Context, canvasID string) (grid.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	layout, ok := s.data[canvasID]
	if !ok {
		return grid.Layout{}, fmt.Errorf("%w: %s", ErrCanvasNotFound, canvasID)
	}
	return layout.Clone(), nil
}

// Save replaces the stored layout when expectedVersion matches.
func (s *InMemoryCanvasStore) Save(_ context.Context, canvasID string, layout grid.Layout, expectedVersion uint64) error {
	if err := grid.CheckLayout(layout.Grid, layout.Widgets); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.data[canvasID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCanvasNotFound, canvasID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: expected %d, stored %d", ErrStaleLayout, expectedVersion, current.Version)
	}
	s.data[canvasID] = layout.Clone()
	return nil
}

// Delete removes a canvas.
func (s *InMemoryCanvasStore) Delete(_ context.Context, canvasID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[canvasID]; !ok {
		return fmt.Errorf("%w: %s", ErrCanvasNotFound, canvasID)
	}
	delete(s.data, canvasID)
	return nil
}
