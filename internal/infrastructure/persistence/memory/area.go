// Package memory implements process-local storage areas.
// Suitable for tests and single-process CLI runs.
package memory

import (
	"context"
	"sync"

	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

// Area is an in-memory storage.Area.
type Area struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ storage.Area = (*Area)(nil)

// NewArea creates an empty Area.
func NewArea() *Area {
	return &Area{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (a *Area) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, shared.ErrStorageKeyEmpty
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (a *Area) Set(_ context.Context, key, value string) error {
	if key == "" {
		return shared.ErrStorageKeyEmpty
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.data[key] = value
	return nil
}

// Delete removes key. Missing keys are ignored.
func (a *Area) Delete(_ context.Context, key string) error {
	if key == "" {
		return shared.ErrStorageKeyEmpty
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.data, key)
	return nil
}

// Len returns the number of stored keys.
func (a *Area) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.data)
}
