// Package media hands out short-lived handles for card assets so a display
// can reference binary data by id, and takes them back when the display no
// longer needs them.
package media

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// ErrUnknownHandle is returned for a handle that was never issued or has
// been released.
var ErrUnknownHandle = errors.New("unknown media handle")

// Registry maps handles to assets. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	assets map[string]*types.Asset
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{assets: make(map[string]*types.Asset)}
}

// Acquire registers a copy of asset and returns its handle. A nil asset
// yields an empty handle.
func (r *Registry) Acquire(asset *types.Asset) string {
	if asset == nil {
		return ""
	}
	h := uuid.NewString()
	r.mu.Lock()
	r.assets[h] = asset.Clone()
	r.mu.Unlock()
	return h
}

// Lookup returns the asset behind a live handle.
func (r *Registry) Lookup(handle string) (*types.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[handle]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return a, nil
}

// Release frees a handle. Releasing an unknown handle does nothing.
func (r *Registry) Release(handle string) {
	r.mu.Lock()
	delete(r.assets, handle)
	r.mu.Unlock()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assets)
}

// Set groups the handles owned by one display so they can be released
// together.
type Set struct {
	reg     *Registry
	handles []string
}

// NewSet returns an empty set backed by reg.
func (r *Registry) NewSet() *Set {
	return &Set{reg: r}
}

// Acquire registers asset and remembers the handle for ReleaseAll.
func (s *Set) Acquire(asset *types.Asset) string {
	h := s.reg.Acquire(asset)
	if h != "" {
		s.handles = append(s.handles, h)
	}
	return h
}

// ReleaseAll frees every handle in the set. The set can be reused.
func (s *Set) ReleaseAll() {
	for _, h := range s.handles {
		s.reg.Release(h)
	}
	s.handles = nil
}

// Len returns the number of handles held by the set.
func (s *Set) Len() int {
	return len(s.handles)
}
