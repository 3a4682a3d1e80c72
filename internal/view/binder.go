package view

import (
	"fmt"
	"sync"

	"github.com/socialsphere/socialsphere-app/internal/state"
)

// RegionBuffer holds the latest rendered markup for one view region.
// The embedding shell reads HTML() and swaps it into its widget tree.
type RegionBuffer struct {
	mu      sync.RWMutex
	html    string
	renders int
}

// SetHTML replaces the region's markup wholesale.
func (r *RegionBuffer) SetHTML(html string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.html = html
	r.renders++
}

// HTML returns the region's current markup.
func (r *RegionBuffer) HTML() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.html
}

// RenderCount returns how many times the region has been rendered.
func (r *RegionBuffer) RenderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renders
}

// Binder maps region names to their buffers. Required regions are
// checked once at startup; a missing region is a startup error, not a
// silent per-render no-op.
type Binder struct {
	regions map[state.Region]*RegionBuffer
}

// requiredRegions must all be bound before rendering starts.
var requiredRegions = []state.Region{
	state.RegionFeed,
	state.RegionNotifications,
	state.RegionHeader,
	state.RegionSearch,
	state.RegionPage,
	state.RegionActivity,
	state.RegionActiveUsers,
}

// NewBinder creates a binder with every required region registered.
func NewBinder() *Binder {
	b := &Binder{regions: make(map[state.Region]*RegionBuffer, len(requiredRegions))}
	for _, name := range requiredRegions {
		b.regions[name] = &RegionBuffer{}
	}
	return b
}

// Validate checks that every required region is bound.
func (b *Binder) Validate() error {
	for _, name := range requiredRegions {
		if _, ok := b.regions[name]; !ok {
			return fmt.Errorf("required view region %q is not bound", name)
		}
	}
	return nil
}

// Region returns the buffer for a bound region.
func (b *Binder) Region(name state.Region) (*RegionBuffer, error) {
	region, ok := b.regions[name]
	if !ok {
		return nil, fmt.Errorf("view region %q is not bound", name)
	}
	return region, nil
}
