package lattice

import "sync"

// Surface describes a drawing surface a Visualization can attach to. Width
// and Height are device pixels; DPR is the device pixel ratio.
type Surface struct {
	ID     string
	Width  int
	Height int
	DPR    float64
}

// CSSSize returns the surface size in device-independent pixels.
func (s Surface) CSSSize() (int, int) {
	dpr := s.DPR
	if dpr <= 0 {
		dpr = 1
	}
	return int(float64(s.Width) / dpr), int(float64(s.Height) / dpr)
}

// SurfaceLookup resolves surface ids for Init.
type SurfaceLookup interface {
	LookupSurface(id string) (Surface, bool)
}

// SurfaceRegistry is a concurrency-safe SurfaceLookup backed by a map.
type SurfaceRegistry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

// NewSurfaceRegistry creates a registry holding the given surfaces.
func NewSurfaceRegistry(surfaces ...Surface) *SurfaceRegistry {
	r := &SurfaceRegistry{surfaces: make(map[string]Surface, len(surfaces))}
	for _, s := range surfaces {
		r.surfaces[s.ID] = s
	}
	return r
}

// Register adds or replaces a surface.
func (r *SurfaceRegistry) Register(s Surface) {
	r.mu.Lock()
	r.surfaces[s.ID] = s
	r.mu.Unlock()
}

// Remove forgets a surface. Visualizations already attached keep running.
func (r *SurfaceRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.surfaces, id)
	r.mu.Unlock()
}

// LookupSurface implements SurfaceLookup.
func (r *SurfaceRegistry) LookupSurface(id string) (Surface, bool) {
	r.mu.RLock()
	s, ok := r.surfaces[id]
	r.mu.RUnlock()
	return s, ok
}
