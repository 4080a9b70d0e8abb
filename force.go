package lattice

import "math"

// PhysicsConfig holds the force and integration constants. Units are canvas
// pixels and simulation steps (one step per frame, Dt = 1).
type PhysicsConfig struct {
	// Repulsion is k in the pairwise k/d^2 repulsion.
	Repulsion float64 `yaml:"repulsion" toml:"repulsion"`
	// RepulsionRadius is the maximum pair distance that repels. It also sizes
	// the spatial index cells.
	RepulsionRadius float64 `yaml:"repulsion_radius" toml:"repulsion_radius"`
	// MaxRepulsion caps a single pair's repulsive magnitude.
	MaxRepulsion float64 `yaml:"max_repulsion" toml:"max_repulsion"`
	// SpringStiffness and SpringRestLength define the Hookean edge force.
	SpringStiffness  float64 `yaml:"spring_stiffness" toml:"spring_stiffness"`
	SpringRestLength float64 `yaml:"spring_rest_length" toml:"spring_rest_length"`
	// CenterGravity pulls every node toward the canvas center per pixel of offset.
	CenterGravity float64 `yaml:"center_gravity" toml:"center_gravity"`
	// PointerRadius bounds the pointer force, which falls off linearly to zero there.
	PointerRadius  float64 `yaml:"pointer_radius" toml:"pointer_radius"`
	PointerAttract float64 `yaml:"pointer_attract" toml:"pointer_attract"`
	PointerRepel   float64 `yaml:"pointer_repel" toml:"pointer_repel"`
	// FormationStrength scales the pull toward formation targets.
	FormationStrength float64 `yaml:"formation_strength" toml:"formation_strength"`
	// FormationBlend is the fraction of the free forces (repulsion, springs,
	// gravity) muted at full formation progress.
	FormationBlend float64 `yaml:"formation_blend" toml:"formation_blend"`
	// Damping multiplies the implicit velocity each step (< 1).
	Damping float64 `yaml:"damping" toml:"damping"`
	Dt      float64 `yaml:"dt" toml:"dt"`
	// Bounce is the fraction of velocity kept (reversed) at the boundary.
	Bounce float64 `yaml:"bounce" toml:"bounce"`
	// Margin keeps nodes this far inside the canvas edge.
	Margin float64 `yaml:"margin" toml:"margin"`
}

// DefaultPhysicsConfig returns the tuned defaults.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Repulsion:         900,
		RepulsionRadius:   110,
		MaxRepulsion:      2.5,
		SpringStiffness:   0.004,
		SpringRestLength:  70,
		CenterGravity:     0.0004,
		PointerRadius:     170,
		PointerAttract:    0.35,
		PointerRepel:      1.1,
		FormationStrength: 0.045,
		FormationBlend:    0.75,
		Damping:           0.9,
		Dt:                1,
		Bounce:            0.5,
		Margin:            8,
	}
}

// PointerMode selects the sign of the pointer force.
type PointerMode uint8

const (
	PointerModeAttract PointerMode = iota
	PointerModeRepel
)

// PointerState is the input snapshot the simulator consumes.
type PointerState struct {
	Active bool
	X, Y   float64
	Mode   PointerMode
}

// ForceSimulator accumulates per-node forces and integrates motion.
type ForceSimulator struct {
	cfg   PhysicsConfig
	grid  *SpatialIndex
	neigh []int
	free  float64 // scale of the free forces for the current step
}

// NewForceSimulator creates a simulator that uses grid for neighbor queries.
// The grid's cell size should be at least cfg.RepulsionRadius.
func NewForceSimulator(cfg PhysicsConfig, grid *SpatialIndex) *ForceSimulator {
	return &ForceSimulator{cfg: cfg, grid: grid, neigh: make([]int, 0, 64), free: 1}
}

// Config returns a pointer to the simulator's config for live tuning.
func (s *ForceSimulator) Config() *PhysicsConfig {
	return &s.cfg
}

// Rebuild clears the spatial index and reinserts every node.
func (s *ForceSimulator) Rebuild(g *Graph) {
	s.grid.Clear()
	for i := range g.X {
		s.grid.Insert(i, g.X[i], g.Y[i])
	}
}

// Accumulate adds every force for this step into g.FX/g.FY. formation is the
// eased formation progress; zero disables the target pull.
func (s *ForceSimulator) Accumulate(g *Graph, bounds Rect, p PointerState, formation float64) {
	s.free = 1 - clamp01(s.cfg.FormationBlend)*clamp01(formation)
	n := len(g.X)
	r2 := s.cfg.RepulsionRadius * s.cfg.RepulsionRadius
	for i := 0; i < n; i++ {
		s.neigh = s.grid.AppendNeighbors(s.neigh[:0], g.X[i], g.Y[i])
		for _, j := range s.neigh {
			if j <= i || j >= n {
				continue
			}
			dx := g.X[j] - g.X[i]
			dy := g.Y[j] - g.Y[i]
			if dx*dx+dy*dy > r2 {
				continue
			}
			s.applyRepulsion(g, i, j)
		}
	}

	for _, c := range g.Conns {
		if !g.ValidConnection(c) {
			continue
		}
		s.applySpring(g, c.A, c.B)
	}

	cx, cy := bounds.Center()
	k := s.cfg.CenterGravity * s.free
	for i := 0; i < n; i++ {
		g.FX[i] += (cx - g.X[i]) * k
		g.FY[i] += (cy - g.Y[i]) * k
	}

	if p.Active {
		s.applyPointer(g, p)
	}
	if formation != 0 {
		s.applyFormation(g, formation)
	}
}

// applyRepulsion pushes i and j apart with equal and opposite forces of
// magnitude min(k/d^2, MaxRepulsion), scaled by the free-force factor.
func (s *ForceSimulator) applyRepulsion(g *Graph, i, j int) {
	dx := g.X[j] - g.X[i]
	dy := g.Y[j] - g.Y[i]
	d2 := dx*dx + dy*dy
	var ux, uy, mag float64
	if d2 < 1e-9 {
		// Coincident: separate along x, lower id to the left.
		ux, uy = 1, 0
		mag = s.cfg.MaxRepulsion
	} else {
		d := math.Sqrt(d2)
		ux, uy = dx/d, dy/d
		mag = math.Min(s.cfg.Repulsion/d2, s.cfg.MaxRepulsion)
	}
	fx, fy := ux*mag*s.free, uy*mag*s.free
	g.FX[i] -= fx
	g.FY[i] -= fy
	g.FX[j] += fx
	g.FY[j] += fy
}

// applySpring pulls or pushes a and b toward the rest length.
func (s *ForceSimulator) applySpring(g *Graph, a, b int) {
	dx := g.X[b] - g.X[a]
	dy := g.Y[b] - g.Y[a]
	d := math.Sqrt(dx*dx + dy*dy)
	if d < 1e-9 {
		return
	}
	mag := (d - s.cfg.SpringRestLength) * s.cfg.SpringStiffness * s.free
	fx, fy := dx/d*mag, dy/d*mag
	g.FX[a] += fx
	g.FY[a] += fy
	g.FX[b] -= fx
	g.FY[b] -= fy
}

func (s *ForceSimulator) applyPointer(g *Graph, p PointerState) {
	radius := s.cfg.PointerRadius
	if radius <= 0 {
		return
	}
	strength := s.cfg.PointerAttract
	if p.Mode == PointerModeRepel {
		strength = -s.cfg.PointerRepel
	}
	for i := range g.X {
		dx := p.X - g.X[i]
		dy := p.Y - g.Y[i]
		d := math.Sqrt(dx*dx + dy*dy)
		if d >= radius || d < 1e-9 {
			continue
		}
		falloff := 1 - d/radius
		g.FX[i] += dx / d * strength * falloff
		g.FY[i] += dy / d * strength * falloff
	}
}

func (s *ForceSimulator) applyFormation(g *Graph, progress float64) {
	k := s.cfg.FormationStrength * progress
	for i := range g.X {
		if !g.HasTarget[i] {
			continue
		}
		g.FX[i] += (g.TargetX[i] - g.X[i]) * k
		g.FY[i] += (g.TargetY[i] - g.Y[i]) * k
	}
}

// Integrate advances every node one Verlet step, zeroes the accumulators and
// keeps nodes inside bounds with a soft bounce.
func (s *ForceSimulator) Integrate(g *Graph, bounds Rect) {
	dt2 := s.cfg.Dt * s.cfg.Dt
	area := bounds.Inset(s.cfg.Margin)
	if area.Width <= 0 || area.Height <= 0 {
		area = bounds
	}
	minX, maxX := area.X, area.X+area.Width
	minY, maxY := area.Y, area.Y+area.Height

	for i := range g.X {
		x, y := g.X[i], g.Y[i]
		vx := (x - g.PrevX[i]) * s.cfg.Damping
		vy := (y - g.PrevY[i]) * s.cfg.Damping
		nx := x + vx + g.FX[i]*dt2
		ny := y + vy + g.FY[i]*dt2

		px, py := x, y
		if nx < minX {
			nx = minX
			px = nx - math.Abs(vx)*s.cfg.Bounce
		} else if nx > maxX {
			nx = maxX
			px = nx + math.Abs(vx)*s.cfg.Bounce
		}
		if ny < minY {
			ny = minY
			py = ny - math.Abs(vy)*s.cfg.Bounce
		} else if ny > maxY {
			ny = maxY
			py = ny + math.Abs(vy)*s.cfg.Bounce
		}

		g.PrevX[i], g.PrevY[i] = px, py
		g.X[i], g.Y[i] = nx, ny
		g.FX[i], g.FY[i] = 0, 0
	}
}
