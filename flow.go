package lattice

import "math/rand/v2"

// FlowParticle is one reusable slot of a FlowParticlePool.
type FlowParticle struct {
	Alive bool
	Conn  int
	T     float64 // progress along the connection, [0, 1] while alive
	Dir   float64 // +1 travels A→B, -1 travels B→A
	Speed float64 // progress per frame
	Alpha float64 // rendered alpha after end fades
	Size  float64

	baseAlpha float64
}

// FlowParticleConfig controls particle spawning.
type FlowParticleConfig struct {
	Speed Range `yaml:"speed" toml:"speed"`
	Size  Range `yaml:"size" toml:"size"`
	Alpha Range `yaml:"alpha" toml:"alpha"`
	// FadeSpan is the fraction of T over which particles fade in and out.
	FadeSpan float64 `yaml:"fade_span" toml:"fade_span"`
	// Threshold is the minimum connection alpha that may carry particles.
	Threshold float64 `yaml:"threshold" toml:"threshold"`
	// PerNode sizes the pool as a multiple of the node count.
	PerNode float64 `yaml:"per_node" toml:"per_node"`
}

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `yaml:"min" toml:"min"`
	Max float64 `yaml:"max" toml:"max"`
}

// Random returns a value in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// DefaultFlowParticleConfig returns the default particle look.
func DefaultFlowParticleConfig() FlowParticleConfig {
	return FlowParticleConfig{
		Speed:     Range{0.004, 0.012},
		Size:      Range{1.2, 2.4},
		Alpha:     Range{0.55, 0.95},
		FadeSpan:  0.15,
		Threshold: 0.18,
		PerNode:   1.5,
	}
}

// FlowParticlePool is a fixed-capacity arena of particle slots. Slots are
// allocated once; spawning when every slot is alive is a no-op.
type FlowParticlePool struct {
	cfg       FlowParticleConfig
	rng       *rand.Rand
	slots     []FlowParticle
	alive     int
	emitAccum float64
}

// NewFlowParticlePool preallocates capacity slots.
func NewFlowParticlePool(capacity int, cfg FlowParticleConfig, rng *rand.Rand) *FlowParticlePool {
	if capacity < 0 {
		capacity = 0
	}
	return &FlowParticlePool{
		cfg:   cfg,
		rng:   rng,
		slots: make([]FlowParticle, capacity),
	}
}

// Cap returns the pool capacity.
func (p *FlowParticlePool) Cap() int { return len(p.slots) }

// AliveCount returns the number of alive particles.
func (p *FlowParticlePool) AliveCount() int { return p.alive }

// Particles returns the slot array. Dead slots have Alive == false. The
// returned slice MUST NOT be mutated.
func (p *FlowParticlePool) Particles() []FlowParticle { return p.slots }

// Reset kills every particle and resizes the pool to capacity.
func (p *FlowParticlePool) Reset(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity != len(p.slots) {
		p.slots = make([]FlowParticle, capacity)
	} else {
		clear(p.slots)
	}
	p.alive = 0
	p.emitAccum = 0
}

// Spawn claims the first dead slot for a particle riding conn. It reports
// false when the pool is saturated.
func (p *FlowParticlePool) Spawn(conn int) bool {
	if p.alive >= len(p.slots) {
		return false
	}
	for i := range p.slots {
		s := &p.slots[i]
		if s.Alive {
			continue
		}
		s.Alive = true
		s.Conn = conn
		if p.rng.IntN(2) == 0 {
			s.Dir, s.T = 1, 0
		} else {
			s.Dir, s.T = -1, 1
		}
		s.Speed = p.cfg.Speed.Random(p.rng)
		s.Size = p.cfg.Size.Random(p.rng)
		s.baseAlpha = p.cfg.Alpha.Random(p.rng)
		s.Alpha = 0
		p.alive++
		return true
	}
	return false
}

// Emit spawns rate particles per frame on random connections whose alpha is
// above the visibility threshold. Fractional rates accumulate across frames.
func (p *FlowParticlePool) Emit(conns []Connection, rate float64) {
	if rate <= 0 || len(conns) == 0 {
		return
	}
	p.emitAccum += rate
	for p.emitAccum >= 1 {
		p.emitAccum--
		if p.alive >= len(p.slots) {
			continue
		}
		// A few random probes; skipping a frame's spawn on dim graphs is fine.
		for try := 0; try < 4; try++ {
			ci := p.rng.IntN(len(conns))
			if conns[ci].Alpha > p.cfg.Threshold {
				p.Spawn(ci)
				break
			}
		}
	}
	if p.emitAccum > 4 {
		p.emitAccum = 4
	}
}

// Update advances every alive particle. Particles leaving [0, 1] or riding a
// connection that no longer exists are killed.
func (p *FlowParticlePool) Update(g *Graph) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.Alive {
			continue
		}
		if s.Conn < 0 || s.Conn >= len(g.Conns) || !g.ValidConnection(g.Conns[s.Conn]) {
			p.kill(s)
			continue
		}
		s.T += s.Speed * s.Dir
		if s.T < 0 || s.T > 1 {
			p.kill(s)
			continue
		}
		s.Alpha = s.baseAlpha * p.fade(s.T)
	}
}

func (p *FlowParticlePool) kill(s *FlowParticle) {
	s.Alive = false
	p.alive--
}

// fade ramps alpha up near T=0 and down near T=1.
func (p *FlowParticlePool) fade(t float64) float64 {
	span := p.cfg.FadeSpan
	if span <= 0 {
		return 1
	}
	return clamp01(min(t/span, (1-t)/span))
}

// Position interpolates particle i between its connection's live endpoints.
func (p *FlowParticlePool) Position(i int, g *Graph) (x, y float64, ok bool) {
	if i < 0 || i >= len(p.slots) {
		return 0, 0, false
	}
	s := &p.slots[i]
	if !s.Alive || s.Conn < 0 || s.Conn >= len(g.Conns) {
		return 0, 0, false
	}
	c := g.Conns[s.Conn]
	if !g.ValidConnection(c) {
		return 0, 0, false
	}
	return lerp(g.X[c.A], g.X[c.B], s.T), lerp(g.Y[c.A], g.Y[c.B], s.T), true
}
