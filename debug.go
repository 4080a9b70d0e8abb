package lattice

import "time"

// debugLogEvery is the frame interval between debug timing lines.
const debugLogEvery = 120

// debugStats holds per-phase timings for the most recent frame.
// Only populated when Options.Debug is true.
type debugStats struct {
	input     time.Duration
	quality   time.Duration
	spatial   time.Duration
	forces    time.Duration
	integrate time.Duration
	formation time.Duration
	particles time.Duration
	visuals   time.Duration
	draw      time.Duration
}

func (s debugStats) total() time.Duration {
	return s.input + s.quality + s.spatial + s.forces + s.integrate +
		s.formation + s.particles + s.visuals + s.draw
}

// debugLog emits frame timings and entity counts at debug level.
func (v *Visualization) debugLog() {
	if !v.opts.Debug || v.frame%debugLogEvery != 0 {
		return
	}
	s := v.stats
	v.log.Debug("frame timings",
		"frame", v.frame,
		"spatial", s.spatial,
		"forces", s.forces,
		"integrate", s.integrate,
		"formation", s.formation,
		"particles", s.particles,
		"visuals", s.visuals,
		"draw", s.draw,
		"total", s.total())
	v.log.Debug("frame counts",
		"nodes", v.graph.Len(),
		"connections", len(v.graph.Conns),
		"particles", v.pool.AliveCount(),
		"particle_cap", v.pool.Cap(),
		"quality", v.quality.Level(),
		"fps", v.quality.AverageFPS(),
		"mode", v.planner.Mode())
}
