package lattice

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	hoverScale      = 1.4
	pulseAmplitude  = 0.12
	pulseSpeed      = 1.8 // radians per second
	hoverBoost      = 0.5
	pointerBoost    = 0.35
	activeThreshold = 0.15
	dashSpeed       = 0.6 // pixels per frame
	settleSteps     = 120
)

// Visualization is an attached, running instance. It owns every entity
// array; multiple instances are fully independent. Obtain one with Init and
// release it with Destroy.
type Visualization struct {
	surface Surface
	opts    Options
	log     *slog.Logger
	rng     *rand.Rand
	seed    uint64
	tier    DeviceTier
	bounds  Rect

	graph    *Graph
	grid     *SpatialIndex
	sim      *ForceSimulator
	planner  *FormationPlanner
	pool     *FlowParticlePool
	quality  *QualityController
	input    *InputController
	renderer *Renderer

	pointer PointerState
	clock   time.Duration
	frame   uint64
	live    bool

	resizePending bool
	resizeW       int
	resizeH       int
	resizeAt      time.Duration

	static    bool // reduced motion: one pre-settled frame
	dirty     bool // static frame needs a redraw
	destroyed bool

	sink       EventSink
	hoverPrev  int
	testRunner *TestRunner

	screenshotQueue []string
	stats           debugStats
}

// Init attaches a new visualization to the surface registered as id. It
// returns nil after logging a warning when the surface cannot be found.
func Init(surfaces SurfaceLookup, id string, opts Options) *Visualization {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "lattice", "surface", id)

	if surfaces == nil {
		log.Warn("no surface lookup; visualization not started")
		return nil
	}
	surf, ok := surfaces.LookupSurface(id)
	if !ok {
		log.Warn("surface not found; visualization not started")
		return nil
	}
	if surf.Width <= 0 || surf.Height <= 0 {
		log.Warn("surface has no area; visualization not started",
			"width", surf.Width, "height", surf.Height)
		return nil
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	tier := opts.Tier
	if tier == TierAuto {
		w, h := surf.CSSSize()
		tier = DetectTier(w, h, surf.DPR)
	}
	n := opts.resolveNodeCount(tier)
	bounds := Rect{Width: float64(surf.Width), Height: float64(surf.Height)}

	if opts.HoverRadius <= 0 {
		opts.HoverRadius = DefaultOptions().HoverRadius
	}
	cell := math.Max(opts.Physics.RepulsionRadius, opts.HoverRadius)
	grid := NewSpatialIndex(bounds.Width, bounds.Height, cell)

	v := &Visualization{
		surface:  surf,
		opts:     opts,
		log:      log,
		rng:      rng,
		seed:     seed,
		tier:     tier,
		bounds:   bounds,
		graph:    NewGraph(n, bounds, opts.Labels, rng),
		grid:     grid,
		sim:      NewForceSimulator(opts.Physics, grid),
		planner:  NewFormationPlanner(opts.Formation, rng),
		pool:     NewFlowParticlePool(particleCapacity(n, opts.Particles), opts.Particles, rng),
		quality:  NewQualityController(opts.Quality),
		input:    NewInputController(opts.HoverRadius, bounds.Width, bounds.Height),
		renderer: NewRenderer(surf.DPR),
	}
	v.hoverPrev = -1

	switch {
	case opts.ReducedMotion:
		v.settle(settleSteps)
		v.static = true
		v.dirty = true
	case opts.AutoFormLogo:
		v.planner.StartLogo(v.graph, v.bounds)
	}

	log.Info("visualization initialized",
		"nodes", n, "connections", len(v.graph.Conns), "tier", tier,
		"seed", seed, "reduced_motion", opts.ReducedMotion)
	return v
}

func particleCapacity(nodes int, cfg FlowParticleConfig) int {
	per := cfg.PerNode
	if per <= 0 {
		per = 1
	}
	return int(math.Ceil(float64(nodes) * per))
}

// Destroy stops the visualization and releases every entity array and
// pooled object. Safe to call more than once.
func (v *Visualization) Destroy() {
	if v == nil || v.destroyed {
		return
	}
	v.destroyed = true
	if v.renderer != nil {
		v.renderer.Dispose()
	}
	v.graph = nil
	v.pool = nil
	v.grid = nil
	v.sim = nil
	v.input = nil
	v.testRunner = nil
	v.sink = nil
	v.screenshotQueue = nil
	v.log.Info("visualization destroyed")
}

// Destroyed reports whether Destroy has been called.
func (v *Visualization) Destroyed() bool { return v.destroyed }

// Mode returns the current visualization mode.
func (v *Visualization) Mode() Mode {
	if v.destroyed {
		return ModeFloat
	}
	return v.planner.Mode()
}

// FormLogo starts the silhouette formation from the current state. It is
// allowed from every mode, including cluster.
func (v *Visualization) FormLogo() {
	if v.destroyed || v.static {
		return
	}
	prev := v.planner.Mode()
	v.planner.StartLogo(v.graph, v.bounds)
	v.emitMode(prev)
}

// SetMode switches modes. Cluster cannot go straight to logo; call FormLogo
// to re-trigger the formation explicitly. It reports whether the switch
// happened.
func (v *Visualization) SetMode(m Mode) bool {
	if v.destroyed || v.static {
		return false
	}
	prev := v.planner.Mode()
	switch m {
	case ModeFloat:
		v.planner.Stop(v.graph)
	case ModeLogo:
		if v.planner.Mode() == ModeCluster {
			v.log.Warn("refused mode change", "from", ModeCluster, "to", ModeLogo)
			return false
		}
		v.planner.StartLogo(v.graph, v.bounds)
	case ModeCluster:
		v.planner.StartCluster(v.graph, v.bounds)
	default:
		v.log.Warn("refused mode change", "to", m)
		return false
	}
	v.emitMode(prev)
	return true
}

// Resize requests a new surface size in device pixels. Requests are
// coalesced; the last one is applied once no newer request arrived within
// Options.ResizeDebounce.
func (v *Visualization) Resize(width, height int) {
	if v.destroyed || width <= 0 || height <= 0 {
		return
	}
	if v.resizePending && width == v.resizeW && height == v.resizeH {
		return
	}
	if !v.resizePending && width == v.surface.Width && height == v.surface.Height {
		return
	}
	v.resizePending = true
	v.resizeW, v.resizeH = width, height
	v.resizeAt = v.clock
}

func (v *Visualization) applyPendingResize() {
	if !v.resizePending || v.clock-v.resizeAt < v.opts.ResizeDebounce {
		return
	}
	v.resizePending = false
	if v.resizeW == v.surface.Width && v.resizeH == v.surface.Height {
		return
	}
	v.surface.Width, v.surface.Height = v.resizeW, v.resizeH
	v.bounds = Rect{Width: float64(v.resizeW), Height: float64(v.resizeH)}
	v.grid.Resize(v.bounds.Width, v.bounds.Height)
	v.input.SetSize(v.bounds.Width, v.bounds.Height)
	v.renderer.Invalidate()
	v.planner.Replan(v.graph, v.bounds)
	if v.static {
		v.settle(settleSteps)
		v.dirty = true
	}
	v.log.Debug("surface resized", "width", v.resizeW, "height", v.resizeH)
}

// Tick advances the visualization by one frame. dt is the time since the
// previous frame; it drives quality sampling, formation timing and pulses,
// while physics always advances one step per tick.
func (v *Visualization) Tick(dt time.Duration) {
	if v.destroyed {
		return
	}
	v.frame++
	v.clock += dt
	if v.testRunner != nil {
		v.testRunner.step(v)
	}

	var t0 time.Time
	if v.opts.Debug {
		t0 = time.Now()
	}

	v.input.Poll(v.live)
	v.applyPendingResize()
	if v.static {
		return
	}
	v.stats.input = v.lap(&t0)

	v.sampleQuality(dt)
	v.stats.quality = v.lap(&t0)

	v.sim.Rebuild(v.graph)
	v.input.Resolve(v.graph, v.grid)
	v.pointer = v.input.Pointer()
	v.stats.spatial = v.lap(&t0)

	v.sim.Accumulate(v.graph, v.bounds, v.pointer, v.planner.Progress())
	v.stats.forces = v.lap(&t0)

	v.sim.Integrate(v.graph, v.bounds)
	v.stats.integrate = v.lap(&t0)

	if v.planner.Advance(v.graph, dt) {
		v.log.Debug("logo formation released")
		v.emitMode(ModeLogo)
	}
	v.stats.formation = v.lap(&t0)

	features := v.quality.Level().Features()
	v.pool.Emit(v.graph.Conns, features.ParticleRate)
	v.pool.Update(v.graph)
	v.stats.particles = v.lap(&t0)

	v.updateVisuals(features)
	v.stats.visuals = v.lap(&t0)
}

func (v *Visualization) lap(t0 *time.Time) time.Duration {
	if !v.opts.Debug {
		return 0
	}
	now := time.Now()
	d := now.Sub(*t0)
	*t0 = now
	return d
}

func (v *Visualization) sampleQuality(dt time.Duration) {
	before := v.quality.Level()
	switch v.quality.Sample(dt) {
	case QualityLowered:
		v.log.Info("quality lowered", "from", before, "to", v.quality.Level(),
			"fps", v.quality.AverageFPS())
		v.emit(Event{Type: EventQualityChange, Quality: v.quality.Level(), PrevQuality: before})
	case QualityRaised:
		v.log.Info("quality raised", "from", before, "to", v.quality.Level(),
			"fps", v.quality.AverageFPS())
		v.emit(Event{Type: EventQualityChange, Quality: v.quality.Level(), PrevQuality: before})
	case QualityReduceNodes:
		v.reduceNodes()
	}
}

// reduceNodes performs the one-time structural degradation: shrink to the
// tier's reduced count, rebuild connections and resize the particle pool.
func (v *Visualization) reduceNodes() {
	from := v.graph.Len()
	to := v.tier.ReducedNodeCount()
	if to >= from {
		v.log.Warn("frame rate below floor; node count already at reduced size", "nodes", from)
		return
	}
	v.graph.Truncate(to, v.rng)
	v.pool.Reset(particleCapacity(to, v.opts.Particles))
	v.input.forget(to)
	if v.hoverPrev >= to {
		v.hoverPrev = -1
	}
	v.planner.Replan(v.graph, v.bounds)
	v.log.Warn("frame rate below floor; reduced node count",
		"from", from, "to", to, "connections", len(v.graph.Conns))
	v.emit(Event{Type: EventNodesReduced, Quality: v.quality.Level(), PrevQuality: v.quality.Level(), Nodes: to, PrevNodes: from})
}

// updateVisuals derives the per-frame render state: pulses, hover, ripples,
// connection emphasis and trails.
func (v *Visualization) updateVisuals(features QualityFeatures) {
	g := v.graph
	hovered := v.input.Hovered()
	secs := v.clock.Seconds()
	p := v.pointer
	reach := v.sim.cfg.PointerRadius

	if hovered != v.hoverPrev {
		v.emitNode(EventHoverEnd, v.hoverPrev)
		v.emitNode(EventHoverStart, hovered)
		v.hoverPrev = hovered
	}
	for _, i := range v.input.Clicks() {
		if i >= 0 && i < g.Len() {
			g.Info[i].Ripple = Ripple{Radius: g.Info[i].Radius, Alpha: 1}
			v.emitNode(EventNodeClick, i)
		}
	}

	for i := range g.Info {
		info := &g.Info[i]
		info.Hovered = i == hovered
		scale := 1 + pulseAmplitude*math.Sin(secs*pulseSpeed+info.Phase)
		if info.Hovered {
			scale *= hoverScale
		}
		info.Radius = info.BaseRadius * scale
		info.Active = info.Hovered
		if p.Active && reach > 0 {
			info.Active = info.Active || sq(g.X[i]-p.X)+sq(g.Y[i]-p.Y) < sq(reach*0.5)
		}

		if info.Ripple.Active() {
			info.Ripple.Radius += rippleGrowth
			info.Ripple.Alpha *= rippleDecay
		} else {
			info.Ripple = Ripple{}
		}

		if features.Trails {
			info.Trail.Push(Vec2{g.X[i], g.Y[i]})
		} else if info.Trail.Len() > 0 {
			info.Trail.Reset()
		}
	}

	for ci := range g.Conns {
		c := &g.Conns[ci]
		if !g.ValidConnection(*c) {
			c.Alpha, c.Active = 0, false
			continue
		}
		boost := 0.0
		if c.A == hovered || c.B == hovered {
			boost = hoverBoost
		} else if p.Active && reach > 0 {
			mx := (g.X[c.A] + g.X[c.B]) / 2
			my := (g.Y[c.A] + g.Y[c.B]) / 2
			d := math.Sqrt(sq(mx-p.X) + sq(my-p.Y))
			if d < reach {
				boost = pointerBoost * (1 - d/reach)
			}
		}
		c.Alpha = math.Min(1, c.BaseAlpha+boost)
		c.Active = boost > activeThreshold
		if c.Active {
			c.DashOffset = math.Mod(c.DashOffset+dashSpeed, dashPeriod)
		}
	}
}

// settle runs physics without formation, pointer or visuals. Used to
// pre-settle the reduced-motion frame.
func (v *Visualization) settle(steps int) {
	for range steps {
		v.sim.Rebuild(v.graph)
		v.sim.Accumulate(v.graph, v.bounds, PointerState{}, 0)
		v.sim.Integrate(v.graph, v.bounds)
	}
	for i := range v.graph.Info {
		v.graph.Info[i].Radius = v.graph.Info[i].BaseRadius
	}
}

// Draw renders the current frame onto screen. Rendering only reads state.
// In reduced-motion mode the frame is drawn once and then left untouched.
func (v *Visualization) Draw(screen *ebiten.Image) {
	if v.destroyed {
		return
	}
	if v.static && !v.dirty {
		v.flushScreenshots(screen)
		return
	}
	var t0 time.Time
	if v.opts.Debug {
		t0 = time.Now()
	}
	v.renderer.Draw(screen, v.frameState())
	v.dirty = false
	v.stats.draw = v.lap(&t0)
	v.debugLog()
	v.flushScreenshots(screen)
}

func (v *Visualization) frameState() Frame {
	return Frame{
		Graph:     v.graph,
		Particles: v.pool,
		Pointer:   v.pointer,
		Hovered:   v.input.Hovered(),
		Mode:      v.planner.Mode(),
		Quality:   v.quality.Level(),
		Bounds:    v.bounds,
		PointerR:  v.sim.cfg.PointerRadius,
	}
}

// Graph exposes the simulation state for inspection. The returned value
// MUST NOT be mutated.
func (v *Visualization) Graph() *Graph { return v.graph }

// Quality returns the current quality level.
func (v *Visualization) Quality() QualityLevel { return v.quality.Level() }

// Particles returns the flow-particle pool.
func (v *Visualization) Particles() *FlowParticlePool { return v.pool }

// Tier returns the device tier the visualization was sized for.
func (v *Visualization) Tier() DeviceTier { return v.tier }

// Seed returns the random seed, useful for reproducing a layout.
func (v *Visualization) Seed() uint64 { return v.seed }

// Bounds returns the current simulation bounds in device pixels.
func (v *Visualization) Bounds() Rect { return v.bounds }

// SetLiveInput enables reading mouse and touch input from Ebitengine during
// Tick. Run enables it; custom game loops call it once before the first
// Tick. Injected events are processed either way.
func (v *Visualization) SetLiveInput(on bool) { v.live = on }

// Static reports whether the visualization renders a single reduced-motion
// frame.
func (v *Visualization) Static() bool { return v.static }
