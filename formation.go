package lattice

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// FormationConfig controls the logo and cluster layouts.
type FormationConfig struct {
	LogoDuration    time.Duration `yaml:"logo_duration" toml:"logo_duration"`
	LogoHold        time.Duration `yaml:"logo_hold" toml:"logo_hold"`
	ClusterDuration time.Duration `yaml:"cluster_duration" toml:"cluster_duration"`
	// LogoWidth is the fraction of the canvas width the word spans.
	LogoWidth float64 `yaml:"logo_width" toml:"logo_width"`
	// LogoSpacing is the stroke sampling distance in pixels.
	LogoSpacing float64 `yaml:"logo_spacing" toml:"logo_spacing"`
	// Jitter displaces padded duplicate targets by up to this many pixels.
	Jitter float64 `yaml:"jitter" toml:"jitter"`
	// Margin keeps targets this far inside the canvas.
	Margin float64 `yaml:"margin" toml:"margin"`
}

// DefaultFormationConfig returns the default formation timings and sizing.
func DefaultFormationConfig() FormationConfig {
	return FormationConfig{
		LogoDuration:    2500 * time.Millisecond,
		LogoHold:        4 * time.Second,
		ClusterDuration: 1200 * time.Millisecond,
		LogoWidth:       0.72,
		LogoSpacing:     7,
		Jitter:          4,
		Margin:          12,
	}
}

const goldenAngle = 2.399963229728653

// FormationPlanner assigns formation targets and tracks the eased progress
// that scales the simulator's target pull. It never moves nodes itself.
type FormationPlanner struct {
	cfg     FormationConfig
	rng     *rand.Rand
	mode    Mode
	elapsed time.Duration
	tween   *progressTween
	pts     []Vec2
}

// NewFormationPlanner creates an idle planner.
func NewFormationPlanner(cfg FormationConfig, rng *rand.Rand) *FormationPlanner {
	return &FormationPlanner{cfg: cfg, rng: rng, mode: ModeFloat}
}

// Mode returns ModeFloat when idle, otherwise the active formation.
func (p *FormationPlanner) Mode() Mode {
	return p.mode
}

// Progress returns the eased pull factor; zero when idle.
func (p *FormationPlanner) Progress() float64 {
	if p.mode == ModeFloat || p.tween == nil {
		return 0
	}
	return p.tween.Value()
}

// StartLogo assigns silhouette targets to every node and restarts the
// elastic transition.
func (p *FormationPlanner) StartLogo(g *Graph, bounds Rect) {
	p.assign(g, p.LogoTargets(g.Len(), bounds))
	p.mode = ModeLogo
	p.elapsed = 0
	p.tween = newProgressTween(p.cfg.LogoDuration, ease.OutElastic)
}

// StartCluster assigns per-category spiral targets. Cluster mode has no
// timeout.
func (p *FormationPlanner) StartCluster(g *Graph, bounds Rect) {
	p.assign(g, p.ClusterTargets(g, bounds))
	p.mode = ModeCluster
	p.elapsed = 0
	p.tween = newProgressTween(p.cfg.ClusterDuration, ease.OutCubic)
}

// Stop returns to free simulation and drops every target.
func (p *FormationPlanner) Stop(g *Graph) {
	p.mode = ModeFloat
	p.tween = nil
	p.elapsed = 0
	g.ClearTargets()
}

// Replan recomputes targets for the active mode without restarting the
// transition. Used after resizes and node reductions.
func (p *FormationPlanner) Replan(g *Graph, bounds Rect) {
	switch p.mode {
	case ModeLogo:
		p.assign(g, p.LogoTargets(g.Len(), bounds))
	case ModeCluster:
		p.assign(g, p.ClusterTargets(g, bounds))
	}
}

// Advance moves the transition clock forward. It reports true when a logo
// formation finished its hold and the planner reverted to free simulation.
func (p *FormationPlanner) Advance(g *Graph, dt time.Duration) bool {
	if p.mode == ModeFloat || p.tween == nil {
		return false
	}
	p.tween.Update(dt)
	p.elapsed += dt
	if p.mode == ModeLogo && p.elapsed >= p.cfg.LogoDuration+p.cfg.LogoHold {
		p.Stop(g)
		return true
	}
	return false
}

func (p *FormationPlanner) assign(g *Graph, pts []Vec2) {
	for i := range g.X {
		if i >= len(pts) {
			g.HasTarget[i] = false
			continue
		}
		g.TargetX[i] = pts[i].X
		g.TargetY[i] = pts[i].Y
		g.HasTarget[i] = true
	}
}

// LogoTargets returns exactly n shuffled points along the logo strokes,
// scaled and centered inside bounds. The returned slice is reused by the
// next call.
func (p *FormationPlanner) LogoTargets(n int, bounds Rect) []Vec2 {
	if n <= 0 {
		return nil
	}
	area := bounds.Inset(p.cfg.Margin)
	if area.Width <= 0 || area.Height <= 0 {
		area = bounds
	}
	strokes, wordW := wordStrokes(logoWord)
	scale := math.Min(area.Width*p.cfg.LogoWidth/wordW, area.Height*0.32)
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	ox := area.X + (area.Width-wordW*scale)/2
	oy := area.Y + (area.Height-scale)/2

	spacing := p.cfg.LogoSpacing
	if spacing <= 0 {
		spacing = 7
	}
	samples := sampleStrokes(strokes, spacing/scale)

	p.pts = p.pts[:0]
	m := len(samples)
	switch {
	case m == 0:
		cx, cy := area.Center()
		for i := 0; i < n; i++ {
			p.pts = append(p.pts, Vec2{cx + p.jitter(), cy + p.jitter()})
		}
	case m >= n:
		for k := 0; k < n; k++ {
			s := samples[k*m/n]
			p.pts = append(p.pts, Vec2{ox + s.X*scale, oy + s.Y*scale})
		}
	default:
		for _, s := range samples {
			p.pts = append(p.pts, Vec2{ox + s.X*scale, oy + s.Y*scale})
		}
		for len(p.pts) < n {
			s := samples[p.rng.IntN(m)]
			p.pts = append(p.pts, Vec2{ox + s.X*scale + p.jitter(), oy + s.Y*scale + p.jitter()})
		}
	}

	p.rng.Shuffle(len(p.pts), func(i, j int) {
		p.pts[i], p.pts[j] = p.pts[j], p.pts[i]
	})
	return clampPoints(p.pts, area)
}

// ClusterTargets places each node on a loose spiral inside its category's
// grid region.
func (p *FormationPlanner) ClusterTargets(g *Graph, bounds Rect) []Vec2 {
	n := g.Len()
	if n == 0 {
		return nil
	}
	area := bounds.Inset(p.cfg.Margin)
	if area.Width <= 0 || area.Height <= 0 {
		area = bounds
	}
	regions := ClusterRegions(area)

	var counts [categoryCount]int
	for i := range g.Info {
		counts[clampCategory(g.Info[i].Category)]++
	}

	var seen [categoryCount]int
	out := make([]Vec2, n)
	for i := range g.Info {
		c := clampCategory(g.Info[i].Category)
		r := regions[c]
		cx, cy := r.Center()
		maxR := 0.4 * math.Min(r.Width, r.Height)
		spacing := maxR / math.Sqrt(float64(max(counts[c], 1)))
		j := seen[c]
		seen[c]++
		radius := spacing * math.Sqrt(float64(j)+0.5)
		angle := float64(j)*goldenAngle + p.rng.Float64()*0.3
		out[i] = Vec2{cx + math.Cos(angle)*radius, cy + math.Sin(angle)*radius}
	}
	return clampPoints(out, area)
}

// ClusterRegions splits area into one grid cell per category.
func ClusterRegions(area Rect) []Rect {
	k := int(categoryCount)
	cols := int(math.Ceil(math.Sqrt(float64(k))))
	rows := (k + cols - 1) / cols
	cw := area.Width / float64(cols)
	ch := area.Height / float64(rows)
	out := make([]Rect, k)
	for c := 0; c < k; c++ {
		col, row := c%cols, c/cols
		out[c] = Rect{X: area.X + float64(col)*cw, Y: area.Y + float64(row)*ch, Width: cw, Height: ch}
	}
	return out
}

func clampCategory(c Category) Category {
	if c >= categoryCount {
		return CategoryModel
	}
	return c
}

func (p *FormationPlanner) jitter() float64 {
	return (p.rng.Float64()*2 - 1) * p.cfg.Jitter
}

func clampPoints(pts []Vec2, area Rect) []Vec2 {
	for i := range pts {
		pts[i].X = clamp(pts[i].X, area.X, area.X+area.Width)
		pts[i].Y = clamp(pts[i].Y, area.Y, area.Y+area.Height)
	}
	return pts
}
