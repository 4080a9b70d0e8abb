package lattice

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Layer identifies one pass of the render pipeline.
type Layer uint8

const (
	LayerGrid        Layer = iota // precomputed background tile
	LayerGlow                     // pointer proximity glow
	LayerTrails                   // node motion trails
	LayerConnections              // edges
	LayerParticles                // flow particles
	LayerNodes                    // halos, bodies, ripples and the hovered label
	LayerLegend                   // category legend overlay
)

func (l Layer) String() string {
	switch l {
	case LayerGrid:
		return "grid"
	case LayerGlow:
		return "glow"
	case LayerTrails:
		return "trails"
	case LayerConnections:
		return "connections"
	case LayerParticles:
		return "particles"
	case LayerNodes:
		return "nodes"
	case LayerLegend:
		return "legend"
	default:
		return "unknown"
	}
}

const (
	dashLen       = 6.0
	dashGap       = 4.0
	dashPeriod    = dashLen + dashGap
	gradientSteps = 4
	haloScale     = 3.2
	glowAlpha     = 0.16
)

var (
	backgroundColor = hexColor(0x070b14)
	glowAttract     = hexColor(0x38bdf8)
	glowRepel       = hexColor(0xf43f5e)
)

// Frame is the read-only state a Renderer draws.
type Frame struct {
	Graph     *Graph
	Particles *FlowParticlePool
	Pointer   PointerState
	Hovered   int
	Mode      Mode
	Quality   QualityLevel
	Bounds    Rect
	PointerR  float64
}

// LayerPlan appends the layers drawn for a frame, in draw order, to dst.
func LayerPlan(dst []Layer, q QualityLevel, m Mode, pointerActive bool) []Layer {
	f := q.Features()
	if f.Grid {
		dst = append(dst, LayerGrid)
	}
	if f.Glow && pointerActive {
		dst = append(dst, LayerGlow)
	}
	if f.Trails {
		dst = append(dst, LayerTrails)
	}
	dst = append(dst, LayerConnections, LayerParticles, LayerNodes)
	if m == ModeCluster {
		dst = append(dst, LayerLegend)
	}
	return dst
}

// Renderer draws frames with Ebitengine's vector and text packages. It
// never mutates the simulation.
type Renderer struct {
	scale   float64 // device pixel ratio; scales strokes and text
	grid    gridTile
	glow    glowCache
	font    *labelFont
	fontErr error
	layers  []Layer
	dashes  []segment
}

// NewRenderer creates a renderer for a surface with the given device pixel
// ratio. GPU resources are created lazily on the first Draw.
func NewRenderer(dpr float64) *Renderer {
	if dpr <= 0 {
		dpr = 1
	}
	return &Renderer{scale: dpr}
}

// Invalidate marks size-dependent resources for regeneration.
func (r *Renderer) Invalidate() {
	r.grid.invalidate()
}

// Dispose releases every GPU resource.
func (r *Renderer) Dispose() {
	r.grid.dispose()
	r.glow.dispose()
	r.font = nil
}

// Draw renders f onto screen in fixed layer order.
func (r *Renderer) Draw(screen *ebiten.Image, f Frame) {
	screen.Fill(backgroundColor.RGBA())
	if f.Graph == nil {
		return
	}
	features := f.Quality.Features()
	r.layers = LayerPlan(r.layers[:0], f.Quality, f.Mode, f.Pointer.Active)
	for _, l := range r.layers {
		switch l {
		case LayerGrid:
			r.drawGrid(screen, f)
		case LayerGlow:
			r.drawGlow(screen, f)
		case LayerTrails:
			r.drawTrails(screen, f)
		case LayerConnections:
			r.drawConnections(screen, f, features)
		case LayerParticles:
			r.drawParticles(screen, f)
		case LayerNodes:
			r.drawNodes(screen, f)
		case LayerLegend:
			if lf := r.labelFont(); lf != nil {
				lf.drawLegend(screen, f.Bounds, r.scale)
			}
		}
	}
}

func (r *Renderer) labelFont() *labelFont {
	if r.font == nil && r.fontErr == nil {
		r.font, r.fontErr = newLabelFont(labelSize * r.scale)
	}
	return r.font
}

func (r *Renderer) drawGrid(screen *ebiten.Image, f Frame) {
	img := r.grid.ensure(int(f.Bounds.Width), int(f.Bounds.Height), r.scale)
	if img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(f.Bounds.X, f.Bounds.Y)
	screen.DrawImage(img, &op)
}

func (r *Renderer) drawGlow(screen *ebiten.Image, f Frame) {
	tint := glowAttract
	if f.Pointer.Mode == PointerModeRepel {
		tint = glowRepel
	}
	r.glow.draw(screen, f.Pointer.X, f.Pointer.Y, f.PointerR, tint, glowAlpha, ebiten.BlendLighter)
}

func (r *Renderer) drawTrails(screen *ebiten.Image, f Frame) {
	g := f.Graph
	for i := range g.Info {
		info := &g.Info[i]
		n := info.Trail.Len()
		if n < 2 {
			continue
		}
		c := info.Category.Color()
		width := float32(info.BaseRadius * 0.6 * r.scale)
		for k := 1; k < n; k++ {
			a, b := info.Trail.At(k-1), info.Trail.At(k)
			alpha := 0.35 * info.Alpha * float64(k) / float64(n)
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y),
				width, c.WithAlpha(alpha).RGBA(), true)
		}
	}
}

func (r *Renderer) drawConnections(screen *ebiten.Image, f Frame, features QualityFeatures) {
	g := f.Graph
	for ci := range g.Conns {
		c := &g.Conns[ci]
		if !g.ValidConnection(*c) || c.Alpha <= 0 {
			continue
		}
		x0, y0 := g.X[c.A], g.Y[c.A]
		x1, y1 := g.X[c.B], g.Y[c.B]
		ca := g.Info[c.A].Category.Color()
		cb := g.Info[c.B].Category.Color()
		width := float32(r.scale)
		if c.Active {
			width *= 1.4
		}

		r.dashes = r.dashes[:0]
		switch {
		case features.DashedEdges && c.Active:
			r.dashes = dashSegments(r.dashes, x0, y0, x1, y1, dashLen*r.scale, dashGap*r.scale, c.DashOffset*r.scale)
		case features.GradientEdges:
			r.dashes = splitSegment(r.dashes, x0, y0, x1, y1, gradientSteps)
		default:
			r.dashes = append(r.dashes, segment{X0: x0, Y0: y0, X1: x1, Y1: y1, T0: 0, T1: 1})
		}

		for _, s := range r.dashes {
			col := ca.Lerp(cb, 0.5)
			if features.GradientEdges {
				col = ca.Lerp(cb, (s.T0+s.T1)/2)
			}
			vector.StrokeLine(screen, float32(s.X0), float32(s.Y0), float32(s.X1), float32(s.Y1),
				width, col.WithAlpha(c.Alpha).RGBA(), true)
		}
	}
}

func (r *Renderer) drawParticles(screen *ebiten.Image, f Frame) {
	if f.Particles == nil {
		return
	}
	g := f.Graph
	for i, p := range f.Particles.Particles() {
		if !p.Alive || p.Alpha <= 0 {
			continue
		}
		x, y, ok := f.Particles.Position(i, g)
		if !ok {
			continue
		}
		c := g.Conns[p.Conn]
		col := g.Info[c.A].Category.Color().Lerp(g.Info[c.B].Category.Color(), p.T).Lerp(ColorWhite, 0.4)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(p.Size*r.scale),
			col.WithAlpha(p.Alpha).RGBA(), true)
	}
}

func (r *Renderer) drawNodes(screen *ebiten.Image, f Frame) {
	g := f.Graph
	for i := range g.Info {
		info := &g.Info[i]
		x, y := g.X[i], g.Y[i]
		c := info.Category.Color()
		rad := info.Radius * r.scale

		halo := 0.22
		if info.Hovered {
			halo = 0.45
		}
		r.glow.draw(screen, x, y, rad*haloScale, c, halo*info.Alpha, ebiten.BlendLighter)

		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(rad), c.WithAlpha(info.Alpha).RGBA(), true)
		core := c.Lerp(ColorWhite, 0.55).WithAlpha(info.Alpha)
		vector.DrawFilledCircle(screen, float32(x-rad*0.2), float32(y-rad*0.2), float32(rad*0.5), core.RGBA(), true)

		if info.Ripple.Active() {
			vector.StrokeCircle(screen, float32(x), float32(y), float32(info.Ripple.Radius*r.scale),
				float32(1.2*r.scale), c.WithAlpha(info.Ripple.Alpha).RGBA(), true)
		}
	}

	if h := f.Hovered; h >= 0 && h < g.Len() {
		if lf := r.labelFont(); lf != nil {
			info := &g.Info[h]
			lf.drawPill(screen, info.Label, g.X[h], g.Y[h], info.Radius*r.scale, r.scale, info.Category.Color(), f.Bounds)
		}
	}
}

// segment is a piece of a connection. T0 and T1 are the normalized
// positions of its ends along the full connection.
type segment struct {
	X0, Y0, X1, Y1 float64
	T0, T1         float64
}

// dashSegments appends the visible dashes of the line (x0, y0)-(x1, y1) to
// dst. offset shifts the pattern along the line to animate it.
func dashSegments(dst []segment, x0, y0, x1, y1, dash, gap, offset float64) []segment {
	dx, dy := x1-x0, y1-y0
	length := math.Sqrt(dx*dx + dy*dy)
	period := dash + gap
	if length <= 0 || dash <= 0 || period <= 0 {
		return dst
	}
	o := math.Mod(offset, period)
	if o < 0 {
		o += period
	}
	for s := o - period; s < length; s += period {
		a := math.Max(s, 0)
		b := math.Min(s+dash, length)
		if b <= a {
			continue
		}
		ta, tb := a/length, b/length
		dst = append(dst, segment{
			X0: x0 + dx*ta, Y0: y0 + dy*ta,
			X1: x0 + dx*tb, Y1: y0 + dy*tb,
			T0: ta, T1: tb,
		})
	}
	return dst
}

// splitSegment appends n equal pieces of the line to dst.
func splitSegment(dst []segment, x0, y0, x1, y1 float64, n int) []segment {
	n = max(n, 1)
	for k := 0; k < n; k++ {
		ta := float64(k) / float64(n)
		tb := float64(k+1) / float64(n)
		dst = append(dst, segment{
			X0: lerp(x0, x1, ta), Y0: lerp(y0, y1, ta),
			X1: lerp(x0, x1, tb), Y1: lerp(y0, y1, tb),
			T0: ta, T1: tb,
		})
	}
	return dst
}
