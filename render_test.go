package lattice

import (
	"math"
	"slices"
	"strings"
	"testing"
)

func TestLayerPlan(t *testing.T) {
	tests := []struct {
		name    string
		q       QualityLevel
		m       Mode
		pointer bool
		want    []Layer
	}{
		{
			"high float idle", QualityHigh, ModeFloat, false,
			[]Layer{LayerGrid, LayerTrails, LayerConnections, LayerParticles, LayerNodes},
		},
		{
			"high with pointer", QualityHigh, ModeLogo, true,
			[]Layer{LayerGrid, LayerGlow, LayerTrails, LayerConnections, LayerParticles, LayerNodes},
		},
		{
			"medium cluster", QualityMedium, ModeCluster, true,
			[]Layer{LayerGrid, LayerGlow, LayerConnections, LayerParticles, LayerNodes, LayerLegend},
		},
		{
			"low cluster", QualityLow, ModeCluster, true,
			[]Layer{LayerConnections, LayerParticles, LayerNodes, LayerLegend},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LayerPlan(nil, tt.q, tt.m, tt.pointer)
			if !slices.Equal(got, tt.want) {
				t.Errorf("LayerPlan = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayerPlanOrderIsFixed(t *testing.T) {
	// Every plan is a subsequence of the full layer order.
	for _, q := range []QualityLevel{QualityLow, QualityMedium, QualityHigh} {
		for _, m := range []Mode{ModeFloat, ModeLogo, ModeCluster} {
			plan := LayerPlan(nil, q, m, true)
			if !slices.IsSorted(plan) {
				t.Errorf("LayerPlan(%v, %v) out of order: %v", q, m, plan)
			}
		}
	}
}

func TestLayerString(t *testing.T) {
	if LayerConnections.String() != "connections" || Layer(99).String() != "unknown" {
		t.Errorf("unexpected names %q %q", LayerConnections, Layer(99))
	}
}

func TestDashSegments(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		want   [][2]float64
	}{
		{"no offset", 0, [][2]float64{{0, 6}, {10, 16}}},
		{"shifted", 3, [][2]float64{{3, 9}, {13, 19}}},
		{"wraps at start", 8, [][2]float64{{0, 4}, {8, 14}, {18, 20}}},
		{"negative offset", -2, [][2]float64{{0, 4}, {8, 14}, {18, 20}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := dashSegments(nil, 0, 5, 20, 5, 6, 4, tt.offset)
			if len(segs) != len(tt.want) {
				t.Fatalf("got %d segments %+v, want %d", len(segs), segs, len(tt.want))
			}
			for i, w := range tt.want {
				s := segs[i]
				if math.Abs(s.X0-w[0]) > 1e-9 || math.Abs(s.X1-w[1]) > 1e-9 || s.Y0 != 5 || s.Y1 != 5 {
					t.Errorf("segment %d = %+v, want x %v..%v", i, s, w[0], w[1])
				}
				if math.Abs(s.T0-w[0]/20) > 1e-9 || math.Abs(s.T1-w[1]/20) > 1e-9 {
					t.Errorf("segment %d t = %v..%v", i, s.T0, s.T1)
				}
			}
		})
	}
	if segs := dashSegments(nil, 3, 3, 3, 3, 6, 4, 0); len(segs) != 0 {
		t.Errorf("zero-length line gave %d segments", len(segs))
	}
}

func TestSplitSegment(t *testing.T) {
	segs := splitSegment(nil, 0, 0, 40, 20, 4)
	if len(segs) != 4 {
		t.Fatalf("got %d segments, want 4", len(segs))
	}
	for i, s := range segs {
		if i > 0 && (s.X0 != segs[i-1].X1 || s.Y0 != segs[i-1].Y1 || s.T0 != segs[i-1].T1) {
			t.Errorf("segment %d not contiguous", i)
		}
	}
	if segs[0].T0 != 0 || segs[3].T1 != 1 || segs[3].X1 != 40 || segs[3].Y1 != 20 {
		t.Errorf("ends = %+v .. %+v", segs[0], segs[3])
	}
	if n := len(splitSegment(nil, 0, 0, 1, 1, 0)); n != 1 {
		t.Errorf("n=0 gave %d segments, want 1", n)
	}
}

func TestGridLines(t *testing.T) {
	xs, ys := gridLines(100, 50, 48)
	if !slices.Equal(xs, []float64{26, 74}) {
		t.Errorf("xs = %v, want [26 74]", xs)
	}
	if !slices.Equal(ys, []float64{25}) {
		t.Errorf("ys = %v, want [25]", ys)
	}
	if xs, ys := gridLines(40, 40, 48); xs != nil || ys != nil {
		t.Errorf("gridLines smaller than spacing = %v %v", xs, ys)
	}
	if xs, ys := gridLines(100, 100, 0); xs != nil || ys != nil {
		t.Error("zero spacing produced lines")
	}
}

func TestPillRect(t *testing.T) {
	bounds := Rect{Width: 800, Height: 600}
	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{"above the node", 100, 100, 67.5, 67},
		{"flipped below near the top", 100, 10, 67.5, 25},
		{"clamped at the right edge", 790, 100, 735, 67},
		{"clamped at the left edge", 5, 100, 0, 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pillRect(tt.x, tt.y, 5, 40, 10, 8, 4, 10, bounds)
			if r.Width != 65 || r.Height != 18 {
				t.Fatalf("size = %v x %v, want 65 x 18", r.Width, r.Height)
			}
			if math.Abs(r.X-tt.wantX) > 1e-9 || math.Abs(r.Y-tt.wantY) > 1e-9 {
				t.Errorf("pillRect at (%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, r.X, r.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestGlowFalloff(t *testing.T) {
	if glowFalloff(0) != 1 || glowFalloff(1) != 0 || glowFalloff(2) != 0 || glowFalloff(-1) != 1 {
		t.Error("boundary values wrong")
	}
	if got := glowFalloff(0.5); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("glowFalloff(0.5) = %v, want 0.25", got)
	}
	prev := 1.0
	for i := 1; i <= 20; i++ {
		v := glowFalloff(float64(i) / 20)
		if v > prev {
			t.Fatalf("falloff increases at %v", float64(i)/20)
		}
		prev = v
	}
}

func TestGlowPixels(t *testing.T) {
	const size = 16
	pix := glowPixels(size, 8)
	if len(pix) != size*size*4 {
		t.Fatalf("len = %d, want %d", len(pix), size*size*4)
	}
	center := (8*size + 8) * 4
	if pix[center+3] < 200 {
		t.Errorf("center alpha = %d, want near opaque", pix[center+3])
	}
	if pix[3] != 0 {
		t.Errorf("corner alpha = %d, want 0", pix[3])
	}
	for i := 0; i < len(pix); i += 4 {
		if pix[i] > pix[i+3] {
			t.Fatalf("pixel %d not premultiplied", i/4)
		}
	}
}

func TestGlowKey(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{0, glowBucket},
		{1, 8},
		{8, 8},
		{9, 16},
		{1000, glowMaxRadius},
	}
	for _, tt := range tests {
		if got := glowKey(tt.radius); got != tt.want {
			t.Errorf("glowKey(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestHUDText(t *testing.T) {
	got := hudText(59.94, 60, QualityMedium, ModeCluster, 120, 260, 33, 180)
	for _, want := range []string{"FPS: 59.9", "TPS: 60.0", "Quality: medium", "Mode: cluster", "Nodes: 120 (260 edges)", "Flow: 33/180"} {
		if !strings.Contains(got, want) {
			t.Errorf("hudText missing %q in:\n%s", want, got)
		}
	}
}

func TestFrameStateReadsSimulation(t *testing.T) {
	v := newTestVisualization(t, testOptions())
	v.SetMode(ModeCluster)
	v.InjectMove(200, 200)
	v.Tick(fastFrame)

	f := v.frameState()
	if f.Graph != v.Graph() || f.Particles != v.Particles() {
		t.Error("frame does not share simulation state")
	}
	if f.Mode != ModeCluster || f.Quality != QualityHigh {
		t.Errorf("frame mode=%v quality=%v", f.Mode, f.Quality)
	}
	if !f.Pointer.Active || f.Pointer.X != 200 {
		t.Errorf("frame pointer = %+v", f.Pointer)
	}
	if f.Bounds != v.Bounds() || f.PointerR != v.opts.Physics.PointerRadius {
		t.Errorf("frame bounds=%+v reach=%v", f.Bounds, f.PointerR)
	}
}

func TestNewRendererScale(t *testing.T) {
	if r := NewRenderer(0); r.scale != 1 {
		t.Errorf("scale = %v, want 1", r.scale)
	}
	if r := NewRenderer(2); r.scale != 2 {
		t.Errorf("scale = %v, want 2", r.scale)
	}
}
