package lattice

import (
	"math"
	"math/rand/v2"
	"slices"
)

const (
	trailLen       = 8
	minEdges       = 2
	maxEdges       = 4
	baseRadiusMin  = 2.5
	baseRadiusMax  = 5.5
	edgeAlphaMin   = 0.12
	edgeAlphaMax   = 0.32
	spawnPadding   = 40.0
	extraEdgeOdds  = 0.45
	rippleGrowth   = 1.6
	rippleDecay    = 0.94
	rippleMinAlpha = 0.01
)

// Ripple is the expanding ring triggered by clicking a node.
type Ripple struct {
	Radius float64
	Alpha  float64
}

// Active reports whether the ripple is still visible.
func (r Ripple) Active() bool {
	return r.Alpha > rippleMinAlpha
}

// Trail is a fixed-size ring buffer of recent node positions.
type Trail struct {
	pts  [trailLen]Vec2
	head int
	n    int
}

// Push records p, evicting the oldest point when full.
func (t *Trail) Push(p Vec2) {
	t.pts[t.head] = p
	t.head = (t.head + 1) % trailLen
	if t.n < trailLen {
		t.n++
	}
}

// Len returns the number of recorded points.
func (t *Trail) Len() int { return t.n }

// At returns the i-th point, oldest first.
func (t *Trail) At(i int) Vec2 {
	start := (t.head - t.n + trailLen) % trailLen
	return t.pts[(start+i)%trailLen]
}

// Reset forgets all points.
func (t *Trail) Reset() {
	t.head, t.n = 0, 0
}

// NodeInfo holds the cold, mostly visual per-node state.
type NodeInfo struct {
	Index      int
	Category   Category
	Label      string
	BaseRadius float64
	Radius     float64
	Alpha      float64
	Phase      float64
	Hovered    bool
	Active     bool
	Ripple     Ripple
	Trail      Trail
}

// Connection is an undirected edge between nodes A and B (A < B).
type Connection struct {
	A, B       int
	BaseAlpha  float64
	Alpha      float64
	Active     bool
	DashOffset float64
}

// Graph stores node state as parallel slices indexed by node id, plus the
// connection list. The simulation owns it; renderers only read it.
type Graph struct {
	X, Y         []float64
	PrevX, PrevY []float64
	FX, FY       []float64
	TargetX      []float64
	TargetY      []float64
	HasTarget    []bool
	Info         []NodeInfo
	Conns        []Connection
}

// NewGraph scatters n labeled nodes over bounds and links them with the
// nearest-neighbor connection pass.
func NewGraph(n int, bounds Rect, labels []NodeLabel, rng *rand.Rand) *Graph {
	if n < 0 {
		n = 0
	}
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	g := &Graph{
		X:         make([]float64, n),
		Y:         make([]float64, n),
		PrevX:     make([]float64, n),
		PrevY:     make([]float64, n),
		FX:        make([]float64, n),
		FY:        make([]float64, n),
		TargetX:   make([]float64, n),
		TargetY:   make([]float64, n),
		HasTarget: make([]bool, n),
		Info:      make([]NodeInfo, n),
	}
	area := bounds.Inset(spawnPadding)
	if area.Width <= 0 || area.Height <= 0 {
		area = bounds
	}
	for i := 0; i < n; i++ {
		x := area.X + rng.Float64()*area.Width
		y := area.Y + rng.Float64()*area.Height
		g.X[i], g.Y[i] = x, y
		g.PrevX[i], g.PrevY[i] = x, y

		lbl := labels[i%len(labels)]
		r := baseRadiusMin + rng.Float64()*(baseRadiusMax-baseRadiusMin)
		g.Info[i] = NodeInfo{
			Index:      i,
			Category:   lbl.Category,
			Label:      lbl.Text,
			BaseRadius: r,
			Radius:     r,
			Alpha:      0.6 + rng.Float64()*0.4,
			Phase:      rng.Float64() * 2 * math.Pi,
		}
	}
	g.Conns = buildConnections(g, rng)
	return g
}

// Len returns the node count.
func (g *Graph) Len() int {
	return len(g.X)
}

// ValidConnection reports whether both endpoints of c exist.
func (g *Graph) ValidConnection(c Connection) bool {
	n := len(g.X)
	return c.A >= 0 && c.B >= 0 && c.A < n && c.B < n && c.A != c.B
}

// Truncate shrinks the graph to its first n nodes and rebuilds connections
// from the current positions. Growing is not supported.
func (g *Graph) Truncate(n int, rng *rand.Rand) {
	if n < 0 || n >= len(g.X) {
		return
	}
	g.X = g.X[:n]
	g.Y = g.Y[:n]
	g.PrevX = g.PrevX[:n]
	g.PrevY = g.PrevY[:n]
	g.FX = g.FX[:n]
	g.FY = g.FY[:n]
	g.TargetX = g.TargetX[:n]
	g.TargetY = g.TargetY[:n]
	g.HasTarget = g.HasTarget[:n]
	g.Info = g.Info[:n]
	g.Conns = buildConnections(g, rng)
}

// ClearTargets drops every formation target.
func (g *Graph) ClearTargets() {
	for i := range g.HasTarget {
		g.HasTarget[i] = false
	}
}

// Degrees returns the edge count of every node.
func (g *Graph) Degrees() []int {
	deg := make([]int, len(g.X))
	for _, c := range g.Conns {
		if g.ValidConnection(c) {
			deg[c.A]++
			deg[c.B]++
		}
	}
	return deg
}

type edgeKey struct{ a, b int }

func makeEdgeKey(i, j int) edgeKey {
	if i > j {
		i, j = j, i
	}
	return edgeKey{i, j}
}

// buildConnections links every node to its nearest neighbors so that each
// node ends with between minEdges and maxEdges edges. It is O(n^2 log n) and
// only runs at init and after a node reduction.
func buildConnections(g *Graph, rng *rand.Rand) []Connection {
	n := len(g.X)
	if n < 2 {
		return nil
	}
	deg := make([]int, n)
	seen := make(map[edgeKey]struct{}, n*2)
	conns := make([]Connection, 0, n*2)
	order := make([]int, 0, n-1)

	link := func(i, j int) {
		k := makeEdgeKey(i, j)
		seen[k] = struct{}{}
		deg[i]++
		deg[j]++
		base := edgeAlphaMin + rng.Float64()*(edgeAlphaMax-edgeAlphaMin)
		conns = append(conns, Connection{
			A:          k.a,
			B:          k.b,
			BaseAlpha:  base,
			Alpha:      base,
			DashOffset: rng.Float64() * 10,
		})
	}

	for i := 0; i < n; i++ {
		want := minEdges
		if rng.Float64() < extraEdgeOdds {
			want++
		}
		if deg[i] >= want {
			continue
		}
		order = nearestOrder(g, i, order[:0])
		for _, j := range order {
			if deg[i] >= want {
				break
			}
			if deg[j] >= maxEdges {
				continue
			}
			if _, dup := seen[makeEdgeKey(i, j)]; dup {
				continue
			}
			link(i, j)
		}
	}
	return conns
}

// nearestOrder fills buf with every other node id sorted by distance to i.
func nearestOrder(g *Graph, i int, buf []int) []int {
	for j := range g.X {
		if j != i {
			buf = append(buf, j)
		}
	}
	xi, yi := g.X[i], g.Y[i]
	slices.SortFunc(buf, func(a, b int) int {
		da := sq(g.X[a]-xi) + sq(g.Y[a]-yi)
		db := sq(g.X[b]-xi) + sq(g.Y[b]-yi)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return a - b
	})
	return buf
}

func sq(v float64) float64 { return v * v }
