package lattice

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestSpatialIndexFindsAllNeighbors(t *testing.T) {
	const (
		w, h = 640.0, 480.0
		cell = 50.0
		n    = 300
	)
	rng := rand.New(rand.NewPCG(1, 2))
	xs := make([]float64, n)
	ys := make([]float64, n)
	g := NewSpatialIndex(w, h, cell)
	for i := 0; i < n; i++ {
		// Some points fall outside the canvas and get clamped to edge cells.
		xs[i] = rng.Float64()*(w+40) - 20
		ys[i] = rng.Float64()*(h+40) - 20
		g.Insert(i, xs[i], ys[i])
	}
	if g.Len() != n {
		t.Fatalf("Len = %d, want %d", g.Len(), n)
	}

	var buf []int
	for i := 0; i < n; i++ {
		buf = g.AppendNeighbors(buf[:0], xs[i], ys[i])
		for j := 0; j < n; j++ {
			if sq(xs[i]-xs[j])+sq(ys[i]-ys[j]) > cell*cell {
				continue
			}
			if !slices.Contains(buf, j) {
				t.Fatalf("node %d within %v of %d not returned", j, cell, i)
			}
		}
	}
}

func TestSpatialIndexClearAndResize(t *testing.T) {
	g := NewSpatialIndex(100, 100, 25)
	g.Insert(0, 10, 10)
	g.Insert(1, 90, 90)
	g.Clear()
	if g.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", g.Len())
	}

	g.Insert(0, 10, 10)
	g.Resize(400, 300)
	if g.Len() != 0 {
		t.Errorf("Len after Resize = %d, want 0", g.Len())
	}
	g.Insert(2, 390, 290)
	if got := g.QueryNeighbors(380, 280); !slices.Contains(got, 2) {
		t.Errorf("QueryNeighbors after Resize = %v, want to contain 2", got)
	}
}

func TestSpatialIndexQueryCorners(t *testing.T) {
	g := NewSpatialIndex(100, 100, 30)
	g.Insert(7, 0, 0)
	g.Insert(8, 100, 100)

	tests := []struct {
		name string
		x, y float64
		want int
	}{
		{"top-left", 5, 5, 7},
		{"negative coords clamp", -50, -50, 7},
		{"bottom-right", 95, 95, 8},
		{"past the edge clamps", 500, 500, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.QueryNeighbors(tt.x, tt.y); !slices.Contains(got, tt.want) {
				t.Errorf("QueryNeighbors(%v, %v) = %v, want to contain %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSpatialIndexZeroCellSize(t *testing.T) {
	g := NewSpatialIndex(10, 10, 0)
	if g.CellSize() != 1 {
		t.Errorf("CellSize = %v, want 1", g.CellSize())
	}
}
