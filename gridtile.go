package lattice

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const gridSpacing = 48.0 // CSS pixels between grid lines

var (
	gridLineColor = hexColor(0x1e293b).WithAlpha(0.55)
	gridDotColor  = hexColor(0x334155).WithAlpha(0.8)
)

// gridTile is the persistent offscreen background grid. It is drawn once
// and only regenerated when the surface size changes.
type gridTile struct {
	image *ebiten.Image
	w, h  int
	stale bool
}

// invalidate forces a redraw on the next ensure call.
func (t *gridTile) invalidate() {
	t.stale = true
}

// ensure returns the grid image for a w x h surface, regenerating it when the
// size changed or it was invalidated.
func (t *gridTile) ensure(w, h int, scale float64) *ebiten.Image {
	if w <= 0 || h <= 0 {
		return nil
	}
	if t.image != nil && !t.stale && t.w == w && t.h == h {
		return t.image
	}
	if t.image == nil || t.w != w || t.h != h {
		if t.image != nil {
			t.image.Deallocate()
		}
		t.image = ebiten.NewImage(w, h)
		t.w, t.h = w, h
	}
	t.stale = false
	t.redraw(scale)
	return t.image
}

func (t *gridTile) redraw(scale float64) {
	img := t.image
	img.Clear()
	xs, ys := gridLines(float64(t.w), float64(t.h), gridSpacing*scale)
	width := float32(max(scale, 1))
	line := gridLineColor.RGBA()
	for _, x := range xs {
		vector.StrokeLine(img, float32(x), 0, float32(x), float32(t.h), width, line, false)
	}
	for _, y := range ys {
		vector.StrokeLine(img, 0, float32(y), float32(t.w), float32(y), width, line, false)
	}
	dot := gridDotColor.RGBA()
	for _, x := range xs {
		for _, y := range ys {
			vector.DrawFilledCircle(img, float32(x), float32(y), width, dot, true)
		}
	}
}

// dispose deallocates the grid image.
func (t *gridTile) dispose() {
	if t.image != nil {
		t.image.Deallocate()
		t.image = nil
	}
	t.w, t.h = 0, 0
}

// gridLines returns the x and y positions of the grid lines, centered so
// the margins on both sides match.
func gridLines(w, h, spacing float64) (xs, ys []float64) {
	if spacing <= 0 {
		return nil, nil
	}
	return axisLines(w, spacing), axisLines(h, spacing)
}

func axisLines(extent, spacing float64) []float64 {
	n := int(extent / spacing)
	if n < 1 {
		return nil
	}
	start := (extent - float64(n-1)*spacing) / 2
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*spacing
	}
	return out
}
