package lattice

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	labelSize    = 12.0 // CSS pixels
	labelPadX    = 8.0
	labelPadY    = 4.0
	labelGap     = 10.0 // distance between node rim and pill
	legendSwatch = 5.0
)

var (
	pillColor   = hexColor(0x0f172a).WithAlpha(0.88)
	legendColor = hexColor(0x0f172a).WithAlpha(0.72)
	textColor   = hexColor(0xe2e8f0)
)

// labelFont wraps Ebitengine's text/v2 face for label pills and the legend.
type labelFont struct {
	face *text.GoTextFace
	lh   float64 // cached line height
	op   text.DrawOptions
}

// newLabelFont loads Go Regular at size pixels.
func newLabelFont(size float64) (*labelFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("lattice: failed to parse label font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &labelFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// measure returns the width and height of s.
func (f *labelFont) measure(s string) (float64, float64) {
	return text.Measure(s, f.face, f.lh)
}

// drawText draws s with its top-left corner at (x, y).
func (f *labelFont) drawText(dst *ebiten.Image, s string, x, y float64, c Color) {
	op := &f.op
	op.GeoM.Reset()
	op.GeoM.Translate(x, y)
	op.ColorScale.Reset()
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}

// drawPill draws s inside a rounded pill floating above a node of the given
// radius at (x, y), kept inside bounds.
func (f *labelFont) drawPill(dst *ebiten.Image, s string, x, y, radius, scale float64, accent Color, bounds Rect) {
	tw, th := f.measure(s)
	r := pillRect(x, y, radius, tw, th, labelPadX*scale, labelPadY*scale, labelGap*scale, bounds)
	fillPill(dst, r, pillColor)
	dot := r.Height / 2
	vector.DrawFilledCircle(dst, float32(r.X+dot), float32(r.Y+dot), float32(dot*0.35), accent.RGBA(), true)
	f.drawText(dst, s, r.X+labelPadX*scale+dot*0.5, r.Y+labelPadY*scale, textColor)
}

// pillRect places a pill of the given text size centered above (x, y). It
// flips below the node when there is no room above and is then clamped
// inside bounds.
func pillRect(x, y, radius, tw, th, padX, padY, gap float64, bounds Rect) Rect {
	h := th + 2*padY
	w := tw + 2*padX + h/2
	r := Rect{X: x - w/2, Y: y - radius - gap - h, Width: w, Height: h}
	if r.Y < bounds.Y {
		r.Y = y + radius + gap
	}
	r.X = clamp(r.X, bounds.X, max(bounds.X, bounds.X+bounds.Width-w))
	r.Y = clamp(r.Y, bounds.Y, max(bounds.Y, bounds.Y+bounds.Height-h))
	return r
}

// fillPill fills a rectangle with fully rounded ends.
func fillPill(dst *ebiten.Image, r Rect, c Color) {
	rad := r.Height / 2
	col := c.RGBA()
	if r.Width > 2*rad {
		vector.DrawFilledRect(dst, float32(r.X+rad), float32(r.Y), float32(r.Width-2*rad), float32(r.Height), col, true)
	}
	vector.DrawFilledCircle(dst, float32(r.X+rad), float32(r.Y+rad), float32(rad), col, true)
	vector.DrawFilledCircle(dst, float32(r.X+r.Width-rad), float32(r.Y+rad), float32(rad), col, true)
}

// drawLegend draws the category legend in the bottom-left corner.
func (f *labelFont) drawLegend(dst *ebiten.Image, bounds Rect, scale float64) {
	cats := Categories()
	pad := 10 * scale
	row := f.lh + 4*scale
	wmax := 0.0
	for _, c := range cats {
		w, _ := f.measure(c.Info().Label)
		wmax = max(wmax, w)
	}
	sw := legendSwatch * scale
	box := Rect{
		Width:  pad*2 + sw*2 + 6*scale + wmax,
		Height: pad*2 + row*float64(len(cats)),
	}
	box.X = bounds.X + pad
	box.Y = bounds.Y + bounds.Height - box.Height - pad
	vector.DrawFilledRect(dst, float32(box.X), float32(box.Y), float32(box.Width), float32(box.Height), legendColor.RGBA(), true)

	for i, c := range cats {
		info := c.Info()
		y := box.Y + pad + float64(i)*row
		vector.DrawFilledCircle(dst, float32(box.X+pad+sw), float32(y+row/2), float32(sw), info.Color.RGBA(), true)
		f.drawText(dst, info.Label, box.X+pad+sw*2+6*scale, y+(row-f.lh)/2, textColor)
	}
}
