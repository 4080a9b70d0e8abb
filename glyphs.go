package lattice

import "math"

// glyph is a letterform drawn as polylines in a box of Advance x 1.
type glyph struct {
	Advance float64
	Strokes [][]Vec2
}

const glyphGap = 0.22

// arc returns a polyline approximating an elliptical arc. Angles are radians.
func arc(cx, cy, rx, ry, from, to float64, segs int) []Vec2 {
	pts := make([]Vec2, 0, segs+1)
	for i := 0; i <= segs; i++ {
		a := from + (to-from)*float64(i)/float64(segs)
		pts = append(pts, Vec2{cx + math.Cos(a)*rx, cy + math.Sin(a)*ry})
	}
	return pts
}

var glyphs = map[rune]glyph{
	'L': {0.6, [][]Vec2{{{0, 0}, {0, 1}, {0.6, 1}}}},
	'A': {0.72, [][]Vec2{
		{{0, 1}, {0.36, 0}, {0.72, 1}},
		{{0.16, 0.6}, {0.56, 0.6}},
	}},
	'T': {0.7, [][]Vec2{
		{{0, 0}, {0.7, 0}},
		{{0.35, 0}, {0.35, 1}},
	}},
	'I': {0.3, [][]Vec2{
		{{0, 0}, {0.3, 0}},
		{{0.15, 0}, {0.15, 1}},
		{{0, 1}, {0.3, 1}},
	}},
	'C': {0.66, [][]Vec2{
		arc(0.38, 0.5, 0.38, 0.5, math.Pi*0.28, math.Pi*1.72, 24),
	}},
	'E': {0.6, [][]Vec2{
		{{0.6, 0}, {0, 0}, {0, 1}, {0.6, 1}},
		{{0, 0.5}, {0.46, 0.5}},
	}},
}

// logoWord is the silhouette the nodes form.
const logoWord = "LATTICE"

// wordStrokes lays out word left to right and returns its strokes in unit
// height along with the total width.
func wordStrokes(word string) ([][]Vec2, float64) {
	var strokes [][]Vec2
	x := 0.0
	first := true
	for _, r := range word {
		gl, ok := glyphs[r]
		if !ok {
			x += 0.5
			continue
		}
		if !first {
			x += glyphGap
		}
		first = false
		for _, s := range gl.Strokes {
			moved := make([]Vec2, len(s))
			for i, p := range s {
				moved[i] = Vec2{p.X + x, p.Y}
			}
			strokes = append(strokes, moved)
		}
		x += gl.Advance
	}
	return strokes, x
}

// sampleStrokes returns points spaced step apart along every stroke.
func sampleStrokes(strokes [][]Vec2, step float64) []Vec2 {
	if step <= 0 {
		return nil
	}
	var out []Vec2
	for _, s := range strokes {
		if len(s) == 0 {
			continue
		}
		out = append(out, s[0])
		carry := 0.0
		for i := 1; i < len(s); i++ {
			a, b := s[i-1], s[i]
			segLen := math.Hypot(b.X-a.X, b.Y-a.Y)
			if segLen == 0 {
				continue
			}
			d := step - carry
			for d <= segLen {
				t := d / segLen
				out = append(out, Vec2{lerp(a.X, b.X, t), lerp(a.Y, b.Y, t)})
				d += step
			}
			carry = segLen - (d - step)
		}
	}
	return out
}
