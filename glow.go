package lattice

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	glowBucket    = 8   // radius quantization step in pixels
	glowMaxRadius = 256 // larger glows scale the biggest texture
)

// glowCache holds feathered white circle textures keyed by quantized radius.
// Glows are tinted at draw time through the color scale.
type glowCache struct {
	circles map[int]*ebiten.Image
	op      ebiten.DrawImageOptions
}

// get returns a cached circle texture for radius, generating one if needed.
// Radii are rounded up to the next bucket so nearby sizes share a texture.
func (c *glowCache) get(radius float64) *ebiten.Image {
	key := glowKey(radius)
	if c.circles == nil {
		c.circles = make(map[int]*ebiten.Image)
	}
	if img, ok := c.circles[key]; ok {
		return img
	}
	img := generateGlow(float64(key))
	c.circles[key] = img
	return img
}

func glowKey(radius float64) int {
	key := int(math.Ceil(radius/glowBucket)) * glowBucket
	return min(max(key, glowBucket), glowMaxRadius)
}

// draw centers a tinted glow of the given radius on (x, y).
func (c *glowCache) draw(dst *ebiten.Image, x, y, radius float64, tint Color, alpha float64, blend ebiten.Blend) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	img := c.get(radius)
	src := float64(img.Bounds().Dx())
	op := &c.op
	op.GeoM.Reset()
	op.GeoM.Scale(radius*2/src, radius*2/src)
	op.GeoM.Translate(x-radius, y-radius)
	op.ColorScale.Reset()
	a := float32(clamp01(alpha * tint.A))
	op.ColorScale.Scale(float32(tint.R)*a, float32(tint.G)*a, float32(tint.B)*a, a)
	op.Blend = blend
	dst.DrawImage(img, op)
}

// dispose releases every cached texture.
func (c *glowCache) dispose() {
	for _, img := range c.circles {
		img.Deallocate()
	}
	c.circles = nil
}

// generateGlow creates a feathered white circle image with the given radius.
func generateGlow(radius float64) *ebiten.Image {
	size := max(int(math.Ceil(radius*2)), 1)
	img := ebiten.NewImage(size, size)
	img.WritePixels(glowPixels(size, radius))
	return img
}

// glowPixels rasterizes a premultiplied white circle whose alpha follows a
// squared smoothstep from the center to the rim, giving a soft radial
// gradient.
func glowPixels(size int, radius float64) []byte {
	pix := make([]byte, size*size*4)
	if radius <= 0 {
		return pix
	}
	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			a := uint8(glowFalloff(math.Sqrt(dx*dx+dy*dy)/radius) * 255)
			off := (y*size + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	return pix
}

// glowFalloff maps normalized distance d (0 center, 1 rim) to alpha.
func glowFalloff(d float64) float64 {
	if d >= 1 {
		return 0
	}
	if d <= 0 {
		return 1
	}
	t := 1 - d
	s := t * t * (3 - 2*t)
	return s * s
}
