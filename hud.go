package lattice

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const hudRefresh = 500 * time.Millisecond

// hud is the debug overlay showing frame rates, quality and entity counts.
// The text is refreshed every hudRefresh into a cached image.
type hud struct {
	img   *ebiten.Image
	since time.Duration
	text  string
}

func (h *hud) update(v *Visualization, dt time.Duration) {
	h.since += dt
	if h.text != "" && h.since < hudRefresh {
		return
	}
	h.since = 0
	if v.destroyed {
		return
	}
	h.text = hudText(ebiten.ActualFPS(), ebiten.ActualTPS(), v.quality.Level(), v.planner.Mode(),
		v.graph.Len(), len(v.graph.Conns), v.pool.AliveCount(), v.pool.Cap())
	if h.img == nil {
		// 150x84 fits six DebugPrint lines.
		h.img = ebiten.NewImage(150, 84)
	}
	h.img.Clear()
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, h.text)
}

func (h *hud) draw(screen *ebiten.Image) {
	if h.img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	screen.DrawImage(h.img, &op)
}

func (h *hud) dispose() {
	if h.img != nil {
		h.img.Deallocate()
		h.img = nil
	}
}

func hudText(fps, tps float64, q QualityLevel, m Mode, nodes, conns, particles, capacity int) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nQuality: %s\nMode: %s\nNodes: %d (%d edges)\nFlow: %d/%d",
		fps, tps, q, m, nodes, conns, particles, capacity)
}
