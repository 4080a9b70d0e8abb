package lattice

import (
	"errors"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ErrNotInitialized is returned by Run for a nil visualization.
var ErrNotInitialized = errors.New("lattice: visualization not initialized")

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height are the window size in device-independent pixels.
	// Zero derives them from the surface.
	Width, Height int
	Resizable     bool
	// ShowHUD draws the FPS/quality overlay. Toggle at runtime with H.
	ShowHUD bool
	// Shortcuts enables L (logo), C (cluster), F (float), P (screenshot)
	// and Escape (quit).
	Shortcuts bool
	// ExitWhenScriptDone stops the loop once an attached TestRunner finishes.
	ExitWhenScriptDone bool
	// MaxFrames stops the loop after this many frames. Zero runs until the
	// window is closed or Destroy is called.
	MaxFrames int
}

// WindowSurface describes a window-backed surface of the given size in
// device-independent pixels, scaled by the primary monitor's device scale
// factor.
func WindowSurface(id string, width, height int) Surface {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	if dpr <= 0 {
		dpr = 1
	}
	return Surface{
		ID:     id,
		Width:  int(math.Ceil(float64(width) * dpr)),
		Height: int(math.Ceil(float64(height) * dpr)),
		DPR:    dpr,
	}
}

// game adapts a Visualization to ebiten.Game. Update is synced to the
// display so each call is one rendered frame.
type game struct {
	v      *Visualization
	cfg    RunConfig
	last   time.Time
	frames int
	hud    hud
	dpr    float64
}

// Run opens a window and drives v until the window closes, Destroy is
// called or a configured stop condition is met. v is destroyed on return.
func Run(v *Visualization, cfg RunConfig) error {
	if v == nil {
		return ErrNotInitialized
	}
	defer v.Destroy()

	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = v.surface.CSSSize()
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(ebiten.SyncWithFPS)
	if v.static {
		// Reduced motion: keep the single drawn frame on screen.
		ebiten.SetScreenClearedEveryFrame(false)
	}

	v.SetLiveInput(true)
	g := &game{v: v, cfg: cfg, dpr: v.surface.DPR}
	defer g.hud.dispose()
	return ebiten.RunGame(g)
}

func (g *game) Update() error {
	v := g.v
	if v.destroyed {
		return ebiten.Termination
	}
	now := time.Now()
	dt := time.Second / 60
	if !g.last.IsZero() {
		dt = now.Sub(g.last)
	}
	g.last = now

	if g.cfg.Shortcuts {
		g.handleShortcuts()
		if v.destroyed {
			return ebiten.Termination
		}
	}

	v.Tick(dt)
	if g.cfg.ShowHUD {
		g.hud.update(v, dt)
	}

	g.frames++
	if g.cfg.MaxFrames > 0 && g.frames > g.cfg.MaxFrames {
		return ebiten.Termination
	}
	if g.cfg.ExitWhenScriptDone && v.testRunner != nil && v.testRunner.Done() && len(v.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *game) handleShortcuts() {
	v := g.v
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		v.FormLogo()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		v.SetMode(ModeCluster)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		v.SetMode(ModeFloat)
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.cfg.ShowHUD = !g.cfg.ShowHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.Screenshot("manual")
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		v.Destroy()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	g.v.Draw(screen)
	if g.cfg.ShowHUD && !g.v.destroyed {
		g.hud.draw(screen)
	}
}

// Layout reports a device-pixel screen so drawing and input share the
// surface's coordinate space. Size changes go through the debounced Resize.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = g.dpr
	}
	w := int(math.Ceil(float64(outsideWidth) * scale))
	h := int(math.Ceil(float64(outsideHeight) * scale))
	g.v.Resize(w, h)
	return w, h
}
