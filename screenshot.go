package lattice

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

var shotEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Screenshot asks for the next drawn frame to be saved as a PNG in
// Options.ScreenshotDir. Files are named <time>_f<frame>_<label>.png.
func (v *Visualization) Screenshot(label string) {
	if v.destroyed {
		return
	}
	v.screenshotQueue = append(v.screenshotQueue, label)
}

// flushScreenshots saves the frame just drawn to screen once per queued
// label. It runs at the end of Draw.
func (v *Visualization) flushScreenshots(screen *ebiten.Image) {
	labels := v.screenshotQueue
	if len(labels) == 0 {
		return
	}
	v.screenshotQueue = labels[:0]

	dir := cmp.Or(v.opts.ScreenshotDir, ".")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.log.Error("screenshot directory", "dir", dir, "err", err)
		return
	}

	frame := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(frame.Pix)
	img := unpremultiply(frame)

	prefix := fmt.Sprintf("%s_f%06d_", time.Now().Format("20060102_150405"), v.frame)
	for _, label := range labels {
		path := filepath.Join(dir, prefix+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			v.log.Error("screenshot not saved", "label", label, "err", err)
			continue
		}
		v.log.Info("screenshot saved", "path", path)
	}
}

// unpremultiply converts Ebitengine's premultiplied pixels to straight
// alpha. Channels brighter than alpha saturate at 255.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		a := dst.Pix[i+3]
		if a == 0 || a == 255 {
			continue
		}
		for c := i; c < i+3; c++ {
			dst.Pix[c] = uint8(min(int(dst.Pix[c])*255/int(a), 255))
		}
	}
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := shotEncoder.Encode(f, img); err != nil {
		return errors.Join(fmt.Errorf("encode %s: %w", path, err), f.Close())
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replacing everything
// else with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
