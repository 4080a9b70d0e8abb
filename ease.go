package lattice

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// EaseFunc remaps normalized progress t in [0, 1].
type EaseFunc func(t float64) float64

// normalized adapts a gween easing function to [0, 1] progress. Inputs
// outside the range are clamped.
func normalized(fn ease.TweenFunc) EaseFunc {
	return func(t float64) float64 {
		return float64(fn(float32(clamp01(t)), 0, 1, 1))
	}
}

var (
	// EaseOutElastic overshoots and settles; used for logo formation.
	EaseOutElastic = normalized(ease.OutElastic)
	// EaseOutCubic decelerates smoothly; used for cluster formation.
	EaseOutCubic = normalized(ease.OutCubic)
	// EaseLinear is the identity.
	EaseLinear = normalized(ease.Linear)
)

// progressTween drives a 0→1 value over a duration with an easing function.
// There is no global animation manager; owners call Update each frame.
type progressTween struct {
	tween *gween.Tween
	value float64
	Done  bool
}

func newProgressTween(d time.Duration, fn ease.TweenFunc) *progressTween {
	secs := float32(d.Seconds())
	if secs <= 0 {
		return &progressTween{value: 1, Done: true}
	}
	return &progressTween{tween: gween.New(0, 1, secs, fn)}
}

// Update advances the tween by dt and returns the current eased value.
func (p *progressTween) Update(dt time.Duration) float64 {
	if p.Done || p.tween == nil {
		return p.value
	}
	v, finished := p.tween.Update(float32(dt.Seconds()))
	p.value = float64(v)
	p.Done = finished
	return p.value
}

// Value returns the last eased value.
func (p *progressTween) Value() float64 {
	return p.value
}
