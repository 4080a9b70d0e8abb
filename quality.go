package lattice

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// QualityLevel gates optional visual effects.
type QualityLevel uint8

const (
	QualityLow QualityLevel = iota
	QualityMedium
	QualityHigh
)

func (l QualityLevel) String() string {
	switch l {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("QualityLevel(%d)", uint8(l))
	}
}

// ErrUnknownQuality is returned when parsing an unrecognized level name.
var ErrUnknownQuality = errors.New("lattice: unknown quality level")

// MarshalText encodes the level by name.
func (l QualityLevel) MarshalText() ([]byte, error) {
	if l > QualityHigh {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuality, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes "low", "medium" or "high".
func (l *QualityLevel) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "low":
		*l = QualityLow
	case "medium":
		*l = QualityMedium
	case "high":
		*l = QualityHigh
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQuality, b)
	}
	return nil
}

// QualityFeatures lists what a level enables.
type QualityFeatures struct {
	Grid          bool
	Glow          bool
	Trails        bool
	GradientEdges bool
	DashedEdges   bool
	ParticleRate  float64 // particles spawned per frame
}

// Features returns the effects enabled at l.
func (l QualityLevel) Features() QualityFeatures {
	switch l {
	case QualityHigh:
		return QualityFeatures{Grid: true, Glow: true, Trails: true, GradientEdges: true, DashedEdges: true, ParticleRate: 0.8}
	case QualityMedium:
		return QualityFeatures{Grid: true, Glow: true, GradientEdges: true, ParticleRate: 0.35}
	default:
		return QualityFeatures{ParticleRate: 0.1}
	}
}

// QualityConfig configures the adaptive quality controller.
type QualityConfig struct {
	// Window is the number of frame deltas averaged per evaluation.
	Window int `yaml:"window" toml:"window"`
	// EvalEvery is the evaluation cadence in frames.
	EvalEvery int `yaml:"eval_every" toml:"eval_every"`
	// LowFPS and HighFPS are the hysteresis thresholds.
	LowFPS  float64      `yaml:"low_fps" toml:"low_fps"`
	HighFPS float64      `yaml:"high_fps" toml:"high_fps"`
	Floor   QualityLevel `yaml:"floor" toml:"floor"`
	Ceiling QualityLevel `yaml:"ceiling" toml:"ceiling"`
}

// DefaultQualityConfig returns the default thresholds.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		Window:    60,
		EvalEvery: 60,
		LowFPS:    30,
		HighFPS:   52,
		Floor:     QualityLow,
		Ceiling:   QualityHigh,
	}
}

// QualityDecision is the outcome of one Sample call.
type QualityDecision uint8

const (
	QualityUnchanged QualityDecision = iota
	QualityLowered
	QualityRaised
	// QualityReduceNodes is emitted once, when the floor is reached and the
	// frame rate is still below LowFPS.
	QualityReduceNodes
)

// QualityController samples frame deltas and moves the quality level one
// step at a time between the floor and ceiling.
type QualityController struct {
	cfg     QualityConfig
	samples []float64 // ring of frame deltas in seconds
	head    int
	count   int
	sum     float64
	frames  int
	level   QualityLevel
	reduced bool
}

// NewQualityController starts at the ceiling.
func NewQualityController(cfg QualityConfig) *QualityController {
	if cfg.Window <= 0 {
		cfg.Window = 60
	}
	if cfg.EvalEvery <= 0 {
		cfg.EvalEvery = cfg.Window
	}
	if cfg.Ceiling > QualityHigh {
		cfg.Ceiling = QualityHigh
	}
	if cfg.Floor > cfg.Ceiling {
		cfg.Floor = cfg.Ceiling
	}
	return &QualityController{
		cfg:     cfg,
		samples: make([]float64, cfg.Window),
		level:   cfg.Ceiling,
	}
}

// Level returns the current quality level.
func (q *QualityController) Level() QualityLevel { return q.level }

// Reduced reports whether the one-time node reduction has been requested.
func (q *QualityController) Reduced() bool { return q.reduced }

// AverageFPS returns the frame rate over the current window, or 0 with no
// samples.
func (q *QualityController) AverageFPS() float64 {
	if q.count == 0 || q.sum <= 0 {
		return 0
	}
	return float64(q.count) / q.sum
}

// Sample records one frame delta and, on the evaluation cadence, may change
// the level.
func (q *QualityController) Sample(dt time.Duration) QualityDecision {
	secs := dt.Seconds()
	if secs <= 0 {
		return QualityUnchanged
	}
	if q.count == len(q.samples) {
		q.sum -= q.samples[q.head]
	} else {
		q.count++
	}
	q.samples[q.head] = secs
	q.sum += secs
	q.head = (q.head + 1) % len(q.samples)
	q.frames++

	if q.frames < q.cfg.EvalEvery || q.count < len(q.samples) {
		return QualityUnchanged
	}
	q.frames = 0
	return q.evaluate()
}

func (q *QualityController) evaluate() QualityDecision {
	fps := q.AverageFPS()
	switch {
	case fps < q.cfg.LowFPS && q.level > q.cfg.Floor:
		q.level--
		q.resetWindow()
		return QualityLowered
	case fps < q.cfg.LowFPS && !q.reduced:
		q.reduced = true
		q.resetWindow()
		return QualityReduceNodes
	case fps > q.cfg.HighFPS && q.level < q.cfg.Ceiling:
		q.level++
		q.resetWindow()
		return QualityRaised
	}
	return QualityUnchanged
}

func (q *QualityController) resetWindow() {
	q.head, q.count, q.sum, q.frames = 0, 0, 0, 0
}
