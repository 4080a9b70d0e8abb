package lattice

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DeviceTier buckets devices by expected rendering budget.
type DeviceTier uint8

const (
	TierAuto DeviceTier = iota // detect from the surface
	TierLow
	TierMid
	TierHigh
)

// ErrUnknownTier is returned when parsing an unrecognized tier name.
var ErrUnknownTier = errors.New("lattice: unknown device tier")

func (t DeviceTier) String() string {
	switch t {
	case TierAuto:
		return "auto"
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("DeviceTier(%d)", uint8(t))
	}
}

// ParseTier maps "auto", "low", "mid" or "high" to a DeviceTier.
func ParseTier(s string) (DeviceTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return TierAuto, nil
	case "low":
		return TierLow, nil
	case "mid", "medium":
		return TierMid, nil
	case "high":
		return TierHigh, nil
	}
	return TierAuto, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalText encodes the tier by name.
func (t DeviceTier) MarshalText() ([]byte, error) {
	if t > TierHigh {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *DeviceTier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// NodeCeiling is the maximum node count for the tier.
func (t DeviceTier) NodeCeiling() int {
	switch t {
	case TierLow:
		return 120
	case TierMid:
		return 200
	default:
		return 320
	}
}

// ReducedNodeCount is the node count the quality controller falls back to
// when the lowest quality level is still too slow.
func (t DeviceTier) ReducedNodeCount() int {
	switch t {
	case TierLow:
		return 70
	case TierMid:
		return 120
	default:
		return 200
	}
}

// DetectTier guesses a tier from the surface size in CSS pixels and its
// device pixel ratio.
func DetectTier(width, height int, dpr float64) DeviceTier {
	short := min(width, height)
	pixels := float64(width*height) * dpr * dpr
	switch {
	case width < 768 || short < 480:
		return TierLow
	case width < 1280 || pixels > 8_000_000:
		return TierMid
	default:
		return TierHigh
	}
}

// Options configures a Visualization. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// NodeCount overrides the tier's node ceiling. Zero uses the ceiling;
	// larger values are clamped to it.
	NodeCount int `yaml:"node_count" toml:"node_count"`
	// AutoFormLogo plays the logo formation right after init.
	AutoFormLogo bool       `yaml:"auto_form_logo" toml:"auto_form_logo"`
	Tier         DeviceTier `yaml:"tier" toml:"tier"`
	// Seed makes layouts reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed" toml:"seed"`
	// ReducedMotion renders a single pre-settled static frame.
	ReducedMotion bool `yaml:"reduced_motion" toml:"reduced_motion"`
	Debug         bool `yaml:"debug" toml:"debug"`
	// HoverRadius is how close the pointer must be to a node to hover it.
	HoverRadius    float64       `yaml:"hover_radius" toml:"hover_radius"`
	ResizeDebounce time.Duration `yaml:"resize_debounce" toml:"resize_debounce"`
	ScreenshotDir  string        `yaml:"screenshot_dir" toml:"screenshot_dir"`

	Physics   PhysicsConfig      `yaml:"physics" toml:"physics"`
	Formation FormationConfig    `yaml:"formation" toml:"formation"`
	Quality   QualityConfig      `yaml:"quality" toml:"quality"`
	Particles FlowParticleConfig `yaml:"particles" toml:"particles"`

	// Labels replaces DefaultLabels.
	Labels []NodeLabel `yaml:"-" toml:"-"`
	// Logger receives warnings and debug stats. Nil uses slog.Default.
	Logger *slog.Logger `yaml:"-" toml:"-"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		AutoFormLogo:   true,
		HoverRadius:    24,
		ResizeDebounce: 150 * time.Millisecond,
		ScreenshotDir:  "screenshots",
		Physics:        DefaultPhysicsConfig(),
		Formation:      DefaultFormationConfig(),
		Quality:        DefaultQualityConfig(),
		Particles:      DefaultFlowParticleConfig(),
	}
}

// resolveNodeCount clamps the requested count to the tier ceiling.
func (o Options) resolveNodeCount(tier DeviceTier) int {
	ceiling := tier.NodeCeiling()
	if o.NodeCount <= 0 || o.NodeCount > ceiling {
		return ceiling
	}
	return o.NodeCount
}

// LoadOptions reads options from a .yaml/.yml or .toml file layered over
// DefaultOptions.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("load options: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("load options %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &opts); err != nil {
			return opts, fmt.Errorf("load options %s: %w", path, err)
		}
	default:
		return opts, fmt.Errorf("load options %s: unsupported extension %q", path, ext)
	}
	return opts, nil
}

// SaveOptions writes opts to path as YAML or TOML depending on the extension.
func SaveOptions(path string, opts Options) error {
	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(opts)
		if err != nil {
			return fmt.Errorf("save options: %w", err)
		}
		data = out
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(opts); err != nil {
			return fmt.Errorf("save options: %w", err)
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("save options %s: unsupported extension %q", path, ext)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save options: %w", err)
	}
	return nil
}
