package lattice

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    DeviceTier
		wantErr bool
	}{
		{"", TierAuto, false},
		{"auto", TierAuto, false},
		{"LOW", TierLow, false},
		{"mid", TierMid, false},
		{" medium ", TierMid, false},
		{"high", TierHigh, false},
		{"ultra", TierAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTier(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownTier) {
			t.Errorf("ParseTier(%q) err = %v, want ErrUnknownTier", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDetectTier(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		dpr  float64
		want DeviceTier
	}{
		{"phone portrait", 390, 844, 3, TierLow},
		{"short landscape", 900, 400, 2, TierLow},
		{"tablet", 1024, 768, 2, TierMid},
		{"laptop", 1440, 900, 1, TierHigh},
		{"dense 4k", 1920, 1080, 2, TierMid},
		{"desktop", 1920, 1080, 1, TierHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTier(tt.w, tt.h, tt.dpr); got != tt.want {
				t.Errorf("DetectTier(%d, %d, %v) = %v, want %v", tt.w, tt.h, tt.dpr, got, tt.want)
			}
		})
	}
}

func TestTierNodeCounts(t *testing.T) {
	tests := []struct {
		tier             DeviceTier
		ceiling, reduced int
	}{
		{TierLow, 120, 70},
		{TierMid, 200, 120},
		{TierHigh, 320, 200},
	}
	for _, tt := range tests {
		if got := tt.tier.NodeCeiling(); got != tt.ceiling {
			t.Errorf("%v.NodeCeiling() = %d, want %d", tt.tier, got, tt.ceiling)
		}
		if got := tt.tier.ReducedNodeCount(); got != tt.reduced {
			t.Errorf("%v.ReducedNodeCount() = %d, want %d", tt.tier, got, tt.reduced)
		}
	}
}

func TestResolveNodeCount(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		count int
		want  int
	}{
		{0, 200},
		{-5, 200},
		{50, 50},
		{500, 200},
	}
	for _, tt := range tests {
		opts.NodeCount = tt.count
		if got := opts.resolveNodeCount(TierMid); got != tt.want {
			t.Errorf("resolveNodeCount(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	want := DefaultOptions()
	want.NodeCount = 90
	want.Seed = 1234
	want.Tier = TierMid
	want.ReducedMotion = true
	want.Formation.LogoHold = 3 * time.Second
	want.Quality.Floor = QualityMedium
	want.Particles.Speed = Range{Min: 0.01, Max: 0.02}

	dir := t.TempDir()
	for _, name := range []string{"opts.yaml", "opts.yml", "opts.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveOptions(path, want); err != nil {
				t.Fatalf("SaveOptions: %v", err)
			}
			got, err := LoadOptions(path)
			if err != nil {
				t.Fatalf("LoadOptions: %v", err)
			}
			if got.NodeCount != want.NodeCount || got.Seed != want.Seed || got.Tier != want.Tier ||
				got.ReducedMotion != want.ReducedMotion {
				t.Errorf("top-level fields = %+v", got)
			}
			if got.Formation != want.Formation {
				t.Errorf("Formation = %+v, want %+v", got.Formation, want.Formation)
			}
			if got.Quality != want.Quality {
				t.Errorf("Quality = %+v, want %+v", got.Quality, want.Quality)
			}
			if got.Particles != want.Particles {
				t.Errorf("Particles = %+v, want %+v", got.Particles, want.Particles)
			}
			if got.Physics != want.Physics {
				t.Errorf("Physics = %+v, want %+v", got.Physics, want.Physics)
			}
		})
	}
}

func TestLoadOptionsLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "node_count: 42\nphysics:\n  damping: 0.8\nquality:\n  floor: medium\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	def := DefaultOptions()
	if opts.NodeCount != 42 || opts.Physics.Damping != 0.8 || opts.Quality.Floor != QualityMedium {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if opts.Physics.Repulsion != def.Physics.Repulsion || opts.Formation != def.Formation {
		t.Error("unset fields lost their defaults")
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadOptions(filepath.Join(dir, "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v, want fs.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "opts.json")
	if err := os.WriteFile(bad, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(bad); err == nil {
		t.Error("expected error for .json")
	}
	if err := SaveOptions(bad, DefaultOptions()); err == nil {
		t.Error("expected error saving .json")
	}

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("tier = \"galaxy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(broken); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestSurfaceRegistry(t *testing.T) {
	r := NewSurfaceRegistry(Surface{ID: "a", Width: 100, Height: 50, DPR: 2})
	if s, ok := r.LookupSurface("a"); !ok || s.Width != 100 {
		t.Fatalf("LookupSurface(a) = %+v, %v", s, ok)
	}
	if _, ok := r.LookupSurface("b"); ok {
		t.Error("found unregistered surface")
	}
	r.Register(Surface{ID: "b", Width: 10, Height: 10, DPR: 1})
	r.Remove("a")
	if _, ok := r.LookupSurface("a"); ok {
		t.Error("removed surface still found")
	}
	if _, ok := r.LookupSurface("b"); !ok {
		t.Error("registered surface missing")
	}
}

func TestSurfaceCSSSize(t *testing.T) {
	tests := []struct {
		s            Surface
		wantW, wantH int
	}{
		{Surface{Width: 2560, Height: 1440, DPR: 2}, 1280, 720},
		{Surface{Width: 800, Height: 600}, 800, 600},
	}
	for _, tt := range tests {
		if w, h := tt.s.CSSSize(); w != tt.wantW || h != tt.wantH {
			t.Errorf("CSSSize(%+v) = %d x %d, want %d x %d", tt.s, w, h, tt.wantW, tt.wantH)
		}
	}
}
