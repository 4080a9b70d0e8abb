package lattice

import (
	"testing"
	"time"
)

// setupBenchGraph creates a settled graph of n nodes with a rebuilt index.
func setupBenchGraph(n int) (*Graph, *ForceSimulator, Rect) {
	bounds := Rect{Width: 1920, Height: 1080}
	cfg := DefaultPhysicsConfig()
	sim := NewForceSimulator(cfg, NewSpatialIndex(bounds.Width, bounds.Height, cfg.RepulsionRadius))
	g := NewGraph(n, bounds, nil, testRand())
	for i := 0; i < 30; i++ {
		sim.Rebuild(g)
		sim.Accumulate(g, bounds, PointerState{}, 0)
		sim.Integrate(g, bounds)
	}
	return g, sim, bounds
}

// --- Simulation Benchmarks ---

func BenchmarkRebuild_320Nodes(b *testing.B) {
	g, sim, _ := setupBenchGraph(320)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Rebuild(g)
	}
}

func BenchmarkAccumulate_320Nodes(b *testing.B) {
	g, sim, bounds := setupBenchGraph(320)
	sim.Rebuild(g)
	p := PointerState{Active: true, X: 960, Y: 540}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Accumulate(g, bounds, p, 0)
		clear(g.FX)
		clear(g.FY)
	}
}

func BenchmarkIntegrate_320Nodes(b *testing.B) {
	g, sim, bounds := setupBenchGraph(320)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Integrate(g, bounds)
	}
}

func BenchmarkBuildConnections_320Nodes(b *testing.B) {
	g, _, _ := setupBenchGraph(320)
	rng := testRand()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buildConnections(g, rng)
	}
}

// --- Formation Benchmarks ---

func BenchmarkLogoTargets_320(b *testing.B) {
	p := NewFormationPlanner(DefaultFormationConfig(), testRand())
	bounds := Rect{Width: 1920, Height: 1080}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.LogoTargets(320, bounds)
	}
}

// --- Particle Benchmarks ---

func BenchmarkFlowParticles_480Slots(b *testing.B) {
	g, _, _ := setupBenchGraph(320)
	for i := range g.Conns {
		g.Conns[i].Alpha = 1
	}
	p := NewFlowParticlePool(480, DefaultFlowParticleConfig(), testRand())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Emit(g.Conns, 0.8)
		p.Update(g)
	}
}

// --- Full Frame Benchmarks ---

func benchmarkTick(b *testing.B, tier DeviceTier, mode Mode) {
	opts := testOptions()
	opts.Tier = tier
	v := newTestVisualization(b, opts)
	v.SetMode(mode)
	v.InjectMove(400, 300)
	for i := 0; i < 60; i++ {
		v.Tick(time.Second / 60)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Tick(time.Second / 60)
	}
}

func BenchmarkTick_High_Float(b *testing.B)   { benchmarkTick(b, TierHigh, ModeFloat) }
func BenchmarkTick_High_Cluster(b *testing.B) { benchmarkTick(b, TierHigh, ModeCluster) }
func BenchmarkTick_Low_Float(b *testing.B)    { benchmarkTick(b, TierLow, ModeFloat) }
