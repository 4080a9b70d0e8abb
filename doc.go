// Package lattice is an interactive force-directed graph visualization for
// [Ebitengine].
//
// A few hundred labeled, categorized nodes float under a Verlet physics
// simulation: pairwise repulsion, spring edges, gentle recentering and a
// pointer force. On demand the nodes converge into a logo silhouette or
// into per-category clusters, and flow particles travel along the edges.
// An adaptive quality controller trades visual effects, and as a last
// resort node count, for frame rate.
//
// # Quick start
//
// Register a surface, attach a visualization to it and hand it to [Run]:
//
//	surf := lattice.WindowSurface("hero", 1280, 720)
//	v := lattice.Init(lattice.NewSurfaceRegistry(surf), "hero", lattice.DefaultOptions())
//	if err := lattice.Run(v, lattice.RunConfig{Title: "Lattice"}); err != nil {
//		log.Fatal(err)
//	}
//
// [Init] returns nil and logs a warning when the surface id is unknown.
// For full control, implement [ebiten.Game] yourself and call
// [Visualization.Tick] from Update and [Visualization.Draw] from Draw.
// Call [Visualization.SetLiveInput] so the mouse and touch are polled.
//
// # Events
//
// [Visualization.SetEventSink] forwards node clicks, hover changes, mode
// changes and quality changes to an [EventSink]. The ecs module adapts the
// sink to a Donburi world.
//
// # Frame order
//
// Every [Visualization.Tick] runs, in order: input snapshot, quality
// sampling, spatial index rebuild, force accumulation, Verlet integration,
// formation progress and particle update. [Visualization.Draw] then renders
// the grid, pointer glow, trails, connections, particles, nodes and the
// cluster legend, skipping layers the current [QualityLevel] disables.
//
// # Modes
//
// [ModeFloat] is free simulation. [Visualization.FormLogo] pulls nodes onto
// the logo strokes with elastic easing and reverts to float after a hold.
// [ModeCluster] groups nodes by [Category] until the mode is changed again.
// Formations only set targets; the force simulator does the moving.
//
// # Configuration
//
// [Options] can be loaded from YAML or TOML with [LoadOptions]. The
// cmd/lattice tool runs the visualization, writes default config files and
// benchmarks the quality controller headlessly.
//
// # Testing
//
// Tick runs without a window, so tests drive frames directly. Synthetic input
// ([Visualization.InjectClick] and friends) and JSON scripts
// ([LoadTestScript]) reproduce interactions, and [Visualization.Screenshot]
// captures PNGs when running under [Run].
//
// [Ebitengine]: https://ebitengine.org
package lattice
