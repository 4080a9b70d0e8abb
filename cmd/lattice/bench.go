package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/phanxgames/lattice"
	"github.com/spf13/cobra"
)

var (
	benchFrames  int
	benchProfile string
	benchWidth   int
	benchHeight  int
	benchPlot    bool
)

// frameProfile returns the synthetic frame delta for frame i of n.
type frameProfile func(i, n int) time.Duration

var profiles = map[string]frameProfile{
	// steady holds 60 FPS.
	"steady": func(i, n int) time.Duration { return fpsDelta(60) },
	// degrade runs at 60 FPS for the first quarter, then falls to 20.
	"degrade": func(i, n int) time.Duration {
		if i < n/4 {
			return fpsDelta(60)
		}
		return fpsDelta(20)
	},
	// recover starts at 24 FPS and climbs to 60 at the halfway mark.
	"recover": func(i, n int) time.Duration {
		if i < n/2 {
			return fpsDelta(24)
		}
		return fpsDelta(60)
	},
	// sawtooth oscillates between 24 and 58 FPS every 180 frames.
	"sawtooth": func(i, n int) time.Duration {
		phase := float64(i%180) / 180
		return fpsDelta(24 + 34*phase)
	},
}

func fpsDelta(fps float64) time.Duration {
	return time.Duration(float64(time.Second) / fps)
}

func profileNames() []string {
	return []string{"steady", "degrade", "recover", "sawtooth"}
}

// transition records a quality or node-count change during a bench run.
type transition struct {
	Frame int
	What  string
}

// benchResult summarizes one headless run.
type benchResult struct {
	Frames      int
	NodesStart  int
	NodesEnd    int
	QualityEnd  lattice.QualityLevel
	Transitions []transition
	TickCost    time.Duration // mean wall time per Tick
	FPS         []float64
	Quality     []float64
}

func newBenchCmd() *cobra.Command {
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "drive the engine headlessly against a synthetic frame-time profile",
		Long: "bench runs the simulation without a window, feeding the quality controller\n" +
			"synthetic frame deltas. Profiles: " + strings.Join(profileNames(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			if !opts.Debug {
				opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			}
			res, err := runBench(opts, benchProfile, benchFrames, benchWidth, benchHeight)
			if err != nil {
				return err
			}
			printBench(os.Stdout, benchProfile, res, benchPlot)
			return nil
		},
	}
	f := benchCmd.Flags()
	f.IntVar(&benchFrames, "frames", 1800, "frames to simulate")
	f.StringVar(&benchProfile, "profile", "degrade", "frame-time profile")
	f.IntVar(&benchWidth, "width", 1280, "surface width in pixels")
	f.IntVar(&benchHeight, "height", 720, "surface height in pixels")
	f.BoolVar(&benchPlot, "plot", true, "plot FPS and quality")
	return benchCmd
}

// runBench simulates frames ticks with deltas from the named profile.
func runBench(opts lattice.Options, profile string, frames, w, h int) (benchResult, error) {
	fn, ok := profiles[profile]
	if !ok {
		return benchResult{}, fmt.Errorf("unknown profile %q (want one of %s)",
			profile, strings.Join(profileNames(), ", "))
	}
	if frames <= 0 {
		return benchResult{}, fmt.Errorf("frames must be positive, got %d", frames)
	}

	surfaces := lattice.NewSurfaceRegistry(lattice.Surface{ID: surfaceID, Width: w, Height: h, DPR: 1})
	v := lattice.Init(surfaces, surfaceID, opts)
	if v == nil {
		return benchResult{}, lattice.ErrNotInitialized
	}
	defer v.Destroy()

	res := benchResult{
		Frames:     frames,
		NodesStart: v.Graph().Len(),
		FPS:        make([]float64, 0, frames),
		Quality:    make([]float64, 0, frames),
	}
	level, count := v.Quality(), v.Graph().Len()
	var spent time.Duration
	for i := 0; i < frames; i++ {
		dt := fn(i, frames)
		start := time.Now()
		v.Tick(dt)
		spent += time.Since(start)

		if q := v.Quality(); q != level {
			res.Transitions = append(res.Transitions, transition{Frame: i, What: fmt.Sprintf("quality %s → %s", level, q)})
			level = q
		}
		if n := v.Graph().Len(); n != count {
			res.Transitions = append(res.Transitions, transition{Frame: i, What: fmt.Sprintf("nodes %d → %d", count, n)})
			count = n
		}
		res.FPS = append(res.FPS, 1/dt.Seconds())
		res.Quality = append(res.Quality, float64(level))
	}
	res.NodesEnd = count
	res.QualityEnd = level
	res.TickCost = spent / time.Duration(frames)
	return res, nil
}

func printBench(w io.Writer, profile string, res benchResult, plot bool) {
	fmt.Fprintln(w, Brand.Sprint("lattice bench")+Subtle.Sprintf(" · profile %s · %d frames", profile, res.Frames))
	fmt.Fprintln(w)

	if plot && len(res.FPS) > 1 {
		fmt.Fprintln(w, asciigraph.Plot(res.FPS,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("frame rate (FPS)"),
		))
		fmt.Fprintln(w)
		fmt.Fprintln(w, asciigraph.Plot(res.Quality,
			asciigraph.Height(3),
			asciigraph.Width(80),
			asciigraph.Caption("quality level (0 low, 2 high)"),
		))
		fmt.Fprintln(w)
	}

	if len(res.Transitions) == 0 {
		fmt.Fprintln(w, Good.Sprint("  no quality changes"))
	}
	for _, t := range res.Transitions {
		style := Info
		if strings.HasPrefix(t.What, "nodes") {
			style = Warn
		}
		fmt.Fprintf(w, "  %s %s\n", Subtle.Sprintf("frame %5d", t.Frame), style.Sprint(t.What))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  nodes     %d → %d\n", res.NodesStart, res.NodesEnd)
	fmt.Fprintf(w, "  quality   %s\n", res.QualityEnd)
	fmt.Fprintf(w, "  tick cost %s\n", res.TickCost)
}
