// Command lattice runs the lattice graph visualization in a window, writes
// default config files and benchmarks the adaptive quality controller.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/lattice"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	configFile    string
	debug         bool
	nodes         int
	seed          uint64
	tierName      string
	reducedMotion bool
	noLogo        bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		Bad.Fprintf(os.Stderr, "lattice: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lattice",
		Short:         "interactive force-directed graph visualization",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "options file (.yaml, .yml or .toml)")
	pf.BoolVar(&debug, "debug", false, "debug logging and frame timings")
	pf.IntVar(&nodes, "nodes", 0, "node count (0 = device tier ceiling)")
	pf.Uint64Var(&seed, "seed", 0, "random seed (0 = random)")
	pf.StringVar(&tierName, "tier", "auto", "device tier: auto, low, mid or high")
	pf.BoolVar(&reducedMotion, "reduced-motion", false, "render one static frame")
	pf.BoolVar(&noLogo, "no-logo", false, "skip the initial logo formation")

	rootCmd.AddCommand(newRunCmd(), newBenchCmd(), newConfigCmd())
	return rootCmd
}

// loadOptions layers the config file and explicitly set flags over the
// defaults.
func loadOptions(cmd *cobra.Command) (lattice.Options, error) {
	opts := lattice.DefaultOptions()
	if configFile != "" {
		loaded, err := lattice.LoadOptions(configFile)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("nodes") {
		opts.NodeCount = nodes
	}
	if flags.Changed("seed") {
		opts.Seed = seed
	}
	if flags.Changed("tier") {
		tier, err := lattice.ParseTier(tierName)
		if err != nil {
			return opts, err
		}
		opts.Tier = tier
	}
	if flags.Changed("reduced-motion") {
		opts.ReducedMotion = reducedMotion
	}
	if flags.Changed("no-logo") {
		opts.AutoFormLogo = !noLogo
	}
	if flags.Changed("debug") {
		opts.Debug = debug
	}
	opts.Logger = newLogger(opts.Debug)
	return opts, nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printVersionLine(name string) {
	fmt.Println(Brand.Sprint("lattice "+version) + Subtle.Sprint(" · "+name))
}
