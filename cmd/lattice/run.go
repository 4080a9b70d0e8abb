package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/lattice"
	"github.com/spf13/cobra"
)

const surfaceID = "lattice"

var (
	width      int
	height     int
	scriptPath string
	showHUD    bool
	maxFrames  int
	startMode  string
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open the visualization in a window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	f := runCmd.Flags()
	f.IntVar(&width, "width", 1280, "window width")
	f.IntVar(&height, "height", 720, "window height")
	f.StringVar(&scriptPath, "script", "", "JSON test script to play back")
	f.BoolVar(&showHUD, "hud", false, "show the FPS and quality overlay")
	f.IntVar(&maxFrames, "frames", 0, "quit after this many frames (0 = never)")
	f.StringVar(&startMode, "mode", "", "initial mode: float, logo or cluster")
	return runCmd
}

func runWindow(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	w, h := width, height
	if w <= 0 || h <= 0 {
		w, h = 1280, 720
	}
	surfaces := lattice.NewSurfaceRegistry(lattice.WindowSurface(surfaceID, w, h))
	v := lattice.Init(surfaces, surfaceID, opts)
	if v == nil {
		return lattice.ErrNotInitialized
	}

	if startMode != "" {
		m, err := lattice.ParseMode(startMode)
		if err != nil {
			v.Destroy()
			return err
		}
		v.SetMode(m)
	}

	cfg := lattice.RunConfig{
		Title:     "Lattice",
		Width:     w,
		Height:    h,
		Resizable: true,
		ShowHUD:   showHUD || opts.Debug,
		Shortcuts: true,
		MaxFrames: maxFrames,
	}
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			v.Destroy()
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := lattice.LoadTestScript(data)
		if err != nil {
			v.Destroy()
			return err
		}
		v.SetTestRunner(runner)
		cfg.ExitWhenScriptDone = true
	}

	printVersionLine(fmt.Sprintf("%d nodes, tier %s, seed %d", v.Graph().Len(), v.Tier(), v.Seed()))
	return lattice.Run(v, cfg)
}
