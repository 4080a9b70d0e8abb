package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/phanxgames/lattice"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceWrite bool

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage options files",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default options to a .yaml or .toml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "lattice.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeDefaultConfig(path, forceWrite); err != nil {
				return err
			}
			Good.Printf("wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&forceWrite, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the effective options as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			return showConfig(cmd.OutOrStdout(), opts)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

// writeDefaultConfig saves lattice.DefaultOptions to path, refusing to
// overwrite an existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return lattice.SaveOptions(path, lattice.DefaultOptions())
}

func showConfig(w io.Writer, opts lattice.Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(opts); err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return enc.Close()
}
