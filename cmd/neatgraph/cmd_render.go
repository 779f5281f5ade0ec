package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neat-go/neat/probe"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		outDir  string
		dotOnly bool
	)
	cmd := &cobra.Command{
		Use:   "render <model>",
		Short: "Draw a model file as Graphviz DOT and PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.Probe.OutputDir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			if dotOnly {
				b, err := probe.MarshalDOT(g)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, g.ID+".dot")
				if err := os.WriteFile(path, b, 0o644); err != nil {
					return fmt.Errorf("cannot write dot file '%s': %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			png, err := probe.RenderImage(cmd.Context(), g, outDir, a.cfg.Probe.DotCommand)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), png)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default [Probe] output_dir)")
	cmd.Flags().BoolVar(&dotOnly, "dot-only", false, "write the .dot file without running Graphviz")
	return cmd
}
