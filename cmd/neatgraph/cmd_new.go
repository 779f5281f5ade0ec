package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neat-go/neat"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		sensors, outputs int
		outDir, name     string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a genotype with every sensor connected to every output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sensors <= 0 {
				sensors = a.cfg.Genotype.NumSensors
			}
			if outputs <= 0 {
				outputs = a.cfg.Genotype.NumOutputs
			}
			if outDir == "" {
				outDir = a.cfg.Probe.OutputDir
			}
			g, err := neat.NewGenotype(sensors, outputs, a.genotypeOptions(name)...)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			path := neat.ModelPath(outDir, g.ID)
			if err := neat.DumpModel(g, path); err != nil {
				return err
			}
			a.logger.Info("genotype created", "genotype", g.ID, "sensors", sensors, "outputs", outputs)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().IntVar(&sensors, "sensors", 0, "number of sensor nodes (default from config)")
	cmd.Flags().IntVar(&outputs, "outputs", 0, "number of output nodes (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default [Probe] output_dir)")
	cmd.Flags().StringVar(&name, "name", "", "genotype id and file stem (default random uuid)")
	return cmd
}
