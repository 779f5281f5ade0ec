package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/baldhumanity/neat-go/neat"
	"github.com/baldhumanity/neat-go/neat/metrics"
	"github.com/baldhumanity/neat-go/neat/trace"
)

func newMutateCmd(a *app) *cobra.Command {
	var (
		rounds                            int
		out, tracePath, cpPath, metricsTo string
	)
	cmd := &cobra.Command{
		Use:   "mutate <model>",
		Short: "Apply rounds of structural mutations to a model file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			if rounds < 0 {
				rounds = a.cfg.Mutation.Rounds
			}
			if out == "" {
				out = args[0]
			}

			var tw *trace.Writer
			if tracePath != "" {
				f, err := os.Create(tracePath)
				if err != nil {
					return fmt.Errorf("create trace file: %w", err)
				}
				defer f.Close()
				tw = trace.NewWriter(f)
			}

			reg := prometheus.NewRegistry()
			rec := metrics.NewRecorder(reg)

			for round := 1; round <= rounds; round++ {
				results, err := g.Mutate(&a.cfg.Mutation)
				for _, res := range results {
					rec.Observe(res)
					if werr := tw.Write(trace.NewRecord(round, g, res)); werr != nil {
						return werr
					}
				}
				if err != nil {
					return fmt.Errorf("round %d: %w", round, err)
				}
			}
			rec.SetSize(g)

			if err := neat.DumpModel(g, out); err != nil {
				return err
			}
			if cpPath != "" {
				cp := &neat.Checkpoint{Round: rounds, Genotypes: []*neat.Genotype{g}}
				if err := cp.SaveCheckpoint(cpPath); err != nil {
					return err
				}
			}
			if metricsTo != "" {
				f, err := os.Create(metricsTo)
				if err != nil {
					return fmt.Errorf("create metrics file: %w", err)
				}
				defer f.Close()
				if err := metrics.WriteText(f, reg); err != nil {
					return err
				}
			}

			a.logger.Info("genotype mutated",
				"genotype", g.ID,
				"rounds", rounds,
				"nodes", g.NodeCount(),
				"connections", g.ConnectionCount(),
				"enabled", g.EnabledCount(),
				"trace_rows", tw.Rows())
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "n", -1, "number of Mutate rounds (default [Mutation] rounds)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output model path (default: overwrite the input)")
	cmd.Flags().StringVar(&tracePath, "trace", "", "write a CSV row per mutation operator to this file")
	cmd.Flags().StringVar(&cpPath, "checkpoint", "", "write a gzip/gob checkpoint to this file")
	cmd.Flags().StringVar(&metricsTo, "metrics", "", "write Prometheus text metrics to this file")
	return cmd
}
