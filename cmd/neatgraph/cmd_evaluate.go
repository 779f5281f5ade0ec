package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neat-go/neat/eval"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		pins, rounds int
		seed         int64
	)
	cmd := &cobra.Command{
		Use:   "evaluate <model>",
		Short: "Score a model file on the XOR game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			if pins <= 0 {
				pins = len(g.SensorIDs())
			}
			game, err := eval.NewXorGame(pins, rounds, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			if err := eval.Evaluate(cmd.Context(), g, game, a.cfg.Network); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s fitness %g/%d\n", g.ID, g.Fitness, rounds)
			return nil
		},
	}
	cmd.Flags().IntVar(&pins, "pins", 0, "XOR input pins (default: number of sensors)")
	cmd.Flags().IntVar(&rounds, "rounds", 100, "ticks to play")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for the game's random bits")
	return cmd
}
