// Package eval drives a genotype's network against an environment, one tick
// at a time, and accumulates the genotype's fitness.
package eval

import (
	"context"
	"errors"
	"fmt"

	"github.com/baldhumanity/neat-go/internal/ctxlog"
	"github.com/baldhumanity/neat-go/neat"
	"github.com/baldhumanity/neat-go/neat/nn"
)

// ErrNoOutput is returned when a network produced no values for the game to read.
var ErrNoOutput = errors.New("network produced no output")

// Game is an environment a network is evaluated against.
//
// Each tick the loop calls Collect for sensor values, activates the network,
// hands the output values to Actuate, and then lets UpdateScore compute the
// new fitness from the previous one. Actuate returns false to end the run.
type Game interface {
	Initialize(g *neat.Genotype) error
	Collect() (nn.DataPkt, error)
	Actuate(out nn.DataPkt) (bool, error)
	UpdateScore(old float64) float64
}

// Activator evaluates a network on one packet of sensor values.
// *nn.FeedForwardNetwork satisfies it.
type Activator interface {
	Activate(inputs nn.DataPkt) (nn.DataPkt, error)
}

// Loop runs game against net until Actuate reports the end or ctx is done,
// writing the running score into g.Fitness after every tick.
func Loop(ctx context.Context, g *neat.Genotype, game Game, net Activator) error {
	logger := ctxlog.FromContext(ctx).With("genotype", g.ID)

	if err := game.Initialize(g); err != nil {
		return fmt.Errorf("initialize game: %w", err)
	}

	ticks := 0
	for {
		if err := ctx.Err(); err != nil {
			logger.Debug("evaluation cancelled", "ticks", ticks, "fitness", g.Fitness)
			return err
		}

		in, err := game.Collect()
		if err != nil {
			return fmt.Errorf("collect tick %d: %w", ticks, err)
		}
		out, err := net.Activate(in)
		if err != nil {
			return fmt.Errorf("activate tick %d: %w", ticks, err)
		}
		cont, err := game.Actuate(out)
		if err != nil {
			return fmt.Errorf("actuate tick %d: %w", ticks, err)
		}
		g.Fitness = game.UpdateScore(g.Fitness)
		ticks++

		if !cont {
			logger.Debug("evaluation finished", "ticks", ticks, "fitness", g.Fitness)
			return nil
		}
	}
}

// Evaluate builds a feed-forward network from g with the given function
// names and runs Loop with it.
func Evaluate(ctx context.Context, g *neat.Genotype, game Game, cfg neat.NetworkConfig) error {
	net, err := nn.CreateFeedForwardNetwork(g, cfg.Activation, cfg.Aggregation)
	if err != nil {
		return fmt.Errorf("build network for genotype %s: %w", g.ID, err)
	}
	return Loop(ctx, g, game, net)
}
