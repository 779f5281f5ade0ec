package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neat-go/internal/ctxlog"
	"github.com/baldhumanity/neat-go/neat"
)

// app carries the persistent flags and the state derived from them.
type app struct {
	configPath string
	logLevel   string

	cfg    *neat.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "neatgraph",
		Short:         "Create, mutate and inspect NEAT topology genotypes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "INI config file (defaults are used when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newNewCmd(a),
		newMutateCmd(a),
		newInspectCmd(a),
		newEvaluateCmd(a),
		newRenderCmd(a),
		newArchiveCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	cmd.SetContext(ctxlog.WithLogger(contextOf(cmd), a.logger))

	if a.configPath == "" {
		a.cfg = neat.DefaultConfig()
		return nil
	}
	cfg, err := neat.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "path", a.configPath)
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// genotypeOptions returns the construction options for genotype id.
func (a *app) genotypeOptions(id string) []neat.Option {
	opts := a.cfg.Genotype.GenotypeOptions()
	opts = append(opts, neat.WithLogger(a.logger))
	if id != "" {
		opts = append(opts, neat.WithID(id))
	}
	return opts
}

// loadModel reads a model file; the genotype id is the file stem.
func (a *app) loadModel(path string) (*neat.Genotype, error) {
	return neat.LoadModel(path, a.genotypeOptions(modelStem(path))...)
}

func modelStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), neat.ModelExt)
}
