package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neat-go/neat"
	"github.com/baldhumanity/neat-go/neat/storage"
)

func newArchiveCmd(a *app) *cobra.Command {
	var backend, path string
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve genotypes in the archive",
	}
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "archive backend override: memory or badger")
	cmd.PersistentFlags().StringVar(&path, "path", "", "archive path override")

	open := func() (storage.Store, error) {
		cfg := a.cfg.Archive
		if backend != "" {
			cfg.Backend = backend
		}
		if path != "" {
			cfg.Path = path
		}
		return storage.NewStore(cfg, a.logger, a.genotypeOptions("")...)
	}

	put := &cobra.Command{
		Use:   "put <model>...",
		Short: "Archive model files under their file stems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()
			for _, p := range args {
				g, err := a.loadModel(p)
				if err != nil {
					return err
				}
				if err := s.Put(cmd.Context(), g); err != nil {
					return fmt.Errorf("archive %s: %w", g.ID, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), g.ID)
			}
			return nil
		},
	}

	var outDir string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Write an archived genotype back to a model file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()
			g, ok, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", args[0], storage.ErrNotFound)
			}
			if outDir == "" {
				outDir = a.cfg.Probe.OutputDir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			p := neat.ModelPath(outDir, g.ID)
			if err := neat.DumpModel(g, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	get.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default [Probe] output_dir)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List archived genotype ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()
			ids, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a genotype from the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(put, get, list, del)
	return cmd
}
