package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neat-go/neat/probe"
)

func newInspectCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "inspect <model>",
		Short: "Print the genes and topology summary of a model file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asYAML {
				return probe.WriteSnapshot(w, g)
			}

			if err := probe.PrintNodes(w, g); err != nil {
				return err
			}
			if err := probe.PrintConnections(w, g); err != nil {
				return err
			}
			order, err := g.TopologicalOrder()
			if err != nil {
				return err
			}
			ids := make([]string, len(order))
			for i, id := range order {
				ids[i] = fmt.Sprint(id)
			}
			fmt.Fprintf(w, "enabled: %d\ncomponents: %d\norder: %s\n",
				g.EnabledCount(), g.Components(), strings.Join(ids, " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print a YAML snapshot instead")
	return cmd
}
