package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/darianmavgo/satcat/catalog"
	"github.com/darianmavgo/satcat/format"
)

func (a *app) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List catalog models and the systems that support them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tTABLE\tSYSTEMS")
			for _, m := range catalog.Models() {
				table, err := m.Table()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", m, table, strings.Join(supportedSystems(m), ", "))
			}
			return w.Flush()
		},
	}
}

func supportedSystems(m catalog.Model) []string {
	var names []string
	for _, s := range format.Systems() {
		if _, err := format.Lookup(s.Destination(), m); err == nil {
			names = append(names, string(s))
		}
	}
	return names
}
