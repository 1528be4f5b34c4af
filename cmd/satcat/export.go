package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darianmavgo/satcat/catalog"
	"github.com/darianmavgo/satcat/export"
	"github.com/darianmavgo/satcat/format"
	"github.com/darianmavgo/satcat/templates"
)

func (a *app) exportCmd() *cobra.Command {
	var model, output string

	cmd := &cobra.Command{
		Use:   "export DATABASE SYSTEM",
		Short: "Export one catalog for a target system",
		Long: `Export one catalog model from DATABASE for SYSTEM (dolibarr, odoo or erpnext).
The result is written to --output, or to standard output when it is not set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequest(args[0], args[1], model)
			if err != nil {
				return err
			}

			x := &export.Exporter{
				Templates: templates.Dir(a.cfg.TemplatesDir),
				Logger:    a.logger,
			}
			out, err := x.Export(cmd.Context(), req)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}
			return export.WriteFile(output, out)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "catalog model, see 'satcat models'")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func parseRequest(database, system, model string) (export.Request, error) {
	s, err := format.ParseSystem(system)
	if err != nil {
		return export.Request{}, err
	}
	m, err := catalog.ParseModel(model)
	if err != nil {
		return export.Request{}, err
	}
	return export.Request{Database: database, System: s, Model: m}, nil
}
