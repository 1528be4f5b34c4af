package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/darianmavgo/satcat/export"
	"github.com/darianmavgo/satcat/loader"
	"github.com/darianmavgo/satcat/templates"
)

func (a *app) loadCmd() *cobra.Command {
	var model, system, dsn string

	cmd := &cobra.Command{
		Use:   "load DATABASE",
		Short: "Export a catalog and apply it to a PostgreSQL Dolibarr database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequest(args[0], system, model)
			if err != nil {
				return err
			}
			if err := loader.Check(req.System); err != nil {
				return err
			}
			if dsn == "" {
				dsn = a.cfg.PostgresDSN
			}
			if dsn == "" {
				return errors.New("no --dsn given and postgres_dsn is not configured")
			}

			x := &export.Exporter{
				Templates: templates.Dir(a.cfg.TemplatesDir),
				Logger:    a.logger,
			}
			script, err := x.Export(cmd.Context(), req)
			if err != nil {
				return err
			}

			l := &loader.Loader{Logger: a.logger}
			return l.Load(cmd.Context(), dsn, script)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "catalog model, see 'satcat models'")
	cmd.Flags().StringVar(&system, "system", "dolibarr", "target system")
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL connection URL (default from config)")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
