package main

import (
	"github.com/spf13/cobra"

	"github.com/darianmavgo/satcat/builder"
	"github.com/darianmavgo/satcat/fetch"
)

func (a *app) buildCmd() *cobra.Command {
	var opts builder.Options

	cmd := &cobra.Command{
		Use:   "build-database",
		Short: "Build the catalog database from the published SQL scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Path == "" {
				opts.Path = a.cfg.Database
			}

			timeout, err := a.cfg.DownloadTimeoutDuration()
			if err != nil {
				return err
			}
			stall, err := a.cfg.StallTimeoutDuration()
			if err != nil {
				return err
			}

			d := fetch.New(timeout, stall).WithTempDir(a.cfg.WorkDir)
			d.Progress = cmd.ErrOrStderr()
			d.Logger = a.logger

			b := &builder.Builder{
				Downloader:    d,
				ArchiveURL:    a.cfg.ArchiveURL,
				ArchivePrefix: a.cfg.ArchivePrefix,
				WorkDir:       a.cfg.WorkDir,
				Logger:        a.logger,
			}
			return b.Build(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "name", "n", "", "database file (default from config, catalogs.db)")
	cmd.Flags().BoolVarP(&opts.Overwrite, "overwrite", "o", false, "replace an existing database")
	cmd.Flags().StringVar(&opts.SourceDir, "source", "", "use already extracted schemas/ and data/ instead of downloading")
	return cmd
}
