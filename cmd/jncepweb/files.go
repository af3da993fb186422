package main

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jgivc/jncepweb/internal/adapter/fsadapter"
	"github.com/jgivc/jncepweb/internal/app"
	"github.com/jgivc/jncepweb/internal/config"
	"github.com/jgivc/jncepweb/internal/entity"
	"github.com/spf13/cobra"
)

func newFilesCommand(cfgFileName *string) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List downloaded files, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad(*cfgFileName)
			log := app.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())

			bcfg := cfg.BrowserCfg()
			files, err := fsadapter.NewFSAdapter(bcfg, log).ListFiles(bcfg.WorkDir, search)
			if err != nil {
				return err
			}

			renderFiles(cmd.OutOrStdout(), files)

			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive name filter")

	return cmd
}

func renderFiles(w io.Writer, files []*entity.FileEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "Size", "Created", "File"})

	for _, f := range files {
		t.AppendRow(table.Row{f.DisplayName, humanize.Bytes(uint64(max(f.Size, 0))), humanize.Time(f.CreatedAt), f.FullName})
	}

	t.AppendFooter(table.Row{"", "", "Total", len(files)})
	t.Render()
}
