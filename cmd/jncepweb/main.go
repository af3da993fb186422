package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgFileName string

	root := &cobra.Command{
		Use:           "jncepweb",
		Short:         "HTTP front-end for jncep with a file browser over the generated EPUBs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFileName, "config", "c", "config.yml", "Path to config file")

	serve := newServeCommand(&cfgFileName)
	root.AddCommand(serve, newFilesCommand(&cfgFileName))

	// Running without a subcommand starts the server.
	root.RunE = serve.RunE

	return root
}
