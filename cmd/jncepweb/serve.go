package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/jncepweb/internal/app"
	"github.com/jgivc/jncepweb/internal/config"
	"github.com/spf13/cobra"
)

func newServeCommand(cfgFileName *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app.New(config.MustLoad(*cfgFileName))
			if err := a.Start(); err != nil {
				return err
			}

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(c)

			<-c
			fmt.Fprintln(cmd.ErrOrStderr(), "Received termination signal. Shutting down...")

			a.Stop()
			fmt.Fprintln(cmd.ErrOrStderr(), "done")

			return nil
		},
	}
}
