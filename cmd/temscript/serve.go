package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/wippyai/temscript/internal/telemetry"
	"github.com/wippyai/temscript/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the microscope over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Setup(a.cfg.Telemetry, os.Stderr)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, shutdown(context.Background()))
			}()

			m, closeFn, err := a.open()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, closeFn())
			}()

			return server.New(m, a.cfg.ServerConfig()).ListenAndServe(ctx, a.cfg.Addr())
		},
	}
}
