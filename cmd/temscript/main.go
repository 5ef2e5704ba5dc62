// Command temscript serves a TEM over HTTP and inspects it from the
// terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/internal/config"
	"github.com/wippyai/temscript/microscope"
	"github.com/wippyai/temscript/mock"
	"github.com/wippyai/temscript/server"
)

type app struct {
	fs  afero.Fs
	cfg *config.Config
	log *zap.Logger
}

func main() {
	a := &app{fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:           "temscript",
		Short:         "TEM scripting bridge",
		Version:       microscope.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(a.fs, path, cmd.Flags())
			if err != nil {
				return err
			}
			l, err := cfg.NewLogger()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg, a.log = cfg, l
			temscript.SetLogger(l.Named("temscript"))
			mock.SetLogger(l.Named("mock"))
			server.SetLogger(l.Named("server"))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(a),
		newInfoCmd(a),
		newInteractiveCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// open connects to the configured backend. The mock backend registers an
// in-process instrument first. The returned close releases everything.
func (a *app) open() (*microscope.Microscope, func() error, error) {
	var revoke func() error
	if a.cfg.Backend == config.BackendMock {
		var err error
		if revoke, err = mock.NewServer().Register(); err != nil {
			return nil, nil, err
		}
		a.log.Info("using mock instrument")
	}

	m, err := microscope.Open()
	if err != nil {
		if revoke != nil {
			err = multierr.Append(err, revoke())
		}
		return nil, nil, err
	}
	a.log.Info("connected", zap.String("family", m.Family()), zap.String("backend", a.cfg.Backend))

	closeFn := func() error {
		err := m.Close()
		if revoke != nil {
			err = multierr.Append(err, revoke())
		}
		return err
	}
	return m, closeFn, nil
}
