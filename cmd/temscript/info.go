package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/wippyai/temscript/microscope"
	"github.com/wippyai/temscript/server"
)

// summary is what the info command prints.
type summary struct {
	Family         string                             `json:"family"`
	MicroscopeID   string                             `json:"microscope_id"`
	Version        string                             `json:"version"`
	Voltage        float64                            `json:"voltage(kV)"`
	Vacuum         microscope.VacuumState             `json:"vacuum"`
	StageStatus    string                             `json:"stage_status"`
	StagePosition  any                                `json:"stage_position"`
	InstrumentMode string                             `json:"instrument_mode"`
	Cameras        map[string]microscope.CameraInfo   `json:"cameras"`
	STEMDetectors  map[string]microscope.DetectorInfo `json:"stem_detectors"`
}

func newInfoCmd(a *app) *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print a summary of the instrument",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				s   summary
				err error
			)
			if remote != "" {
				var c *server.Client
				if c, err = server.NewClient(remote); err == nil {
					s, err = remoteSummary(cmd.Context(), c)
				}
			} else {
				s, err = a.localSummary()
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "query a temscript server, e.g. http://tem-pc:8080")
	return cmd
}

// collect runs the reads in order and keeps the first error.
type collect struct{ err error }

func field[V any](c *collect, dst *V, get func() (V, error)) {
	if c.err != nil {
		return
	}
	*dst, c.err = get()
}

func (a *app) localSummary() (s summary, err error) {
	m, closeFn, err := a.open()
	if err != nil {
		return s, err
	}
	defer func() {
		err = multierr.Append(err, closeFn())
	}()

	s = summary{Family: m.Family(), Version: m.Version()}
	var c collect
	field(&c, &s.MicroscopeID, m.MicroscopeID)
	field(&c, &s.Voltage, m.Voltage)
	field(&c, &s.Vacuum, m.Vacuum)
	field(&c, &s.StageStatus, m.StageStatus)
	field(&c, &s.StagePosition, func() (any, error) { return m.StagePosition() })
	field(&c, &s.InstrumentMode, m.InstrumentMode)
	field(&c, &s.Cameras, m.Cameras)
	field(&c, &s.STEMDetectors, m.STEMDetectors)
	return s, c.err
}

func remoteSummary(ctx context.Context, cl *server.Client) (summary, error) {
	var s summary
	var c collect
	bind := func(fn func(context.Context) (string, error)) func() (string, error) {
		return func() (string, error) { return fn(ctx) }
	}
	field(&c, &s.Family, bind(cl.Family))
	field(&c, &s.MicroscopeID, bind(cl.MicroscopeID))
	field(&c, &s.Version, bind(cl.Version))
	field(&c, &s.Voltage, func() (float64, error) { return cl.Voltage(ctx) })
	field(&c, &s.Vacuum, func() (microscope.VacuumState, error) { return cl.Vacuum(ctx) })
	field(&c, &s.StageStatus, bind(cl.StageStatus))
	field(&c, &s.StagePosition, func() (any, error) { return cl.StagePosition(ctx) })
	field(&c, &s.InstrumentMode, bind(cl.InstrumentMode))
	field(&c, &s.Cameras, func() (map[string]microscope.CameraInfo, error) { return cl.Cameras(ctx) })
	field(&c, &s.STEMDetectors, func() (map[string]microscope.DetectorInfo, error) { return cl.STEMDetectors(ctx) })
	return s, c.err
}
