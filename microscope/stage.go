package microscope

import (
	"fmt"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/scripting"
)

// StageAxes lists the axis names accepted by the stage methods.
var StageAxes = []string{"x", "y", "z", "a", "b"}

// Movement methods for SetStagePosition.
const (
	MoveGo   = "GO"
	MoveMove = "MOVE"
)

// VacuumState summarizes the vacuum system. Gauges maps a gauge name to its
// pressure in pascal, or to "UNDERFLOW"/"OVERFLOW". Gauges in any other
// state are left out.
type VacuumState struct {
	Status           string         `json:"status"`
	ColumnValvesOpen bool           `json:"column_valves_open"`
	PVPRunning       bool           `json:"pvp_running"`
	Gauges           map[string]any `json:"gauges(Pa)"`
}

// Vacuum reads every gauge and returns the vacuum summary.
func (m *Microscope) Vacuum() (VacuumState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gauges, err := m.vac.Gauges()
	if err != nil {
		return VacuumState{}, err
	}
	defer closeAll(gauges)

	out := VacuumState{Gauges: make(map[string]any, len(gauges))}
	for _, g := range gauges {
		if err := g.Read(); err != nil {
			return VacuumState{}, err
		}
		status, err := g.Status()
		if err != nil {
			return VacuumState{}, err
		}
		name, err := g.Name()
		if err != nil {
			return VacuumState{}, err
		}
		switch status {
		case scripting.GaugeStatusUnderflow, scripting.GaugeStatusOverflow:
			out.Gauges[name] = status.String()
		case scripting.GaugeStatusValid:
			p, err := g.Pressure()
			if err != nil {
				return VacuumState{}, err
			}
			out.Gauges[name] = p
		}
	}

	status, err := m.vac.Status()
	if err != nil {
		return VacuumState{}, err
	}
	out.Status = status.String()
	if out.ColumnValvesOpen, err = m.vac.ColumnValvesOpen(); err != nil {
		return VacuumState{}, err
	}
	if out.PVPRunning, err = m.vac.PVPRunning(); err != nil {
		return VacuumState{}, err
	}
	return out, nil
}

func (m *Microscope) ColumnValvesOpen() (bool, error) {
	return m.vac.ColumnValvesOpen()
}

func (m *Microscope) SetColumnValvesOpen(open bool) error {
	return m.vac.SetColumnValvesOpen(open)
}

func (m *Microscope) StageHolder() (string, error) {
	h, err := m.stage.Holder()
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

func (m *Microscope) StageStatus() (string, error) {
	s, err := m.stage.Status()
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// StageLimits returns the (min, max) range of every axis.
func (m *Microscope) StageLimits() (map[string][2]float64, error) {
	out := make(map[string][2]float64, len(StageAxes))
	for _, axis := range StageAxes {
		lo, hi, _, err := m.stage.AxisData(axis)
		if err != nil {
			return nil, err
		}
		out[axis] = [2]float64{lo, hi}
	}
	return out, nil
}

func (m *Microscope) StagePosition() (temscript.Position, error) {
	return m.stage.Position()
}

// SetStagePosition moves the stage to the axes present in pos. The key
// "speed" is honoured for MoveGo only. An empty method means MoveGo.
func (m *Microscope) SetStagePosition(pos map[string]any, method string) error {
	target, err := temscript.StageTargetFromMap(pos)
	if err != nil {
		return err
	}
	switch method {
	case MoveGo, "":
		return m.stage.GoTo(target)
	case MoveMove:
		return m.stage.MoveTo(target)
	}
	return errors.InvalidInput(errors.PhaseCall, []string{"method"}, method,
		fmt.Sprintf("Unknown movement method %q.", method))
}

func closeAll[W temscript.Wrapper](ws []W) {
	for _, w := range ws {
		w.Close()
	}
}
