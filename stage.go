package temscript

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

// Stage is the specimen stage.
type Stage struct {
	object[scripting.Stage]
}

var stageProps = properties[scripting.Stage]{
	"Status": enumProp(scripting.Stage.GetStatus, nil),
	"Holder": enumProp(scripting.Stage.GetHolder, nil),
	"Position": {get: func(o *object[scripting.Stage], name string) (any, error) {
		return stagePosition(o)
	}},
}

func wrapStage(s *Session, iface scripting.Stage) (*Stage, error) {
	w := &Stage{}
	if err := bind(w, &w.object, s, KindStage, iface, stageProps); err != nil {
		return nil, err
	}
	return w, nil
}

// Position is a full stage position. Lengths are in meters, angles in radians.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// StageTarget selects the axes of a move. Nil axes are left untouched.
// Speed is only honoured by GoTo; nil means full speed.
type StageTarget struct {
	X, Y, Z, A, B *float64
	Speed         *float64
}

// Float returns a pointer to v for building a StageTarget.
func Float(v float64) *float64 { return &v }

type stageAxis struct {
	name string
	bit  scripting.StageAxes
	get  func(scripting.StagePosition) (float64, com.HRESULT)
	put  func(scripting.StagePosition, float64) com.HRESULT
}

var stageAxes = []stageAxis{
	{"x", scripting.AxisX, scripting.StagePosition.GetX, scripting.StagePosition.PutX},
	{"y", scripting.AxisY, scripting.StagePosition.GetY, scripting.StagePosition.PutY},
	{"z", scripting.AxisZ, scripting.StagePosition.GetZ, scripting.StagePosition.PutZ},
	{"a", scripting.AxisA, scripting.StagePosition.GetA, scripting.StagePosition.PutA},
	{"b", scripting.AxisB, scripting.StagePosition.GetB, scripting.StagePosition.PutB},
}

func (t StageTarget) axis(bit scripting.StageAxes) *float64 {
	switch bit {
	case scripting.AxisX:
		return t.X
	case scripting.AxisY:
		return t.Y
	case scripting.AxisZ:
		return t.Z
	case scripting.AxisA:
		return t.A
	case scripting.AxisB:
		return t.B
	}
	return nil
}

// Axes returns the bit mask of the supplied axes.
func (t StageTarget) Axes() scripting.StageAxes {
	var mask scripting.StageAxes
	for _, ax := range stageAxes {
		if t.axis(ax.bit) != nil {
			mask |= ax.bit
		}
	}
	return mask
}

// StageTargetFromMap builds a target from keys x, y, z, a, b and speed.
func StageTargetFromMap(m map[string]any) (StageTarget, error) {
	var t StageTarget
	for k, raw := range m {
		v, ok := marshal.ToFloat64(raw)
		if !ok {
			return StageTarget{}, errors.InvalidInput(errors.PhaseSet, []string{k}, raw, "expected a number")
		}
		switch k {
		case "x":
			t.X = Float(v)
		case "y":
			t.Y = Float(v)
		case "z":
			t.Z = Float(v)
		case "a":
			t.A = Float(v)
		case "b":
			t.B = Float(v)
		case "speed":
			t.Speed = Float(v)
		default:
			return StageTarget{}, errors.InvalidInput(errors.PhaseSet, []string{k}, raw, fmt.Sprintf("Unknown axis or parameter %q.", k))
		}
	}
	return t, nil
}

func (s *Stage) Status() (scripting.StageStatus, error) {
	return getValue(&s.object, "Status", scripting.Stage.GetStatus)
}

func (s *Stage) Holder() (scripting.StageHolderType, error) {
	return getValue(&s.object, "Holder", scripting.Stage.GetHolder)
}

// Position reads all five axes.
func (s *Stage) Position() (Position, error) {
	return stagePosition(&s.object)
}

func stagePosition(o *object[scripting.Stage]) (Position, error) {
	var out Position
	err := o.with(errors.PhaseGet, func(iface scripting.Stage) error {
		pos, hr := iface.GetPosition()
		if hr.Failed() {
			return o.fail(errors.PhaseGet, hr, "Position")
		}
		defer pos.Release()

		dst := []*float64{&out.X, &out.Y, &out.Z, &out.A, &out.B}
		for i, ax := range stageAxes {
			v, hr := ax.get(pos)
			if hr.Failed() {
				return o.fail(errors.PhaseGet, hr, "Position", ax.name)
			}
			*dst[i] = v
		}
		return nil
	})
	return out, err
}

// GoTo moves the supplied axes. A speed other than 1.0 uses the speed
// controlled move.
func (s *Stage) GoTo(t StageTarget) error {
	return s.move("GoTo", t, true)
}

// MoveTo moves the supplied axes with backlash correction. Speed is ignored.
func (s *Stage) MoveTo(t StageTarget) error {
	return s.move("MoveTo", t, false)
}

func (s *Stage) move(method string, t StageTarget, withSpeed bool) error {
	mask := t.Axes()
	if mask == 0 {
		return nil
	}
	return s.with(errors.PhaseCall, func(iface scripting.Stage) error {
		pos, hr := iface.GetPosition()
		if hr.Failed() {
			return s.fail(errors.PhaseCall, hr, method)
		}
		defer pos.Release()

		for _, ax := range stageAxes {
			v := t.axis(ax.bit)
			if v == nil {
				continue
			}
			if hr := ax.put(pos, *v); hr.Failed() {
				return s.fail(errors.PhaseCall, hr, method, ax.name)
			}
		}

		switch {
		case !withSpeed:
			hr = iface.MoveTo(pos, mask)
		case t.Speed != nil && *t.Speed != 1.0:
			hr = iface.GotoWithSpeed(pos, mask, *t.Speed)
		default:
			hr = iface.Goto(pos, mask)
		}
		if hr.Failed() {
			return s.fail(errors.PhaseCall, hr, method)
		}
		Logger().Debug("stage move", zap.String("method", method), zap.Stringer("axes", mask))
		return nil
	})
}

// AxisData returns the limits of one axis. Unit is nil when the server
// reports no known unit.
func (s *Stage) AxisData(axis string) (min, max float64, unit *string, err error) {
	var bit scripting.StageAxes
	for _, ax := range stageAxes {
		if ax.name == axis {
			bit = ax.bit
		}
	}
	if bit == 0 {
		return 0, 0, nil, errors.InvalidInput(errors.PhaseCall, []string{"AxisData"}, axis,
			"Use value 'x', 'y', 'z', 'a', and 'b' to specify axis.")
	}

	err = s.with(errors.PhaseCall, func(iface scripting.Stage) error {
		data, hr := iface.GetAxisData(bit)
		if hr.Failed() {
			return s.fail(errors.PhaseCall, hr, "AxisData", axis)
		}
		defer data.Release()

		if min, hr = data.GetMinPos(); hr.Failed() {
			return s.fail(errors.PhaseGet, hr, "AxisData", "MinPos")
		}
		if max, hr = data.GetMaxPos(); hr.Failed() {
			return s.fail(errors.PhaseGet, hr, "AxisData", "MaxPos")
		}
		ut, hr := data.GetUnitType()
		if hr.Failed() {
			return s.fail(errors.PhaseGet, hr, "AxisData", "UnitType")
		}
		unit = unitName(ut)
		return nil
	})
	if err != nil {
		return 0, 0, nil, err
	}
	return min, max, unit, nil
}

func unitName(ut scripting.MeasurementUnitType) *string {
	var s string
	switch ut {
	case scripting.MeasurementUnitMeters:
		s = "meters"
	case scripting.MeasurementUnitRadians:
		s = "radians"
	default:
		return nil
	}
	return &s
}
