package mock

import (
	"go.uber.org/zap"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/scripting"
)

var stageAxes = []scripting.StageAxes{
	scripting.AxisX, scripting.AxisY, scripting.AxisZ, scripting.AxisA, scripting.AxisB,
}

type stage struct {
	object
}

func newStage(srv *Server) *stage {
	o := &stage{}
	o.init(srv, "Stage", o, scripting.IIDStage)
	return o
}

func (o *stage) GetStatus() (scripting.StageStatus, com.HRESULT) {
	return getProp(&o.object, "GetStatus", func(st *State) scripting.StageStatus { return st.Stage.Status })
}

func (o *stage) GetHolder() (scripting.StageHolderType, com.HRESULT) {
	return getProp(&o.object, "GetHolder", func(st *State) scripting.StageHolderType { return st.Stage.Holder })
}

func (o *stage) GetPosition() (scripting.StagePosition, com.HRESULT) {
	if hr := o.enter("GetPosition"); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	return newStagePosition(o.srv, o.srv.State.Stage.Position), com.S_OK
}

func (o *stage) Goto(pos scripting.StagePosition, axes scripting.StageAxes) com.HRESULT {
	return invoke(&o.object, "Goto", func(st *State) com.HRESULT {
		return o.move(st, pos, axes, 1)
	}, axes)
}

func (o *stage) GotoWithSpeed(pos scripting.StagePosition, axes scripting.StageAxes, speed float64) com.HRESULT {
	return invoke(&o.object, "GotoWithSpeed", func(st *State) com.HRESULT {
		if speed <= 0 || speed > 1 {
			return com.E_INVALIDARG
		}
		return o.move(st, pos, axes, speed)
	}, axes, speed)
}

func (o *stage) MoveTo(pos scripting.StagePosition, axes scripting.StageAxes) com.HRESULT {
	return invoke(&o.object, "MoveTo", func(st *State) com.HRESULT {
		return o.move(st, pos, axes, 1)
	}, axes)
}

// move applies the masked axes of pos, clamped to the axis limits.
func (o *stage) move(st *State, pos scripting.StagePosition, axes scripting.StageAxes, speed float64) com.HRESULT {
	p, ok := pos.(*stagePosition)
	if !ok || p.srv != o.srv {
		return com.E_INVALIDARG
	}
	if st.Stage.Status != scripting.StageStatusReady {
		return scripting.E_NOT_OK
	}
	clipped := false
	for _, bit := range stageAxes {
		if axes&bit == 0 {
			continue
		}
		v := *p.p.axis(bit)
		if lim, ok := st.Stage.Limits[bit]; ok {
			if v < lim.Min {
				v, clipped = lim.Min, true
			} else if v > lim.Max {
				v, clipped = lim.Max, true
			}
		}
		*st.Stage.Position.axis(bit) = v
	}
	st.Stage.LastSpeed = speed
	Logger().Debug("stage moved", zap.Stringer("axes", axes), zap.Float64("speed", speed))
	if clipped {
		return scripting.E_VALUE_CLIP
	}
	return com.S_OK
}

func (o *stage) GetAxisData(axis scripting.StageAxes) (scripting.StageAxisData, com.HRESULT) {
	if hr := o.enter("GetAxisData", axis); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	lim, ok := o.srv.State.Stage.Limits[axis]
	if !ok {
		return nil, com.E_INVALIDARG
	}
	return newStageAxisData(o.srv, lim), com.S_OK
}
