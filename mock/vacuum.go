package mock

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/scripting"
)

type vacuum struct {
	object
}

func newVacuum(srv *Server) *vacuum {
	o := &vacuum{}
	o.init(srv, "Vacuum", o, scripting.IIDVacuum)
	return o
}

func (o *vacuum) GetStatus() (scripting.VacuumStatus, com.HRESULT) {
	return getProp(&o.object, "GetStatus", func(st *State) scripting.VacuumStatus { return st.Vacuum.Status })
}

func (o *vacuum) GetPVPRunning() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetPVPRunning", vbool(func(st *State) bool { return st.Vacuum.PVPRunning }))
}

func (o *vacuum) GetColumnValvesOpen() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetColumnValvesOpen", vbool(func(st *State) bool { return st.Vacuum.ColumnValvesOpen }))
}

func (o *vacuum) PutColumnValvesOpen(v com.VariantBool) com.HRESULT {
	return putProp(&o.object, "PutColumnValvesOpen", v, func(st *State, v com.VariantBool) com.HRESULT {
		if v.Bool() && st.Vacuum.Status != scripting.VacuumStatusReady {
			return scripting.E_NOT_OK
		}
		st.Vacuum.ColumnValvesOpen = v.Bool()
		return com.S_OK
	})
}

func (o *vacuum) GetGauges() (scripting.Gauges, com.HRESULT) {
	if hr := o.enter("GetGauges"); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	items := make([]scripting.Gauge, len(o.srv.State.Vacuum.Gauges))
	for i, g := range o.srv.State.Vacuum.Gauges {
		items[i] = newGauge(o.srv, g)
	}
	return newCollection(o.srv, "Gauges", items), com.S_OK
}

func (o *vacuum) RunBufferCycle() com.HRESULT {
	return invoke(&o.object, "RunBufferCycle", func(st *State) com.HRESULT {
		st.Vacuum.BufferCycles++
		return com.S_OK
	})
}

// gauge is a live view of one gauge of the simulated vacuum system.
type gauge struct {
	object
	g *GaugeState
}

func newGauge(srv *Server, g *GaugeState) *gauge {
	o := &gauge{g: g}
	o.init(srv, "Gauge", o, scripting.IIDGauge)
	return o
}

func (o *gauge) GetName() (com.BSTR, com.HRESULT) {
	return getProp(&o.object, "GetName", bstr(func(*State) string { return o.g.Name }))
}

func (o *gauge) GetPressure() (float64, com.HRESULT) {
	return getProp(&o.object, "GetPressure", func(*State) float64 { return o.g.Pressure })
}

func (o *gauge) GetStatus() (scripting.GaugeStatus, com.HRESULT) {
	return getProp(&o.object, "GetStatus", func(*State) scripting.GaugeStatus { return o.g.Status })
}

func (o *gauge) GetPressureLevel() (scripting.GaugePressureLevel, com.HRESULT) {
	return getProp(&o.object, "GetPressureLevel", func(*State) scripting.GaugePressureLevel { return o.g.Level })
}

func (o *gauge) Read() com.HRESULT {
	return invoke(&o.object, "Read", func(*State) com.HRESULT {
		o.g.Reads++
		return com.S_OK
	})
}
