package mock

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/scripting"
)

type instrument struct {
	object
}

func newInstrument(srv *Server) *instrument {
	o := &instrument{}
	o.init(srv, "Instrument", o, scripting.IIDInstrument)
	return o
}

// child returns a fresh sub-system object created by mk.
func child[T com.Unknown](o *object, method string, mk func(*Server) T) (T, com.HRESULT) {
	if hr := o.enter(method); hr.Failed() {
		var zero T
		return zero, hr
	}
	defer o.srv.exit()
	return mk(o.srv), com.S_OK
}

func (o *instrument) GetConfiguration() (scripting.Configuration, com.HRESULT) {
	return child(&o.object, "GetConfiguration", func(s *Server) scripting.Configuration { return newConfiguration(s) })
}

func (o *instrument) GetProjection() (scripting.Projection, com.HRESULT) {
	return child(&o.object, "GetProjection", func(s *Server) scripting.Projection { return newProjection(s) })
}

func (o *instrument) GetIllumination() (scripting.Illumination, com.HRESULT) {
	return child(&o.object, "GetIllumination", func(s *Server) scripting.Illumination { return newIllumination(s) })
}

func (o *instrument) GetStage() (scripting.Stage, com.HRESULT) {
	return child(&o.object, "GetStage", func(s *Server) scripting.Stage { return newStage(s) })
}

func (o *instrument) GetAcquisition() (scripting.Acquisition, com.HRESULT) {
	return child(&o.object, "GetAcquisition", func(s *Server) scripting.Acquisition { return newAcquisition(s) })
}

func (o *instrument) GetVacuum() (scripting.Vacuum, com.HRESULT) {
	return child(&o.object, "GetVacuum", func(s *Server) scripting.Vacuum { return newVacuum(s) })
}

func (o *instrument) GetGun() (scripting.Gun, com.HRESULT) {
	return child(&o.object, "GetGun", func(s *Server) scripting.Gun { return newGun(s) })
}

func (o *instrument) GetBlankerShutter() (scripting.BlankerShutter, com.HRESULT) {
	return child(&o.object, "GetBlankerShutter", func(s *Server) scripting.BlankerShutter { return newBlankerShutter(s) })
}

func (o *instrument) GetInstrumentModeControl() (scripting.InstrumentModeControl, com.HRESULT) {
	return child(&o.object, "GetInstrumentModeControl", func(s *Server) scripting.InstrumentModeControl {
		return newInstrumentModeControl(s)
	})
}

func (o *instrument) GetAutoNormalizeEnabled() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetAutoNormalizeEnabled", vbool(func(st *State) bool { return st.AutoNormalize }))
}

func (o *instrument) PutAutoNormalizeEnabled(v com.VariantBool) com.HRESULT {
	return putProp(&o.object, "PutAutoNormalizeEnabled", v, setVBool(func(st *State) *bool { return &st.AutoNormalize }))
}

func (o *instrument) NormalizeAll() com.HRESULT {
	return invoke(&o.object, "NormalizeAll", func(st *State) com.HRESULT {
		st.Normalizations++
		return com.S_OK
	})
}

type configuration struct {
	object
}

func newConfiguration(srv *Server) *configuration {
	o := &configuration{}
	o.init(srv, "Configuration", o, scripting.IIDConfiguration)
	return o
}

func (o *configuration) GetProductFamily() (scripting.ProductFamily, com.HRESULT) {
	return getProp(&o.object, "GetProductFamily", func(st *State) scripting.ProductFamily { return st.Family })
}

type blankerShutter struct {
	object
}

func newBlankerShutter(srv *Server) *blankerShutter {
	o := &blankerShutter{}
	o.init(srv, "BlankerShutter", o, scripting.IIDBlankerShutter)
	return o
}

func (o *blankerShutter) GetShutterOverrideOn() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetShutterOverrideOn", vbool(func(st *State) bool { return st.ShutterOverride }))
}

func (o *blankerShutter) PutShutterOverrideOn(v com.VariantBool) com.HRESULT {
	return putProp(&o.object, "PutShutterOverrideOn", v, setVBool(func(st *State) *bool { return &st.ShutterOverride }))
}

type instrumentModeControl struct {
	object
}

func newInstrumentModeControl(srv *Server) *instrumentModeControl {
	o := &instrumentModeControl{}
	o.init(srv, "InstrumentModeControl", o, scripting.IIDInstrumentModeControl)
	return o
}

func (o *instrumentModeControl) GetStemAvailable() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetStemAvailable", vbool(func(st *State) bool { return st.StemAvailable }))
}

func (o *instrumentModeControl) GetInstrumentMode() (scripting.InstrumentMode, com.HRESULT) {
	return getProp(&o.object, "GetInstrumentMode", func(st *State) scripting.InstrumentMode { return st.InstrumentMode })
}

func (o *instrumentModeControl) PutInstrumentMode(v scripting.InstrumentMode) com.HRESULT {
	return putProp(&o.object, "PutInstrumentMode", v, func(st *State, v scripting.InstrumentMode) com.HRESULT {
		if v == scripting.InstrumentModeSTEM && !st.StemAvailable {
			return scripting.E_NOT_OK
		}
		st.InstrumentMode = v
		return com.S_OK
	})
}

type gun struct {
	object
}

func newGun(srv *Server) *gun {
	o := &gun{}
	o.init(srv, "Gun", o, scripting.IIDGun)
	return o
}

func (o *gun) GetHTState() (scripting.HightensionState, com.HRESULT) {
	return getProp(&o.object, "GetHTState", func(st *State) scripting.HightensionState { return st.Gun.HTState })
}

func (o *gun) PutHTState(v scripting.HightensionState) com.HRESULT {
	return putProp(&o.object, "PutHTState", v, func(st *State, v scripting.HightensionState) com.HRESULT {
		if st.Gun.HTState == scripting.HightensionStateDisabled {
			return scripting.E_NOT_OK
		}
		st.Gun.HTState = v
		return com.S_OK
	})
}

func (o *gun) GetHTValue() (float64, com.HRESULT) {
	return getProp(&o.object, "GetHTValue", func(st *State) float64 { return st.Gun.HTValue })
}

func (o *gun) PutHTValue(v float64) com.HRESULT {
	return putProp(&o.object, "PutHTValue", v, func(st *State, v float64) com.HRESULT {
		if v < 0 || v > st.Gun.HTMaxValue {
			return scripting.E_OUT_OF_RANGE
		}
		st.Gun.HTValue = v
		return com.S_OK
	})
}

func (o *gun) GetHTMaxValue() (float64, com.HRESULT) {
	return getProp(&o.object, "GetHTMaxValue", func(st *State) float64 { return st.Gun.HTMaxValue })
}

func (o *gun) GetShift() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetShift", func(st *State) *XY { return &st.Gun.Shift })
}

func (o *gun) PutShift(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutShift", v, func(st *State) *XY { return &st.Gun.Shift })
}

func (o *gun) GetTilt() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetTilt", func(st *State) *XY { return &st.Gun.Tilt })
}

func (o *gun) PutTilt(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutTilt", v, func(st *State) *XY { return &st.Gun.Tilt })
}
