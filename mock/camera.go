package mock

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/scripting"
)

func int32Array(values []int32) com.SafeArray {
	return com.SafeArrayOf(com.VT_I4, values, com.Bound{Lower: 0, Upper: int32(len(values)) - 1})
}

type ccdCamera struct {
	object
	cam *CameraState
}

func newCCDCamera(srv *Server, cam *CameraState) *ccdCamera {
	o := &ccdCamera{cam: cam}
	o.init(srv, "CCDCamera", o, scripting.IIDCCDCamera)
	return o
}

func (o *ccdCamera) GetInfo() (scripting.CCDCameraInfo, com.HRESULT) {
	return child(&o.object, "GetInfo", func(s *Server) scripting.CCDCameraInfo { return newCCDCameraInfo(s, o.cam) })
}

func (o *ccdCamera) GetAcqParams() (scripting.CCDAcqParams, com.HRESULT) {
	return child(&o.object, "GetAcqParams", func(s *Server) scripting.CCDAcqParams { return newCCDAcqParams(s, o.cam) })
}

// PutAcqParams copies the parameters of another camera's parameter object.
func (o *ccdCamera) PutAcqParams(p scripting.CCDAcqParams) com.HRESULT {
	return invoke(&o.object, "PutAcqParams", func(*State) com.HRESULT {
		src, ok := p.(*ccdAcqParams)
		if !ok || src.srv != o.srv {
			return com.E_INVALIDARG
		}
		o.cam.Params = src.cam.Params
		return com.S_OK
	})
}

type ccdCameraInfo struct {
	object
	cam *CameraState
}

func newCCDCameraInfo(srv *Server, cam *CameraState) *ccdCameraInfo {
	o := &ccdCameraInfo{cam: cam}
	o.init(srv, "CCDCameraInfo", o, scripting.IIDCCDCameraInfo)
	return o
}

func (o *ccdCameraInfo) GetName() (com.BSTR, com.HRESULT) {
	return getProp(&o.object, "GetName", bstr(func(*State) string { return o.cam.Name }))
}

func (o *ccdCameraInfo) GetWidth() (int32, com.HRESULT) {
	return getProp(&o.object, "GetWidth", func(*State) int32 { return o.cam.Width })
}

func (o *ccdCameraInfo) GetHeight() (int32, com.HRESULT) {
	return getProp(&o.object, "GetHeight", func(*State) int32 { return o.cam.Height })
}

func (o *ccdCameraInfo) GetPixelSize() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetPixelSize", func(*State) *XY { return &o.cam.PixelSize })
}

func (o *ccdCameraInfo) GetBinnings() (com.SafeArray, com.HRESULT) {
	return getProp(&o.object, "GetBinnings", func(*State) com.SafeArray { return int32Array(o.cam.Binnings) })
}

func (o *ccdCameraInfo) GetShutterModes() (com.SafeArray, com.HRESULT) {
	return getProp(&o.object, "GetShutterModes", func(*State) com.SafeArray {
		modes := make([]int32, len(o.cam.ShutterModes))
		for i, m := range o.cam.ShutterModes {
			modes[i] = int32(m)
		}
		return int32Array(modes)
	})
}

func (o *ccdCameraInfo) GetShutterMode() (scripting.AcqShutterMode, com.HRESULT) {
	return getProp(&o.object, "GetShutterMode", func(*State) scripting.AcqShutterMode { return o.cam.ShutterMode })
}

func (o *ccdCameraInfo) PutShutterMode(v scripting.AcqShutterMode) com.HRESULT {
	return putProp(&o.object, "PutShutterMode", v, func(_ *State, v scripting.AcqShutterMode) com.HRESULT {
		for _, m := range o.cam.ShutterModes {
			if m == v {
				o.cam.ShutterMode = v
				return com.S_OK
			}
		}
		return com.E_INVALIDARG
	})
}

// ccdAcqParams is a live view of one camera's acquisition parameters.
type ccdAcqParams struct {
	object
	cam *CameraState
}

func newCCDAcqParams(srv *Server, cam *CameraState) *ccdAcqParams {
	o := &ccdAcqParams{cam: cam}
	o.init(srv, "CCDAcqParams", o, scripting.IIDCCDAcqParams)
	return o
}

func (o *ccdAcqParams) p() *CCDParams { return &o.cam.Params }

func (o *ccdAcqParams) GetImageSize() (scripting.AcqImageSize, com.HRESULT) {
	return getProp(&o.object, "GetImageSize", func(*State) scripting.AcqImageSize { return o.p().ImageSize })
}

func (o *ccdAcqParams) PutImageSize(v scripting.AcqImageSize) com.HRESULT {
	return putProp(&o.object, "PutImageSize", v, set(func(*State) *scripting.AcqImageSize { return &o.p().ImageSize }))
}

func (o *ccdAcqParams) GetExposureTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetExposureTime", func(*State) float64 { return o.p().ExposureTime })
}

func (o *ccdAcqParams) PutExposureTime(v float64) com.HRESULT {
	return putProp(&o.object, "PutExposureTime", v, func(_ *State, v float64) com.HRESULT {
		if v <= 0 {
			return scripting.E_OUT_OF_RANGE
		}
		o.p().ExposureTime = v
		return com.S_OK
	})
}

func (o *ccdAcqParams) GetBinning() (int32, com.HRESULT) {
	return getProp(&o.object, "GetBinning", func(*State) int32 { return o.p().Binning })
}

// PutBinning accepts only supported binnings and scales the exposure time
// to keep the dose per pixel.
func (o *ccdAcqParams) PutBinning(v int32) com.HRESULT {
	return putProp(&o.object, "PutBinning", v, func(_ *State, v int32) com.HRESULT {
		for _, b := range o.cam.Binnings {
			if b == v {
				old := o.p().Binning
				o.p().ExposureTime *= float64(old*old) / float64(v*v)
				o.p().Binning = v
				return com.S_OK
			}
		}
		return com.E_INVALIDARG
	})
}

func (o *ccdAcqParams) GetImageCorrection() (scripting.AcqImageCorrection, com.HRESULT) {
	return getProp(&o.object, "GetImageCorrection", func(*State) scripting.AcqImageCorrection { return o.p().ImageCorrection })
}

func (o *ccdAcqParams) PutImageCorrection(v scripting.AcqImageCorrection) com.HRESULT {
	return putProp(&o.object, "PutImageCorrection", v, set(func(*State) *scripting.AcqImageCorrection { return &o.p().ImageCorrection }))
}

func (o *ccdAcqParams) GetExposureMode() (scripting.AcqExposureMode, com.HRESULT) {
	return getProp(&o.object, "GetExposureMode", func(*State) scripting.AcqExposureMode { return o.p().ExposureMode })
}

func (o *ccdAcqParams) PutExposureMode(v scripting.AcqExposureMode) com.HRESULT {
	return putProp(&o.object, "PutExposureMode", v, set(func(*State) *scripting.AcqExposureMode { return &o.p().ExposureMode }))
}

func (o *ccdAcqParams) GetMinPreExposureTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetMinPreExposureTime", func(*State) float64 { return o.p().MinPreExposureTime })
}

func (o *ccdAcqParams) GetMaxPreExposureTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetMaxPreExposureTime", func(*State) float64 { return o.p().MaxPreExposureTime })
}

func (o *ccdAcqParams) GetPreExposureTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetPreExposureTime", func(*State) float64 { return o.p().PreExposureTime })
}

func (o *ccdAcqParams) PutPreExposureTime(v float64) com.HRESULT {
	return putProp(&o.object, "PutPreExposureTime", v, func(_ *State, v float64) com.HRESULT {
		if v < o.p().MinPreExposureTime || v > o.p().MaxPreExposureTime {
			return scripting.E_OUT_OF_RANGE
		}
		o.p().PreExposureTime = v
		return com.S_OK
	})
}

func (o *ccdAcqParams) GetMinPreExposurePauseTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetMinPreExposurePauseTime", func(*State) float64 { return o.p().MinPreExposurePauseTime })
}

func (o *ccdAcqParams) GetMaxPreExposurePauseTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetMaxPreExposurePauseTime", func(*State) float64 { return o.p().MaxPreExposurePauseTime })
}

func (o *ccdAcqParams) GetPreExposurePauseTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetPreExposurePauseTime", func(*State) float64 { return o.p().PreExposurePauseTime })
}

func (o *ccdAcqParams) PutPreExposurePauseTime(v float64) com.HRESULT {
	return putProp(&o.object, "PutPreExposurePauseTime", v, func(_ *State, v float64) com.HRESULT {
		if v < o.p().MinPreExposurePauseTime || v > o.p().MaxPreExposurePauseTime {
			return scripting.E_OUT_OF_RANGE
		}
		o.p().PreExposurePauseTime = v
		return com.S_OK
	})
}

type stemDetector struct {
	object
	det *DetectorState
}

func newSTEMDetector(srv *Server, det *DetectorState) *stemDetector {
	o := &stemDetector{det: det}
	o.init(srv, "STEMDetector", o, scripting.IIDSTEMDetector)
	return o
}

func (o *stemDetector) GetInfo() (scripting.STEMDetectorInfo, com.HRESULT) {
	return child(&o.object, "GetInfo", func(s *Server) scripting.STEMDetectorInfo { return newSTEMDetectorInfo(s, o.det) })
}

type stemDetectorInfo struct {
	object
	det *DetectorState
}

func newSTEMDetectorInfo(srv *Server, det *DetectorState) *stemDetectorInfo {
	o := &stemDetectorInfo{det: det}
	o.init(srv, "STEMDetectorInfo", o, scripting.IIDSTEMDetectorInfo)
	return o
}

func (o *stemDetectorInfo) GetName() (com.BSTR, com.HRESULT) {
	return getProp(&o.object, "GetName", bstr(func(*State) string { return o.det.Name }))
}

func (o *stemDetectorInfo) GetBrightness() (float64, com.HRESULT) {
	return getProp(&o.object, "GetBrightness", func(*State) float64 { return o.det.Brightness })
}

func (o *stemDetectorInfo) PutBrightness(v float64) com.HRESULT {
	return putProp(&o.object, "PutBrightness", v, unitRange(&o.det.Brightness))
}

func (o *stemDetectorInfo) GetContrast() (float64, com.HRESULT) {
	return getProp(&o.object, "GetContrast", func(*State) float64 { return o.det.Contrast })
}

func (o *stemDetectorInfo) PutContrast(v float64) com.HRESULT {
	return putProp(&o.object, "PutContrast", v, unitRange(&o.det.Contrast))
}

func (o *stemDetectorInfo) GetBinnings() (com.SafeArray, com.HRESULT) {
	return getProp(&o.object, "GetBinnings", func(*State) com.SafeArray { return int32Array(o.det.Binnings) })
}

func unitRange(field *float64) func(*State, float64) com.HRESULT {
	return func(_ *State, v float64) com.HRESULT {
		if v < 0 || v > 1 {
			return scripting.E_OUT_OF_RANGE
		}
		*field = v
		return com.S_OK
	}
}

// stemAcqParams is a live view of the shared STEM acquisition parameters.
type stemAcqParams struct {
	object
}

func newSTEMAcqParams(srv *Server) *stemAcqParams {
	o := &stemAcqParams{}
	o.init(srv, "STEMAcqParams", o, scripting.IIDSTEMAcqParams)
	return o
}

func (o *stemAcqParams) GetImageSize() (scripting.AcqImageSize, com.HRESULT) {
	return getProp(&o.object, "GetImageSize", func(st *State) scripting.AcqImageSize { return st.STEMParams.ImageSize })
}

func (o *stemAcqParams) PutImageSize(v scripting.AcqImageSize) com.HRESULT {
	return putProp(&o.object, "PutImageSize", v, set(func(st *State) *scripting.AcqImageSize { return &st.STEMParams.ImageSize }))
}

func (o *stemAcqParams) GetDwellTime() (float64, com.HRESULT) {
	return getProp(&o.object, "GetDwellTime", func(st *State) float64 { return st.STEMParams.DwellTime })
}

func (o *stemAcqParams) PutDwellTime(v float64) com.HRESULT {
	return putProp(&o.object, "PutDwellTime", v, func(st *State, v float64) com.HRESULT {
		if v <= 0 {
			return scripting.E_OUT_OF_RANGE
		}
		st.STEMParams.DwellTime = v
		return com.S_OK
	})
}

func (o *stemAcqParams) GetBinning() (int32, com.HRESULT) {
	return getProp(&o.object, "GetBinning", func(st *State) int32 { return st.STEMParams.Binning })
}

func (o *stemAcqParams) PutBinning(v int32) com.HRESULT {
	return putProp(&o.object, "PutBinning", v, func(st *State, v int32) com.HRESULT {
		if v < 1 || st.STEMImageSize%v != 0 {
			return com.E_INVALIDARG
		}
		st.STEMParams.Binning = v
		return com.S_OK
	})
}
