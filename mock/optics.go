package mock

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/scripting"
)

type projection struct {
	object
}

func newProjection(srv *Server) *projection {
	o := &projection{}
	o.init(srv, "Projection", o, scripting.IIDProjection)
	return o
}

func proj(st *State) *ProjectionState { return &st.Projection }

func (o *projection) GetFocus() (float64, com.HRESULT) {
	return getProp(&o.object, "GetFocus", func(st *State) float64 { return st.Projection.Focus })
}

func (o *projection) PutFocus(v float64) com.HRESULT {
	return putProp(&o.object, "PutFocus", v, set(func(st *State) *float64 { return &proj(st).Focus }))
}

func (o *projection) GetMode() (scripting.ProjectionMode, com.HRESULT) {
	return getProp(&o.object, "GetMode", func(st *State) scripting.ProjectionMode { return st.Projection.Mode })
}

func (o *projection) PutMode(v scripting.ProjectionMode) com.HRESULT {
	return putProp(&o.object, "PutMode", v, func(st *State, v scripting.ProjectionMode) com.HRESULT {
		switch v {
		case scripting.ProjectionModeImaging:
			st.Projection.SubMode = scripting.ProjectionSubModeSA
		case scripting.ProjectionModeDiffraction:
			st.Projection.SubMode = scripting.ProjectionSubModeD
		default:
			return com.E_INVALIDARG
		}
		st.Projection.Mode = v
		return com.S_OK
	})
}

func (o *projection) GetSubMode() (scripting.ProjectionSubMode, com.HRESULT) {
	return getProp(&o.object, "GetSubMode", func(st *State) scripting.ProjectionSubMode { return st.Projection.SubMode })
}

func (o *projection) GetSubModeString() (com.BSTR, com.HRESULT) {
	return getProp(&o.object, "GetSubModeString", bstr(func(st *State) string { return st.Projection.SubMode.String() }))
}

func (o *projection) GetLensProgram() (scripting.LensProg, com.HRESULT) {
	return getProp(&o.object, "GetLensProgram", func(st *State) scripting.LensProg { return st.Projection.LensProgram })
}

func (o *projection) PutLensProgram(v scripting.LensProg) com.HRESULT {
	return putProp(&o.object, "PutLensProgram", v, set(func(st *State) *scripting.LensProg { return &proj(st).LensProgram }))
}

func (o *projection) GetMagnification() (float64, com.HRESULT) {
	return getProp(&o.object, "GetMagnification", func(st *State) float64 { return st.Projection.magnification() })
}

func (o *projection) GetMagnificationIndex() (int32, com.HRESULT) {
	return getProp(&o.object, "GetMagnificationIndex", func(st *State) int32 { return st.Projection.ProjectionIndex })
}

func (o *projection) PutMagnificationIndex(v int32) com.HRESULT {
	return putProp(&o.object, "PutMagnificationIndex", v, setProjectionIndex)
}

func setProjectionIndex(st *State, v int32) com.HRESULT {
	if v < st.Projection.SubModeMinIndex || v > st.Projection.SubModeMaxIndex {
		return scripting.E_OUT_OF_RANGE
	}
	st.Projection.ProjectionIndex = v
	return com.S_OK
}

func (o *projection) GetImageRotation() (float64, com.HRESULT) {
	return getProp(&o.object, "GetImageRotation", func(st *State) float64 { return st.Projection.ImageRotation })
}

func (o *projection) GetCameraLength() (float64, com.HRESULT) {
	return getProp(&o.object, "GetCameraLength", func(st *State) float64 { return st.Projection.cameraLength() })
}

func (o *projection) GetCameraLengthIndex() (int32, com.HRESULT) {
	return getProp(&o.object, "GetCameraLengthIndex", func(st *State) int32 { return st.Projection.CameraLengthIndex })
}

func (o *projection) PutCameraLengthIndex(v int32) com.HRESULT {
	return putProp(&o.object, "PutCameraLengthIndex", v, func(st *State, v int32) com.HRESULT {
		if v < 1 || int(v) > len(st.Projection.CameraLengths) {
			return scripting.E_OUT_OF_RANGE
		}
		st.Projection.CameraLengthIndex = v
		return com.S_OK
	})
}

func (o *projection) GetImageShift() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetImageShift", func(st *State) *XY { return &proj(st).ImageShift })
}

func (o *projection) PutImageShift(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutImageShift", v, func(st *State) *XY { return &proj(st).ImageShift })
}

func (o *projection) GetImageBeamShift() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetImageBeamShift", func(st *State) *XY { return &proj(st).ImageBeamShift })
}

func (o *projection) PutImageBeamShift(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutImageBeamShift", v, func(st *State) *XY { return &proj(st).ImageBeamShift })
}

func (o *projection) GetImageBeamTilt() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetImageBeamTilt", func(st *State) *XY { return &proj(st).ImageBeamTilt })
}

func (o *projection) PutImageBeamTilt(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutImageBeamTilt", v, func(st *State) *XY { return &proj(st).ImageBeamTilt })
}

func (o *projection) GetDiffractionShift() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetDiffractionShift", func(st *State) *XY { return &proj(st).DiffractionShift })
}

func (o *projection) PutDiffractionShift(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutDiffractionShift", v, func(st *State) *XY { return &proj(st).DiffractionShift })
}

func (o *projection) GetDiffractionStigmator() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetDiffractionStigmator", func(st *State) *XY { return &proj(st).DiffractionStigma })
}

func (o *projection) PutDiffractionStigmator(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutDiffractionStigmator", v, func(st *State) *XY { return &proj(st).DiffractionStigma })
}

func (o *projection) GetObjectiveStigmator() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetObjectiveStigmator", func(st *State) *XY { return &proj(st).ObjectiveStigmator })
}

func (o *projection) PutObjectiveStigmator(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutObjectiveStigmator", v, func(st *State) *XY { return &proj(st).ObjectiveStigmator })
}

func (o *projection) GetDetectorShift() (scripting.ProjectionDetectorShift, com.HRESULT) {
	return getProp(&o.object, "GetDetectorShift", func(st *State) scripting.ProjectionDetectorShift { return st.Projection.DetectorShift })
}

func (o *projection) PutDetectorShift(v scripting.ProjectionDetectorShift) com.HRESULT {
	return putProp(&o.object, "PutDetectorShift", v, set(func(st *State) *scripting.ProjectionDetectorShift { return &proj(st).DetectorShift }))
}

func (o *projection) GetDetectorShiftMode() (scripting.ProjDetectorShiftMode, com.HRESULT) {
	return getProp(&o.object, "GetDetectorShiftMode", func(st *State) scripting.ProjDetectorShiftMode { return st.Projection.DetectorShiftMode })
}

func (o *projection) PutDetectorShiftMode(v scripting.ProjDetectorShiftMode) com.HRESULT {
	return putProp(&o.object, "PutDetectorShiftMode", v, set(func(st *State) *scripting.ProjDetectorShiftMode { return &proj(st).DetectorShiftMode }))
}

func (o *projection) GetObjectiveExcitation() (float64, com.HRESULT) {
	return getProp(&o.object, "GetObjectiveExcitation", func(st *State) float64 { return st.Projection.ObjectiveExcitation })
}

func (o *projection) GetDefocus() (float64, com.HRESULT) {
	return getProp(&o.object, "GetDefocus", func(st *State) float64 { return st.Projection.Defocus })
}

func (o *projection) PutDefocus(v float64) com.HRESULT {
	return putProp(&o.object, "PutDefocus", v, set(func(st *State) *float64 { return &proj(st).Defocus }))
}

func (o *projection) GetProjectionIndex() (int32, com.HRESULT) {
	return getProp(&o.object, "GetProjectionIndex", func(st *State) int32 { return st.Projection.ProjectionIndex })
}

func (o *projection) PutProjectionIndex(v int32) com.HRESULT {
	return putProp(&o.object, "PutProjectionIndex", v, setProjectionIndex)
}

func (o *projection) GetSubModeMinIndex() (int32, com.HRESULT) {
	return getProp(&o.object, "GetSubModeMinIndex", func(st *State) int32 { return st.Projection.SubModeMinIndex })
}

func (o *projection) GetSubModeMaxIndex() (int32, com.HRESULT) {
	return getProp(&o.object, "GetSubModeMaxIndex", func(st *State) int32 { return st.Projection.SubModeMaxIndex })
}

func (o *projection) ResetDefocus() com.HRESULT {
	return invoke(&o.object, "ResetDefocus", func(st *State) com.HRESULT {
		st.Projection.Defocus = 0
		return com.S_OK
	})
}

func (o *projection) ChangeProjectionIndex(delta int32) com.HRESULT {
	return invoke(&o.object, "ChangeProjectionIndex", func(st *State) com.HRESULT {
		return setProjectionIndex(st, st.Projection.ProjectionIndex+delta)
	}, delta)
}

func (o *projection) Normalize(norm scripting.ProjectionNormalization) com.HRESULT {
	return invoke(&o.object, "Normalize", func(st *State) com.HRESULT {
		switch norm {
		case scripting.ProjectionNormalizationObjective, scripting.ProjectionNormalizationProjector,
			scripting.ProjectionNormalizationAll:
			st.Normalizations++
			return com.S_OK
		}
		return com.E_INVALIDARG
	}, norm)
}

type illumination struct {
	object
}

func newIllumination(srv *Server) *illumination {
	o := &illumination{}
	o.init(srv, "Illumination", o, scripting.IIDIllumination)
	return o
}

func ill(st *State) *IlluminationState { return &st.Illumination }

func (o *illumination) GetMode() (scripting.IlluminationMode, com.HRESULT) {
	return getProp(&o.object, "GetMode", func(st *State) scripting.IlluminationMode { return st.Illumination.Mode })
}

func (o *illumination) PutMode(v scripting.IlluminationMode) com.HRESULT {
	return putProp(&o.object, "PutMode", v, set(func(st *State) *scripting.IlluminationMode { return &ill(st).Mode }))
}

func (o *illumination) GetSpotsizeIndex() (int32, com.HRESULT) {
	return getProp(&o.object, "GetSpotsizeIndex", func(st *State) int32 { return st.Illumination.SpotsizeIndex })
}

func (o *illumination) PutSpotsizeIndex(v int32) com.HRESULT {
	return putProp(&o.object, "PutSpotsizeIndex", v, func(st *State, v int32) com.HRESULT {
		if v < 1 || v > 11 {
			return scripting.E_OUT_OF_RANGE
		}
		st.Illumination.SpotsizeIndex = v
		return com.S_OK
	})
}

func (o *illumination) GetIntensity() (float64, com.HRESULT) {
	return getProp(&o.object, "GetIntensity", func(st *State) float64 { return st.Illumination.Intensity })
}

func (o *illumination) PutIntensity(v float64) com.HRESULT {
	return putProp(&o.object, "PutIntensity", v, func(st *State, v float64) com.HRESULT {
		if v < 0 || v > 1 {
			return scripting.E_OUT_OF_RANGE
		}
		st.Illumination.Intensity = v
		return com.S_OK
	})
}

func (o *illumination) GetIntensityZoomEnabled() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetIntensityZoomEnabled", vbool(func(st *State) bool { return st.Illumination.IntensityZoom }))
}

func (o *illumination) PutIntensityZoomEnabled(v com.VariantBool) com.HRESULT {
	return putProp(&o.object, "PutIntensityZoomEnabled", v, setVBool(func(st *State) *bool { return &ill(st).IntensityZoom }))
}

func (o *illumination) GetIntensityLimitEnabled() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetIntensityLimitEnabled", vbool(func(st *State) bool { return st.Illumination.IntensityLimit }))
}

func (o *illumination) PutIntensityLimitEnabled(v com.VariantBool) com.HRESULT {
	return putProp(&o.object, "PutIntensityLimitEnabled", v, setVBool(func(st *State) *bool { return &ill(st).IntensityLimit }))
}

func (o *illumination) GetBeamBlanked() (com.VariantBool, com.HRESULT) {
	return getProp(&o.object, "GetBeamBlanked", vbool(func(st *State) bool { return st.Illumination.BeamBlanked }))
}

func (o *illumination) PutBeamBlanked(v com.VariantBool) com.HRESULT {
	return putProp(&o.object, "PutBeamBlanked", v, setVBool(func(st *State) *bool { return &ill(st).BeamBlanked }))
}

func (o *illumination) GetShift() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetShift", func(st *State) *XY { return &ill(st).Shift })
}

func (o *illumination) PutShift(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutShift", v, func(st *State) *XY { return &ill(st).Shift })
}

func (o *illumination) GetTilt() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetTilt", func(st *State) *XY { return &ill(st).Tilt })
}

func (o *illumination) PutTilt(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutTilt", v, func(st *State) *XY { return &ill(st).Tilt })
}

func (o *illumination) GetRotationCenter() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetRotationCenter", func(st *State) *XY { return &ill(st).RotationCenter })
}

func (o *illumination) PutRotationCenter(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutRotationCenter", v, func(st *State) *XY { return &ill(st).RotationCenter })
}

func (o *illumination) GetCondenserStigmator() (scripting.Vector, com.HRESULT) {
	return getVector(&o.object, "GetCondenserStigmator", func(st *State) *XY { return &ill(st).CondenserStigmator })
}

func (o *illumination) PutCondenserStigmator(v scripting.Vector) com.HRESULT {
	return putVector(&o.object, "PutCondenserStigmator", v, func(st *State) *XY { return &ill(st).CondenserStigmator })
}

func (o *illumination) GetDFMode() (scripting.DarkFieldMode, com.HRESULT) {
	return getProp(&o.object, "GetDFMode", func(st *State) scripting.DarkFieldMode { return st.Illumination.DFMode })
}

func (o *illumination) PutDFMode(v scripting.DarkFieldMode) com.HRESULT {
	return putProp(&o.object, "PutDFMode", v, set(func(st *State) *scripting.DarkFieldMode { return &ill(st).DFMode }))
}

func (o *illumination) GetCondenserMode() (scripting.CondenserMode, com.HRESULT) {
	return getProp(&o.object, "GetCondenserMode", func(st *State) scripting.CondenserMode { return st.Illumination.CondenserMode })
}

func (o *illumination) PutCondenserMode(v scripting.CondenserMode) com.HRESULT {
	return putProp(&o.object, "PutCondenserMode", v, set(func(st *State) *scripting.CondenserMode { return &ill(st).CondenserMode }))
}

func (o *illumination) GetIlluminatedArea() (float64, com.HRESULT) {
	return getProp(&o.object, "GetIlluminatedArea", func(st *State) float64 { return st.Illumination.IlluminatedArea })
}

func (o *illumination) GetProbeDefocus() (float64, com.HRESULT) {
	return getProp(&o.object, "GetProbeDefocus", func(st *State) float64 { return st.Illumination.ProbeDefocus })
}

func (o *illumination) GetStemMagnification() (float64, com.HRESULT) {
	return getProp(&o.object, "GetStemMagnification", func(st *State) float64 { return st.Illumination.StemMagnification })
}

func (o *illumination) PutStemMagnification(v float64) com.HRESULT {
	return putProp(&o.object, "PutStemMagnification", v, set(func(st *State) *float64 { return &ill(st).StemMagnification }))
}

func (o *illumination) GetStemRotation() (float64, com.HRESULT) {
	return getProp(&o.object, "GetStemRotation", func(st *State) float64 { return st.Illumination.StemRotation })
}

func (o *illumination) PutStemRotation(v float64) com.HRESULT {
	return putProp(&o.object, "PutStemRotation", v, set(func(st *State) *float64 { return &ill(st).StemRotation }))
}

func (o *illumination) Normalize(norm scripting.IlluminationNormalization) com.HRESULT {
	return invoke(&o.object, "Normalize", func(st *State) com.HRESULT {
		if norm < scripting.IlluminationNormalizationSpotsize || norm > scripting.IlluminationNormalizationAll {
			return com.E_INVALIDARG
		}
		st.Normalizations++
		return com.S_OK
	}, norm)
}
