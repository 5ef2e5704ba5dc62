package temscript

import "github.com/wippyai/temscript/scripting"

// Projection covers the lenses below the specimen.
type Projection struct {
	object[scripting.Projection]
}

var projectionProps = properties[scripting.Projection]{
	"Focus":                floatProp(scripting.Projection.GetFocus, scripting.Projection.PutFocus),
	"Mode":                 enumProp(scripting.Projection.GetMode, scripting.Projection.PutMode),
	"SubMode":              enumProp(scripting.Projection.GetSubMode, nil),
	"SubModeString":        stringProp(scripting.Projection.GetSubModeString),
	"LensProgram":          enumProp(scripting.Projection.GetLensProgram, scripting.Projection.PutLensProgram),
	"Magnification":        floatProp(scripting.Projection.GetMagnification, nil),
	"MagnificationIndex":   intProp(scripting.Projection.GetMagnificationIndex, scripting.Projection.PutMagnificationIndex),
	"ImageRotation":        floatProp(scripting.Projection.GetImageRotation, nil),
	"CameraLength":         floatProp(scripting.Projection.GetCameraLength, nil),
	"CameraLengthIndex":    intProp(scripting.Projection.GetCameraLengthIndex, scripting.Projection.PutCameraLengthIndex),
	"ImageShift":           vecProp(scripting.Projection.GetImageShift, scripting.Projection.PutImageShift),
	"ImageBeamShift":       vecProp(scripting.Projection.GetImageBeamShift, scripting.Projection.PutImageBeamShift),
	"ImageBeamTilt":        vecProp(scripting.Projection.GetImageBeamTilt, scripting.Projection.PutImageBeamTilt),
	"DiffractionShift":     vecProp(scripting.Projection.GetDiffractionShift, scripting.Projection.PutDiffractionShift),
	"DiffractionStigmator": vecProp(scripting.Projection.GetDiffractionStigmator, scripting.Projection.PutDiffractionStigmator),
	"ObjectiveStigmator":   vecProp(scripting.Projection.GetObjectiveStigmator, scripting.Projection.PutObjectiveStigmator),
	"DetectorShift":        enumProp(scripting.Projection.GetDetectorShift, scripting.Projection.PutDetectorShift),
	"DetectorShiftMode":    enumProp(scripting.Projection.GetDetectorShiftMode, scripting.Projection.PutDetectorShiftMode),
	"ObjectiveExcitation":  floatProp(scripting.Projection.GetObjectiveExcitation, nil),
	"Defocus":              floatProp(scripting.Projection.GetDefocus, scripting.Projection.PutDefocus),
	"ProjectionIndex":      intProp(scripting.Projection.GetProjectionIndex, scripting.Projection.PutProjectionIndex),
	"SubModeMinIndex":      intProp(scripting.Projection.GetSubModeMinIndex, nil),
	"SubModeMaxIndex":      intProp(scripting.Projection.GetSubModeMaxIndex, nil),
}

func wrapProjection(s *Session, iface scripting.Projection) (*Projection, error) {
	w := &Projection{}
	if err := bind(w, &w.object, s, KindProjection, iface, projectionProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (p *Projection) Focus() (float64, error) {
	return getValue(&p.object, "Focus", scripting.Projection.GetFocus)
}

func (p *Projection) SetFocus(v float64) error {
	return putValue(&p.object, "Focus", scripting.Projection.PutFocus, v)
}

func (p *Projection) Mode() (scripting.ProjectionMode, error) {
	return getValue(&p.object, "Mode", scripting.Projection.GetMode)
}

func (p *Projection) SetMode(v scripting.ProjectionMode) error {
	return putValue(&p.object, "Mode", scripting.Projection.PutMode, v)
}

func (p *Projection) SubMode() (scripting.ProjectionSubMode, error) {
	return getValue(&p.object, "SubMode", scripting.Projection.GetSubMode)
}

func (p *Projection) SubModeString() (string, error) {
	return getString(&p.object, "SubModeString", scripting.Projection.GetSubModeString)
}

func (p *Projection) LensProgram() (scripting.LensProg, error) {
	return getValue(&p.object, "LensProgram", scripting.Projection.GetLensProgram)
}

func (p *Projection) SetLensProgram(v scripting.LensProg) error {
	return putValue(&p.object, "LensProgram", scripting.Projection.PutLensProgram, v)
}

// Magnification is the indicated magnification. It is only meaningful in
// imaging mode.
func (p *Projection) Magnification() (float64, error) {
	return getValue(&p.object, "Magnification", scripting.Projection.GetMagnification)
}

func (p *Projection) MagnificationIndex() (int32, error) {
	return getValue(&p.object, "MagnificationIndex", scripting.Projection.GetMagnificationIndex)
}

func (p *Projection) SetMagnificationIndex(v int32) error {
	return putValue(&p.object, "MagnificationIndex", scripting.Projection.PutMagnificationIndex, v)
}

func (p *Projection) ImageRotation() (float64, error) {
	return getValue(&p.object, "ImageRotation", scripting.Projection.GetImageRotation)
}

func (p *Projection) CameraLength() (float64, error) {
	return getValue(&p.object, "CameraLength", scripting.Projection.GetCameraLength)
}

func (p *Projection) CameraLengthIndex() (int32, error) {
	return getValue(&p.object, "CameraLengthIndex", scripting.Projection.GetCameraLengthIndex)
}

func (p *Projection) SetCameraLengthIndex(v int32) error {
	return putValue(&p.object, "CameraLengthIndex", scripting.Projection.PutCameraLengthIndex, v)
}

func (p *Projection) ImageShift() (Vec2, error) {
	return getVec(&p.object, "ImageShift", scripting.Projection.GetImageShift)
}

func (p *Projection) SetImageShift(v any) error {
	return putVec(&p.object, "ImageShift", scripting.Projection.GetImageShift, scripting.Projection.PutImageShift, v)
}

func (p *Projection) ImageBeamShift() (Vec2, error) {
	return getVec(&p.object, "ImageBeamShift", scripting.Projection.GetImageBeamShift)
}

func (p *Projection) SetImageBeamShift(v any) error {
	return putVec(&p.object, "ImageBeamShift", scripting.Projection.GetImageBeamShift, scripting.Projection.PutImageBeamShift, v)
}

func (p *Projection) ImageBeamTilt() (Vec2, error) {
	return getVec(&p.object, "ImageBeamTilt", scripting.Projection.GetImageBeamTilt)
}

func (p *Projection) SetImageBeamTilt(v any) error {
	return putVec(&p.object, "ImageBeamTilt", scripting.Projection.GetImageBeamTilt, scripting.Projection.PutImageBeamTilt, v)
}

func (p *Projection) DiffractionShift() (Vec2, error) {
	return getVec(&p.object, "DiffractionShift", scripting.Projection.GetDiffractionShift)
}

func (p *Projection) SetDiffractionShift(v any) error {
	return putVec(&p.object, "DiffractionShift", scripting.Projection.GetDiffractionShift, scripting.Projection.PutDiffractionShift, v)
}

func (p *Projection) DiffractionStigmator() (Vec2, error) {
	return getVec(&p.object, "DiffractionStigmator", scripting.Projection.GetDiffractionStigmator)
}

func (p *Projection) SetDiffractionStigmator(v any) error {
	return putVec(&p.object, "DiffractionStigmator", scripting.Projection.GetDiffractionStigmator, scripting.Projection.PutDiffractionStigmator, v)
}

func (p *Projection) ObjectiveStigmator() (Vec2, error) {
	return getVec(&p.object, "ObjectiveStigmator", scripting.Projection.GetObjectiveStigmator)
}

func (p *Projection) SetObjectiveStigmator(v any) error {
	return putVec(&p.object, "ObjectiveStigmator", scripting.Projection.GetObjectiveStigmator, scripting.Projection.PutObjectiveStigmator, v)
}

func (p *Projection) DetectorShift() (scripting.ProjectionDetectorShift, error) {
	return getValue(&p.object, "DetectorShift", scripting.Projection.GetDetectorShift)
}

func (p *Projection) SetDetectorShift(v scripting.ProjectionDetectorShift) error {
	return putValue(&p.object, "DetectorShift", scripting.Projection.PutDetectorShift, v)
}

func (p *Projection) DetectorShiftMode() (scripting.ProjDetectorShiftMode, error) {
	return getValue(&p.object, "DetectorShiftMode", scripting.Projection.GetDetectorShiftMode)
}

func (p *Projection) SetDetectorShiftMode(v scripting.ProjDetectorShiftMode) error {
	return putValue(&p.object, "DetectorShiftMode", scripting.Projection.PutDetectorShiftMode, v)
}

func (p *Projection) ObjectiveExcitation() (float64, error) {
	return getValue(&p.object, "ObjectiveExcitation", scripting.Projection.GetObjectiveExcitation)
}

func (p *Projection) Defocus() (float64, error) {
	return getValue(&p.object, "Defocus", scripting.Projection.GetDefocus)
}

func (p *Projection) SetDefocus(v float64) error {
	return putValue(&p.object, "Defocus", scripting.Projection.PutDefocus, v)
}

func (p *Projection) ProjectionIndex() (int32, error) {
	return getValue(&p.object, "ProjectionIndex", scripting.Projection.GetProjectionIndex)
}

func (p *Projection) SetProjectionIndex(v int32) error {
	return putValue(&p.object, "ProjectionIndex", scripting.Projection.PutProjectionIndex, v)
}

func (p *Projection) SubModeMinIndex() (int32, error) {
	return getValue(&p.object, "SubModeMinIndex", scripting.Projection.GetSubModeMinIndex)
}

func (p *Projection) SubModeMaxIndex() (int32, error) {
	return getValue(&p.object, "SubModeMaxIndex", scripting.Projection.GetSubModeMaxIndex)
}

// ResetDefocus makes the current focus the zero defocus reference.
func (p *Projection) ResetDefocus() error {
	return invoke(&p.object, "ResetDefocus", scripting.Projection.ResetDefocus)
}

// ChangeProjectionIndex steps the projection index by delta.
func (p *Projection) ChangeProjectionIndex(delta int32) error {
	return call(&p.object, "ChangeProjectionIndex", scripting.Projection.ChangeProjectionIndex, delta)
}

// Normalize normalizes the lens group selected by norm, a
// scripting.ProjectionNormalization value.
func (p *Projection) Normalize(norm int32) error {
	return call(&p.object, "Normalize", scripting.Projection.Normalize, scripting.ProjectionNormalization(norm))
}

// Illumination covers the condenser system.
type Illumination struct {
	object[scripting.Illumination]
}

var illuminationProps = properties[scripting.Illumination]{
	"Mode":                  enumProp(scripting.Illumination.GetMode, scripting.Illumination.PutMode),
	"SpotsizeIndex":         intProp(scripting.Illumination.GetSpotsizeIndex, scripting.Illumination.PutSpotsizeIndex),
	"Intensity":             floatProp(scripting.Illumination.GetIntensity, scripting.Illumination.PutIntensity),
	"IntensityZoomEnabled":  boolProp(scripting.Illumination.GetIntensityZoomEnabled, scripting.Illumination.PutIntensityZoomEnabled),
	"IntensityLimitEnabled": boolProp(scripting.Illumination.GetIntensityLimitEnabled, scripting.Illumination.PutIntensityLimitEnabled),
	"BeamBlanked":           boolProp(scripting.Illumination.GetBeamBlanked, scripting.Illumination.PutBeamBlanked),
	"Shift":                 vecProp(scripting.Illumination.GetShift, scripting.Illumination.PutShift),
	"Tilt":                  vecProp(scripting.Illumination.GetTilt, scripting.Illumination.PutTilt),
	"RotationCenter":        vecProp(scripting.Illumination.GetRotationCenter, scripting.Illumination.PutRotationCenter),
	"CondenserStigmator":    vecProp(scripting.Illumination.GetCondenserStigmator, scripting.Illumination.PutCondenserStigmator),
	"DFMode":                enumProp(scripting.Illumination.GetDFMode, scripting.Illumination.PutDFMode),
	"CondenserMode":         enumProp(scripting.Illumination.GetCondenserMode, scripting.Illumination.PutCondenserMode),
	"IlluminatedArea":       floatProp(scripting.Illumination.GetIlluminatedArea, nil),
	"ProbeDefocus":          floatProp(scripting.Illumination.GetProbeDefocus, nil),
	"StemMagnification":     floatProp(scripting.Illumination.GetStemMagnification, scripting.Illumination.PutStemMagnification),
	"StemRotation":          floatProp(scripting.Illumination.GetStemRotation, scripting.Illumination.PutStemRotation),
}

func wrapIllumination(s *Session, iface scripting.Illumination) (*Illumination, error) {
	w := &Illumination{}
	if err := bind(w, &w.object, s, KindIllumination, iface, illuminationProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (i *Illumination) Mode() (scripting.IlluminationMode, error) {
	return getValue(&i.object, "Mode", scripting.Illumination.GetMode)
}

func (i *Illumination) SetMode(v scripting.IlluminationMode) error {
	return putValue(&i.object, "Mode", scripting.Illumination.PutMode, v)
}

func (i *Illumination) SpotsizeIndex() (int32, error) {
	return getValue(&i.object, "SpotsizeIndex", scripting.Illumination.GetSpotsizeIndex)
}

func (i *Illumination) SetSpotsizeIndex(v int32) error {
	return putValue(&i.object, "SpotsizeIndex", scripting.Illumination.PutSpotsizeIndex, v)
}

func (i *Illumination) Intensity() (float64, error) {
	return getValue(&i.object, "Intensity", scripting.Illumination.GetIntensity)
}

func (i *Illumination) SetIntensity(v float64) error {
	return putValue(&i.object, "Intensity", scripting.Illumination.PutIntensity, v)
}

func (i *Illumination) IntensityZoomEnabled() (bool, error) {
	return getBool(&i.object, "IntensityZoomEnabled", scripting.Illumination.GetIntensityZoomEnabled)
}

func (i *Illumination) SetIntensityZoomEnabled(v bool) error {
	return putBool(&i.object, "IntensityZoomEnabled", scripting.Illumination.PutIntensityZoomEnabled, v)
}

func (i *Illumination) IntensityLimitEnabled() (bool, error) {
	return getBool(&i.object, "IntensityLimitEnabled", scripting.Illumination.GetIntensityLimitEnabled)
}

func (i *Illumination) SetIntensityLimitEnabled(v bool) error {
	return putBool(&i.object, "IntensityLimitEnabled", scripting.Illumination.PutIntensityLimitEnabled, v)
}

func (i *Illumination) BeamBlanked() (bool, error) {
	return getBool(&i.object, "BeamBlanked", scripting.Illumination.GetBeamBlanked)
}

func (i *Illumination) SetBeamBlanked(v bool) error {
	return putBool(&i.object, "BeamBlanked", scripting.Illumination.PutBeamBlanked, v)
}

func (i *Illumination) Shift() (Vec2, error) {
	return getVec(&i.object, "Shift", scripting.Illumination.GetShift)
}

func (i *Illumination) SetShift(v any) error {
	return putVec(&i.object, "Shift", scripting.Illumination.GetShift, scripting.Illumination.PutShift, v)
}

// Tilt is the beam tilt. In dark field conical mode the components are
// (theta, phi) rather than (x, y).
func (i *Illumination) Tilt() (Vec2, error) {
	return getVec(&i.object, "Tilt", scripting.Illumination.GetTilt)
}

func (i *Illumination) SetTilt(v any) error {
	return putVec(&i.object, "Tilt", scripting.Illumination.GetTilt, scripting.Illumination.PutTilt, v)
}

func (i *Illumination) RotationCenter() (Vec2, error) {
	return getVec(&i.object, "RotationCenter", scripting.Illumination.GetRotationCenter)
}

func (i *Illumination) SetRotationCenter(v any) error {
	return putVec(&i.object, "RotationCenter", scripting.Illumination.GetRotationCenter, scripting.Illumination.PutRotationCenter, v)
}

func (i *Illumination) CondenserStigmator() (Vec2, error) {
	return getVec(&i.object, "CondenserStigmator", scripting.Illumination.GetCondenserStigmator)
}

func (i *Illumination) SetCondenserStigmator(v any) error {
	return putVec(&i.object, "CondenserStigmator", scripting.Illumination.GetCondenserStigmator, scripting.Illumination.PutCondenserStigmator, v)
}

func (i *Illumination) DFMode() (scripting.DarkFieldMode, error) {
	return getValue(&i.object, "DFMode", scripting.Illumination.GetDFMode)
}

func (i *Illumination) SetDFMode(v scripting.DarkFieldMode) error {
	return putValue(&i.object, "DFMode", scripting.Illumination.PutDFMode, v)
}

func (i *Illumination) CondenserMode() (scripting.CondenserMode, error) {
	return getValue(&i.object, "CondenserMode", scripting.Illumination.GetCondenserMode)
}

func (i *Illumination) SetCondenserMode(v scripting.CondenserMode) error {
	return putValue(&i.object, "CondenserMode", scripting.Illumination.PutCondenserMode, v)
}

func (i *Illumination) IlluminatedArea() (float64, error) {
	return getValue(&i.object, "IlluminatedArea", scripting.Illumination.GetIlluminatedArea)
}

func (i *Illumination) ProbeDefocus() (float64, error) {
	return getValue(&i.object, "ProbeDefocus", scripting.Illumination.GetProbeDefocus)
}

func (i *Illumination) StemMagnification() (float64, error) {
	return getValue(&i.object, "StemMagnification", scripting.Illumination.GetStemMagnification)
}

func (i *Illumination) SetStemMagnification(v float64) error {
	return putValue(&i.object, "StemMagnification", scripting.Illumination.PutStemMagnification, v)
}

func (i *Illumination) StemRotation() (float64, error) {
	return getValue(&i.object, "StemRotation", scripting.Illumination.GetStemRotation)
}

func (i *Illumination) SetStemRotation(v float64) error {
	return putValue(&i.object, "StemRotation", scripting.Illumination.PutStemRotation, v)
}

// Normalize normalizes the condenser lenses selected by norm, a
// scripting.IlluminationNormalization value.
func (i *Illumination) Normalize(norm int32) error {
	return call(&i.object, "Normalize", scripting.Illumination.Normalize, scripting.IlluminationNormalization(norm))
}
