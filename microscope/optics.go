package microscope

import (
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

// Normalization modes accepted by Normalize besides the lens names of
// scripting.IlluminationNormalization and scripting.ProjectionNormalization.
const (
	NormalizeAll                 = "ALL"
	NormalizeObjectiveCondenser  = "OBJECTIVE_CONDENSER"
	NormalizeObjectiveProjective = "OBJECTIVE_PROJECTIVE"
)

// vector accepts a two element sequence or an object with keys x and y.
func vector(value any) (temscript.Vec2, error) {
	if m, ok := value.(map[string]any); ok && len(m) == 2 {
		x, okx := marshal.ToFloat64(m["x"])
		y, oky := marshal.ToFloat64(m["y"])
		if okx && oky {
			return temscript.Vec2{X: x, Y: y}, nil
		}
	}
	return marshal.ToVec2(value)
}

func setVector(put func(any) error, value any) error {
	v, err := vector(value)
	if err != nil {
		return err
	}
	return put(v)
}

func (m *Microscope) ImageShift() (temscript.Vec2, error) { return m.proj.ImageShift() }

func (m *Microscope) SetImageShift(v any) error { return setVector(m.proj.SetImageShift, v) }

func (m *Microscope) BeamShift() (temscript.Vec2, error) { return m.ill.Shift() }

func (m *Microscope) SetBeamShift(v any) error { return setVector(m.ill.SetShift, v) }

// BeamTilt returns the beam tilt in cartesian coordinates. In conical
// dark field the instrument reports (theta, phi) which is converted. With
// dark field off the tilt is reported as zero.
func (m *Microscope) BeamTilt() (temscript.Vec2, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mode, err := m.ill.DFMode()
	if err != nil {
		return temscript.Vec2{}, err
	}
	tilt, err := m.ill.Tilt()
	if err != nil {
		return temscript.Vec2{}, err
	}
	switch mode {
	case scripting.DarkFieldModeConical:
		return temscript.Vec2{X: tilt.X * math.Cos(tilt.Y), Y: tilt.X * math.Sin(tilt.Y)}, nil
	case scripting.DarkFieldModeCartesian:
		return tilt, nil
	}
	return temscript.Vec2{}, nil
}

// SetBeamTilt sets a cartesian beam tilt. A zero tilt switches dark field
// off, a non-zero tilt with dark field off switches to cartesian mode.
func (m *Microscope) SetBeamTilt(value any) error {
	tilt, err := vector(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tilt.X == 0 && tilt.Y == 0 {
		if err := m.ill.SetTilt(temscript.Vec2{}); err != nil {
			return err
		}
		return m.ill.SetDFMode(scripting.DarkFieldModeOff)
	}

	mode, err := m.ill.DFMode()
	if err != nil {
		return err
	}
	switch mode {
	case scripting.DarkFieldModeConical:
		return m.ill.SetTilt(temscript.Vec2{X: math.Hypot(tilt.X, tilt.Y), Y: math.Atan2(tilt.Y, tilt.X)})
	case scripting.DarkFieldModeOff:
		if err := m.ill.SetDFMode(scripting.DarkFieldModeCartesian); err != nil {
			return err
		}
	}
	return m.ill.SetTilt(tilt)
}

// Normalize normalizes lenses by mode name, case insensitive. Besides the
// three combined modes any IlluminationNormalization or
// ProjectionNormalization name is accepted, illumination first.
func (m *Microscope) Normalize(mode string) error {
	mode = strings.ToUpper(mode)
	switch mode {
	case NormalizeAll:
		return m.inst.NormalizeAll()
	case NormalizeObjectiveCondenser:
		return m.ill.Normalize(int32(scripting.IlluminationNormalizationAll))
	case NormalizeObjectiveProjective:
		return m.proj.Normalize(int32(scripting.ProjectionNormalizationAll))
	}
	if n, ok := scripting.ParseEnum(mode, illuminationNormalizations...); ok {
		return m.ill.Normalize(int32(n))
	}
	if n, ok := scripting.ParseEnum(mode, projectionNormalizations...); ok {
		return m.proj.Normalize(int32(n))
	}
	return errors.InvalidInput(errors.PhaseCall, []string{"Normalize"}, mode,
		fmt.Sprintf("Unknown normalization mode: %s", mode))
}

func (m *Microscope) ProjectionSubMode() (string, error) {
	return name(m.proj.SubMode)
}

func (m *Microscope) ProjectionMode() (string, error) {
	return name(m.proj.Mode)
}

// SetProjectionMode accepts a name such as "DIFFRACTION" or a number.
func (m *Microscope) SetProjectionMode(mode any) error {
	v, err := parseEnum(mode, projectionModes)
	if err != nil {
		return err
	}
	return m.proj.SetMode(v)
}

// ProjectionModeString returns the sub mode name reported by the
// instrument, e.g. "SA".
func (m *Microscope) ProjectionModeString() (string, error) {
	return m.proj.SubModeString()
}

func (m *Microscope) MagnificationIndex() (int32, error) { return m.proj.ProjectionIndex() }

func (m *Microscope) SetMagnificationIndex(index any) error {
	i, ok := marshal.ToInt32(index)
	if !ok {
		return errors.InvalidInput(errors.PhaseSet, []string{"MagnificationIndex"}, index, "expected an integer")
	}
	return m.proj.SetProjectionIndex(i)
}

// IndicatedCameraLength is in meters, zero outside diffraction.
func (m *Microscope) IndicatedCameraLength() (float64, error) { return m.proj.CameraLength() }

// IndicatedMagnification is zero outside imaging.
func (m *Microscope) IndicatedMagnification() (float64, error) { return m.proj.Magnification() }

// Defocus is the objective focus, not the calibrated defocus.
func (m *Microscope) Defocus() (float64, error) { return m.proj.Focus() }

func (m *Microscope) SetDefocus(v any) error {
	return setFloat(m.proj.SetFocus, "Defocus", v)
}

func (m *Microscope) ObjectiveExcitation() (float64, error) { return m.proj.ObjectiveExcitation() }

func (m *Microscope) Intensity() (float64, error) { return m.ill.Intensity() }

func (m *Microscope) SetIntensity(v any) error {
	return setFloat(m.ill.SetIntensity, "Intensity", v)
}

func (m *Microscope) ObjectiveStigmator() (temscript.Vec2, error) { return m.proj.ObjectiveStigmator() }

func (m *Microscope) SetObjectiveStigmator(v any) error {
	return setVector(m.proj.SetObjectiveStigmator, v)
}

func (m *Microscope) CondenserStigmator() (temscript.Vec2, error) { return m.ill.CondenserStigmator() }

func (m *Microscope) SetCondenserStigmator(v any) error {
	return setVector(m.ill.SetCondenserStigmator, v)
}

func (m *Microscope) DiffractionShift() (temscript.Vec2, error) { return m.proj.DiffractionShift() }

func (m *Microscope) SetDiffractionShift(v any) error {
	return setVector(m.proj.SetDiffractionShift, v)
}

func (m *Microscope) SpotSizeIndex() (int32, error) { return m.ill.SpotsizeIndex() }

func (m *Microscope) SetSpotSizeIndex(index any) error {
	i, ok := marshal.ToInt32(index)
	if !ok {
		return errors.InvalidInput(errors.PhaseSet, []string{"SpotSizeIndex"}, index, "expected an integer")
	}
	return m.ill.SetSpotsizeIndex(i)
}

func (m *Microscope) IlluminationMode() (string, error) { return name(m.ill.Mode) }

func (m *Microscope) SetIlluminationMode(mode any) error {
	v, err := parseEnum(mode, illuminationModes)
	if err != nil {
		return err
	}
	return m.ill.SetMode(v)
}

func (m *Microscope) DarkFieldMode() (string, error) { return name(m.ill.DFMode) }

func (m *Microscope) SetDarkFieldMode(mode any) error {
	v, err := parseEnum(mode, darkFieldModes)
	if err != nil {
		return err
	}
	return m.ill.SetDFMode(v)
}

func (m *Microscope) CondenserMode() (string, error) { return name(m.ill.CondenserMode) }

func (m *Microscope) SetCondenserMode(mode any) error {
	v, err := parseEnum(mode, condenserModes)
	if err != nil {
		return err
	}
	return m.ill.SetCondenserMode(v)
}

// IlluminatedArea is read only on the scripting interface.
func (m *Microscope) IlluminatedArea() (float64, error) { return m.ill.IlluminatedArea() }

// ProbeDefocus is read only on the scripting interface.
func (m *Microscope) ProbeDefocus() (float64, error) { return m.ill.ProbeDefocus() }

func (m *Microscope) StemMagnification() (float64, error) { return m.ill.StemMagnification() }

func (m *Microscope) SetStemMagnification(v any) error {
	return setFloat(m.ill.SetStemMagnification, "StemMagnification", v)
}

func (m *Microscope) StemRotation() (float64, error) { return m.ill.StemRotation() }

func (m *Microscope) SetStemRotation(v any) error {
	return setFloat(m.ill.SetStemRotation, "StemRotation", v)
}

func (m *Microscope) BeamBlanked() (bool, error) { return m.ill.BeamBlanked() }

func (m *Microscope) SetBeamBlanked(v any) error {
	b, ok := marshal.ToBool(v)
	if !ok {
		return errors.InvalidInput(errors.PhaseSet, []string{"BeamBlanked"}, v, "expected a boolean")
	}
	return m.ill.SetBeamBlanked(b)
}

func (m *Microscope) StemAvailable() (bool, error) { return m.mode.StemAvailable() }

func (m *Microscope) InstrumentMode() (string, error) { return name(m.mode.InstrumentMode) }

func (m *Microscope) SetInstrumentMode(mode any) error {
	v, err := parseEnum(mode, instrumentModes)
	if err != nil {
		return err
	}
	return m.mode.SetInstrumentMode(v)
}

func name[E scripting.Enum](get func() (E, error)) (string, error) {
	e, err := get()
	if err != nil {
		return "", err
	}
	return e.String(), nil
}

func setFloat(put func(float64) error, prop string, v any) error {
	f, ok := marshal.ToFloat64(v)
	if !ok {
		return errors.InvalidInput(errors.PhaseSet, []string{prop}, v, "expected a number")
	}
	return put(f)
}
