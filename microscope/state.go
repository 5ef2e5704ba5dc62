package microscope

import "github.com/wippyai/temscript/scripting"

// State collects the optical and stage state in one map. Titan instruments
// add condenser mode, illuminated area and probe defocus; STEM mode adds the
// STEM magnification and rotation.
func (m *Microscope) State() (Params, error) {
	s := &reader{out: Params{
		"family":            m.Family(),
		"temscript_version": m.Version(),
	}}
	value(s, "microscope_id", m.MicroscopeID)
	value(s, "voltage(kV)", m.Voltage)
	value(s, "stage_holder", m.StageHolder)
	value(s, "stage_position", m.StagePosition)
	value(s, "image_shift", m.ImageShift)
	value(s, "beam_shift", m.BeamShift)
	value(s, "beam_tilt", m.BeamTilt)
	value(s, "projection_sub_mode", m.ProjectionSubMode)
	value(s, "projection_mode", m.ProjectionMode)
	value(s, "projection_mode_string", m.ProjectionModeString)
	value(s, "magnification_index", m.MagnificationIndex)
	value(s, "indicated_camera_length", m.IndicatedCameraLength)
	value(s, "indicated_magnification", m.IndicatedMagnification)
	value(s, "defocus", m.Defocus)
	value(s, "objective_excitation", m.ObjectiveExcitation)
	value(s, "intensity", m.Intensity)
	value(s, "condenser_stigmator", m.CondenserStigmator)
	value(s, "objective_stigmator", m.ObjectiveStigmator)
	value(s, "diffraction_shift", m.DiffractionShift)
	value(s, "spot_size_index", m.SpotSizeIndex)
	value(s, "illumination_mode", m.IlluminationMode)
	value(s, "beam_blanked", m.BeamBlanked)
	value(s, "stem_available", m.StemAvailable)
	value(s, "instrument_mode", m.InstrumentMode)

	if m.family == scripting.ProductFamilyTitan {
		value(s, "condenser_mode", m.CondenserMode)
		value(s, "illuminated_area", m.IlluminatedArea)
		value(s, "probe_defocus", m.ProbeDefocus)
	}
	if s.err == nil && s.out["instrument_mode"] == scripting.InstrumentModeSTEM.String() {
		value(s, "stem_magnification", m.StemMagnification)
		value(s, "stem_rotation", m.StemRotation)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}
