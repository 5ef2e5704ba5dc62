package server

import (
	"maps"
	"slices"

	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/microscope"
)

type (
	getter      func(m *microscope.Microscope) (any, error)
	setter      func(m *microscope.Microscope, value any) error
	paramGetter func(m *microscope.Microscope, name string) (microscope.Params, error)
)

func get[V any](fn func(*microscope.Microscope) (V, error)) getter {
	return func(m *microscope.Microscope) (any, error) {
		v, err := fn(m)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func constant[V any](fn func(*microscope.Microscope) V) getter {
	return func(m *microscope.Microscope) (any, error) { return fn(m), nil }
}

func readOnly(object, property string) setter {
	return func(*microscope.Microscope, any) error {
		return errors.ReadOnly(object, property)
	}
}

// getters are the plain GET /v1/<endpoint> reads.
var getters = map[string]getter{
	"family":                  constant((*microscope.Microscope).Family),
	"microscope_id":           get((*microscope.Microscope).MicroscopeID),
	"version":                 constant((*microscope.Microscope).Version),
	"voltage":                 get((*microscope.Microscope).Voltage),
	"vacuum":                  get((*microscope.Microscope).Vacuum),
	"column_valves_open":      get((*microscope.Microscope).ColumnValvesOpen),
	"stage_holder":            get((*microscope.Microscope).StageHolder),
	"stage_status":            get((*microscope.Microscope).StageStatus),
	"stage_position":          get((*microscope.Microscope).StagePosition),
	"stage_limits":            get((*microscope.Microscope).StageLimits),
	"detectors":               get((*microscope.Microscope).Detectors),
	"cameras":                 get((*microscope.Microscope).Cameras),
	"stem_detectors":          get((*microscope.Microscope).STEMDetectors),
	"stem_acquisition_param":  get((*microscope.Microscope).STEMAcquisitionParam),
	"image_shift":             get((*microscope.Microscope).ImageShift),
	"beam_shift":              get((*microscope.Microscope).BeamShift),
	"beam_tilt":               get((*microscope.Microscope).BeamTilt),
	"projection_sub_mode":     get((*microscope.Microscope).ProjectionSubMode),
	"projection_mode":         get((*microscope.Microscope).ProjectionMode),
	"projection_mode_string":  get((*microscope.Microscope).ProjectionModeString),
	"magnification_index":     get((*microscope.Microscope).MagnificationIndex),
	"indicated_camera_length": get((*microscope.Microscope).IndicatedCameraLength),
	"indicated_magnification": get((*microscope.Microscope).IndicatedMagnification),
	"defocus":                 get((*microscope.Microscope).Defocus),
	"objective_excitation":    get((*microscope.Microscope).ObjectiveExcitation),
	"intensity":               get((*microscope.Microscope).Intensity),
	"objective_stigmator":     get((*microscope.Microscope).ObjectiveStigmator),
	"condenser_stigmator":     get((*microscope.Microscope).CondenserStigmator),
	"diffraction_shift":       get((*microscope.Microscope).DiffractionShift),
	"illumination_mode":       get((*microscope.Microscope).IlluminationMode),
	"condenser_mode":          get((*microscope.Microscope).CondenserMode),
	"illuminated_area":        get((*microscope.Microscope).IlluminatedArea),
	"probe_defocus":           get((*microscope.Microscope).ProbeDefocus),
	"stem_magnification":      get((*microscope.Microscope).StemMagnification),
	"stem_rotation":           get((*microscope.Microscope).StemRotation),
	"spot_size_index":         get((*microscope.Microscope).SpotSizeIndex),
	"dark_field_mode":         get((*microscope.Microscope).DarkFieldMode),
	"beam_blanked":            get((*microscope.Microscope).BeamBlanked),
	"instrument_mode":         get((*microscope.Microscope).InstrumentMode),
	"stem_available":          get((*microscope.Microscope).StemAvailable),
	"state":                   get((*microscope.Microscope).State),
	"optics_state":            get((*microscope.Microscope).State),
}

// setters are the plain PUT /v1/<endpoint> writes taking the decoded body.
var setters = map[string]setter{
	"image_shift":         (*microscope.Microscope).SetImageShift,
	"beam_shift":          (*microscope.Microscope).SetBeamShift,
	"beam_tilt":           (*microscope.Microscope).SetBeamTilt,
	"projection_mode":     (*microscope.Microscope).SetProjectionMode,
	"magnification_index": (*microscope.Microscope).SetMagnificationIndex,
	"defocus":             (*microscope.Microscope).SetDefocus,
	"intensity":           (*microscope.Microscope).SetIntensity,
	"diffraction_shift":   (*microscope.Microscope).SetDiffractionShift,
	"objective_stigmator": (*microscope.Microscope).SetObjectiveStigmator,
	"condenser_stigmator": (*microscope.Microscope).SetCondenserStigmator,
	"illumination_mode":   (*microscope.Microscope).SetIlluminationMode,
	"spot_size_index":     (*microscope.Microscope).SetSpotSizeIndex,
	"dark_field_mode":     (*microscope.Microscope).SetDarkFieldMode,
	"condenser_mode":      (*microscope.Microscope).SetCondenserMode,
	"stem_magnification":  (*microscope.Microscope).SetStemMagnification,
	"stem_rotation":       (*microscope.Microscope).SetStemRotation,
	"beam_blanked":        (*microscope.Microscope).SetBeamBlanked,
	"instrument_mode":     (*microscope.Microscope).SetInstrumentMode,
	"illuminated_area":    readOnly("Illumination", "IlluminatedArea"),
	"probe_defocus":       readOnly("Illumination", "ProbeDefocus"),
}

// paramGetters serve GET /v1/<endpoint>/<device>.
var paramGetters = map[string]paramGetter{
	"camera_param":        (*microscope.Microscope).CameraParam,
	"stem_detector_param": (*microscope.Microscope).STEMDetectorParam,
	"detector_param":      (*microscope.Microscope).DetectorParam,
}

// Endpoints lists the sorted GET and PUT endpoints that take no device
// segment.
func Endpoints() (reads, writes []string) {
	reads = append(slices.Collect(maps.Keys(getters)), "acquire")
	writes = append(slices.Collect(maps.Keys(setters)),
		"stage_position", "stem_acquisition_param", "normalize", "column_valves_open")
	slices.Sort(reads)
	slices.Sort(writes)
	return reads, writes
}
