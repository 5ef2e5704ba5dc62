package microscope

import (
	"fmt"
	"slices"

	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

var (
	projectionModes = []scripting.ProjectionMode{
		scripting.ProjectionModeImaging, scripting.ProjectionModeDiffraction,
	}
	illuminationModes = []scripting.IlluminationMode{
		scripting.IlluminationModeNanoProbe, scripting.IlluminationModeMicroProbe,
	}
	darkFieldModes = []scripting.DarkFieldMode{
		scripting.DarkFieldModeOff, scripting.DarkFieldModeCartesian, scripting.DarkFieldModeConical,
	}
	condenserModes = []scripting.CondenserMode{
		scripting.CondenserModeParallel, scripting.CondenserModeProbe,
	}
	instrumentModes = []scripting.InstrumentMode{
		scripting.InstrumentModeTEM, scripting.InstrumentModeSTEM,
	}
	imageSizes = []scripting.AcqImageSize{
		scripting.AcqImageSizeFull, scripting.AcqImageSizeHalf, scripting.AcqImageSizeQuarter,
	}
	imageCorrections = []scripting.AcqImageCorrection{
		scripting.AcqImageCorrectionUnprocessed, scripting.AcqImageCorrectionDefault,
	}
	exposureModes = []scripting.AcqExposureMode{
		scripting.AcqExposureModeNone, scripting.AcqExposureModeSimultaneous,
		scripting.AcqExposureModePreExposure, scripting.AcqExposureModePreExposurePause,
	}
	shutterModes = []scripting.AcqShutterMode{
		scripting.AcqShutterModePreSpecimen, scripting.AcqShutterModePostSpecimen, scripting.AcqShutterModeBoth,
	}
	illuminationNormalizations = []scripting.IlluminationNormalization{
		scripting.IlluminationNormalizationSpotsize, scripting.IlluminationNormalizationIntensity,
		scripting.IlluminationNormalizationCondenser, scripting.IlluminationNormalizationMiniCondenser,
		scripting.IlluminationNormalizationObjectivePole, scripting.IlluminationNormalizationAll,
	}
	projectionNormalizations = []scripting.ProjectionNormalization{
		scripting.ProjectionNormalizationObjective, scripting.ProjectionNormalizationProjector,
		scripting.ProjectionNormalizationAll,
	}
)

// parseEnum accepts either the name of a value or its number.
func parseEnum[E scripting.Enum](value any, candidates []E) (E, error) {
	if name, ok := value.(string); ok {
		if e, ok := scripting.ParseEnum(name, candidates...); ok {
			return e, nil
		}
	} else if n, ok := marshal.ToInt32(value); ok && slices.Contains(candidates, E(n)) {
		return E(n), nil
	}
	var zero E
	return zero, errors.InvalidInput(errors.PhaseSet, nil, value,
		fmt.Sprintf("%v is not a valid %T", value, zero))
}
