package scripting

import "fmt"

func enumString(names map[int32]string, typ string, v int32) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("%s(%d)", typ, v)
}

type VacuumStatus int32

const (
	VacuumStatusUnknown   VacuumStatus = 1
	VacuumStatusOff       VacuumStatus = 2
	VacuumStatusCameraAir VacuumStatus = 3
	VacuumStatusBusy      VacuumStatus = 4
	VacuumStatusReady     VacuumStatus = 5
	VacuumStatusElse      VacuumStatus = 6
)

var vacuumStatusNames = map[int32]string{1: "UNKNOWN", 2: "OFF", 3: "CAMERA_AIR", 4: "BUSY", 5: "READY", 6: "ELSE"}

func (v VacuumStatus) String() string { return enumString(vacuumStatusNames, "VacuumStatus", int32(v)) }

type GaugeStatus int32

const (
	GaugeStatusUndefined GaugeStatus = 0
	GaugeStatusUnderflow GaugeStatus = 1
	GaugeStatusOverflow  GaugeStatus = 2
	GaugeStatusInvalid   GaugeStatus = 3
	GaugeStatusValid     GaugeStatus = 4
)

var gaugeStatusNames = map[int32]string{0: "UNDEFINED", 1: "UNDERFLOW", 2: "OVERFLOW", 3: "INVALID", 4: "VALID"}

func (v GaugeStatus) String() string { return enumString(gaugeStatusNames, "GaugeStatus", int32(v)) }

type GaugePressureLevel int32

const (
	GaugePressureLevelUndefined  GaugePressureLevel = 0
	GaugePressureLevelLow        GaugePressureLevel = 1
	GaugePressureLevelLowMedium  GaugePressureLevel = 2
	GaugePressureLevelMediumHigh GaugePressureLevel = 3
	GaugePressureLevelHigh       GaugePressureLevel = 4
)

var gaugePressureLevelNames = map[int32]string{0: "UNDEFINED", 1: "LOW", 2: "LOW_MEDIUM", 3: "MEDIUM_HIGH", 4: "HIGH"}

func (v GaugePressureLevel) String() string {
	return enumString(gaugePressureLevelNames, "GaugePressureLevel", int32(v))
}

type StageStatus int32

const (
	StageStatusReady    StageStatus = 0
	StageStatusDisabled StageStatus = 1
	StageStatusNotReady StageStatus = 2
	StageStatusGoing    StageStatus = 3
	StageStatusMoving   StageStatus = 4
	StageStatusWobbling StageStatus = 5
)

var stageStatusNames = map[int32]string{0: "READY", 1: "DISABLED", 2: "NOT_READY", 3: "GOING", 4: "MOVING", 5: "WOBBLING"}

func (v StageStatus) String() string { return enumString(stageStatusNames, "StageStatus", int32(v)) }

type StageHolderType int32

const (
	StageHolderNone       StageHolderType = 0
	StageHolderSingleTilt StageHolderType = 1
	StageHolderDoubleTilt StageHolderType = 2
	StageHolderInvalid    StageHolderType = 4
	StageHolderPolara     StageHolderType = 5
	StageHolderDualAxis   StageHolderType = 6
)

var stageHolderNames = map[int32]string{0: "NONE", 1: "SINGLE_TILT", 2: "DOUBLE_TILT", 4: "INVALID", 5: "POLARA", 6: "DUAL_AXIS"}

func (v StageHolderType) String() string { return enumString(stageHolderNames, "StageHolderType", int32(v)) }

// StageAxes is the bit set passed to Goto and MoveTo.
type StageAxes int32

const (
	AxisX StageAxes = 1
	AxisY StageAxes = 2
	AxisZ StageAxes = 4
	AxisA StageAxes = 8
	AxisB StageAxes = 16
)

func (a StageAxes) String() string {
	if a == 0 {
		return "none"
	}
	var s []byte
	for i, name := range []byte("xyzab") {
		if a&(1<<i) != 0 {
			s = append(s, name)
		}
	}
	return string(s)
}

type MeasurementUnitType int32

const (
	MeasurementUnitUnknown MeasurementUnitType = 0
	MeasurementUnitMeters  MeasurementUnitType = 1
	MeasurementUnitRadians MeasurementUnitType = 2
)

type IlluminationNormalization int32

const (
	IlluminationNormalizationSpotsize      IlluminationNormalization = 1
	IlluminationNormalizationIntensity     IlluminationNormalization = 2
	IlluminationNormalizationCondenser     IlluminationNormalization = 3
	IlluminationNormalizationMiniCondenser IlluminationNormalization = 4
	IlluminationNormalizationObjectivePole IlluminationNormalization = 5
	IlluminationNormalizationAll           IlluminationNormalization = 6
)

var illuminationNormalizationNames = map[int32]string{1: "SPOTSIZE", 2: "INTENSITY", 3: "CONDENSER", 4: "MINI_CONDENSER", 5: "OBJECTIVE_POLE", 6: "ALL"}

func (v IlluminationNormalization) String() string {
	return enumString(illuminationNormalizationNames, "IlluminationNormalization", int32(v))
}

type IlluminationMode int32

const (
	IlluminationModeNanoProbe  IlluminationMode = 0
	IlluminationModeMicroProbe IlluminationMode = 1
)

var illuminationModeNames = map[int32]string{0: "NANOPROBE", 1: "MICROPROBE"}

func (v IlluminationMode) String() string {
	return enumString(illuminationModeNames, "IlluminationMode", int32(v))
}

type DarkFieldMode int32

const (
	DarkFieldModeOff       DarkFieldMode = 1
	DarkFieldModeCartesian DarkFieldMode = 2
	DarkFieldModeConical   DarkFieldMode = 3
)

var darkFieldModeNames = map[int32]string{1: "OFF", 2: "CARTESIAN", 3: "CONICAL"}

func (v DarkFieldMode) String() string { return enumString(darkFieldModeNames, "DarkFieldMode", int32(v)) }

type CondenserMode int32

const (
	CondenserModeParallel CondenserMode = 0
	CondenserModeProbe    CondenserMode = 1
)

var condenserModeNames = map[int32]string{0: "PARALLEL", 1: "PROBE"}

func (v CondenserMode) String() string { return enumString(condenserModeNames, "CondenserMode", int32(v)) }

type ProjectionNormalization int32

const (
	ProjectionNormalizationObjective ProjectionNormalization = 10
	ProjectionNormalizationProjector ProjectionNormalization = 11
	ProjectionNormalizationAll       ProjectionNormalization = 12
)

var projectionNormalizationNames = map[int32]string{10: "OBJECTIVE", 11: "PROJECTOR", 12: "ALL"}

func (v ProjectionNormalization) String() string {
	return enumString(projectionNormalizationNames, "ProjectionNormalization", int32(v))
}

type ProjectionMode int32

const (
	ProjectionModeImaging     ProjectionMode = 1
	ProjectionModeDiffraction ProjectionMode = 2
)

var projectionModeNames = map[int32]string{1: "IMAGING", 2: "DIFFRACTION"}

func (v ProjectionMode) String() string { return enumString(projectionModeNames, "ProjectionMode", int32(v)) }

type ProjectionSubMode int32

const (
	ProjectionSubModeLM  ProjectionSubMode = 1
	ProjectionSubModeMi  ProjectionSubMode = 2
	ProjectionSubModeSA  ProjectionSubMode = 3
	ProjectionSubModeMh  ProjectionSubMode = 4
	ProjectionSubModeLAD ProjectionSubMode = 5
	ProjectionSubModeD   ProjectionSubMode = 6
)

var projectionSubModeNames = map[int32]string{1: "LM", 2: "Mi", 3: "SA", 4: "Mh", 5: "LAD", 6: "D"}

func (v ProjectionSubMode) String() string {
	return enumString(projectionSubModeNames, "ProjectionSubMode", int32(v))
}

type LensProg int32

const (
	LensProgRegular LensProg = 1
	LensProgEFTEM   LensProg = 2
)

var lensProgNames = map[int32]string{1: "REGULAR", 2: "EFTEM"}

func (v LensProg) String() string { return enumString(lensProgNames, "LensProg", int32(v)) }

type ProjectionDetectorShift int32

const (
	ProjectionDetectorShiftOnAxis   ProjectionDetectorShift = 0
	ProjectionDetectorShiftNearAxis ProjectionDetectorShift = 1
	ProjectionDetectorShiftOffAxis  ProjectionDetectorShift = 2
)

var projectionDetectorShiftNames = map[int32]string{0: "ON_AXIS", 1: "NEAR_AXIS", 2: "OFF_AXIS"}

func (v ProjectionDetectorShift) String() string {
	return enumString(projectionDetectorShiftNames, "ProjectionDetectorShift", int32(v))
}

type ProjDetectorShiftMode int32

const (
	ProjDetectorShiftModeAutoIgnore ProjDetectorShiftMode = 1
	ProjDetectorShiftModeManual     ProjDetectorShiftMode = 2
	ProjDetectorShiftModeAlignment  ProjDetectorShiftMode = 3
)

var projDetectorShiftModeNames = map[int32]string{1: "AUTO_IGNORE", 2: "MANUAL", 3: "ALIGNMENT"}

func (v ProjDetectorShiftMode) String() string {
	return enumString(projDetectorShiftModeNames, "ProjDetectorShiftMode", int32(v))
}

type HightensionState int32

const (
	HightensionStateDisabled HightensionState = 1
	HightensionStateOff      HightensionState = 2
	HightensionStateOn       HightensionState = 3
)

var hightensionStateNames = map[int32]string{1: "DISABLED", 2: "OFF", 3: "ON"}

func (v HightensionState) String() string {
	return enumString(hightensionStateNames, "HightensionState", int32(v))
}

type InstrumentMode int32

const (
	InstrumentModeTEM  InstrumentMode = 0
	InstrumentModeSTEM InstrumentMode = 1
)

var instrumentModeNames = map[int32]string{0: "TEM", 1: "STEM"}

func (v InstrumentMode) String() string { return enumString(instrumentModeNames, "InstrumentMode", int32(v)) }

type AcqShutterMode int32

const (
	AcqShutterModePreSpecimen  AcqShutterMode = 0
	AcqShutterModePostSpecimen AcqShutterMode = 1
	AcqShutterModeBoth         AcqShutterMode = 2
)

var acqShutterModeNames = map[int32]string{0: "PRE_SPECIMEN", 1: "POST_SPECIMEN", 2: "BOTH"}

func (v AcqShutterMode) String() string { return enumString(acqShutterModeNames, "AcqShutterMode", int32(v)) }

type AcqImageSize int32

const (
	AcqImageSizeFull    AcqImageSize = 0
	AcqImageSizeHalf    AcqImageSize = 1
	AcqImageSizeQuarter AcqImageSize = 2
)

var acqImageSizeNames = map[int32]string{0: "FULL", 1: "HALF", 2: "QUARTER"}

func (v AcqImageSize) String() string { return enumString(acqImageSizeNames, "AcqImageSize", int32(v)) }

type AcqImageCorrection int32

const (
	AcqImageCorrectionUnprocessed AcqImageCorrection = 0
	AcqImageCorrectionDefault     AcqImageCorrection = 1
)

var acqImageCorrectionNames = map[int32]string{0: "UNPROCESSED", 1: "DEFAULT"}

func (v AcqImageCorrection) String() string {
	return enumString(acqImageCorrectionNames, "AcqImageCorrection", int32(v))
}

type AcqExposureMode int32

const (
	AcqExposureModeNone             AcqExposureMode = 0
	AcqExposureModeSimultaneous     AcqExposureMode = 1
	AcqExposureModePreExposure      AcqExposureMode = 2
	AcqExposureModePreExposurePause AcqExposureMode = 3
)

var acqExposureModeNames = map[int32]string{0: "NONE", 1: "SIMULTANEOUS", 2: "PRE_EXPOSURE", 3: "PRE_EXPOSURE_PAUSE"}

func (v AcqExposureMode) String() string {
	return enumString(acqExposureModeNames, "AcqExposureMode", int32(v))
}

type ProductFamily int32

const (
	ProductFamilyTecnai ProductFamily = 0
	ProductFamilyTitan  ProductFamily = 1
)

var productFamilyNames = map[int32]string{0: "TECNAI", 1: "TITAN"}

func (v ProductFamily) String() string { return enumString(productFamilyNames, "ProductFamily", int32(v)) }

// Enum is satisfied by every enumeration type in this package.
type Enum interface {
	~int32
	fmt.Stringer
}

// ParseEnum resolves a name printed by String back to its value.
func ParseEnum[E Enum](name string, candidates ...E) (E, bool) {
	for _, c := range candidates {
		if c.String() == name {
			return c, true
		}
	}
	var zero E
	return zero, false
}
