package scripting

import "github.com/wippyai/temscript/com"

// Error codes returned by the instrument server in addition to the
// generic COM codes.
const (
	E_NOT_OK          com.HRESULT = -2147155969 // 0x8004FFFF
	E_VALUE_CLIP      com.HRESULT = -2147155970 // 0x8004FFFE
	E_OUT_OF_RANGE    com.HRESULT = -2147155971 // 0x8004FFFD
	E_NOT_IMPLEMENTED com.HRESULT = -2147155972 // 0x8004FFFC
)

var (
	CLSIDInstrument = com.MustGUID("02cdc9a1-1f1d-11d3-ae11-00a024cba50c")

	IIDInstrument            = com.MustGUID("bc0a2b11-10ff-11d3-ae00-00a024cba50c")
	IIDVector                = com.MustGUID("9851bc47-1b8c-11d3-ae0a-00a024cba50c")
	IIDProjection            = com.MustGUID("b39c3ae1-1e41-11d3-ae0e-00a024cba50c")
	IIDCCDCameraInfo         = com.MustGUID("024ded60-b124-4514-bfe2-02c0f5c51db9")
	IIDCCDAcqParams          = com.MustGUID("c03db779-1345-42ab-9304-95b85789163d")
	IIDCCDCamera             = com.MustGUID("e44e1565-4131-4937-b273-78219e090845")
	IIDSTEMDetectorInfo      = com.MustGUID("96de094b-9cdc-4796-8697-e7dd5dc3ec3f")
	IIDSTEMAcqParams         = com.MustGUID("ddc14710-6152-4963-aea4-c67ba784c6b4")
	IIDSTEMDetector          = com.MustGUID("d77c0d65-a1dd-4d0a-af25-c280046a5719")
	IIDAcqImage              = com.MustGUID("e15f4810-43c6-489a-9e8a-588b0949e153")
	IIDAcquisition           = com.MustGUID("d6bbf89c-22b8-468f-80a1-947ea89269ce")
	IIDGauge                 = com.MustGUID("52020820-18bf-11d3-86e1-00c04fc126dd")
	IIDVacuum                = com.MustGUID("c7646442-1115-11d3-ae00-00a024cba50c")
	IIDStagePosition         = com.MustGUID("9851bc4a-1b8c-11d3-ae0a-00a024cba50c")
	IIDStageAxisData         = com.MustGUID("8f1e91c2-b97d-45b8-87c9-423f5eb10b8a")
	IIDStage                 = com.MustGUID("e7ae1e41-1bf8-11d3-ae0b-00a024cba50c")
	IIDIllumination          = com.MustGUID("ef960690-1c38-11d3-ae0b-00a024cba50c")
	IIDGun                   = com.MustGUID("e6f00870-3164-11d3-b4c8-00a024cb9221")
	IIDBlankerShutter        = com.MustGUID("f1f59bb0-f8a0-439d-a3bf-87f527b600c4")
	IIDInstrumentModeControl = com.MustGUID("8dc0fc71-ff15-40d8-8174-092218d8b76b")
	IIDConfiguration         = com.MustGUID("39cacdaf-f47c-4bbf-9ffa-a7a737664ced")
)

// Collection is a 0-indexed automation collection addressed with VT_I4 variants.
type Collection[T com.Unknown] interface {
	com.Unknown
	GetCount() (int32, com.HRESULT)
	GetItem(index com.Variant) (T, com.HRESULT)
}

type Vector interface {
	com.Unknown
	GetX() (float64, com.HRESULT)
	PutX(float64) com.HRESULT
	GetY() (float64, com.HRESULT)
	PutY(float64) com.HRESULT
}

type Instrument interface {
	com.Unknown
	GetConfiguration() (Configuration, com.HRESULT)
	GetProjection() (Projection, com.HRESULT)
	GetIllumination() (Illumination, com.HRESULT)
	GetStage() (Stage, com.HRESULT)
	GetAcquisition() (Acquisition, com.HRESULT)
	GetVacuum() (Vacuum, com.HRESULT)
	GetGun() (Gun, com.HRESULT)
	GetBlankerShutter() (BlankerShutter, com.HRESULT)
	GetInstrumentModeControl() (InstrumentModeControl, com.HRESULT)
	GetAutoNormalizeEnabled() (com.VariantBool, com.HRESULT)
	PutAutoNormalizeEnabled(com.VariantBool) com.HRESULT
	NormalizeAll() com.HRESULT
}

type StagePosition interface {
	com.Unknown
	GetX() (float64, com.HRESULT)
	PutX(float64) com.HRESULT
	GetY() (float64, com.HRESULT)
	PutY(float64) com.HRESULT
	GetZ() (float64, com.HRESULT)
	PutZ(float64) com.HRESULT
	GetA() (float64, com.HRESULT)
	PutA(float64) com.HRESULT
	GetB() (float64, com.HRESULT)
	PutB(float64) com.HRESULT
}

type StageAxisData interface {
	com.Unknown
	GetMinPos() (float64, com.HRESULT)
	GetMaxPos() (float64, com.HRESULT)
	GetUnitType() (MeasurementUnitType, com.HRESULT)
}

type Stage interface {
	com.Unknown
	GetStatus() (StageStatus, com.HRESULT)
	GetHolder() (StageHolderType, com.HRESULT)
	GetPosition() (StagePosition, com.HRESULT)
	Goto(pos StagePosition, axes StageAxes) com.HRESULT
	GotoWithSpeed(pos StagePosition, axes StageAxes, speed float64) com.HRESULT
	MoveTo(pos StagePosition, axes StageAxes) com.HRESULT
	GetAxisData(axis StageAxes) (StageAxisData, com.HRESULT)
}

type Projection interface {
	com.Unknown
	GetFocus() (float64, com.HRESULT)
	PutFocus(float64) com.HRESULT
	GetMode() (ProjectionMode, com.HRESULT)
	PutMode(ProjectionMode) com.HRESULT
	GetSubMode() (ProjectionSubMode, com.HRESULT)
	GetSubModeString() (com.BSTR, com.HRESULT)
	GetLensProgram() (LensProg, com.HRESULT)
	PutLensProgram(LensProg) com.HRESULT
	GetMagnification() (float64, com.HRESULT)
	GetMagnificationIndex() (int32, com.HRESULT)
	PutMagnificationIndex(int32) com.HRESULT
	GetImageRotation() (float64, com.HRESULT)
	GetCameraLength() (float64, com.HRESULT)
	GetCameraLengthIndex() (int32, com.HRESULT)
	PutCameraLengthIndex(int32) com.HRESULT
	GetImageShift() (Vector, com.HRESULT)
	PutImageShift(Vector) com.HRESULT
	GetImageBeamShift() (Vector, com.HRESULT)
	PutImageBeamShift(Vector) com.HRESULT
	GetImageBeamTilt() (Vector, com.HRESULT)
	PutImageBeamTilt(Vector) com.HRESULT
	GetDiffractionShift() (Vector, com.HRESULT)
	PutDiffractionShift(Vector) com.HRESULT
	GetDiffractionStigmator() (Vector, com.HRESULT)
	PutDiffractionStigmator(Vector) com.HRESULT
	GetObjectiveStigmator() (Vector, com.HRESULT)
	PutObjectiveStigmator(Vector) com.HRESULT
	GetDetectorShift() (ProjectionDetectorShift, com.HRESULT)
	PutDetectorShift(ProjectionDetectorShift) com.HRESULT
	GetDetectorShiftMode() (ProjDetectorShiftMode, com.HRESULT)
	PutDetectorShiftMode(ProjDetectorShiftMode) com.HRESULT
	GetObjectiveExcitation() (float64, com.HRESULT)
	GetDefocus() (float64, com.HRESULT)
	PutDefocus(float64) com.HRESULT
	GetProjectionIndex() (int32, com.HRESULT)
	PutProjectionIndex(int32) com.HRESULT
	GetSubModeMinIndex() (int32, com.HRESULT)
	GetSubModeMaxIndex() (int32, com.HRESULT)
	ResetDefocus() com.HRESULT
	ChangeProjectionIndex(delta int32) com.HRESULT
	Normalize(norm ProjectionNormalization) com.HRESULT
}

type Illumination interface {
	com.Unknown
	GetMode() (IlluminationMode, com.HRESULT)
	PutMode(IlluminationMode) com.HRESULT
	GetSpotsizeIndex() (int32, com.HRESULT)
	PutSpotsizeIndex(int32) com.HRESULT
	GetIntensity() (float64, com.HRESULT)
	PutIntensity(float64) com.HRESULT
	GetIntensityZoomEnabled() (com.VariantBool, com.HRESULT)
	PutIntensityZoomEnabled(com.VariantBool) com.HRESULT
	GetIntensityLimitEnabled() (com.VariantBool, com.HRESULT)
	PutIntensityLimitEnabled(com.VariantBool) com.HRESULT
	GetBeamBlanked() (com.VariantBool, com.HRESULT)
	PutBeamBlanked(com.VariantBool) com.HRESULT
	GetShift() (Vector, com.HRESULT)
	PutShift(Vector) com.HRESULT
	GetTilt() (Vector, com.HRESULT)
	PutTilt(Vector) com.HRESULT
	GetRotationCenter() (Vector, com.HRESULT)
	PutRotationCenter(Vector) com.HRESULT
	GetCondenserStigmator() (Vector, com.HRESULT)
	PutCondenserStigmator(Vector) com.HRESULT
	GetDFMode() (DarkFieldMode, com.HRESULT)
	PutDFMode(DarkFieldMode) com.HRESULT
	GetCondenserMode() (CondenserMode, com.HRESULT)
	PutCondenserMode(CondenserMode) com.HRESULT
	GetIlluminatedArea() (float64, com.HRESULT)
	GetProbeDefocus() (float64, com.HRESULT)
	GetStemMagnification() (float64, com.HRESULT)
	PutStemMagnification(float64) com.HRESULT
	GetStemRotation() (float64, com.HRESULT)
	PutStemRotation(float64) com.HRESULT
	Normalize(norm IlluminationNormalization) com.HRESULT
}

type Gun interface {
	com.Unknown
	GetHTState() (HightensionState, com.HRESULT)
	PutHTState(HightensionState) com.HRESULT
	GetHTValue() (float64, com.HRESULT)
	PutHTValue(float64) com.HRESULT
	GetHTMaxValue() (float64, com.HRESULT)
	GetShift() (Vector, com.HRESULT)
	PutShift(Vector) com.HRESULT
	GetTilt() (Vector, com.HRESULT)
	PutTilt(Vector) com.HRESULT
}

type Gauge interface {
	com.Unknown
	GetName() (com.BSTR, com.HRESULT)
	GetPressure() (float64, com.HRESULT)
	GetStatus() (GaugeStatus, com.HRESULT)
	GetPressureLevel() (GaugePressureLevel, com.HRESULT)
	Read() com.HRESULT
}

type Gauges interface {
	Collection[Gauge]
}

type Vacuum interface {
	com.Unknown
	GetStatus() (VacuumStatus, com.HRESULT)
	GetPVPRunning() (com.VariantBool, com.HRESULT)
	GetColumnValvesOpen() (com.VariantBool, com.HRESULT)
	PutColumnValvesOpen(com.VariantBool) com.HRESULT
	GetGauges() (Gauges, com.HRESULT)
	RunBufferCycle() com.HRESULT
}

type CCDCameraInfo interface {
	com.Unknown
	GetName() (com.BSTR, com.HRESULT)
	GetWidth() (int32, com.HRESULT)
	GetHeight() (int32, com.HRESULT)
	GetPixelSize() (Vector, com.HRESULT)
	GetBinnings() (com.SafeArray, com.HRESULT)
	GetShutterModes() (com.SafeArray, com.HRESULT)
	GetShutterMode() (AcqShutterMode, com.HRESULT)
	PutShutterMode(AcqShutterMode) com.HRESULT
}

type CCDAcqParams interface {
	com.Unknown
	GetImageSize() (AcqImageSize, com.HRESULT)
	PutImageSize(AcqImageSize) com.HRESULT
	GetExposureTime() (float64, com.HRESULT)
	PutExposureTime(float64) com.HRESULT
	GetBinning() (int32, com.HRESULT)
	PutBinning(int32) com.HRESULT
	GetImageCorrection() (AcqImageCorrection, com.HRESULT)
	PutImageCorrection(AcqImageCorrection) com.HRESULT
	GetExposureMode() (AcqExposureMode, com.HRESULT)
	PutExposureMode(AcqExposureMode) com.HRESULT
	GetMinPreExposureTime() (float64, com.HRESULT)
	GetMaxPreExposureTime() (float64, com.HRESULT)
	GetPreExposureTime() (float64, com.HRESULT)
	PutPreExposureTime(float64) com.HRESULT
	GetMinPreExposurePauseTime() (float64, com.HRESULT)
	GetMaxPreExposurePauseTime() (float64, com.HRESULT)
	GetPreExposurePauseTime() (float64, com.HRESULT)
	PutPreExposurePauseTime(float64) com.HRESULT
}

type CCDCamera interface {
	com.Unknown
	GetInfo() (CCDCameraInfo, com.HRESULT)
	GetAcqParams() (CCDAcqParams, com.HRESULT)
	PutAcqParams(CCDAcqParams) com.HRESULT
}

type CCDCameras interface {
	Collection[CCDCamera]
}

type STEMDetectorInfo interface {
	com.Unknown
	GetName() (com.BSTR, com.HRESULT)
	GetBrightness() (float64, com.HRESULT)
	PutBrightness(float64) com.HRESULT
	GetContrast() (float64, com.HRESULT)
	PutContrast(float64) com.HRESULT
	GetBinnings() (com.SafeArray, com.HRESULT)
}

type STEMAcqParams interface {
	com.Unknown
	GetImageSize() (AcqImageSize, com.HRESULT)
	PutImageSize(AcqImageSize) com.HRESULT
	GetDwellTime() (float64, com.HRESULT)
	PutDwellTime(float64) com.HRESULT
	GetBinning() (int32, com.HRESULT)
	PutBinning(int32) com.HRESULT
}

type STEMDetector interface {
	com.Unknown
	GetInfo() (STEMDetectorInfo, com.HRESULT)
}

// STEMDetectors carries the acquisition parameters shared by all detectors.
type STEMDetectors interface {
	Collection[STEMDetector]
	GetAcqParams() (STEMAcqParams, com.HRESULT)
	PutAcqParams(STEMAcqParams) com.HRESULT
}

type AcqImage interface {
	com.Unknown
	GetName() (com.BSTR, com.HRESULT)
	GetWidth() (int32, com.HRESULT)
	GetHeight() (int32, com.HRESULT)
	GetDepth() (int32, com.HRESULT)
	GetAsSafeArray() (com.SafeArray, com.HRESULT)
}

type AcqImages interface {
	Collection[AcqImage]
}

// Acquisition accepts CCDCamera or STEMDetector interfaces as devices.
// BSTR arguments remain owned by the caller.
type Acquisition interface {
	com.Unknown
	GetCameras() (CCDCameras, com.HRESULT)
	GetDetectors() (STEMDetectors, com.HRESULT)
	AddAcqDevice(device com.Unknown) com.HRESULT
	AddAcqDeviceByName(name com.BSTR) com.HRESULT
	RemoveAcqDevice(device com.Unknown) com.HRESULT
	RemoveAcqDeviceByName(name com.BSTR) com.HRESULT
	RemoveAllAcqDevices() com.HRESULT
	AcquireImages() (AcqImages, com.HRESULT)
}

type Configuration interface {
	com.Unknown
	GetProductFamily() (ProductFamily, com.HRESULT)
}

type BlankerShutter interface {
	com.Unknown
	GetShutterOverrideOn() (com.VariantBool, com.HRESULT)
	PutShutterOverrideOn(com.VariantBool) com.HRESULT
}

type InstrumentModeControl interface {
	com.Unknown
	GetStemAvailable() (com.VariantBool, com.HRESULT)
	GetInstrumentMode() (InstrumentMode, com.HRESULT)
	PutInstrumentMode(InstrumentMode) com.HRESULT
}
