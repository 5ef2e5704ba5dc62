package mock

import (
	"math"

	"github.com/wippyai/temscript/scripting"
)

// XY is a two component value held by the simulated instrument.
type XY struct {
	X, Y float64
}

// StagePos is a stage position in meters and radians.
type StagePos struct {
	X, Y, Z, A, B float64
}

func (p *StagePos) axis(bit scripting.StageAxes) *float64 {
	switch bit {
	case scripting.AxisX:
		return &p.X
	case scripting.AxisY:
		return &p.Y
	case scripting.AxisZ:
		return &p.Z
	case scripting.AxisA:
		return &p.A
	case scripting.AxisB:
		return &p.B
	}
	return nil
}

// AxisLimit describes one stage axis.
type AxisLimit struct {
	Min, Max float64
	Unit     scripting.MeasurementUnitType
}

type StageState struct {
	Status   scripting.StageStatus
	Holder   scripting.StageHolderType
	Position StagePos
	Limits   map[scripting.StageAxes]AxisLimit
	// LastSpeed is the speed of the most recent move, 1 for plain moves.
	LastSpeed float64
}

type GunState struct {
	HTState    scripting.HightensionState
	HTValue    float64
	HTMaxValue float64
	Shift      XY
	Tilt       XY
}

type ProjectionState struct {
	Focus               float64
	Mode                scripting.ProjectionMode
	SubMode             scripting.ProjectionSubMode
	LensProgram         scripting.LensProg
	ProjectionIndex     int32
	SubModeMinIndex     int32
	SubModeMaxIndex     int32
	CameraLengthIndex   int32
	Magnifications      []float64
	CameraLengths       []float64
	ImageRotation       float64
	ImageShift          XY
	ImageBeamShift      XY
	ImageBeamTilt       XY
	DiffractionShift    XY
	DiffractionStigma   XY
	ObjectiveStigmator  XY
	DetectorShift       scripting.ProjectionDetectorShift
	DetectorShiftMode   scripting.ProjDetectorShiftMode
	ObjectiveExcitation float64
	Defocus             float64
}

func (p *ProjectionState) magnification() float64 {
	i := int(p.ProjectionIndex) - 1
	if p.Mode != scripting.ProjectionModeImaging || i < 0 || i >= len(p.Magnifications) {
		return 0
	}
	return p.Magnifications[i]
}

func (p *ProjectionState) cameraLength() float64 {
	i := int(p.CameraLengthIndex) - 1
	if p.Mode != scripting.ProjectionModeDiffraction || i < 0 || i >= len(p.CameraLengths) {
		return 0
	}
	return p.CameraLengths[i]
}

type IlluminationState struct {
	Mode               scripting.IlluminationMode
	SpotsizeIndex      int32
	Intensity          float64
	IntensityZoom      bool
	IntensityLimit     bool
	BeamBlanked        bool
	Shift              XY
	Tilt               XY
	RotationCenter     XY
	CondenserStigmator XY
	DFMode             scripting.DarkFieldMode
	CondenserMode      scripting.CondenserMode
	IlluminatedArea    float64
	ProbeDefocus       float64
	StemMagnification  float64
	StemRotation       float64
}

type GaugeState struct {
	Name     string
	Pressure float64
	Status   scripting.GaugeStatus
	Level    scripting.GaugePressureLevel
	Reads    int
}

type VacuumState struct {
	Status           scripting.VacuumStatus
	PVPRunning       bool
	ColumnValvesOpen bool
	Gauges           []*GaugeState
	BufferCycles     int
}

type CCDParams struct {
	ImageSize               scripting.AcqImageSize
	ExposureTime            float64
	Binning                 int32
	ImageCorrection         scripting.AcqImageCorrection
	ExposureMode            scripting.AcqExposureMode
	MinPreExposureTime      float64
	MaxPreExposureTime      float64
	PreExposureTime         float64
	MinPreExposurePauseTime float64
	MaxPreExposurePauseTime float64
	PreExposurePauseTime    float64
}

type CameraState struct {
	Name         string
	Width        int32
	Height       int32
	PixelSize    XY
	Binnings     []int32
	ShutterModes []scripting.AcqShutterMode
	ShutterMode  scripting.AcqShutterMode
	Params       CCDParams
}

type DetectorState struct {
	Name       string
	Brightness float64
	Contrast   float64
	Binnings   []int32
}

type STEMParams struct {
	ImageSize scripting.AcqImageSize
	DwellTime float64
	Binning   int32
}

// State is the simulated instrument. Tests edit it through Server.Lock.
type State struct {
	Family          scripting.ProductFamily
	AutoNormalize   bool
	Normalizations  int
	Gun             GunState
	Stage           StageState
	Projection      ProjectionState
	Illumination    IlluminationState
	Vacuum          VacuumState
	Cameras         []*CameraState
	Detectors       []*DetectorState
	STEMParams      STEMParams
	STEMImageSize   int32
	ShutterOverride bool
	StemAvailable   bool
	InstrumentMode  scripting.InstrumentMode
	// Selected holds the names of the devices added for acquisition.
	Selected []string
}

// DefaultState returns a Titan with one camera and two STEM detectors.
func DefaultState() *State {
	return &State{
		Family:        scripting.ProductFamilyTitan,
		AutoNormalize: true,
		Gun: GunState{
			HTState:    scripting.HightensionStateOn,
			HTValue:    200000,
			HTMaxValue: 300000,
		},
		Stage: StageState{
			Status: scripting.StageStatusReady,
			Holder: scripting.StageHolderSingleTilt,
			Limits: map[scripting.StageAxes]AxisLimit{
				scripting.AxisX: {Min: -1e-3, Max: 1e-3, Unit: scripting.MeasurementUnitMeters},
				scripting.AxisY: {Min: -1e-3, Max: 1e-3, Unit: scripting.MeasurementUnitMeters},
				scripting.AxisZ: {Min: -0.3e-3, Max: 0.3e-3, Unit: scripting.MeasurementUnitMeters},
				scripting.AxisA: {Min: -math.Pi / 6, Max: math.Pi / 6, Unit: scripting.MeasurementUnitRadians},
				scripting.AxisB: {Min: -math.Pi / 6, Max: math.Pi / 6, Unit: scripting.MeasurementUnitRadians},
			},
			LastSpeed: 1,
		},
		Projection: ProjectionState{
			Mode:              scripting.ProjectionModeImaging,
			SubMode:           scripting.ProjectionSubModeSA,
			LensProgram:       scripting.LensProgRegular,
			ProjectionIndex:   10,
			SubModeMinIndex:   1,
			SubModeMaxIndex:   20,
			CameraLengthIndex: 5,
			Magnifications: []float64{
				25, 34, 46, 62, 84, 115, 155, 210, 280, 380,
				4800, 6500, 8700, 11500, 15000, 19500, 25000, 29000, 38000, 50000,
			},
			CameraLengths:       []float64{0.034, 0.042, 0.054, 0.068, 0.085, 0.105, 0.135, 0.17, 0.21, 0.26},
			DetectorShift:       scripting.ProjectionDetectorShiftOnAxis,
			DetectorShiftMode:   scripting.ProjDetectorShiftModeAutoIgnore,
			ObjectiveExcitation: 87.4,
		},
		Illumination: IlluminationState{
			Mode:              scripting.IlluminationModeMicroProbe,
			SpotsizeIndex:     3,
			Intensity:         0.45,
			IntensityLimit:    true,
			DFMode:            scripting.DarkFieldModeOff,
			CondenserMode:     scripting.CondenserModeParallel,
			IlluminatedArea:   1.2e-6,
			StemMagnification: 100000,
		},
		Vacuum: VacuumState{
			Status:           scripting.VacuumStatusReady,
			ColumnValvesOpen: false,
			Gauges: []*GaugeState{
				{Name: "P1", Pressure: 2.1e-5, Status: scripting.GaugeStatusValid, Level: scripting.GaugePressureLevelLow},
				{Name: "P2", Pressure: 0, Status: scripting.GaugeStatusUnderflow, Level: scripting.GaugePressureLevelLow},
				{Name: "IGP1", Pressure: 4.5e-6, Status: scripting.GaugeStatusValid, Level: scripting.GaugePressureLevelLow},
			},
		},
		Cameras: []*CameraState{{
			Name:         "BM-Ceta",
			Width:        1024,
			Height:       1024,
			PixelSize:    XY{X: 14e-6, Y: 14e-6},
			Binnings:     []int32{1, 2, 4},
			ShutterModes: []scripting.AcqShutterMode{scripting.AcqShutterModePreSpecimen, scripting.AcqShutterModePostSpecimen},
			ShutterMode:  scripting.AcqShutterModePostSpecimen,
			Params: CCDParams{
				ImageSize:               scripting.AcqImageSizeFull,
				ExposureTime:            1,
				Binning:                 1,
				ImageCorrection:         scripting.AcqImageCorrectionDefault,
				ExposureMode:            scripting.AcqExposureModeNone,
				MaxPreExposureTime:      1,
				MaxPreExposurePauseTime: 1,
			},
		}},
		Detectors: []*DetectorState{
			{Name: "HAADF", Brightness: 0.5, Contrast: 0.5, Binnings: []int32{1, 2, 4, 8}},
			{Name: "BF", Brightness: 0.5, Contrast: 0.5, Binnings: []int32{1, 2, 4, 8}},
		},
		STEMParams: STEMParams{
			ImageSize: scripting.AcqImageSizeFull,
			DwellTime: 1e-6,
			Binning:   1,
		},
		STEMImageSize:  1024,
		StemAvailable:  true,
		InstrumentMode: scripting.InstrumentModeTEM,
	}
}

func (st *State) camera(name string) *CameraState {
	for _, c := range st.Cameras {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (st *State) detector(name string) *DetectorState {
	for _, d := range st.Detectors {
		if d.Name == name {
			return d
		}
	}
	return nil
}
