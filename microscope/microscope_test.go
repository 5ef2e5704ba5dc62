package microscope_test

import (
	"math"
	"slices"
	"testing"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/microscope"
	"github.com/wippyai/temscript/mock"
	"github.com/wippyai/temscript/scripting"
)

func open(t *testing.T) (*mock.Server, *microscope.Microscope) {
	t.Helper()
	srv := mock.NewServer()
	revoke, err := srv.Register()
	if err != nil {
		t.Fatal(err)
	}
	m, err := microscope.Open()
	if err != nil {
		revoke()
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close() = %v", err)
		}
		revoke()
		if n := srv.Outstanding(); n != 0 {
			t.Errorf("outstanding objects after Close: %v", srv.Objects().Counts())
		}
	})
	return srv, m
}

func wantKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if k, ok := errors.KindOf(err); !ok || k != kind {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

func TestMicroscope_Basics(t *testing.T) {
	srv, m := open(t)

	if m.Family() != "TITAN" {
		t.Fatalf("Family() = %q", m.Family())
	}
	if v, err := m.Voltage(); err != nil || v != 200 {
		t.Fatalf("Voltage() = %v, %v", v, err)
	}
	srv.Lock(func(s *mock.State) { s.Gun.HTState = scripting.HightensionStateOff })
	if v, err := m.Voltage(); err != nil || v != 0 {
		t.Fatalf("Voltage() with HT off = %v, %v", v, err)
	}
	if m.Version() != microscope.Version {
		t.Fatalf("Version() = %q", m.Version())
	}
}

func TestMicroscope_Vacuum(t *testing.T) {
	srv, m := open(t)
	srv.Lock(func(s *mock.State) {
		s.Vacuum.Gauges[2].Status = scripting.GaugeStatusInvalid
	})

	vac, err := m.Vacuum()
	if err != nil {
		t.Fatal(err)
	}
	if vac.Status != "READY" || vac.ColumnValvesOpen || vac.PVPRunning {
		t.Fatalf("Vacuum() = %+v", vac)
	}
	if vac.Gauges["P1"] != 2.1e-5 || vac.Gauges["P2"] != "UNDERFLOW" {
		t.Fatalf("gauges = %v", vac.Gauges)
	}
	if _, ok := vac.Gauges["IGP1"]; ok {
		t.Fatal("invalid gauge must be left out")
	}
	if n := srv.OutstandingKind("Gauge"); n != 0 {
		t.Fatalf("leaked %d gauges", n)
	}
	srv.Lock(func(s *mock.State) {
		for _, g := range s.Vacuum.Gauges {
			if g.Reads != 1 {
				t.Errorf("%s read %d times", g.Name, g.Reads)
			}
		}
	})
}

func TestMicroscope_Stage(t *testing.T) {
	srv, m := open(t)

	limits, err := m.StageLimits()
	if err != nil {
		t.Fatal(err)
	}
	if len(limits) != 5 || limits["x"] != [2]float64{-1e-3, 1e-3} {
		t.Fatalf("StageLimits() = %v", limits)
	}
	if h, _ := m.StageHolder(); h != "SINGLE_TILT" {
		t.Fatalf("StageHolder() = %q", h)
	}

	tests := []struct {
		name   string
		pos    map[string]any
		method string
		call   string
	}{
		{"default method", map[string]any{"x": 1e-5}, "", "Stage.Goto"},
		{"go with speed", map[string]any{"y": 2e-5, "speed": 0.5}, microscope.MoveGo, "Stage.GotoWithSpeed"},
		{"move", map[string]any{"z": 1e-6}, microscope.MoveMove, "Stage.MoveTo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.ResetCalls()
			if err := m.SetStagePosition(tt.pos, tt.method); err != nil {
				t.Fatal(err)
			}
			if calls := srv.Calls(tt.call); len(calls) != 1 {
				t.Fatalf("%s calls = %v", tt.call, srv.Calls("Stage."))
			}
		})
	}

	pos, err := m.StagePosition()
	if err != nil {
		t.Fatal(err)
	}
	if pos != (temscript.Position{X: 1e-5, Y: 2e-5, Z: 1e-6}) {
		t.Fatalf("StagePosition() = %+v", pos)
	}

	wantKind(t, m.SetStagePosition(map[string]any{"x": 0}, "JUMP"), errors.KindInvalidInput)
	wantKind(t, m.SetStagePosition(map[string]any{"w": 0}, ""), errors.KindInvalidInput)
}

func TestMicroscope_Detectors(t *testing.T) {
	_, m := open(t)

	cams, err := m.Cameras()
	if err != nil {
		t.Fatal(err)
	}
	cam, ok := cams["BM-Ceta"]
	if !ok {
		t.Fatalf("Cameras() = %v", cams)
	}
	if cam.Type != microscope.TypeCamera || math.Abs(cam.PixelSize[0]-14) > 1e-9 || len(cam.Binnings) != 3 {
		t.Fatalf("camera = %+v", cam)
	}
	if !slices.Equal(cam.ShutterModes, []string{"PRE_SPECIMEN", "POST_SPECIMEN"}) {
		t.Fatalf("shutter modes = %v", cam.ShutterModes)
	}

	dets, err := m.STEMDetectors()
	if err != nil {
		t.Fatal(err)
	}
	if len(dets) != 2 || dets["HAADF"].Type != microscope.TypeSTEMDetector {
		t.Fatalf("STEMDetectors() = %v", dets)
	}

	all, err := m.Detectors()
	if err != nil || len(all) != 3 {
		t.Fatalf("Detectors() = %v, %v", all, err)
	}
}

func TestMicroscope_CameraParam(t *testing.T) {
	srv, m := open(t)

	rest, err := m.SetCameraParam("BM-Ceta", microscope.Params{
		"exposure(s)":  0.5,
		"binning":      2,
		"image_size":   "HALF",
		"shutter_mode": int32(scripting.AcqShutterModePostSpecimen),
		"unknown":      true,
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest["unknown"] != true {
		t.Fatalf("unconsumed = %v", rest)
	}

	p, err := m.CameraParam("BM-Ceta")
	if err != nil {
		t.Fatal(err)
	}
	// exposure is applied after binning, which rescales it
	if p["exposure(s)"] != 0.5 || p["binning"] != int32(2) {
		t.Fatalf("CameraParam() = %v", p)
	}
	if p["image_size"] != "HALF" || p["shutter_mode"] != "POST_SPECIMEN" || p["correction"] != "DEFAULT" {
		t.Fatalf("CameraParam() = %v", p)
	}

	tests := []struct {
		name   string
		values microscope.Params
		ignore bool
		kind   errors.Kind
	}{
		{"bad enum", microscope.Params{"image_size": "HUGE"}, false, errors.KindInvalidInput},
		{"bad number", microscope.Params{"exposure(s)": "long"}, false, errors.KindInvalidInput},
		{"ignored", microscope.Params{"image_size": "HUGE", "exposure(s)": "long"}, true, ""},
		{"native failure", microscope.Params{"binning": 3}, true, errors.KindNative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.SetCameraParam("BM-Ceta", tt.values, tt.ignore)
			if tt.kind == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			wantKind(t, err, tt.kind)
		})
	}

	_, err = m.CameraParam("Orius")
	wantKind(t, err, errors.KindNotFound)
	if n := srv.OutstandingKind("CCDCamera"); n != 0 {
		t.Fatalf("leaked %d cameras", n)
	}
}

func TestMicroscope_DetectorParamDeprecated(t *testing.T) {
	srv, m := open(t)

	p, err := m.DetectorParam("HAADF")
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"brightness", "contrast", "image_size", "binning", "dwell_time(s)"} {
		if _, ok := p[key]; !ok {
			t.Errorf("DetectorParam() missing %q: %v", key, p)
		}
	}

	if _, err := m.SetDetectorParam("HAADF", microscope.Params{
		"contrast":     0.75,
		"dwelltime(s)": 4e-6,
		"binning":      "two",
	}); err != nil {
		t.Fatal(err)
	}
	srv.Lock(func(s *mock.State) {
		if s.Detectors[0].Contrast != 0.75 || s.STEMParams.DwellTime != 4e-6 || s.STEMParams.Binning != 1 {
			t.Errorf("detector = %+v, params = %+v", *s.Detectors[0], s.STEMParams)
		}
	})

	_, err = m.DetectorParam("EELS")
	wantKind(t, err, errors.KindNotFound)
	if n := srv.OutstandingKind("STEMAcqParams"); n != 0 {
		t.Fatalf("leaked %d STEM params", n)
	}
}

func TestMicroscope_Acquire(t *testing.T) {
	srv, m := open(t)

	images, err := m.Acquire("BM-Ceta", "no such detector")
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 {
		t.Fatalf("Acquire() = %v", images)
	}
	arr := images["BM-Ceta"]
	if arr == nil || arr.ShapeString() != "1024,1024" {
		t.Fatalf("image = %v", arr)
	}
	if n := srv.OutstandingKind("AcqImage"); n != 0 {
		t.Fatalf("leaked %d images", n)
	}
}

func TestMicroscope_BeamTilt(t *testing.T) {
	tests := []struct {
		name     string
		mode     scripting.DarkFieldMode
		set      []float64
		wantMode scripting.DarkFieldMode
		raw      mock.XY
	}{
		{"off switches to cartesian", scripting.DarkFieldModeOff, []float64{1e-3, 2e-3}, scripting.DarkFieldModeCartesian, mock.XY{X: 1e-3, Y: 2e-3}},
		{"cartesian", scripting.DarkFieldModeCartesian, []float64{-1e-3, 0}, scripting.DarkFieldModeCartesian, mock.XY{X: -1e-3}},
		{"conical", scripting.DarkFieldModeConical, []float64{0, 2e-3}, scripting.DarkFieldModeConical, mock.XY{X: 2e-3, Y: math.Pi / 2}},
		{"zero switches off", scripting.DarkFieldModeConical, []float64{0, 0}, scripting.DarkFieldModeOff, mock.XY{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, m := open(t)
			srv.Lock(func(s *mock.State) { s.Illumination.DFMode = tt.mode })

			if err := m.SetBeamTilt(tt.set); err != nil {
				t.Fatal(err)
			}
			srv.Lock(func(s *mock.State) {
				if s.Illumination.DFMode != tt.wantMode {
					t.Errorf("DFMode = %v, want %v", s.Illumination.DFMode, tt.wantMode)
				}
				if math.Abs(s.Illumination.Tilt.X-tt.raw.X) > 1e-12 || math.Abs(s.Illumination.Tilt.Y-tt.raw.Y) > 1e-12 {
					t.Errorf("raw tilt = %+v, want %+v", s.Illumination.Tilt, tt.raw)
				}
			})

			got, err := m.BeamTilt()
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got.X-tt.set[0]) > 1e-12 || math.Abs(got.Y-tt.set[1]) > 1e-12 {
				t.Fatalf("BeamTilt() = %+v, want %v", got, tt.set)
			}
		})
	}
}

func TestMicroscope_Vectors(t *testing.T) {
	_, m := open(t)

	if err := m.SetImageShift(map[string]any{"x": 1e-7, "y": -1e-7}); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.ImageShift(); v != (temscript.Vec2{X: 1e-7, Y: -1e-7}) {
		t.Fatalf("ImageShift() = %v", v)
	}
	if err := m.SetBeamShift([]any{1e-8, 2e-8}); err != nil {
		t.Fatal(err)
	}
	wantKind(t, m.SetDiffractionShift(map[string]any{"x": 1}), errors.KindInvalidInput)
	wantKind(t, m.SetObjectiveStigmator("left"), errors.KindInvalidInput)
}

func TestMicroscope_Normalize(t *testing.T) {
	tests := []struct {
		mode string
		call string
		arg  any
	}{
		{"all", "Instrument.NormalizeAll", nil},
		{"Objective_Condenser", "Illumination.Normalize", scripting.IlluminationNormalizationAll},
		{"OBJECTIVE_PROJECTIVE", "Projection.Normalize", scripting.ProjectionNormalizationAll},
		{"spotsize", "Illumination.Normalize", scripting.IlluminationNormalizationSpotsize},
		{"PROJECTOR", "Projection.Normalize", scripting.ProjectionNormalizationProjector},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			srv, m := open(t)
			srv.ResetCalls()
			if err := m.Normalize(tt.mode); err != nil {
				t.Fatal(err)
			}
			calls := srv.Calls(tt.call)
			if len(calls) != 1 {
				t.Fatalf("calls = %v", calls)
			}
			if tt.arg != nil && (len(calls[0].Args) != 1 || calls[0].Args[0] != tt.arg) {
				t.Fatalf("args = %v, want %v", calls[0].Args, tt.arg)
			}
		})
	}

	_, m := open(t)
	wantKind(t, m.Normalize("everything"), errors.KindInvalidInput)
}

func TestMicroscope_Enums(t *testing.T) {
	srv, m := open(t)

	if err := m.SetProjectionMode("DIFFRACTION"); err != nil {
		t.Fatal(err)
	}
	if mode, _ := m.ProjectionMode(); mode != "DIFFRACTION" {
		t.Fatalf("ProjectionMode() = %q", mode)
	}
	if err := m.SetProjectionMode(1); err != nil {
		t.Fatal(err)
	}
	if err := m.SetIlluminationMode(scripting.IlluminationModeNanoProbe); err != nil {
		t.Fatal(err)
	}
	wantKind(t, m.SetProjectionMode(7), errors.KindInvalidInput)
	wantKind(t, m.SetInstrumentMode("SEM"), errors.KindInvalidInput)
	srv.Lock(func(s *mock.State) {
		if s.Projection.Mode != scripting.ProjectionModeImaging || s.Illumination.Mode != scripting.IlluminationModeNanoProbe {
			t.Errorf("projection %v illumination %v", s.Projection.Mode, s.Illumination.Mode)
		}
	})
}

func TestMicroscope_State(t *testing.T) {
	srv, m := open(t)

	st, err := m.State()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"family", "voltage(kV)", "stage_position", "beam_tilt", "condenser_mode", "probe_defocus"} {
		if _, ok := st[key]; !ok {
			t.Errorf("State() missing %q", key)
		}
	}
	if _, ok := st["stem_magnification"]; ok {
		t.Error("stem keys reported in TEM mode")
	}

	if err := m.SetInstrumentMode("STEM"); err != nil {
		t.Fatal(err)
	}
	srv.Lock(func(s *mock.State) { s.Family = scripting.ProductFamilyTecnai })
	st, err = m.State()
	if err != nil {
		t.Fatal(err)
	}
	if st["instrument_mode"] != "STEM" || st["stem_magnification"] != 100000.0 {
		t.Fatalf("State() = %v", st)
	}
	// the family is read once when the microscope is created
	if _, ok := st["condenser_mode"]; !ok {
		t.Error("condenser_mode missing")
	}

	srv.FailNext("Projection.GetFocus", scripting.E_NOT_OK)
	_, err = m.State()
	wantKind(t, err, errors.KindNative)
}
