package temscript_test

import (
	"strings"
	"testing"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/mock"
	"github.com/wippyai/temscript/scripting"
)

func acquisition(t *testing.T, inst *temscript.Instrument) *temscript.Acquisition {
	t.Helper()
	acq, err := inst.Acquisition()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { acq.Close() })
	return acq
}

func TestDetectors_SharedParamsReleasedOnce(t *testing.T) {
	srv, _, inst := open(t)
	acq := acquisition(t, inst)
	baseline := srv.Outstanding()

	dets, err := acq.Detectors()
	if err != nil {
		t.Fatal(err)
	}
	if len(dets) != 2 {
		t.Fatalf("len(Detectors()) = %d", len(dets))
	}
	if n := srv.OutstandingKind("STEMAcqParams"); n != 1 {
		t.Fatalf("shared params objects = %d, want 1", n)
	}

	p0, err := dets[0].AcqParams()
	if err != nil {
		t.Fatal(err)
	}
	p1, err := dets[1].AcqParams()
	if err != nil {
		t.Fatal(err)
	}
	if p0 != p1 {
		t.Fatal("detectors must share one params wrapper")
	}
	p0.Close()
	p1.Close()

	dets[0].Close()
	if p0.Released() {
		t.Fatal("params released while a detector still holds them")
	}
	if err := p0.SetDwellTime(2e-6); err != nil {
		t.Fatal(err)
	}

	dets[1].Close()
	if !p0.Released() {
		t.Fatal("params not released with the last detector")
	}
	if n := srv.Outstanding(); n != baseline {
		t.Fatalf("outstanding = %v, want baseline %d", srv.Objects().Counts(), baseline)
	}
	srv.Lock(func(s *mock.State) {
		if s.STEMParams.DwellTime != 2e-6 {
			t.Errorf("DwellTime = %v", s.STEMParams.DwellTime)
		}
	})
}

func TestDetectors_FailureLeaksNothing(t *testing.T) {
	srv, _, inst := open(t)
	acq := acquisition(t, inst)
	baseline := srv.Outstanding()

	srv.FailAfter("STEMDetectors.GetItem", 1, scripting.E_NOT_OK)
	dets, err := acq.Detectors()
	if err == nil || dets != nil {
		t.Fatalf("Detectors() = %v, %v", dets, err)
	}
	if n := srv.Outstanding(); n != baseline {
		t.Fatalf("outstanding = %v, want baseline %d", srv.Objects().Counts(), baseline)
	}

	srv.FailNext("STEMDetectors.GetAcqParams", scripting.E_NOT_OK)
	if _, err := acq.Detectors(); err == nil {
		t.Fatal("expected AcqParams failure")
	}
	if n := srv.Outstanding(); n != baseline {
		t.Fatalf("outstanding = %v, want baseline %d", srv.Objects().Counts(), baseline)
	}
}

func TestAcquisition_AddAcqDeviceChecksKind(t *testing.T) {
	srv, _, inst := open(t)
	acq := acquisition(t, inst)

	stage, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	defer stage.Close()

	srv.ResetCalls()
	devices := []temscript.Wrapper{
		stage,
		nil,
		(*temscript.CCDCamera)(nil),
		(*temscript.STEMDetector)(nil),
		(*temscript.Stage)(nil),
	}
	for _, dev := range devices {
		wantKind(t, acq.AddAcqDevice(dev), errors.KindTypeMismatch)
		wantKind(t, acq.RemoveAcqDevice(dev), errors.KindTypeMismatch)
	}
	err = acq.AddAcqDevice((*temscript.CCDCamera)(nil))
	if !strings.Contains(err.Error(), "nil *temscript.CCDCamera") {
		t.Fatalf("typed nil camera error = %v", err)
	}
	if calls := srv.Calls("Acquisition."); len(calls) != 0 {
		t.Fatalf("mismatched devices reached the server: %v", calls)
	}

	if _, ok := temscript.AsCCDCamera(stage); ok {
		t.Fatal("AsCCDCamera accepted a stage")
	}
}

func TestAcquisition_NilParams(t *testing.T) {
	srv, _, inst := open(t)
	acq := acquisition(t, inst)

	cams, err := acq.Cameras()
	if err != nil {
		t.Fatal(err)
	}
	defer cams[0].Close()

	srv.ResetCalls()
	wantKind(t, acq.SetStemAcqParams(nil), errors.KindTypeMismatch)
	wantKind(t, cams[0].SetAcqParams(nil), errors.KindTypeMismatch)
	if calls := srv.Calls(""); len(calls) != 0 {
		t.Fatalf("nil parameters reached the server: %v", calls)
	}
}

func TestAcquisition_ReleasedDevice(t *testing.T) {
	_, _, inst := open(t)
	acq := acquisition(t, inst)

	cams, err := acq.Cameras()
	if err != nil {
		t.Fatal(err)
	}
	cams[0].Close()
	wantKind(t, acq.AddAcqDevice(cams[0]), errors.KindReleased)
}

func TestAcquisition_AcquireImages(t *testing.T) {
	srv, _, inst := open(t)
	acq := acquisition(t, inst)

	cams, err := acq.Cameras()
	if err != nil {
		t.Fatal(err)
	}
	defer cams[0].Close()
	if _, ok := temscript.AsCCDCamera(cams[0]); !ok {
		t.Fatal("AsCCDCamera rejected a camera")
	}

	params, err := cams[0].AcqParams()
	if err != nil {
		t.Fatal(err)
	}
	defer params.Close()
	if err := params.SetBinning(2); err != nil {
		t.Fatal(err)
	}
	if err := cams[0].SetAcqParams(params); err != nil {
		t.Fatal(err)
	}

	if err := acq.RemoveAllAcqDevices(); err != nil {
		t.Fatal(err)
	}
	if err := acq.AddAcqDevice(cams[0]); err != nil {
		t.Fatal(err)
	}
	if err := acq.AddAcqDeviceByName("HAADF"); err != nil {
		t.Fatal(err)
	}

	images, err := acq.AcquireImages()
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 2 {
		t.Fatalf("len(AcquireImages()) = %d", len(images))
	}
	defer func() {
		for _, img := range images {
			img.Close()
		}
	}()

	tests := []struct {
		name          string
		width, height int32
	}{
		{"BM-Ceta", 512, 512},
		{"HAADF", 1024, 1024},
	}
	for i, tt := range tests {
		img := images[i]
		name, err := img.Name()
		if err != nil || name != tt.name {
			t.Fatalf("image %d name = %q, %v", i, name, err)
		}
		w, _ := img.Width()
		h, _ := img.Height()
		if w != tt.width || h != tt.height {
			t.Fatalf("%s size = %dx%d", name, w, h)
		}
		arr, err := img.Array()
		if err != nil {
			t.Fatal(err)
		}
		if arr.DType != marshal.Int16 || arr.Len() != int(w*h) {
			t.Fatalf("%s array = %v %s", name, arr.DType, arr.ShapeString())
		}
	}

	if err := acq.RemoveAcqDeviceByName("HAADF"); err != nil {
		t.Fatal(err)
	}
	srv.Lock(func(s *mock.State) {
		if len(s.Selected) != 1 || s.Selected[0] != "BM-Ceta" {
			t.Errorf("selected = %v", s.Selected)
		}
	})
}

func TestCCDCameraInfo(t *testing.T) {
	_, _, inst := open(t)
	acq := acquisition(t, inst)

	cams, err := acq.Cameras()
	if err != nil {
		t.Fatal(err)
	}
	defer cams[0].Close()
	info, err := cams[0].Info()
	if err != nil {
		t.Fatal(err)
	}
	defer info.Close()

	if name, _ := info.Name(); name != "BM-Ceta" {
		t.Fatalf("Name() = %q", name)
	}
	bins, err := info.Binnings()
	if err != nil || len(bins) != 3 || bins[2] != 4 {
		t.Fatalf("Binnings() = %v, %v", bins, err)
	}
	modes, err := info.ShutterModes()
	if err != nil || len(modes) != 2 || modes[0] != scripting.AcqShutterModePreSpecimen || modes[1] != scripting.AcqShutterModePostSpecimen {
		t.Fatalf("ShutterModes() = %v, %v", modes, err)
	}
	px, err := info.PixelSize()
	if err != nil || px.X != 14e-6 {
		t.Fatalf("PixelSize() = %v, %v", px, err)
	}
	wantKind(t, info.Set("Width", 10), errors.KindReadOnly)
}

func TestVacuum_Gauges(t *testing.T) {
	srv, _, inst := open(t)
	vac, err := inst.Vacuum()
	if err != nil {
		t.Fatal(err)
	}
	defer vac.Close()

	gauges, err := vac.Gauges()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"P1", "P2", "IGP1"}
	if len(gauges) != len(want) {
		t.Fatalf("len(Gauges()) = %d", len(gauges))
	}
	for i, g := range gauges {
		if name, _ := g.Name(); name != want[i] {
			t.Errorf("gauge %d = %q, want %q", i, name, want[i])
		}
	}
	if err := gauges[0].Read(); err != nil {
		t.Fatal(err)
	}
	if st, _ := gauges[1].Status(); st != scripting.GaugeStatusUnderflow {
		t.Fatalf("P2 status = %v", st)
	}
	for _, g := range gauges {
		g.Close()
	}
	srv.Lock(func(s *mock.State) {
		if s.Vacuum.Gauges[0].Reads != 1 {
			t.Errorf("P1 reads = %d", s.Vacuum.Gauges[0].Reads)
		}
	})
	if n := srv.OutstandingKind("Gauge"); n != 0 {
		t.Fatalf("outstanding gauges = %d", n)
	}
}

func TestProjection_Vectors(t *testing.T) {
	srv, _, inst := open(t)
	proj, err := inst.Projection()
	if err != nil {
		t.Fatal(err)
	}
	defer proj.Close()

	if err := proj.SetImageShift([]float64{1.5, -2.25}); err != nil {
		t.Fatal(err)
	}
	got, err := proj.ImageShift()
	if err != nil || got != (temscript.Vec2{X: 1.5, Y: -2.25}) {
		t.Fatalf("ImageShift() = %v, %v", got, err)
	}

	srv.ResetCalls()
	wantKind(t, proj.SetImageShift([]float64{1, 2, 3}), errors.KindInvalidInput)
	if calls := srv.Calls("Projection."); len(calls) != 0 {
		t.Fatalf("invalid vector reached the server: %v", calls)
	}
	if got, _ := proj.ImageShift(); got != (temscript.Vec2{X: 1.5, Y: -2.25}) {
		t.Fatalf("ImageShift() changed to %v", got)
	}
	if n := srv.OutstandingKind("Vector"); n != 0 {
		t.Fatalf("leaked %d vectors", n)
	}
}

func TestProjection_Methods(t *testing.T) {
	srv, _, inst := open(t)
	proj, err := inst.Projection()
	if err != nil {
		t.Fatal(err)
	}
	defer proj.Close()

	before, _ := proj.ProjectionIndex()
	if err := proj.ChangeProjectionIndex(2); err != nil {
		t.Fatal(err)
	}
	if after, _ := proj.ProjectionIndex(); after != before+2 {
		t.Fatalf("ProjectionIndex() = %d, want %d", after, before+2)
	}
	if err := proj.ChangeProjectionIndex(100); err == nil {
		t.Fatal("expected out of range error")
	}

	if err := proj.SetDefocus(1e-6); err != nil {
		t.Fatal(err)
	}
	if err := proj.ResetDefocus(); err != nil {
		t.Fatal(err)
	}
	if d, _ := proj.Defocus(); d != 0 {
		t.Fatalf("Defocus() after reset = %v", d)
	}
	if err := proj.Normalize(int32(scripting.ProjectionNormalizationAll)); err != nil {
		t.Fatal(err)
	}

	ill, err := inst.Illumination()
	if err != nil {
		t.Fatal(err)
	}
	defer ill.Close()
	if err := ill.SetSpotsizeIndex(12); err == nil {
		t.Fatal("expected spot size range error")
	}
	err = ill.Normalize(99)
	if _, ok := errors.StatusOf(err); !ok {
		t.Fatalf("invalid normalization error = %v", err)
	}
	if calls := srv.Calls("Illumination.Normalize"); len(calls) != 1 {
		t.Fatalf("calls = %v", calls)
	}
}
