package mock

import (
	"testing"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

func TestMockObject_Contract(t *testing.T) {
	srv := NewServer()
	revoke, err := srv.Register()
	if err != nil {
		t.Fatalf("Register() = %v", err)
	}
	com.Initialize()
	defer com.Uninitialize()

	u, hr := com.CreateInstance(CLSIDTemscriptMockObject, IIDTemscriptMockObject)
	if hr.Failed() {
		t.Fatalf("CreateInstance = %s", hr)
	}
	obj := u.(TemscriptMockObject)

	if v, hr := obj.GetValue(); hr.Failed() || v != 0 {
		t.Fatalf("GetValue() = %d, %s", v, hr)
	}
	if hr := obj.PutValue(42); hr.Failed() {
		t.Fatalf("PutValue = %s", hr)
	}
	if v, _ := obj.GetValue(); v != 42 {
		t.Fatalf("GetValue() after put = %d", v)
	}

	ch, hr := obj.GetChild()
	if hr.Failed() || ch == nil {
		t.Fatalf("GetChild() = %v, %s", ch, hr)
	}
	if v, _ := ch.GetValue(); v != 999 {
		t.Fatalf("child value = %d", v)
	}
	grand, hr := ch.GetChild()
	if hr != com.S_OK || grand != nil {
		t.Fatalf("child GetChild() = %v, %s", grand, hr)
	}

	if srv.CanUnloadNow() != com.S_FALSE {
		t.Fatal("CanUnloadNow should refuse while objects are alive")
	}
	obj.Release()
	if srv.OutstandingKind("ChildMockObject") != 1 {
		t.Fatal("child must outlive its parent while referenced")
	}
	ch.Release()

	if err := revoke(); err != nil {
		t.Fatalf("revoke() = %v", err)
	}
	if n := srv.Outstanding(); n != 0 {
		t.Fatalf("Outstanding() = %d, counts %v", n, srv.Objects().Counts())
	}
	if srv.CanUnloadNow() != com.S_OK {
		t.Fatal("CanUnloadNow should allow unloading")
	}
}

func TestClassFactory_LockServer(t *testing.T) {
	srv := NewServer()
	f := newClassFactory(srv, func() com.Unknown { return newMockObject(srv) })

	f.LockServer(true)
	f.Release()
	if srv.CanUnloadNow() != com.S_FALSE {
		t.Fatal("locked server must not unload")
	}
	f = newClassFactory(srv, func() com.Unknown { return newMockObject(srv) })
	f.LockServer(false)
	f.Release()
	if srv.CanUnloadNow() != com.S_OK {
		t.Fatalf("CanUnloadNow after unlock, outstanding %d", srv.Outstanding())
	}
}

func TestClassFactory_CreateInstance(t *testing.T) {
	srv := NewServer()
	f := newClassFactory(srv, func() com.Unknown { return newMockObject(srv) })
	defer f.Release()

	if _, hr := f.CreateInstance(f, IIDTemscriptMockObject); hr != com.CLASS_E_NOAGGREGATION {
		t.Fatalf("aggregation hr = %s", hr)
	}
	if _, hr := f.CreateInstance(nil, scripting.IIDStage); hr != com.E_NOINTERFACE {
		t.Fatalf("wrong iid hr = %s", hr)
	}
	if n := srv.OutstandingKind("TemscriptMockObject"); n != 0 {
		t.Fatalf("failed activation left %d objects", n)
	}
}

func TestFailureInjection(t *testing.T) {
	srv := NewServer()
	instr := srv.NewInstrument()
	defer instr.Release()

	srv.FailAfter("Instrument.GetStage", 1, com.E_FAIL)
	s1, hr := instr.GetStage()
	if hr.Failed() {
		t.Fatalf("first GetStage = %s", hr)
	}
	s1.Release()
	if _, hr := instr.GetStage(); hr != com.E_FAIL {
		t.Fatalf("second GetStage = %s, want E_FAIL", hr)
	}
	s3, hr := instr.GetStage()
	if hr.Failed() {
		t.Fatalf("rule should be spent, got %s", hr)
	}
	s3.Release()

	srv.Fail("Instrument.NormalizeAll", scripting.E_NOT_OK)
	for i := 0; i < 3; i++ {
		if hr := instr.NormalizeAll(); hr != scripting.E_NOT_OK {
			t.Fatalf("NormalizeAll #%d = %s", i, hr)
		}
	}
	srv.Clear("")
	if hr := instr.NormalizeAll(); hr.Failed() {
		t.Fatalf("NormalizeAll after Clear = %s", hr)
	}

	if calls := srv.Calls("Instrument.GetStage"); len(calls) != 3 {
		t.Fatalf("recorded %d GetStage calls", len(calls))
	}
}

func TestStage_GotoMasksAxes(t *testing.T) {
	srv := NewServer()
	stage := newStage(srv)
	defer stage.Release()

	pos := newStagePosition(srv, StagePos{X: 5e-4, Z: 1e-4})
	defer pos.Release()

	tests := []struct {
		name string
		axes scripting.StageAxes
		want StagePos
	}{
		{"z only", scripting.AxisZ, StagePos{Z: 1e-4}},
		{"x and z", scripting.AxisX | scripting.AxisZ, StagePos{X: 5e-4, Z: 1e-4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.Lock(func(st *State) { st.Stage.Position = StagePos{} })
			if hr := stage.Goto(pos, tt.axes); hr.Failed() {
				t.Fatalf("Goto = %s", hr)
			}
			srv.Lock(func(st *State) {
				if st.Stage.Position != tt.want {
					t.Errorf("position = %+v, want %+v", st.Stage.Position, tt.want)
				}
			})
		})
	}
}

func TestStage_GotoClipsToLimits(t *testing.T) {
	srv := NewServer()
	stage := newStage(srv)
	defer stage.Release()
	pos := newStagePosition(srv, StagePos{X: 1})
	defer pos.Release()

	if hr := stage.GotoWithSpeed(pos, scripting.AxisX, 0.5); hr != scripting.E_VALUE_CLIP {
		t.Fatalf("GotoWithSpeed = %s, want E_VALUE_CLIP", hr)
	}
	srv.Lock(func(st *State) {
		if st.Stage.Position.X != 1e-3 || st.Stage.LastSpeed != 0.5 {
			t.Errorf("stage state = %+v", st.Stage)
		}
	})
}

func TestCollection_ItemsOwnReferences(t *testing.T) {
	srv := NewServer()
	vac := newVacuum(srv)
	defer vac.Release()
	base := srv.Outstanding()

	gauges, hr := vac.GetGauges()
	if hr.Failed() {
		t.Fatalf("GetGauges = %s", hr)
	}
	if n, _ := gauges.GetCount(); n != 3 {
		t.Fatalf("GetCount() = %d", n)
	}
	g, hr := gauges.GetItem(com.NewVariantI4(2))
	if hr.Failed() {
		t.Fatalf("GetItem(2) = %s", hr)
	}
	if _, hr := gauges.GetItem(com.NewVariantI4(3)); hr != com.DISP_E_BADINDEX {
		t.Fatalf("GetItem(3) = %s", hr)
	}
	if _, hr := gauges.GetItem(com.Variant{VT: com.VT_R8}); hr != com.DISP_E_TYPEMISMATCH {
		t.Fatalf("GetItem(VT_R8) = %s", hr)
	}

	gauges.Release()
	name, _ := g.GetName()
	defer com.SysFreeString(name)
	if name.String() != "IGP1" {
		t.Fatalf("gauge name = %q", name.String())
	}
	g.Release()

	if n := srv.Outstanding(); n != base {
		t.Fatalf("Outstanding() = %d, want %d", n, base)
	}
}

func TestAcquisition_Devices(t *testing.T) {
	srv := NewServer()
	acq := newAcquisition(srv)
	defer acq.Release()
	other := NewServer()
	foreign := newCCDCamera(other, other.State.Cameras[0])
	defer foreign.Release()

	if hr := acq.AddAcqDevice(foreign); hr != com.E_INVALIDARG {
		t.Fatalf("foreign device hr = %s", hr)
	}
	if hr := acq.AddAcqDevice(newVector(srv, XY{})); hr != com.E_INVALIDARG {
		t.Fatalf("vector device hr = %s", hr)
	}

	name := com.SysAllocString("HAADF")
	defer com.SysFreeString(name)
	if hr := acq.AddAcqDeviceByName(name); hr.Failed() {
		t.Fatalf("AddAcqDeviceByName = %s", hr)
	}
	srv.Lock(func(st *State) { st.STEMParams.Binning = 4 })

	images, hr := acq.AcquireImages()
	if hr.Failed() {
		t.Fatalf("AcquireImages = %s", hr)
	}
	defer images.Release()
	if n, _ := images.GetCount(); n != 1 {
		t.Fatalf("image count = %d", n)
	}
	img, _ := images.GetItem(com.NewVariantI4(0))
	defer img.Release()
	if w, _ := img.GetWidth(); w != 256 {
		t.Fatalf("width = %d", w)
	}
	sa, hr := img.GetAsSafeArray()
	if hr.Failed() {
		t.Fatalf("GetAsSafeArray = %s", hr)
	}
	if vt, _ := sa.GetVartype(); vt != com.VT_I2 || sa.GetDim() != 2 {
		t.Fatalf("array vt=%s dims=%d", vt, sa.GetDim())
	}
	sa.Destroy()

	if hr := acq.RemoveAcqDeviceByName(name); hr.Failed() {
		t.Fatalf("RemoveAcqDeviceByName = %s", hr)
	}
	if hr := acq.RemoveAcqDeviceByName(name); hr != com.E_INVALIDARG {
		t.Fatalf("second remove = %s", hr)
	}
}

func TestReleasedObjectPanics(t *testing.T) {
	srv := NewServer()
	g := newGun(srv)
	g.Release()
	defer func() {
		if recover() == nil {
			t.Fatal("call on released object should panic")
		}
	}()
	g.GetHTValue()
}

// Single element SAFEARRAYs are rejected by the marshaller, so every array
// of the default instrument must have at least two elements.
func TestDefaultArraysReadable(t *testing.T) {
	srv := NewServer()
	base := srv.Outstanding()

	for _, cam := range srv.State.Cameras {
		info := newCCDCameraInfo(srv, cam)
		for name, get := range map[string]func() (com.SafeArray, com.HRESULT){
			"Binnings":     info.GetBinnings,
			"ShutterModes": info.GetShutterModes,
		} {
			a, err := marshal.GetArray(get)
			if err != nil {
				t.Fatalf("%s %s: %v", cam.Name, name, err)
			}
			if a.Len() < 2 {
				t.Fatalf("%s %s has %d elements", cam.Name, name, a.Len())
			}
		}
		info.Release()
	}
	for _, det := range srv.State.Detectors {
		info := newSTEMDetectorInfo(srv, det)
		if _, err := marshal.GetArray(info.GetBinnings); err != nil {
			t.Fatalf("%s Binnings: %v", det.Name, err)
		}
		info.Release()
	}

	if n := srv.Outstanding(); n != base {
		t.Fatalf("Outstanding() = %d, want %d", n, base)
	}
}
