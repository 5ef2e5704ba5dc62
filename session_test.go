package temscript_test

import (
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/mock"
	"github.com/wippyai/temscript/scripting"
)

// open registers a fresh mock server and returns an instrument bound to a new
// session. Everything is torn down when the test ends.
func open(t *testing.T) (*mock.Server, *temscript.Session, *temscript.Instrument) {
	t.Helper()
	srv := mock.NewServer()
	revoke, err := srv.Register()
	if err != nil {
		t.Fatalf("Register() = %v", err)
	}
	sess, err := temscript.Open()
	if err != nil {
		revoke()
		t.Fatalf("Open() = %v", err)
	}
	inst, err := sess.GetInstrument()
	if err != nil {
		sess.Close()
		revoke()
		t.Fatalf("GetInstrument() = %v", err)
	}
	t.Cleanup(func() {
		if err := sess.Close(); err != nil {
			t.Errorf("Session.Close() = %v", err)
		}
		if err := revoke(); err != nil {
			t.Errorf("revoke() = %v", err)
		}
		if n := srv.Outstanding(); n != 0 {
			t.Errorf("outstanding objects after teardown: %v", srv.Objects().Counts())
		}
	})
	return srv, sess, inst
}

func wantKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if k, ok := errors.KindOf(err); !ok || k != kind {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

func TestSession_EndToEnd(t *testing.T) {
	_, _, inst := open(t)

	cfg, err := inst.Configuration()
	if err != nil {
		t.Fatal(err)
	}
	defer cfg.Close()
	if fam, err := cfg.ProductFamily(); err != nil || fam != scripting.ProductFamilyTitan {
		t.Fatalf("ProductFamily() = %v, %v", fam, err)
	}

	gun, err := inst.Gun()
	if err != nil {
		t.Fatal(err)
	}
	defer gun.Close()
	if v, err := gun.HTValue(); err != nil || v != 200000 {
		t.Fatalf("HTValue() = %v, %v", v, err)
	}
	if err := gun.SetHTValue(120000); err != nil {
		t.Fatal(err)
	}
	if v, _ := gun.HTValue(); v != 120000 {
		t.Fatalf("HTValue() after set = %v", v)
	}
	err = gun.SetHTValue(1e9)
	if hr, ok := errors.StatusOf(err); !ok || hr != scripting.E_OUT_OF_RANGE {
		t.Fatalf("out of range HTValue error = %v", err)
	}
}

func TestSession_AcquiresEachSubsystemFresh(t *testing.T) {
	srv, sess, inst := open(t)

	a, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	b, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("Stage() must return a fresh wrapper")
	}
	if n := sess.Live()[temscript.KindStage]; n != 2 {
		t.Fatalf("live stages = %d", n)
	}
	a.Close()
	b.Close()
	if n := srv.OutstandingKind("Stage"); n != 0 {
		t.Fatalf("outstanding stages = %d", n)
	}
	if n := sess.Live()[temscript.KindStage]; n != 0 {
		t.Fatalf("live stages after close = %d", n)
	}
}

func TestSession_CloseReleasesLiveWrappers(t *testing.T) {
	srv := mock.NewServer()
	revoke, err := srv.Register()
	if err != nil {
		t.Fatal(err)
	}
	defer revoke()
	factories := srv.Outstanding()

	sess, err := temscript.Open()
	if err != nil {
		t.Fatal(err)
	}
	inst, err := sess.GetInstrument()
	if err != nil {
		t.Fatal(err)
	}
	stage, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	acq, err := inst.Acquisition()
	if err != nil {
		t.Fatal(err)
	}
	dets, err := acq.Detectors()
	if err != nil {
		t.Fatal(err)
	}
	if sess.LiveCount() < 5 {
		t.Fatalf("LiveCount() = %d", sess.LiveCount())
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	for _, w := range []temscript.Wrapper{inst, stage, acq, dets[0], dets[1]} {
		if !w.Released() {
			t.Errorf("%s not released by Session.Close", w.Kind())
		}
	}
	if n := srv.Outstanding(); n != factories {
		t.Fatalf("outstanding after Close = %v", srv.Objects().Counts())
	}

	_, err = stage.Status()
	wantKind(t, err, errors.KindReleased)

	_, err = sess.GetInstrument()
	if err == nil {
		t.Fatal("GetInstrument on a closed session must fail")
	}
	if n := srv.Outstanding(); n != factories {
		t.Fatalf("failed activation leaked: %v", srv.Objects().Counts())
	}
}

func TestWrapper_RetainClose(t *testing.T) {
	srv, _, inst := open(t)

	vac, err := inst.Vacuum()
	if err != nil {
		t.Fatal(err)
	}
	vac.Retain()
	vac.Close()
	if vac.Released() {
		t.Fatal("wrapper released while a reference remains")
	}
	if _, err := vac.Status(); err != nil {
		t.Fatal(err)
	}
	vac.Close()
	if !vac.Released() {
		t.Fatal("wrapper not released after last Close")
	}
	if err := vac.Close(); err != nil {
		t.Fatalf("Close on released wrapper = %v", err)
	}
	vac.Retain()
	if !vac.Released() {
		t.Fatal("Retain must not revive a released wrapper")
	}
	if n := srv.OutstandingKind("Vacuum"); n != 0 {
		t.Fatalf("outstanding vacuum objects = %d", n)
	}
	_, err = vac.ColumnValvesOpen()
	wantKind(t, err, errors.KindReleased)
	wantKind(t, vac.RunBufferCycle(), errors.KindReleased)
}

func TestWrapper_CollectedByGC(t *testing.T) {
	srv, _, inst := open(t)

	func() {
		st, err := inst.Stage()
		if err != nil {
			t.Fatal(err)
		}
		_ = st
	}()

	deadline := time.Now().Add(5 * time.Second)
	for srv.OutstandingKind("Stage") > 0 && time.Now().Before(deadline) {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	if n := srv.OutstandingKind("Stage"); n != 0 {
		t.Fatalf("unreachable stage wrapper not released, outstanding %d", n)
	}
}

func TestWeak(t *testing.T) {
	_, _, inst := open(t)

	st, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	w := temscript.MakeWeak(st)
	if w.Value() != st {
		t.Fatal("weak reference lost a live wrapper")
	}
	st.Close()
	if w.Value() != nil {
		t.Fatal("weak reference must report nil after release")
	}
}

func TestWrapper_DynamicProperties(t *testing.T) {
	srv, _, inst := open(t)

	gun, err := inst.Gun()
	if err != nil {
		t.Fatal(err)
	}
	defer gun.Close()

	props := gun.Properties()
	if !slices.IsSorted(props) || !slices.Contains(props, "HTValue") {
		t.Fatalf("Properties() = %v", props)
	}

	v, err := gun.Get("HTValue")
	if err != nil || v != 200000.0 {
		t.Fatalf("Get(HTValue) = %v, %v", v, err)
	}
	st, err := gun.Get("HTState")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(int32); !ok {
		t.Fatalf("enum property returned %T, want int32", st)
	}

	if err := gun.Set("HTValue", 150000); err != nil {
		t.Fatal(err)
	}
	srv.Lock(func(s *mock.State) {
		if s.Gun.HTValue != 150000 {
			t.Errorf("state HTValue = %v", s.Gun.HTValue)
		}
	})

	tests := []struct {
		name  string
		prop  string
		value any
		kind  errors.Kind
	}{
		{"read only", "HTMaxValue", 1.0, errors.KindReadOnly},
		{"unknown", "Voltage", 1.0, errors.KindNotFound},
		{"not a number", "HTValue", "high", errors.KindInvalidInput},
		{"short vector", "Shift", []float64{1}, errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantKind(t, gun.Set(tt.prop, tt.value), tt.kind)
		})
	}

	if err := gun.Set("Shift", []float64{0.25, -0.5}); err != nil {
		t.Fatal(err)
	}
	got, err := gun.Get("Shift")
	if err != nil || got != (temscript.Vec2{X: 0.25, Y: -0.5}) {
		t.Fatalf("Get(Shift) = %v, %v", got, err)
	}
}

func TestInstrument_NormalizeAll(t *testing.T) {
	srv, _, inst := open(t)

	if err := inst.NormalizeAll(); err != nil {
		t.Fatal(err)
	}
	if err := inst.SetAutoNormalizeEnabled(false); err != nil {
		t.Fatal(err)
	}
	if on, err := inst.AutoNormalizeEnabled(); err != nil || on {
		t.Fatalf("AutoNormalizeEnabled() = %v, %v", on, err)
	}
	srv.Lock(func(s *mock.State) {
		if s.Normalizations != 1 {
			t.Errorf("Normalizations = %d", s.Normalizations)
		}
	})
}

func TestInstrument_NativeFailure(t *testing.T) {
	srv, _, inst := open(t)

	srv.FailNext("Instrument.GetStage", scripting.E_NOT_OK)
	_, err := inst.Stage()
	wantKind(t, err, errors.KindNative)
	if hr, _ := errors.StatusOf(err); hr != scripting.E_NOT_OK {
		t.Fatalf("status = %s", hr)
	}
	if got := err.Error(); got == "" {
		t.Fatal("empty error text")
	}

	st, err := inst.Stage()
	if err != nil {
		t.Fatalf("Stage() after one-shot failure = %v", err)
	}
	st.Close()
}
