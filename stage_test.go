package temscript_test

import (
	"math"
	"testing"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/mock"
	"github.com/wippyai/temscript/scripting"
)

func TestStage_GoToOnlyZ(t *testing.T) {
	srv, _, inst := open(t)
	stage, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	defer stage.Close()

	srv.Lock(func(s *mock.State) { s.Stage.Position = mock.StagePos{X: 1e-4, Y: -2e-4} })
	srv.ResetCalls()

	if err := stage.GoTo(temscript.StageTarget{Z: temscript.Float(5e-5)}); err != nil {
		t.Fatalf("GoTo() = %v", err)
	}

	calls := srv.Calls("Stage.Goto")
	if len(calls) != 1 || calls[0].Method != "Stage.Goto" {
		t.Fatalf("calls = %v", calls)
	}
	if mask := calls[0].Args[0]; mask != scripting.AxisZ {
		t.Fatalf("axis mask = %v, want z", mask)
	}
	if w := srv.Calls("StagePosition.Put"); len(w) != 1 || w[0].Method != "StagePosition.PutZ" {
		t.Fatalf("position writes = %v", w)
	}

	pos, err := stage.Position()
	if err != nil {
		t.Fatal(err)
	}
	want := temscript.Position{X: 1e-4, Y: -2e-4, Z: 5e-5}
	if pos != want {
		t.Fatalf("Position() = %+v, want %+v", pos, want)
	}
	if n := srv.OutstandingKind("StagePosition"); n != 0 {
		t.Fatalf("leaked %d stage positions", n)
	}
}

func TestStage_GoTo(t *testing.T) {
	tests := []struct {
		name   string
		target temscript.StageTarget
		move   bool
		method string
		mask   scripting.StageAxes
		speed  float64
	}{
		{"no axes", temscript.StageTarget{Speed: temscript.Float(0.5)}, false, "", 0, 0},
		{"full speed", temscript.StageTarget{X: temscript.Float(0), Y: temscript.Float(0)}, true, "Stage.Goto", scripting.AxisX | scripting.AxisY, 1},
		{"explicit full speed", temscript.StageTarget{A: temscript.Float(0.1), Speed: temscript.Float(1)}, true, "Stage.Goto", scripting.AxisA, 1},
		{"reduced speed", temscript.StageTarget{B: temscript.Float(-0.1), Speed: temscript.Float(0.25)}, true, "Stage.GotoWithSpeed", scripting.AxisB, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, inst := open(t)
			stage, err := inst.Stage()
			if err != nil {
				t.Fatal(err)
			}
			defer stage.Close()
			srv.ResetCalls()

			if err := stage.GoTo(tt.target); err != nil {
				t.Fatalf("GoTo() = %v", err)
			}
			calls := srv.Calls("Stage.")
			if !tt.move {
				if len(calls) != 0 {
					t.Fatalf("expected no native call, got %v", calls)
				}
				return
			}
			if len(calls) != 2 || calls[1].Method != tt.method {
				t.Fatalf("calls = %v, want GetPosition then %s", calls, tt.method)
			}
			if calls[1].Args[0] != tt.mask {
				t.Fatalf("mask = %v, want %v", calls[1].Args[0], tt.mask)
			}
			srv.Lock(func(s *mock.State) {
				if s.Stage.LastSpeed != tt.speed {
					t.Errorf("speed = %v, want %v", s.Stage.LastSpeed, tt.speed)
				}
			})
		})
	}
}

func TestStage_MoveToIgnoresSpeed(t *testing.T) {
	srv, _, inst := open(t)
	stage, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	defer stage.Close()
	srv.ResetCalls()

	err = stage.MoveTo(temscript.StageTarget{X: temscript.Float(2e-4), Speed: temscript.Float(0.1)})
	if err != nil {
		t.Fatal(err)
	}
	if calls := srv.Calls("Stage.MoveTo"); len(calls) != 1 || calls[0].Args[0] != scripting.AxisX {
		t.Fatalf("calls = %v", calls)
	}
	if calls := srv.Calls("Stage.GotoWithSpeed"); len(calls) != 0 {
		t.Fatalf("MoveTo used speed: %v", calls)
	}
}

func TestStage_GoToFailures(t *testing.T) {
	srv, _, inst := open(t)
	stage, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	defer stage.Close()

	err = stage.GoTo(temscript.StageTarget{Z: temscript.Float(1)})
	if hr, ok := errors.StatusOf(err); !ok || hr != scripting.E_VALUE_CLIP {
		t.Fatalf("clipped move error = %v", err)
	}

	srv.Lock(func(s *mock.State) { s.Stage.Status = scripting.StageStatusMoving })
	err = stage.GoTo(temscript.StageTarget{X: temscript.Float(0)})
	if hr, _ := errors.StatusOf(err); hr != scripting.E_NOT_OK {
		t.Fatalf("busy stage error = %v", err)
	}
	if n := srv.OutstandingKind("StagePosition"); n != 0 {
		t.Fatalf("failed moves leaked %d positions", n)
	}
}

func TestStage_AxisData(t *testing.T) {
	srv, _, inst := open(t)
	stage, err := inst.Stage()
	if err != nil {
		t.Fatal(err)
	}
	defer stage.Close()

	srv.Lock(func(s *mock.State) {
		lim := s.Stage.Limits[scripting.AxisB]
		lim.Unit = scripting.MeasurementUnitUnknown
		s.Stage.Limits[scripting.AxisB] = lim
	})

	tests := []struct {
		axis string
		unit string // empty for no unit
		max  float64
	}{
		{"x", "meters", 1e-3},
		{"z", "meters", 0.3e-3},
		{"a", "radians", math.Pi / 6},
		{"b", "", math.Pi / 6},
	}
	for _, tt := range tests {
		t.Run(tt.axis, func(t *testing.T) {
			min, max, unit, err := stage.AxisData(tt.axis)
			if err != nil {
				t.Fatal(err)
			}
			if min != -max || max != tt.max {
				t.Fatalf("limits = (%v, %v)", min, max)
			}
			switch {
			case tt.unit == "" && unit != nil:
				t.Fatalf("unit = %q, want nil", *unit)
			case tt.unit != "" && (unit == nil || *unit != tt.unit):
				t.Fatalf("unit = %v, want %q", unit, tt.unit)
			}
		})
	}

	srv.ResetCalls()
	_, _, _, err = stage.AxisData("w")
	wantKind(t, err, errors.KindInvalidInput)
	if calls := srv.Calls("Stage."); len(calls) != 0 {
		t.Fatalf("invalid axis reached the server: %v", calls)
	}
	if n := srv.OutstandingKind("StageAxisData"); n != 0 {
		t.Fatalf("leaked %d axis data objects", n)
	}
}

func TestStageTargetFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		mask scripting.StageAxes
		err  bool
	}{
		{"axes and speed", map[string]any{"x": 1e-6, "b": 0, "speed": 0.5}, scripting.AxisX | scripting.AxisB, false},
		{"empty", map[string]any{}, 0, false},
		{"unknown key", map[string]any{"q": 1.0}, 0, true},
		{"bad value", map[string]any{"z": "up"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := temscript.StageTargetFromMap(tt.in)
			if tt.err {
				wantKind(t, err, errors.KindInvalidInput)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Axes() != tt.mask {
				t.Fatalf("Axes() = %v, want %v", got.Axes(), tt.mask)
			}
		})
	}
}
