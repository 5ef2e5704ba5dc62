package server_test

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/microscope"
	"github.com/wippyai/temscript/server"
)

func TestClient_Basics(t *testing.T) {
	f := newFixture(t, server.DefaultConfig())
	ctx := context.Background()

	if fam, err := f.client.Family(ctx); err != nil || fam != "TITAN" {
		t.Fatalf("Family() = %q, %v", fam, err)
	}
	if v, err := f.client.Voltage(ctx); err != nil || v != 200 {
		t.Fatalf("Voltage() = %v, %v", v, err)
	}
	if v, err := f.client.Version(ctx); err != nil || v != microscope.Version {
		t.Fatalf("Version() = %q, %v", v, err)
	}
	vac, err := f.client.Vacuum(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if vac.Gauges["P2"] != "UNDERFLOW" {
		t.Fatalf("gauges = %v", vac.Gauges)
	}

	if err := f.client.SetImageShift(ctx, temscript.Vec2{X: 1e-6, Y: -2e-6}); err != nil {
		t.Fatal(err)
	}
	shift, err := f.client.ImageShift(ctx)
	if err != nil || shift != (temscript.Vec2{X: 1e-6, Y: -2e-6}) {
		t.Fatalf("ImageShift() = %v, %v", shift, err)
	}

	if err := f.client.SetProjectionMode(ctx, "DIFFRACTION"); err != nil {
		t.Fatal(err)
	}
	if mode, err := f.client.ProjectionMode(ctx); err != nil || mode != "DIFFRACTION" {
		t.Fatalf("ProjectionMode() = %q, %v", mode, err)
	}
	if err := f.client.Normalize(ctx, "ALL"); err != nil {
		t.Fatal(err)
	}
	if calls := f.mock.Calls("Instrument.NormalizeAll"); len(calls) != 1 {
		t.Fatalf("NormalizeAll calls = %v", calls)
	}

	state, err := f.client.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state["projection_mode"] != "DIFFRACTION" || state["family"] != "TITAN" {
		t.Fatalf("state = %v", state)
	}
}

func TestClient_StagePosition(t *testing.T) {
	tests := []struct {
		name   string
		method string
		speed  float64
		call   string
	}{
		{"go", "", 0, "Stage.Goto"},
		{"go with speed", microscope.MoveGo, 0.5, "Stage.GotoWithSpeed"},
		{"move", microscope.MoveMove, 0, "Stage.MoveTo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, server.DefaultConfig())
			ctx := context.Background()

			err := f.client.SetStagePosition(ctx, map[string]float64{"x": 2e-6, "y": -1e-6}, tt.method, tt.speed)
			if err != nil {
				t.Fatal(err)
			}
			if calls := f.mock.Calls(tt.call); len(calls) != 1 {
				t.Fatalf("%s calls = %v", tt.call, calls)
			}
			pos, err := f.client.StagePosition(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(pos.X-2e-6) > 1e-12 || math.Abs(pos.Y+1e-6) > 1e-12 {
				t.Fatalf("position = %+v", pos)
			}
		})
	}

	f := newFixture(t, server.DefaultConfig())
	err := f.client.SetStagePosition(context.Background(), map[string]float64{"x": 0}, "JUMP", 0)
	if k, ok := errors.KindOf(err); !ok || k != errors.KindInvalidInput {
		t.Fatalf("unknown method error = %v", err)
	}
}

func TestClient_CameraParam(t *testing.T) {
	f := newFixture(t, server.DefaultConfig())
	ctx := context.Background()

	cams, err := f.client.Cameras(ctx)
	if err != nil {
		t.Fatal(err)
	}
	info, ok := cams["BM-Ceta"]
	if !ok || info.Width != 1024 || len(info.Binnings) != 3 {
		t.Fatalf("cameras = %+v", cams)
	}

	rest, err := f.client.SetCameraParam(ctx, "BM-Ceta", microscope.Params{"binning": 2, "foo": "bar"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest["foo"] != "bar" {
		t.Fatalf("rest = %v", rest)
	}
	p, err := f.client.CameraParam(ctx, "BM-Ceta")
	if err != nil {
		t.Fatal(err)
	}
	if p["binning"] != float64(2) {
		t.Fatalf("binning = %v", p["binning"])
	}

	_, err = f.client.SetCameraParam(ctx, "BM-Ceta", microscope.Params{"binning": "two"}, true)
	if err != nil {
		t.Fatalf("ignored invalid binning: %v", err)
	}
	_, err = f.client.SetCameraParam(ctx, "BM-Ceta", microscope.Params{"binning": "two"}, false)
	if k, ok := errors.KindOf(err); !ok || k != errors.KindInvalidInput {
		t.Fatalf("invalid binning error = %v", err)
	}

	_, err = f.client.CameraParam(ctx, "Orius")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("CameraParam(Orius) = %v", err)
	}
}

func TestClient_NativeError(t *testing.T) {
	f := newFixture(t, server.DefaultConfig())
	f.mock.FailNext("Projection.GetFocus", com.E_FAIL)

	_, err := f.client.Defocus(context.Background())
	if k, ok := errors.KindOf(err); !ok || k != errors.KindNative {
		t.Fatalf("Defocus() = %v", err)
	}
	if hr, ok := errors.StatusOf(err); !ok || hr != com.E_FAIL {
		t.Fatalf("status = %v, %v", hr, ok)
	}
}

func TestClient_ErrorTextVerbatim(t *testing.T) {
	f := newFixture(t, server.DefaultConfig())

	_, err := f.client.CameraParam(context.Background(), "100%25")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("CameraParam(100%%) = %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "100%25") || strings.Contains(msg, "%!") {
		t.Fatalf("error text = %q", msg)
	}
}

func TestClient_Acquire(t *testing.T) {
	f := newFixture(t, server.DefaultConfig())
	ctx := context.Background()

	packed, err := f.client.Acquire(ctx, "BM-Ceta", "Nothing")
	if err != nil {
		t.Fatal(err)
	}
	arrowClient, err := server.NewClient(f.http.URL, server.WithArrow())
	if err != nil {
		t.Fatal(err)
	}
	streamed, err := arrowClient.Acquire(ctx, "BM-Ceta")
	if err != nil {
		t.Fatal(err)
	}

	for name, got := range map[string]map[string]*marshal.Array{"json": packed, "arrow": streamed} {
		if len(got) != 1 || got["BM-Ceta"] == nil {
			t.Fatalf("%s images = %v", name, got)
		}
		img := got["BM-Ceta"]
		if img.DType != marshal.Int16 || img.ShapeString() != "1024,1024" {
			t.Fatalf("%s image = %v %s", name, img.DType, img.ShapeString())
		}
	}

	a, _ := marshal.Values[int16](packed["BM-Ceta"])
	b, _ := marshal.Values[int16](streamed["BM-Ceta"])
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pixel %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestPackArray(t *testing.T) {
	a := marshal.NewArray(marshal.Uint16, 2, 3)
	vals, _ := marshal.Values[uint16](a)
	for i := range vals {
		vals[i] = uint16(0x0102 * (i + 1))
	}

	p, err := server.PackArray(a)
	if err != nil {
		t.Fatal(err)
	}
	if p.Width != 3 || p.Height != 2 || p.Type != "UINT16" || p.Endianness != "LITTLE" || p.Encoding != "BASE64" {
		t.Fatalf("packed = %+v", p)
	}
	back, err := server.UnpackArray(p)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := marshal.Values[uint16](back)
	for i := range vals {
		if got[i] != vals[i] {
			t.Fatalf("value %d = %#x, want %#x", i, got[i], vals[i])
		}
	}

	big, _ := binary.Append(nil, binary.BigEndian, vals)
	p.Endianness = server.EndianBig
	p.Data = base64.StdEncoding.EncodeToString(big)
	back, err = server.UnpackArray(p)
	if err != nil {
		t.Fatal(err)
	}
	got, _ = marshal.Values[uint16](back)
	if got[5] != vals[5] {
		t.Fatalf("big endian value = %#x, want %#x", got[5], vals[5])
	}

	bad := []server.PackedArray{
		{Width: 1, Height: 1, Type: "COMPLEX", Endianness: "LITTLE", Encoding: "BASE64"},
		{Width: 1, Height: 1, Type: "INT8", Endianness: "MIDDLE", Encoding: "BASE64"},
		{Width: 1, Height: 1, Type: "INT8", Endianness: "LITTLE", Encoding: "HEX"},
		{Width: 2, Height: 1, Type: "INT8", Endianness: "LITTLE", Encoding: "BASE64", Data: "AA=="},
		{Width: -2, Height: -1, Type: "INT8", Endianness: "LITTLE", Encoding: "BASE64", Data: "AAA="},
		{Width: math.MaxInt, Height: 2, Type: "INT8", Endianness: "LITTLE", Encoding: "BASE64", Data: "AA=="},
		{Width: 1 << 30, Height: 1 << 30, Type: "INT8", Endianness: "LITTLE", Encoding: "BASE64", Data: "AA=="},
		{Width: math.MaxInt/2 + 1, Height: 1, Type: "UINT16", Endianness: "LITTLE", Encoding: "BASE64", Data: "AA=="},
	}
	for _, p := range bad {
		if _, err := server.UnpackArray(p); err == nil {
			t.Errorf("UnpackArray(%+v) succeeded", p)
		}
	}

	if _, err := server.PackArray(marshal.NewArray(marshal.Int8, 4)); err == nil {
		t.Fatal("packed a one dimensional array")
	}
}
