package marshal_test

import (
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/mock"
	"github.com/wippyai/temscript/scripting"
)

func TestArrayFromSafeArray_Bounds(t *testing.T) {
	tests := []struct {
		vt    com.VarType
		dtype marshal.DType
	}{
		{com.VT_I1, marshal.Int8},
		{com.VT_I2, marshal.Int16},
		{com.VT_I4, marshal.Int32},
		{com.VT_UI1, marshal.Uint8},
		{com.VT_UI2, marshal.Uint16},
		{com.VT_UI4, marshal.Uint32},
		{com.VT_R4, marshal.Float32},
		{com.VT_R8, marshal.Float64},
		{com.VT_INT, marshal.Int32},
		{com.VT_UINT, marshal.Uint32},
	}
	for _, tt := range tests {
		t.Run(tt.vt.String(), func(t *testing.T) {
			data := make([]byte, 4*tt.vt.Size())
			for i := range data {
				data[i] = byte(i + 1)
			}
			sa := com.NewSafeArray(tt.vt, data, com.Bound{Lower: 2, Upper: 5})
			defer sa.Destroy()

			arr, err := marshal.ArrayFromSafeArray(sa)
			if err != nil {
				t.Fatalf("ArrayFromSafeArray() = %v", err)
			}
			if arr.DType != tt.dtype {
				t.Errorf("DType = %v, want %v", arr.DType, tt.dtype)
			}
			if len(arr.Shape) != 1 || arr.Shape[0] != 4 || arr.Len() != 4 {
				t.Errorf("Shape = %v, Len = %d", arr.Shape, arr.Len())
			}
			if string(arr.Bytes()) != string(data) {
				t.Errorf("payload not copied exactly")
			}
			if sa.Locks() != 0 {
				t.Errorf("array left locked")
			}
		})
	}
}

func TestArrayFromSafeArray_TwoDims(t *testing.T) {
	values := []int16{1, 2, 3, 4, 5, 6}
	sa := com.SafeArrayOf(com.VT_I2, values, com.Bound{Lower: 0, Upper: 1}, com.Bound{Lower: 0, Upper: 2})
	defer sa.Destroy()

	arr, err := marshal.ArrayFromSafeArray(sa)
	if err != nil {
		t.Fatalf("ArrayFromSafeArray() = %v", err)
	}
	if arr.ShapeString() != "2,3" {
		t.Fatalf("shape = %s", arr.ShapeString())
	}
	got, ok := marshal.Values[int16](arr)
	if !ok || len(got) != 6 || got[5] != 6 {
		t.Fatalf("Values = %v, %v", got, ok)
	}
}

func TestArrayFromSafeArray_Errors(t *testing.T) {
	tests := []struct {
		name   string
		sa     *com.MemSafeArray
		detail string
	}{
		{
			name:   "zero dims",
			sa:     com.NewSafeArray(com.VT_I4, nil),
			detail: "at least one dimension",
		},
		{
			name:   "upper equals lower",
			sa:     com.NewSafeArray(com.VT_I4, make([]byte, 4), com.Bound{Lower: 3, Upper: 3}),
			detail: "Expected array bounds of dim 0 to be lower < upper: lower=3, upper=3.",
		},
		{
			name:   "second dim inverted",
			sa:     com.NewSafeArray(com.VT_I4, make([]byte, 64), com.Bound{Lower: 0, Upper: 1}, com.Bound{Lower: 5, Upper: 2}),
			detail: "dim 1",
		},
		{
			name:   "unknown vartype",
			sa:     com.NewSafeArray(com.VT_BSTR, make([]byte, 32), com.Bound{Lower: 0, Upper: 3}),
			detail: "Unknown array VARTYPE: 8.",
		},
		{
			name:   "short buffer",
			sa:     com.NewSafeArray(com.VT_R8, make([]byte, 16), com.Bound{Lower: 0, Upper: 3}),
			detail: "expected 32",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.sa.Destroy()
			_, err := marshal.ArrayFromSafeArray(tt.sa)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.ErrContract) {
				t.Errorf("error kind = %v", err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", err, tt.detail)
			}
			if tt.sa.Locks() != 0 {
				t.Errorf("array left locked")
			}
		})
	}
}

func TestGetArray_DestroysArray(t *testing.T) {
	sa := com.SafeArrayOf(com.VT_R4, []float32{1, 2}, com.Bound{Lower: 0, Upper: 1})
	arr, err := marshal.GetArray(func() (com.SafeArray, com.HRESULT) { return sa, com.S_OK })
	if err != nil {
		t.Fatalf("GetArray() = %v", err)
	}
	if !sa.Destroyed() {
		t.Fatal("SAFEARRAY not destroyed")
	}
	if f := arr.Float64s(); f[1] != 2 {
		t.Fatalf("Float64s() = %v", f)
	}

	_, err = marshal.GetArray(func() (com.SafeArray, com.HRESULT) { return nil, com.E_FAIL })
	if hr, ok := errors.StatusOf(err); !ok || hr != com.E_FAIL {
		t.Fatalf("StatusOf = %v, %v", hr, ok)
	}
}

func TestArray_ToArrow(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	sa := com.SafeArrayOf(com.VT_UI2, []uint16{7, 8, 9}, com.Bound{Lower: 0, Upper: 2})
	defer sa.Destroy()
	arr, err := marshal.ArrayFromSafeArray(sa)
	if err != nil {
		t.Fatal(err)
	}

	a := arr.ToArrow(mem)
	defer a.Release()
	if a.DataType().ID() != arrow.UINT16 {
		t.Fatalf("arrow type = %v", a.DataType())
	}
	u := a.(*array.Uint16)
	if u.Len() != 3 || u.Value(2) != 9 {
		t.Fatalf("arrow values = %v", u)
	}
}

func TestElements(t *testing.T) {
	tests := []struct {
		shape []int
		n     int
		ok    bool
	}{
		{nil, 1, true},
		{[]int{2, 3}, 6, true},
		{[]int{0, math.MaxInt}, 0, true},
		{[]int{-1, 2}, 0, false},
		{[]int{math.MaxInt, 2}, 0, false},
		{[]int{math.MaxInt32, math.MaxInt32, math.MaxInt32}, 0, false},
	}
	for _, tt := range tests {
		n, ok := marshal.Elements(tt.shape...)
		if n != tt.n || ok != tt.ok {
			t.Errorf("Elements(%v) = %d, %v, want %d, %v", tt.shape, n, ok, tt.n, tt.ok)
		}
	}
}

func TestArrayFromArrow(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	src := marshal.NewArray(marshal.Int16, 2, 3)
	vals, _ := marshal.Values[int16](src)
	for i := range vals {
		vals[i] = int16(i - 2)
	}
	a := src.ToArrow(mem)
	defer a.Release()

	got, err := marshal.ArrayFromArrow(a, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.DType != marshal.Int16 || got.ShapeString() != "2,3" {
		t.Fatalf("got %v %s", got.DType, got.ShapeString())
	}
	out, _ := marshal.Values[int16](got)
	for i := range vals {
		if out[i] != vals[i] {
			t.Fatalf("value %d = %d, want %d", i, out[i], vals[i])
		}
	}

	for _, shape := range [][]int{{4, 4}, {-2, -3}, {math.MaxInt, 2}} {
		if _, err := marshal.ArrayFromArrow(a, shape...); err == nil {
			t.Fatalf("ArrayFromArrow(%v) accepted a bad shape", shape)
		}
	}

	if d, ok := marshal.ParseDType("FLOAT32"); !ok || d != marshal.Float32 {
		t.Fatalf("ParseDType(FLOAT32) = %v, %v", d, ok)
	}
	if _, ok := marshal.ParseDType("COMPLEX64"); ok {
		t.Fatal("ParseDType accepted an unknown name")
	}
}

func TestVector_RoundTrip(t *testing.T) {
	srv := mock.NewServer()
	instr := srv.NewInstrument()
	defer instr.Release()
	proj, _ := instr.GetProjection()
	defer proj.Release()

	if err := marshal.SetVector(proj.GetImageShift, proj.PutImageShift, []any{1.5, -2.25}); err != nil {
		t.Fatalf("SetVector() = %v", err)
	}
	got, err := marshal.GetVector(proj.GetImageShift)
	if err != nil {
		t.Fatalf("GetVector() = %v", err)
	}
	if got != (marshal.Vec2{X: 1.5, Y: -2.25}) {
		t.Fatalf("GetVector() = %+v", got)
	}
	if n := srv.OutstandingKind("Vector"); n != 0 {
		t.Fatalf("%d vectors leaked", n)
	}
}

func TestVector_InvalidInput(t *testing.T) {
	srv := mock.NewServer()
	instr := srv.NewInstrument()
	defer instr.Release()
	ill, _ := instr.GetIllumination()
	defer ill.Release()
	if err := marshal.SetVector(ill.GetShift, ill.PutShift, marshal.Vec2{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}
	srv.ResetCalls()

	for _, in := range []any{[]float64{1}, []float64{1, 2, 3}, "ab", nil, []any{1.0, "x"}} {
		err := marshal.SetVector(ill.GetShift, ill.PutShift, in)
		if !stderrors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("SetVector(%v) = %v", in, err)
		}
	}
	if calls := srv.Calls("Illumination."); len(calls) != 0 {
		t.Fatalf("invalid input reached the server: %v", calls)
	}
	got, _ := marshal.GetVector(ill.GetShift)
	if got != (marshal.Vec2{X: 1, Y: 2}) {
		t.Fatalf("stored value changed to %+v", got)
	}
}

func TestVector_PutFailureReleases(t *testing.T) {
	srv := mock.NewServer()
	instr := srv.NewInstrument()
	defer instr.Release()
	gun, _ := instr.GetGun()
	defer gun.Release()

	srv.FailNext("Gun.PutTilt", scripting.E_OUT_OF_RANGE)
	err := marshal.SetVector(gun.GetTilt, gun.PutTilt, []float64{1, 1})
	if hr, ok := errors.StatusOf(err); !ok || hr != scripting.E_OUT_OF_RANGE {
		t.Fatalf("SetVector() = %v", err)
	}
	if n := srv.OutstandingKind("Vector"); n != 0 {
		t.Fatalf("%d vectors leaked", n)
	}
}

type gaugeWrapper struct {
	g      scripting.Gauge
	closed *int
}

func (w *gaugeWrapper) Close() error {
	w.g.Release()
	*w.closed++
	return nil
}

func TestDrain(t *testing.T) {
	srv := mock.NewServer()
	vac := srv.NewInstrument()
	defer vac.Release()
	v, _ := vac.GetVacuum()
	defer v.Release()
	base := srv.Outstanding()

	closed := 0
	wrap := func(g scripting.Gauge) (*gaugeWrapper, error) {
		return &gaugeWrapper{g: g, closed: &closed}, nil
	}

	t.Run("in order", func(t *testing.T) {
		ws, err := marshal.GetCollection(v.GetGauges, wrap)
		if err != nil {
			t.Fatalf("GetCollection() = %v", err)
		}
		want := []string{"P1", "P2", "IGP1"}
		if len(ws) != len(want) {
			t.Fatalf("got %d items", len(ws))
		}
		for i, w := range ws {
			name, _ := w.g.GetName()
			if name.String() != want[i] {
				t.Errorf("item %d = %q, want %q", i, name.String(), want[i])
			}
			com.SysFreeString(name)
			w.Close()
		}
		if n := srv.Outstanding(); n != base {
			t.Fatalf("Outstanding() = %d, want %d", n, base)
		}
	})

	t.Run("failure at index 1", func(t *testing.T) {
		closed = 0
		srv.FailAfter("Gauges.GetItem", 1, com.E_FAIL)
		ws, err := marshal.GetCollection(v.GetGauges, wrap)
		if err == nil || ws != nil {
			t.Fatalf("GetCollection() = %v, %v", ws, err)
		}
		if hr, _ := errors.StatusOf(err); hr != com.E_FAIL {
			t.Errorf("status = %s", hr)
		}
		if closed != 1 {
			t.Errorf("closed %d wrappers, want 1", closed)
		}
		if n := srv.Outstanding(); n != base {
			t.Fatalf("Outstanding() = %d, want %d: %v", n, base, srv.Objects().Counts())
		}
	})

	t.Run("wrap failure releases item", func(t *testing.T) {
		failing := func(g scripting.Gauge) (*gaugeWrapper, error) {
			return nil, errors.TypeMismatch(errors.PhaseGet, "Gauge", "nothing")
		}
		if _, err := marshal.GetCollection(v.GetGauges, failing); err == nil {
			t.Fatal("expected error")
		}
		if n := srv.Outstanding(); n != base {
			t.Fatalf("Outstanding() = %d, want %d", n, base)
		}
	})
}

// negativeCollection reports a count the native contract forbids.
type negativeCollection struct {
	released int
}

func (c *negativeCollection) QueryInterface(com.GUID) (com.Unknown, com.HRESULT) {
	return nil, com.E_NOINTERFACE
}
func (c *negativeCollection) AddRef() uint32                  { return 1 }
func (c *negativeCollection) Release() uint32                 { c.released++; return 0 }
func (c *negativeCollection) GetCount() (int32, com.HRESULT) { return -1, com.S_OK }
func (c *negativeCollection) GetItem(com.Variant) (scripting.Gauge, com.HRESULT) {
	return nil, com.E_UNEXPECTED
}

func TestDrain_NegativeCount(t *testing.T) {
	c := &negativeCollection{}
	_, err := marshal.Drain(scripting.Collection[scripting.Gauge](c), func(g scripting.Gauge) (*gaugeWrapper, error) {
		t.Fatal("wrap must not be called")
		return nil, nil
	})
	if !stderrors.Is(err, errors.ErrContract) || !strings.Contains(err.Error(), "Negative collection size.") {
		t.Fatalf("Drain() = %v", err)
	}
	if c.released != 1 {
		t.Fatalf("collection released %d times", c.released)
	}
}

type exposure float64

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   any
		want int32
		ok   bool
	}{
		{int32(5), 5, true},
		{3.0, 3, true},
		{3.5, 3, true},
		{-2.7, -2, true},
		{float32(7.9), 7, true},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{-2147483648.9, math.MinInt32, true},
		{2147483648.0, 0, false},
		{int64(1) << 40, 0, false},
		{uint64(math.MaxInt32), math.MaxInt32, true},
		{uint64(math.MaxInt32) + 1, 0, false},
		{scripting.ProjectionModeDiffraction, 2, true},
		{exposure(4.6), 4, true},
		{"5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := marshal.ToInt32(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToInt32(%v) = %d, %v", tt.in, got, ok)
		}
	}

	floats := []struct {
		in   any
		want float64
		ok   bool
	}{
		{2.5, 2.5, true},
		{uint16(9), 9, true},
		{exposure(0.25), 0.25, true},
		{scripting.ProjectionModeDiffraction, 2, true},
		{true, 1, true},
		{"0.5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range floats {
		got, ok := marshal.ToFloat64(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToFloat64(%v) = %v, %v", tt.in, got, ok)
		}
	}

	if v, err := marshal.ToVec2([2]int{1, 2}); err != nil || v.Y != 2 {
		t.Errorf("ToVec2(array) = %v, %v", v, err)
	}
	if b, ok := marshal.ToBool(0.0); !ok || b {
		t.Errorf("ToBool(0.0) = %v, %v", b, ok)
	}
}
