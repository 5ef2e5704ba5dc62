package marshal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
)

// DType is the element type of an Array.
type DType uint8

const (
	Int8 DType = iota + 1
	Int16
	Int32
	Uint8
	Uint16
	Uint32
	Float32
	Float64
)

var dtypeNames = map[DType]string{
	Int8: "INT8", Int16: "INT16", Int32: "INT32",
	Uint8: "UINT8", Uint16: "UINT16", Uint32: "UINT32",
	Float32: "FLOAT32", Float64: "FLOAT64",
}

// ParseDType looks up a dtype by its name, e.g. "UINT16".
func ParseDType(name string) (DType, bool) {
	for d, n := range dtypeNames {
		if n == name {
			return d, true
		}
	}
	return 0, false
}

func (d DType) String() string {
	if s, ok := dtypeNames[d]; ok {
		return s
	}
	return "DType(" + strconv.Itoa(int(d)) + ")"
}

// Size returns the element size in bytes.
func (d DType) Size() int {
	switch d {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// ArrowType returns the matching Arrow primitive type.
func (d DType) ArrowType() arrow.DataType {
	switch d {
	case Int8:
		return arrow.PrimitiveTypes.Int8
	case Int16:
		return arrow.PrimitiveTypes.Int16
	case Int32:
		return arrow.PrimitiveTypes.Int32
	case Uint8:
		return arrow.PrimitiveTypes.Uint8
	case Uint16:
		return arrow.PrimitiveTypes.Uint16
	case Uint32:
		return arrow.PrimitiveTypes.Uint32
	case Float32:
		return arrow.PrimitiveTypes.Float32
	case Float64:
		return arrow.PrimitiveTypes.Float64
	}
	return nil
}

// DTypeForVarType maps a SAFEARRAY element tag to an array element type.
// VT_INT and VT_UINT are the 32-bit platform integers.
func DTypeForVarType(vt com.VarType) (DType, bool) {
	switch vt {
	case com.VT_I1:
		return Int8, true
	case com.VT_I2:
		return Int16, true
	case com.VT_I4, com.VT_INT:
		return Int32, true
	case com.VT_UI1:
		return Uint8, true
	case com.VT_UI2:
		return Uint16, true
	case com.VT_UI4, com.VT_UINT:
		return Uint32, true
	case com.VT_R4:
		return Float32, true
	case com.VT_R8:
		return Float64, true
	}
	return 0, false
}

// Array is a host-owned n-dimensional array in row-major order.
type Array struct {
	DType DType
	Shape []int
	data  any    // []int8 ... []float64
	raw   []byte // byte view of data
}

// Elements returns the number of elements of shape. It reports false for a
// negative dimension or a product that overflows int.
func Elements(shape ...int) (int, bool) {
	n := 1
	for _, s := range shape {
		if s < 0 || (s != 0 && n > math.MaxInt/s) {
			return 0, false
		}
		n *= s
	}
	return n, true
}

// NewArray allocates a zeroed array. The shape must be valid for Elements.
func NewArray(dt DType, shape ...int) *Array {
	n := 1
	for _, s := range shape {
		n *= s
	}
	a := &Array{DType: dt, Shape: append([]int(nil), shape...)}
	switch dt {
	case Int8:
		a.data, a.raw = alloc[int8](n)
	case Int16:
		a.data, a.raw = alloc[int16](n)
	case Int32:
		a.data, a.raw = alloc[int32](n)
	case Uint8:
		a.data, a.raw = alloc[uint8](n)
	case Uint16:
		a.data, a.raw = alloc[uint16](n)
	case Uint32:
		a.data, a.raw = alloc[uint32](n)
	case Float32:
		a.data, a.raw = alloc[float32](n)
	case Float64:
		a.data, a.raw = alloc[float64](n)
	default:
		panic(fmt.Sprintf("marshal: unsupported dtype %v", dt))
	}
	return a
}

func alloc[T any](n int) ([]T, []byte) {
	s := make([]T, n)
	if n == 0 {
		return s, nil
	}
	var zero T
	return s, unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), n*int(unsafe.Sizeof(zero)))
}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a.DType.Size() == 0 {
		return 0
	}
	return len(a.raw) / a.DType.Size()
}

// Bytes returns the raw element buffer in host byte order.
func (a *Array) Bytes() []byte { return a.raw }

// Data returns the typed backing slice, e.g. []uint16.
func (a *Array) Data() any { return a.data }

// Values returns the backing slice when T matches the element type.
func Values[T any](a *Array) ([]T, bool) {
	s, ok := a.data.([]T)
	return s, ok
}

// Float64s converts all elements to float64.
func (a *Array) Float64s() []float64 {
	out := make([]float64, a.Len())
	switch s := a.data.(type) {
	case []int8:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []int16:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []int32:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []uint8:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []uint16:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []uint32:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []float32:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []float64:
		copy(out, s)
	}
	return out
}

// ShapeString formats the shape as "d0,d1,...".
func (a *Array) ShapeString() string {
	parts := make([]string, len(a.Shape))
	for i, s := range a.Shape {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// ToArrow copies the flattened elements into a new Arrow array.
func (a *Array) ToArrow(mem memory.Allocator) arrow.Array {
	b := array.NewBuilder(mem, a.DType.ArrowType())
	defer b.Release()
	a.AppendTo(b)
	return b.NewArray()
}

// AppendTo appends the flattened elements to a builder of the matching type.
func (a *Array) AppendTo(b array.Builder) {
	switch b := b.(type) {
	case *array.Int8Builder:
		b.AppendValues(a.data.([]int8), nil)
	case *array.Int16Builder:
		b.AppendValues(a.data.([]int16), nil)
	case *array.Int32Builder:
		b.AppendValues(a.data.([]int32), nil)
	case *array.Uint8Builder:
		b.AppendValues(a.data.([]uint8), nil)
	case *array.Uint16Builder:
		b.AppendValues(a.data.([]uint16), nil)
	case *array.Uint32Builder:
		b.AppendValues(a.data.([]uint32), nil)
	case *array.Float32Builder:
		b.AppendValues(a.data.([]float32), nil)
	case *array.Float64Builder:
		b.AppendValues(a.data.([]float64), nil)
	default:
		panic(fmt.Sprintf("marshal: builder %T does not match dtype %v", b, a.DType))
	}
}

// ArrayFromArrow copies a primitive Arrow array into a new Array with the
// given shape. Null slots read as zero.
func ArrayFromArrow(a arrow.Array, shape ...int) (*Array, error) {
	var dt DType
	for d := Int8; d <= Float64; d++ {
		if arrow.TypeEqual(d.ArrowType(), a.DataType()) {
			dt = d
			break
		}
	}
	if dt == 0 {
		return nil, errors.Unsupported(errors.PhaseMarshal, "arrow type "+a.DataType().String())
	}
	if n, ok := Elements(shape...); !ok || n != a.Len() {
		return nil, errors.Contract(errors.PhaseMarshal,
			"Arrow array holds %d values, shape %v does not match.", a.Len(), shape)
	}
	out := NewArray(dt, shape...)
	switch a := a.(type) {
	case *array.Int8:
		copy(out.data.([]int8), a.Int8Values())
	case *array.Int16:
		copy(out.data.([]int16), a.Int16Values())
	case *array.Int32:
		copy(out.data.([]int32), a.Int32Values())
	case *array.Uint8:
		copy(out.data.([]uint8), a.Uint8Values())
	case *array.Uint16:
		copy(out.data.([]uint16), a.Uint16Values())
	case *array.Uint32:
		copy(out.data.([]uint32), a.Uint32Values())
	case *array.Float32:
		copy(out.data.([]float32), a.Float32Values())
	case *array.Float64:
		copy(out.data.([]float64), a.Float64Values())
	}
	return out, nil
}

// ArrayFromSafeArray copies a SAFEARRAY into a new Array. The dimension
// sizes become the shape in dimension order. The SAFEARRAY is not
// destroyed; its data is unaccessed on every path.
func ArrayFromSafeArray(sa com.SafeArray) (*Array, error) {
	if sa == nil {
		return nil, errors.Contract(errors.PhaseMarshal, "null SAFEARRAY")
	}
	ndim := sa.GetDim()
	if ndim == 0 {
		return nil, errors.Contract(errors.PhaseMarshal, "Expected array with at least one dimension.")
	}

	shape := make([]int, ndim)
	for i := range shape {
		dim := uint32(i + 1)
		lower, hr := sa.GetLBound(dim)
		if hr.Failed() {
			return nil, errors.Translate(errors.PhaseMarshal, hr)
		}
		upper, hr := sa.GetUBound(dim)
		if hr.Failed() {
			return nil, errors.Translate(errors.PhaseMarshal, hr)
		}
		if upper <= lower {
			return nil, errors.Contract(errors.PhaseMarshal,
				"Expected array bounds of dim %d to be lower < upper: lower=%d, upper=%d.", i, lower, upper)
		}
		shape[i] = int(upper) - int(lower) + 1
	}

	vt, hr := sa.GetVartype()
	if hr.Failed() {
		return nil, errors.Translate(errors.PhaseMarshal, hr)
	}
	dt, ok := DTypeForVarType(vt)
	if !ok {
		return nil, errors.Contract(errors.PhaseMarshal, "Unknown array VARTYPE: %d.", uint16(vt))
	}

	src, hr := sa.AccessData()
	if hr.Failed() {
		return nil, errors.Translate(errors.PhaseMarshal, hr)
	}
	defer sa.UnaccessData()

	out := NewArray(dt, shape...)
	if len(src) < len(out.raw) {
		return nil, errors.Contract(errors.PhaseMarshal,
			"SAFEARRAY holds %d bytes, expected %d.", len(src), len(out.raw))
	}
	copy(out.raw, src)
	return out, nil
}

// GetArray fetches a SAFEARRAY through get, converts it and destroys it.
func GetArray(get func() (com.SafeArray, com.HRESULT)) (*Array, error) {
	sa, hr := get()
	if hr.Failed() {
		return nil, errors.Translate(errors.PhaseGet, hr)
	}
	defer sa.Destroy()
	return ArrayFromSafeArray(sa)
}
