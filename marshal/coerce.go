package marshal

import (
	"math"
	"reflect"
)

// ToFloat64 accepts any numeric-like value, including numbers decoded from JSON
// and named numeric types.
func ToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// ToInt32 accepts numeric values in the int32 range. Floats are truncated
// toward zero; NaN and infinities are rejected.
func ToInt32(value any) (int32, bool) {
	switch v := value.(type) {
	case int32:
		return v, true
	case int:
		return intToInt32(int64(v))
	case int64:
		return intToInt32(v)
	case float64:
		return floatToInt32(v)
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}

	// named enum and numeric types
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intToInt32(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt32 {
			return int32(u), true
		}
	case reflect.Float32, reflect.Float64:
		return floatToInt32(rv.Float())
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func intToInt32(v int64) (int32, bool) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

func floatToInt32(v float64) (int32, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	t := math.Trunc(v)
	if t < math.MinInt32 || t > math.MaxInt32 {
		return 0, false
	}
	return int32(t), true
}

// ToBool accepts booleans and numbers; any non-zero number is true.
func ToBool(value any) (bool, bool) {
	if b, ok := value.(bool); ok {
		return b, true
	}
	if f, ok := ToFloat64(value); ok {
		return f != 0, true
	}
	return false, false
}

// ToFloat64s coerces a sequence of numeric-like values.
func ToFloat64s(value any) ([]float64, bool) {
	switch v := value.(type) {
	case []float64:
		return v, true
	case Vec2:
		return []float64{v.X, v.Y}, true
	case *Vec2:
		if v == nil {
			return nil, false
		}
		return []float64{v.X, v.Y}, true
	case []any:
		out := make([]float64, len(v))
		for i, e := range v {
			f, ok := ToFloat64(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]float64, rv.Len())
	for i := range out {
		f, ok := ToFloat64(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
