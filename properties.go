package temscript

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

// Vec2 is a two component vector value.
type Vec2 = marshal.Vec2

// property is one entry of a wrapper's dynamic property table. A nil set
// marks the property read-only.
type property[T com.Unknown] struct {
	get func(o *object[T], name string) (any, error)
	set func(o *object[T], name string, value any) error
}

type properties[T com.Unknown] map[string]property[T]

// Typed accessors shared by the wrapper methods and the property tables.

func getValue[R any, T com.Unknown](o *object[T], name string, fn func(T) (R, com.HRESULT)) (R, error) {
	var out R
	err := o.with(errors.PhaseGet, func(iface T) error {
		v, hr := fn(iface)
		if hr.Failed() {
			return o.fail(errors.PhaseGet, hr, name)
		}
		out = v
		return nil
	})
	return out, err
}

func putValue[V any, T com.Unknown](o *object[T], name string, fn func(T, V) com.HRESULT, v V) error {
	return o.with(errors.PhaseSet, func(iface T) error {
		if hr := fn(iface, v); hr.Failed() {
			return o.fail(errors.PhaseSet, hr, name)
		}
		return nil
	})
}

func invoke[T com.Unknown](o *object[T], name string, fn func(T) com.HRESULT) error {
	return o.with(errors.PhaseCall, func(iface T) error {
		if hr := fn(iface); hr.Failed() {
			return o.fail(errors.PhaseCall, hr, name)
		}
		return nil
	})
}

// call invokes a method taking one argument.
func call[V any, T com.Unknown](o *object[T], name string, fn func(T, V) com.HRESULT, v V) error {
	return o.with(errors.PhaseCall, func(iface T) error {
		if hr := fn(iface, v); hr.Failed() {
			return o.fail(errors.PhaseCall, hr, name)
		}
		return nil
	})
}

func getBool[T com.Unknown](o *object[T], name string, fn func(T) (com.VariantBool, com.HRESULT)) (bool, error) {
	v, err := getValue(o, name, fn)
	return v.Bool(), err
}

func putBool[T com.Unknown](o *object[T], name string, fn func(T, com.VariantBool) com.HRESULT, v bool) error {
	return putValue(o, name, fn, com.ToVariantBool(v))
}

// getString copies a BSTR result and frees it.
func getString[T com.Unknown](o *object[T], name string, fn func(T) (com.BSTR, com.HRESULT)) (string, error) {
	b, err := getValue(o, name, fn)
	if err != nil {
		return "", err
	}
	defer com.SysFreeString(b)
	return b.String(), nil
}

func getVec[T com.Unknown](o *object[T], name string, fn func(T) (scripting.Vector, com.HRESULT)) (marshal.Vec2, error) {
	var out marshal.Vec2
	err := o.with(errors.PhaseGet, func(iface T) error {
		v, err := marshal.GetVector(func() (scripting.Vector, com.HRESULT) { return fn(iface) })
		if err != nil {
			return o.annotate(err, name)
		}
		out = v
		return nil
	})
	return out, err
}

func putVec[T com.Unknown](o *object[T], name string, get func(T) (scripting.Vector, com.HRESULT), put func(T, scripting.Vector) com.HRESULT, value any) error {
	// Validate before taking the lock so bad input never reaches the server.
	if _, err := marshal.ToVec2(value); err != nil {
		return o.annotate(err, name)
	}
	return o.with(errors.PhaseSet, func(iface T) error {
		err := marshal.SetVector(
			func() (scripting.Vector, com.HRESULT) { return get(iface) },
			func(v scripting.Vector) com.HRESULT { return put(iface, v) },
			value)
		return o.annotate(err, name)
	})
}

func getArray[T com.Unknown](o *object[T], name string, fn func(T) (com.SafeArray, com.HRESULT)) (*marshal.Array, error) {
	var out *marshal.Array
	err := o.with(errors.PhaseGet, func(iface T) error {
		a, err := marshal.GetArray(func() (com.SafeArray, com.HRESULT) { return fn(iface) })
		if err != nil {
			return o.annotate(err, name)
		}
		out = a
		return nil
	})
	return out, err
}

// getChild fetches a sub-object and wraps it. The fresh reference is
// released if wrapping fails.
func getChild[W any, C com.Unknown, T com.Unknown](o *object[T], name string, fn func(T) (C, com.HRESULT), wrap func(*Session, C) (*W, error)) (*W, error) {
	var out *W
	err := o.with(errors.PhaseGet, func(iface T) error {
		c, hr := fn(iface)
		if hr.Failed() {
			return o.fail(errors.PhaseGet, hr, name)
		}
		w, err := wrap(o.session(), c)
		if err != nil {
			c.Release()
			return err
		}
		out = w
		return nil
	})
	return out, err
}

// Property table constructors.

func floatProp[T com.Unknown](get func(T) (float64, com.HRESULT), put func(T, float64) com.HRESULT) property[T] {
	p := property[T]{get: func(o *object[T], name string) (any, error) { return getValue(o, name, get) }}
	if put != nil {
		p.set = func(o *object[T], name string, value any) error {
			v, ok := marshal.ToFloat64(value)
			if !ok {
				return errors.InvalidInput(errors.PhaseSet, []string{name}, value, "expected a number")
			}
			return putValue(o, name, put, v)
		}
	}
	return p
}

func intProp[T com.Unknown](get func(T) (int32, com.HRESULT), put func(T, int32) com.HRESULT) property[T] {
	p := property[T]{get: func(o *object[T], name string) (any, error) { return getValue(o, name, get) }}
	if put != nil {
		p.set = func(o *object[T], name string, value any) error {
			v, ok := marshal.ToInt32(value)
			if !ok {
				return errors.InvalidInput(errors.PhaseSet, []string{name}, value, "expected a 32-bit integer")
			}
			return putValue(o, name, put, v)
		}
	}
	return p
}

func boolProp[T com.Unknown](get func(T) (com.VariantBool, com.HRESULT), put func(T, com.VariantBool) com.HRESULT) property[T] {
	p := property[T]{get: func(o *object[T], name string) (any, error) { return getBool(o, name, get) }}
	if put != nil {
		p.set = func(o *object[T], name string, value any) error {
			v, ok := marshal.ToBool(value)
			if !ok {
				return errors.InvalidInput(errors.PhaseSet, []string{name}, value, "expected a boolean")
			}
			return putBool(o, name, put, v)
		}
	}
	return p
}

// enumProp exposes an enum as its raw integer value.
func enumProp[E ~int32, T com.Unknown](get func(T) (E, com.HRESULT), put func(T, E) com.HRESULT) property[T] {
	p := property[T]{get: func(o *object[T], name string) (any, error) {
		v, err := getValue(o, name, get)
		return int32(v), err
	}}
	if put != nil {
		p.set = func(o *object[T], name string, value any) error {
			v, ok := marshal.ToInt32(value)
			if !ok {
				return errors.InvalidInput(errors.PhaseSet, []string{name}, value, "expected an enum value")
			}
			return putValue(o, name, put, E(v))
		}
	}
	return p
}

func stringProp[T com.Unknown](get func(T) (com.BSTR, com.HRESULT)) property[T] {
	return property[T]{get: func(o *object[T], name string) (any, error) { return getString(o, name, get) }}
}

func vecProp[T com.Unknown](get func(T) (scripting.Vector, com.HRESULT), put func(T, scripting.Vector) com.HRESULT) property[T] {
	p := property[T]{get: func(o *object[T], name string) (any, error) { return getVec(o, name, get) }}
	if put != nil {
		p.set = func(o *object[T], name string, value any) error {
			return putVec(o, name, get, put, value)
		}
	}
	return p
}

func arrayProp[T com.Unknown](get func(T) (com.SafeArray, com.HRESULT)) property[T] {
	return property[T]{get: func(o *object[T], name string) (any, error) { return getArray(o, name, get) }}
}
