package marshal

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/scripting"
)

// Vec2 is a two component vector as returned by the instrument.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Slice returns the vector as a two element slice.
func (v Vec2) Slice() []float64 {
	return []float64{v.X, v.Y}
}

// ToVec2 validates that value is a two element numeric sequence.
func ToVec2(value any) (Vec2, error) {
	values, ok := ToFloat64s(value)
	if !ok || len(values) != 2 {
		return Vec2{}, errors.InvalidInput(errors.PhaseSet, nil, value, "Expected sequence with two items.")
	}
	return Vec2{X: values[0], Y: values[1]}, nil
}

// GetVector fetches a vector through get and reads X then Y.
// The vector is released on every path.
func GetVector(get func() (scripting.Vector, com.HRESULT)) (Vec2, error) {
	vec, hr := get()
	if hr.Failed() {
		return Vec2{}, errors.Translate(errors.PhaseGet, hr)
	}
	defer vec.Release()

	x, hr := vec.GetX()
	if hr.Failed() {
		return Vec2{}, errors.Translate(errors.PhaseGet, hr, "X")
	}
	y, hr := vec.GetY()
	if hr.Failed() {
		return Vec2{}, errors.Translate(errors.PhaseGet, hr, "Y")
	}
	return Vec2{X: x, Y: y}, nil
}

// SetVector validates value, then fetches the current vector, writes X and Y
// into it and stores it back with put. Invalid input fails before any
// native call.
func SetVector(get func() (scripting.Vector, com.HRESULT), put func(scripting.Vector) com.HRESULT, value any) error {
	v, err := ToVec2(value)
	if err != nil {
		return err
	}

	vec, hr := get()
	if hr.Failed() {
		return errors.Translate(errors.PhaseSet, hr)
	}
	defer vec.Release()

	if hr := vec.PutX(v.X); hr.Failed() {
		return errors.Translate(errors.PhaseSet, hr, "X")
	}
	if hr := vec.PutY(v.Y); hr.Failed() {
		return errors.Translate(errors.PhaseSet, hr, "Y")
	}
	if hr := put(vec); hr.Failed() {
		return errors.Translate(errors.PhaseSet, hr)
	}
	return nil
}
