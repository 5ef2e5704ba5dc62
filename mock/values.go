package mock

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/scripting"
)

// vector is a detached copy of an XY value. Changes reach the instrument
// only when it is stored back through a put accessor.
type vector struct {
	object
	v XY
}

func newVector(srv *Server, v XY) *vector {
	o := &vector{v: v}
	o.init(srv, "Vector", o, scripting.IIDVector)
	return o
}

func (o *vector) GetX() (float64, com.HRESULT) {
	return getProp(&o.object, "GetX", func(*State) float64 { return o.v.X })
}

func (o *vector) PutX(x float64) com.HRESULT {
	return putProp(&o.object, "PutX", x, func(_ *State, x float64) com.HRESULT { o.v.X = x; return com.S_OK })
}

func (o *vector) GetY() (float64, com.HRESULT) {
	return getProp(&o.object, "GetY", func(*State) float64 { return o.v.Y })
}

func (o *vector) PutY(y float64) com.HRESULT {
	return putProp(&o.object, "PutY", y, func(_ *State, y float64) com.HRESULT { o.v.Y = y; return com.S_OK })
}

// getVector returns a new vector holding the field selected by field.
func getVector(o *object, method string, field func(st *State) *XY) (scripting.Vector, com.HRESULT) {
	if hr := o.enter(method); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	return newVector(o.srv, *field(o.srv.State)), com.S_OK
}

// putVector copies a vector of this server into the field selected by field.
func putVector(o *object, method string, v scripting.Vector, field func(st *State) *XY) com.HRESULT {
	if hr := o.enter(method, v); hr.Failed() {
		return hr
	}
	defer o.srv.exit()
	vec, ok := v.(*vector)
	if !ok || vec.srv != o.srv {
		return com.E_INVALIDARG
	}
	*field(o.srv.State) = vec.v
	return com.S_OK
}

type stagePosition struct {
	object
	p StagePos
}

func newStagePosition(srv *Server, p StagePos) *stagePosition {
	o := &stagePosition{p: p}
	o.init(srv, "StagePosition", o, scripting.IIDStagePosition)
	return o
}

func (o *stagePosition) getAxis(method string, bit scripting.StageAxes) (float64, com.HRESULT) {
	return getProp(&o.object, method, func(*State) float64 { return *o.p.axis(bit) })
}

func (o *stagePosition) putAxis(method string, bit scripting.StageAxes, v float64) com.HRESULT {
	return putProp(&o.object, method, v, func(_ *State, v float64) com.HRESULT {
		*o.p.axis(bit) = v
		return com.S_OK
	})
}

func (o *stagePosition) GetX() (float64, com.HRESULT) { return o.getAxis("GetX", scripting.AxisX) }
func (o *stagePosition) PutX(v float64) com.HRESULT   { return o.putAxis("PutX", scripting.AxisX, v) }
func (o *stagePosition) GetY() (float64, com.HRESULT) { return o.getAxis("GetY", scripting.AxisY) }
func (o *stagePosition) PutY(v float64) com.HRESULT   { return o.putAxis("PutY", scripting.AxisY, v) }
func (o *stagePosition) GetZ() (float64, com.HRESULT) { return o.getAxis("GetZ", scripting.AxisZ) }
func (o *stagePosition) PutZ(v float64) com.HRESULT   { return o.putAxis("PutZ", scripting.AxisZ, v) }
func (o *stagePosition) GetA() (float64, com.HRESULT) { return o.getAxis("GetA", scripting.AxisA) }
func (o *stagePosition) PutA(v float64) com.HRESULT   { return o.putAxis("PutA", scripting.AxisA, v) }
func (o *stagePosition) GetB() (float64, com.HRESULT) { return o.getAxis("GetB", scripting.AxisB) }
func (o *stagePosition) PutB(v float64) com.HRESULT   { return o.putAxis("PutB", scripting.AxisB, v) }

type stageAxisData struct {
	object
	limit AxisLimit
}

func newStageAxisData(srv *Server, limit AxisLimit) *stageAxisData {
	o := &stageAxisData{limit: limit}
	o.init(srv, "StageAxisData", o, scripting.IIDStageAxisData)
	return o
}

func (o *stageAxisData) GetMinPos() (float64, com.HRESULT) {
	return getProp(&o.object, "GetMinPos", func(*State) float64 { return o.limit.Min })
}

func (o *stageAxisData) GetMaxPos() (float64, com.HRESULT) {
	return getProp(&o.object, "GetMaxPos", func(*State) float64 { return o.limit.Max })
}

func (o *stageAxisData) GetUnitType() (scripting.MeasurementUnitType, com.HRESULT) {
	return getProp(&o.object, "GetUnitType", func(*State) scripting.MeasurementUnitType { return o.limit.Unit })
}

// collection holds one reference on each item and hands out new ones.
type collection[T com.Unknown] struct {
	object
	items []T
}

func (c *collection[T]) initItems(srv *Server, kind string, self com.Unknown, items []T, iids ...com.GUID) {
	c.items = items
	c.init(srv, kind, self, iids...)
	c.onFree = func() {
		for _, it := range c.items {
			it.Release()
		}
	}
}

func newCollection[T com.Unknown](srv *Server, kind string, items []T) *collection[T] {
	c := &collection[T]{}
	c.initItems(srv, kind, c, items)
	return c
}

func (c *collection[T]) GetCount() (int32, com.HRESULT) {
	return getProp(&c.object, "GetCount", func(*State) int32 { return int32(len(c.items)) })
}

func (c *collection[T]) GetItem(index com.Variant) (T, com.HRESULT) {
	var zero T
	if hr := c.enter("GetItem", index.Val); hr.Failed() {
		return zero, hr
	}
	defer c.srv.exit()
	i, ok := index.Int32()
	if !ok {
		return zero, com.DISP_E_TYPEMISMATCH
	}
	if i < 0 || int(i) >= len(c.items) {
		return zero, com.DISP_E_BADINDEX
	}
	it := c.items[i]
	it.AddRef()
	return it, com.S_OK
}
