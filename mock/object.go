package mock

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/resource"
)

// object is the common base of every server object. It owns the reference
// count and the registry entry that makes the object visible in the
// outstanding count.
type object struct {
	com.Refs
	srv    *Server
	kind   string
	handle resource.Handle
	iids   []com.GUID
	self   com.Unknown
	onFree func()
}

func (o *object) init(srv *Server, kind string, self com.Unknown, iids ...com.GUID) {
	o.srv = srv
	o.kind = kind
	o.self = self
	o.iids = iids
	o.Refs.Init(o.free)
	o.handle = srv.objects.Insert(resource.Kind(kind), self)
	Logger().Debug("object created", zap.String("kind", kind), zap.Uint32("handle", uint32(o.handle)))
}

func (o *object) free() {
	Logger().Debug("object freed", zap.String("kind", o.kind), zap.Uint32("handle", uint32(o.handle)))
	o.srv.objects.Remove(o.handle)
	if o.onFree != nil {
		o.onFree()
	}
}

func (o *object) alive(method string) {
	if o.Count() <= 0 {
		panic(fmt.Sprintf("mock: %s.%s called on released object", o.kind, method))
	}
}

func (o *object) QueryInterface(iid com.GUID) (com.Unknown, com.HRESULT) {
	o.alive("QueryInterface")
	return com.QueryInterface(o.self, iid, o.iids...)
}

// enter checks liveness, records the call and takes the state lock.
func (o *object) enter(method string, args ...any) com.HRESULT {
	o.alive(method)
	return o.srv.enter(o.kind+"."+method, args...)
}

// getProp reads a value from the simulated state.
func getProp[T any](o *object, method string, read func(st *State) T) (T, com.HRESULT) {
	if hr := o.enter(method); hr.Failed() {
		var zero T
		return zero, hr
	}
	defer o.srv.exit()
	return read(o.srv.State), com.S_OK
}

// putProp writes v into the simulated state.
func putProp[T any](o *object, method string, v T, write func(st *State, v T) com.HRESULT) com.HRESULT {
	if hr := o.enter(method, v); hr.Failed() {
		return hr
	}
	defer o.srv.exit()
	return write(o.srv.State, v)
}

// invoke runs a method body under the state lock.
func invoke(o *object, method string, fn func(st *State) com.HRESULT, args ...any) com.HRESULT {
	if hr := o.enter(method, args...); hr.Failed() {
		return hr
	}
	defer o.srv.exit()
	return fn(o.srv.State)
}

// set returns a putProp body that stores into the field selected by field.
func set[T any](field func(st *State) *T) func(*State, T) com.HRESULT {
	return func(st *State, v T) com.HRESULT {
		*field(st) = v
		return com.S_OK
	}
}

// bstr returns a getProp body allocating a BSTR the caller frees.
func bstr(read func(st *State) string) func(*State) com.BSTR {
	return func(st *State) com.BSTR {
		return com.SysAllocString(read(st))
	}
}

func vbool(read func(st *State) bool) func(*State) com.VariantBool {
	return func(st *State) com.VariantBool {
		return com.ToVariantBool(read(st))
	}
}

func setVBool(field func(st *State) *bool) func(*State, com.VariantBool) com.HRESULT {
	return func(st *State, v com.VariantBool) com.HRESULT {
		*field(st) = v.Bool()
		return com.S_OK
	}
}

// owns reports whether u is an object created by srv.
func owns(srv *Server, u com.Unknown) (*object, bool) {
	b, ok := u.(interface{ base() *object })
	if !ok {
		return nil, false
	}
	o := b.base()
	return o, o.srv == srv
}

func (o *object) base() *object { return o }
