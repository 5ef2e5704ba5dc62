package mock

import (
	"github.com/wippyai/temscript/com"
)

var (
	CLSIDTemscriptMockObject = com.MustGUID("e5766dfa-303e-48a9-983e-352fa4a5a408")
	IIDTemscriptMockObject   = com.MustGUID("bbbd2968-4b93-49a9-b1ae-16d1d6b563eb")
)

// TemscriptMockObject is the minimal interface of the mock object class:
// one integer value and a child of the same interface.
type TemscriptMockObject interface {
	com.Unknown
	GetValue() (int32, com.HRESULT)
	PutValue(int32) com.HRESULT
	// GetChild returns the child object, or nil for a child.
	GetChild() (TemscriptMockObject, com.HRESULT)
}

type mockObject struct {
	object
	value int32
	child *mockObject
}

// newMockObject creates a top level object owning one child.
func newMockObject(srv *Server) *mockObject {
	o := &mockObject{child: newChildObject(srv)}
	o.init(srv, "TemscriptMockObject", o, IIDTemscriptMockObject)
	o.onFree = func() { o.child.Release() }
	return o
}

func newChildObject(srv *Server) *mockObject {
	o := &mockObject{value: 999}
	o.init(srv, "ChildMockObject", o, IIDTemscriptMockObject)
	return o
}

func (o *mockObject) GetValue() (int32, com.HRESULT) {
	return getProp(&o.object, "GetValue", func(*State) int32 { return o.value })
}

func (o *mockObject) PutValue(v int32) com.HRESULT {
	return putProp(&o.object, "PutValue", v, func(_ *State, v int32) com.HRESULT {
		o.value = v
		return com.S_OK
	})
}

func (o *mockObject) GetChild() (TemscriptMockObject, com.HRESULT) {
	if hr := o.enter("GetChild"); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	if o.child == nil {
		return nil, com.S_OK
	}
	o.child.AddRef()
	return o.child, com.S_OK
}

// classFactory activates one class of the server.
type classFactory struct {
	object
	create func() com.Unknown
}

func newClassFactory(srv *Server, create func() com.Unknown) *classFactory {
	f := &classFactory{create: create}
	f.init(srv, "ClassFactory", f, com.IIDClassFactory)
	return f
}

// CreateInstance returns a fresh object queried for iid. Aggregation is not
// supported.
func (f *classFactory) CreateInstance(outer com.Unknown, iid com.GUID) (com.Unknown, com.HRESULT) {
	f.alive("CreateInstance")
	if outer != nil {
		return nil, com.CLASS_E_NOAGGREGATION
	}
	obj := f.create()
	defer obj.Release()
	return obj.QueryInterface(iid)
}

func (f *classFactory) LockServer(lock bool) com.HRESULT {
	if lock {
		f.srv.locks.Add(1)
	} else {
		f.srv.locks.Add(-1)
	}
	return com.S_OK
}
