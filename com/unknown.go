package com

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// GUID identifies classes (CLSID) and interfaces (IID).
type GUID = uuid.UUID

// MustGUID parses a GUID literal and panics on malformed input.
func MustGUID(s string) GUID {
	return uuid.MustParse(s)
}

var (
	IIDUnknown      = MustGUID("00000000-0000-0000-c000-000000000046")
	IIDClassFactory = MustGUID("00000001-0000-0000-c000-000000000046")
)

// Unknown is the root of every native interface.
//
// A reference returned from any getter or factory carries one count that the
// receiver owns and must Release exactly once.
type Unknown interface {
	QueryInterface(iid GUID) (Unknown, HRESULT)
	AddRef() uint32
	Release() uint32
}

// Refs is an embeddable reference count for Unknown implementations.
// The zero value must be initialized with Init before use.
type Refs struct {
	n     atomic.Int32
	final func()
}

// Init sets the count to one and records the function run when it drops to zero.
func (r *Refs) Init(final func()) {
	r.n.Store(1)
	r.final = final
}

func (r *Refs) AddRef() uint32 {
	return uint32(r.n.Add(1))
}

// Release decrements the count. Releasing a dead object panics, since on a
// real server it would be a use-after-free.
func (r *Refs) Release() uint32 {
	n := r.n.Add(-1)
	switch {
	case n == 0:
		if r.final != nil {
			r.final()
		}
	case n < 0:
		panic(fmt.Sprintf("com: Release on freed object (count %d)", n))
	}
	return uint32(n)
}

// Count returns the current reference count.
func (r *Refs) Count() int32 {
	return r.n.Load()
}

// QueryInterface implements the usual QI body: self is returned with an extra
// reference when iid is IUnknown or one of supported.
func QueryInterface(self Unknown, iid GUID, supported ...GUID) (Unknown, HRESULT) {
	if iid == IIDUnknown {
		self.AddRef()
		return self, S_OK
	}
	for _, s := range supported {
		if s == iid {
			self.AddRef()
			return self, S_OK
		}
	}
	return nil, E_NOINTERFACE
}

// SafeRelease releases u if it is non-nil.
func SafeRelease(u Unknown) {
	if u != nil {
		u.Release()
	}
}
