package com

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// SafeArray is the SAFEARRAY API surface the marshallers need.
// Dimensions are numbered from 1.
type SafeArray interface {
	GetDim() uint32
	GetLBound(dim uint32) (int32, HRESULT)
	GetUBound(dim uint32) (int32, HRESULT)
	GetVartype() (VarType, HRESULT)
	// AccessData locks the array and returns its raw element buffer.
	AccessData() ([]byte, HRESULT)
	UnaccessData() HRESULT
	Destroy() HRESULT
}

// Bound is the inclusive index range of one dimension.
type Bound struct {
	Lower int32
	Upper int32
}

var liveSafeArrays atomic.Int64

// LiveSafeArrays returns the number of in-memory arrays not yet destroyed.
func LiveSafeArrays() int64 {
	return liveSafeArrays.Load()
}

// MemSafeArray is an in-memory SafeArray. It stores the bounds as given,
// so it can also describe malformed arrays.
type MemSafeArray struct {
	mu        sync.Mutex
	vt        VarType
	bounds    []Bound
	data      []byte
	locks     int
	destroyed bool
}

// NewSafeArray builds an array over a private copy of data.
func NewSafeArray(vt VarType, data []byte, bounds ...Bound) *MemSafeArray {
	liveSafeArrays.Add(1)
	return &MemSafeArray{
		vt:     vt,
		bounds: append([]Bound(nil), bounds...),
		data:   append([]byte(nil), data...),
	}
}

// SafeArrayOf builds an array from typed values. T must match vt's element size.
func SafeArrayOf[T any](vt VarType, values []T, bounds ...Bound) *MemSafeArray {
	var raw []byte
	if len(values) > 0 {
		raw = unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*int(unsafe.Sizeof(values[0])))
	}
	return NewSafeArray(vt, raw, bounds...)
}

func (a *MemSafeArray) GetDim() uint32 {
	return uint32(len(a.bounds))
}

func (a *MemSafeArray) bound(dim uint32) (Bound, HRESULT) {
	if dim < 1 || int(dim) > len(a.bounds) {
		return Bound{}, DISP_E_BADINDEX
	}
	return a.bounds[dim-1], S_OK
}

func (a *MemSafeArray) GetLBound(dim uint32) (int32, HRESULT) {
	b, hr := a.bound(dim)
	return b.Lower, hr
}

func (a *MemSafeArray) GetUBound(dim uint32) (int32, HRESULT) {
	b, hr := a.bound(dim)
	return b.Upper, hr
}

func (a *MemSafeArray) GetVartype() (VarType, HRESULT) {
	return a.vt, S_OK
}

func (a *MemSafeArray) AccessData() ([]byte, HRESULT) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return nil, E_UNEXPECTED
	}
	a.locks++
	return a.data, S_OK
}

func (a *MemSafeArray) UnaccessData() HRESULT {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.locks == 0 {
		return E_UNEXPECTED
	}
	a.locks--
	return S_OK
}

func (a *MemSafeArray) Destroy() HRESULT {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.locks > 0 {
		return DISP_E_ARRAYISLOCKED
	}
	if !a.destroyed {
		a.destroyed = true
		liveSafeArrays.Add(-1)
	}
	return S_OK
}

// Locks returns the number of outstanding AccessData calls.
func (a *MemSafeArray) Locks() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locks
}

// Destroyed reports whether Destroy has succeeded.
func (a *MemSafeArray) Destroyed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destroyed
}
