package com

import (
	"sync"
)

// ClassFactory creates instances of one registered class.
type ClassFactory interface {
	Unknown
	CreateInstance(outer Unknown, iid GUID) (Unknown, HRESULT)
	LockServer(lock bool) HRESULT
}

type classEntry struct {
	clsid   GUID
	factory ClassFactory
}

var classes = struct {
	sync.RWMutex
	byCookie map[uint32]classEntry
	byCLSID  map[GUID]uint32
	next     uint32
	inits    int
}{
	byCookie: make(map[uint32]classEntry),
	byCLSID:  make(map[GUID]uint32),
}

// Initialize enters the process apartment. Calls nest; each successful call
// must be paired with Uninitialize.
func Initialize() HRESULT {
	classes.Lock()
	defer classes.Unlock()
	classes.inits++
	if classes.inits > 1 {
		return S_FALSE
	}
	return S_OK
}

// Uninitialize leaves the apartment entered by Initialize.
func Uninitialize() {
	classes.Lock()
	defer classes.Unlock()
	if classes.inits > 0 {
		classes.inits--
	}
}

// Initialized reports whether at least one Initialize is outstanding.
func Initialized() bool {
	classes.RLock()
	defer classes.RUnlock()
	return classes.inits > 0
}

// RegisterClass publishes factory for clsid and returns a revocation cookie.
// The registry holds one reference on factory until RevokeClass.
func RegisterClass(clsid GUID, factory ClassFactory) (uint32, HRESULT) {
	if factory == nil {
		return 0, E_POINTER
	}
	classes.Lock()
	defer classes.Unlock()
	if _, exists := classes.byCLSID[clsid]; exists {
		return 0, E_INVALIDARG
	}
	factory.AddRef()
	classes.next++
	cookie := classes.next
	classes.byCookie[cookie] = classEntry{clsid: clsid, factory: factory}
	classes.byCLSID[clsid] = cookie
	return cookie, S_OK
}

// RevokeClass removes a registration made by RegisterClass.
func RevokeClass(cookie uint32) HRESULT {
	classes.Lock()
	e, ok := classes.byCookie[cookie]
	if ok {
		delete(classes.byCookie, cookie)
		delete(classes.byCLSID, e.clsid)
	}
	classes.Unlock()
	if !ok {
		return E_INVALIDARG
	}
	e.factory.Release()
	return S_OK
}

// CreateInstance activates clsid and returns the iid interface of a new
// object. The caller owns the returned reference.
func CreateInstance(clsid GUID, iid GUID) (Unknown, HRESULT) {
	classes.RLock()
	if classes.inits == 0 {
		classes.RUnlock()
		return nil, CO_E_NOTINITIALIZED
	}
	cookie, ok := classes.byCLSID[clsid]
	var factory ClassFactory
	if ok {
		factory = classes.byCookie[cookie].factory
		factory.AddRef()
	}
	classes.RUnlock()
	if !ok {
		return nil, REGDB_E_CLASSNOTREG
	}
	defer factory.Release()
	return factory.CreateInstance(nil, iid)
}
