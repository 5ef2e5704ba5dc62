// Package com models the COM automation boundary the instrument binding
// talks to: status codes, reference counted interfaces, BSTR strings,
// VARIANT indices, SAFEARRAYs and in-process class activation.
//
// Everything here is a plain Go rendition of the native contracts so that a
// server can be supplied by a real driver bridge or by the mock package. The
// reference counting rules are the native ones: an interface returned from a
// getter or factory carries one reference that the receiver must Release.
//
//	if hr := com.Initialize(); hr.Failed() {
//		return hr
//	}
//	defer com.Uninitialize()
//
//	unk, hr := com.CreateInstance(clsid, com.IIDUnknown)
package com
