package com

import (
	"sync/atomic"
	"unicode/utf16"
)

var liveBSTRs atomic.Int64

// BSTR is a length-prefixed UTF-16 string owned by whoever received it.
// The zero value is the null BSTR, which reads as an empty string.
type BSTR struct {
	p *bstrData
}

type bstrData struct {
	units []uint16
	freed atomic.Bool
}

// SysAllocString allocates a BSTR holding s.
func SysAllocString(s string) BSTR {
	liveBSTRs.Add(1)
	return BSTR{p: &bstrData{units: utf16.Encode([]rune(s))}}
}

// SysFreeString frees b. Freeing the null BSTR is a no-op; freeing twice panics.
func SysFreeString(b BSTR) {
	if b.p == nil {
		return
	}
	if b.p.freed.Swap(true) {
		panic("com: BSTR freed twice")
	}
	liveBSTRs.Add(-1)
}

// IsNull reports whether b is the null BSTR.
func (b BSTR) IsNull() bool { return b.p == nil }

// Len returns the length in UTF-16 code units.
func (b BSTR) Len() int {
	if b.p == nil {
		return 0
	}
	return len(b.p.units)
}

// String decodes exactly Len code units.
func (b BSTR) String() string {
	if b.p == nil {
		return ""
	}
	if b.p.freed.Load() {
		panic("com: BSTR used after free")
	}
	return string(utf16.Decode(b.p.units[:b.Len()]))
}

// LiveBSTRs returns the number of allocated and not yet freed strings.
func LiveBSTRs() int64 {
	return liveBSTRs.Load()
}
