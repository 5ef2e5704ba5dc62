package com

import "fmt"

// HRESULT is a COM status code. Negative values are failures.
type HRESULT int32

const (
	S_OK    HRESULT = 0
	S_FALSE HRESULT = 1

	E_NOTIMPL                 HRESULT = -2147467263 // 0x80004001
	E_NOINTERFACE             HRESULT = -2147467262 // 0x80004002
	E_POINTER                 HRESULT = -2147467261 // 0x80004003
	E_ABORT                   HRESULT = -2147467260 // 0x80004004
	E_FAIL                    HRESULT = -2147467259 // 0x80004005
	E_UNEXPECTED              HRESULT = -2147418113 // 0x8000FFFF
	E_OUTOFMEMORY             HRESULT = -2147024882 // 0x8007000E
	E_INVALIDARG              HRESULT = -2147024809 // 0x80070057
	CLASS_E_NOAGGREGATION     HRESULT = -2147221232 // 0x80040110
	CLASS_E_CLASSNOTAVAILABLE HRESULT = -2147221231 // 0x80040111
	REGDB_E_CLASSNOTREG       HRESULT = -2147221164 // 0x80040154
	CO_E_NOTINITIALIZED       HRESULT = -2147221008 // 0x800401F0
	DISP_E_TYPEMISMATCH       HRESULT = -2147352571 // 0x80020005
	DISP_E_BADINDEX           HRESULT = -2147352565 // 0x8002000B
	DISP_E_ARRAYISLOCKED      HRESULT = -2147352563 // 0x8002000D
)

// Failed reports whether hr is a failure code.
func (hr HRESULT) Failed() bool { return hr < 0 }

// Succeeded reports whether hr is a success code (including S_FALSE).
func (hr HRESULT) Succeeded() bool { return hr >= 0 }

// Hex formats the code the way Windows tools print it.
func (hr HRESULT) Hex() string {
	return fmt.Sprintf("0x%08x", uint32(hr))
}

func (hr HRESULT) String() string {
	if name, ok := hresultNames[hr]; ok {
		return name
	}
	return hr.Hex()
}

var hresultNames = map[HRESULT]string{
	S_OK:                      "S_OK",
	S_FALSE:                   "S_FALSE",
	E_NOTIMPL:                 "E_NOTIMPL",
	E_NOINTERFACE:             "E_NOINTERFACE",
	E_POINTER:                 "E_POINTER",
	E_ABORT:                   "E_ABORT",
	E_FAIL:                    "E_FAIL",
	E_UNEXPECTED:              "E_UNEXPECTED",
	E_OUTOFMEMORY:             "E_OUTOFMEMORY",
	E_INVALIDARG:              "E_INVALIDARG",
	CLASS_E_NOAGGREGATION:     "CLASS_E_NOAGGREGATION",
	CLASS_E_CLASSNOTAVAILABLE: "CLASS_E_CLASSNOTAVAILABLE",
	REGDB_E_CLASSNOTREG:       "REGDB_E_CLASSNOTREG",
	CO_E_NOTINITIALIZED:       "CO_E_NOTINITIALIZED",
	DISP_E_TYPEMISMATCH:       "DISP_E_TYPEMISMATCH",
	DISP_E_BADINDEX:           "DISP_E_BADINDEX",
	DISP_E_ARRAYISLOCKED:      "DISP_E_ARRAYISLOCKED",
}
