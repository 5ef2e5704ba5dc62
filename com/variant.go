package com

import "fmt"

// VariantBool is the automation boolean: -1 is true, 0 is false.
type VariantBool int16

const (
	VariantTrue  VariantBool = -1
	VariantFalse VariantBool = 0
)

// Bool treats every non-zero value as true.
func (v VariantBool) Bool() bool { return v != 0 }

// ToVariantBool converts a Go bool.
func ToVariantBool(b bool) VariantBool {
	if b {
		return VariantTrue
	}
	return VariantFalse
}

// VarType is the VARTYPE tag of a VARIANT or SAFEARRAY element.
type VarType uint16

const (
	VT_EMPTY   VarType = 0
	VT_I2      VarType = 2
	VT_I4      VarType = 3
	VT_R4      VarType = 4
	VT_R8      VarType = 5
	VT_BSTR    VarType = 8
	VT_BOOL    VarType = 11
	VT_VARIANT VarType = 12
	VT_I1      VarType = 16
	VT_UI1     VarType = 17
	VT_UI2     VarType = 18
	VT_UI4     VarType = 19
	VT_INT     VarType = 22
	VT_UINT    VarType = 23
)

var varTypeNames = map[VarType]string{
	VT_EMPTY: "VT_EMPTY", VT_I2: "VT_I2", VT_I4: "VT_I4", VT_R4: "VT_R4",
	VT_R8: "VT_R8", VT_BSTR: "VT_BSTR", VT_BOOL: "VT_BOOL", VT_VARIANT: "VT_VARIANT",
	VT_I1: "VT_I1", VT_UI1: "VT_UI1", VT_UI2: "VT_UI2", VT_UI4: "VT_UI4",
	VT_INT: "VT_INT", VT_UINT: "VT_UINT",
}

func (vt VarType) String() string {
	if s, ok := varTypeNames[vt]; ok {
		return s
	}
	return fmt.Sprintf("VT(%d)", uint16(vt))
}

// Size returns the element size in bytes of numeric tags, or 0.
func (vt VarType) Size() int {
	switch vt {
	case VT_I1, VT_UI1:
		return 1
	case VT_I2, VT_UI2, VT_BOOL:
		return 2
	case VT_I4, VT_UI4, VT_R4, VT_INT, VT_UINT:
		return 4
	case VT_R8:
		return 8
	}
	return 0
}

// Variant is the subset of VARIANT used to address collection items.
type Variant struct {
	VT  VarType
	Val int64
}

// NewVariantI4 returns a VT_I4 variant holding i.
func NewVariantI4(i int32) Variant {
	return Variant{VT: VT_I4, Val: int64(i)}
}

// Int32 returns the value of a VT_I4 or VT_I2 variant.
func (v Variant) Int32() (int32, bool) {
	switch v.VT {
	case VT_I4, VT_I2, VT_INT:
		return int32(v.Val), true
	}
	return 0, false
}
