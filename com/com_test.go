package com

import (
	"testing"
)

func TestHRESULT(t *testing.T) {
	tests := []struct {
		hr     HRESULT
		failed bool
		hex    string
		name   string
	}{
		{S_OK, false, "0x00000000", "S_OK"},
		{S_FALSE, false, "0x00000001", "S_FALSE"},
		{E_FAIL, true, "0x80004005", "E_FAIL"},
		{E_INVALIDARG, true, "0x80070057", "E_INVALIDARG"},
		{DISP_E_BADINDEX, true, "0x8002000b", "DISP_E_BADINDEX"},
		{HRESULT(-2147155969), true, "0x8004ffff", "0x8004ffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.hr.Failed() != tt.failed {
				t.Errorf("Failed() = %v, want %v", tt.hr.Failed(), tt.failed)
			}
			if tt.hr.Succeeded() == tt.failed {
				t.Errorf("Succeeded() inconsistent with Failed()")
			}
			if got := tt.hr.Hex(); got != tt.hex {
				t.Errorf("Hex() = %q, want %q", got, tt.hex)
			}
			if got := tt.hr.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestBSTR(t *testing.T) {
	base := LiveBSTRs()

	b := SysAllocString("Tecnai µ")
	if LiveBSTRs() != base+1 {
		t.Fatalf("expected one live BSTR, have %d", LiveBSTRs()-base)
	}
	if b.Len() != 8 {
		t.Errorf("Len() = %d, want 8", b.Len())
	}
	if b.String() != "Tecnai µ" {
		t.Errorf("String() = %q", b.String())
	}
	SysFreeString(b)
	if LiveBSTRs() != base {
		t.Fatalf("BSTR not freed")
	}

	var null BSTR
	if !null.IsNull() || null.String() != "" || null.Len() != 0 {
		t.Error("null BSTR should read as empty")
	}
	SysFreeString(null)
}

func TestBSTR_DoubleFreePanics(t *testing.T) {
	b := SysAllocString("x")
	SysFreeString(b)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double free")
		}
	}()
	SysFreeString(b)
}

func TestVariantBool(t *testing.T) {
	tests := []struct {
		v    VariantBool
		want bool
	}{
		{VariantTrue, true},
		{VariantFalse, false},
		{VariantBool(1), true},
		{VariantBool(-7), true},
	}
	for _, tt := range tests {
		if got := tt.v.Bool(); got != tt.want {
			t.Errorf("VariantBool(%d).Bool() = %v, want %v", tt.v, got, tt.want)
		}
	}
	if ToVariantBool(true) != -1 || ToVariantBool(false) != 0 {
		t.Error("ToVariantBool produced non-canonical values")
	}
}

func TestVariantIndex(t *testing.T) {
	v := NewVariantI4(7)
	if v.VT != VT_I4 {
		t.Fatalf("VT = %v", v.VT)
	}
	if i, ok := v.Int32(); !ok || i != 7 {
		t.Fatalf("Int32() = %d, %v", i, ok)
	}
	if _, ok := (Variant{VT: VT_BSTR}).Int32(); ok {
		t.Fatal("BSTR variant should not be an index")
	}
}

func TestMemSafeArray(t *testing.T) {
	base := LiveSafeArrays()
	sa := SafeArrayOf(VT_I4, []int32{1, 2, 3, 4}, Bound{Lower: 2, Upper: 5})

	if sa.GetDim() != 1 {
		t.Fatalf("GetDim() = %d", sa.GetDim())
	}
	lo, hr := sa.GetLBound(1)
	if hr.Failed() || lo != 2 {
		t.Fatalf("GetLBound(1) = %d, %v", lo, hr)
	}
	hi, hr := sa.GetUBound(1)
	if hr.Failed() || hi != 5 {
		t.Fatalf("GetUBound(1) = %d, %v", hi, hr)
	}
	if _, hr := sa.GetLBound(2); hr != DISP_E_BADINDEX {
		t.Fatalf("GetLBound(2) = %v, want DISP_E_BADINDEX", hr)
	}

	data, hr := sa.AccessData()
	if hr.Failed() || len(data) != 16 {
		t.Fatalf("AccessData() = %d bytes, %v", len(data), hr)
	}
	if sa.Destroy() != DISP_E_ARRAYISLOCKED {
		t.Fatal("Destroy should fail while locked")
	}
	if hr := sa.UnaccessData(); hr.Failed() {
		t.Fatalf("UnaccessData() = %v", hr)
	}
	if hr := sa.UnaccessData(); !hr.Failed() {
		t.Fatal("unbalanced UnaccessData should fail")
	}
	if hr := sa.Destroy(); hr.Failed() {
		t.Fatalf("Destroy() = %v", hr)
	}
	if LiveSafeArrays() != base {
		t.Fatalf("array leaked")
	}
}

type testObject struct {
	Refs
	freed bool
}

func newTestObject() *testObject {
	o := &testObject{}
	o.Init(func() { o.freed = true })
	return o
}

func (o *testObject) QueryInterface(iid GUID) (Unknown, HRESULT) {
	return QueryInterface(o, iid)
}

type testFactory struct {
	Refs
	created int
	locks   int
}

func (f *testFactory) QueryInterface(iid GUID) (Unknown, HRESULT) {
	return QueryInterface(f, iid, IIDClassFactory)
}

func (f *testFactory) CreateInstance(outer Unknown, iid GUID) (Unknown, HRESULT) {
	if outer != nil {
		return nil, CLASS_E_NOAGGREGATION
	}
	obj := newTestObject()
	defer obj.Release()
	f.created++
	return obj.QueryInterface(iid)
}

func (f *testFactory) LockServer(lock bool) HRESULT {
	if lock {
		f.locks++
	} else {
		f.locks--
	}
	return S_OK
}

func TestRefs(t *testing.T) {
	o := newTestObject()
	if o.AddRef() != 2 {
		t.Fatal("AddRef should return 2")
	}
	if o.Release() != 1 || o.freed {
		t.Fatal("object freed early")
	}
	if o.Release() != 0 || !o.freed {
		t.Fatal("object not freed at zero")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on over-release")
		}
	}()
	o.Release()
}

func TestQueryInterface(t *testing.T) {
	o := newTestObject()
	defer o.Release()

	unk, hr := o.QueryInterface(IIDUnknown)
	if hr.Failed() || unk == nil {
		t.Fatalf("QI(IUnknown) = %v", hr)
	}
	if o.Count() != 2 {
		t.Fatalf("QI should AddRef, count %d", o.Count())
	}
	unk.Release()

	if _, hr := o.QueryInterface(IIDClassFactory); hr != E_NOINTERFACE {
		t.Fatalf("QI(IClassFactory) = %v, want E_NOINTERFACE", hr)
	}
}

func TestClassRegistry(t *testing.T) {
	clsid := MustGUID("6d3b1a24-5d7e-4f51-9b0e-0d1c2a7e4f10")
	f := &testFactory{}
	f.Init(nil)
	defer f.Release()

	if _, hr := CreateInstance(clsid, IIDUnknown); hr != CO_E_NOTINITIALIZED {
		t.Fatalf("CreateInstance before Initialize = %v", hr)
	}

	if hr := Initialize(); hr.Failed() {
		t.Fatalf("Initialize() = %v", hr)
	}
	defer Uninitialize()

	if _, hr := CreateInstance(clsid, IIDUnknown); hr != REGDB_E_CLASSNOTREG {
		t.Fatalf("CreateInstance unregistered = %v", hr)
	}

	cookie, hr := RegisterClass(clsid, f)
	if hr.Failed() {
		t.Fatalf("RegisterClass() = %v", hr)
	}
	if _, hr := RegisterClass(clsid, f); hr != E_INVALIDARG {
		t.Fatalf("duplicate RegisterClass = %v", hr)
	}

	unk, hr := CreateInstance(clsid, IIDUnknown)
	if hr.Failed() {
		t.Fatalf("CreateInstance() = %v", hr)
	}
	obj := unk.(*testObject)
	if obj.Count() != 1 {
		t.Fatalf("new instance count = %d, want 1", obj.Count())
	}
	unk.Release()
	if !obj.freed {
		t.Fatal("instance not freed after final release")
	}

	if hr := RevokeClass(cookie); hr.Failed() {
		t.Fatalf("RevokeClass() = %v", hr)
	}
	if f.Count() != 1 {
		t.Fatalf("registry kept a factory reference: %d", f.Count())
	}
	if hr := RevokeClass(cookie); hr != E_INVALIDARG {
		t.Fatalf("second RevokeClass = %v", hr)
	}
}
