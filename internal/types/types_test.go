package types

import "testing"

func TestIdentityEquality(t *testing.T) {
	if Int != Int {
		t.Fatal("Int should be identical to itself")
	}
	if Int == String {
		t.Fatal("Int and String must not be identical")
	}
}

func TestIsRefCounted(t *testing.T) {
	tests := []struct {
		typ  *Type
		want bool
	}{
		{Error, false},
		{Nothing, false},
		{Bool, false},
		{SoftBool, false},
		{Int, false},
		{SoftInt, false},
		{Any, true},
		{IntOpt, true},
		{String, true},
		{StringOpt, true},
		{SoftString, true},
		{Object, true},
		{ObjectOpt, true},
		{FunctionGroup, true},
	}
	for _, tt := range tests {
		if got := tt.typ.IsRefCounted(); got != tt.want {
			t.Errorf("%s.IsRefCounted() = %v, want %v", tt.typ.Name(), got, tt.want)
		}
	}
}

func TestAcceptsNothing(t *testing.T) {
	accepting := []*Type{Any, Nothing, IntOpt, StringOpt, ObjectOpt, Error}
	for _, typ := range accepting {
		if !typ.AcceptsNothing() {
			t.Errorf("%s should accept NOTHING", typ.Name())
		}
	}

	rejecting := []*Type{Bool, Int, String, Object, FunctionGroup, SoftBool, SoftInt, SoftString}
	for _, typ := range rejecting {
		if typ.AcceptsNothing() {
			t.Errorf("%s should not accept NOTHING", typ.Name())
		}
	}
}

func TestIsSoft(t *testing.T) {
	for _, typ := range []*Type{SoftBool, SoftInt, SoftString} {
		if !IsSoft(typ) {
			t.Errorf("%s should be soft", typ.Name())
		}
	}
	for _, typ := range []*Type{Bool, Int, String, Any} {
		if IsSoft(typ) {
			t.Errorf("%s should not be soft", typ.Name())
		}
	}
}
