package capdl

import "testing"

func TestParseObjectType(t *testing.T) {
	cases := []struct {
		in   string
		want ObjectType
		err  bool
	}{
		{in: "seL4_TCBObject", want: TCBObject},
		{in: "EndpointObject", want: EndpointObject},
		{in: "  seL4_FrameObject ", want: FrameObject},
		{in: "", err: true},
		{in: "seL4_Bogus", err: true},
	}

	for _, tc := range cases {
		got, err := ParseObjectType(tc.in)
		if tc.err {
			if err == nil {
				t.Fatalf("ParseObjectType(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseObjectType(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseObjectType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestObjectTypesAreValid(t *testing.T) {
	types := ObjectTypes()
	if len(types) != 16 {
		t.Fatalf("expected 16 object types, got %d", len(types))
	}
	for _, typ := range types {
		if !typ.Valid() {
			t.Fatalf("%q reported invalid", typ)
		}
	}
	if ObjectType("seL4_Nope").Valid() {
		t.Fatalf("unknown type reported valid")
	}
}

func TestRightsText(t *testing.T) {
	if got := (CanRead | CanWrite).String(); got != "RW" {
		t.Fatalf("CanRead|CanWrite = %q, want RW", got)
	}
	if got := AllRights.String(); got != "RWGP" {
		t.Fatalf("AllRights = %q, want RWGP", got)
	}

	var parsed Rights
	if err := parsed.UnmarshalText([]byte("rw")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed != CanRead|CanWrite {
		t.Fatalf("parsed = %v, want RW", parsed)
	}
	if !AllRights.Has(CanGrant) {
		t.Fatalf("AllRights should include CanGrant")
	}
}
