package ir

import "testing"

func TestTypePointer_String(t *testing.T) {
	tests := []struct {
		name string
		tp   TypePointer
		want string
	}{
		{"named", NamedType("String"), "String"},
		{"non-null", NonNullOf(NamedType("String")), "String!"},
		{"list", ListOf(NamedType("Int")), "[Int]"},
		{"non-null list of non-null", NonNullOf(ListOf(NonNullOf(NamedType("Location")))), "[Location!]!"},
		{"nested lists", ListOf(ListOf(NamedType("Float"))), "[[Float]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tp.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNonNullOf_PanicsOnNonNull(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NonNullOf(NonNull) should panic")
		}
	}()
	NonNullOf(NonNullOf(NamedType("String")))
}

func TestLeaf(t *testing.T) {
	tp := NonNullOf(ListOf(NonNullOf(NamedType("Location"))))
	if got := Leaf(tp); got != "Location" {
		t.Errorf("Leaf() = %q, want Location", got)
	}
}

func TestParseTypePointer_RoundTrip(t *testing.T) {
	pointers := []TypePointer{
		NamedType("String"),
		NonNullOf(NamedType("ID")),
		ListOf(NamedType("Date")),
		NonNullOf(ListOf(NonNullOf(NamedType("T")))),
		ListOf(NonNullOf(ListOf(NamedType("Float")))),
	}
	for _, tp := range pointers {
		t.Run(tp.String(), func(t *testing.T) {
			got := ParseTypePointer(tp.String())
			if got == nil {
				t.Fatalf("ParseTypePointer(%q) = nil", tp.String())
			}
			if !Equal(got, tp) {
				t.Errorf("round trip = %s, want %s", got, tp)
			}
		})
	}
}

func TestParseTypePointer_Malformed(t *testing.T) {
	for _, in := range []string{"", "String!!", "[String", "Str ing", "[]"} {
		if got := ParseTypePointer(in); got != nil {
			t.Errorf("ParseTypePointer(%q) = %s, want nil", in, got)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NonNullOf(ListOf(NamedType("T")))
	if !Equal(a, NonNullOf(ListOf(NamedType("T")))) {
		t.Error("identical nesting should be equal")
	}
	if Equal(a, ListOf(NamedType("T"))) {
		t.Error("different nullability should not be equal")
	}
	if Equal(a, NonNullOf(ListOf(NamedType("U")))) {
		t.Error("different leaf should not be equal")
	}
}

func TestTypeKind_String(t *testing.T) {
	tests := []struct {
		kind TypeKind
		want string
	}{
		{KindNamed, "Named"},
		{KindList, "List"},
		{KindNonNull, "NonNull"},
		{TypeKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("TypeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
