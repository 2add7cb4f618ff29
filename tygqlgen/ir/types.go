// Package ir defines the intermediate representation of a GraphQL schema
// extracted from annotated Go source. Emitters turn a Schema into target code.
package ir

import "strings"

// TypeKind identifies the category of a TypePointer.
type TypeKind int

const (
	KindNamed TypeKind = iota
	KindList
	KindNonNull
)

// String returns the string representation of the kind.
func (k TypeKind) String() string {
	switch k {
	case KindNamed:
		return "Named"
	case KindList:
		return "List"
	case KindNonNull:
		return "NonNull"
	default:
		return "Unknown"
	}
}

// TypePointer describes the list/nullability nesting of a field, argument or
// input field type. Leaves always name a structure in Schema.Structures.
type TypePointer interface {
	Kind() TypeKind

	// String renders the pointer in SDL notation, e.g. "[Location!]!".
	String() string

	sealed()
}

// Named references a structure by name.
type Named struct {
	Name string
}

func (*Named) Kind() TypeKind   { return KindNamed }
func (t *Named) String() string { return t.Name }
func (*Named) sealed()          {}

// List wraps an item type.
type List struct {
	Items TypePointer
}

func (*List) Kind() TypeKind   { return KindList }
func (t *List) String() string { return "[" + t.Items.String() + "]" }
func (*List) sealed()          {}

// NonNull marks the inner type as non-nullable.
// Inner is never itself a *NonNull.
type NonNull struct {
	Inner TypePointer
}

func (*NonNull) Kind() TypeKind   { return KindNonNull }
func (t *NonNull) String() string { return t.Inner.String() + "!" }
func (*NonNull) sealed()          {}

// NamedType returns a reference to the named structure.
func NamedType(name string) *Named {
	return &Named{Name: name}
}

// ListOf wraps items in a list.
func ListOf(items TypePointer) *List {
	return &List{Items: items}
}

// NonNullOf wraps inner in a NonNull. It panics if inner is already NonNull.
func NonNullOf(inner TypePointer) *NonNull {
	if inner.Kind() == KindNonNull {
		panic("ir: NonNull cannot wrap NonNull " + inner.String())
	}
	return &NonNull{Inner: inner}
}

// Leaf returns the name at the bottom of the pointer.
func Leaf(t TypePointer) string {
	for {
		switch v := t.(type) {
		case *Named:
			return v.Name
		case *List:
			t = v.Items
		case *NonNull:
			t = v.Inner
		default:
			return ""
		}
	}
}

// Equal reports whether a and b have the same nesting and leaf.
func Equal(a, b TypePointer) bool {
	switch av := a.(type) {
	case *Named:
		bv, ok := b.(*Named)
		return ok && av.Name == bv.Name
	case *List:
		bv, ok := b.(*List)
		return ok && Equal(av.Items, bv.Items)
	case *NonNull:
		bv, ok := b.(*NonNull)
		return ok && Equal(av.Inner, bv.Inner)
	}
	return false
}

// ParseTypePointer reads SDL type notation ("[String!]!") back into a TypePointer.
// It returns nil for malformed input.
func ParseTypePointer(s string) TypePointer {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasSuffix(s, "!") {
		inner := ParseTypePointer(s[:len(s)-1])
		if inner == nil || inner.Kind() == KindNonNull {
			return nil
		}
		return NonNullOf(inner)
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		items := ParseTypePointer(s[1 : len(s)-1])
		if items == nil {
			return nil
		}
		return ListOf(items)
	}
	if strings.ContainsAny(s, "[]! ") {
		return nil
	}
	return NamedType(s)
}
