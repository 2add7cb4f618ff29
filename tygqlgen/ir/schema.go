package ir

import "fmt"

// Native scalar names. These always exist in Schema.Structures and are never
// emitted as declarations.
const (
	ScalarString  = "String"
	ScalarInt     = "Int"
	ScalarFloat   = "Float"
	ScalarBoolean = "Boolean"
	ScalarID      = "ID"

	// ScalarDate is the one custom scalar every schema carries.
	ScalarDate = "Date"
)

var nativeScalars = map[string]bool{
	ScalarString:  true,
	ScalarInt:     true,
	ScalarFloat:   true,
	ScalarBoolean: true,
	ScalarID:      true,
}

// IsNativeScalar reports whether name is one of the five built-in scalars.
func IsNativeScalar(name string) bool {
	return nativeScalars[name]
}

// StructureKind identifies the category of a named structure.
type StructureKind int

const (
	StructureScalar StructureKind = iota
	StructureObject
	StructureInputObject
	StructureUnion
	StructureEnum
	StructureInterface
)

// String returns the string representation of the structure kind.
func (k StructureKind) String() string {
	switch k {
	case StructureScalar:
		return "Scalar"
	case StructureObject:
		return "Object"
	case StructureInputObject:
		return "InputObject"
	case StructureUnion:
		return "Union"
	case StructureEnum:
		return "Enum"
	case StructureInterface:
		return "Interface"
	default:
		return "Unknown"
	}
}

// Structure is a named type stored in Schema.Structures.
type Structure interface {
	StructureKind() StructureKind
	StructureName() string
	StructureDescription() string
}

// ScalarType is a leaf type.
type ScalarType struct {
	Name        string
	Description string
}

func (*ScalarType) StructureKind() StructureKind   { return StructureScalar }
func (s *ScalarType) StructureName() string        { return s.Name }
func (s *ScalarType) StructureDescription() string { return s.Description }

// NativeScalars returns fresh descriptors for the built-in scalars in their
// canonical order.
func NativeScalars() []*ScalarType {
	return []*ScalarType{
		{Name: ScalarString},
		{Name: ScalarInt},
		{Name: ScalarFloat},
		{Name: ScalarBoolean},
		{Name: ScalarID},
	}
}

// ObjectType is an output type with fields.
type ObjectType struct {
	Name        string
	Description string
	Fields      []Field

	// Interfaces is carried for completeness; extraction never fills it.
	Interfaces []string

	// GoType is the Go type expression of the source value, e.g. "places.Location".
	// Empty for the synthetic Query and Mutation objects.
	GoType string
}

func (*ObjectType) StructureKind() StructureKind   { return StructureObject }
func (o *ObjectType) StructureName() string        { return o.Name }
func (o *ObjectType) StructureDescription() string { return o.Description }

// FindField returns the field with the given name, or nil.
func (o *ObjectType) FindField(name string) *Field {
	for i := range o.Fields {
		if o.Fields[i].Name == name {
			return &o.Fields[i]
		}
	}
	return nil
}

// InputObjectType is an input type with data-only fields.
type InputObjectType struct {
	Name        string
	Description string
	Fields      []InputField

	// GoType is the Go type expression the input decodes into.
	GoType string
}

func (*InputObjectType) StructureKind() StructureKind   { return StructureInputObject }
func (o *InputObjectType) StructureName() string        { return o.Name }
func (o *InputObjectType) StructureDescription() string { return o.Description }

// Field is an output field.
type Field struct {
	Name        string
	Description string
	Type        TypePointer
	Args        []Arg

	// Resolution is nil when the field is read by default value lookup.
	Resolution Resolution
}

// Arg is a field argument.
type Arg struct {
	Name        string
	Description string
	Type        TypePointer

	// GoType is the Go type expression of the parameter.
	GoType string
}

// InputField is a field of an input object.
type InputField struct {
	Name        string
	Description string
	Type        TypePointer

	// GoName is the Go struct field the value decodes into.
	GoName string
}

// Import is a Go package referenced by Go type expressions in the schema.
type Import struct {
	Path string
	Name string
}

// Schema is the complete extracted schema.
type Schema struct {
	Description string

	Query        *ObjectType
	Mutation     *ObjectType
	Subscription *ObjectType

	// Structures holds every named type keyed by name, in registration order.
	Structures *Structures

	// Imports lists the packages referenced by GoType expressions, in first-use order.
	Imports []Import
}

// NewSchema returns an empty schema whose structures hold the native scalars.
func NewSchema() *Schema {
	s := &Schema{Structures: NewStructures()}
	for _, scalar := range NativeScalars() {
		s.Structures.Add(scalar)
	}
	return s
}

// Roots returns the non-nil root objects in emission order.
func (s *Schema) Roots() []*ObjectType {
	var roots []*ObjectType
	for _, r := range []*ObjectType{s.Query, s.Mutation, s.Subscription} {
		if r != nil {
			roots = append(roots, r)
		}
	}
	return roots
}

// Structures is an insertion-ordered map of structures keyed by name.
type Structures struct {
	names []string
	byKey map[string]Structure
}

// NewStructures returns an empty map.
func NewStructures() *Structures {
	return &Structures{byKey: make(map[string]Structure)}
}

// Add stores st under its name. Adding an existing name returns an error.
func (m *Structures) Add(st Structure) error {
	name := st.StructureName()
	if _, exists := m.byKey[name]; exists {
		return fmt.Errorf("structure %q already registered", name)
	}
	m.names = append(m.names, name)
	m.byKey[name] = st
	return nil
}

// Get returns the structure named name, or nil.
func (m *Structures) Get(name string) Structure {
	if m == nil {
		return nil
	}
	return m.byKey[name]
}

// Names returns the keys in insertion order.
func (m *Structures) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Len returns the number of structures.
func (m *Structures) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Each calls fn for every structure in insertion order.
func (m *Structures) Each(fn func(name string, st Structure)) {
	if m == nil {
		return
	}
	for _, name := range m.names {
		fn(name, m.byKey[name])
	}
}
