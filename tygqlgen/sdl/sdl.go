// Package sdl renders the intermediate representation as GraphQL schema
// definition language.
package sdl

import (
	"bytes"
	"fmt"

	"github.com/broady/tygql/tygqlgen/ir"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Emit renders schema as SDL. Definitions follow registration order, then
// Query and Mutation. Native scalars are omitted.
func Emit(schema *ir.Schema) ([]byte, error) {
	doc, err := Document(schema)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.Bytes(), nil
}

// Document converts schema to a gqlparser schema document.
func Document(schema *ir.Schema) (*ast.SchemaDocument, error) {
	if schema == nil || schema.Structures == nil {
		return nil, fmt.Errorf("schema has no structures")
	}
	doc := &ast.SchemaDocument{}

	var err error
	schema.Structures.Each(func(name string, st ir.Structure) {
		if err != nil || ir.IsNativeScalar(name) {
			return
		}
		var def *ast.Definition
		def, err = definition(st)
		if def != nil {
			doc.Definitions = append(doc.Definitions, def)
		}
	})
	if err != nil {
		return nil, err
	}

	for _, root := range []*ir.ObjectType{schema.Query, schema.Mutation} {
		if root == nil {
			continue
		}
		def, err := definition(root)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc, nil
}

func definition(st ir.Structure) (*ast.Definition, error) {
	switch st := st.(type) {
	case *ir.ScalarType:
		return &ast.Definition{
			Kind:        ast.Scalar,
			Name:        st.Name,
			Description: st.Description,
		}, nil
	case *ir.ObjectType:
		def := &ast.Definition{
			Kind:        ast.Object,
			Name:        st.Name,
			Description: st.Description,
			Interfaces:  st.Interfaces,
		}
		for _, f := range st.Fields {
			fd := &ast.FieldDefinition{
				Name:        f.Name,
				Description: f.Description,
				Type:        Type(f.Type),
			}
			for _, a := range f.Args {
				fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
					Name:        a.Name,
					Description: a.Description,
					Type:        Type(a.Type),
				})
			}
			def.Fields = append(def.Fields, fd)
		}
		return def, nil
	case *ir.InputObjectType:
		def := &ast.Definition{
			Kind:        ast.InputObject,
			Name:        st.Name,
			Description: st.Description,
		}
		for _, f := range st.Fields {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Name:        f.Name,
				Description: f.Description,
				Type:        Type(f.Type),
			})
		}
		return def, nil
	}
	return nil, fmt.Errorf("not implemented generator for %s %s", st.StructureKind(), st.StructureName())
}

// Type converts a TypePointer to its gqlparser form. A NonNull wrapper
// becomes the NonNull flag of its inner type.
func Type(tp ir.TypePointer) *ast.Type {
	switch t := tp.(type) {
	case *ir.Named:
		return ast.NamedType(t.Name, nil)
	case *ir.List:
		return ast.ListType(Type(t.Items), nil)
	case *ir.NonNull:
		inner := *Type(t.Inner)
		inner.NonNull = true
		return &inner
	}
	return nil
}
