package sdl

import (
	"context"
	"strings"
	"testing"

	"github.com/broady/tygql/tygqlgen/ir"
	"github.com/broady/tygql/tygqlgen/provider"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestType(t *testing.T) {
	tests := []string{"Int", "Int!", "[Int]", "[Int!]", "[Int!]!", "[[String!]]!"}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			got := Type(ir.ParseTypePointer(s)).String()
			if got != s {
				t.Errorf("Type(%s) = %s", s, got)
			}
		})
	}
}

func placesSchema(t *testing.T) *ir.Schema {
	t.Helper()
	p := &provider.SourceProvider{}
	s, err := p.BuildSchema(context.Background(), provider.SourceOptions{
		File:    "../provider/testdata/places/places.go",
		BaseDir: "../provider/testdata",
	})
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}
	return s
}

// TestEmit_RoundTrip loads the emitted SDL with gqlparser and checks every
// field type against the IR.
func TestEmit_RoundTrip(t *testing.T) {
	schema := placesSchema(t)
	out, err := Emit(schema)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := gqlparser.LoadSchema(&ast.Source{Name: "places.graphql", Input: string(out)})
	if err != nil {
		t.Fatalf("LoadSchema() error = %v\n%s", err, out)
	}

	check := func(typeName string, fields []ir.Field) {
		def := loaded.Types[typeName]
		if def == nil {
			t.Errorf("type %s missing from SDL", typeName)
			return
		}
		for _, f := range fields {
			fd := def.Fields.ForName(f.Name)
			if fd == nil {
				t.Errorf("%s.%s missing from SDL", typeName, f.Name)
				continue
			}
			if got := ir.ParseTypePointer(fd.Type.String()); !ir.Equal(got, f.Type) {
				t.Errorf("%s.%s: type = %s, want %s", typeName, f.Name, fd.Type, f.Type)
			}
			for _, a := range f.Args {
				ad := fd.Arguments.ForName(a.Name)
				if ad == nil {
					t.Errorf("%s.%s(%s) missing from SDL", typeName, f.Name, a.Name)
					continue
				}
				if got := ir.ParseTypePointer(ad.Type.String()); !ir.Equal(got, a.Type) {
					t.Errorf("%s.%s(%s): type = %s, want %s", typeName, f.Name, a.Name, ad.Type, a.Type)
				}
			}
		}
	}

	check("Query", schema.Query.Fields)
	check("Mutation", schema.Mutation.Fields)
	schema.Structures.Each(func(name string, st ir.Structure) {
		if o, ok := st.(*ir.ObjectType); ok {
			check(name, o.Fields)
		}
	})

	if loaded.Query == nil || loaded.Query.Name != "Query" {
		t.Errorf("loaded query root = %v", loaded.Query)
	}
	if loaded.Mutation == nil || loaded.Mutation.Name != "Mutation" {
		t.Errorf("loaded mutation root = %v", loaded.Mutation)
	}
	if def := loaded.Types["LocationFilter"]; def == nil || def.Kind != ast.InputObject {
		t.Errorf("LocationFilter = %v, want input object", def)
	}
}

func TestEmit_Deterministic(t *testing.T) {
	schema := placesSchema(t)
	a, err := Emit(schema)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Emit(schema)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("outputs differ")
	}
}

func TestEmit_Order(t *testing.T) {
	out, err := Emit(placesSchema(t))
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	last := -1
	for _, decl := range []string{"scalar Date", "type Location", "type Region", "input LocationFilter", "type Query", "type Mutation"} {
		i := strings.Index(src, decl)
		if i < 0 {
			t.Fatalf("output missing %q:\n%s", decl, src)
		}
		if i < last {
			t.Errorf("%q out of order", decl)
		}
		last = i
	}
	if strings.Contains(src, "scalar String") {
		t.Error("native scalar emitted")
	}
}

func TestEmit_NilSchema(t *testing.T) {
	if _, err := Emit(nil); err == nil {
		t.Error("Emit(nil) error = nil")
	}
}
