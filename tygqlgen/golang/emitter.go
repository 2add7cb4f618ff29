// Package golang emits Go source that builds a github.com/graphql-go/graphql
// schema from the intermediate representation.
//
// The generated file declares one package-level variable per structure and a
// NewSchema function that assigns them, then wires Query and Mutation. Root
// fields call the annotated package-level functions directly; other fields
// call methods on, or read properties of, the resolved parent value.
package golang

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/broady/tygql/tygqlgen/ir"
	"golang.org/x/tools/imports"
)

// Header is the first line of every generated file.
const Header = "// Code generated by tygql. DO NOT EDIT."

// RuntimePath is the import path of the runtime helpers generated code calls.
const RuntimePath = "github.com/broady/tygql"

// GraphQLPath is the import path of the schema library generated code targets.
const GraphQLPath = "github.com/graphql-go/graphql"

// Options configures Go emission.
type Options struct {
	// Package is the package clause of the generated file. Defaults to "schema".
	Package string

	// SkipFormat returns the raw output without running goimports.
	SkipFormat bool
}

// Emit renders schema as a Go source file. The same schema always yields
// byte-identical output.
func Emit(schema *ir.Schema, opts Options) ([]byte, error) {
	if schema == nil || schema.Structures == nil {
		return nil, fmt.Errorf("schema has no structures")
	}
	if opts.Package == "" {
		opts.Package = "schema"
	}

	e := &emitter{
		schema: schema,
		vars:   make(map[string]string),
		taken:  make(map[string]bool),
	}
	if err := e.assignVars(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	e.emitFile(&buf, opts.Package)
	if e.err != nil {
		return nil, e.err
	}

	if opts.SkipFormat {
		return buf.Bytes(), nil
	}
	out, err := imports.Process("", buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return out, nil
}

// emitter holds the state of one Emit call.
type emitter struct {
	schema *ir.Schema

	// vars maps structure names to their package-level variables.
	vars  map[string]string
	taken map[string]bool
	order []string

	w     *bytes.Buffer
	depth int
	err   error
}

const (
	queryVar    = "rootQuery"
	mutationVar = "rootMutation"
)

// assignVars picks a unique variable for every emitted structure.
func (e *emitter) assignVars() error {
	e.taken[queryVar] = true
	e.taken[mutationVar] = true
	for _, imp := range e.schema.Imports {
		e.taken[imp.Name] = true
	}

	var err error
	e.schema.Structures.Each(func(name string, st ir.Structure) {
		if err != nil || ir.IsNativeScalar(name) {
			return
		}
		switch st.StructureKind() {
		case ir.StructureScalar, ir.StructureObject, ir.StructureInputObject:
		default:
			err = fmt.Errorf("not implemented generator for %s %s", st.StructureKind(), name)
			return
		}
		v := lowerFirst(name) + "Type"
		for i := 2; e.taken[v]; i++ {
			v = fmt.Sprintf("%sType%d", lowerFirst(name), i)
		}
		e.taken[v] = true
		e.vars[name] = v
		e.order = append(e.order, name)
	})
	return err
}

func (e *emitter) line(format string, args ...any) {
	for i := 0; i < e.depth; i++ {
		e.w.WriteByte('\t')
	}
	fmt.Fprintf(e.w, format, args...)
	e.w.WriteByte('\n')
}

func (e *emitter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *emitter) emitFile(buf *bytes.Buffer, pkg string) {
	e.w = buf
	e.line("%s", Header)
	e.line("")
	e.line("package %s", pkg)
	e.line("")
	e.line("import (")
	e.depth++
	e.line("%q", RuntimePath)
	e.line("%q", GraphQLPath)
	for _, imp := range e.schema.Imports {
		e.line("%s %q", imp.Name, imp.Path)
	}
	e.depth--
	e.line(")")
	e.line("")

	if len(e.order) > 0 || e.schema.Query != nil || e.schema.Mutation != nil {
		e.line("var (")
		e.depth++
		for _, name := range e.order {
			e.line("%s %s", e.vars[name], goTypeOf(e.schema.Structures.Get(name)))
		}
		if e.schema.Query != nil {
			e.line("%s *graphql.Object", queryVar)
		}
		if e.schema.Mutation != nil {
			e.line("%s *graphql.Object", mutationVar)
		}
		e.depth--
		e.line(")")
		e.line("")
	}

	e.line("// NewSchema builds the GraphQL schema.")
	e.line("func NewSchema() (graphql.Schema, error) {")
	e.depth++
	for _, name := range e.order {
		switch st := e.schema.Structures.Get(name).(type) {
		case *ir.ScalarType:
			e.emitScalar(st)
		case *ir.ObjectType:
			e.emitObject(e.vars[name], st)
		case *ir.InputObjectType:
			e.emitInput(st)
		}
	}
	if q := e.schema.Query; q != nil {
		e.emitObject(queryVar, q)
	}
	if m := e.schema.Mutation; m != nil {
		e.emitObject(mutationVar, m)
	}
	e.emitSchemaConfig()
	e.depth--
	e.line("}")
}

func goTypeOf(st ir.Structure) string {
	switch st.StructureKind() {
	case ir.StructureScalar:
		return "*graphql.Scalar"
	case ir.StructureInputObject:
		return "*graphql.InputObject"
	default:
		return "*graphql.Object"
	}
}

func (e *emitter) emitScalar(s *ir.ScalarType) {
	if s.Name != ir.ScalarDate {
		e.fail(fmt.Errorf("scalar %s has no runtime codec", s.Name))
		return
	}
	e.line("%s = graphql.NewScalar(graphql.ScalarConfig{", e.vars[s.Name])
	e.depth++
	e.line("Name: %q,", s.Name)
	e.description(s.Description)
	e.line("Serialize: tygql.SerializeDate,")
	e.line("ParseValue: tygql.ParseDate,")
	e.line("ParseLiteral: tygql.ParseDateLiteral,")
	e.depth--
	e.line("})")
}

func (e *emitter) description(d string) {
	if d != "" {
		e.line("Description: %s,", strconv.Quote(d))
	}
}

// emitObject assigns v.
func (e *emitter) emitObject(v string, o *ir.ObjectType) {
	e.line("%s = graphql.NewObject(graphql.ObjectConfig{", v)
	e.depth++
	e.line("Name: %q,", o.Name)
	e.description(o.Description)
	e.line("Fields: graphql.FieldsThunk(func() graphql.Fields {")
	e.depth++
	e.line("return graphql.Fields{")
	e.depth++
	for _, f := range o.Fields {
		e.emitField(o, f)
	}
	e.depth--
	e.line("}")
	e.depth--
	e.line("}),")
	e.depth--
	e.line("})")
}

func (e *emitter) emitField(o *ir.ObjectType, f ir.Field) {
	if root, ok := f.Resolution.(*ir.RootResolution); ok {
		e.line("// %s.%s", root.Module, root.Member)
	}
	e.line("%q: &graphql.Field{", f.Name)
	e.depth++
	e.line("Type: %s,", e.typeExpr(f.Type))
	e.description(f.Description)
	if len(f.Args) > 0 {
		e.line("Args: graphql.FieldConfigArgument{")
		e.depth++
		for _, a := range f.Args {
			e.line("%q: &graphql.ArgumentConfig{", a.Name)
			e.depth++
			e.line("Type: %s,", e.typeExpr(a.Type))
			e.description(a.Description)
			e.depth--
			e.line("},")
		}
		e.depth--
		e.line("},")
	}
	switch res := f.Resolution.(type) {
	case nil:
	case *ir.RootResolution:
		e.line("Resolve: func(p graphql.ResolveParams) (interface{}, error) {")
		e.depth++
		e.emitResolverBody(f, e.rootCallee(res), res.Call, false)
		e.depth--
		e.line("},")
	case *ir.ParentResolution:
		if o.GoType == "" {
			e.fail(fmt.Errorf("object %s has parent-resolved field %s but no Go type", o.Name, f.Name))
			break
		}
		e.line("Resolve: func(p graphql.ResolveParams) (interface{}, error) {")
		e.depth++
		e.line("parent, err := tygql.Source[%s](p)", o.GoType)
		e.line("if err != nil {")
		e.line("\treturn nil, err")
		e.line("}")
		e.emitResolverBody(f, "parent."+res.Member, res.Call, res.Property)
		e.depth--
		e.line("},")
	default:
		e.fail(fmt.Errorf("field %s.%s: unsupported resolution %T", o.Name, f.Name, res))
	}
	e.depth--
	e.line("},")
}

func (e *emitter) rootCallee(res *ir.RootResolution) string {
	for _, imp := range e.schema.Imports {
		if imp.Path == res.ImportPath {
			return imp.Name + "." + res.Member
		}
	}
	return res.Container + "." + res.Member
}

// emitResolverBody decodes arguments in declared order, then calls callee
// with them positionally, or reads it when property is set.
func (e *emitter) emitResolverBody(f ir.Field, callee string, call ir.Call, property bool) {
	var params []string
	if call.Context {
		params = append(params, "p.Context")
	}
	for i, a := range f.Args {
		v := fmt.Sprintf("arg%d", i)
		e.line("%s, err := tygql.Arg[%s](p, %q)", v, a.GoType, a.Name)
		e.line("if err != nil {")
		e.line("\treturn nil, err")
		e.line("}")
		params = append(params, v)
	}

	expr := callee
	if !property {
		expr = callee + "(" + strings.Join(params, ", ") + ")"
	}

	switch call.Deferred {
	case ir.DeferredNone:
		if call.Error {
			e.line("return %s", expr)
		} else {
			e.line("return %s, nil", expr)
		}
		return
	case ir.DeferredThunk, ir.DeferredThunkPtr:
	default:
		e.fail(fmt.Errorf("field %s: unknown deferred kind %s", f.Name, call.Deferred))
		return
	}

	if call.Error {
		e.line("thunk, err := %s", expr)
		e.line("if err != nil {")
		e.line("\treturn nil, err")
		e.line("}")
	} else {
		e.line("thunk := %s", expr)
	}
	fn := "thunk"
	if call.Deferred == ir.DeferredThunkPtr {
		e.line("if thunk == nil {")
		e.line("\treturn nil, nil")
		e.line("}")
		fn = "*thunk"
	}
	if call.ThunkError {
		e.line("return tygql.DeferErr(%s), nil", fn)
	} else {
		e.line("return tygql.Defer(%s), nil", fn)
	}
}

func (e *emitter) emitInput(in *ir.InputObjectType) {
	if in.GoType != "" {
		e.line("tygql.RegisterInput[%s](map[string]string{", in.GoType)
		e.depth++
		for _, f := range in.Fields {
			e.line("%q: %q,", f.Name, f.GoName)
		}
		e.depth--
		e.line("})")
	}
	e.line("%s = graphql.NewInputObject(graphql.InputObjectConfig{", e.vars[in.Name])
	e.depth++
	e.line("Name: %q,", in.Name)
	e.description(in.Description)
	e.line("Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {")
	e.depth++
	e.line("return graphql.InputObjectConfigFieldMap{")
	e.depth++
	for _, f := range in.Fields {
		e.line("%q: &graphql.InputObjectFieldConfig{", f.Name)
		e.depth++
		e.line("Type: %s,", e.typeExpr(f.Type))
		e.description(f.Description)
		e.depth--
		e.line("},")
	}
	e.depth--
	e.line("}")
	e.depth--
	e.line("}),")
	e.depth--
	e.line("})")
}

func (e *emitter) emitSchemaConfig() {
	e.line("return graphql.NewSchema(graphql.SchemaConfig{")
	e.depth++
	if e.schema.Query != nil {
		e.line("Query: %s,", queryVar)
	}
	if e.schema.Mutation != nil {
		e.line("Mutation: %s,", mutationVar)
	}
	if len(e.order) > 0 {
		e.line("Types: []graphql.Type{")
		e.depth++
		for _, name := range e.order {
			e.line("%s,", e.vars[name])
		}
		e.depth--
		e.line("},")
	}
	e.depth--
	e.line("})")
}

// typeExpr renders tp as nested wrapper calls around a type reference.
func (e *emitter) typeExpr(tp ir.TypePointer) string {
	switch t := tp.(type) {
	case *ir.Named:
		if ir.IsNativeScalar(t.Name) {
			return "graphql." + t.Name
		}
		v, ok := e.vars[t.Name]
		if !ok {
			e.fail(fmt.Errorf("reference to unknown type %s", t.Name))
			return "nil"
		}
		return v
	case *ir.List:
		return "graphql.NewList(" + e.typeExpr(t.Items) + ")"
	case *ir.NonNull:
		return "graphql.NewNonNull(" + e.typeExpr(t.Inner) + ")"
	default:
		e.fail(fmt.Errorf("missing type"))
		return "nil"
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
