package provider

import (
	"cmp"
	"go/ast"
	"go/types"
	"log/slog"
	"slices"
	"strings"

	"github.com/broady/tygql/internal/directive"
	"github.com/broady/tygql/tygqlgen/ir"
	"github.com/iancoleman/strcase"
)

// builder accumulates structures while roots and members are resolved.
type builder struct {
	loader    *loader
	schema    *ir.Schema
	registry  *registry
	imports   *importSet
	fieldCase FieldCase
	logger    *slog.Logger
}

// fieldName returns the default external name of a Go identifier.
func (b *builder) fieldName(goName string) string {
	if b.fieldCase == FieldCasePreserve {
		return goName
	}
	return strcase.ToLowerCamel(goName)
}

// structure resolves a named Go type to a registered object or input
// object, building it on first reference.
func (b *builder) structure(named *types.Named, pos position, at site) (string, error) {
	origin := named.Origin()
	tn := origin.Obj()

	ref, ok := b.loader.lookup(tn)
	if !ok {
		return "", diagf(CategoryResolution, at.pos, "%s: could not resolve type %s", at.what, named)
	}
	spec := ref.node.(*ast.TypeSpec)
	ix, err := b.loader.index(ref.file)
	if err != nil {
		return "", err
	}

	want, other := directive.KindObject, directive.KindInput
	kind := ir.StructureObject
	if pos == inputPosition {
		want, other = other, want
		kind = ir.StructureInputObject
	}
	d := ix.Find(spec, want)
	if d == nil {
		if ix.Find(spec, other) != nil {
			return "", diagf(CategoryResolution, at.pos,
				"%s: could not resolve type %s: it is marked //gql:%s, not %s", at.what, named, other, pos.marker())
		}
		return "", diagf(CategoryResolution, at.pos,
			"%s: could not resolve type %s: it is not marked %s", at.what, named, pos.marker())
	}
	declPos := b.loader.position(tn.Pos())
	if !tn.Exported() {
		return "", diagf(CategoryVisibility, declPos, "type %s must be exported to be a schema type", tn.Name())
	}

	var targs []types.Type
	for i := 0; i < named.TypeArgs().Len(); i++ {
		targs = append(targs, named.TypeArgs().At(i))
	}
	if hidden := unexportedIn(named); hidden != nil {
		return "", diagf(CategoryVisibility, at.pos,
			"%s: type argument %s of %s must be exported", at.what, hidden.Name(), tn.Name())
	}

	name := tn.Name()
	if d.Name != "" {
		name = d.Name
	}
	for _, targ := range targs {
		name += "_" + typeArgName(targ)
	}

	if e := b.registry.lookup(name); e != nil {
		if e.same(tn, targs, kind) {
			return name, nil
		}
		return "", diagf(CategoryConflict, declPos,
			"Already seen type %s, but it's not the same declaration (first declared at %s)", name, e.pos)
	}

	description := docText(ref.doc)
	goType := b.imports.typeString(named)

	var st ir.Structure
	if kind == ir.StructureObject {
		st = &ir.ObjectType{Name: name, Description: description, GoType: goType}
	} else {
		st = &ir.InputObjectType{Name: name, Description: description, GoType: goType}
	}
	e := &entry{decl: tn, targs: targs, kind: kind, pos: declPos, structure: st}
	if err := b.registry.reserve(e); err != nil {
		return "", diagf(CategoryConflict, declPos, "Already seen type %s, but it's not the same declaration", name)
	}
	b.logger.Debug("registered structure", "name", name, "kind", kind.String(), "type", goType)

	structType := spec.Type.(*ast.StructType)
	switch st := st.(type) {
	case *ir.ObjectType:
		err = b.buildObject(st, named, structType, ix)
	case *ir.InputObjectType:
		err = b.buildInput(st, named, structType, ix)
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// structField pairs a struct field's syntax with its type-checked variable.
type structField struct {
	node   *ast.Field
	v      *types.Var
	goName string
}

// structFields returns the fields of named in source order.
func structFields(named *types.Named, st *ast.StructType) []structField {
	u := named.Underlying().(*types.Struct)
	byName := make(map[string]*types.Var, u.NumFields())
	for i := 0; i < u.NumFields(); i++ {
		byName[u.Field(i).Name()] = u.Field(i)
	}

	var out []structField
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			name := embeddedName(field.Type)
			out = append(out, structField{node: field, v: byName[name], goName: name})
			continue
		}
		for _, ident := range field.Names {
			out = append(out, structField{node: field, v: byName[ident.Name], goName: ident.Name})
		}
	}
	return out
}

func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	case *ast.Ident:
		return e.Name
	}
	return ""
}

// buildObject fills obj with the field-marked methods (source order)
// followed by the field-marked properties (source order).
func (b *builder) buildObject(obj *ir.ObjectType, named *types.Named, st *ast.StructType, ix *directive.Index) error {
	seen := make(map[string]site)
	addField := func(f ir.Field, at site) error {
		if prev, dup := seen[f.Name]; dup {
			return diagf(CategoryConflict, at.pos, "duplicate field %s.%s (also declared at %s)", obj.Name, f.Name, prev.pos)
		}
		seen[f.Name] = at
		obj.Fields = append(obj.Fields, f)
		return nil
	}

	for _, m := range b.methods(named) {
		ref, ok := b.loader.lookup(m)
		if !ok {
			continue
		}
		fn := ref.node.(*ast.FuncDecl)
		mix, err := b.loader.index(ref.file)
		if err != nil {
			return err
		}
		d := mix.Find(fn, directive.KindField)
		if d == nil {
			continue
		}
		at := site{pos: b.loader.position(fn.Pos()), what: "method " + obj.Name + "." + m.Name()}
		if !m.Exported() {
			return diagf(CategoryVisibility, at.pos, "%s must be exported (found: unexported)", at.what)
		}

		name := d.Name
		if name == "" {
			name = b.fieldName(m.Name())
		}
		at.what = "field " + obj.Name + "." + name
		tp, args, call, err := b.callable(m.Signature(), fn, mix, d, at)
		if err != nil {
			return err
		}
		f := ir.Field{
			Name:        name,
			Description: docText(fn.Doc),
			Type:        tp,
			Args:        args,
			Resolution:  &ir.ParentResolution{Member: m.Name(), Call: call},
		}
		if err := addField(f, at); err != nil {
			return err
		}
	}

	for _, sf := range structFields(named, st) {
		d := ix.Find(sf.node, directive.KindField)
		if d == nil {
			continue
		}
		at := site{pos: b.loader.position(sf.node.Pos()), what: "field " + obj.Name + "." + sf.goName}
		if sf.v == nil || !sf.v.Exported() {
			return diagf(CategoryVisibility, at.pos, "%s must be exported (found: unexported)", at.what)
		}

		name := d.Name
		if name == "" {
			name = b.fieldName(sf.goName)
		}
		at.what = "field " + obj.Name + "." + name
		tp, call, err := b.resolveOutput(sf.v.Type(), d.Scalar, at)
		if err != nil {
			return err
		}

		// Properties always resolve through their Go field, never through
		// graphql-go's default resolver.
		f := ir.Field{
			Name:        name,
			Description: docText(sf.node.Doc),
			Type:        tp,
			Resolution:  &ir.ParentResolution{Member: sf.goName, Property: true, Call: call},
		}
		if err := addField(f, at); err != nil {
			return err
		}
	}
	return nil
}

// methods returns the methods declared on named in source order.
func (b *builder) methods(named *types.Named) []*types.Func {
	var out []*types.Func
	for i := 0; i < named.NumMethods(); i++ {
		out = append(out, named.Method(i))
	}
	slices.SortFunc(out, func(x, y *types.Func) int {
		px, py := b.loader.position(x.Pos()), b.loader.position(y.Pos())
		if c := cmp.Compare(px.Filename, py.Filename); c != 0 {
			return c
		}
		return cmp.Compare(px.Offset, py.Offset)
	})
	return out
}

// buildInput fills in with the properties of a data-only declaration.
func (b *builder) buildInput(in *ir.InputObjectType, named *types.Named, st *ast.StructType, ix *directive.Index) error {
	tn := named.Origin().Obj()
	declPos := b.loader.position(tn.Pos())

	if n := named.NumMethods(); n > 0 {
		var names []string
		for _, m := range b.methods(named) {
			names = append(names, m.Name())
		}
		return diagf(CategoryInputShape, declPos, "input %s must have no methods (found: %s)", in.Name, strings.Join(names, ", "))
	}
	ctor := "New" + tn.Name()
	if obj := tn.Pkg().Scope().Lookup(ctor); obj != nil {
		if _, isFunc := obj.(*types.Func); isFunc {
			return diagf(CategoryInputShape, declPos, "input %s must have no constructor (found: %s)", in.Name, ctor)
		}
	}

	seen := make(map[string]site)
	for _, sf := range structFields(named, st) {
		at := site{pos: b.loader.position(sf.node.Pos()), what: "input field " + in.Name + "." + sf.goName}
		if len(sf.node.Names) == 0 {
			return diagf(CategoryInputShape, at.pos, "%s must not be embedded", at.what)
		}
		d := ix.Find(sf.node, directive.KindField)
		if d == nil {
			return diagf(CategoryInputShape, at.pos,
				"All properties of input %s must use //gql:field (missing on %s)", in.Name, sf.goName)
		}
		if sf.v == nil || !sf.v.Exported() {
			return diagf(CategoryVisibility, at.pos, "%s must be exported (found: unexported)", at.what)
		}

		name := d.Name
		if name == "" {
			name = b.fieldName(sf.goName)
		}
		at.what = "input field " + in.Name + "." + name
		if prev, dup := seen[name]; dup {
			return diagf(CategoryConflict, at.pos, "duplicate field %s.%s (also declared at %s)", in.Name, name, prev.pos)
		}
		seen[name] = at

		tp, err := b.resolveInput(sf.v.Type(), d.Scalar, at)
		if err != nil {
			return err
		}
		in.Fields = append(in.Fields, ir.InputField{
			Name:        name,
			Description: docText(sf.node.Doc),
			Type:        tp,
			GoName:      sf.goName,
		})
	}
	return nil
}

// callable resolves the arguments and result of a root function or method.
// A leading context.Context is forwarded and not exposed; a trailing error
// is returned to the executor.
func (b *builder) callable(sig *types.Signature, fn *ast.FuncDecl, ix *directive.Index, d *directive.Directive, at site) (ir.TypePointer, []ir.Arg, ir.Call, error) {
	var call ir.Call
	if sig.Variadic() {
		return nil, nil, call, diagf(CategoryResolution, at.pos, "%s: variadic parameters are not supported", at.what)
	}

	argDirectives := ix.Args(fn)
	params := sig.Params()
	start := 0
	if params.Len() > 0 && isContext(params.At(0).Type()) {
		call.Context = true
		start = 1
		if ad, ok := argDirectives[params.At(0).Name()]; ok {
			return nil, nil, call, diagf(CategoryAnnotation, ad.Pos, "%s cannot annotate the context parameter", ad)
		}
	}

	var args []ir.Arg
	seen := make(map[string]bool)
	for i := start; i < params.Len(); i++ {
		p := params.At(i)
		if p.Name() == "" || p.Name() == "_" {
			return nil, nil, call, diagf(CategoryAnnotation, at.pos, "%s: parameter %d must be named", at.what, i+1)
		}
		name, scalar := p.Name(), ""
		if ad, ok := argDirectives[p.Name()]; ok {
			if ad.Name != "" {
				name = ad.Name
			}
			scalar = ad.Scalar
		}
		if seen[name] {
			return nil, nil, call, diagf(CategoryConflict, at.pos, "%s: duplicate argument %s", at.what, name)
		}
		seen[name] = true

		tp, err := b.resolveInput(p.Type(), scalar, site{pos: at.pos, what: at.what + " argument " + name})
		if err != nil {
			return nil, nil, call, err
		}
		if tn := unexportedIn(p.Type()); tn != nil {
			return nil, nil, call, diagf(CategoryVisibility, at.pos,
				"%s argument %s: type %s must be exported to be decoded by the generated resolver", at.what, name, tn.Name())
		}
		args = append(args, ir.Arg{Name: name, Type: tp, GoType: b.imports.typeString(p.Type())})
	}

	value, n, hasErr := splitResults(sig)
	if n != 1 {
		return nil, nil, call, diagf(CategoryResolution, at.pos,
			"%s: must return exactly one value and an optional error, got %d values", at.what, n)
	}
	call.Error = hasErr

	tp, deferral, err := b.resolveOutput(value, d.Scalar, at)
	if err != nil {
		return nil, nil, call, err
	}
	call.Deferred = deferral.Deferred
	call.ThunkError = deferral.ThunkError
	return tp, args, call, nil
}

// typeArgName renders a type argument as a schema name suffix.
func typeArgName(t types.Type) string {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		name := t.Obj().Name()
		for i := 0; i < t.TypeArgs().Len(); i++ {
			name += "_" + typeArgName(t.TypeArgs().At(i))
		}
		return name
	case *types.Pointer:
		return typeArgName(t.Elem())
	case *types.Slice:
		return typeArgName(t.Elem()) + "List"
	case *types.Array:
		return typeArgName(t.Elem()) + "List"
	case *types.Basic:
		return strcase.ToCamel(t.Name())
	}
	return "Arg"
}

// docText returns a doc comment without its directive lines.
func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}
