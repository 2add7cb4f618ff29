// Package directive indexes tygql directives in Go source files.
//
// Directives are line comments inside the doc comment of a declaration:
//
//	//gql:object [Name]
//	//gql:input [Name]
//	//gql:field [name] [scalar=Int|Float|Date|ID]
//	//gql:query [name] [scalar=...]
//	//gql:mutation [name] [scalar=...]
//	//gql:arg <param> [name] [scalar=...]
//
// A name is a Go quoted string or a bare identifier. The object and input
// directives mark struct type declarations, field marks struct fields and
// methods, query and mutation mark root functions, and arg attaches
// per-parameter overrides to the function or method it documents.
//
// Only directives in a doc comment attached to a declaration are use sites.
// Directive-looking text anywhere else (free-floating comments, trailing
// comments, comments inside bodies) is ignored.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

// Prefix starts every directive comment.
const Prefix = "//gql:"

// Kind represents the type of directive.
type Kind string

const (
	KindObject   Kind = "object"
	KindInput    Kind = "input"
	KindField    Kind = "field"
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
	KindArg      Kind = "arg"
)

var kinds = map[Kind]bool{
	KindObject:   true,
	KindInput:    true,
	KindField:    true,
	KindQuery:    true,
	KindMutation: true,
	KindArg:      true,
}

// Directive is one parsed directive and the declaration it documents.
type Directive struct {
	Kind   Kind
	Name   string // explicit external name, empty if none
	Param  string // parameter name, arg directives only
	Scalar string // scalar override, empty if none

	// Node is the declaration the directive is attached to: *ast.FuncDecl,
	// *ast.TypeSpec, *ast.Field, or *ast.ValueSpec.
	Node ast.Node
	Pos  token.Position
}

func (d *Directive) String() string {
	return Prefix + string(d.Kind)
}

// Error is a malformed or misplaced directive.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Index holds the directives of one file in source order.
type Index struct {
	directives []*Directive
	byNode     map[ast.Node][]*Directive

	// Unattached lists directive-looking comments that document nothing.
	Unattached []token.Position
}

// Parse collects every attached directive in f. The file must have been
// parsed with comments.
func Parse(fset *token.FileSet, f *ast.File) (*Index, error) {
	ix := &Index{byNode: make(map[ast.Node][]*Directive)}
	attached := make(map[*ast.CommentGroup]bool)

	add := func(doc *ast.CommentGroup, node ast.Node) error {
		if doc == nil {
			return nil
		}
		attached[doc] = true
		for _, c := range doc.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			d, err := parseLine(fset.Position(c.Pos()), c.Text)
			if err != nil {
				return err
			}
			d.Node = node
			if err := ix.add(d); err != nil {
				return err
			}
		}
		return nil
	}

	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			if err := add(decl.Doc, decl); err != nil {
				return nil, err
			}
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				doc := specDoc(decl, spec)
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					if err := add(doc, spec); err != nil {
						return nil, err
					}
					st, ok := spec.Type.(*ast.StructType)
					if !ok {
						continue
					}
					for _, field := range st.Fields.List {
						if err := add(field.Doc, field); err != nil {
							return nil, err
						}
					}
				case *ast.ValueSpec:
					if err := add(doc, spec); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	for _, cg := range f.Comments {
		if attached[cg] {
			continue
		}
		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, Prefix) {
				ix.Unattached = append(ix.Unattached, fset.Position(c.Pos()))
			}
		}
	}

	return ix, nil
}

// specDoc returns the doc comment of spec. A lone spec in an unparenthesized
// declaration is documented by the declaration itself.
func specDoc(decl *ast.GenDecl, spec ast.Spec) *ast.CommentGroup {
	var doc *ast.CommentGroup
	switch spec := spec.(type) {
	case *ast.TypeSpec:
		doc = spec.Doc
	case *ast.ValueSpec:
		doc = spec.Doc
	}
	if doc == nil && !decl.Lparen.IsValid() {
		doc = decl.Doc
	}
	return doc
}

func (ix *Index) add(d *Directive) error {
	if err := checkPlacement(d); err != nil {
		return err
	}
	for _, prev := range ix.byNode[d.Node] {
		if prev.Kind != d.Kind {
			continue
		}
		if d.Kind != KindArg || prev.Param == d.Param {
			return &Error{Pos: d.Pos, Msg: fmt.Sprintf("duplicate %s directive (previous at %s)", d, prev.Pos)}
		}
	}
	ix.directives = append(ix.directives, d)
	ix.byNode[d.Node] = append(ix.byNode[d.Node], d)
	return nil
}

// checkPlacement rejects directives documenting a declaration they cannot
// describe. Root directives are checked by root discovery, which owns the
// message for non-function roots.
func checkPlacement(d *Directive) error {
	switch d.Kind {
	case KindObject, KindInput:
		spec, ok := d.Node.(*ast.TypeSpec)
		if !ok {
			return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s must document a struct type declaration", d)}
		}
		if _, ok := spec.Type.(*ast.StructType); !ok {
			return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s must document a struct type, %s is not a struct", d, spec.Name.Name)}
		}
		if d.Scalar != "" {
			return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s does not accept a scalar override", d)}
		}
	case KindField:
		switch n := d.Node.(type) {
		case *ast.Field:
			if len(n.Names) > 1 {
				return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s must document a single struct field, got %d names", d, len(n.Names))}
			}
		case *ast.FuncDecl:
			if n.Recv == nil {
				return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s must document a struct field or method, %s is a function", d, n.Name.Name)}
			}
		default:
			return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s must document a struct field or method", d)}
		}
	case KindArg:
		fn, ok := d.Node.(*ast.FuncDecl)
		if !ok {
			return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s must document a function or method", d)}
		}
		if !hasParam(fn, d.Param) {
			return &Error{Pos: d.Pos, Msg: fmt.Sprintf("%s names unknown parameter %q of %s", d, d.Param, fn.Name.Name)}
		}
	}
	return nil
}

func hasParam(fn *ast.FuncDecl, name string) bool {
	for _, field := range fn.Type.Params.List {
		for _, n := range field.Names {
			if n.Name == name {
				return true
			}
		}
	}
	return false
}

// Len returns the number of attached directives.
func (ix *Index) Len() int {
	return len(ix.directives)
}

// Sites returns the directives of the given kind in source order.
func (ix *Index) Sites(kind Kind) []*Directive {
	var out []*Directive
	for _, d := range ix.directives {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns every directive attached to node.
func (ix *Index) Lookup(node ast.Node) []*Directive {
	return ix.byNode[node]
}

// Find returns the directive of the given kind attached to node, or nil.
func (ix *Index) Find(node ast.Node, kind Kind) *Directive {
	for _, d := range ix.byNode[node] {
		if d.Kind == kind {
			return d
		}
	}
	return nil
}

// Args returns the arg directives of fn keyed by parameter name.
func (ix *Index) Args(fn *ast.FuncDecl) map[string]*Directive {
	args := make(map[string]*Directive)
	for _, d := range ix.byNode[fn] {
		if d.Kind == KindArg {
			args[d.Param] = d
		}
	}
	return args
}
