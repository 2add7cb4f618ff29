package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"

	"github.com/broady/tygql/internal/directive"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// loader owns the loaded package graph and maps type-checker objects back
// to their declarations and directives.
type loader struct {
	fset     *token.FileSet
	root     *packages.Package
	rootFile *ast.File
	byPath   map[string]*packages.Package

	scanned map[*packages.Package]bool
	decls   map[token.Pos]declRef
	indices map[*ast.File]*directive.Index
}

// declRef is the source declaration of a named type or function.
type declRef struct {
	node ast.Node // *ast.TypeSpec or *ast.FuncDecl
	doc  *ast.CommentGroup
	file *ast.File
	pkg  *packages.Package
}

// load type-checks the package containing file together with its
// dependencies, keeping syntax for all of them.
func load(ctx context.Context, file string) (*loader, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", file, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     filepath.Dir(abs),
	}
	pkgs, err := packages.Load(cfg, "file="+abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package contains %s", file)
	}

	l := &loader{
		byPath:  make(map[string]*packages.Package),
		scanned: make(map[*packages.Package]bool),
		decls:   make(map[token.Pos]declRef),
		indices: make(map[*ast.File]*directive.Index),
	}

	var loadErr error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if loadErr == nil && len(pkg.Errors) > 0 {
			loadErr = fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
		l.byPath[pkg.PkgPath] = pkg
	})
	if loadErr != nil {
		return nil, loadErr
	}

	for _, pkg := range pkgs {
		for _, f := range pkg.Syntax {
			tf := pkg.Fset.File(f.Pos())
			if tf == nil {
				continue
			}
			if fi, err := os.Stat(tf.Name()); err == nil && os.SameFile(fi, info) {
				l.root, l.rootFile, l.fset = pkg, f, pkg.Fset
				break
			}
		}
		if l.root != nil {
			break
		}
	}
	if l.root == nil {
		return nil, fmt.Errorf("no syntax loaded for %s", file)
	}
	return l, nil
}

// filename returns the name of the file declaring pos.
func (l *loader) filename(pos token.Pos) string {
	if tf := l.fset.File(pos); tf != nil {
		return tf.Name()
	}
	return ""
}

func (l *loader) position(pos token.Pos) token.Position {
	return l.fset.Position(pos)
}

// index returns the directive index of f.
func (l *loader) index(f *ast.File) (*directive.Index, error) {
	if ix, ok := l.indices[f]; ok {
		return ix, nil
	}
	ix, err := directive.Parse(l.fset, f)
	if err != nil {
		return nil, annotationError(err)
	}
	l.indices[f] = ix
	return ix, nil
}

// lookup returns the declaration of a package-level type or function, or of
// a method. ok is false for objects without loaded syntax.
func (l *loader) lookup(obj types.Object) (declRef, bool) {
	if obj.Pkg() == nil {
		return declRef{}, false
	}
	pkg := l.byPath[obj.Pkg().Path()]
	if pkg == nil {
		return declRef{}, false
	}
	l.scan(pkg)
	ref, ok := l.decls[obj.Pos()]
	return ref, ok
}

// scan records the type and function declarations of pkg by name position.
func (l *loader) scan(pkg *packages.Package) {
	if l.scanned[pkg] {
		return
	}
	l.scanned[pkg] = true

	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				l.decls[decl.Name.Pos()] = declRef{node: decl, doc: decl.Doc, file: f, pkg: pkg}
			case *ast.GenDecl:
				if decl.Tok != token.TYPE {
					continue
				}
				for _, spec := range decl.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && !decl.Lparen.IsValid() {
						doc = decl.Doc
					}
					l.decls[ts.Name.Pos()] = declRef{node: ts, doc: doc, file: f, pkg: pkg}
				}
			}
		}
	}
}
