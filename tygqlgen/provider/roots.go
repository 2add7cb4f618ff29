package provider

import (
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/broady/tygql/internal/directive"
	"github.com/broady/tygql/tygqlgen/ir"
)

// rootSet collects root fields across both root kinds, whose names share
// one namespace.
type rootSet struct {
	seen map[string]site
}

// discoverRoots turns every function documented with the given root
// directive into a root field, in source order.
func (b *builder) discoverRoots(kind directive.Kind, roots *rootSet, baseDir string) ([]ir.Field, error) {
	ix, err := b.loader.index(b.loader.rootFile)
	if err != nil {
		return nil, err
	}
	pkg := b.loader.root

	var fields []ir.Field
	for _, d := range ix.Sites(kind) {
		fn, ok := d.Node.(*ast.FuncDecl)
		if !ok {
			return nil, diagf(CategoryAnnotation, d.Pos, "%s must document a function declaration", d)
		}
		at := site{pos: b.loader.position(fn.Pos()), what: fmt.Sprintf("%s root %s", kind, fn.Name.Name)}

		var violations []string
		if fn.Recv != nil {
			violations = append(violations, "receiver")
		}
		if !fn.Name.IsExported() {
			violations = append(violations, "unexported")
		}
		if len(violations) > 0 {
			return nil, diagf(CategoryVisibility, at.pos,
				"%s must be an exported package-level function (found: %s)", at.what, strings.Join(violations, ", "))
		}

		obj, ok := pkg.TypesInfo.Defs[fn.Name].(*types.Func)
		if !ok {
			return nil, diagf(CategoryResolution, at.pos, "%s: no type information", at.what)
		}
		sig := obj.Signature()
		if sig.TypeParams().Len() > 0 {
			return nil, diagf(CategoryResolution, at.pos, "%s: generic functions cannot be roots", at.what)
		}

		name := d.Name
		if name == "" {
			name = b.fieldName(fn.Name.Name)
		}
		if prev, dup := roots.seen[name]; dup {
			return nil, diagf(CategoryConflict, at.pos, "Duplicate root %q: declared by %s at %s and %s", name, prev.what, prev.pos, at.what)
		}
		roots.seen[name] = at

		tp, args, call, err := b.callable(sig, fn, ix, d, at)
		if err != nil {
			return nil, err
		}

		module, err := locator(baseDir, b.loader.filename(fn.Pos()))
		if err != nil {
			return nil, err
		}
		b.imports.add(pkg.Types)

		fields = append(fields, ir.Field{
			Name:        name,
			Description: docText(fn.Doc),
			Type:        tp,
			Args:        args,
			Resolution: &ir.RootResolution{
				Module:     module,
				ImportPath: pkg.PkgPath,
				Container:  pkg.Name,
				Member:     fn.Name.Name,
				Call:       call,
			},
		})
		b.logger.Debug("discovered root", "kind", string(kind), "name", name, "type", tp.String())
	}
	return fields, nil
}

// locator returns file relative to baseDir with its extension stripped,
// using forward slashes.
func locator(baseDir, file string) (string, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base dir: %w", err)
	}
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", file, err)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))), nil
}
