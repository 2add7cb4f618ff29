package provider

import (
	"fmt"
	"go/types"

	"github.com/broady/tygql/tygqlgen/ir"
)

// reservedNames are identifiers the generated file binds itself, either as
// imports or as resolver locals.
var reservedNames = []string{"graphql", "tygql", "p", "parent", "err", "thunk", "rootQuery", "rootMutation"}

// importSet assigns a unique local name to every package referenced by a Go
// type expression in the schema.
type importSet struct {
	byPath map[string]string
	taken  map[string]bool
	list   []ir.Import
}

func newImportSet() *importSet {
	s := &importSet{
		byPath: make(map[string]string),
		taken:  make(map[string]bool),
	}
	for _, name := range reservedNames {
		s.taken[name] = true
	}
	return s
}

// add returns the local name for pkg, registering it on first use.
func (s *importSet) add(pkg *types.Package) string {
	if name, ok := s.byPath[pkg.Path()]; ok {
		return name
	}
	name := pkg.Name()
	for i := 2; s.taken[name]; i++ {
		name = fmt.Sprintf("%s%d", pkg.Name(), i)
	}
	s.taken[name] = true
	s.byPath[pkg.Path()] = name
	s.list = append(s.list, ir.Import{Path: pkg.Path(), Name: name})
	return name
}

// typeString renders t as it must be spelled in the generated file.
func (s *importSet) typeString(t types.Type) string {
	return types.TypeString(t, s.add)
}

// imports returns the registered packages in first-use order.
func (s *importSet) imports() []ir.Import {
	return append([]ir.Import(nil), s.list...)
}

// unexportedIn returns the first unexported named type that t mentions,
// or nil when t can be spelled outside its package.
func unexportedIn(t types.Type) *types.TypeName {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		if obj := t.Obj(); obj.Pkg() != nil && !obj.Exported() {
			return obj
		}
		for i := 0; i < t.TypeArgs().Len(); i++ {
			if tn := unexportedIn(t.TypeArgs().At(i)); tn != nil {
				return tn
			}
		}
	case *types.Pointer:
		return unexportedIn(t.Elem())
	case *types.Slice:
		return unexportedIn(t.Elem())
	case *types.Array:
		return unexportedIn(t.Elem())
	case *types.Map:
		if tn := unexportedIn(t.Key()); tn != nil {
			return tn
		}
		return unexportedIn(t.Elem())
	case *types.Signature:
		for _, tuple := range []*types.Tuple{t.Params(), t.Results()} {
			for i := 0; i < tuple.Len(); i++ {
				if tn := unexportedIn(tuple.At(i).Type()); tn != nil {
					return tn
				}
			}
		}
	}
	return nil
}
