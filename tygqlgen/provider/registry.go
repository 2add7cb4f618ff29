package provider

import (
	"go/token"
	"go/types"

	"github.com/broady/tygql/tygqlgen/ir"
)

// entry is a registered structure and the declaration it was built from.
type entry struct {
	decl      *types.TypeName
	targs     []types.Type
	kind      ir.StructureKind
	pos       token.Position
	structure ir.Structure
}

// registry maps emitted structure names to their declarations. An entry is
// reserved before its members are built, so self-referential and mutually
// referential declarations resolve against the pending entry.
type registry struct {
	structures *ir.Structures
	entries    map[string]*entry
}

func newRegistry(structures *ir.Structures) *registry {
	return &registry{
		structures: structures,
		entries:    make(map[string]*entry),
	}
}

func (r *registry) lookup(name string) *entry {
	return r.entries[name]
}

// reserve registers e under its structure's name. It fails when the name is
// already taken, including by a scalar.
func (r *registry) reserve(e *entry) error {
	if err := r.structures.Add(e.structure); err != nil {
		return err
	}
	r.entries[e.structure.StructureName()] = e
	return nil
}

// same reports whether e was built from the given declaration.
func (e *entry) same(decl *types.TypeName, targs []types.Type, kind ir.StructureKind) bool {
	if e.decl != decl || e.kind != kind || len(e.targs) != len(targs) {
		return false
	}
	for i := range targs {
		if !types.Identical(e.targs[i], targs[i]) {
			return false
		}
	}
	return true
}
