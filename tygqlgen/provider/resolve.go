package provider

import (
	"go/token"
	"go/types"
	"strings"

	"github.com/broady/tygql/tygqlgen/ir"
)

// position is the side of the schema a type is resolved for.
type position int

const (
	outputPosition position = iota
	inputPosition
)

func (p position) marker() string {
	if p == inputPosition {
		return "//gql:input"
	}
	return "//gql:object"
}

// site describes what is being resolved, for diagnostics.
type site struct {
	pos  token.Position
	what string
}

// valueKind is the declared kind a scalar override is checked against.
type valueKind int

const (
	kindOther valueKind = iota
	kindNumeric
	kindTextual
)

// overrides lists, per scalar override, the declared kinds it may assert.
var overrides = map[string]map[valueKind]bool{
	ir.ScalarInt:   {kindNumeric: true},
	ir.ScalarFloat: {kindNumeric: true},
	ir.ScalarDate:  {kindNumeric: true, kindTextual: true},
	ir.ScalarID:    {kindNumeric: true, kindTextual: true},
}

var overrideNames = []string{ir.ScalarInt, ir.ScalarFloat, ir.ScalarDate, ir.ScalarID}

// resolveOutput resolves the type of an output field. A thunk is unwrapped
// one level; the returned Call carries only the deferral fields.
func (b *builder) resolveOutput(t types.Type, scalar string, at site) (ir.TypePointer, ir.Call, error) {
	t = types.Unalias(t)
	var call ir.Call
	if sig, kind := thunkOf(t); sig != nil {
		value, n, hasErr := splitResults(sig)
		if n != 1 {
			return nil, call, diagf(CategoryResolution, at.pos,
				"%s: expected 1 result from thunk %s, got %d", at.what, t, n)
		}
		call.Deferred = kind
		call.ThunkError = hasErr
		t = value
	}
	tp, err := b.resolveValue(t, scalar, outputPosition, call.Deferred == ir.DeferredThunkPtr, at)
	if err != nil {
		return nil, call, err
	}
	return tp, call, nil
}

// resolveInput resolves the type of an argument or input field.
func (b *builder) resolveInput(t types.Type, scalar string, at site) (ir.TypePointer, error) {
	return b.resolveValue(t, scalar, inputPosition, false, at)
}

// resolveValue strips pointers and one array level, resolves the element,
// and re-wraps innermost first.
func (b *builder) resolveValue(t types.Type, scalar string, pos position, nullable bool, at site) (ir.TypePointer, error) {
	t = types.Unalias(t)
	for {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			break
		}
		nullable = true
		t = types.Unalias(ptr.Elem())
	}

	var tp ir.TypePointer
	if elem, ok := arrayElem(t); ok {
		items, err := b.resolveValue(elem, scalar, pos, false, at)
		if err != nil {
			return nil, err
		}
		tp = ir.ListOf(items)
	} else {
		named, err := b.resolveLeaf(t, scalar, pos, at)
		if err != nil {
			return nil, err
		}
		tp = named
	}

	if !nullable {
		return ir.NonNullOf(tp), nil
	}
	return tp, nil
}

// resolveLeaf maps a non-pointer, non-array type to a named schema type.
func (b *builder) resolveLeaf(t types.Type, scalar string, pos position, at site) (*ir.Named, error) {
	if scalar != "" {
		allowed, known := overrides[scalar]
		if !known {
			return nil, diagf(CategoryResolution, at.pos,
				"%s: unknown scalar override %s (want one of %s)", at.what, scalar, strings.Join(overrideNames, ", "))
		}
		if !allowed[kindOf(t)] {
			return nil, diagf(CategoryResolution, at.pos,
				"%s: override %s is not allowed for %s", at.what, scalar, b.imports.typeString(t))
		}
		return ir.NamedType(scalar), nil
	}

	if name := nativeScalar(t); name != "" {
		return ir.NamedType(name), nil
	}

	named, ok := t.(*types.Named)
	if !ok {
		return nil, diagf(CategoryResolution, at.pos, "%s: could not resolve type %s", at.what, t)
	}
	name, err := b.structure(named, pos, at)
	if err != nil {
		return nil, err
	}
	return ir.NamedType(name), nil
}

// thunkOf reports whether t is a deferred resolver: a parameterless func, or
// a pointer to one.
func thunkOf(t types.Type) (*types.Signature, ir.DeferredKind) {
	kind := ir.DeferredThunk
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
		kind = ir.DeferredThunkPtr
	}
	sig, ok := t.Underlying().(*types.Signature)
	if !ok || sig.Params().Len() != 0 || sig.Variadic() {
		return nil, ir.DeferredNone
	}
	return sig, kind
}

// splitResults strips a trailing error from sig's results. value is the
// first remaining result and n the number of remaining results.
func splitResults(sig *types.Signature) (value types.Type, n int, hasErr bool) {
	results := sig.Results()
	n = results.Len()
	if n > 0 && isError(results.At(n-1).Type()) {
		hasErr = true
		n--
	}
	if n > 0 {
		value = results.At(0).Type()
	}
	return value, n, hasErr
}

func arrayElem(t types.Type) (types.Type, bool) {
	switch u := t.Underlying().(type) {
	case *types.Slice:
		return u.Elem(), true
	case *types.Array:
		return u.Elem(), true
	}
	return nil, false
}

// nativeScalar returns the built-in mapping of t, or "".
func nativeScalar(t types.Type) string {
	if isTime(t) {
		return ir.ScalarDate
	}
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return ""
	}
	info := basic.Info()
	switch {
	case info&types.IsString != 0:
		return ir.ScalarString
	case info&types.IsInteger != 0 && basic.Kind() != types.Uintptr:
		return ir.ScalarInt
	case info&types.IsFloat != 0:
		return ir.ScalarFloat
	case info&types.IsBoolean != 0:
		return ir.ScalarBoolean
	}
	return ""
}

func kindOf(t types.Type) valueKind {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return kindOther
	}
	info := basic.Info()
	switch {
	case info&types.IsString != 0:
		return kindTextual
	case info&(types.IsInteger|types.IsFloat) != 0 && basic.Kind() != types.Uintptr:
		return kindNumeric
	}
	return kindOther
}

func isTime(t types.Type) bool {
	return isNamed(t, "time", "Time")
}

func isContext(t types.Type) bool {
	return isNamed(t, "context", "Context")
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func isNamed(t types.Type, pkgPath, name string) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == pkgPath && obj.Name() == name
}
