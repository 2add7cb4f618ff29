// Package tygql is the runtime support for schemas generated by tygqlgen.
//
// Generated resolvers decode their arguments with Arg, read the parent value
// with Source, and wrap deferred results with Defer or DeferErr. Input object
// types are registered with RegisterInput so Arg can map external field names
// onto Go struct fields. The Date scalar codec and a small HTTP handler that
// serves a graphql.Schema complete the package.
package tygql

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/graphql-go/graphql"
)

var inputs = struct {
	sync.RWMutex
	fields map[reflect.Type]map[string]string
}{fields: make(map[reflect.Type]map[string]string)}

// RegisterInput records how the input object decoded into T maps external
// field names to Go struct field names. Registering T again replaces the
// previous mapping.
func RegisterInput[T any](fields map[string]string) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("tygql: RegisterInput of non-struct type %s", t))
	}
	m := make(map[string]string, len(fields))
	for ext, goName := range fields {
		if _, ok := t.FieldByName(goName); !ok {
			panic(fmt.Sprintf("tygql: %s has no field %s", t, goName))
		}
		m[ext] = goName
	}
	inputs.Lock()
	defer inputs.Unlock()
	inputs.fields[t] = m
}

func inputFields(t reflect.Type) (map[string]string, bool) {
	inputs.RLock()
	defer inputs.RUnlock()
	m, ok := inputs.fields[t]
	return m, ok
}

// Arg decodes the argument name into T. A missing or null argument yields
// the zero value.
func Arg[T any](p graphql.ResolveParams, name string) (T, error) {
	var zero T
	v, err := convert(p.Args[name], reflect.TypeFor[T]())
	if err != nil {
		return zero, Errorf(CodeInvalidArgument, "argument %q: %v", name, err)
	}
	if !v.IsValid() {
		return zero, nil
	}
	return v.Interface().(T), nil
}

// Source returns the parent value of the field being resolved as T. The
// parent may have been resolved as T or *T.
func Source[T any](p graphql.ResolveParams) (T, error) {
	var zero T
	switch src := p.Source.(type) {
	case T:
		return src, nil
	case *T:
		if src != nil {
			return *src, nil
		}
	}
	return zero, Errorf(CodeInternal, "field %s: parent is %T, want %s", p.Info.FieldName, p.Source, reflect.TypeFor[T]())
}

// convert coerces a value produced by graphql-go argument parsing to t. The
// zero reflect.Value means the zero value of t.
func convert(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, nil
	}
	if rv := reflect.ValueOf(v); rv.Type() == t {
		return rv, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem, err := convert(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		if elem.IsValid() {
			ptr.Elem().Set(elem)
		}
		return ptr, nil

	case reflect.Slice, reflect.Array:
		items, ok := v.([]any)
		if !ok {
			// Input coercion accepts a single value for a list.
			items = []any{v}
		}
		var out reflect.Value
		if t.Kind() == reflect.Slice {
			out = reflect.MakeSlice(t, len(items), len(items))
		} else {
			if len(items) != t.Len() {
				return reflect.Value{}, fmt.Errorf("want %d items, got %d", t.Len(), len(items))
			}
			out = reflect.New(t).Elem()
		}
		for i, item := range items {
			ev, err := convert(item, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			if ev.IsValid() {
				out.Index(i).Set(ev)
			}
		}
		return out, nil

	case reflect.Struct:
		if t == reflect.TypeFor[time.Time]() {
			tm, err := toTime(v)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(tm), nil
		}
		return convertInput(v, t)
	}
	return convertScalar(v, t)
}

func convertInput(v any, t reflect.Type) (reflect.Value, error) {
	fields, ok := inputFields(t)
	if !ok {
		return reflect.Value{}, fmt.Errorf("input type %s is not registered", t)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return reflect.Value{}, fmt.Errorf("want input object for %s, got %T", t, v)
	}
	out := reflect.New(t).Elem()
	for ext, val := range obj {
		goName, ok := fields[ext]
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field %q of %s", ext, t)
		}
		f := out.FieldByName(goName)
		fv, err := convert(val, f.Type())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %q: %w", ext, err)
		}
		if fv.IsValid() {
			f.Set(fv)
		}
	}
	return out, nil
}

// convertScalar handles basic kinds, including named types such as
// "type UserID string".
func convertScalar(v any, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		switch s := v.(type) {
		case string:
			out.SetString(s)
		case time.Time:
			out.SetString(s.Format(time.RFC3339Nano))
		default:
			return reflect.Value{}, fmt.Errorf("want string, got %T", v)
		}

	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("want boolean, got %T", v)
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		f, err := toFloat(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%g overflows %s", f, t)
		}
		out.SetFloat(f)

	default:
		return reflect.Value{}, fmt.Errorf("cannot decode %T into %s", v, t)
	}
	return out, nil
}

// toInt accepts Int values, integral floats, numeric ID strings and Date
// values, which become Unix milliseconds.
func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%g is not an integer", n)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	case time.Time:
		return n.UnixMilli(), nil
	}
	return 0, fmt.Errorf("want integer, got %T", v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n)
		}
		return f, nil
	case time.Time:
		return float64(n.UnixMilli()), nil
	}
	return 0, fmt.Errorf("want number, got %T", v)
}
