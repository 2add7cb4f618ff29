package tygql

import (
	"strings"

	"github.com/graphql-go/graphql"
)

// Interceptor wraps resolver execution:
//
//	func timing(p graphql.ResolveParams, next graphql.FieldResolveFn) (any, error) {
//	    start := time.Now()
//	    res, err := next(p)
//	    slog.Debug("resolved", "field", p.Info.ParentType.Name()+"."+p.Info.FieldName, "took", time.Since(start))
//	    return res, err
//	}
//
// Interceptors can change p before calling next, change the result after,
// or return an error without calling next. A deferred result is returned
// to the interceptor unevaluated.
type Interceptor func(p graphql.ResolveParams, next graphql.FieldResolveFn) (any, error)

// chainInterceptors combines interceptors into one. The first is the
// outer-most.
func chainInterceptors(interceptors []Interceptor) Interceptor {
	switch len(interceptors) {
	case 0:
		return nil
	case 1:
		return interceptors[0]
	}
	return func(p graphql.ResolveParams, next graphql.FieldResolveFn) (any, error) {
		chain := next
		for i := len(interceptors) - 1; i >= 0; i-- {
			current, inner := interceptors[i], chain
			chain = func(p graphql.ResolveParams) (any, error) {
				return current(p, inner)
			}
		}
		return chain(p)
	}
}

// Intercept wraps every explicit resolver of every object type in s.
// Fields resolved by graphql-go's default resolver and introspection types
// are left alone. The field definitions are shared with s, so intercepting
// the same schema twice runs the interceptors twice.
func Intercept(s graphql.Schema, interceptors ...Interceptor) {
	ic := chainInterceptors(interceptors)
	if ic == nil {
		return
	}
	for name, t := range s.TypeMap() {
		obj, ok := t.(*graphql.Object)
		if !ok || strings.HasPrefix(name, "__") {
			continue
		}
		for _, f := range obj.Fields() {
			if f.Resolve == nil {
				continue
			}
			next := f.Resolve
			f.Resolve = func(p graphql.ResolveParams) (any, error) {
				return ic(p, next)
			}
		}
	}
}
