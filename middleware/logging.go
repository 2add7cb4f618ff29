// Package middleware provides resolver interceptors and HTTP middleware for
// tygql handlers.
package middleware

import (
	"log/slog"
	"time"

	"github.com/broady/tygql"
	"github.com/graphql-go/graphql"
)

// LoggingInterceptor logs every intercepted resolver call with its field
// path, duration and request ID. Successful calls log at debug level so a
// busy query does not flood the log; failures log at error level.
func LoggingInterceptor(logger *slog.Logger) tygql.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(p graphql.ResolveParams, next graphql.FieldResolveFn) (any, error) {
		ctx := p.Context
		attrs := []any{slog.String("field", fieldID(p.Info))}
		if id := tygql.RequestIDFromContext(ctx); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}

		start := time.Now()
		res, err := next(p)
		attrs = append(attrs, slog.Duration("duration", time.Since(start)))

		if err != nil {
			logger.ErrorContext(ctx, "resolver failed", append(attrs, slog.Any("error", err))...)
		} else {
			logger.DebugContext(ctx, "resolver completed", attrs...)
		}
		return res, err
	}
}

func fieldID(info graphql.ResolveInfo) string {
	if info.ParentType == nil {
		return info.FieldName
	}
	return info.ParentType.Name() + "." + info.FieldName
}
