package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/tygql"
	"github.com/graphql-go/graphql"
)

func params(ctx context.Context, parent, field string) graphql.ResolveParams {
	return graphql.ResolveParams{
		Context: ctx,
		Info: graphql.ResolveInfo{
			FieldName:  field,
			ParentType: graphql.NewObject(graphql.ObjectConfig{Name: parent, Fields: graphql.Fields{}}),
		},
	}
}

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingInterceptor_Success(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(debugLogger(&buf))

	ctx := tygql.ContextWithRequestID(context.Background(), "req-1")
	result, err := interceptor(params(ctx, "Query", "locations"), func(p graphql.ResolveParams) (any, error) {
		return "response", nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "response" {
		t.Errorf("expected response, got %v", result)
	}

	logOutput := buf.String()
	for _, want := range []string{"resolver completed", "Query.locations", "req-1", "duration"} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected %q in log output: %s", want, logOutput)
		}
	}
}

func TestLoggingInterceptor_Error(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(debugLogger(&buf))

	testErr := errors.New("test error")
	result, err := interceptor(params(context.Background(), "Mutation", "rename"), func(p graphql.ResolveParams) (any, error) {
		return nil, testErr
	})
	if err != testErr {
		t.Errorf("expected test error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}

	logOutput := buf.String()
	for _, want := range []string{"resolver failed", "Mutation.rename", "test error", `"level":"ERROR"`} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected %q in log output: %s", want, logOutput)
		}
	}
	if strings.Contains(logOutput, "request_id") {
		t.Error("expected no request_id without one in context")
	}
}

func TestLoggingInterceptor_QuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(slog.New(slog.NewJSONHandler(&buf, nil)))

	_, _ = interceptor(params(context.Background(), "Query", "motto"), func(p graphql.ResolveParams) (any, error) {
		return "ok", nil
	})
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %s", buf.String())
	}
}

func TestLoggingInterceptor_NilLogger(t *testing.T) {
	// Must not panic with a nil logger.
	interceptor := LoggingInterceptor(nil)
	result, err := interceptor(graphql.ResolveParams{Context: context.Background()}, func(p graphql.ResolveParams) (any, error) {
		return "response", nil
	})
	if err != nil || result != "response" {
		t.Errorf("got %v, %v", result, err)
	}
}

func TestLoggingInterceptor_PropagatesParams(t *testing.T) {
	type ctxKey string
	key := ctxKey("test-key")
	ctx := context.WithValue(context.Background(), key, "test-value")

	interceptor := LoggingInterceptor(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	p := params(ctx, "Query", "x")
	p.Args = map[string]any{"id": "1"}
	_, _ = interceptor(p, func(p graphql.ResolveParams) (any, error) {
		if p.Context.Value(key) != "test-value" {
			t.Error("expected context value to be propagated")
		}
		if p.Args["id"] != "1" {
			t.Error("expected args to be propagated")
		}
		return nil, nil
	})
}
