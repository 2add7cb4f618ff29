package tygql

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

var (
	validate     = validator.New()
	queryDecoder = schema.NewDecoder()
)

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Request is a GraphQL-over-HTTP request.
type Request struct {
	Query         string         `json:"query" validate:"required,max=100000"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// getRequest is the query-string form of Request; variables are JSON.
type getRequest struct {
	Query         string `schema:"query"`
	OperationName string `schema:"operationName"`
	Variables     string `schema:"variables"`
}

// Handler serves a schema over HTTP. POST takes a JSON Request body; GET
// takes query parameters and may not run mutations.
type Handler struct {
	schema       graphql.Schema
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewHandler returns a Handler for s.
func NewHandler(s graphql.Schema) *Handler {
	return &Handler{
		schema:       s,
		logger:       slog.Default(),
		maxBodyBytes: 1 << 20,
	}
}

// WithLogger sets the logger.
func (h *Handler) WithLogger(l *slog.Logger) *Handler {
	h.logger = l
	return h
}

// MaxBodyBytes limits POST bodies. Zero disables the limit.
func (h *Handler) MaxBodyBytes(n int64) *Handler {
	h.maxBodyBytes = n
	return h
}

// Intercept wraps the schema's resolvers with interceptors. See Intercept.
func (h *Handler) Intercept(interceptors ...Interceptor) *Handler {
	Intercept(h.schema, interceptors...)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	id := RequestIDFromContext(ctx)
	if id == "" {
		id = r.Header.Get(RequestIDHeader)
	}
	if id == "" {
		id = uuid.NewString()
	}
	ctx = ContextWithRequestID(ctx, id)
	w.Header().Set(RequestIDHeader, id)
	logger := h.logger.With(slog.String("request_id", id))

	req, err := h.decode(w, r)
	if err != nil {
		e := AsError(err)
		logger.WarnContext(ctx, "rejected request", slog.String("code", string(e.Code)), slog.String("error", e.Message))
		writeError(w, e, logger)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        newContext(ctx, w, r),
	})

	logger.DebugContext(ctx, "executed request",
		slog.String("operation", req.OperationName),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("duration", time.Since(start)))
	writeJSON(w, http.StatusOK, result, logger)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*Request, error) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		var q getRequest
		if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
			return nil, Errorf(CodeInvalidArgument, "decode query parameters: %v", err)
		}
		req.Query, req.OperationName = q.Query, q.OperationName
		if q.Variables != "" {
			if err := json.Unmarshal([]byte(q.Variables), &req.Variables); err != nil {
				return nil, Errorf(CodeInvalidArgument, "decode variables: %v", err)
			}
		}
		if operationType(req.Query, req.OperationName) == ast.OperationTypeMutation {
			w.Header().Set("Allow", http.MethodPost)
			return nil, NewError(CodeMethodNotAllowed, "mutations require POST")
		}
	case http.MethodPost:
		body := r.Body
		if h.maxBodyBytes > 0 {
			body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		}
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, Errorf(CodeInvalidArgument, "request body exceeds %d bytes", tooLarge.Limit)
			}
			return nil, Errorf(CodeInvalidArgument, "decode body: %v", err)
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		return nil, Errorf(CodeMethodNotAllowed, "method %s not allowed", r.Method)
	}

	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

// operationType returns the type of the operation that will run, or "" when
// the document does not parse.
func operationType(query, name string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return ""
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if name == "" || (op.Name != nil && op.Name.Value == name) {
			return op.Operation
		}
	}
	return ""
}
