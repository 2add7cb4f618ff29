package tygql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type place struct {
	ID      string
	Created time.Time
	parent  *place
}

func (p place) Parent() *place { return p.parent }

func (p place) Later(ctx context.Context, fail bool) func() (string, error) {
	return func() (string, error) {
		if fail {
			return "", NewError(CodeNotFound, "no later")
		}
		return p.ID + " later", nil
	}
}

// placeSchema is written the way generated code wires resolvers.
func placeSchema(t *testing.T) graphql.Schema {
	t.Helper()
	root := &place{ID: "root", Created: time.UnixMilli(0).UTC()}
	child := place{ID: "child", Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), parent: root}

	dateType := graphql.NewScalar(graphql.ScalarConfig{
		Name:         "Date",
		Serialize:    SerializeDate,
		ParseValue:   ParseDate,
		ParseLiteral: ParseDateLiteral,
	})
	var placeType *graphql.Object
	placeType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"created": &graphql.Field{Type: graphql.NewNonNull(dateType)},
				"parent": &graphql.Field{
					Type: placeType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						parent, err := Source[place](p)
						if err != nil {
							return nil, err
						}
						return parent.Parent(), nil
					},
				},
				"later": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Args: graphql.FieldConfigArgument{
						"fail": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						parent, err := Source[place](p)
						if err != nil {
							return nil, err
						}
						arg0, err := Arg[bool](p, "fail")
						if err != nil {
							return nil, err
						}
						thunk := parent.Later(p.Context, arg0)
						return DeferErr(thunk), nil
					},
				},
			}
		}),
	})
	RegisterInput[bounds](map[string]string{"min": "Min", "max": "Max"})
	boundsType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "Bounds",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			return graphql.InputObjectConfigFieldMap{
				"min": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
				"max": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			}
		}),
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"place": &graphql.Field{
					Type: graphql.NewNonNull(placeType),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						thunk := func() place { return child }
						return Defer(thunk), nil
					},
				},
				"nothing": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						var thunk *func() string
						if thunk == nil {
							return nil, nil
						}
						return Defer(*thunk), nil
					},
				},
				"missing": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return nil, NewError(CodeNotFound, "nope")
					},
				},
				"width": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Float),
					Args: graphql.FieldConfigArgument{
						"b": &graphql.ArgumentConfig{Type: graphql.NewNonNull(boundsType)},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						arg0, err := Arg[bounds](p, "b")
						if err != nil {
							return nil, err
						}
						return arg0.Max - arg0.Min, nil
					},
				},
				"since": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
					Args: graphql.FieldConfigArgument{
						"at": &graphql.ArgumentConfig{Type: graphql.NewNonNull(dateType)},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						arg0, err := Arg[int64](p, "at")
						if err != nil {
							return nil, err
						}
						return int(arg0 / 1000), nil
					},
				},
			}
		}),
	})

	s, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
		Types: []graphql.Type{dateType, placeType, boundsType},
	})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s graphql.Schema, q string, vars map[string]any) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         s,
		RequestString:  q,
		VariableValues: vars,
		Context:        context.Background(),
	})
}

func TestExecute_Deferred(t *testing.T) {
	s := placeSchema(t)
	res := do(t, s, `{ place { id created later(fail: false) parent { id created parent { id } } } nothing }`, nil)
	require.Empty(t, res.Errors)

	assert.Equal(t, map[string]any{
		"place": map[string]any{
			"id":      "child",
			"created": "2024-01-02T03:04:05Z",
			"later":   "child later",
			"parent": map[string]any{
				"id":      "root",
				"created": "1970-01-01T00:00:00Z",
				"parent":  nil,
			},
		},
		"nothing": nil,
	}, res.Data)
}

func TestExecute_DeferredError(t *testing.T) {
	s := placeSchema(t)
	res := do(t, s, `{ place { later(fail: true) } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "no later")
	if data, ok := res.Data.(map[string]any); ok {
		assert.Nil(t, data["place"])
	}
}

func TestExecute_ErrorExtensions(t *testing.T) {
	s := placeSchema(t)
	res := do(t, s, `{ width(b: {min: 1, max: 2}) missing }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "not_found: nope", res.Errors[0].Message)
	assert.Equal(t, "not_found", res.Errors[0].Extensions["code"])
}

func TestExecute_Arguments(t *testing.T) {
	s := placeSchema(t)

	res := do(t, s, `{ width(b: {min: 1, max: 3.5}) since(at: "1970-01-01T00:01:40Z") }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"width": 2.5, "since": 100}, res.Data)

	res = do(t, s, `query($b: Bounds!, $at: Date!) { width(b: $b) since(at: $at) }`, map[string]any{
		"b":  map[string]any{"min": 2, "max": 4},
		"at": 200000.0,
	})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"width": 2.0, "since": 200}, res.Data)
}

func TestDefer(t *testing.T) {
	v, err := Defer(func() int { return 3 })()
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	boom := errors.New("boom")
	v, err = DeferErr(func() (int, error) { return 0, boom })()
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, v)
}
