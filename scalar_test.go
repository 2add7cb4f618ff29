package tygql

import (
	"testing"
	"time"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
)

func TestSerializeDate(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("X", 3600))
	want := "2024-03-01T11:30:00Z"

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"time", when, want},
		{"time pointer", &when, want},
		{"nil time pointer", (*time.Time)(nil), nil},
		{"unix millis", when.UnixMilli(), want},
		{"int millis", int(when.UnixMilli()), want},
		{"rfc3339 string", "2024-03-01T12:30:00+01:00", want},
		{"bad string", "yesterday", nil},
		{"bool", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SerializeDate(tt.value))
		})
	}
}

func TestParseDate(t *testing.T) {
	when := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)
	s := "2024-03-01T11:30:00Z"

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"string", s, when},
		{"string pointer", &s, when},
		{"millis from JSON", float64(when.UnixMilli()), when},
		{"millis", when.UnixMilli(), when},
		{"bad string", "2024-03-01", nil},
		{"fractional number", 1.5, nil},
		{"bool", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.value)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			tm, ok := got.(time.Time)
			if assert.True(t, ok, "got %T", got) {
				assert.True(t, tt.want.(time.Time).Equal(tm), "got %v", tm)
			}
		})
	}
}

func TestParseDateLiteral(t *testing.T) {
	when := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)

	got := ParseDateLiteral(&ast.StringValue{Value: "2024-03-01T11:30:00Z"})
	assert.Equal(t, when, got)

	got = ParseDateLiteral(&ast.IntValue{Value: "1709292600000"})
	assert.Equal(t, when, got)

	assert.Nil(t, ParseDateLiteral(&ast.StringValue{Value: "soon"}))
	assert.Nil(t, ParseDateLiteral(&ast.IntValue{Value: "99999999999999999999"}))
	assert.Nil(t, ParseDateLiteral(&ast.BooleanValue{Value: true}))
}
