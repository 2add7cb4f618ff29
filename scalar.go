package tygql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/graphql-go/graphql/language/ast"
)

// Date values travel as RFC 3339 strings. Numeric Go values asserted as Date
// are Unix milliseconds.

// SerializeDate converts a resolved Go value to its Date representation.
func SerializeDate(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.UTC().Format(time.RFC3339Nano)
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.UTC().Format(time.RFC3339Nano)
		}
		return nil
	}
	if ms, err := toInt(value); err == nil {
		return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
	}
	return nil
}

// ParseDate converts a variable value to a time.Time, or nil when it is not
// a valid Date.
func ParseDate(value any) any {
	switch v := value.(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil
		}
		return t
	case *string:
		if v == nil {
			return nil
		}
		return ParseDate(*v)
	case time.Time:
		return v
	}
	if ms, err := toInt(value); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return nil
}

// ParseDateLiteral converts a query literal: a string in RFC 3339 form or an
// integer of Unix milliseconds.
func ParseDateLiteral(valueAST ast.Value) any {
	switch v := valueAST.(type) {
	case *ast.StringValue:
		return ParseDate(v.Value)
	case *ast.IntValue:
		ms, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil
		}
		return time.UnixMilli(ms).UTC()
	}
	return nil
}

// toTime decodes a Date argument that reached a time.Time parameter.
func toTime(v any) (time.Time, error) {
	if t, ok := ParseDate(v).(time.Time); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%v is not a Date", v)
}
