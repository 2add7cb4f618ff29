package provider

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/broady/tygql/internal/directive"
)

// Category classifies a fatal diagnostic.
type Category string

const (
	// CategoryConflict is a duplicate root field, a duplicate member, or two
	// declarations claiming one structure name.
	CategoryConflict Category = "conflict"

	// CategoryVisibility is an unexported or receiver-bound declaration where
	// an exported package-level one is required.
	CategoryVisibility Category = "visibility"

	// CategoryResolution is a type that cannot be mapped to the schema.
	CategoryResolution Category = "resolution"

	// CategoryInputShape is an input declaration that is not data-only.
	CategoryInputShape Category = "input_shape"

	// CategoryAnnotation is a malformed or misplaced directive.
	CategoryAnnotation Category = "annotation"
)

// Diagnostic is a fatal extraction error. Extraction stops at the first one.
type Diagnostic struct {
	Category Category
	Pos      token.Position
	Message  string
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", d.Pos, d.Message)
	}
	return d.Message
}

func diagf(cat Category, pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Category: cat, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// annotationError converts a directive parse error into a Diagnostic.
func annotationError(err error) error {
	var derr *directive.Error
	if errors.As(err, &derr) {
		return &Diagnostic{Category: CategoryAnnotation, Pos: derr.Pos, Message: derr.Msg}
	}
	return err
}
