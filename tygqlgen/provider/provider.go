// Package provider extracts a GraphQL schema from annotated Go source code
// and converts it to the intermediate representation.
//
// Roots are package-level functions in one source file carrying //gql:query
// or //gql:mutation directives. Every type reachable from a root is resolved
// through struct declarations marked //gql:object or //gql:input, in any
// loaded package. See package internal/directive for the directive syntax.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/broady/tygql/internal/directive"
	"github.com/broady/tygql/tygqlgen/ir"
)

// FieldCase selects how default external names are derived from Go names.
type FieldCase string

const (
	// FieldCaseCamel converts Go names to lowerCamelCase ("UserID" -> "userId").
	FieldCaseCamel FieldCase = "camel"

	// FieldCasePreserve keeps Go names unchanged.
	FieldCasePreserve FieldCase = "preserve"
)

// SourceProvider extracts schemas by analyzing Go source code.
type SourceProvider struct{}

// SourceOptions configures source-based schema extraction.
type SourceOptions struct {
	// File is the Go source file holding the root directives.
	File string

	// BaseDir is the directory root locators are relative to.
	// Defaults to the current directory.
	BaseDir string

	// FieldCase controls default field names. Defaults to FieldCaseCamel.
	FieldCase FieldCase

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// DateDescription documents the Date scalar every schema carries.
const DateDescription = "An RFC 3339 timestamp."

// BuildSchema loads the package containing opts.File and returns its schema.
// Query roots are discovered before mutation roots. Any error is fatal; a
// *Diagnostic describes violations in the annotated source.
func (p *SourceProvider) BuildSchema(ctx context.Context, opts SourceOptions) (*ir.Schema, error) {
	if opts.File == "" {
		return nil, fmt.Errorf("no source file specified")
	}
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	switch opts.FieldCase {
	case "":
		opts.FieldCase = FieldCaseCamel
	case FieldCaseCamel, FieldCasePreserve:
	default:
		return nil, fmt.Errorf("unknown field case %q", opts.FieldCase)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l, err := load(ctx, opts.File)
	if err != nil {
		return nil, err
	}

	schema := ir.NewSchema()
	if err := schema.Structures.Add(&ir.ScalarType{Name: ir.ScalarDate, Description: DateDescription}); err != nil {
		return nil, err
	}

	b := &builder{
		loader:    l,
		schema:    schema,
		registry:  newRegistry(schema.Structures),
		imports:   newImportSet(),
		fieldCase: opts.FieldCase,
		logger:    logger,
	}

	rootIndex, err := l.index(l.rootFile)
	if err != nil {
		return nil, err
	}
	for _, pos := range rootIndex.Unattached {
		logger.Debug("ignoring directive not attached to a declaration", "pos", pos.String())
	}

	roots := &rootSet{seen: make(map[string]site)}
	queries, err := b.discoverRoots(directive.KindQuery, roots, opts.BaseDir)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mutations, err := b.discoverRoots(directive.KindMutation, roots, opts.BaseDir)
	if err != nil {
		return nil, err
	}

	if len(queries) > 0 {
		schema.Query = &ir.ObjectType{Name: "Query", Fields: queries}
	}
	if len(mutations) > 0 {
		schema.Mutation = &ir.ObjectType{Name: "Mutation", Fields: mutations}
	}
	for _, root := range schema.Roots() {
		if e := b.registry.lookup(root.Name); e != nil {
			return nil, diagf(CategoryConflict, e.pos, "type %s clashes with the %s root type", root.Name, root.Name)
		}
	}
	schema.Imports = b.imports.imports()

	if errs := schema.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid schema: %w", errs[0])
	}

	logger.Debug("built schema",
		"file", opts.File,
		"queries", len(queries),
		"mutations", len(mutations),
		"structures", schema.Structures.Len())
	return schema, nil
}
