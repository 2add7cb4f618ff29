// Package tygqlgen generates a GraphQL schema from annotated Go source.
//
// A Generator runs the source provider over a root file, then renders the
// resulting schema as Go code targeting github.com/graphql-go/graphql and,
// optionally, as SDL and as the JSON intermediate representation. Nothing is
// written unless every output renders.
//
//	res, err := tygqlgen.FromFile("./api/api.go").
//	    WithSDL().
//	    ToDir("./api/gql")
package tygqlgen

import (
	"context"
	"encoding/json"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/broady/tygql/tygqlgen/golang"
	"github.com/broady/tygql/tygqlgen/ir"
	"github.com/broady/tygql/tygqlgen/provider"
	"github.com/broady/tygql/tygqlgen/sdl"
	"github.com/broady/tygql/tygqlgen/sink"
	"golang.org/x/mod/modfile"
)

// Generator provides a fluent API for schema generation.
type Generator struct {
	cfg Config
}

// FromFile returns a Generator for the roots declared in file.
func FromFile(file string) *Generator {
	return &Generator{cfg: Config{File: file}}
}

// FromConfig returns a Generator for a loaded configuration.
func FromConfig(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// BaseDir sets the directory root locators are relative to.
func (g *Generator) BaseDir(dir string) *Generator {
	g.cfg.BaseDir = dir
	return g
}

// Package sets the package clause of the generated Go file.
func (g *Generator) Package(name string) *Generator {
	g.cfg.Package = name
	return g
}

// FieldCase sets how default field names are derived: "camel" or "preserve".
func (g *Generator) FieldCase(c string) *Generator {
	g.cfg.FieldCase = c
	return g
}

// WithSDL also renders schema.graphql.
func (g *Generator) WithSDL() *Generator {
	g.cfg.SDL = true
	return g
}

// WithJSON also renders the intermediate representation as schema.json.
func (g *Generator) WithJSON() *Generator {
	g.cfg.JSON = true
	return g
}

// Logger sets the logger for progress output.
func (g *Generator) Logger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// File is one rendered output. Its Path is relative to the output directory.
type File = sink.File

// GenerateResult holds the rendered outputs and the schema they came from.
type GenerateResult struct {
	Schema *ir.Schema
	Files  []File
}

// Generate renders every output in memory. The output directory is only
// consulted to derive the package name and to reject generating into the
// source package.
func (g *Generator) Generate(ctx context.Context, outDir string) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.OutDir = outDir
	return Generate(ctx, &cfg)
}

// ToDir renders every output and writes them to dir.
func (g *Generator) ToDir(ctx context.Context, dir string) (*GenerateResult, error) {
	res, err := g.Generate(ctx, dir)
	if err != nil {
		return nil, err
	}
	if err := res.Write(ctx, sink.NewFilesystemSink(dir)); err != nil {
		return nil, err
	}
	return res, nil
}

// Check renders every output and reports the files under dir that are
// missing or differ.
func (g *Generator) Check(ctx context.Context, dir string) ([]string, error) {
	res, err := g.Generate(ctx, dir)
	if err != nil {
		return nil, err
	}
	s := sink.NewCheckSink(dir)
	if err := res.Write(ctx, s); err != nil {
		return nil, err
	}
	return s.Stale(), nil
}

// Write sends every file to s. Sinks implementing sink.BatchSink receive
// the files as one batch, so a failed write leaves none of them behind.
func (r *GenerateResult) Write(ctx context.Context, s sink.OutputSink) error {
	if b, ok := s.(sink.BatchSink); ok {
		return b.WriteFiles(ctx, r.Files)
	}
	for _, f := range r.Files {
		if err := s.WriteFile(ctx, f.Path, f.Content); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

// Generate builds the schema described by cfg and renders its outputs.
func Generate(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = applyConfigDefaults(cfg)
	logger := cfg.Logger

	if err := checkDistinctPackages(filepath.Dir(cfg.File), cfg.OutDir); err != nil {
		return nil, err
	}

	p := &provider.SourceProvider{}
	schema, err := p.BuildSchema(ctx, provider.SourceOptions{
		File:      cfg.File,
		BaseDir:   cfg.BaseDir,
		FieldCase: provider.FieldCase(cfg.FieldCase),
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}

	res := &GenerateResult{Schema: schema}
	code, err := golang.Emit(schema, golang.Options{Package: cfg.Package})
	if err != nil {
		return nil, fmt.Errorf("emit Go: %w", err)
	}
	res.Files = append(res.Files, File{Path: GoFile, Content: code})

	if cfg.SDL {
		out, err := sdl.Emit(schema)
		if err != nil {
			return nil, fmt.Errorf("emit SDL: %w", err)
		}
		res.Files = append(res.Files, File{Path: SDLFile, Content: out})
	}
	if cfg.JSON {
		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		res.Files = append(res.Files, File{Path: JSONFile, Content: append(out, '\n')})
	}

	logger.Info("generated schema",
		"file", cfg.File,
		"structures", schema.Structures.Len(),
		"outputs", len(res.Files))
	return res, nil
}

func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg
	if result.BaseDir == "" {
		result.BaseDir = "."
	}
	if result.FieldCase == "" {
		result.FieldCase = string(provider.FieldCaseCamel)
	}
	if result.Package == "" {
		result.Package = "schema"
		if abs, err := filepath.Abs(result.OutDir); err == nil {
			if base := filepath.Base(abs); token.IsIdentifier(base) && base != "_" {
				result.Package = base
			}
		}
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}
	return &result
}

// checkDistinctPackages rejects an output directory that is the source
// package itself, since the generated file imports it.
func checkDistinctPackages(srcDir, outDir string) error {
	src, err := importPath(srcDir)
	if err != nil {
		return err
	}
	out, err := importPath(outDir)
	if err != nil {
		return err
	}
	if src == out {
		return fmt.Errorf("output directory %s is the source package %s; generated code must live in a separate package", outDir, src)
	}
	return nil
}

// importPath returns the import path of dir, found by walking up to the
// nearest go.mod. dir need not exist. Outside any module the absolute
// directory is returned.
func importPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for root := abs; ; {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", fmt.Errorf("%s: no module directive", filepath.Join(root, "go.mod"))
			}
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return mod, nil
			}
			return mod + "/" + filepath.ToSlash(rel), nil
		}
		parent := filepath.Dir(root)
		if parent == root {
			return abs, nil
		}
		root = parent
	}
}
