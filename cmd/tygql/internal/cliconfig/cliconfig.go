// Package cliconfig merges command-line flags over an optional YAML
// configuration file.
package cliconfig

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/broady/tygql/tygqlgen"
)

// DefaultFile is read when --config is not given and the file exists.
const DefaultFile = "tygql.yaml"

// Flags are shared by the gen and check commands. Set flags override the
// values read from the configuration file.
type Flags struct {
	File      string `arg:"" optional:"" help:"Go file declaring the //gql:query and //gql:mutation roots."`
	Config    string `help:"YAML configuration file (default: ${default_config} if present)." short:"c"`
	Out       string `help:"Output directory for generated files." short:"o"`
	BaseDir   string `help:"Directory root locators are reported relative to." name:"base-dir"`
	Package   string `help:"Package name of the generated Go file." short:"p"`
	FieldCase string `help:"Default field naming: camel or preserve." name:"field-case"`
	SDL       bool   `help:"Also write schema.graphql."`
	JSON      bool   `help:"Also write the intermediate representation as schema.json."`
	Verbose   bool   `help:"Log progress at debug level." short:"v"`
}

// Resolve returns the effective configuration. Logs go to w.
func (f *Flags) Resolve(w io.Writer) (*tygqlgen.Config, error) {
	cfg := new(tygqlgen.Config)

	path := f.Config
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if path != "" {
		loaded, err := tygqlgen.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		cfg = loaded
	}

	override(&cfg.File, f.File)
	override(&cfg.OutDir, f.Out)
	override(&cfg.BaseDir, f.BaseDir)
	override(&cfg.Package, f.Package)
	override(&cfg.FieldCase, f.FieldCase)
	cfg.SDL = cfg.SDL || f.SDL
	cfg.JSON = cfg.JSON || f.JSON

	level := slog.LevelInfo
	if f.Verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

// Streams are the output streams commands write to.
type Streams struct {
	Out io.Writer
	Err io.Writer
}
