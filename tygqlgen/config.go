package tygqlgen

import (
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Output file names, relative to Config.OutDir.
const (
	GoFile   = "schema.go"
	SDLFile  = "schema.graphql"
	JSONFile = "schema.json"
)

// Config holds the configuration for schema generation.
type Config struct {
	// File is the Go source file holding the //gql:query and //gql:mutation
	// roots, e.g. "./api/api.go".
	File string `yaml:"file" validate:"required,endswith=.go"`

	// BaseDir is the directory root locators are reported relative to.
	// Defaults to the current directory.
	BaseDir string `yaml:"base_dir" validate:"omitempty,dir"`

	// OutDir is the directory generated files are written to. It must be a
	// different package from the one declaring the roots.
	OutDir string `yaml:"out_dir" validate:"required"`

	// Package is the package clause of the generated Go file.
	// Defaults to the base name of OutDir when that is a valid identifier.
	Package string `yaml:"package" validate:"omitempty,goident"`

	// FieldCase selects default field names: "camel" (default) or "preserve".
	FieldCase string `yaml:"field_case" validate:"omitempty,oneof=camel preserve"`

	// SDL also writes schema.graphql.
	SDL bool `yaml:"sdl"`

	// JSON also writes the intermediate representation as schema.json.
	JSON bool `yaml:"json"`

	// Logger receives progress output. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return token.IsIdentifier(s) && s != "_"
	})
	return v
})

// Validate checks cfg for missing or malformed settings.
func (cfg *Config) Validate() error {
	return validate().Struct(cfg)
}

// LoadConfig reads a YAML configuration file. Relative paths in the file are
// resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.File, &cfg.BaseDir, &cfg.OutDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return cfg, nil
}
