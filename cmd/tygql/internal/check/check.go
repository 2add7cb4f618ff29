package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/broady/tygql/cmd/tygql/internal/cliconfig"
	"github.com/broady/tygql/tygqlgen"
)

type Cmd struct {
	cliconfig.Flags
}

// Run regenerates in memory and fails when files on disk are stale.
func (c *Cmd) Run(ctx context.Context, s *cliconfig.Streams) error {
	cfg, err := c.Resolve(s.Err)
	if err != nil {
		return err
	}
	g := tygqlgen.FromConfig(*cfg)
	stale, err := g.Check(ctx, cfg.OutDir)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		return fmt.Errorf("generated files are out of date: %s\nrun tygql gen to update them", strings.Join(stale, ", "))
	}
	fmt.Fprintf(s.Out, "✓ %s is up to date\n", cfg.OutDir)
	return nil
}
