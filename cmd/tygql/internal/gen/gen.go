package gen

import (
	"context"
	"fmt"

	"github.com/broady/tygql/cmd/tygql/internal/cliconfig"
	"github.com/broady/tygql/tygqlgen"
)

type Cmd struct {
	cliconfig.Flags
}

func (c *Cmd) Run(ctx context.Context, s *cliconfig.Streams) error {
	cfg, err := c.Resolve(s.Err)
	if err != nil {
		return err
	}
	res, err := tygqlgen.FromConfig(*cfg).ToDir(ctx, cfg.OutDir)
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		fmt.Fprintf(s.Out, "✓ wrote %s\n", f.Path)
	}
	return nil
}
