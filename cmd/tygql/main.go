package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/broady/tygql/cmd/tygql/internal/check"
	"github.com/broady/tygql/cmd/tygql/internal/cliconfig"
	"github.com/broady/tygql/cmd/tygql/internal/gen"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate the graphql-go schema from annotated Go declarations."`
	Check   check.Cmd  `cmd:"" help:"Fail if generated files are missing or out of date."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(s *cliconfig.Streams) error {
	fmt.Fprintln(s.Out, Version())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("tygql"),
		kong.Description("Generate GraphQL schemas from annotated Go declarations."),
		kong.UsageOnError(),
		kong.Vars{"default_config": cliconfig.DefaultFile},
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(&cliconfig.Streams{Out: os.Stdout, Err: os.Stderr}),
	)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
