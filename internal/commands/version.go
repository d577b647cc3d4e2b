package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string               { return "version" }
func (c *VersionCmd) Aliases() []string          { return nil }
func (c *VersionCmd) Synopsis() string           { return "Print version" }
func (c *VersionCmd) Usage() string              { return "taskdeck version" }
func (c *VersionCmd) NeedsApp() bool             { return false }
func (c *VersionCmd) Route(args []string) string { return "" }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "taskdeck %s\n", Version)
	return exitcode.Success
}
