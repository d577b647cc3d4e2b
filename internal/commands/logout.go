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

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string               { return "logout" }
func (c *LogoutCmd) Aliases() []string          { return nil }
func (c *LogoutCmd) Synopsis() string           { return "Remove the stored access token" }
func (c *LogoutCmd) Usage() string              { return "taskdeck logout [common flags]" }
func (c *LogoutCmd) NeedsApp() bool             { return true }
func (c *LogoutCmd) Route(args []string) string { return "" }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if !a.IsAuthenticated(ctx) {
		return done(cfg, out, "not logged in")
	}

	if err := a.Providers.Auth.Logout(ctx); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove access token: %v\n", err)
		return exitcode.AuthError
	}
	return done(cfg, out, "ok")
}
