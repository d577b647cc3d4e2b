package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/routes"
)

func init() {
	Register(&WhoamiCmd{})
	Register(&DeleteAccountCmd{})
	Register(&StatusCmd{})
	Register(&AboutCmd{})
}

// WhoamiCmd implements the whoami command, the dashboard page.
type WhoamiCmd struct {
	format string
}

func (c *WhoamiCmd) Name() string               { return "whoami" }
func (c *WhoamiCmd) Aliases() []string          { return []string{"dashboard"} }
func (c *WhoamiCmd) Synopsis() string           { return "Show the signed-in account" }
func (c *WhoamiCmd) Usage() string              { return "taskdeck whoami [--format text|json|yaml]" }
func (c *WhoamiCmd) NeedsApp() bool             { return true }
func (c *WhoamiCmd) Route(args []string) string { return routes.HomePath }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	p, code := newPrinter(out, errOut, c.format)
	if p == nil {
		return code
	}

	// The dispatcher mounts the protected shell first; reuse its result.
	account := a.Providers.Account.GetAccountDetails.State().Result
	if account == nil {
		mounted, err := a.Mount(ctx)
		if err != nil {
			return fail(errOut, err)
		}
		account = &mounted
	}
	if err := p.Account(*account); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}

// DeleteAccountCmd implements the delete-account command on the settings
// page. The session is removed afterwards.
type DeleteAccountCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *DeleteAccountCmd) SetForce(force bool) {
	c.force = force
}

func (c *DeleteAccountCmd) Name() string               { return "delete-account" }
func (c *DeleteAccountCmd) Aliases() []string          { return nil }
func (c *DeleteAccountCmd) Synopsis() string           { return "Delete the signed-in account" }
func (c *DeleteAccountCmd) Usage() string              { return "taskdeck delete-account --force" }
func (c *DeleteAccountCmd) NeedsApp() bool             { return true }
func (c *DeleteAccountCmd) Route(args []string) string { return "/settings" }

func (c *DeleteAccountCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *DeleteAccountCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if !c.force {
		fmt.Fprintln(errOut, "error: deleting the account cannot be undone (use --force)")
		return exitcode.UserError
	}

	cred, err := a.Providers.Auth.Session(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Account.DeleteAccount.Trigger(ctx, cred.AccountID); err != nil {
		return fail(errOut, err)
	}
	if err := a.Providers.Auth.Logout(ctx); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove access token: %v\n", err)
		return exitcode.AuthError
	}
	return done(cfg, out, "Account deleted successfully")
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string               { return "status" }
func (c *StatusCmd) Aliases() []string          { return nil }
func (c *StatusCmd) Synopsis() string           { return "Show session and configuration" }
func (c *StatusCmd) Usage() string              { return "taskdeck status" }
func (c *StatusCmd) NeedsApp() bool             { return true }
func (c *StatusCmd) Route(args []string) string { return "" }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	session := "not logged in"
	if cred, err := a.Providers.Auth.Session(ctx); err == nil {
		session = "logged in as " + cred.AccountID
		if !cred.ExpiresAt.IsZero() {
			session += " until " + cred.ExpiresAt.UTC().Format("2006-01-02 15:04 MST")
		}
	}

	fmt.Fprintf(out, "session:   %s\n", session)
	fmt.Fprintf(out, "api:       %s\n", cfg.APIURL())
	fmt.Fprintf(out, "auth:      %s\n", a.Routes.Mechanism())
	fmt.Fprintf(out, "storage:   %s\n", cfg.Settings.SessionBackend)
	return exitcode.Success
}

// AboutCmd implements the about command. It is reachable with or without a
// session.
type AboutCmd struct{}

func (c *AboutCmd) Name() string               { return "about" }
func (c *AboutCmd) Aliases() []string          { return nil }
func (c *AboutCmd) Synopsis() string           { return "About taskdeck" }
func (c *AboutCmd) Usage() string              { return "taskdeck about" }
func (c *AboutCmd) NeedsApp() bool             { return true }
func (c *AboutCmd) Route(args []string) string { return "/about" }

func (c *AboutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AboutCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "taskdeck %s\n", Version)
	fmt.Fprintln(out, "A terminal client for tasks and todos.")
	return exitcode.Success
}
