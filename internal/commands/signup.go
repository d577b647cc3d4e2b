package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/validate"
)

func init() {
	Register(&SignupCmd{})
	Register(&ForgotPasswordCmd{})
	Register(&ResetPasswordCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	firstName string
	lastName  string
	username  string
	password  passwordFlags
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "taskdeck signup --first-name <name> --last-name <name> --username <email> --password <password> [--confirm-password <password>]"
}
func (c *SignupCmd) NeedsApp() bool             { return true }
func (c *SignupCmd) Route(args []string) string { return "/signup" }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.firstName, "first-name", "", "")
	fs.StringVar(&c.lastName, "last-name", "", "")
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	c.password.register(fs)
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	in, err := validate.SignupForm{
		FirstName:       c.firstName,
		LastName:        c.lastName,
		Username:        c.username,
		Password:        c.password.password,
		ConfirmPassword: c.password.confirmation(),
	}.Input()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Auth.Signup.Trigger(ctx, in); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Your account has been successfully created. Please login to continue.")
}

// ForgotPasswordCmd implements the forgot-password command.
type ForgotPasswordCmd struct {
	username string
}

func (c *ForgotPasswordCmd) Name() string      { return "forgot-password" }
func (c *ForgotPasswordCmd) Aliases() []string { return nil }
func (c *ForgotPasswordCmd) Synopsis() string  { return "Email a password reset link" }
func (c *ForgotPasswordCmd) Usage() string {
	return "taskdeck forgot-password (--username <email> | <email>)"
}
func (c *ForgotPasswordCmd) NeedsApp() bool             { return true }
func (c *ForgotPasswordCmd) Route(args []string) string { return "/forgot-password" }

func (c *ForgotPasswordCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
}

func (c *ForgotPasswordCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	username := c.username
	if username == "" {
		username = firstArg(args)
	}
	email, err := validate.ForgotPasswordForm{Username: username}.Email()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Auth.ForgotPassword.Trigger(ctx, email); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, fmt.Sprintf("A password reset link has been sent to %s.", email))
}

// ResetPasswordCmd implements the reset-password command. The account id and
// token come from the reset link.
type ResetPasswordCmd struct {
	token    string
	password passwordFlags
}

func (c *ResetPasswordCmd) Name() string      { return "reset-password" }
func (c *ResetPasswordCmd) Aliases() []string { return nil }
func (c *ResetPasswordCmd) Synopsis() string  { return "Choose a new password from a reset link" }
func (c *ResetPasswordCmd) Usage() string {
	return "taskdeck reset-password --token <token> --password <password> [--confirm-password <password>] <account-id>"
}
func (c *ResetPasswordCmd) NeedsApp() bool { return true }

func (c *ResetPasswordCmd) Route(args []string) string {
	return withID("/account/%s/reset_password", args)
}

func (c *ResetPasswordCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
	c.password.register(fs)
}

func (c *ResetPasswordCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if err := checkID(firstArg(args)); err != nil {
		return fail(errOut, err)
	}
	in, err := validate.ResetPasswordForm{
		AccountID:       firstArg(args),
		Token:           c.token,
		Password:        c.password.password,
		ConfirmPassword: c.password.confirmation(),
	}.Input()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Account.ResetPassword.Trigger(ctx, in); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Your password has been successfully updated. Please login to continue.")
}

// passwordFlags are --password and --confirm-password. Without a
// confirmation the password confirms itself.
type passwordFlags struct {
	password string
	confirm  string
}

func (p *passwordFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.password, "password", "", "")
	fs.StringVar(&p.password, "p", "", "")
	fs.StringVar(&p.confirm, "confirm-password", "", "")
}

func (p *passwordFlags) confirmation() string {
	if p.confirm == "" {
		return p.password
	}
	return p.confirm
}
