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
	"taskdeck/internal/validate"
)

const (
	otpSentMessage   = "OTP has been sent successfully. Please check your messages."
	otpResentMessage = "OTP has been successfully re-sent. Please check your messages."
)

func init() {
	Register(&LoginCmd{})
	Register(&VerifyOTPCmd{})
}

// LoginCmd implements the login command. With the phone mechanism, or with
// --otp, it sends a one-time code instead of checking a password.
type LoginCmd struct {
	otp      bool
	username string
	password string
	phone    phoneFlags
	code     string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the access token" }
func (c *LoginCmd) Usage() string {
	return "taskdeck login --username <email> --password <password>\n" +
		"  taskdeck login [--otp] --country-code <+N> --phone <number> [--code <otp>]"
}
func (c *LoginCmd) NeedsApp() bool { return true }

func (c *LoginCmd) Route(args []string) string {
	if c.otp {
		return routes.LoginPath + "?auth_mode=" + routes.AuthModeOTP
	}
	return routes.LoginPath
}

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.otp, "otp", false, "")
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
	fs.StringVar(&c.code, "code", "", "")
	c.phone.register(fs)
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if a.Resolve(ctx, c.Route(args)).Page == routes.PhoneLogin {
		return c.runPhone(ctx, cfg, a, out, errOut)
	}

	creds, err := validate.LoginForm{Username: c.username, Password: c.password}.Credentials()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Auth.Login.Trigger(ctx, creds); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "ok")
}

// runPhone sends a code, or verifies one when --code is given.
func (c *LoginCmd) runPhone(ctx context.Context, cfg *config.Config, a *app.App, out, errOut io.Writer) int {
	if c.code != "" {
		return verifyOTP(ctx, cfg, a, c.phone.form(), c.code, out, errOut)
	}

	phone, err := c.phone.form().Phone()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Auth.SendOTP.Trigger(ctx, phone); err != nil {
		return fail(errOut, err)
	}
	if cfg.Quiet {
		return exitcode.Success
	}
	fmt.Fprintln(out, otpSentMessage)
	next := "login --otp"
	if a.Routes.Reachable(false, routes.VerifyOTP) {
		next = "verify-otp"
	}
	fmt.Fprintf(out, "run: taskdeck %s --country-code %s --phone %s --code <otp>\n", next, phone.CountryCode, phone.PhoneNumber)
	return exitcode.Success
}

// VerifyOTPCmd implements the verify-otp command.
type VerifyOTPCmd struct {
	phone  phoneFlags
	code   string
	resend bool
}

func (c *VerifyOTPCmd) Name() string      { return "verify-otp" }
func (c *VerifyOTPCmd) Aliases() []string { return nil }
func (c *VerifyOTPCmd) Synopsis() string  { return "Verify a one-time code and log in" }
func (c *VerifyOTPCmd) Usage() string {
	return "taskdeck verify-otp --country-code <+N> --phone <number> (--code <otp> | --resend)"
}
func (c *VerifyOTPCmd) NeedsApp() bool             { return true }
func (c *VerifyOTPCmd) Route(args []string) string { return "/verify-otp" }

func (c *VerifyOTPCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.code, "code", "", "")
	fs.BoolVar(&c.resend, "resend", false, "")
	c.phone.register(fs)
}

func (c *VerifyOTPCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if !c.resend {
		return verifyOTP(ctx, cfg, a, c.phone.form(), c.code, out, errOut)
	}

	phone, err := c.phone.form().Phone()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Auth.SendOTP.Trigger(ctx, phone); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, otpResentMessage)
}

func verifyOTP(ctx context.Context, cfg *config.Config, a *app.App, phone validate.PhoneForm, code string, out, errOut io.Writer) int {
	in, err := validate.OTPForm{PhoneForm: phone, Code: code}.Verification()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Auth.VerifyOTP.Trigger(ctx, in); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "ok")
}

// phoneFlags are the --country-code and --phone flags shared by the OTP
// commands.
type phoneFlags struct {
	countryCode string
	number      string
}

func (p *phoneFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.countryCode, "country-code", "", "")
	fs.StringVar(&p.number, "phone", "", "")
}

func (p *phoneFlags) form() validate.PhoneForm {
	return validate.PhoneForm{CountryCode: p.countryCode, PhoneNumber: p.number}
}
