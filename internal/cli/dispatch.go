package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"taskdeck/internal/app"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/routes"
)

// AppFactory assembles the App for a command.
// Used to inject the session backend and services during dispatch.
type AppFactory func(ctx context.Context, cfg *config.Config) (*app.App, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  AppFactory
}

// NewDispatcher creates a new dispatcher with the given registry and app factory.
func NewDispatcher(registry *commands.Registry, factory AppFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> the dashboard
	if len(args) == 0 {
		return d.dispatch(ctx, "whoami", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		// Handle specific error types
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
			// Extract flag name
			parts := strings.Split(errStr, ":")
			if len(parts) > 0 {
				flagPart := strings.TrimSpace(parts[0])
				flagPart = strings.TrimPrefix(flagPart, "flag ")
				fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
				return exitcode.UserError
			}
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		// Generic error handling for bad flag values
		if strings.Contains(errStr, "invalid value") {
			fmt.Fprintf(errOut, "error: %s\n", errStr)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := config.NewLogger(errOut, debug)
	defer logger.Sync()
	cfg.Logger = logger

	if !cmd.NeedsApp() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.BackendError
	}
	a, err := d.factory(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
	defer a.Close()

	if code, ok := d.enter(ctx, a, cmd, positionalArgs, out, errOut); !ok {
		return code
	}

	// Run command
	return cmd.Run(ctx, cfg, a, positionalArgs, out, errOut)
}

// enter resolves the command's route for the current session. Pages behind
// the protected shell mount it first. It returns false with an exit code
// when the command must not run.
func (d *Dispatcher) enter(ctx context.Context, a *app.App, cmd commands.Command, args []string, out, errOut io.Writer) (int, bool) {
	target := cmd.Route(args)
	if target == "" {
		return exitcode.Success, true
	}

	m := a.Resolve(ctx, target)
	a.Logger.Debug("route resolved",
		zap.String("command", cmd.Name()),
		zap.String("target", target),
		zap.Stringer("kind", m.Kind),
		zap.String("page", string(m.Page)),
	)

	switch m.Kind {
	case routes.KindRedirect:
		if m.RedirectTo == routes.HomePath {
			if !a.Config.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success, false
		}
		// Only pages the protected table knows need a session.
		if a.Routes.Resolve(true, target).Kind == routes.KindPage {
			fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
			return exitcode.AuthError, false
		}
		fmt.Fprintf(errOut, "error: %s is not available with %s (run: taskdeck login)\n", cmd.Name(), a.Routes.Mechanism())
		return exitcode.UserError, false

	case routes.KindNotFound:
		fmt.Fprintf(errOut, "error: %s is not available while logged in (run: taskdeck logout)\n", cmd.Name())
		return exitcode.UserError, false
	}

	if m.Protected {
		if _, err := a.Mount(ctx); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			fmt.Fprintln(errOut, "logged out (run: taskdeck login)")
			return exitcode.AuthError, false
		}
	}
	return exitcode.Success, true
}
