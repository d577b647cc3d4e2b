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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string               { return "help" }
func (c *HelpCmd) Aliases() []string          { return nil }
func (c *HelpCmd) Synopsis() string           { return "Print usage" }
func (c *HelpCmd) Usage() string              { return "taskdeck help" }
func (c *HelpCmd) NeedsApp() bool             { return false }
func (c *HelpCmd) Route(args []string) string { return "" }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           Show the signed-in account
  taskdeck login --username <email> --password <password>
  taskdeck login [--otp] --country-code <+N> --phone <number> [--code <otp>]
  taskdeck verify-otp --country-code <+N> --phone <number> (--code <otp> | --resend)
  taskdeck signup --first-name <name> --last-name <name> --username <email> --password <password>
  taskdeck forgot-password <email>
  taskdeck reset-password --token <token> --password <password> <account-id>
  taskdeck logout
  taskdeck whoami [--format <f>]
  taskdeck status
  taskdeck todos [--status todo|done] [--overdue] [--limit <n>] [--format <f>]
  taskdeck todo-add --description <text> --type <type> --due <YYYY-MM-DD> <title...>
  taskdeck todo-update [--title <t>] [--description <d>] [--type <type>] [--due <date>] [--done[=false]] <id>
  taskdeck todo-done <id>
  taskdeck todo-rm <id>
  taskdeck tasks [--format <f>]
  taskdeck task-add --description <text> [--type <type>] [--due <YYYY-MM-DD>] <title...>
  taskdeck task-edit [--title <t>] [--description <d>] [--type <type>] [--due <date>] <id>
  taskdeck task-rm <id>
  taskdeck comment [--format <f>] <task-id> [text...]
  taskdeck delete-account --force
  taskdeck about
  taskdeck help
  taskdeck version

Types: Official, Personal, Hobby. Formats: text, json, yaml.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
