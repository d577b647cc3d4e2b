package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/validate"
)

func init() {
	Register(&TodosCmd{})
	Register(&TodoAddCmd{})
	Register(&TodoUpdateCmd{})
	Register(&TodoDoneCmd{})
	Register(&TodoRmCmd{})
}

// TodosCmd implements the todos command.
type TodosCmd struct {
	status  string
	overdue bool
	limit   int
	format  string
}

// SetLimit sets the limit flag (for testing).
func (c *TodosCmd) SetLimit(limit int) {
	c.limit = limit
}

func (c *TodosCmd) Name() string      { return "todos" }
func (c *TodosCmd) Aliases() []string { return nil }
func (c *TodosCmd) Synopsis() string  { return "List todos" }
func (c *TodosCmd) Usage() string {
	return "taskdeck todos [--status todo|done] [--overdue] [--limit <n>] [--format text|json|yaml]"
}
func (c *TodosCmd) NeedsApp() bool             { return true }
func (c *TodosCmd) Route(args []string) string { return "/todos" }

func (c *TodosCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.BoolVar(&c.overdue, "overdue", false, "")
	fs.IntVar(&c.limit, "limit", 0, "")
	fs.IntVar(&c.limit, "n", 0, "")
	fs.StringVar(&c.format, "format", "", "")
}

func (c *TodosCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	status, ok := parseStatus(c.status)
	if !ok {
		fmt.Fprintf(errOut, "error: invalid status: %s (want todo or done)\n", c.status)
		return exitcode.UserError
	}
	if c.limit < 0 {
		fmt.Fprintf(errOut, "error: invalid limit: %d\n", c.limit)
		return exitcode.UserError
	}
	p, code := newPrinter(out, errOut, c.format)
	if p == nil {
		return code
	}

	filter := service.TodoFilter{Status: status, Overdue: c.overdue, Limit: c.limit}
	if _, err := a.Providers.Todo.GetTodos.Trigger(ctx, filter); err != nil {
		return fail(errOut, err)
	}

	var todos []service.Todo
	if result := a.Providers.Todo.GetTodos.State().Result; result != nil {
		todos = *result
	}
	if err := p.Todos(todos); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}

// TodoAddCmd implements the todo-add command.
type TodoAddCmd struct {
	description string
	kind        string
	due         string
}

func (c *TodoAddCmd) Name() string      { return "todo-add" }
func (c *TodoAddCmd) Aliases() []string { return []string{"todo-create"} }
func (c *TodoAddCmd) Synopsis() string  { return "Create a todo" }
func (c *TodoAddCmd) Usage() string {
	return "taskdeck todo-add --description <text> --type Official|Personal|Hobby --due <YYYY-MM-DD> <title...>"
}
func (c *TodoAddCmd) NeedsApp() bool             { return true }
func (c *TodoAddCmd) Route(args []string) string { return "/todos/create" }

func (c *TodoAddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.kind, "type", "", "")
	fs.StringVar(&c.kind, "t", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *TodoAddCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	in, err := validate.TodoForm{
		Title:       strings.TrimSpace(strings.Join(args, " ")),
		Description: c.description,
		Type:        c.kind,
		DueDate:     c.due,
	}.Input()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Todo.CreateTodo.Trigger(ctx, in); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Todo created successfully.")
}

// TodoUpdateCmd implements the todo-update command. Only the given flags are
// sent.
type TodoUpdateCmd struct {
	title       optString
	description optString
	kind        optString
	due         optString
	done        optBool
}

func (c *TodoUpdateCmd) Name() string      { return "todo-update" }
func (c *TodoUpdateCmd) Aliases() []string { return []string{"todo-edit"} }
func (c *TodoUpdateCmd) Synopsis() string  { return "Update a todo" }
func (c *TodoUpdateCmd) Usage() string {
	return "taskdeck todo-update [--title <t>] [--description <d>] [--type <type>] [--due <YYYY-MM-DD>] [--done[=false]] <id|n>"
}
func (c *TodoUpdateCmd) NeedsApp() bool { return true }

func (c *TodoUpdateCmd) Route(args []string) string {
	return withID("/todos/%s/update", args)
}

func (c *TodoUpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = TodoUpdateCmd{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.kind, "type", "")
	fs.Var(&c.kind, "t", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.done, "done", "")
}

func (c *TodoUpdateCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	return updateTodo(ctx, cfg, a, validate.TodoUpdateForm{
		ID:          firstArg(args),
		Title:       c.title.ptr(),
		Description: c.description.ptr(),
		Type:        c.kind.ptr(),
		DueDate:     c.due.ptr(),
		Done:        c.done.ptr(),
	}, out, errOut)
}

// TodoDoneCmd implements the todo-done command.
type TodoDoneCmd struct{}

func (c *TodoDoneCmd) Name() string      { return "todo-done" }
func (c *TodoDoneCmd) Aliases() []string { return []string{"done"} }
func (c *TodoDoneCmd) Synopsis() string  { return "Mark a todo as done" }
func (c *TodoDoneCmd) Usage() string     { return "taskdeck todo-done <id|n>" }
func (c *TodoDoneCmd) NeedsApp() bool    { return true }

func (c *TodoDoneCmd) Route(args []string) string {
	return withID("/todos/%s/update", args)
}

func (c *TodoDoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TodoDoneCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	isDone := true
	return updateTodo(ctx, cfg, a, validate.TodoUpdateForm{ID: firstArg(args), Done: &isDone}, out, errOut)
}

func updateTodo(ctx context.Context, cfg *config.Config, a *app.App, form validate.TodoUpdateForm, out, errOut io.Writer) int {
	up, err := form.Update()
	if err != nil {
		return fail(errOut, err)
	}
	if up.ID, err = resolveTodoID(ctx, a, up.ID); err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Todo.UpdateTodo.Trigger(ctx, up); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Todo updated successfully.")
}

// TodoRmCmd implements the todo-rm command.
type TodoRmCmd struct{}

func (c *TodoRmCmd) Name() string      { return "todo-rm" }
func (c *TodoRmCmd) Aliases() []string { return []string{"todo-delete"} }
func (c *TodoRmCmd) Synopsis() string  { return "Delete a todo" }
func (c *TodoRmCmd) Usage() string     { return "taskdeck todo-rm <id|n>" }
func (c *TodoRmCmd) NeedsApp() bool    { return true }

func (c *TodoRmCmd) Route(args []string) string {
	return withID("/todos/%s/delete", args)
}

func (c *TodoRmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TodoRmCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	ref := firstArg(args)
	if ref == "" {
		return fail(errOut, &validate.Error{Field: "id", Message: validate.IDMessage})
	}
	id, err := resolveTodoID(ctx, a, ref)
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Todo.DeleteTodo.Trigger(ctx, id); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Todo deleted successfully.")
}
