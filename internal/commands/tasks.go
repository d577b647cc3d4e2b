package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/validate"
)

func init() {
	Register(&TasksCmd{})
	Register(&TaskAddCmd{})
	Register(&TaskEditCmd{})
	Register(&TaskRmCmd{})
	Register(&CommentCmd{})
}

// TasksCmd implements the tasks command.
type TasksCmd struct {
	format string
}

func (c *TasksCmd) Name() string               { return "tasks" }
func (c *TasksCmd) Aliases() []string          { return nil }
func (c *TasksCmd) Synopsis() string           { return "List tasks" }
func (c *TasksCmd) Usage() string              { return "taskdeck tasks [--format text|json|yaml]" }
func (c *TasksCmd) NeedsApp() bool             { return true }
func (c *TasksCmd) Route(args []string) string { return "/tasks" }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	p, code := newPrinter(out, errOut, c.format)
	if p == nil {
		return code
	}
	tasks, err := loadTasks(ctx, a)
	if err != nil {
		return fail(errOut, err)
	}
	if err := p.Tasks(tasks); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}

func loadTasks(ctx context.Context, a *app.App) ([]service.Task, error) {
	if _, err := a.Providers.Task.GetTasks.Trigger(ctx, struct{}{}); err != nil {
		return nil, err
	}
	if result := a.Providers.Task.GetTasks.State().Result; result != nil {
		return *result, nil
	}
	return nil, nil
}

// TaskAddCmd implements the task-add command.
type TaskAddCmd struct {
	description string
	kind        string
	due         string
}

func (c *TaskAddCmd) Name() string      { return "task-add" }
func (c *TaskAddCmd) Aliases() []string { return nil }
func (c *TaskAddCmd) Synopsis() string  { return "Add a task" }
func (c *TaskAddCmd) Usage() string {
	return "taskdeck task-add --description <text> [--type <type>] [--due <YYYY-MM-DD>] <title...>"
}
func (c *TaskAddCmd) NeedsApp() bool             { return true }
func (c *TaskAddCmd) Route(args []string) string { return "/tasks/add" }

func (c *TaskAddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.kind, "type", "", "")
	fs.StringVar(&c.kind, "t", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *TaskAddCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	in, err := validate.TaskForm{
		Title:       strings.TrimSpace(strings.Join(args, " ")),
		Description: c.description,
		Type:        c.kind,
		DueDate:     c.due,
	}.Input()
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Task.AddTask.Trigger(ctx, in); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Task added successfully")
}

// TaskEditCmd implements the task-edit command. Fields without a flag keep
// their current value.
type TaskEditCmd struct {
	title       optString
	description optString
	kind        optString
	due         optString
}

func (c *TaskEditCmd) Name() string      { return "task-edit" }
func (c *TaskEditCmd) Aliases() []string { return nil }
func (c *TaskEditCmd) Synopsis() string  { return "Edit a task" }
func (c *TaskEditCmd) Usage() string {
	return "taskdeck task-edit [--title <t>] [--description <d>] [--type <type>] [--due <YYYY-MM-DD>] <id|n>"
}
func (c *TaskEditCmd) NeedsApp() bool { return true }

func (c *TaskEditCmd) Route(args []string) string {
	return withID("/tasks/%s/edit", args)
}

func (c *TaskEditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = TaskEditCmd{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.kind, "type", "")
	fs.Var(&c.kind, "t", "")
	fs.Var(&c.due, "due", "")
}

func (c *TaskEditCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	id := firstArg(args)
	if id == "" {
		return fail(errOut, &validate.Error{Field: "id", Message: validate.IDMessage})
	}

	tasks, err := loadTasks(ctx, a)
	if err != nil {
		return fail(errOut, err)
	}
	current, err := findTask(tasks, id)
	if err != nil {
		return fail(errOut, err)
	}

	in, err := validate.TaskForm{
		ID:          current.ID,
		Title:       c.title.or(current.Title),
		Description: c.description.or(current.Description),
		Type:        c.kind.or(string(current.Type)),
		DueDate:     c.due.value,
	}.Input()
	if err != nil {
		return fail(errOut, err)
	}
	if !c.due.set {
		// A kept due date may already be in the past.
		in.DueDate = current.DueDate
	}
	if _, err := a.Providers.Task.EditTask.Trigger(ctx, in); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Task updated successfully")
}

// TaskRmCmd implements the task-rm command.
type TaskRmCmd struct{}

func (c *TaskRmCmd) Name() string      { return "task-rm" }
func (c *TaskRmCmd) Aliases() []string { return []string{"task-delete"} }
func (c *TaskRmCmd) Synopsis() string  { return "Delete a task" }
func (c *TaskRmCmd) Usage() string     { return "taskdeck task-rm <id|n>" }
func (c *TaskRmCmd) NeedsApp() bool    { return true }

func (c *TaskRmCmd) Route(args []string) string {
	return withID("/tasks/%s/delete", args)
}

func (c *TaskRmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TaskRmCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	ref := firstArg(args)
	if ref == "" {
		return fail(errOut, &validate.Error{Field: "id", Message: validate.IDMessage})
	}
	id, err := resolveTaskID(ctx, a, ref)
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := a.Providers.Task.DeleteTask.Trigger(ctx, id); err != nil {
		return fail(errOut, err)
	}
	return done(cfg, out, "Task deleted successfully")
}

// CommentCmd implements the comment command. With text after the task id it
// adds a comment, otherwise it lists the task's comments.
type CommentCmd struct {
	format string
}

func (c *CommentCmd) Name() string      { return "comment" }
func (c *CommentCmd) Aliases() []string { return []string{"comments"} }
func (c *CommentCmd) Synopsis() string  { return "List or add task comments" }
func (c *CommentCmd) Usage() string {
	return "taskdeck comment [--format text|json|yaml] <task-id|n> [text...]"
}
func (c *CommentCmd) NeedsApp() bool { return true }

func (c *CommentCmd) Route(args []string) string {
	return withID("/tasks/%s/comments", args)
}

func (c *CommentCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
}

func (c *CommentCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if firstArg(args) == "" {
		return fail(errOut, &validate.Error{Field: "id", Message: validate.IDMessage})
	}
	taskID, err := resolveTaskID(ctx, a, firstArg(args))
	if err != nil {
		return fail(errOut, err)
	}

	if len(args) > 1 {
		in, err := validate.CommentForm{
			TaskID:  taskID,
			Comment: strings.TrimSpace(strings.Join(args[1:], " ")),
		}.Input()
		if err != nil {
			return fail(errOut, err)
		}
		if _, err := a.Providers.Comment.AddComment.Trigger(ctx, in); err != nil {
			return fail(errOut, err)
		}
		return done(cfg, out, "ok")
	}

	p, code := newPrinter(out, errOut, c.format)
	if p == nil {
		return code
	}
	if _, err := a.Providers.Comment.GetComments.Trigger(ctx, taskID); err != nil {
		return fail(errOut, err)
	}
	var comments []service.Comment
	if result := a.Providers.Comment.GetComments.State().Result; result != nil {
		comments = *result
	}
	if err := p.Comments(comments); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
