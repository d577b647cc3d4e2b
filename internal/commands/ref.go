package commands

import (
	"context"
	"fmt"
	"strconv"
	"unicode"

	"taskdeck/internal/app"
	"taskdeck/internal/service"
	"taskdeck/internal/validate"
)

// maxRefDigits bounds what counts as a listing number. Longer digit strings
// are taken as ids.
const maxRefDigits = 6

// parseRef reports whether ref is a 1-based listing number, as printed by
// the todos and tasks commands.
func parseRef(ref string) (int, bool) {
	if ref == "" || len(ref) > maxRefDigits {
		return 0, false
	}
	for _, r := range ref {
		if !unicode.IsDigit(r) {
			return 0, false
		}
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	return num, true
}

func refOutOfRange(kind string, num int) error {
	return &validate.Error{Field: "id", Message: fmt.Sprintf("%s number out of range: %d", kind, num)}
}

// resolveTodoID maps a listing number to the todo id at that position of
// the unfiltered listing. Any other ref is returned unchanged.
func resolveTodoID(ctx context.Context, a *app.App, ref string) (string, error) {
	if err := checkID(ref); err != nil {
		return "", err
	}
	num, ok := parseRef(ref)
	if !ok {
		return ref, nil
	}
	if _, err := a.Providers.Todo.GetTodos.Trigger(ctx, service.TodoFilter{}); err != nil {
		return "", err
	}
	var todos []service.Todo
	if result := a.Providers.Todo.GetTodos.State().Result; result != nil {
		todos = *result
	}
	if num < 1 || num > len(todos) {
		return "", refOutOfRange("todo", num)
	}
	return todos[num-1].ID, nil
}

// findTask looks ref up in tasks, by listing number or by id.
func findTask(tasks []service.Task, ref string) (service.Task, error) {
	if err := checkID(ref); err != nil {
		return service.Task{}, err
	}
	if num, ok := parseRef(ref); ok {
		if num < 1 || num > len(tasks) {
			return service.Task{}, refOutOfRange("task", num)
		}
		return tasks[num-1], nil
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	return service.Task{}, &validate.Error{Field: "id", Message: "task not found: " + ref}
}

// resolveTaskID maps a listing number to a task id. Any other ref is
// returned unchanged.
func resolveTaskID(ctx context.Context, a *app.App, ref string) (string, error) {
	if err := checkID(ref); err != nil {
		return "", err
	}
	if _, ok := parseRef(ref); !ok {
		return ref, nil
	}
	tasks, err := loadTasks(ctx, a)
	if err != nil {
		return "", err
	}
	task, err := findTask(tasks, ref)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}
