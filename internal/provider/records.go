package provider

import (
	"context"

	"go.uber.org/zap"

	"taskdeck/internal/async"
	"taskdeck/internal/service"
)

// Task exposes task CRUD.
type Task struct {
	AddTask    *async.Operation[service.TaskInput, service.Task]
	GetTasks   *async.Operation[struct{}, []service.Task]
	EditTask   *async.Operation[service.TaskInput, service.Task]
	DeleteTask *async.Operation[string, struct{}]
}

// NewTask creates a Task provider.
func NewTask(svc service.TaskService, logger *zap.Logger) *Task {
	log := named(logger, "task")
	return &Task{
		AddTask: async.New("add-task", func(ctx context.Context, in service.TaskInput) (async.Response[service.Task], error) {
			return respond(svc.AddTask(ctx, in))
		}, log),
		GetTasks: async.New("get-tasks", func(ctx context.Context, _ struct{}) (async.Response[[]service.Task], error) {
			return respond(svc.GetTasks(ctx))
		}, log),
		EditTask: async.New("edit-task", func(ctx context.Context, in service.TaskInput) (async.Response[service.Task], error) {
			return respond(svc.EditTask(ctx, in))
		}, log),
		DeleteTask: async.New("delete-task", func(ctx context.Context, id string) (async.Response[struct{}], error) {
			return async.Response[struct{}]{}, svc.DeleteTask(ctx, id)
		}, log),
	}
}

// Todo exposes todo CRUD.
type Todo struct {
	GetTodos   *async.Operation[service.TodoFilter, []service.Todo]
	CreateTodo *async.Operation[service.TodoInput, service.Todo]
	UpdateTodo *async.Operation[service.TodoUpdate, service.Todo]
	DeleteTodo *async.Operation[string, struct{}]
}

// NewTodo creates a Todo provider.
func NewTodo(svc service.TodoService, logger *zap.Logger) *Todo {
	log := named(logger, "todo")
	return &Todo{
		GetTodos: async.New("get-todos", func(ctx context.Context, filter service.TodoFilter) (async.Response[[]service.Todo], error) {
			return respond(svc.GetTodos(ctx, filter))
		}, log),
		CreateTodo: async.New("create-todo", func(ctx context.Context, in service.TodoInput) (async.Response[service.Todo], error) {
			return respond(svc.CreateTodo(ctx, in))
		}, log),
		UpdateTodo: async.New("update-todo", func(ctx context.Context, in service.TodoUpdate) (async.Response[service.Todo], error) {
			todo, err := svc.UpdateTodo(ctx, in)
			return async.Response[service.Todo]{Data: todo}, err
		}, log),
		DeleteTodo: async.New("delete-todo", func(ctx context.Context, id string) (async.Response[struct{}], error) {
			return async.Response[struct{}]{}, svc.DeleteTodo(ctx, id)
		}, log),
	}
}

// Comment exposes task comments.
type Comment struct {
	AddComment  *async.Operation[service.CommentInput, service.Comment]
	GetComments *async.Operation[string, []service.Comment]
}

// NewComment creates a Comment provider.
func NewComment(svc service.CommentService, logger *zap.Logger) *Comment {
	log := named(logger, "comment")
	return &Comment{
		AddComment: async.New("add-comment", func(ctx context.Context, in service.CommentInput) (async.Response[service.Comment], error) {
			return respond(svc.AddComment(ctx, in))
		}, log),
		GetComments: async.New("get-comments", func(ctx context.Context, taskID string) (async.Response[[]service.Comment], error) {
			return respond(svc.GetComments(ctx, taskID))
		}, log),
	}
}

func respond[T any](v T, err error) (async.Response[T], error) {
	if err != nil {
		return async.Response[T]{}, err
	}
	return async.Ok(v), nil
}

func named(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(name)
}
