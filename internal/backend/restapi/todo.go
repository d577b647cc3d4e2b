package restapi

import (
	"context"
	"net/url"
	"strconv"

	"taskdeck/internal/service"
)

// GetTodos implements service.TodoService.
func (c *Client) GetTodos(ctx context.Context, filter service.TodoFilter) ([]service.Todo, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Overdue {
		query.Set("overdue", "true")
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var todos []service.Todo
	if err := c.api.Get(ctx, "/todos", query, &todos); err != nil {
		return nil, wrapError("get todos", err)
	}
	// The API may ignore limit.
	if filter.Limit > 0 && len(todos) > filter.Limit {
		todos = todos[:filter.Limit]
	}
	return todos, nil
}

// CreateTodo implements service.TodoService.
func (c *Client) CreateTodo(ctx context.Context, in service.TodoInput) (service.Todo, error) {
	var todo service.Todo
	if err := c.api.Post(ctx, "/todos", in, &todo); err != nil {
		return service.Todo{}, wrapError("create todo", err)
	}
	return todo, nil
}

// UpdateTodo implements service.TodoService. A 204 response yields a nil Todo.
func (c *Client) UpdateTodo(ctx context.Context, in service.TodoUpdate) (*service.Todo, error) {
	var todo service.Todo
	if err := c.api.Patch(ctx, pathID("/todos", in.ID), in, &todo); err != nil {
		return nil, wrapError("update todo", err)
	}
	if todo.ID == "" {
		return nil, nil
	}
	return &todo, nil
}

// DeleteTodo implements service.TodoService.
func (c *Client) DeleteTodo(ctx context.Context, todoID string) error {
	if err := c.api.Delete(ctx, pathID("/todos", todoID)); err != nil {
		return wrapError("delete todo", err)
	}
	return nil
}
