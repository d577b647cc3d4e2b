package restapi

import (
	"context"

	"taskdeck/internal/service"
)

// AddTask implements service.TaskService.
func (c *Client) AddTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.api.Post(ctx, "/tasks", in, &task); err != nil {
		return service.Task{}, wrapError("add task", err)
	}
	return task, nil
}

// GetTasks implements service.TaskService.
func (c *Client) GetTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.api.Get(ctx, "/tasks", nil, &tasks); err != nil {
		return nil, wrapError("get tasks", err)
	}
	return tasks, nil
}

// EditTask implements service.TaskService.
func (c *Client) EditTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.api.Put(ctx, pathID("/tasks", in.ID), in, &task); err != nil {
		return service.Task{}, wrapError("edit task", err)
	}
	if task.ID == "" {
		task = service.Task{ID: in.ID, Title: in.Title, Description: in.Description, Type: in.Type, DueDate: in.DueDate}
	}
	return task, nil
}

// DeleteTask implements service.TaskService.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	if err := c.api.Delete(ctx, pathID("/tasks", taskID)); err != nil {
		return wrapError("delete task", err)
	}
	return nil
}
