package restapi

import (
	"context"

	"taskdeck/internal/service"
)

// AddComment implements service.CommentService.
func (c *Client) AddComment(ctx context.Context, in service.CommentInput) (service.Comment, error) {
	var comment service.Comment
	if err := c.api.Post(ctx, "/comments", in, &comment); err != nil {
		return service.Comment{}, wrapError("add comment", err)
	}
	return comment, nil
}

// GetComments implements service.CommentService.
func (c *Client) GetComments(ctx context.Context, taskID string) ([]service.Comment, error) {
	var comments []service.Comment
	if err := c.api.Get(ctx, pathID("/comments", taskID), nil, &comments); err != nil {
		return nil, wrapError("get comments", err)
	}
	return comments, nil
}
