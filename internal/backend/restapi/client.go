// Package restapi implements the service interfaces over the HTTP API.
// Each method translates one domain operation into one HTTP call.
package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"taskdeck/internal/apiclient"
	"taskdeck/internal/service"
)

// Client implements every service interface on one API client.
type Client struct {
	api *apiclient.Client
}

// New creates a Client.
func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Services returns the client as a service bundle.
func (c *Client) Services() service.Services {
	return service.Services{
		Auth:    c,
		Account: c,
		Task:    c,
		Todo:    c,
		Comment: c,
	}
}

var (
	_ service.AuthService    = (*Client)(nil)
	_ service.AccountService = (*Client)(nil)
	_ service.TaskService    = (*Client)(nil)
	_ service.TodoService    = (*Client)(nil)
	_ service.CommentService = (*Client)(nil)
)

// ErrTimeout is returned when a request runs past its deadline.
var ErrTimeout = errors.New("request timed out")

// wrapError keeps *apiclient.APIError intact so callers can read the code and
// status, and turns deadline errors into ErrTimeout.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout exceeded") {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pathID(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
