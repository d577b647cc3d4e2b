// Package async wraps a service call with observable loading, error and
// result state.
package async

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"taskdeck/internal/apiclient"
)

// Fallback values used when a failure carries no API error body.
const (
	UnknownErrorCode    = "UNKNOWN_ERROR"
	UnknownErrorMessage = "An unknown error occurred"
)

// Response is what a wrapped call returns. A nil Data leaves the current
// result unchanged.
type Response[T any] struct {
	Data *T
}

// Ok wraps v in a Response.
func Ok[T any](v T) Response[T] {
	return Response[T]{Data: &v}
}

// Error is the normalized failure of a wrapped call.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Normalize converts err to an *Error. API errors keep their code and
// message; anything else gets the unknown-error fallback.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	out := &Error{Code: UnknownErrorCode, Message: UnknownErrorMessage, Err: err}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code != "" {
			out.Code = apiErr.Code
		}
		if apiErr.Message != "" {
			out.Message = apiErr.Message
		}
	}
	return out
}

// State is a snapshot of an Operation.
type State[T any] struct {
	IsLoading bool
	Error     *Error
	Result    *T
}

// Operation runs a call and tracks its state. Triggers may overlap: loading
// drops as soon as any of them settles, and the result is whatever settled
// last with data.
type Operation[A, T any] struct {
	name   string
	fn     func(context.Context, A) (Response[T], error)
	logger *zap.Logger

	mu        sync.Mutex
	state     State[T]
	listeners []func(State[T])
}

// New creates an Operation around fn.
func New[A, T any](name string, fn func(ctx context.Context, arg A) (Response[T], error), logger *zap.Logger) *Operation[A, T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Operation[A, T]{name: name, fn: fn, logger: logger}
}

// State returns the current snapshot.
func (o *Operation[A, T]) State() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers fn to receive every state change. The returned func
// removes it.
func (o *Operation[A, T]) Subscribe(fn func(State[T])) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
	i := len(o.listeners) - 1
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.listeners[i] = nil
	}
}

// Trigger runs the call with arg. On success it returns the response data
// (nil when there was none); on failure it records and returns the
// normalized *Error.
func (o *Operation[A, T]) Trigger(ctx context.Context, arg A) (*T, error) {
	o.update(func(s *State[T]) {
		s.IsLoading = true
		s.Error = nil
	})
	o.logger.Debug("operation started", zap.String("operation", o.name))

	resp, err := o.fn(ctx, arg)
	if err != nil {
		e := Normalize(err)
		o.update(func(s *State[T]) {
			s.Error = e
			s.IsLoading = false
		})
		o.logger.Debug("operation failed",
			zap.String("operation", o.name),
			zap.String("code", e.Code),
			zap.Error(err),
		)
		return nil, e
	}

	o.update(func(s *State[T]) {
		if resp.Data != nil {
			s.Result = resp.Data
		}
		s.IsLoading = false
	})
	o.logger.Debug("operation finished",
		zap.String("operation", o.name),
		zap.Bool("data", resp.Data != nil),
	)
	return resp.Data, nil
}

func (o *Operation[A, T]) update(fn func(*State[T])) {
	o.mu.Lock()
	fn(&o.state)
	snapshot := o.state
	listeners := slices.Clone(o.listeners)
	o.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(snapshot)
		}
	}
}
