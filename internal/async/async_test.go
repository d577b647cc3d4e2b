package async_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"taskdeck/internal/apiclient"
	"taskdeck/internal/async"
)

// recorder collects every state an operation passes through.
type recorder[T any] struct {
	mu     sync.Mutex
	states []async.State[T]
}

func (r *recorder[T]) record(s async.State[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder[T]) loadingDrops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	drops := 0
	prev := false
	for _, s := range r.states {
		if prev && !s.IsLoading {
			drops++
		}
		prev = s.IsLoading
	}
	return drops
}

func TestTrigger_Success(t *testing.T) {
	op := async.New("double", func(_ context.Context, n int) (async.Response[int], error) {
		return async.Ok(n * 2), nil
	}, nil)
	rec := &recorder[int]{}
	op.Subscribe(rec.record)

	got, err := op.Trigger(context.Background(), 21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}

	state := op.State()
	if state.IsLoading {
		t.Error("expected loading to be cleared")
	}
	if state.Error != nil {
		t.Errorf("expected no error, got %v", state.Error)
	}
	if state.Result == nil || *state.Result != 42 {
		t.Errorf("expected result 42, got %v", state.Result)
	}
	if !rec.states[0].IsLoading {
		t.Error("expected the first transition to set loading")
	}
	if drops := rec.loadingDrops(); drops != 1 {
		t.Errorf("expected loading to drop once, got %d", drops)
	}
}

func TestTrigger_ClearsPriorError(t *testing.T) {
	fail := true
	op := async.New("flaky", func(_ context.Context, _ struct{}) (async.Response[string], error) {
		if fail {
			return async.Response[string]{}, errors.New("boom")
		}
		return async.Ok("ok"), nil
	}, nil)

	if _, err := op.Trigger(context.Background(), struct{}{}); err == nil {
		t.Fatal("expected error")
	}
	if op.State().Error == nil {
		t.Fatal("expected error state")
	}

	fail = false
	rec := &recorder[string]{}
	op.Subscribe(rec.record)
	if _, err := op.Trigger(context.Background(), struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.states[0].Error != nil {
		t.Error("expected the error to be cleared when the call starts")
	}
	if op.State().Error != nil {
		t.Errorf("expected no error, got %v", op.State().Error)
	}
}

func TestTrigger_APIError(t *testing.T) {
	cause := &apiclient.APIError{Status: http.StatusUnauthorized, Code: "ACCESS_TOKEN_ERR_02", Message: "Access token has expired."}
	op := async.New("get", func(_ context.Context, _ string) (async.Response[int], error) {
		return async.Response[int]{}, cause
	}, nil)
	rec := &recorder[int]{}
	op.Subscribe(rec.record)

	_, err := op.Trigger(context.Background(), "x")

	var e *async.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *async.Error, got %T", err)
	}
	if e.Code != "ACCESS_TOKEN_ERR_02" {
		t.Errorf("expected code %q, got %q", "ACCESS_TOKEN_ERR_02", e.Code)
	}
	if e.Message != "Access token has expired." {
		t.Errorf("expected message %q, got %q", "Access token has expired.", e.Message)
	}
	if !apiclient.IsUnauthorized(err) {
		t.Error("expected the cause to stay reachable")
	}

	state := op.State()
	if state.IsLoading {
		t.Error("expected loading to be cleared")
	}
	if state.Error != e {
		t.Error("expected the returned error to be stored")
	}
	if drops := rec.loadingDrops(); drops != 1 {
		t.Errorf("expected loading to drop once, got %d", drops)
	}
}

func TestTrigger_UnknownError(t *testing.T) {
	op := async.New("fail", func(_ context.Context, _ int) (async.Response[int], error) {
		return async.Response[int]{}, errors.New("connection refused")
	}, nil)

	_, err := op.Trigger(context.Background(), 0)

	var e *async.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *async.Error, got %T", err)
	}
	if e.Code != async.UnknownErrorCode {
		t.Errorf("expected code %q, got %q", async.UnknownErrorCode, e.Code)
	}
	if e.Message != async.UnknownErrorMessage {
		t.Errorf("expected message %q, got %q", async.UnknownErrorMessage, e.Message)
	}
}

func TestTrigger_NoDataKeepsResult(t *testing.T) {
	empty := false
	op := async.New("maybe", func(_ context.Context, n int) (async.Response[int], error) {
		if empty {
			return async.Response[int]{}, nil
		}
		return async.Ok(n), nil
	}, nil)

	if _, err := op.Trigger(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	empty = true
	got, err := op.Trigger(context.Background(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil data, got %v", *got)
	}
	if r := op.State().Result; r == nil || *r != 7 {
		t.Errorf("expected result to stay 7, got %v", r)
	}
}

func TestTrigger_LastResolvedWins(t *testing.T) {
	release := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	started := make(chan int, 2)
	op := async.New("slow", func(_ context.Context, n int) (async.Response[int], error) {
		started <- n
		<-release[n]
		return async.Ok(n), nil
	}, nil)

	done := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	for _, n := range []int{1, 2} {
		go func(n int) {
			defer close(done[n])
			if _, err := op.Trigger(context.Background(), n); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(n)
	}
	<-started
	<-started

	// Second call settles first.
	close(release[2])
	<-done[2]
	if r := op.State().Result; r == nil || *r != 2 {
		t.Fatalf("expected the second call's data first, got %v", r)
	}
	close(release[1])
	<-done[1]

	if r := op.State().Result; r == nil || *r != 1 {
		t.Errorf("expected the first call's data, got %v", r)
	}
	if op.State().IsLoading {
		t.Error("expected loading to be cleared")
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	op := async.New("noop", func(_ context.Context, _ int) (async.Response[int], error) {
		return async.Ok(1), nil
	}, nil)
	rec := &recorder[int]{}
	stop := op.Subscribe(rec.record)
	stop()

	if _, err := op.Trigger(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.states) != 0 {
		t.Errorf("expected no notifications, got %d", len(rec.states))
	}
}

func TestNormalize_KeepsAsyncError(t *testing.T) {
	in := &async.Error{Code: "X", Message: "y"}
	if got := async.Normalize(in); got != in {
		t.Errorf("expected the same error back, got %v", got)
	}
	if async.Normalize(nil) != nil {
		t.Error("expected nil for nil")
	}
}

func TestSubscribe_UnsubscribeDuringNotify(t *testing.T) {
	op := async.New("echo", func(_ context.Context, s string) (async.Response[string], error) {
		return async.Ok(s), nil
	}, nil)

	rec := &recorder[string]{}
	op.Subscribe(rec.record)

	once := 0
	var unsubscribe func()
	unsubscribe = op.Subscribe(func(async.State[string]) {
		once++
		unsubscribe()
	})

	if _, err := op.Trigger(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := op.Trigger(context.Background(), "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if once != 1 {
		t.Errorf("expected the removed listener to run once, got %d", once)
	}
	if drops := rec.loadingDrops(); drops != 2 {
		t.Errorf("expected two completed triggers, got %d", drops)
	}
}
