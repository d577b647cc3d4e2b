// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskdeck/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of every service interface.
type FakeService struct {
	mu       sync.RWMutex
	nextID   int
	accounts map[string]service.Account
	tokens   map[string]string // token -> account id
	todos    []service.Todo
	tasks    []service.Task
	comments []service.Comment

	// Calls counts every service method invoked.
	Calls int

	// Error injection for testing
	SignupErr         error
	LoginErr          error
	SendOTPErr        error
	VerifyOTPErr      error
	ForgotPasswordErr error
	GetAccountErr     error
	ResetPasswordErr  error
	DeleteAccountErr  error
	GetTodosErr       error
	CreateTodoErr     error
	UpdateTodoErr     error
	DeleteTodoErr     error
	GetTasksErr       error
	AddTaskErr        error
	EditTaskErr       error
	DeleteTaskErr     error
	AddCommentErr     error
	GetCommentsErr    error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		accounts: make(map[string]service.Account),
		tokens:   make(map[string]string),
	}
}

// Services returns the fake as a service bundle.
func (f *FakeService) Services() service.Services {
	return service.Services{Auth: f, Account: f, Task: f, Todo: f, Comment: f}
}

// AddAccount stores an account and returns a token for it.
func (f *FakeService) AddAccount(account service.Account) service.AccessToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == "" {
		account.ID = f.idLocked("acc")
	}
	f.accounts[account.ID] = account
	return f.issueLocked(account.ID)
}

// AddTodo stores a todo.
func (f *FakeService) AddTodo(todo service.Todo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append(f.todos, todo)
}

// SeedTask stores a task.
func (f *FakeService) SeedTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// Todos returns the stored todos.
func (f *FakeService) Todos() []service.Todo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Todo(nil), f.todos...)
}

// Tasks returns the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks...)
}

func (f *FakeService) idLocked(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *FakeService) issueLocked(accountID string) service.AccessToken {
	token := f.idLocked("tok")
	f.tokens[token] = accountID
	return service.AccessToken{
		AccountID: accountID,
		Token:     token,
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *FakeService) called() {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
}

// Signup implements service.AuthService.
func (f *FakeService) Signup(ctx context.Context, in service.SignupInput) (service.Account, error) {
	f.called()
	if f.SignupErr != nil {
		return service.Account{}, f.SignupErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	account := service.Account{
		ID:        f.idLocked("acc"),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
	}
	f.accounts[account.ID] = account
	return account, nil
}

// Login implements service.AuthService. Any password is accepted for a
// known username.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.AccessToken, error) {
	f.called()
	if f.LoginErr != nil {
		return service.AccessToken{}, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.accounts {
		if a.Username == creds.Username {
			return f.issueLocked(id), nil
		}
	}
	return service.AccessToken{}, ErrNotFound
}

// SendOTP implements service.AuthService.
func (f *FakeService) SendOTP(ctx context.Context, phone service.PhoneNumber) (service.Account, error) {
	f.called()
	if f.SendOTPErr != nil {
		return service.Account{}, f.SendOTPErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.PhoneNumber != nil && *a.PhoneNumber == phone {
			return a, nil
		}
	}
	account := service.Account{ID: f.idLocked("acc"), PhoneNumber: &phone}
	f.accounts[account.ID] = account
	return account, nil
}

// VerifyOTP implements service.AuthService. Only OTPCode is accepted.
func (f *FakeService) VerifyOTP(ctx context.Context, in service.OTPVerification) (service.AccessToken, error) {
	f.called()
	if f.VerifyOTPErr != nil {
		return service.AccessToken{}, f.VerifyOTPErr
	}
	if in.OTPCode != OTPCode {
		return service.AccessToken{}, errors.New("invalid otp")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.accounts {
		if a.PhoneNumber != nil && *a.PhoneNumber == in.PhoneNumber {
			return f.issueLocked(id), nil
		}
	}
	return service.AccessToken{}, ErrNotFound
}

// ForgotPassword implements service.AuthService.
func (f *FakeService) ForgotPassword(ctx context.Context, username string) (service.PasswordResetToken, error) {
	f.called()
	if f.ForgotPasswordErr != nil {
		return service.PasswordResetToken{}, f.ForgotPasswordErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.accounts {
		if a.Username == username {
			return service.PasswordResetToken{ID: f.idLocked("reset"), Account: id}, nil
		}
	}
	return service.PasswordResetToken{}, ErrNotFound
}

// GetAccountDetails implements service.AccountService.
func (f *FakeService) GetAccountDetails(ctx context.Context, token service.AccessToken) (service.Account, error) {
	f.called()
	if f.GetAccountErr != nil {
		return service.Account{}, f.GetAccountErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.accounts[token.AccountID]
	if !ok {
		return service.Account{}, ErrNotFound
	}
	return a, nil
}

// ResetPassword implements service.AccountService.
func (f *FakeService) ResetPassword(ctx context.Context, in service.PasswordReset) (service.Account, error) {
	f.called()
	if f.ResetPasswordErr != nil {
		return service.Account{}, f.ResetPasswordErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.accounts[in.AccountID]
	if !ok {
		return service.Account{}, ErrNotFound
	}
	return a, nil
}

// DeleteAccount implements service.AccountService.
func (f *FakeService) DeleteAccount(ctx context.Context, accountID string) error {
	f.called()
	if f.DeleteAccountErr != nil {
		return f.DeleteAccountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[accountID]; !ok {
		return ErrNotFound
	}
	delete(f.accounts, accountID)
	return nil
}

// GetTodos implements service.TodoService.
func (f *FakeService) GetTodos(ctx context.Context, filter service.TodoFilter) ([]service.Todo, error) {
	f.called()
	if f.GetTodosErr != nil {
		return nil, f.GetTodosErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Todo
	for _, t := range f.todos {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CreateTodo implements service.TodoService.
func (f *FakeService) CreateTodo(ctx context.Context, in service.TodoInput) (service.Todo, error) {
	f.called()
	if f.CreateTodoErr != nil {
		return service.Todo{}, f.CreateTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	todo := service.Todo{
		ID:          f.idLocked("todo"),
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		DueDate:     in.DueDate,
		Status:      service.StatusToDo,
	}
	f.todos = append(f.todos, todo)
	return todo, nil
}

// UpdateTodo implements service.TodoService.
func (f *FakeService) UpdateTodo(ctx context.Context, in service.TodoUpdate) (*service.Todo, error) {
	f.called()
	if f.UpdateTodoErr != nil {
		return nil, f.UpdateTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		t := &f.todos[i]
		if t.ID != in.ID {
			continue
		}
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Type != nil {
			t.Type = *in.Type
		}
		if in.DueDate != nil {
			t.DueDate = *in.DueDate
		}
		if in.Status != nil {
			t.Status = *in.Status
		}
		updated := *t
		return &updated, nil
	}
	return nil, ErrNotFound
}

// DeleteTodo implements service.TodoService.
func (f *FakeService) DeleteTodo(ctx context.Context, todoID string) error {
	f.called()
	if f.DeleteTodoErr != nil {
		return f.DeleteTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == todoID {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// GetTasks implements service.TaskService.
func (f *FakeService) GetTasks(ctx context.Context) ([]service.Task, error) {
	f.called()
	if f.GetTasksErr != nil {
		return nil, f.GetTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// AddTask implements service.TaskService.
func (f *FakeService) AddTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.called()
	if f.AddTaskErr != nil {
		return service.Task{}, f.AddTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task := service.Task{
		ID:          f.idLocked("task"),
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		DueDate:     in.DueDate,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// EditTask implements service.TaskService.
func (f *FakeService) EditTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.called()
	if f.EditTaskErr != nil {
		return service.Task{}, f.EditTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == in.ID {
			f.tasks[i] = service.Task{
				ID:          t.ID,
				AccountID:   t.AccountID,
				Title:       in.Title,
				Description: in.Description,
				Type:        in.Type,
				DueDate:     in.DueDate,
			}
			return f.tasks[i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.TaskService.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	f.called()
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// AddComment implements service.CommentService.
func (f *FakeService) AddComment(ctx context.Context, in service.CommentInput) (service.Comment, error) {
	f.called()
	if f.AddCommentErr != nil {
		return service.Comment{}, f.AddCommentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	comment := service.Comment{ID: f.idLocked("comment"), TaskID: in.TaskID, Comment: in.Comment}
	f.comments = append(f.comments, comment)
	return comment, nil
}

// GetComments implements service.CommentService.
func (f *FakeService) GetComments(ctx context.Context, taskID string) ([]service.Comment, error) {
	f.called()
	if f.GetCommentsErr != nil {
		return nil, f.GetCommentsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Comment
	for _, c := range f.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}
