package service

import "context"

// AuthService covers signup, login and password recovery. None of its calls
// require a session.
type AuthService interface {
	// Signup creates an email/password account.
	Signup(ctx context.Context, in SignupInput) (Account, error)

	// Login exchanges email/password for an access token.
	Login(ctx context.Context, creds Credentials) (AccessToken, error)

	// SendOTP creates (or finds) the phone account and sends it a one-time code.
	SendOTP(ctx context.Context, phone PhoneNumber) (Account, error)

	// VerifyOTP exchanges a phone number and one-time code for an access token.
	VerifyOTP(ctx context.Context, in OTPVerification) (AccessToken, error)

	// ForgotPassword requests a password reset link for username.
	ForgotPassword(ctx context.Context, username string) (PasswordResetToken, error)
}

// AccountService covers the signed-in account.
type AccountService interface {
	// GetAccountDetails fetches the account the token belongs to.
	GetAccountDetails(ctx context.Context, token AccessToken) (Account, error)

	// ResetPassword sets a new password using a reset token.
	ResetPassword(ctx context.Context, in PasswordReset) (Account, error)

	// DeleteAccount removes the account.
	DeleteAccount(ctx context.Context, accountID string) error
}

// TaskService covers tasks.
type TaskService interface {
	AddTask(ctx context.Context, in TaskInput) (Task, error)
	GetTasks(ctx context.Context) ([]Task, error)
	EditTask(ctx context.Context, in TaskInput) (Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// TodoService covers todos.
type TodoService interface {
	// GetTodos lists the account's todos, in API order.
	GetTodos(ctx context.Context, filter TodoFilter) ([]Todo, error)

	CreateTodo(ctx context.Context, in TodoInput) (Todo, error)

	// UpdateTodo applies a partial update. The API may answer with no body,
	// in which case the returned Todo is nil.
	UpdateTodo(ctx context.Context, in TodoUpdate) (*Todo, error)

	DeleteTodo(ctx context.Context, todoID string) error
}

// CommentService covers task comments.
type CommentService interface {
	AddComment(ctx context.Context, in CommentInput) (Comment, error)
	GetComments(ctx context.Context, taskID string) ([]Comment, error)
}

// Services bundles one implementation per entity. Build it once at startup
// and pass it down.
type Services struct {
	Auth    AuthService
	Account AccountService
	Task    TaskService
	Todo    TodoService
	Comment CommentService
}
