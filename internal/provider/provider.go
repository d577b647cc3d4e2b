// Package provider composes the async wrapper around each domain service
// method. Commands trigger provider operations and render from their state.
package provider

import (
	"context"

	"go.uber.org/zap"

	"taskdeck/internal/async"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// Providers groups one provider per domain.
type Providers struct {
	Auth    *Auth
	Account *Account
	Task    *Task
	Todo    *Todo
	Comment *Comment
}

// New builds every provider from services. Login and OTP verification
// persist the returned credential in store.
func New(svc service.Services, store *session.Store, logger *zap.Logger) *Providers {
	return &Providers{
		Auth:    NewAuth(svc.Auth, store, logger),
		Account: NewAccount(svc.Account, logger),
		Task:    NewTask(svc.Task, logger),
		Todo:    NewTodo(svc.Todo, logger),
		Comment: NewComment(svc.Comment, logger),
	}
}

// Auth exposes signup, login and password recovery.
type Auth struct {
	Signup         *async.Operation[service.SignupInput, service.Account]
	Login          *async.Operation[service.Credentials, service.AccessToken]
	SendOTP        *async.Operation[service.PhoneNumber, service.Account]
	VerifyOTP      *async.Operation[service.OTPVerification, service.AccessToken]
	ForgotPassword *async.Operation[string, service.PasswordResetToken]

	store *session.Store
}

// NewAuth creates an Auth provider.
func NewAuth(svc service.AuthService, store *session.Store, logger *zap.Logger) *Auth {
	a := &Auth{store: store}
	log := named(logger, "auth")

	a.Signup = async.New("signup", func(ctx context.Context, in service.SignupInput) (async.Response[service.Account], error) {
		return respond(svc.Signup(ctx, in))
	}, log)

	a.Login = async.New("login", func(ctx context.Context, in service.Credentials) (async.Response[service.AccessToken], error) {
		token, err := svc.Login(ctx, in)
		if err != nil {
			return async.Response[service.AccessToken]{}, err
		}
		if err := store.Set(ctx, token); err != nil {
			return async.Response[service.AccessToken]{}, err
		}
		return async.Ok(token), nil
	}, log)

	a.SendOTP = async.New("send-otp", func(ctx context.Context, phone service.PhoneNumber) (async.Response[service.Account], error) {
		return respond(svc.SendOTP(ctx, phone))
	}, log)

	a.VerifyOTP = async.New("verify-otp", func(ctx context.Context, in service.OTPVerification) (async.Response[service.AccessToken], error) {
		token, err := svc.VerifyOTP(ctx, in)
		if err != nil {
			return async.Response[service.AccessToken]{}, err
		}
		if err := store.Set(ctx, token); err != nil {
			return async.Response[service.AccessToken]{}, err
		}
		return async.Ok(token), nil
	}, log)

	a.ForgotPassword = async.New("forgot-password", func(ctx context.Context, username string) (async.Response[service.PasswordResetToken], error) {
		return respond(svc.ForgotPassword(ctx, username))
	}, log)

	return a
}

// IsAuthenticated reports whether a session credential is stored.
func (a *Auth) IsAuthenticated(ctx context.Context) bool {
	return a.store.IsAuthenticated(ctx)
}

// Session returns the stored credential.
func (a *Auth) Session(ctx context.Context) (service.AccessToken, error) {
	return a.store.Get(ctx)
}

// Logout removes the session credential.
func (a *Auth) Logout(ctx context.Context) error {
	return a.store.Remove(ctx)
}

// Account exposes the signed-in account.
type Account struct {
	GetAccountDetails *async.Operation[service.AccessToken, service.Account]
	ResetPassword     *async.Operation[service.PasswordReset, service.Account]
	DeleteAccount     *async.Operation[string, struct{}]
}

// NewAccount creates an Account provider.
func NewAccount(svc service.AccountService, logger *zap.Logger) *Account {
	log := named(logger, "account")
	return &Account{
		GetAccountDetails: async.New("get-account", func(ctx context.Context, token service.AccessToken) (async.Response[service.Account], error) {
			return respond(svc.GetAccountDetails(ctx, token))
		}, log),
		ResetPassword: async.New("reset-password", func(ctx context.Context, in service.PasswordReset) (async.Response[service.Account], error) {
			return respond(svc.ResetPassword(ctx, in))
		}, log),
		DeleteAccount: async.New("delete-account", func(ctx context.Context, id string) (async.Response[struct{}], error) {
			return async.Response[struct{}]{}, svc.DeleteAccount(ctx, id)
		}, log),
	}
}
