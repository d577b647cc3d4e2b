package restapi

import (
	"context"

	"taskdeck/internal/service"
)

// Signup implements service.AuthService.
func (c *Client) Signup(ctx context.Context, in service.SignupInput) (service.Account, error) {
	var account service.Account
	if err := c.api.Post(ctx, "/accounts", in, &account); err != nil {
		return service.Account{}, wrapError("signup", err)
	}
	return account, nil
}

// Login implements service.AuthService.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.AccessToken, error) {
	var token service.AccessToken
	if err := c.api.Post(ctx, "/access-tokens", creds, &token); err != nil {
		return service.AccessToken{}, wrapError("login", err)
	}
	return token.Normalize(), nil
}

// SendOTP implements service.AuthService. Creating a phone account is how the
// API sends the one-time code.
func (c *Client) SendOTP(ctx context.Context, phone service.PhoneNumber) (service.Account, error) {
	body := struct {
		PhoneNumber service.PhoneNumber `json:"phone_number"`
	}{phone}
	var account service.Account
	if err := c.api.Post(ctx, "/accounts", body, &account); err != nil {
		return service.Account{}, wrapError("send otp", err)
	}
	return account, nil
}

// VerifyOTP implements service.AuthService.
func (c *Client) VerifyOTP(ctx context.Context, in service.OTPVerification) (service.AccessToken, error) {
	var token service.AccessToken
	if err := c.api.Post(ctx, "/access-tokens", in, &token); err != nil {
		return service.AccessToken{}, wrapError("verify otp", err)
	}
	return token.Normalize(), nil
}

// ForgotPassword implements service.AuthService.
func (c *Client) ForgotPassword(ctx context.Context, username string) (service.PasswordResetToken, error) {
	body := struct {
		Username string `json:"username"`
	}{username}
	var token service.PasswordResetToken
	if err := c.api.Post(ctx, "/password-reset-tokens", body, &token); err != nil {
		return service.PasswordResetToken{}, wrapError("forgot password", err)
	}
	return token, nil
}
