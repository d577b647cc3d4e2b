package restapi

import (
	"context"
	"errors"

	"taskdeck/internal/service"
)

// GetAccountDetails implements service.AccountService.
func (c *Client) GetAccountDetails(ctx context.Context, token service.AccessToken) (service.Account, error) {
	if token.AccountID == "" {
		return service.Account{}, errors.New("get account: session has no account id")
	}
	var account service.Account
	if err := c.api.Get(ctx, pathID("/accounts", token.AccountID), nil, &account); err != nil {
		return service.Account{}, wrapError("get account", err)
	}
	return account, nil
}

// ResetPassword implements service.AccountService.
func (c *Client) ResetPassword(ctx context.Context, in service.PasswordReset) (service.Account, error) {
	var account service.Account
	if err := c.api.Patch(ctx, pathID("/accounts", in.AccountID), in, &account); err != nil {
		return service.Account{}, wrapError("reset password", err)
	}
	return account, nil
}

// DeleteAccount implements service.AccountService.
func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	if err := c.api.Delete(ctx, pathID("/accounts", accountID)); err != nil {
		return wrapError("delete account", err)
	}
	return nil
}
