package apiclient

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"taskdeck/internal/session"
)

// CredentialSource returns the current session credential.
// session.Store satisfies it.
type CredentialSource interface {
	Get(ctx context.Context) (session.Credential, error)
}

// bearerTransport reads the credential on every request and, when one is
// present, attaches it as a bearer Authorization header. Absent or
// unreadable credentials send the request unsigned and let the server
// decide.
type bearerTransport struct {
	source CredentialSource
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cred, err := t.source.Get(req.Context())
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			t.logger.Warn("sending unsigned request", zap.Error(err))
		}
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	signed := req.Clone(req.Context())
	token := &oauth2.Token{AccessToken: cred.Token, TokenType: "Bearer"}
	token.SetAuthHeader(signed)
	return t.base.RoundTrip(signed)
}
