// Package session persists the session credential used to authenticate API calls.
package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the token + owner id + expiry persisted client-side.
type Credential struct {
	AccountID string
	Token     string
	ExpiresAt time.Time
}

// credentialJSON is the storage and wire form. expires_at is written as an
// RFC 3339 timestamp with nanoseconds and its original offset.
type credentialJSON struct {
	AccountID string          `json:"account_id"`
	Token     string          `json:"token"`
	ExpiresAt json.RawMessage `json:"expires_at,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Credential) MarshalJSON() ([]byte, error) {
	out := credentialJSON{AccountID: c.AccountID, Token: c.Token}
	if !c.ExpiresAt.IsZero() {
		raw, err := json.Marshal(c.ExpiresAt.Format(time.RFC3339Nano))
		if err != nil {
			return nil, err
		}
		out.ExpiresAt = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. expires_at may be an RFC 3339
// timestamp, a zoneless ISO timestamp (read as UTC), a number, or a
// unix-seconds string.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var in credentialJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	expiresAt, err := parseExpiry(in.ExpiresAt)
	if err != nil {
		return err
	}
	*c = Credential{AccountID: in.AccountID, Token: in.Token, ExpiresAt: expiresAt}
	return nil
}

// Normalize fills AccountID and ExpiresAt from the token's JWT claims when the
// server left them empty. Claims are read without verification; the server
// remains the only authority on validity.
func (c Credential) Normalize() Credential {
	if c.AccountID != "" && !c.ExpiresAt.IsZero() {
		return c
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return c
	}
	if c.AccountID == "" {
		if id, ok := claims["account_id"].(string); ok {
			c.AccountID = id
		} else if sub, err := claims.GetSubject(); err == nil {
			c.AccountID = sub
		}
	}
	if c.ExpiresAt.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			c.ExpiresAt = exp.Time
		}
	}
	return c
}

// Valid reports whether the credential carries a token.
func (c Credential) Valid() bool {
	return strings.TrimSpace(c.Token) != ""
}

func parseExpiry(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}

	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil {
		return fromUnix(secs), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("invalid expires_at: %s", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromUnix(f), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid expires_at: %s", s)
}

func fromUnix(secs float64) time.Time {
	whole := int64(secs)
	frac := int64((secs - float64(whole)) * float64(time.Second))
	return time.Unix(whole, frac).UTC()
}
