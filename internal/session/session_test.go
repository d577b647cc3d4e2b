package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

func testCredential() Credential {
	return Credential{
		AccountID: "acc-1",
		Token:     "tok-1",
		ExpiresAt: time.Unix(1893456000, 0).UTC(),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewFileStorage(t.TempDir()), "access-token", nil)

	want := testCredential()
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !sameCredential(got, want) {
		t.Errorf("round trip mismatch: want %+v, got %+v", want, got)
	}
	if !store.IsAuthenticated(ctx) {
		t.Error("expected authenticated after set")
	}
}

func TestStore_RoundTripKeepsExpiry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		expiresAt time.Time
	}{
		{"fractional utc", time.Date(2030, 1, 2, 3, 4, 5, 678901000, time.UTC)},
		{"nanoseconds", time.Unix(1893456000, 123456789).UTC()},
		{"offset", time.Date(2030, 1, 2, 3, 4, 5, 500000000, time.FixedZone("", -5*60*60))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(NewMemoryStorage(), "access-token", nil)
			want := Credential{AccountID: "acc-1", Token: "tok-1", ExpiresAt: tt.expiresAt}
			if err := store.Set(ctx, want); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := store.Get(ctx)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !sameCredential(got, want) {
				t.Errorf("round trip mismatch: want %+v, got %+v", want, got)
			}
		})
	}
}

func TestStore_RoundTripServerCredential(t *testing.T) {
	ctx := context.Background()

	var want Credential
	body := `{"account_id":"acc-1","token":"tok-1","expires_at":"2030-01-02T03:04:05.678901"}`
	if err := json.Unmarshal([]byte(body), &want); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if want.ExpiresAt.Nanosecond() != 678901000 {
		t.Fatalf("expected microseconds to be kept, got %v", want.ExpiresAt)
	}

	store := NewStore(NewFileStorage(t.TempDir()), "access-token", nil)
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: want %+v, got %+v", want, got)
	}
}

// sameCredential compares credentials field by field. Expiries must be the
// same instant with the same UTC offset.
func sameCredential(a, b Credential) bool {
	_, offA := a.ExpiresAt.Zone()
	_, offB := b.ExpiresAt.Zone()
	return a.AccountID == b.AccountID && a.Token == b.Token &&
		a.ExpiresAt.Equal(b.ExpiresAt) && offA == offB
}

func TestStore_Absent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), "access-token", nil)

	_, err := store.Get(ctx)
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if store.IsAuthenticated(ctx) {
		t.Error("expected not authenticated")
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), "access-token", nil)

	if err := store.Set(ctx, testCredential()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Remove(ctx); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after remove, got %v", err)
	}
	if store.IsAuthenticated(ctx) {
		t.Error("expected not authenticated after remove")
	}

	// Removing twice is fine.
	if err := store.Remove(ctx); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestStore_Unparseable(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "access-token.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewStore(NewFileStorage(dir), "access-token", nil)

	_, err := store.Get(ctx)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if store.IsAuthenticated(ctx) {
		t.Error("unparseable session must not authenticate")
	}
}

func TestStore_MissingToken(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	_ = storage.Set(ctx, "access-token", []byte(`{"account_id":"acc-1"}`))
	store := NewStore(storage, "access-token", nil)

	var perr *ParseError
	if _, err := store.Get(ctx); !errors.As(err, &perr) {
		t.Errorf("expected *ParseError, got %v", err)
	}
}

func TestStore_ExpiredStillAuthenticates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), "access-token", nil)

	cred := testCredential()
	cred.ExpiresAt = time.Unix(946684800, 0).UTC()
	if err := store.Set(ctx, cred); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !store.IsAuthenticated(ctx) {
		t.Error("expired credential should still satisfy IsAuthenticated")
	}
}

func TestFileStorage_Mode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	fs := NewFileStorage(dir)
	if err := fs.Set(context.Background(), "access-token", []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "access-token.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestCredential_UnmarshalExpiryForms(t *testing.T) {
	want := time.Unix(1700000000, 0).UTC()
	tests := []struct {
		name string
		json string
	}{
		{"string seconds", `{"account_id":"a","token":"t","expires_at":"1700000000"}`},
		{"float string", `{"account_id":"a","token":"t","expires_at":"1700000000.0"}`},
		{"number", `{"account_id":"a","token":"t","expires_at":1700000000}`},
		{"rfc3339", `{"account_id":"a","token":"t","expires_at":"2023-11-14T22:13:20Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Credential
			if err := c.UnmarshalJSON([]byte(tt.json)); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !c.ExpiresAt.Equal(want) {
				t.Errorf("expected %s, got %s", want, c.ExpiresAt)
			}
		})
	}
}

func TestCredential_NormalizeFromJWT(t *testing.T) {
	exp := time.Unix(1900000000, 0).UTC()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "acc-42",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c := Credential{Token: token}.Normalize()
	if c.AccountID != "acc-42" {
		t.Errorf("expected account from sub claim, got %q", c.AccountID)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %s, got %s", exp, c.ExpiresAt)
	}

	opaque := Credential{Token: "opaque"}.Normalize()
	if opaque.AccountID != "" || !opaque.ExpiresAt.IsZero() {
		t.Errorf("opaque token should be left alone, got %+v", opaque)
	}
}

type fakeRedis struct {
	data map[string]string
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{data: map[string]string{}}
	store := NewStore(&RedisStorage{client: fake, prefix: "taskdeck:"}, "access-token", nil)

	if store.IsAuthenticated(ctx) {
		t.Fatal("expected empty redis to be unauthenticated")
	}
	if err := store.Set(ctx, testCredential()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := fake.data["taskdeck:access-token"]; !ok {
		t.Errorf("expected prefixed key, have %v", fake.data)
	}
	if !store.IsAuthenticated(ctx) {
		t.Error("expected authenticated")
	}
	if err := store.Remove(ctx); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if store.IsAuthenticated(ctx) {
		t.Error("expected unauthenticated after remove")
	}
}

func TestNewRedisStorage_NilClient(t *testing.T) {
	if NewRedisStorage(nil, "x") != nil {
		t.Error("expected nil storage for nil client")
	}
}
