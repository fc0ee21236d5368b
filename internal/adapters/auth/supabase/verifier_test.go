package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, key string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email:        "ana@example.com",
		UserMetadata: map[string]any{"full_name": "Ana Souza", "user_type": "owner"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestVerify_LocalHS256(t *testing.T) {
	v, err := NewVerifier(Config{JWTSecret: secret}, nil)
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), sign(t, secret, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "Ana Souza", c.FullName)
	assert.Equal(t, "owner", c.UserType)
}

func TestVerify_LocalRejectsExpiredAndForeignSignature(t *testing.T) {
	v, err := NewVerifier(Config{JWTSecret: secret}, nil)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), sign(t, secret, time.Now().Add(-time.Minute)))
	assert.Error(t, err)

	_, err = v.Verify(context.Background(), sign(t, "another-secret-another-secret-another", time.Now().Add(time.Hour)))
	assert.Error(t, err)

	_, err = v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestVerify_FallsBackToUserEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer opaque" || r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"user-2","email":"bruno@example.com","user_metadata":{"full_name":"Bruno","user_type":"provider"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL, AnonKey: "anon"})
	require.NoError(t, err)
	v, err := NewVerifier(Config{JWTSecret: secret}, client)
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), "opaque")
	require.NoError(t, err)
	assert.Equal(t, "user-2", c.UserID)
	assert.Equal(t, "provider", c.UserType)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewVerifier_RequiresSomething(t *testing.T) {
	_, err := NewVerifier(Config{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(Config{URL: "https://x.supabase.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
