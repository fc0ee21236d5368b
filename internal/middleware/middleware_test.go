package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/platform/logger"
	"petcare-marketplace/internal/ports/auth"
)

type stubVerifier struct {
	tokens map[string]auth.Claims
}

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	c, ok := s.tokens[token]
	if !ok {
		return auth.Claims{}, errors.New("invalid token")
	}
	return c, nil
}

func captureUser(t *testing.T, h func(http.Handler) http.Handler, req *http.Request) (string, error) {
	t.Helper()
	var uid string
	var uerr error
	h(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		uid, uerr = UserID(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	return uid, uerr
}

func TestAuthContext_DevHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u-1")

	uid, err := captureUser(t, AuthContext(nil), req)
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
}

func TestAuthContext_VerifierModes(t *testing.T) {
	mw := AuthContext(stubVerifier{tokens: map[string]auth.Claims{"good": {UserID: "u-2"}}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	uid, err := captureUser(t, mw, req)
	require.NoError(t, err)
	assert.Equal(t, "u-2", uid)

	// query param para websocket
	uid, err = captureUser(t, mw, httptest.NewRequest(http.MethodGet, "/?access_token=good", nil))
	require.NoError(t, err)
	assert.Equal(t, "u-2", uid)

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer nope")
	_, err = captureUser(t, mw, bad)
	assert.True(t, errors.Is(err, apperr.ErrAuthRequired))

	// el header de debug se ignora cuando hay verifier
	dbg := httptest.NewRequest(http.MethodGet, "/", nil)
	dbg.Header.Set("X-Debug-User-ID", "u-1")
	_, err = captureUser(t, mw, dbg)
	assert.True(t, errors.Is(err, apperr.ErrAuthRequired))
}

func TestCORS_PreflightAndHeaders(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/requests", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.False(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, corsAllowHeaders, rec.Header().Get("Access-Control-Allow-Headers"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/requests", nil))
	assert.True(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter_PerUser(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, logger.Nop())
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: uid}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("a").Code)

	limited := do("a")
	assert.Equal(t, http.StatusBadRequest, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"error":"too many requests"}`, limited.Body.String())

	assert.Equal(t, http.StatusOK, do("b").Code)
}

func TestRateLimiter_WritesOnly(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, logger.Nop())
	h := rl.Writes(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(http.MethodGet))
	assert.Equal(t, http.StatusOK, do(http.MethodGet))
	assert.Equal(t, http.StatusOK, do(http.MethodPost))
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPatch))
}

func TestRecover_WritesEnvelope(t *testing.T) {
	h := Recover(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal error"}`, rec.Body.String())
}
