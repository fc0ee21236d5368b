package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"petcare-marketplace/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// tokenClaims es el subset del access token de Supabase que usamos.
type tokenClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier: primero verifica el JWT localmente
// con el secreto del proyecto; si no hay secreto o falla, consulta a Supabase.
type Verifier struct {
	secret []byte
	client *Client
}

func NewVerifier(cfg Config, client *Client) (*Verifier, error) {
	v := &Verifier{client: client}
	if s := strings.TrimSpace(cfg.JWTSecret); s != "" {
		v.secret = []byte(s)
	}
	if v.secret == nil && client == nil {
		return nil, ErrNotConfigured
	}
	return v, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var localErr error
	if v.secret != nil {
		c, err := v.verifyLocal(token)
		if err == nil {
			return c, nil
		}
		localErr = err
	}
	if v.client == nil {
		return auth.Claims{}, fmt.Errorf("supabase verify failed: %w", localErr)
	}

	c, err := v.client.User(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("supabase verify failed: %w", err)
	}
	if c.UserID == "" {
		return auth.Claims{}, errors.New("supabase user missing id")
	}
	return c, nil
}

func (v *Verifier) verifyLocal(token string) (auth.Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return auth.Claims{}, err
	}

	c := claimsFrom(tc.Subject, tc.Email, tc.UserMetadata)
	if c.UserID == "" {
		return auth.Claims{}, errors.New("token missing sub")
	}
	return c, nil
}
