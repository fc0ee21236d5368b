package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petcare-marketplace/internal/platform/httpclient"
	"petcare-marketplace/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("supabase client not configured")
	ErrUnauthorized  = errors.New("supabase unauthorized")
)

type Config struct {
	URL     string
	AnonKey string
	// JWTSecret habilita la verificación local (HS256).
	JWTSecret string
	Timeout   time.Duration
}

// Client habla con el endpoint de usuario de Supabase Auth.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config, opts ...httpclient.Option) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" || strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, ErrNotConfigured
	}
	opts = append([]httpclient.Option{httpclient.WithHeader("apikey", cfg.AnonKey)}, opts...)
	hc, err := httpclient.New(cfg.URL, cfg.Timeout, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// User resuelve el token contra GET /auth/v1/user.
func (c *Client) User(ctx context.Context, token string) (auth.Claims, error) {
	if c == nil || c.http == nil {
		return auth.Claims{}, ErrNotConfigured
	}

	var out userResponse
	err := c.http.Get(ctx, "/auth/v1/user", map[string]string{"Authorization": "Bearer " + token}, &out)
	if err != nil {
		if httpclient.IsUnauthorized(err) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("supabase user: %w", err)
	}
	return claimsFrom(out.ID, out.Email, out.UserMetadata), nil
}

func claimsFrom(id, email string, meta map[string]any) auth.Claims {
	str := func(k string) string {
		s, _ := meta[k].(string)
		return strings.TrimSpace(s)
	}
	return auth.Claims{
		UserID:   strings.TrimSpace(id),
		Email:    strings.TrimSpace(email),
		FullName: str("full_name"),
		UserType: str("user_type"),
	}
}
