package keystone

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AuthTypeNone  = "none"
	AuthTypeToken = "token"

	authTokenHeader = "X-Auth-Token"
)

// AuthPlugin decorates outgoing requests with credentials.
type AuthPlugin interface {
	Type() string
	Apply(req *http.Request) error
}

type noAuth struct{}

// NewNoAuth returns a plugin which sends no credentials.
func NewNoAuth() AuthPlugin {
	return noAuth{}
}

func (noAuth) Type() string { return AuthTypeNone }

func (noAuth) Apply(*http.Request) error { return nil }

type tokenAuth struct {
	token     string
	expiresAt time.Time
}

// NewTokenAuth returns a plugin sending the given service token.
// Tokens in JWT form are checked for expiry on every request; opaque tokens are sent as is.
func NewTokenAuth(token string) (AuthPlugin, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("service token is empty")
	}

	t := &tokenAuth{token: token}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return t, nil
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("reading token expiration: %w", err)
	}
	if exp != nil {
		t.expiresAt = exp.Time
		if t.expired() {
			return nil, fmt.Errorf("service token expired at %s", t.expiresAt.Format(time.RFC3339))
		}
	}

	return t, nil
}

// NewTokenAuthFromFile reads the service token from path.
func NewTokenAuthFromFile(path string) (AuthPlugin, error) {
	if path == "" {
		return nil, fmt.Errorf("token auth requires a token file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token file %s: %w", path, err)
	}
	return NewTokenAuth(string(data))
}

func (t *tokenAuth) Type() string { return AuthTypeToken }

func (t *tokenAuth) Apply(req *http.Request) error {
	if t.expired() {
		return fmt.Errorf("service token expired at %s", t.expiresAt.Format(time.RFC3339))
	}
	req.Header.Set(authTokenHeader, t.token)
	return nil
}

func (t *tokenAuth) expired() bool {
	return !t.expiresAt.IsZero() && time.Now().After(t.expiresAt)
}
