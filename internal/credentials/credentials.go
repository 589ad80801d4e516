package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Environment variables consulted by FromEnv.
const (
	EnvToken  = "JOKICBT_TOKEN"
	EnvCode   = "JOKICBT_CODE"
	EnvUserID = "JOKICBT_USER_ID"
)

var (
	ErrMissingToken  = errors.New("no bearer token configured")
	ErrMissingCode   = errors.New("no test code configured")
	ErrMissingUserID = errors.New("no user id configured and none found in token")
	ErrTokenExpired  = errors.New("bearer token has expired")
)

// Credentials are the opaque values a test session needs from the
// credential store.
type Credentials struct {
	Token  string
	Code   string
	UserID string
}

// FromEnv reads credentials from JOKICBT_* environment variables.
func FromEnv() Credentials {
	return Credentials{
		Token:  strings.TrimSpace(os.Getenv(EnvToken)),
		Code:   strings.TrimSpace(os.Getenv(EnvCode)),
		UserID: strings.TrimSpace(os.Getenv(EnvUserID)),
	}
}

// Merge returns the first non-empty value per field, in argument order.
func Merge(layers ...Credentials) Credentials {
	var out Credentials
	for _, l := range layers {
		if out.Token == "" {
			out.Token = l.Token
		}
		if out.Code == "" {
			out.Code = l.Code
		}
		if out.UserID == "" {
			out.UserID = l.UserID
		}
	}
	return out
}

// WithCode returns a copy with the test code replaced.
func (c Credentials) WithCode(code string) Credentials {
	c.Code = code
	return c
}

// Validate checks what is needed to fetch questions: a live token and a code.
func (c Credentials) Validate() error {
	return c.validateAt(time.Now())
}

func (c Credentials) validateAt(now time.Time) error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Code == "" {
		return ErrMissingCode
	}
	if exp, ok := TokenExpiry(c.Token); ok && !exp.After(now) {
		return fmt.Errorf("%w (at %s)", ErrTokenExpired, exp.Format(time.RFC3339))
	}
	return nil
}

// ResolveUserID returns the configured user id, falling back to the
// identity claims of the bearer token.
func (c Credentials) ResolveUserID() (string, error) {
	if c.UserID != "" {
		return c.UserID, nil
	}
	if id, ok := UserIDFromToken(c.Token); ok {
		return id, nil
	}
	return "", ErrMissingUserID
}

// Redacted returns the token shortened for display.
func (c Credentials) Redacted() string {
	if len(c.Token) <= 12 {
		return strings.Repeat("*", len(c.Token))
	}
	return c.Token[:6] + "…" + c.Token[len(c.Token)-4:]
}

// parseClaims decodes a JWT without verifying its signature. The client
// never holds the server's key, so claims are only used as hints.
func parseClaims(token string) (jwt.MapClaims, bool) {
	if strings.Count(token, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// TokenExpiry returns the exp claim of a JWT bearer token.
func TokenExpiry(token string) (time.Time, bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// UserIDFromToken looks for user_id, userId, id, then sub in a JWT.
func UserIDFromToken(token string) (string, bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return "", false
	}
	for _, key := range []string{"user_id", "userId", "id", "sub"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return fmt.Sprintf("%.0f", v), true
		}
	}
	return "", false
}
