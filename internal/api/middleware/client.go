package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/session"
)

const (
	// CookieName holds the signed client token.
	CookieName = "pg_client"
	// InstanceKey is the echo context key of the *session.Instance.
	InstanceKey = "client_instance"
)

// InstanceSource hands out the per-client session instance.
type InstanceSource interface {
	Acquire(ctx context.Context, clientID string) (*session.Instance, error)
}

// ClientConfig configures the Client middleware.
type ClientConfig struct {
	Secret string
	MaxAge time.Duration
	Secure bool
}

// Client identifies the browser through a signed cookie, issuing a new
// client id when the cookie is missing or does not verify, and injects the
// client's session instance into the context.
func Client(cfg ClientConfig, src InstanceSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := ""
			if ck, err := c.Cookie(CookieName); err == nil {
				clientID, _ = ParseClientToken(ck.Value, cfg.Secret)
			}

			if clientID == "" {
				clientID = uuid.NewString()
				token, err := IssueClientToken(clientID, cfg.Secret, cfg.MaxAge)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			inst, err := src.Acquire(c.Request().Context(), clientID)
			if err != nil {
				return fmt.Errorf("acquire client instance: %w", err)
			}
			c.Set(InstanceKey, inst)

			return next(c)
		}
	}
}

// IssueClientToken signs an HS256 token whose subject is clientID.
func IssueClientToken(clientID, secret string, maxAge time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	return signed, nil
}

// ParseClientToken verifies raw and returns its client id.
func ParseClientToken(raw, secret string) (string, error) {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", errors.Join(domain.ErrInvalidClient, err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", domain.ErrInvalidClient
	}
	return claims.Subject, nil
}
