package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// legacyTokenHeader is the header older clients send the raw token in.
const legacyTokenHeader = "x-auth-token"

// TokenValidator resolves a token to the user id it was issued for.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// Auth validates the request token and injects the user id into context.
// The token is read from "Authorization: Bearer <token>" or, failing that,
// from the x-auth-token header.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c.Request())
			if err != nil {
				return err
			}

			userID, err := validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			c.Set("user_id", userID)

			return next(c)
		}
	}
}

func extractToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if token := strings.TrimSpace(r.Header.Get(legacyTokenHeader)); token != "" {
		return token, nil
	}

	return "", echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
}
