package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-api/internal/core/domain"
)

func render(t *testing.T, log zerolog.Logger, err error) (int, []string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(log)(err, c)

	var resp errorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	msgs := make([]string, 0, len(resp.Errors))
	for _, item := range resp.Errors {
		msgs = append(msgs, item.Msg)
	}
	return rec.Code, msgs
}

func TestHTTPErrorHandler_ClientErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msgs []string
	}{
		{"validation", domain.NewValidationError("Full name is required", "Please include a valid email"), http.StatusBadRequest, []string{"Full name is required", "Please include a valid email"}},
		{"user exists", domain.ErrUserExists, http.StatusBadRequest, []string{"User already exists"}},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, []string{"Invalid Credentials"}},
		{"user not found", domain.ErrUserNotFound, http.StatusBadRequest, []string{"User not found"}},
		{"expired token", domain.ErrTokenExpired, http.StatusBadRequest, []string{"Invalid or expired token"}},
		{"wrapped token error", fmt.Errorf("reset: %w", domain.ErrTokenSignature), http.StatusBadRequest, []string{"Invalid or expired token"}},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied"), http.StatusUnauthorized, []string{"No token, authorization denied"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msgs := render(t, zerolog.Nop(), tt.err)
			if code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, code)
			}
			if strings.Join(msgs, "|") != strings.Join(tt.msgs, "|") {
				t.Fatalf("expected %v, got %v", tt.msgs, msgs)
			}
		})
	}
}

func TestHTTPErrorHandler_InfrastructureErrorIsOpaque(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	code, msgs := render(t, log, errors.New("mongo: connection refused to 10.0.0.5"))

	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if len(msgs) != 1 || msgs[0] != "Server error" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Fatalf("expected cause to be logged, got %q", buf.String())
	}
}
