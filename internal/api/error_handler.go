package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-api/internal/core/domain"
)

type errorItem struct {
	Msg string `json:"msg"`
}

// errorsResponse is the canonical error envelope for all API errors.
type errorsResponse struct {
	Errors []errorItem `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps validation and business-rule errors to 400 with client messages.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"errors":[{"msg":"<message>"}]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msgs := resolveError(err, log, c)
		resp := errorsResponse{Errors: make([]errorItem, 0, len(msgs))}
		for _, m := range msgs {
			resp.Errors = append(resp.Errors, errorItem{Msg: m})
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, []string) {
	// Echo's own errors (bind failures, 404 from router, auth middleware, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, []string{fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Messages
	}

	// Known domain errors: all client-correctable, all 400.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, []string{"User already exists"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, []string{"Invalid Credentials"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, []string{"User not found"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, []string{"Invalid or expired token"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, []string{"Server error"}
}
