package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextUserID is the echo context key the Auth middleware stores the
// authenticated user id under.
const ContextUserID = "user_id"

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")

// errorsResponse documents the error envelope rendered by the API error handler.
type errorsResponse struct {
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

// ctxUserID extracts the user id injected by the Auth middleware. An empty
// value means the middleware did not run for this route.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(ContextUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
	}
	return userID, nil
}
