package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-api/internal/core/ports"
)

// AuthHandler exposes the auth flows over HTTP. Failures are returned to
// echo's HTTPErrorHandler, which renders the {"errors":[{"msg":...}]} envelope.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type resetTokenResponse struct {
	ResetToken string `json:"resetToken"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// Signup registers a user.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Full name, email and password"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      500   {object}  errorsResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	token, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Signin authenticates a user and returns a session token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      500   {object}  errorsResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	token, err := h.authService.Signin(c.Request().Context(), ports.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Validate confirms the bearer token accepted by the Auth middleware.
//
// @Summary      Validate a token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorsResponse
// @Router       /api/auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Token is valid"})
}

// ForgotPassword issues a password reset token.
//
// The token is returned in the response body; there is no out-of-band
// delivery yet.
//
// @Summary      Request a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  resetTokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      500   {object}  errorsResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	token, err := h.authService.ForgotPassword(c.Request().Context(), ports.ForgotPasswordInput{Email: req.Email})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resetTokenResponse{ResetToken: token})
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorsResponse
// @Failure      500   {object}  errorsResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	if err := h.authService.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Msg: "Password updated successfully"})
}
