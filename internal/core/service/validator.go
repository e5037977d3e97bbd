package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/auth-api/internal/core/domain"
)

// messages overrides the generic wording for rules clients already know,
// keyed by "<StructField>.<tag>".
var messages = map[string]string{
	"Name.required":     "Full name is required",
	"Email.required":    "Please include a valid email",
	"Email.email":       "Please include a valid email",
	"Password.min":      "Please enter a password with 6 or more characters",
	"Password.required": "Password is required",
	"Token.required":    "Token is required",
	"NewPassword.min":   "Please enter a password with 6 or more characters",
}

// inputValidator wraps go-playground/validator and turns its errors into a
// domain.ValidationError.
type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	return &inputValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (iv *inputValidator) check(i any) error {
	err := iv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	seen := make(map[string]struct{}, len(ve))
	for _, fe := range ve {
		msg := fieldError(fe)
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		msgs = append(msgs, msg)
	}
	return domain.NewValidationError(msgs...)
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}

	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
