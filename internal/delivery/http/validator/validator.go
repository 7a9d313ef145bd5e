// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	domainerrors "classroom/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps a validator instance for echo.
type echoValidator struct {
	validate *validator.Validate
}

// New creates the request validator used by the echo server.
func New() *echoValidator {
	return &echoValidator{validate: validator.New()}
}

// Validate checks struct tags and maps failures onto the validation error.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
