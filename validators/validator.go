package validators

import (
	"github.com/go-playground/validator/v10"

	"github.com/wavegram/backend/internal/apperrors"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}
