package handlers

import (
	"github.com/go-playground/validator/v10"

	"gonadarena/internal/domain"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the echo validator used by every handler. Besides the
// built-in tags it understands "tokens" for decimal token amounts.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("tokens", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTokens(fl.Field().String())
		return err == nil
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
