package binder

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// notBlankValidator rejects strings made only of whitespace. Unlike mold's
// trim it leaves the value untouched.
func notBlankValidator(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
