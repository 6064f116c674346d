// Package validation binds request payloads and validates them, producing
// field level errors in the errs.HTTPError shape.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	cidPattern = regexp.MustCompile(`^[A-Z][0-9]{2}(\.[0-9A-Z]{1,2})?$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query", "param"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("cid", func(fl validator.FieldLevel) bool {
		return IsValidCID(fl.Field().String())
	})

	return v
}

// Struct runs the tag based rules on v.
func Struct(v any) error {
	return validate.Struct(v)
}

// IsValidCID accepts CID-10 codes such as J45 or J45.9.
func IsValidCID(code string) bool {
	return cidPattern.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}
