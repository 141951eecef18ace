package handler

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tagMessages maps a validator tag to a message template. %[1]s is the JSON
// field name and %[2]s the tag parameter.
var tagMessages = map[string]string{
	"required": "%[1]s is required",
	"email":    "%[1]s must be a valid email",
	"min":      "%[1]s must be at least %[2]s characters",
	"max":      "%[1]s must be at most %[2]s characters",
	"eqfield":  "%[1]s does not match",
	"datetime": "%[1]s must be a date formatted as %[2]s",
}

// FieldErrors holds one message per offending field, keyed by JSON name.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = fe[f]
	}
	return strings.Join(msgs, "; ")
}

// requestValidator adapts go-playground/validator to echo.Validator.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator returns the validator assigned to echo.Echo.Validator.
func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate returns FieldErrors when i breaks one of its rules.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	if tmpl, ok := tagMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
}
