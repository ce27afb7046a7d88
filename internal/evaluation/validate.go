package evaluation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"git-repository-analyzer/internal/validation"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every criterion against its bounds. Failures are reported as
// *validation.ValidationErrors keyed by "section.criterion".
func Validate(e *Evaluation) error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate evaluation: %w", err)
	}

	out := validation.New()
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Evaluation.")
		out.Errors().Add(field, message(field, fe))
	}
	return out.Validate()
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
