// Package validate checks request payloads and converts failures into
// field-scoped validation errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct validates s. Every failing field is reported in the error details.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewInternalError(fmt.Errorf("invalid validation error: %w", err))
	}

	details := make(map[string]any, len(validationErrors))
	var first string
	for _, fe := range validationErrors {
		if _, seen := details[fe.Field()]; seen {
			continue
		}
		msg := message(fe)
		details[fe.Field()] = msg
		if first == "" {
			first = msg
		}
	}
	if len(details) > 1 {
		first = "invalid input"
	}
	return apperrors.NewValidationError(first, details)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "datetime":
		return "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
