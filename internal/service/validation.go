package service

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

// Catalog codes are letters with single internal hyphens: no digits, spaces
// or leading/trailing hyphens.
var codePattern = regexp.MustCompile(`^[a-zA-Z]+(-[a-zA-Z]+)*$`)

// NewValidator builds the validator shared by all services, with the
// catalogcode rule registered and field names taken from json tags so
// validation errors line up with form fields.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("catalogcode", func(fl validator.FieldLevel) bool {
		return codePattern.MatchString(fl.Field().String())
	})

	return v
}

// validationError translates a validator failure into the field-level
// validation error surfaced to callers.
func validationError(err error, message string) *appErrors.Error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}

	fields := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, appErrors.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}

	out := appErrors.WithFields(appErrors.ErrValidation, fields)
	out.Message = message
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "catalogcode":
		return "must contain only letters and hyphens, no spaces, numbers or special characters"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}
