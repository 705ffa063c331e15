package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-backend/errs"
)

var validate = newValidator()

// checker is implemented by inputs with rules struct tags cannot express
type checker interface {
	check() error
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names so messages match the request body
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks v against its `validate` struct tags, then its own check
// when it has one, and returns an *errs.ApiErr describing the first failing
// field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		if c, ok := v.(checker); ok {
			return c.check()
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return errs.NewMissingRequiredFieldError(field)
	case "oneof":
		return errs.NewInvalidFieldError(field, fmt.Sprintf("must be one of [%s]", fe.Param()))
	case "min":
		return errs.NewInvalidFieldError(field, fmt.Sprintf("must be at least %s characters", fe.Param()))
	case "email":
		return errs.NewInvalidFieldError(field, "must be a valid email address")
	default:
		return errs.NewInvalidFieldError(field, fmt.Sprintf("failed %q validation", fe.Tag()))
	}
}
