package httpadapter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRequest reports the first failing field as ErrInvalidInput.
func validateRequest(operation string, req any) error {
	if err := requestValidator().Struct(req); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, operation, describeValidationError(err))
	}
	return nil
}

func validateRecipeID(operation, id string) error {
	if err := requestValidator().Var(id, "required,max=128"); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, operation, errors.New("recipe id is required and must be at most 128 characters"))
	}
	return nil
}

func describeValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	field := first.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	if first.Param() != "" {
		return fmt.Errorf("field %s failed %s=%s", field, first.Tag(), first.Param())
	}
	return fmt.Errorf("field %s failed %s", field, first.Tag())
}
