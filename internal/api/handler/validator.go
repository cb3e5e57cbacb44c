package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/upslab/labportal/internal/core/domain"
)

var horarioPattern = regexp.MustCompile(`^\d{2}:\d{2}\s*-\s*\d{2}:\d{2}$`)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "allowed", validateAllowed)
	mustRegister(v, "institutional_email", func(fl validator.FieldLevel) bool {
		return domain.InstitutionalEmail(fl.Field().String())
	})
	mustRegister(v, "horario", func(fl validator.FieldLevel) bool {
		return horarioPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "input_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return domain.PasswordValid(fl.Field().String())
	})
	return &echoValidator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
}

// validateAllowed accepts enumerated values that report themselves valid.
func validateAllowed(fl validator.FieldLevel) bool {
	choice, ok := fl.Field().Interface().(interface{ Valid() bool })
	return ok && choice.Valid()
}

// Validate satisfies the echo.Validator interface. Failures wrap
// domain.ErrInvalidInput.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "institutional_email":
		return fmt.Sprintf("%s must end in %s", field, strings.Join(domain.InstitutionalDomains, " or "))
	case "horario":
		return field + " must look like HH:MM - HH:MM"
	case "input_date":
		return field + " must be a date in YYYY-MM-DD form"
	case "password":
		return field + " must be 8 to 12 letters and digits with at least one of each"
	case "allowed":
		return fmt.Sprintf("%s has an unknown value %q", field, fe.Value())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
