package validator

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// hsCodePattern matches harmonized system codes: a 4-6 digit heading with
// optional dotted subheading groups, e.g. "151110" or "1511.10.00".
var hsCodePattern = regexp.MustCompile(`^\d{4,6}(\.\d{2,4})*$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	v.registerCustomValidations()
	return v
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		// Format validation errors
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, e := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"Field '%s' failed validation '%s'",
					e.Field(),
					e.Tag(),
				))
			}
			return fmt.Errorf("validation failed: %v", errMessages)
		}
		return err
	}
	return nil
}

// ValidateStructured returns a map of field -> error message for frontend usage
func (v *Validator) ValidateStructured(i interface{}) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				msg := fmt.Sprintf("failed validation on '%s'", e.Tag())
				switch e.Tag() {
				case "required":
					msg = "This field is required"
				case "uuid":
					msg = "Must be a valid UUID"
				case "oneof":
					msg = fmt.Sprintf("Must be one of: %s", e.Param())
				case "hs_code":
					msg = "Invalid HS code format"
				case "regulation_type":
					msg = "Unsupported regulation type"
				case "min":
					msg = fmt.Sprintf("Must be at least %s characters", e.Param())
				case "max":
					msg = fmt.Sprintf("Must be at most %s characters", e.Param())
				}
				errs[e.Field()] = msg
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) registerCustomValidations() {
	// Register decimal.Decimal to be validated as float64 for gt/lt checks
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := val.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.validate.RegisterValidation("hs_code", func(fl validator.FieldLevel) bool {
		return IsHSCode(strings.TrimSpace(fl.Field().String()))
	})

	// Supported regulation report families. ISCC is reserved but not yet
	// implemented, so it fails like any unknown value.
	_ = v.validate.RegisterValidation("regulation_type", func(fl validator.FieldLevel) bool {
		switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
		case "EUDR", "RSPO":
			return true
		default:
			return false
		}
	})
}

// IsHSCode reports whether s is a well-formed harmonized system code.
func IsHSCode(s string) bool {
	return hsCodePattern.MatchString(s)
}

// Sanitize cleans string input to prevent markup injection
func Sanitize(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}
