// Package forms binds, validates and submits the entity forms of the console.
package forms

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	InvalidEmailMessage = "Invalid email address"
	InvalidPhoneMessage = "Invalid phone number (10-15 digits)"
)

var (
	emailRegex = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// FieldErrors maps a form field name to its first validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for k, v := range fe {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
}

// NewValidator configures the validator with the registry rules. It panics if
// a rule cannot be registered, since no form could be checked without it.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := registerRules(v); err != nil {
		panic("register form rules: " + err.Error())
	}
	return &Validator{validate: v}
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("registry_email", isRegistryEmail); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone_digits", isPhoneDigits); err != nil {
		return err
	}
	return nil
}

func isRegistryEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isPhoneDigits(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// Validate checks a form struct and returns its field errors, or nil.
func (v *Validator) Validate(form any) FieldErrors {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"": err.Error()}
	}
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(t, fe)
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	label := fe.Field()
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if l := sf.Tag.Get("label"); l != "" {
			label = l
		}
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "registry_email":
		return InvalidEmailMessage
	case "phone_digits":
		return InvalidPhoneMessage
	case "oneof":
		return fmt.Sprintf("%s is not a valid option", label)
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	}
	return fmt.Sprintf("%s is invalid", label)
}
