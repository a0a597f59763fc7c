// Package validation runs the pre-call checks of the auth and profile forms
// with go-playground/validator and turns the first failure into a message a
// user can read.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Aliases used by form structs.
const (
	// TagOTP is a complete six-digit code.
	TagOTP = "otp"
	// TagPassword is the minimum for reset and change-password forms.
	TagPassword = "pwd"
	// TagSignupPassword is the shorter minimum accepted at registration.
	TagSignupPassword = "signuppwd"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared, configured validator. Field names in errors
// come from the `label` tag, falling back to the json name.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias(TagOTP, "len=6,numeric")
		v.RegisterAlias(TagPassword, "min=8")
		v.RegisterAlias(TagSignupPassword, "min=6")
		validate = v
	})
	return validate
}

// Error is a failed local check. The request it guarded was never sent.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Messages overrides the generated text for a failure, keyed by
// "<struct field>.<tag>" or "<struct field>" for every tag on that field.
type Messages map[string]string

// Check validates s and returns an *Error describing the first failing field
// in declaration order, or nil.
func Check(s any, msgs Messages) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	fe := verrs[0]
	e := &Error{Field: fe.StructField(), Tag: fe.Tag()}
	if m, ok := msgs[fe.StructField()+"."+fe.Tag()]; ok {
		e.Message = m
	} else if m, ok := msgs[fe.StructField()]; ok {
		e.Message = m
	} else {
		e.Message = Describe(fe)
	}
	return e
}

// Describe renders a field error as "<label> <rule>".
func Describe(fe validator.FieldError) string {
	label := fe.Field()
	if label == "" {
		label = fe.StructField()
	}
	return capitalize(label) + " " + rule(fe)
}

func rule(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min", TagPassword, TagSignupPassword:
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "len":
		return "must be exactly " + param + " characters long"
	case TagOTP:
		return "must be a complete 6-digit code"
	case "numeric":
		return "must be numeric"
	case "eqfield":
		return "must match " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("failed '%s'", fe.Tag())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
