package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var validate = newValidator()

// ValidationError représente une erreur de validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implémente l'interface error
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// newValidator utilise les noms JSON des champs dans les messages d'erreur
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct applique les tags `validate` et renvoie la première erreur
// sous forme de ValidationError
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return err
	}

	fe := vErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	case "oneof":
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))}
	case "email":
		return ValidationError{Field: field, Message: "invalid email format"}
	case "url":
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be a valid URL", field)}
	case "min", "gte":
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at least %s", field, fe.Param())}
	case "max", "lte":
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %s", field, fe.Param())}
	default:
		return ValidationError{Field: field, Message: fmt.Sprintf("%s is invalid", field)}
	}
}

// ValidateEmail valide un email
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateRequired valide qu'un champ n'est pas vide
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	}
	return nil
}

// FirstError renvoie la première erreur non nulle
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
