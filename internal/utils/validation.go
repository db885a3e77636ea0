// internal/utils/validation.go
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

// InitValidator initializes the validator with custom validations
func InitValidator() {
	validate = validator.New()

	// Report json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations(validate)

	log.Info().Msg("Validator initialized")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// DecodeJSON decodes a JSON request body into the provided struct
// with a size limit. Unknown fields are ignored because the browser
// forms post every input they render.
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, constants.MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &maxBytesError):
			return NewBadRequestError(constants.MsgRequestBodyTooLarge)

		case errors.Is(err, io.EOF):
			return NewBadRequestError(constants.MsgEmptyRequestBody)

		case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxError):
			return NewBadRequestError(constants.MsgMalformedJSON)

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return NewValidationError(unmarshalTypeError.Field,
					fmt.Sprintf("El campo %s debe ser de tipo %s", unmarshalTypeError.Field, unmarshalTypeError.Type.String()))
			}
			return NewBadRequestError(constants.MsgMalformedJSON)

		case errors.As(err, &invalidUnmarshalError):
			return NewInternalServerError(err)

		default:
			return NewBadRequestError(constants.MsgMalformedJSON)
		}
	}

	if dec.More() {
		return NewBadRequestError(constants.MsgMalformedJSON)
	}

	return nil
}

// ValidateStruct validates a struct using the validator.
// Only the first failing field is reported, the envelope carries a single message.
func ValidateStruct(v interface{}) error {
	err := GetValidator().Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		if e.Tag() == "password_policy" {
			_, msg := ValidatePasswordPolicy(e.Value().(string))
			return NewRuleError(constants.CodeInvalidPassword, msg)
		}
		if e.Tag() == "email" {
			return NewRuleError(constants.CodeInvalidEmail, constants.MsgInvalidEmail)
		}
		if e.Tag() == "eqfield" {
			return NewRuleError(constants.CodePasswordMismatch, constants.MsgPasswordMismatch)
		}
		return NewValidationError(e.Field(), getErrorMessage(e))
	}

	return NewBadRequestError(constants.MsgValidation)
}

// DecodeAndValidate decodes a JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateStruct(v)
}

// getErrorMessage returns a user-friendly error message for a validation error
func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio", e.Field())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("El campo %s debe tener al menos %s caracteres", e.Field(), e.Param())
		}
		return fmt.Sprintf("El campo %s debe ser al menos %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("El campo %s no puede superar los %s caracteres", e.Field(), e.Param())
		}
		return fmt.Sprintf("El campo %s no puede ser mayor que %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("El campo %s no es válido", e.Field())
	}
}

// registerCustomValidations adds custom validation functions to the validator
func registerCustomValidations(v *validator.Validate) {
	if err := v.RegisterValidation("password_policy", validatePasswordPolicyTag); err != nil {
		log.Error().Err(err).Msg("Failed to register password_policy validation")
	}
}

func validatePasswordPolicyTag(fl validator.FieldLevel) bool {
	ok, _ := ValidatePasswordPolicy(fl.Field().String())
	return ok
}

// ValidatePasswordPolicy checks a password against the account password policy:
// at least MinPasswordLength characters with one ASCII uppercase letter,
// one ASCII lowercase letter and one ASCII digit.
//
// Returns:
//   - ok: whether every rule passes
//   - message: the message of the first failing rule, empty when ok
func ValidatePasswordPolicy(password string) (bool, string) {
	if RuneLen(password) < constants.MinPasswordLength {
		return false, constants.MsgPasswordTooShort
	}

	hasUpper, hasLower, hasDigit := false, false, false
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}

	if !hasUpper {
		return false, constants.MsgPasswordNoUppercase
	}
	if !hasLower {
		return false, constants.MsgPasswordNoLowercase
	}
	if !hasDigit {
		return false, constants.MsgPasswordNoDigit
	}
	return true, ""
}

// IsValidEmail checks if a string is a valid email address
func IsValidEmail(email string) bool {
	return GetValidator().Var(email, "required,email") == nil
}
