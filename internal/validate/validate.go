// Package validate checks user input for registration, login and stored data.
// Each check is pure and reports only the first failure.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	UsernameMinLen = 4
	UsernameMaxLen = 20
	PasswordMinLen = 8
	// PasswordMaxLen is the bcrypt input limit.
	PasswordMaxLen = 72
	DataMaxLen     = 1000
)

// FieldError is a validation failure on a single field. Message is safe to show to users.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

type Registration struct {
	Username string `validate:"required,min=4,max=20,alphanum"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,maxbytes=72,password"`
}

type Login struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type ClientData struct {
	Data string `json:"data" validate:"max=1000"`
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	if err := val.RegisterValidation("password", strongPassword); err != nil {
		panic(err)
	}
	if err := val.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return val
}

// maxBytes bounds the encoded length. The built-in max counts runes, which
// lets multibyte input past bcrypt's byte limit.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// strongPassword requires at least one ASCII digit and one uppercase letter.
func strongPassword(fl validator.FieldLevel) bool {
	var digit, upper bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && upper
}

func (r Registration) Validate() error { return check(r) }
func (l Login) Validate() error        { return check(l) }
func (d ClientData) Validate() error   { return check(d) }

func check(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "alphanum":
		return "Username can only contain letters and numbers"
	case "password":
		return "Password must contain at least one uppercase letter and one number"
	}

	switch fe.Field() {
	case "Username":
		return fmt.Sprintf("Username length must be between %d and %d characters", UsernameMinLen, UsernameMaxLen)
	case "Password":
		if fe.Tag() == "maxbytes" {
			return fmt.Sprintf("Password must be at most %d characters long", PasswordMaxLen)
		}
		return fmt.Sprintf("Password must be at least %d characters long", PasswordMinLen)
	case "Data":
		return fmt.Sprintf("Data length cannot exceed %d characters", DataMaxLen)
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
