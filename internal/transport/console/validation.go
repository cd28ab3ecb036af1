package console

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/coopsoft/usermgmt/internal/infrastructure/security"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("username_format", validateUsernameFormat)
	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
}

// validateUsernameFormat allows ASCII letters, digits and underscores.
func validateUsernameFormat(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if username == "" {
		return false
	}
	for i := 0; i < len(username); i++ {
		c := username[i]
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_'
		if !ok {
			return false
		}
	}
	return true
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	return security.MeetsStrengthPolicy(fl.Field().String())
}

type registerForm struct {
	Username string `validate:"required,min=3,max=32,username_format"`
	Password string `validate:"required"`
	Confirm  string `validate:"required"`
}

type addUserForm struct {
	Username string `validate:"required,min=3,max=32,username_format"`
	Password string `validate:"required,password_strength"`
	Confirm  string `validate:"required"`
}

// validateForm turns the first validator failure into a prompt-friendly
// message.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "min", "max":
		return fmt.Errorf("%s must be between 3 and 32 characters", fe.Field())
	case "username_format":
		return errors.New("username may only contain letters, digits and underscores")
	case "password_strength":
		return errors.New("password must be at least 6 characters and contain a letter and a digit")
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}
