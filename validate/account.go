package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/formloop/formloop/model"
)

const (
	PasswordMin     = 6
	BusinessNameMin = 2
	BusinessNameMax = 100
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reLower = regexp.MustCompile(`[a-z]`)
	reUpper = regexp.MustCompile(`[A-Z]`)
	reDigit = regexp.MustCompile(`\d`)
)

// RegistrationPayload is an account registration request body.
type RegistrationPayload struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
}

// CheckRegistration validates a registration payload and returns every
// detected problem at once.
func CheckRegistration(payload RegistrationPayload) []model.FieldError {
	var errs *multierror.Error

	if !reEmail.MatchString(payload.Email) {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "email",
			Message: "Please provide a valid email address",
		})
	}

	if len(payload.Password) < PasswordMin {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters long", PasswordMin),
		})
	} else if !reLower.MatchString(payload.Password) ||
		!reUpper.MatchString(payload.Password) ||
		!reDigit.MatchString(payload.Password) {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "password",
			Message: "Password must contain at least one uppercase letter, one lowercase letter, and one number",
		})
	}

	if n := utf8.RuneCountInString(payload.BusinessName); n < BusinessNameMin || n > BusinessNameMax {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "businessName",
			Message: fmt.Sprintf("Business name must be between %d and %d characters", BusinessNameMin, BusinessNameMax),
		})
	}

	return fieldErrors(errs)
}
