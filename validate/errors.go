// Package validate holds the pure input checks for form definitions,
// public submissions and account registration. Every check collects all
// problems it can find instead of stopping at the first one, so the UI
// can report them together.
package validate

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/formloop/formloop/model"
)

// fieldErrors flattens an accumulated multierror into the field-tagged
// detail list the API envelope carries.
func fieldErrors(errs *multierror.Error) []model.FieldError {
	if errs == nil || len(errs.Errors) == 0 {
		return nil
	}

	details := make([]model.FieldError, 0, len(errs.Errors))
	for _, err := range errs.Errors {
		var fe model.FieldError
		if errors.As(err, &fe) {
			details = append(details, fe)
		} else {
			details = append(details, model.FieldError{Message: err.Error()})
		}
	}
	return details
}
