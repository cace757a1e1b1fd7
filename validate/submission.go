package validate

import (
	"fmt"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/formloop/formloop/model"
)

// AnswerTextMax bounds a single free-text answer.
const AnswerTextMax = 1000

// CheckSubmission validates a respondent's answers against the form's
// current question schema. The caller is expected to have already
// resolved an active form; a missing or inactive form is a not-found
// condition, never a validation error.
//
// On success it returns the answers normalized to bare
// {questionId, answer} pairs. On failure it returns every detected
// problem at once.
func CheckSubmission(form model.Form, answers []model.Answer) ([]model.Answer, []model.FieldError) {
	var errs *multierror.Error

	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = true
	}

	for _, q := range form.Questions {
		if q.Required && !answered[q.ID] {
			errs = multierror.Append(errs, model.FieldError{
				Field:   "question_" + q.ID,
				Message: fmt.Sprintf("%q is required", q.Text),
			})
		}
	}

	for i, a := range answers {
		field := fmt.Sprintf("answers[%d]", i)

		q, ok := form.QuestionByID(a.QuestionID)
		if !ok {
			errs = multierror.Append(errs, model.FieldError{
				Field:   field,
				Message: "Invalid question ID",
			})
			continue
		}

		if a.Answer.Empty() {
			if q.Required {
				errs = multierror.Append(errs, model.FieldError{
					Field:   field,
					Message: "This question is required",
				})
			}
			continue
		}

		switch q.Type {
		case model.QuestionText, model.QuestionTextarea:
			if a.Answer.IsList {
				errs = multierror.Append(errs, model.FieldError{
					Field:   field,
					Message: "Answer must be text",
				})
			} else if utf8.RuneCountInString(a.Answer.Scalar) > AnswerTextMax {
				errs = multierror.Append(errs, model.FieldError{
					Field:   field,
					Message: fmt.Sprintf("Answer too long (max %d characters)", AnswerTextMax),
				})
			}

		case model.QuestionRadio:
			if a.Answer.IsList || !q.HasOption(a.Answer.Scalar) {
				errs = multierror.Append(errs, model.FieldError{
					Field:   field,
					Message: "Invalid option selected",
				})
			}

		case model.QuestionCheckbox:
			if !a.Answer.IsList {
				errs = multierror.Append(errs, model.FieldError{
					Field:   field,
					Message: "Invalid options selected",
				})
				continue
			}
			for _, opt := range a.Answer.List {
				if !q.HasOption(opt) {
					errs = multierror.Append(errs, model.FieldError{
						Field:   field,
						Message: "Invalid options selected",
					})
					break
				}
			}
		}
	}

	if details := fieldErrors(errs); details != nil {
		return nil, details
	}

	// strip any extraneous submitted fields
	normalized := make([]model.Answer, len(answers))
	for i, a := range answers {
		normalized[i] = model.Answer{QuestionID: a.QuestionID, Answer: a.Answer}
	}
	return normalized, nil
}
