package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/formloop/formloop/model"
)

const (
	TitleMin       = 3
	TitleMax       = 200
	DescriptionMax = 500

	QuestionsMin = 3
	QuestionsMax = 5

	QuestionTextMax  = 500
	OptionTextMax    = 200
	ChoiceOptionsMin = 2
)

// FormPayload is a form creation or edit request body.
type FormPayload struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []model.Question `json:"questions"`
}

// CheckForm validates a form definition against the structural
// invariants and returns every detected problem tagged with the
// offending field path. It does not mutate the payload; defaulting is
// NormalizeForm's job.
func CheckForm(payload FormPayload) []model.FieldError {
	var errs *multierror.Error

	// bounds count characters, not bytes
	title := strings.TrimSpace(payload.Title)
	if n := utf8.RuneCountInString(title); n < TitleMin || n > TitleMax {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "title",
			Message: fmt.Sprintf("Form title must be between %d and %d characters", TitleMin, TitleMax),
		})
	}

	if utf8.RuneCountInString(strings.TrimSpace(payload.Description)) > DescriptionMax {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "description",
			Message: fmt.Sprintf("Form description cannot exceed %d characters", DescriptionMax),
		})
	}

	if len(payload.Questions) < QuestionsMin || len(payload.Questions) > QuestionsMax {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "questions",
			Message: fmt.Sprintf("Form must have between %d and %d questions", QuestionsMin, QuestionsMax),
		})
	}

	seenOrders := map[int]bool{}
	for i, q := range payload.Questions {
		field := fmt.Sprintf("questions[%d]", i)

		text := strings.TrimSpace(q.Text)
		if n := utf8.RuneCountInString(text); n < 1 || n > QuestionTextMax {
			errs = multierror.Append(errs, model.FieldError{
				Field:   field + ".text",
				Message: fmt.Sprintf("Question text must be between 1 and %d characters", QuestionTextMax),
			})
		}

		if !q.Type.Known() {
			errs = multierror.Append(errs, model.FieldError{
				Field:   field + ".type",
				Message: "Invalid question type",
			})
		}

		if q.Type.Choice() && len(q.Options) < ChoiceOptionsMin {
			errs = multierror.Append(errs, model.FieldError{
				Field:   field + ".options",
				Message: fmt.Sprintf("Question %q must have at least %d options", text, ChoiceOptionsMin),
			})
		}
		for j, opt := range q.Options {
			if utf8.RuneCountInString(opt) > OptionTextMax {
				errs = multierror.Append(errs, model.FieldError{
					Field:   fmt.Sprintf("%s.options[%d]", field, j),
					Message: fmt.Sprintf("Option text cannot exceed %d characters", OptionTextMax),
				})
			}
		}

		// explicit orders must be positive and unique; zero means
		// "assign for me"
		if q.Order < 0 {
			errs = multierror.Append(errs, model.FieldError{
				Field:   field + ".order",
				Message: "Question order must be a positive number",
			})
		} else if q.Order > 0 {
			if seenOrders[q.Order] {
				errs = multierror.Append(errs, model.FieldError{
					Field:   field + ".order",
					Message: "Question order must be unique within the form",
				})
			}
			seenOrders[q.Order] = true
		}
	}

	return fieldErrors(errs)
}

// CheckFormUpdate validates a partial edit, where nil means "leave
// unchanged". An update touching nothing is rejected. Question edits
// are not part of this surface.
func CheckFormUpdate(title, description *string, isActive *bool) []model.FieldError {
	if title == nil && description == nil && isActive == nil {
		return []model.FieldError{{
			Field:   "body",
			Message: "At least one of title, description or isActive must be provided",
		}}
	}

	var errs *multierror.Error

	if title != nil {
		if n := utf8.RuneCountInString(strings.TrimSpace(*title)); n < TitleMin || n > TitleMax {
			errs = multierror.Append(errs, model.FieldError{
				Field:   "title",
				Message: fmt.Sprintf("Form title must be between %d and %d characters", TitleMin, TitleMax),
			})
		}
	}

	if description != nil && utf8.RuneCountInString(strings.TrimSpace(*description)) > DescriptionMax {
		errs = multierror.Append(errs, model.FieldError{
			Field:   "description",
			Message: fmt.Sprintf("Form description cannot exceed %d characters", DescriptionMax),
		})
	}

	return fieldErrors(errs)
}

// NormalizeForm turns a validated payload into a Form ready for
// persistence: texts are trimmed, order-less questions take the
// smallest orders not claimed explicitly, option lists are dropped from
// free-text questions and fresh IDs are minted. It does not persist
// anything.
func NormalizeForm(ownerID string, payload FormPayload, publicSlug string, now time.Time) model.Form {
	claimed := make(map[int]bool, len(payload.Questions))
	for _, q := range payload.Questions {
		if q.Order > 0 {
			claimed[q.Order] = true
		}
	}

	next := 1
	questions := make([]model.Question, len(payload.Questions))
	for i, q := range payload.Questions {
		q.Text = strings.TrimSpace(q.Text)
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Order == 0 {
			for claimed[next] {
				next++
			}
			q.Order = next
			claimed[next] = true
		}
		if !q.Type.Choice() {
			q.Options = nil
		}
		questions[i] = q
	}

	return model.Form{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Questions:   questions,
		PublicSlug:  publicSlug,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
