package routes

import (
	"errors"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/formloop/formloop/app"
	"github.com/formloop/formloop/httpx"
	"github.com/formloop/formloop/model"
	"github.com/formloop/formloop/store"
	"github.com/formloop/formloop/validate"
)

// publicQuestion strips a question down to what anonymous respondents
// may see.
type publicQuestion struct {
	ID       string             `json:"id"`
	Text     string             `json:"text"`
	Type     model.QuestionType `json:"type"`
	Options  []string           `json:"options"`
	Required bool               `json:"required"`
	Order    int                `json:"order"`
}

func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formSlug := chi.URLParam(r, "slug")

		form, err := app.Store.FormBySlug(r.Context(), formSlug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "FORM_NOT_FOUND", "Form not found or inactive", formSlug)
				return
			}
			httpx.LogInternalError(w, r, "db.get_public_form", err)
			return
		}

		questions := make([]publicQuestion, len(form.Questions))
		for i, q := range form.Questions {
			options := q.Options
			if options == nil {
				options = []string{}
			}
			questions[i] = publicQuestion{
				ID:       q.ID,
				Text:     q.Text,
				Type:     q.Type,
				Options:  options,
				Required: q.Required,
				Order:    q.Order,
			}
		}
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Order < questions[j].Order
		})

		httpx.OK(w, r, "Form retrieved successfully", map[string]any{
			"title":       form.Title,
			"description": form.Description,
			"questions":   questions,
		})
	}
}

type submitPayload struct {
	Answers    []model.Answer `json:"answers"`
	DurationMs int64          `json:"durationMs"`
}

func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formSlug := chi.URLParam(r, "slug")

		payload := submitPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogBadRequest(w, r, "INVALID_JSON", "Invalid JSON in request body")
			return
		}
		if payload.DurationMs < 0 {
			payload.DurationMs = 0
		}
		if len(payload.Answers) == 0 {
			httpx.ValidationFailed(w, r, []model.FieldError{
				{Field: "answers", Message: "Response must have at least one answer"},
			})
			return
		}

		// an inactive or missing form is not-found, never a
		// validation error
		form, err := app.Store.FormBySlug(r.Context(), formSlug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "FORM_NOT_FOUND", "Form not found or inactive", formSlug)
				return
			}
			httpx.LogInternalError(w, r, "db.get_public_form", err)
			return
		}

		answers, details := validate.CheckSubmission(form, payload.Answers)
		if details != nil {
			httpx.ValidationFailed(w, r, details)
			return
		}

		response := model.Response{
			ID:      uuid.NewString(),
			FormID:  form.ID,
			Answers: answers,
			Metadata: model.ResponseMetadata{
				UserAgent:            r.UserAgent(),
				SourceAddress:        remoteHost(r),
				SubmissionDurationMs: payload.DurationMs,
			},
			SubmittedAt: time.Now(),
		}

		err = app.Store.CreateResponse(r.Context(), response)
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_response", err)
			return
		}

		httpx.Created(w, r, "Thank you for your feedback!", map[string]any{
			"responseId":  response.ID,
			"submittedAt": response.SubmittedAt,
		})
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
