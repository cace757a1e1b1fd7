package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/formloop/formloop/analytics"
	"github.com/formloop/formloop/app"
	"github.com/formloop/formloop/export"
	"github.com/formloop/formloop/httpx"
	"github.com/formloop/formloop/model"
	"github.com/formloop/formloop/routes/middlewares"
	"github.com/formloop/formloop/store"
)

// enrichedAnswer pairs an answer with its question's current text.
// Question text is resolved from the live schema at read time, so
// answers to removed questions show a placeholder.
type enrichedAnswer struct {
	QuestionID   string            `json:"questionId"`
	QuestionText string            `json:"questionText"`
	Answer       model.AnswerValue `json:"answer"`
}

type enrichedResponse struct {
	ID          string           `json:"id"`
	Answers     []enrichedAnswer `json:"answers"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

func GetFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := ownedForm(app, w, r)
		if !ok {
			return
		}

		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)
		query := store.ResponseQuery{
			Page:      page,
			Limit:     limit,
			StartDate: queryDate(r, "startDate"),
			EndDate:   queryDate(r, "endDate"),
		}

		responses, err := app.Store.Responses(r.Context(), form.ID, query)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_responses", err)
			return
		}
		total, err := app.Store.CountResponses(r.Context(), form.ID, query)
		if err != nil {
			httpx.LogInternalError(w, r, "db.count_responses", err)
			return
		}

		enriched := make([]enrichedResponse, len(responses))
		for i, resp := range responses {
			answers := make([]enrichedAnswer, len(resp.Answers))
			for j, a := range resp.Answers {
				text := "Question not found"
				if q, ok := form.QuestionByID(a.QuestionID); ok {
					text = q.Text
				}
				answers[j] = enrichedAnswer{
					QuestionID:   a.QuestionID,
					QuestionText: text,
					Answer:       a.Answer,
				}
			}
			enriched[i] = enrichedResponse{
				ID:          resp.ID,
				Answers:     answers,
				SubmittedAt: resp.SubmittedAt,
			}
		}

		httpx.OK(w, r, "Responses retrieved successfully", map[string]any{
			"responses":  enriched,
			"pagination": model.Paginate(page, limit, total),
		})
	}
}

func GetFormAnalytics(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := ownedForm(app, w, r)
		if !ok {
			return
		}

		responses, err := app.Store.AllResponses(r.Context(), form.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_responses", err)
			return
		}

		httpx.OK(w, r, "Analytics retrieved successfully", analytics.Summarize(form, responses))
	}
}

func ExportFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if format := r.URL.Query().Get("format"); format != "" && format != "csv" {
			httpx.LogBadRequest(w, r, "UNSUPPORTED_FORMAT", "Unsupported export format")
			return
		}

		form, ok := ownedForm(app, w, r)
		if !ok {
			return
		}

		responses, err := app.Store.AllResponses(r.Context(), form.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_responses", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
		w.Write(export.CSV(form, responses))
	}
}

// ownedForm resolves the {id} route parameter against the
// authenticated owner's forms, answering not-found on a miss.
func ownedForm(app app.App, w http.ResponseWriter, r *http.Request) (model.Form, bool) {
	formID := chi.URLParam(r, "id")

	form, err := app.Store.FormByID(r.Context(), formID, middlewares.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, r, "FORM_NOT_FOUND", "Form not found", formID)
		} else {
			httpx.LogInternalError(w, r, "db.get_form", err)
		}
		return model.Form{}, false
	}
	return form, true
}

func queryDate(r *http.Request, name string) *time.Time {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil
		}
	}
	return &t
}
