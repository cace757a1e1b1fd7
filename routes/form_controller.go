package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/formloop/formloop/app"
	"github.com/formloop/formloop/httpx"
	"github.com/formloop/formloop/model"
	"github.com/formloop/formloop/routes/middlewares"
	"github.com/formloop/formloop/slug"
	"github.com/formloop/formloop/store"
	"github.com/formloop/formloop/validate"
)

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := validate.FormPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogBadRequest(w, r, "INVALID_JSON", "Invalid JSON in request body")
			return
		}

		if details := validate.CheckForm(payload); details != nil {
			httpx.ValidationFailed(w, r, details)
			return
		}

		publicSlug, err := slug.Generate(r.Context(), app.SlugTaken)
		if err != nil {
			if errors.Is(err, slug.ErrExhausted) {
				httpx.LogConflict(w, r, "SLUG_COLLISION", "Could not allocate a public link, please retry")
				return
			}
			httpx.LogInternalError(w, r, "form.create.slug", err)
			return
		}

		form := validate.NormalizeForm(middlewares.UserID(r.Context()), payload, publicSlug, time.Now())
		err = app.Store.CreateForm(r.Context(), form)
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_form", err)
			return
		}

		httpx.Created(w, r, "Form created successfully", map[string]any{
			"formId":     form.ID,
			"title":      form.Title,
			"publicSlug": form.PublicSlug,
			"shareLink":  app.ShareLink(form.PublicSlug),
		})
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)

		forms, total, err := app.Store.ListForms(r.Context(), middlewares.UserID(r.Context()), store.ListQuery{
			Page:   page,
			Limit:  limit,
			Search: r.URL.Query().Get("search"),
		})
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_forms", err)
			return
		}

		httpx.OK(w, r, "Forms retrieved successfully", map[string]any{
			"forms":      forms,
			"pagination": model.Paginate(page, limit, total),
		})
	}
}

func GetFormByID(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		form, err := app.Store.FormByID(r.Context(), formID, middlewares.UserID(r.Context()))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "FORM_NOT_FOUND", "Form not found", formID)
				return
			}
			httpx.LogInternalError(w, r, "db.get_form", err)
			return
		}

		responseCount, err := app.Store.ResponseCount(r.Context(), form.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_form.response_count", err)
			return
		}

		httpx.OK(w, r, "Form retrieved successfully", map[string]any{
			"form":          form,
			"responseCount": responseCount,
			"shareLink":     app.ShareLink(form.PublicSlug),
		})
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		// only title, description and the active flag are editable;
		// anything else in the payload is ignored
		update := store.FormUpdate{}
		err := render.DecodeJSON(r.Body, &update)
		if err != nil {
			httpx.LogBadRequest(w, r, "INVALID_JSON", "Invalid JSON in request body")
			return
		}

		if details := validate.CheckFormUpdate(update.Title, update.Description, update.IsActive); details != nil {
			httpx.ValidationFailed(w, r, details)
			return
		}

		form, err := app.Store.UpdateForm(r.Context(), formID, middlewares.UserID(r.Context()), update)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "FORM_NOT_FOUND", "Form not found", formID)
				return
			}
			httpx.LogInternalError(w, r, "db.update_form", err)
			return
		}

		httpx.OK(w, r, "Form updated successfully", form)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		err := app.Store.DeleteForm(r.Context(), formID, middlewares.UserID(r.Context()))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "FORM_NOT_FOUND", "Form not found", formID)
				return
			}
			httpx.LogInternalError(w, r, "db.delete_form", err)
			return
		}

		httpx.OK(w, r, "Form and all responses deleted successfully", nil)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
