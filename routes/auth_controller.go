package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/formloop/formloop/app"
	"github.com/formloop/formloop/auth"
	"github.com/formloop/formloop/httpx"
	"github.com/formloop/formloop/log"
	"github.com/formloop/formloop/model"
	"github.com/formloop/formloop/otp"
	"github.com/formloop/formloop/routes/middlewares"
	"github.com/formloop/formloop/store"
	"github.com/formloop/formloop/validate"
)

func Register(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := validate.RegistrationPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogBadRequest(w, r, "INVALID_JSON", "Invalid JSON in request body")
			return
		}

		if details := validate.CheckRegistration(payload); details != nil {
			httpx.ValidationFailed(w, r, details)
			return
		}

		hash, err := auth.HashPassword(payload.Password)
		if err != nil {
			httpx.LogInternalError(w, r, "auth.register.hash", err)
			return
		}

		user := model.User{
			ID:           uuid.NewString(),
			Email:        payload.Email,
			PasswordHash: hash,
			BusinessName: payload.BusinessName,
			CreatedAt:    time.Now(),
		}
		err = app.Store.CreateUser(r.Context(), user)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				httpx.LogConflict(w, r, "EMAIL_EXISTS", "Email already registered")
				return
			}
			httpx.LogInternalError(w, r, "db.insert_user", err)
			return
		}

		httpx.Created(w, r, "Registration successful", map[string]any{
			"userId":       user.ID,
			"email":        user.Email,
			"businessName": user.BusinessName,
		})
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := loginPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogBadRequest(w, r, "INVALID_JSON", "Invalid JSON in request body")
			return
		}

		user, err := app.Store.UserByEmail(r.Context(), payload.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogUnauthorized(w, r, "INVALID_CREDENTIALS", "Invalid credentials")
				return
			}
			httpx.LogInternalError(w, r, "db.get_user", err)
			return
		}

		if !auth.CheckPassword(user.PasswordHash, payload.Password) {
			httpx.LogUnauthorized(w, r, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}

		token, err := app.Tokens.Issue(user.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "auth.login.token", err)
			return
		}

		httpx.OK(w, r, "Login successful", map[string]any{
			"user": map[string]any{
				"id":           user.ID,
				"email":        user.Email,
				"businessName": user.BusinessName,
			},
			"token":     token,
			"expiresIn": app.Tokens.TTL().String(),
		})
	}
}

func VerifyToken(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := app.Store.UserByID(r.Context(), middlewares.UserID(r.Context()))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogUnauthorized(w, r, "UNAUTHORIZED", "Authentication required")
				return
			}
			httpx.LogInternalError(w, r, "db.get_user", err)
			return
		}

		httpx.OK(w, r, "Token valid", map[string]any{
			"user": map[string]any{
				"id":           user.ID,
				"email":        user.Email,
				"businessName": user.BusinessName,
			},
		})
	}
}

type otpPayload struct {
	Email string `json:"email"`
	Code  string `json:"code,omitempty"`
}

func RequestOTP(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := otpPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil || payload.Email == "" {
			httpx.LogBadRequest(w, r, "INVALID_JSON", "Invalid JSON in request body")
			return
		}

		code, expiresAt, err := app.OTP.Issue(payload.Email)
		if err != nil {
			httpx.LogInternalError(w, r, "otp.issue", err)
			return
		}

		err = app.Mail.SendCode(payload.Email, code, expiresAt)
		if err != nil {
			httpx.LogInternalError(w, r, "otp.send", err)
			return
		}

		httpx.OK(w, r, "Verification code sent", map[string]any{
			"expiresAt": expiresAt.UTC().Format(time.RFC3339),
		})
	}
}

func VerifyOTP(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := otpPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil || payload.Email == "" || payload.Code == "" {
			httpx.LogBadRequest(w, r, "INVALID_JSON", "Invalid JSON in request body")
			return
		}

		err = app.OTP.Verify(payload.Email, payload.Code)
		switch {
		case err == nil:
			// fallthrough to success below
		case errors.Is(err, otp.ErrTooManyAttempts):
			httpx.WriteError(w, r, http.StatusTooManyRequests, "OTP_ATTEMPTS_EXCEEDED", "Too many failed attempts, request a new code", nil)
			return
		case errors.Is(err, otp.ErrExpired):
			httpx.LogUnauthorized(w, r, "OTP_EXPIRED", "Verification code expired, request a new one")
			return
		default:
			httpx.LogUnauthorized(w, r, "OTP_INVALID", "Invalid verification code")
			return
		}

		err = app.Store.MarkVerified(r.Context(), payload.Email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			httpx.LogInternalError(w, r, "db.mark_verified", err)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			log.Debugf("otp verified for unknown account %s", payload.Email)
		}

		httpx.OK(w, r, "Email verified successfully", nil)
	}
}
