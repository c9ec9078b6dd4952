package facade

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantauth/pkg/directory"
)

// Handle returns the HTTP surface of the facade. Forms post the same fields
// the classic controls used: "username" (composite), "password",
// "remember_me" for login; "old_password"/"new_password" for password change;
// "username" for recovery.
//
// Error responses echo the composite username exactly as typed so the form
// can redisplay it.
func (f *Facade) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/login", f.handleLogin)
	r.Post("/password/change", f.handleChangePassword)
	r.Post("/password/recovery", f.handleRecovery)

	return r
}

type flowResponse struct {
	Username    string `json:"username,omitempty"`
	Application string `json:"application,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (f *Facade) handleLogin(w http.ResponseWriter, r *http.Request) {
	composite := r.PostFormValue("username")
	password := r.PostFormValue("password")
	rememberMe := r.PostFormValue("remember_me") == "true" || r.PostFormValue("remember_me") == "on"

	result, err := f.Login(r.Context(), w, composite, password, rememberMe)
	if err != nil {
		if errors.Is(err, directory.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, flowResponse{
				Username: composite,
				Error:    "invalid credentials",
			})
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	app, _ := directory.SplitUsername(result.Username)
	writeJSON(w, http.StatusOK, flowResponse{
		Username:    result.Username,
		Application: app,
	})
}

func (f *Facade) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	// The subject comes from the authenticated credential, never the form.
	t, err := f.issuer.Decode(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, flowResponse{Error: "not authenticated"})
		return
	}

	oldPassword := r.PostFormValue("old_password")
	newPassword := r.PostFormValue("new_password")

	if _, err := f.ChangePassword(r.Context(), w, t.Name, oldPassword, newPassword); err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidCredentials):
			writeJSON(w, http.StatusForbidden, flowResponse{Error: "invalid credentials"})
		case errors.Is(err, directory.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, flowResponse{Error: "user not found"})
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, flowResponse{Username: t.Name})
}

func (f *Facade) handleRecovery(w http.ResponseWriter, r *http.Request) {
	composite := r.PostFormValue("username")

	user, err := f.VerifyUser(r.Context(), composite)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, flowResponse{
				Username: composite,
				Error:    "user not found",
			})
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, flowResponse{
		Username:    composite,
		Application: user.Application,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
