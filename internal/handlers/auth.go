package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"montarreda/internal/auth"
	"montarreda/internal/httpx"
	"montarreda/internal/models"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
	mux.HandleFunc("/session", h.session)
}

type loginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// login resolves the submitted code against the users collection. A
// wrong code is a normal outcome carried in the response body; only
// store failures surface as 500.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		httpx.JSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "Codice errato"})
		return
	}
	var user models.User
	if err := h.DB.Where("code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "Codice errato"})
			return
		}
		httpx.JSON(w, http.StatusInternalServerError, loginResponse{Success: false, Message: "Errore durante il login"})
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, loginResponse{Success: true, User: &user})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// session returns the authenticated user, reloaded from the store so a
// stale cookie for a deleted user reads as signed out.
func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok || uid == 0 {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		auth.ClearSession(w)
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// UserSummary is the public projection of a user: the login code stays
// out of list responses.
type UserSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

type UserHandler struct{ DB *gorm.DB }

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{DB: db} }

// List: GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var users []models.User
	if err := h.DB.Order("id asc").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{ID: u.ID, FullName: u.FullName})
	}
	httpx.JSON(w, http.StatusOK, out)
}
