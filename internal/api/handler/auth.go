package handler

import (
	"net/http"
	"time"

	"github.com/Rrens/sop-assistant/internal/api/middleware"
	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/config"
	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	cookie      config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cookie config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, tokens *domain.TokenPair) {
	if h.cookie.CookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   int(tokens.ExpiresIn),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if !decode(w, r, &input) {
		return
	}

	user, tokens, err := h.authService.Login(r.Context(), input)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.setSessionCookie(w, tokens)
	response.OK(w, map[string]any{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh handles token refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input refreshRequest
	if !decode(w, r, &input) {
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.setSessionCookie(w, tokens)
	response.OK(w, tokens)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.cookie.CookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   h.cookie.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	response.OK(w, map[string]string{"message": "signed out"})
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, user)
}

// UserHandler serves administrator user management
type UserHandler struct {
	authService *service.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// List returns every user
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, users)
}

// Create registers a user with the given role
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if !decode(w, r, &input) {
		return
	}

	user, err := h.authService.CreateUser(r.Context(), input)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Created(w, user)
}
