package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/skarnov/go-pos/internal/api/middleware"
	"github.com/skarnov/go-pos/internal/auth"
	"github.com/skarnov/go-pos/internal/infrastructure/store"
)

// AuthHandlers handles login and session management for the dashboard.
type AuthHandlers struct {
	users  *store.UserRepo
	tokens *auth.TokenService
}

func NewAuthHandlers(users *store.UserRepo, tokens *auth.TokenService) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

func userResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates a user account. Behind RequireRole("admin") in the
// router; the first admin is seeded from the environment at startup.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Name == "" {
		respondJSONError(w, "email and name are required", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = "cashier"
	}

	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		respondJSONError(w, "email already registered", http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, hash, req.Name, req.Role)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": userResponse(user)})
}

// Login verifies credentials and issues tokens, as cookies for the
// browser and in the body for API clients.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		respondJSONError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	h.issueTokens(w, r, user)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	tokenString := refreshTokenFrom(r)
	if tokenString == "" {
		respondJSONError(w, "refresh token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.tokens.ValidateRefreshToken(tokenString)
	if err != nil {
		respondJSONError(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondJSONError(w, "unknown user", http.StatusUnauthorized)
		return
	}

	h.issueTokens(w, r, user)
}

// Logout clears the auth cookies.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, "access_token")
	clearCookie(w, r, "refresh_token")
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the logged-in user's claims.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":    claims.UserID,
		"email": claims.Email,
		"name":  claims.Name,
		"role":  claims.Role,
	})
}

func (h *AuthHandlers) issueTokens(w http.ResponseWriter, r *http.Request, user *store.User) {
	accessToken, accessExpiry, err := h.tokens.GenerateAccessToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		respondJSONError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}
	refreshToken, refreshExpiry, err := h.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		respondJSONError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	secure := r.TLS != nil
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpiry,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/api/refresh",
		Expires:  refreshExpiry,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, AuthResponse{
		User:        userResponse(user),
		AccessToken: accessToken,
		ExpiresAt:   accessExpiry,
	})
}

func refreshTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		return cookie.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSONQuiet(r, &body); err == nil {
		return body.RefreshToken
	}
	return ""
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
