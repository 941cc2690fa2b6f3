package services

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AuthEndpoints struct {
	authService *AuthService
}

func NewAuthEndpoints(authService *AuthService) *AuthEndpoints {
	return &AuthEndpoints{
		authService: authService,
	}
}

// RegisterPublicRoutes mounts the routes that work without a session
func (e *AuthEndpoints) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", e.LoginHandler)
	r.Post("/auth/signup", e.SignupHandler)
	r.Post("/auth/refresh", e.RefreshHandler)
}

// RegisterRoutes mounts the routes that need the auth middleware
func (e *AuthEndpoints) RegisterRoutes(r chi.Router) {
	r.Post("/auth/logout", e.LogoutHandler)
	r.Get("/auth/me", e.MeHandler)
}

func (e *AuthEndpoints) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	authResponse, err := e.authService.Login(r.Context(), req)
	if err != nil {
		slog.Warn("Login failed", "error", err, "email", req.Email)
		writeError(w, r, err)
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, authResponse.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse)
}

func (e *AuthEndpoints) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	authResponse, err := e.authService.Signup(r.Context(), req)
	if err != nil {
		slog.Warn("Signup failed", "error", err, "email", req.Email)
		writeError(w, r, err)
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, authResponse.RefreshToken)
	writeJSON(w, http.StatusCreated, authResponse)
}

func (e *AuthEndpoints) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := e.authService.GetTokenFromCookie(r, refreshTokenCookie)
	if refreshToken == "" {
		writeMessage(w, http.StatusUnauthorized, "No refresh token provided")
		return
	}

	authResponse, err := e.authService.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		slog.Warn("Token refresh failed", "error", err)
		writeError(w, r, err)
		return
	}

	e.authService.SetAuthCookies(w, authResponse.AccessToken, "")
	writeJSON(w, http.StatusOK, authResponse)
}

func (e *AuthEndpoints) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := e.authService.Logout(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	e.authService.ClearAuthCookies(w)
	writeMessage(w, http.StatusOK, "Logout successful")
}

func (e *AuthEndpoints) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
