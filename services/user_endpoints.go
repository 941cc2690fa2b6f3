package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type UserEndpoints struct {
	reviews *ReviewService
}

func NewUserEndpoints(reviews *ReviewService) *UserEndpoints {
	return &UserEndpoints{reviews: reviews}
}

func (e *UserEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/profile", e.GetProfile)
		r.Get("/history", e.GetHistory)
	})
}

func (e *UserEndpoints) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetHistory lists the caller's AI reviews, newest first
func (e *UserEndpoints) GetHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	history, err := e.reviews.ListHistory(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
