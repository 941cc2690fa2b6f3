package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AIEndpoints struct {
	reviews *ReviewService
}

func NewAIEndpoints(reviews *ReviewService) *AIEndpoints {
	return &AIEndpoints{reviews: reviews}
}

func (e *AIEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Post("/generate", e.GenerateReview)
		r.Get("/{id}", e.GetReview)
	})
}

type generateReviewRequest struct {
	CompanyName string `json:"companyName"`
	Role        string `json:"role"`
}

// GenerateReview answers 201 with a freshly generated review and 200 with a
// stored one.
func (e *AIEndpoints) GenerateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req generateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	review, created, err := e.reviews.GetOrCreateReview(r.Context(), user.ID, req.CompanyName, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, review)
}

func (e *AIEndpoints) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := e.reviews.GetReviewByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}
