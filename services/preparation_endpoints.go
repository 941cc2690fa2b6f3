package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type PreparationEndpoints struct {
	preparations *PreparationService
}

func NewPreparationEndpoints(preparations *PreparationService) *PreparationEndpoints {
	return &PreparationEndpoints{preparations: preparations}
}

func (e *PreparationEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/preparations", func(r chi.Router) {
		r.Post("/", e.CreatePreparation)
		r.Get("/", e.ListPreparations)
		r.Delete("/{id}", e.DeletePreparation)
	})
}

func (e *PreparationEndpoints) CreatePreparation(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreatePreparationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	prep, err := e.preparations.CreatePreparation(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prep)
}

func (e *PreparationEndpoints) ListPreparations(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	preps, err := e.preparations.ListMine(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preps)
}

func (e *PreparationEndpoints) DeletePreparation(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := e.preparations.DeletePreparation(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Preparation and associated AI Review deleted successfully")
}
