package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ExperienceEndpoints struct {
	experiences *ExperienceService
}

func NewExperienceEndpoints(experiences *ExperienceService) *ExperienceEndpoints {
	return &ExperienceEndpoints{experiences: experiences}
}

func (e *ExperienceEndpoints) RegisterPublicRoutes(r chi.Router) {
	r.Get("/experiences", e.ListExperiences)
	r.Get("/experiences/{id}", e.GetExperience)
}

func (e *ExperienceEndpoints) RegisterRoutes(r chi.Router) {
	r.Post("/experiences", e.CreateExperience)
	r.Get("/experiences/myexperiences", e.ListMyExperiences)
	r.Put("/experiences/{id}", e.UpdateExperience)
	r.Delete("/experiences/{id}", e.DeleteExperience)
}

func (e *ExperienceEndpoints) CreateExperience(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := e.experiences.Create(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

func (e *ExperienceEndpoints) ListExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := e.experiences.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, experiences)
}

func (e *ExperienceEndpoints) ListMyExperiences(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	experiences, err := e.experiences.ListMine(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, experiences)
}

func (e *ExperienceEndpoints) GetExperience(w http.ResponseWriter, r *http.Request) {
	exp, err := e.experiences.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (e *ExperienceEndpoints) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := e.experiences.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (e *ExperienceEndpoints) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := e.experiences.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Experience deleted successfully")
}
