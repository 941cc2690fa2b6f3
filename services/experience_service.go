package services

import (
	"context"
	"fmt"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
	"gorm.io/datatypes"
)

type ExperienceStore interface {
	CreateExperience(ctx context.Context, exp *models.Experience) error
	GetExperienceByID(ctx context.Context, id string) (*models.Experience, error)
	SearchExperiences(ctx context.Context, search string) ([]models.Experience, error)
	ListExperiencesByUser(ctx context.Context, userID string) ([]models.Experience, error)
	UpdateExperience(ctx context.Context, exp *models.Experience) (bool, error)
	DeleteExperience(ctx context.Context, id, userID string) error
}

// ExperienceRequest is the client-editable part of an Experience, used for
// both create and full update.
type ExperienceRequest struct {
	CompanyName       string         `json:"companyName" validate:"required"`
	Role              string         `json:"role" validate:"required"`
	CtcOffered        string         `json:"ctcOffered"`
	Location          string         `json:"location"`
	OverallToughness  int            `json:"overallToughness" validate:"omitempty,min=1,max=10"`
	PlatformsUsed     []string       `json:"platformsUsed"`
	Rounds            []models.Round `json:"rounds" validate:"dive"`
	Tips              string         `json:"tips"`
	OverallExperience string         `json:"overallExperience"`
	IsAnonymous       bool           `json:"isAnonymous"`
}

func (req ExperienceRequest) toModel() *models.Experience {
	exp := &models.Experience{
		CompanyName:       req.CompanyName,
		Role:              req.Role,
		CtcOffered:        req.CtcOffered,
		Location:          req.Location,
		OverallToughness:  req.OverallToughness,
		PlatformsUsed:     datatypes.JSONSlice[string](req.PlatformsUsed),
		Rounds:            datatypes.JSONSlice[models.Round](req.Rounds),
		Tips:              req.Tips,
		OverallExperience: req.OverallExperience,
		IsAnonymous:       req.IsAnonymous,
	}
	exp.Normalize()
	return exp
}

type ExperienceService struct {
	store ExperienceStore
}

func NewExperienceService(store ExperienceStore) *ExperienceService {
	return &ExperienceService{store: store}
}

func validateExperience(exp *models.Experience) error {
	if len(exp.Rounds) == 0 {
		return &ValidationError{Message: "Please add at least one interview round."}
	}
	return validateStruct(exp)
}

func (s *ExperienceService) Create(ctx context.Context, userID string, req ExperienceRequest) (*models.Experience, error) {
	exp := req.toModel()
	exp.UserID = userID
	if err := validateExperience(exp); err != nil {
		return nil, err
	}
	if err := s.store.CreateExperience(ctx, exp); err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	return exp, nil
}

// Search is the public listing; anonymous authors are redacted.
func (s *ExperienceService) Search(ctx context.Context, search string) ([]models.Experience, error) {
	experiences, err := s.store.SearchExperiences(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search experiences: %w", err)
	}
	for i := range experiences {
		experiences[i] = experiences[i].Redacted()
	}
	return experiences, nil
}

func (s *ExperienceService) ListMine(ctx context.Context, userID string) ([]models.Experience, error) {
	experiences, err := s.store.ListExperiencesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return experiences, nil
}

func (s *ExperienceService) Get(ctx context.Context, id string) (*models.Experience, error) {
	exp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	redacted := exp.Redacted()
	return &redacted, nil
}

// Update replaces every editable field. Owner, id and createdAt are kept.
func (s *ExperienceService) Update(ctx context.Context, userID, id string, req ExperienceRequest) (*models.Experience, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, &ForbiddenError{Message: "Not authorized to edit this experience"}
	}

	exp := req.toModel()
	exp.ID = current.ID
	exp.UserID = current.UserID
	exp.CreatedAt = current.CreatedAt
	if err := validateExperience(exp); err != nil {
		return nil, err
	}

	matched, err := s.store.UpdateExperience(ctx, exp)
	if err != nil {
		return nil, fmt.Errorf("failed to update experience: %w", err)
	}
	if !matched {
		return nil, &NotFoundError{Resource: "Experience"}
	}
	return s.find(ctx, id)
}

func (s *ExperienceService) Delete(ctx context.Context, userID, id string) error {
	exp, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if exp.UserID != userID {
		return &ForbiddenError{Message: "Not authorized to delete this experience"}
	}
	if err := s.store.DeleteExperience(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete experience: %w", err)
	}
	return nil
}

func (s *ExperienceService) find(ctx context.Context, id string) (*models.Experience, error) {
	if !isUUID(id) {
		return nil, &NotFoundError{Resource: "Experience"}
	}
	exp, err := s.store.GetExperienceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	if exp == nil {
		return nil, &NotFoundError{Resource: "Experience"}
	}
	return exp, nil
}
