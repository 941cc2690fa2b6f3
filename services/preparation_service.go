package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
)

type PreparationStore interface {
	CreatePreparation(ctx context.Context, prep *models.Preparation) error
	GetPreparationByID(ctx context.Context, id string) (*models.Preparation, error)
	ListPreparationsByUser(ctx context.Context, userID string) ([]models.Preparation, error)
	DeletePreparation(ctx context.Context, id string) error
	DeleteAIReview(ctx context.Context, id, userID string) (bool, error)
}

type CreatePreparationRequest struct {
	CompanyName string  `json:"companyName" validate:"required"`
	Role        string  `json:"role" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	AIReviewID  *string `json:"aiReviewId" validate:"omitempty,uuid"`
}

// PreparationService manages preparation sessions and the AI reviews they
// point at.
type PreparationService struct {
	store PreparationStore
}

func NewPreparationService(store PreparationStore) *PreparationService {
	return &PreparationService{store: store}
}

func (s *PreparationService) CreatePreparation(ctx context.Context, userID string, req CreatePreparationRequest) (*models.Preparation, error) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Role = strings.TrimSpace(req.Role)
	if req.AIReviewID != nil && strings.TrimSpace(*req.AIReviewID) == "" {
		req.AIReviewID = nil
	}
	if req.CompanyName == "" || req.Role == "" || strings.TrimSpace(req.Type) == "" {
		return nil, &ValidationError{Message: "Company, Role, and Type are required"}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	prepType, ok := models.ParsePreparationType(req.Type)
	if !ok {
		return nil, &ValidationError{Message: fmt.Sprintf("type must be %q or %q", models.PreparationTypeSearch, models.PreparationTypeAIReview)}
	}

	prep := &models.Preparation{
		UserID:      userID,
		CompanyName: req.CompanyName,
		Role:        req.Role,
		Type:        prepType,
		AIReviewID:  req.AIReviewID,
	}
	if err := s.store.CreatePreparation(ctx, prep); err != nil {
		return nil, fmt.Errorf("failed to create preparation: %w", err)
	}
	return prep, nil
}

func (s *PreparationService) ListMine(ctx context.Context, userID string) ([]models.Preparation, error) {
	preps, err := s.store.ListPreparationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preparations: %w", err)
	}
	return preps, nil
}

// DeletePreparation removes the owner's preparation and, first, the AI review
// it links to. A failed review delete is logged and does not stop the
// preparation delete.
func (s *PreparationService) DeletePreparation(ctx context.Context, userID, id string) error {
	if !isUUID(id) {
		return &NotFoundError{Resource: "Preparation"}
	}
	prep, err := s.store.GetPreparationByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get preparation: %w", err)
	}
	if prep == nil {
		return &NotFoundError{Resource: "Preparation"}
	}
	if prep.UserID != userID {
		return &ForbiddenError{Message: "Not authorized"}
	}

	// Only a review owned by the preparation's owner is removed. A link to
	// another user's review is left in place.
	if prep.AIReviewID != nil && *prep.AIReviewID != "" {
		deleted, err := s.store.DeleteAIReview(ctx, *prep.AIReviewID, prep.UserID)
		switch {
		case err != nil:
			slog.Warn("Failed to delete linked AI review", "error", err, "preparation_id", prep.ID, "review_id", *prep.AIReviewID)
		case deleted:
			slog.Info("Associated AI review deleted", "preparation_id", prep.ID, "review_id", *prep.AIReviewID)
		default:
			slog.Info("Linked AI review not found for owner", "preparation_id", prep.ID, "review_id", *prep.AIReviewID)
		}
	}

	if err := s.store.DeletePreparation(ctx, prep.ID); err != nil {
		return fmt.Errorf("failed to delete preparation: %w", err)
	}
	return nil
}
