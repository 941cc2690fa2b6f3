package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/repository"
)

// ReviewStore is the slice of the repository the review gate needs
type ReviewStore interface {
	GetAIReviewByKey(ctx context.Context, userID, companyName, role string) (*models.AIReview, error)
	GetAIReviewByID(ctx context.Context, id string) (*models.AIReview, error)
	CreateAIReview(ctx context.Context, review *models.AIReview) error
	ListAIReviewHistory(ctx context.Context, userID string) ([]models.ReviewHistoryEntry, error)
}

type BriefGenerator interface {
	Generate(ctx context.Context, companyName, role string) (*models.ReviewContent, error)
}

// ReviewService returns a stored review for (user, company, role) when one
// exists and only generates a new one otherwise.
type ReviewService struct {
	store     ReviewStore
	generator BriefGenerator
}

func NewReviewService(store ReviewStore, generator BriefGenerator) *ReviewService {
	return &ReviewService{store: store, generator: generator}
}

// normalizeKey is the form company names and roles are stored and matched in
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GetOrCreateReview reports created=false when the review came from storage,
// including when a concurrent request inserted it first.
func (s *ReviewService) GetOrCreateReview(ctx context.Context, userID, companyName, role string) (*models.AIReview, bool, error) {
	companyName = strings.TrimSpace(companyName)
	role = strings.TrimSpace(role)
	if companyName == "" || role == "" {
		return nil, false, &ValidationError{Message: "Company name and Role are required"}
	}
	companyKey, roleKey := normalizeKey(companyName), normalizeKey(role)

	existing, err := s.store.GetAIReviewByKey(ctx, userID, companyKey, roleKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up review: %w", err)
	}
	if existing != nil {
		slog.Info("Returning cached AI review", "review_id", existing.ID, "user_id", userID)
		return existing, false, nil
	}

	content, err := s.generator.Generate(ctx, companyName, role)
	if err != nil {
		return nil, false, err
	}

	review := &models.AIReview{
		UserID:        userID,
		CompanyName:   companyKey,
		Role:          roleKey,
		ReviewContent: *content,
		GeneratedAt:   time.Now(),
	}
	if err := s.store.CreateAIReview(ctx, review); err != nil {
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, false, fmt.Errorf("failed to save review: %w", err)
		}
		winner, err := s.store.GetAIReviewByKey(ctx, userID, companyKey, roleKey)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load concurrent review: %w", err)
		}
		if winner == nil {
			return nil, false, fmt.Errorf("review for %q/%q vanished after duplicate insert", companyKey, roleKey)
		}
		slog.Info("Concurrent AI review won the insert", "review_id", winner.ID, "user_id", userID)
		return winner, false, nil
	}
	return review, true, nil
}

// GetReviewByID does not check ownership. Any authenticated user holding the
// id may read the review.
func (s *ReviewService) GetReviewByID(ctx context.Context, id string) (*models.AIReview, error) {
	if !isUUID(id) {
		return nil, &NotFoundError{Resource: "Review"}
	}
	review, err := s.store.GetAIReviewByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, &NotFoundError{Resource: "Review"}
	}
	return review, nil
}

func (s *ReviewService) ListHistory(ctx context.Context, userID string) ([]models.ReviewHistoryEntry, error) {
	entries, err := s.store.ListAIReviewHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review history: %w", err)
	}
	return entries, nil
}
