package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateKey is returned when an insert is rejected by a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Experience{},
		&models.AIReview{},
		&models.Preparation{},
	)
}

// Ping checks the underlying connection
func (r *GORMRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, time.Now()).First(&refreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, err
	}
	return &refreshToken, nil
}

func (r *GORMRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete user refresh tokens", "error", err, "user_id", userID)
		return err
	}
	return nil
}

// Experience operations
func (r *GORMRepository) CreateExperience(ctx context.Context, exp *models.Experience) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(exp).Error; err != nil {
		slog.Error("Failed to create experience", "error", err, "user_id", exp.UserID)
		return err
	}
	slog.Info("Experience created", "experience_id", exp.ID, "user_id", exp.UserID, "company", exp.CompanyName)
	return nil
}

func (r *GORMRepository) GetExperienceByID(ctx context.Context, id string) (*models.Experience, error) {
	var exp models.Experience
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get experience", "error", err, "experience_id", id)
		return nil, err
	}
	return &exp, nil
}

// SearchExperiences lists all experiences newest first. A non-empty search
// matches companyName or role as a case-insensitive substring.
func (r *GORMRepository) SearchExperiences(ctx context.Context, search string) ([]models.Experience, error) {
	experiences := []models.Experience{}
	query := r.db.WithContext(ctx).Preload("User")

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(`LOWER(company_name) LIKE ? ESCAPE '\' OR LOWER(role) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	if err := query.Order("created_at DESC").Find(&experiences).Error; err != nil {
		slog.Error("Failed to search experiences", "error", err, "search", search)
		return nil, err
	}
	return experiences, nil
}

func (r *GORMRepository) ListExperiencesByUser(ctx context.Context, userID string) ([]models.Experience, error) {
	experiences := []models.Experience{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&experiences).Error
	if err != nil {
		slog.Error("Failed to list user experiences", "error", err, "user_id", userID)
		return nil, err
	}
	return experiences, nil
}

// UpdateExperience overwrites every editable column of the owner's row. It
// reports whether a row matched.
func (r *GORMRepository) UpdateExperience(ctx context.Context, exp *models.Experience) (bool, error) {
	exp.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Experience{}).
		Where("id = ? AND user_id = ?", exp.ID, exp.UserID).
		Select(
			"company_name", "role", "ctc_offered", "location", "overall_toughness",
			"platforms_used", "number_of_rounds", "rounds", "tips",
			"overall_experience", "is_anonymous", "updated_at",
		).
		Updates(exp)
	if result.Error != nil {
		slog.Error("Failed to update experience", "error", result.Error, "experience_id", exp.ID)
		return false, result.Error
	}
	slog.Info("Experience updated", "experience_id", exp.ID, "user_id", exp.UserID)
	return result.RowsAffected > 0, nil
}

func (r *GORMRepository) DeleteExperience(ctx context.Context, id, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Experience{}).Error; err != nil {
		slog.Error("Failed to delete experience", "error", err, "experience_id", id)
		return err
	}
	slog.Info("Experience deleted", "experience_id", id, "user_id", userID)
	return nil
}

// AI review operations

// CreateAIReview inserts a review. ErrDuplicateKey means another row with the
// same (user_id, company_name, role) already exists.
func (r *GORMRepository) CreateAIReview(ctx context.Context, review *models.AIReview) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if isDuplicateKey(err) {
			slog.Info("AI review already exists", "user_id", review.UserID, "company", review.CompanyName, "role", review.Role)
			return ErrDuplicateKey
		}
		slog.Error("Failed to create AI review", "error", err, "user_id", review.UserID)
		return err
	}
	slog.Info("AI review created", "review_id", review.ID, "user_id", review.UserID, "company", review.CompanyName)
	return nil
}

// GetAIReviewByKey expects companyName and role already normalized.
func (r *GORMRepository) GetAIReviewByKey(ctx context.Context, userID, companyName, role string) (*models.AIReview, error) {
	var review models.AIReview
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND company_name = ? AND role = ?", userID, companyName, role).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get AI review by key", "error", err, "user_id", userID, "company", companyName, "role", role)
		return nil, err
	}
	return &review, nil
}

func (r *GORMRepository) GetAIReviewByID(ctx context.Context, id string) (*models.AIReview, error) {
	var review models.AIReview
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get AI review", "error", err, "review_id", id)
		return nil, err
	}
	return &review, nil
}

func (r *GORMRepository) ListAIReviewHistory(ctx context.Context, userID string) ([]models.ReviewHistoryEntry, error) {
	entries := []models.ReviewHistoryEntry{}
	err := r.db.WithContext(ctx).
		Model(&models.AIReview{}).
		Select("id", "company_name", "role", "generated_at").
		Where("user_id = ?", userID).
		Order("generated_at DESC").
		Scan(&entries).Error
	if err != nil {
		slog.Error("Failed to list AI review history", "error", err, "user_id", userID)
		return nil, err
	}
	return entries, nil
}

// DeleteAIReview removes the owner's review and reports whether a row
// matched. A missing row is not an error.
func (r *GORMRepository) DeleteAIReview(ctx context.Context, id, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.AIReview{})
	if result.Error != nil {
		slog.Error("Failed to delete AI review", "error", result.Error, "review_id", id)
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	slog.Info("AI review deleted", "review_id", id, "user_id", userID)
	return true, nil
}

// Preparation operations
func (r *GORMRepository) CreatePreparation(ctx context.Context, prep *models.Preparation) error {
	if err := r.db.WithContext(ctx).Create(prep).Error; err != nil {
		slog.Error("Failed to create preparation", "error", err, "user_id", prep.UserID)
		return err
	}
	slog.Info("Preparation created", "preparation_id", prep.ID, "user_id", prep.UserID, "type", prep.Type)
	return nil
}

func (r *GORMRepository) GetPreparationByID(ctx context.Context, id string) (*models.Preparation, error) {
	var prep models.Preparation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&prep).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get preparation", "error", err, "preparation_id", id)
		return nil, err
	}
	return &prep, nil
}

func (r *GORMRepository) ListPreparationsByUser(ctx context.Context, userID string) ([]models.Preparation, error) {
	preps := []models.Preparation{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&preps).Error
	if err != nil {
		slog.Error("Failed to list preparations", "error", err, "user_id", userID)
		return nil, err
	}
	return preps, nil
}

func (r *GORMRepository) DeletePreparation(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Preparation{}).Error; err != nil {
		slog.Error("Failed to delete preparation", "error", err, "preparation_id", id)
		return err
	}
	slog.Info("Preparation deleted", "preparation_id", id)
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
