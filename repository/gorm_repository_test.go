package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *GORMRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := NewGORMRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func createUser(t *testing.T, repo *GORMRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func experience(userID, company, role string, createdAt time.Time) *models.Experience {
	exp := &models.Experience{
		UserID:      userID,
		CompanyName: company,
		Role:        role,
		Rounds: datatypes.JSONSlice[models.Round]{
			{RoundName: "Technical", Questions: []models.Question{{QuestionText: "Reverse a linked list"}}},
		},
		CreatedAt: createdAt,
	}
	exp.Normalize()
	return exp
}

func TestCreateAIReviewRejectsDuplicateKey(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	user := createUser(t, repo, "a@example.com")

	first := &models.AIReview{UserID: user.ID, CompanyName: "google", Role: "sde"}
	require.NoError(t, repo.CreateAIReview(ctx, first))

	dup := &models.AIReview{UserID: user.ID, CompanyName: "google", Role: "sde"}
	err := repo.CreateAIReview(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	otherRole := &models.AIReview{UserID: user.ID, CompanyName: "google", Role: "sre"}
	assert.NoError(t, repo.CreateAIReview(ctx, otherRole))

	other := createUser(t, repo, "b@example.com")
	otherUser := &models.AIReview{UserID: other.ID, CompanyName: "google", Role: "sde"}
	assert.NoError(t, repo.CreateAIReview(ctx, otherUser))

	got, err := repo.GetAIReviewByKey(ctx, user.ID, "google", "sde")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestAIReviewContentRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	user := createUser(t, repo, "a@example.com")

	review := &models.AIReview{
		UserID:      user.ID,
		CompanyName: "google",
		Role:        "sde",
		ReviewContent: models.ReviewContent{
			PreferredSkills: datatypes.JSONSlice[string]{"Go", "Distributed systems"},
			CompanyMotto:    "Don't be evil",
			MCQResources: datatypes.JSONSlice[models.MCQResource]{
				{Topic: "Probability", Link: "https://example.com/p", Description: "Basics"},
			},
			CodingQuestions: datatypes.JSONSlice[models.CodingQuestion]{
				{ProblemName: "Two Sum", Link: "https://leetcode.com/problems/two-sum", Frequency: "High"},
			},
		},
	}
	require.NoError(t, repo.CreateAIReview(ctx, review))

	got, err := repo.GetAIReviewByID(ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Go", "Distributed systems"}, []string(got.PreferredSkills))
	assert.Equal(t, "Don't be evil", got.CompanyMotto)
	require.Len(t, got.MCQResources, 1)
	assert.Equal(t, "Probability", got.MCQResources[0].Topic)
	require.Len(t, got.CodingQuestions, 1)
	assert.Equal(t, "High", got.CodingQuestions[0].Frequency)
	assert.False(t, got.GeneratedAt.IsZero())
}

func TestGetMissingRecordsReturnNil(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	missing := "00000000-0000-0000-0000-000000000000"

	review, err := repo.GetAIReviewByID(ctx, missing)
	assert.NoError(t, err)
	assert.Nil(t, review)

	review, err = repo.GetAIReviewByKey(ctx, missing, "google", "sde")
	assert.NoError(t, err)
	assert.Nil(t, review)

	exp, err := repo.GetExperienceByID(ctx, missing)
	assert.NoError(t, err)
	assert.Nil(t, exp)

	prep, err := repo.GetPreparationByID(ctx, missing)
	assert.NoError(t, err)
	assert.Nil(t, prep)

	user, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestSearchExperiences(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	user := createUser(t, repo, "a@example.com")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateExperience(ctx, experience(user.ID, "Google", "SDE", base)))
	require.NoError(t, repo.CreateExperience(ctx, experience(user.ID, "Googleplex", "Intern", base.Add(time.Hour))))
	require.NoError(t, repo.CreateExperience(ctx, experience(user.ID, "Amazon", "Google Cloud Liaison", base.Add(2*time.Hour))))
	require.NoError(t, repo.CreateExperience(ctx, experience(user.ID, "100% Remote_Co", "Backend", base.Add(3*time.Hour))))

	companies := func(exps []models.Experience) []string {
		var out []string
		for _, e := range exps {
			out = append(out, e.CompanyName)
		}
		return out
	}

	tests := []struct {
		name     string
		search   string
		expected []string
	}{
		{name: "Empty search lists all newest first", search: "", expected: []string{"100% Remote_Co", "Amazon", "Googleplex", "Google"}},
		{name: "Case-insensitive substring on company or role", search: "GOOG", expected: []string{"Amazon", "Googleplex", "Google"}},
		{name: "Role match", search: "intern", expected: []string{"Googleplex"}},
		{name: "Percent is literal", search: "%", expected: []string{"100% Remote_Co"}},
		{name: "Underscore is literal", search: "e_c", expected: []string{"100% Remote_Co"}},
		{name: "No match", search: "microsoft", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchExperiences(ctx, tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, companies(got))
		})
	}

	all, err := repo.SearchExperiences(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "a@example.com", all[0].User.Email)
}

func TestUpdateExperienceRequiresOwner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@example.com")
	other := createUser(t, repo, "other@example.com")

	exp := experience(owner.ID, "Google", "SDE", time.Now())
	require.NoError(t, repo.CreateExperience(ctx, exp))

	hijack := experience(other.ID, "Hacked", "Hacked", time.Now())
	hijack.ID = exp.ID
	matched, err := repo.UpdateExperience(ctx, hijack)
	require.NoError(t, err)
	assert.False(t, matched)

	update := experience(owner.ID, "Google", "Senior SDE", time.Now())
	update.ID = exp.ID
	update.Tips = "Practice graphs"
	matched, err = repo.UpdateExperience(ctx, update)
	require.NoError(t, err)
	assert.True(t, matched)

	got, err := repo.GetExperienceByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior SDE", got.Role)
	assert.Equal(t, "Practice graphs", got.Tips)
	assert.Equal(t, owner.ID, got.UserID)
}

func TestListAIReviewHistoryNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	user := createUser(t, repo, "a@example.com")
	other := createUser(t, repo, "b@example.com")

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, company := range []string{"google", "amazon", "meta"} {
		review := &models.AIReview{UserID: user.ID, CompanyName: company, Role: "sde", GeneratedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.CreateAIReview(ctx, review))
	}
	require.NoError(t, repo.CreateAIReview(ctx, &models.AIReview{UserID: other.ID, CompanyName: "netflix", Role: "sde"}))

	history, err := repo.ListAIReviewHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "meta", history[0].CompanyName)
	assert.Equal(t, "amazon", history[1].CompanyName)
	assert.Equal(t, "google", history[2].CompanyName)
	assert.NotEmpty(t, history[0].ID)
	assert.Equal(t, "sde", history[0].Role)
}

func TestDeleteAIReviewScopedToOwner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@example.com")
	other := createUser(t, repo, "other@example.com")

	review := &models.AIReview{UserID: owner.ID, CompanyName: "google", Role: "sde"}
	require.NoError(t, repo.CreateAIReview(ctx, review))

	deleted, err := repo.DeleteAIReview(ctx, review.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	got, err := repo.GetAIReviewByID(ctx, review.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	deleted, err = repo.DeleteAIReview(ctx, review.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	got, err = repo.GetAIReviewByID(ctx, review.ID)

	deleted, err = repo.DeleteAIReview(ctx, review.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete matches nothing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListPreparationsNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	user := createUser(t, repo, "a@example.com")

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, company := range []string{"google", "amazon"} {
		prep := &models.Preparation{UserID: user.ID, CompanyName: company, Role: "sde", Type: models.PreparationTypeSearch, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.CreatePreparation(ctx, prep))
	}

	preps, err := repo.ListPreparationsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, preps, 2)
	assert.Equal(t, "amazon", preps[0].CompanyName)
	assert.Nil(t, preps[0].AIReviewID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	createUser(t, repo, "a@example.com")

	err := repo.CreateUser(context.Background(), &models.User{Email: "a@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "gorm translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), expected: true},
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, expected: true},
		{name: "postgres other error", err: &pgconn.PgError{Code: "23502", Message: "null value"}, expected: false},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: ai_reviews.user_id"), expected: true},
		{name: "unrelated", err: errors.New("connection refused"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDuplicateKey(tt.err))
		})
	}
}
