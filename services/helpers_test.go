package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const validReviewJSON = `{
  "preferredSkills": ["Go", "Kubernetes"],
  "latestTechStack": ["gRPC"],
  "pastTechStack": ["Java"],
  "companyMotto": "Organize the world's information",
  "inTheNews": "Launched a new model.",
  "mcqResources": [{"topic": "Probability", "link": "https://example.com", "description": "Basics"}],
  "codingQuestions": [{"problemName": "Two Sum", "link": "https://leetcode.com/problems/two-sum", "frequency": "High"}],
  "mostProudProjects": ["Search"],
  "tipsFromSeniors": ["Think out loud"],
  "hiredProfiles": ["New grad with internships"]
}`

func newTestRepository(t *testing.T) *repository.GORMRepository {
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

	repo := repository.NewGORMRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func createTestUser(t *testing.T, repo *repository.GORMRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash", FullName: "Test"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// fakeCompletion returns a canned answer and records what it was sent
type fakeCompletion struct {
	mu       sync.Mutex
	text     string
	err      error
	calls    int
	messages []ChatMessage
}

func (f *fakeCompletion) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = messages
	return f.text, f.err
}

func (f *fakeCompletion) Name() string { return "fake" }

func (f *fakeCompletion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeGenerator lets a test run code in the middle of generation
type fakeGenerator struct {
	content  *models.ReviewContent
	err      error
	calls    int
	gotArgs  [2]string
	duringFn func()
}

func (f *fakeGenerator) Generate(ctx context.Context, companyName, role string) (*models.ReviewContent, error) {
	f.calls++
	f.gotArgs = [2]string{companyName, role}
	if f.duringFn != nil {
		f.duringFn()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}
