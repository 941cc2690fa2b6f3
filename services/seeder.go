package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase creates demo users and sample experiences. Running it again
// creates nothing new.
func (s *DatabaseSeeder) SeedDatabase(ctx context.Context) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []models.User{
		{Email: "test@example.com", Password: string(hashedPassword), FullName: "Test User"},
		{Email: "demo@example.com", Password: string(hashedPassword), FullName: "Demo User"},
	}
	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	author, err := s.repo.GetUserByEmail(ctx, "test@example.com")
	if err != nil {
		return fmt.Errorf("failed to get test user: %w", err)
	}
	if author == nil {
		return fmt.Errorf("test user not found")
	}

	for _, exp := range sampleExperiences() {
		exp.UserID = author.ID
		if err := s.seedExperience(ctx, exp); err != nil {
			slog.Error("Failed to seed experience", "company", exp.CompanyName, "error", err)
		}
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

// seedUser seeds a single user (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Email, err)
	}
	if existingUser != nil {
		slog.Info("User already exists, skipping", "email", user.Email)
		return nil
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	slog.Info("Created user", "email", user.Email)
	return nil
}

// seedExperience skips an experience the author already has for the same
// company and role.
func (s *DatabaseSeeder) seedExperience(ctx context.Context, exp *models.Experience) error {
	existing, err := s.repo.ListExperiencesByUser(ctx, exp.UserID)
	if err != nil {
		return fmt.Errorf("error checking experiences: %w", err)
	}
	for _, e := range existing {
		if strings.EqualFold(e.CompanyName, exp.CompanyName) && strings.EqualFold(e.Role, exp.Role) {
			slog.Info("Experience already exists, skipping", "company", exp.CompanyName, "role", exp.Role)
			return nil
		}
	}

	exp.Normalize()
	if err := s.repo.CreateExperience(ctx, exp); err != nil {
		return fmt.Errorf("failed to create experience %s: %w", exp.CompanyName, err)
	}
	return nil
}

func sampleExperiences() []*models.Experience {
	return []*models.Experience{
		{
			CompanyName:      "Google",
			Role:             "Software Engineer",
			CtcOffered:       "45 LPA",
			Location:         "Bangalore",
			OverallToughness: 8,
			PlatformsUsed:    datatypes.JSONSlice[string]{"LeetCode", "Codeforces"},
			Rounds: datatypes.JSONSlice[models.Round]{
				{
					RoundName:     "Online Assessment",
					Duration:      "90 minutes",
					Toughness:     6,
					TopicsFocused: []string{"Arrays", "Dynamic Programming"},
					Questions: []models.Question{
						{QuestionText: "Longest increasing subsequence with at most k skips"},
						{QuestionText: "Count islands in a grid with diagonal moves"},
					},
				},
				{
					RoundName:     "Onsite - System Design",
					Duration:      "45 minutes",
					Toughness:     8,
					TopicsFocused: []string{"Caching", "Sharding"},
					Questions: []models.Question{
						{QuestionText: "Design a URL shortener", AnswerText: "Base62 ids over a sharded key-value store with a read-through cache."},
					},
				},
			},
			Tips:              "Talk through trade-offs before writing code.",
			OverallExperience: "Friendly interviewers, long process.",
		},
		{
			CompanyName:      "Amazon",
			Role:             "SDE II",
			Location:         "Hyderabad",
			OverallToughness: 7,
			PlatformsUsed:    datatypes.JSONSlice[string]{"LeetCode"},
			Rounds: datatypes.JSONSlice[models.Round]{
				{
					RoundName:     "Bar Raiser",
					Duration:      "60 minutes",
					Toughness:     7,
					TopicsFocused: []string{"Leadership Principles", "Graphs"},
					Questions: []models.Question{
						{QuestionText: "Tell me about a time you disagreed with your manager"},
						{QuestionText: "Course schedule ordering"},
					},
				},
			},
			Tips:        "Prepare STAR stories for every leadership principle.",
			IsAnonymous: true,
		},
	}
}
