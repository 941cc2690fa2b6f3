package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, RefreshToken from user.go
// - Experience, Round, Question from experience.go
// - AIReview, ReviewContent, MCQResource, CodingQuestion from ai_review.go
// - Preparation, PreparationType from preparation.go

// Database schema overview:
// 1. users - Accounts managed by cookie/bearer authentication
// 2. refresh_tokens - Hashed long-lived tokens used to mint access tokens
// 3. experiences - Interview write-ups; rounds and questions live in a JSON column
// 4. ai_reviews - Generated research briefs, unique per (user_id, company_name, role)
// 5. preparations - A user's preparation sessions, optionally pointing at an ai_review

import (
	"github.com/google/uuid"
)

// newID returns a fresh UUID string. IDs are assigned in Go so the same schema
// works on PostgreSQL and SQLite.
func newID() string {
	return uuid.New().String()
}
