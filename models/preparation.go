package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PreparationType tells whether a preparation card came from a search or an AI review
type PreparationType string

const (
	PreparationTypeSearch   PreparationType = "Search"
	PreparationTypeAIReview PreparationType = "AI Review"
)

// ParsePreparationType accepts the stored spellings plus the "AIReview" alias.
func ParsePreparationType(s string) (PreparationType, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "search":
		return PreparationTypeSearch, true
	case "aireview":
		return PreparationTypeAIReview, true
	}
	return "", false
}

// Preparation is a user's preparation session. AIReviewID is a weak reference:
// the review is not owned by the preparation and no foreign key exists, so the
// id may dangle if the review is removed elsewhere.
type Preparation struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;index:idx_preparations_user_created,priority:1" json:"userId"`
	CompanyName string          `gorm:"not null" json:"companyName"`
	Role        string          `gorm:"not null" json:"role"`
	Type        PreparationType `gorm:"size:20;not null" json:"type"`
	AIReviewID  *string         `gorm:"type:uuid" json:"aiReviewId"`
	CreatedAt   time.Time       `gorm:"index:idx_preparations_user_created,priority:2,sort:desc" json:"createdAt"`
}

func (p *Preparation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}
