package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MCQResource struct {
	Topic       string `json:"topic"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type CodingQuestion struct {
	ProblemName string `json:"problemName"`
	Link        string `json:"link"`
	Frequency   string `json:"frequency"` // e.g. "High", "Medium"
}

// ReviewContent is the generated part of an AIReview, exactly the ten fields
// the language model is asked to return.
type ReviewContent struct {
	PreferredSkills   datatypes.JSONSlice[string]         `json:"preferredSkills"`
	LatestTechStack   datatypes.JSONSlice[string]         `json:"latestTechStack"`
	PastTechStack     datatypes.JSONSlice[string]         `json:"pastTechStack"`
	CompanyMotto      string                              `gorm:"type:text" json:"companyMotto"`
	InTheNews         string                              `gorm:"type:text" json:"inTheNews"`
	MCQResources      datatypes.JSONSlice[MCQResource]    `json:"mcqResources"`
	CodingQuestions   datatypes.JSONSlice[CodingQuestion] `json:"codingQuestions"`
	MostProudProjects datatypes.JSONSlice[string]         `json:"mostProudProjects"`
	TipsFromSeniors   datatypes.JSONSlice[string]         `json:"tipsFromSeniors"`
	HiredProfiles     datatypes.JSONSlice[string]         `json:"hiredProfiles"`
}

// AIReview is a persisted research brief. At most one row exists per
// (user_id, company_name, role); the unique index enforces it.
type AIReview struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string `gorm:"type:uuid;not null;uniqueIndex:idx_ai_reviews_user_company_role,priority:1" json:"userId"`
	CompanyName string `gorm:"not null;uniqueIndex:idx_ai_reviews_user_company_role,priority:2" json:"companyName"`
	Role        string `gorm:"not null;uniqueIndex:idx_ai_reviews_user_company_role,priority:3" json:"role"`
	ReviewContent
	GeneratedAt time.Time `gorm:"not null;index" json:"generatedAt"`
}

func (r *AIReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	return nil
}

// ReviewHistoryEntry is the listing projection of an AIReview
type ReviewHistoryEntry struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	Role        string    `json:"role"`
	GeneratedAt time.Time `json:"generatedAt"`
}
