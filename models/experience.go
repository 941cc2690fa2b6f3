package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is one question asked during a round, with the candidate's answer
type Question struct {
	QuestionText string `json:"questionText" validate:"required"`
	AnswerText   string `json:"answerText,omitempty"`
}

// Round has no identity of its own beyond its position in Experience.Rounds
type Round struct {
	RoundName              string     `json:"roundName" validate:"required"`
	DateAttempted          *Date      `json:"dateAttempted,omitempty"`
	Duration               string     `json:"duration,omitempty"`
	Toughness              int        `json:"toughness,omitempty" validate:"omitempty,min=1,max=10"`
	TopicsFocused          []string   `json:"topicsFocused"`
	NumberOfQuestionsAsked int        `json:"numberOfQuestionsAsked"`
	Questions              []Question `json:"questions" validate:"dive"`
}

// Experience is a first-person account of an interview process
type Experience struct {
	ID                string                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string                      `gorm:"type:uuid;not null;index" json:"userId"`
	CompanyName       string                      `gorm:"not null;index" json:"companyName" validate:"required"`
	Role              string                      `gorm:"not null" json:"role" validate:"required"`
	CtcOffered        string                      `json:"ctcOffered,omitempty"`
	Location          string                      `json:"location,omitempty"`
	OverallToughness  int                         `json:"overallToughness,omitempty" validate:"omitempty,min=1,max=10"`
	PlatformsUsed     datatypes.JSONSlice[string] `json:"platformsUsed"`
	NumberOfRounds    int                         `json:"numberOfRounds"`
	Rounds            datatypes.JSONSlice[Round]  `gorm:"not null" json:"rounds" validate:"dive"`
	Tips              string                      `gorm:"type:text" json:"tips,omitempty"`
	OverallExperience string                      `gorm:"type:text" json:"overallExperience,omitempty"`
	IsAnonymous       bool                        `gorm:"default:false" json:"isAnonymous"`
	CreatedAt         time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	return nil
}

// Normalize trims the matching fields, fills nil lists and recomputes the
// derived counters.
func (e *Experience) Normalize() {
	e.CompanyName = strings.TrimSpace(e.CompanyName)
	e.Role = strings.TrimSpace(e.Role)
	if e.PlatformsUsed == nil {
		e.PlatformsUsed = datatypes.JSONSlice[string]{}
	}
	for i := range e.Rounds {
		if e.Rounds[i].TopicsFocused == nil {
			e.Rounds[i].TopicsFocused = []string{}
		}
		if e.Rounds[i].Questions == nil {
			e.Rounds[i].Questions = []Question{}
		}
		e.Rounds[i].NumberOfQuestionsAsked = len(e.Rounds[i].Questions)
	}
	e.NumberOfRounds = len(e.Rounds)
}

// Redacted returns a copy safe for public listing: anonymous authors are hidden.
func (e Experience) Redacted() Experience {
	if e.IsAnonymous {
		e.User = nil
		e.UserID = ""
	}
	return e
}
