package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/models"
	"github.com/xeipuuv/gojsonschema"
	"gorm.io/datatypes"
)

const reviewSystemPrompt = `You are a Senior Tech Hiring Manager.
Your goal is to provide deep research on a company role.
You must output ONLY a valid JSON object. Do not output any thinking, intro, or markdown code blocks.`

const reviewUserPromptTemplate = `Analyze the role of "%s" at "%s".

Provide a comprehensive JSON response including:
1. Technical Skills & Stack (Current and Past)
2. 3 Specific MCQ/Aptitude topics to study (with resource links).
3. 5 LeetCode-style coding problems frequently asked at this company.
4. Insider tips and profile of hired candidates.

Return a JSON object with this EXACT structure:
{
  "preferredSkills": ["skill1", "skill2"],
  "latestTechStack": ["tech1", "tech2"],
  "pastTechStack": ["tech1"],
  "companyMotto": "Short motto",
  "inTheNews": "One sentence news summary",
  "mcqResources": [ {"topic": "Topic Name", "link": "https://example.com", "description": "Short desc"} ],
  "codingQuestions": [ {"problemName": "Two Sum", "link": "https://leetcode.com/...", "frequency": "High"} ],
  "mostProudProjects": ["Project 1"],
  "tipsFromSeniors": ["Tip 1", "Tip 2"],
  "hiredProfiles": ["Profile 1"]
}`

// reviewSchemaJSON describes the shape of a generated brief. Every field is
// optional and may be null; unknown fields are ignored.
const reviewSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "text": {"type": ["string", "null"]},
    "stringList": {"type": ["array", "null"], "items": {"$ref": "#/definitions/text"}},
    "objectList": {"type": ["array", "null"], "items": {"type": ["object", "null"], "additionalProperties": {"$ref": "#/definitions/text"}}}
  },
  "properties": {
    "preferredSkills": {"$ref": "#/definitions/stringList"},
    "latestTechStack": {"$ref": "#/definitions/stringList"},
    "pastTechStack": {"$ref": "#/definitions/stringList"},
    "companyMotto": {"$ref": "#/definitions/text"},
    "inTheNews": {"$ref": "#/definitions/text"},
    "mcqResources": {"$ref": "#/definitions/objectList"},
    "codingQuestions": {"$ref": "#/definitions/objectList"},
    "mostProudProjects": {"$ref": "#/definitions/stringList"},
    "tipsFromSeniors": {"$ref": "#/definitions/stringList"},
    "hiredProfiles": {"$ref": "#/definitions/stringList"}
  }
}`

var reviewSchema = mustCompileSchema(reviewSchemaJSON)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid review schema: %v", err))
	}
	return s
}

// ReviewGenerator turns a (company, role) pair into a validated ReviewContent
// with one completion call. It does not touch storage.
type ReviewGenerator struct {
	client CompletionClient
}

func NewReviewGenerator(client CompletionClient) *ReviewGenerator {
	return &ReviewGenerator{client: client}
}

// Generate expects trimmed, non-empty input in its original case.
func (g *ReviewGenerator) Generate(ctx context.Context, companyName, role string) (*models.ReviewContent, error) {
	messages := []ChatMessage{
		{Role: RoleSystem, Content: reviewSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(reviewUserPromptTemplate, role, companyName)},
	}

	slog.Info("Requesting AI review", "provider", g.client.Name(), "company", companyName, "role", role)
	text, err := g.client.Complete(ctx, messages)
	if err != nil {
		return nil, &UpstreamError{Provider: g.client.Name(), Err: err}
	}

	content, err := parseReviewContent(text)
	if err != nil {
		return nil, err
	}
	slog.Info("AI review received", "provider", g.client.Name(), "company", companyName)
	return content, nil
}

type rawReview struct {
	PreferredSkills   []string                `json:"preferredSkills"`
	LatestTechStack   []string                `json:"latestTechStack"`
	PastTechStack     []string                `json:"pastTechStack"`
	CompanyMotto      string                  `json:"companyMotto"`
	InTheNews         string                  `json:"inTheNews"`
	MCQResources      []models.MCQResource    `json:"mcqResources"`
	CodingQuestions   []models.CodingQuestion `json:"codingQuestions"`
	MostProudProjects []string                `json:"mostProudProjects"`
	TipsFromSeniors   []string                `json:"tipsFromSeniors"`
	HiredProfiles     []string                `json:"hiredProfiles"`
}

// parseReviewContent validates the model output and normalizes it: strings
// are trimmed, blank list entries dropped, missing lists become empty.
func parseReviewContent(text string) (*models.ReviewContent, error) {
	cleaned := cleanJSONBlock(text)
	if cleaned == "" {
		return nil, &MalformedUpstreamError{Raw: text, Reason: "empty response"}
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, &MalformedUpstreamError{Raw: text, Reason: "response is not valid JSON"}
	}

	result, err := reviewSchema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, &MalformedUpstreamError{Raw: text, Reason: err.Error()}
	}
	if !result.Valid() {
		var details []string
		for _, e := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return nil, &MalformedUpstreamError{Raw: text, Reason: strings.Join(details, "; ")}
	}

	var raw rawReview
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &MalformedUpstreamError{Raw: text, Reason: err.Error()}
	}

	return &models.ReviewContent{
		PreferredSkills:   cleanStrings(raw.PreferredSkills),
		LatestTechStack:   cleanStrings(raw.LatestTechStack),
		PastTechStack:     cleanStrings(raw.PastTechStack),
		CompanyMotto:      strings.TrimSpace(raw.CompanyMotto),
		InTheNews:         strings.TrimSpace(raw.InTheNews),
		MCQResources:      cleanMCQResources(raw.MCQResources),
		CodingQuestions:   cleanCodingQuestions(raw.CodingQuestions),
		MostProudProjects: cleanStrings(raw.MostProudProjects),
		TipsFromSeniors:   cleanStrings(raw.TipsFromSeniors),
		HiredProfiles:     cleanStrings(raw.HiredProfiles),
	}, nil
}

// cleanJSONBlock strips a markdown fence, wherever it starts, and any prose
// around the outermost JSON object.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "```"); start >= 0 {
		body := text[start+3:]
		if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
			body = body[4:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		text = strings.TrimSpace(body)
	}
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			text = text[start : end+1]
		}
	}
	return text
}

func cleanStrings(in []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cleanMCQResources(in []models.MCQResource) datatypes.JSONSlice[models.MCQResource] {
	out := datatypes.JSONSlice[models.MCQResource]{}
	for _, r := range in {
		r.Topic = strings.TrimSpace(r.Topic)
		r.Link = strings.TrimSpace(r.Link)
		r.Description = strings.TrimSpace(r.Description)
		if r.Topic == "" && r.Link == "" && r.Description == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func cleanCodingQuestions(in []models.CodingQuestion) datatypes.JSONSlice[models.CodingQuestion] {
	out := datatypes.JSONSlice[models.CodingQuestion]{}
	for _, q := range in {
		q.ProblemName = strings.TrimSpace(q.ProblemName)
		q.Link = strings.TrimSpace(q.Link)
		q.Frequency = strings.TrimSpace(q.Frequency)
		if q.ProblemName == "" && q.Link == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}
