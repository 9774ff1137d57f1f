package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/genai"
)

// AdvisorService produces the side-by-side comparison of development
// approaches for a student's project constraints. The scoring itself is
// delegated to the provider through a structured (schema-bound) call; this
// service owns the contract: exactly one metric per approach, scores
// clamped to [1,10].
type AdvisorService struct {
	ai *genai.Client
}

// NewAdvisorService creates an AdvisorService backed by the given provider.
func NewAdvisorService(ai *genai.Client) *AdvisorService {
	return &AdvisorService{ai: ai}
}

// Compare returns one ComparisonMetric per ProjectApproach, in display order.
func (s *AdvisorService) Compare(ctx context.Context, input domain.UserProjectInput) ([]domain.ComparisonMetric, error) {
	if input.TimeAvailable == "" || input.SkillLevel == "" || input.ProjectType == "" || input.MainGoal == "" {
		return nil, fmt.Errorf("%w: all project fields are required", domain.ErrInvalidInput)
	}

	prompt := buildComparePrompt(input)

	var metrics []domain.ComparisonMetric
	err := s.ai.GenerateJSON(ctx, []genai.Message{{Role: "user", Text: prompt}}, compareSchema(), &metrics)
	if err != nil {
		return nil, fmt.Errorf("compare approaches: %w", err)
	}

	return normalizeMetrics(metrics)
}

// normalizeMetrics reorders the provider's reply into canonical approach
// order and clamps scores. A missing approach is a contract violation.
func normalizeMetrics(metrics []domain.ComparisonMetric) ([]domain.ComparisonMetric, error) {
	byName := make(map[domain.ProjectApproach]domain.ComparisonMetric, len(metrics))
	for _, m := range metrics {
		byName[m.ApproachName] = m
	}

	out := make([]domain.ComparisonMetric, 0, 4)
	for _, approach := range domain.Approaches() {
		m, ok := byName[approach]
		if !ok {
			return nil, fmt.Errorf("provider reply is missing approach %q", approach)
		}
		m.LearningValue = clampScore(m.LearningValue)
		m.Difficulty = clampScore(m.Difficulty)
		m.Customization = clampScore(m.Customization)
		out = append(out, m)
	}
	return out, nil
}

func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func buildComparePrompt(input domain.UserProjectInput) string {
	var b strings.Builder
	b.WriteString("You are a mentor helping a student pick a software development approach.\n")
	b.WriteString("Compare these four approaches for the project below: ")
	for i, a := range domain.Approaches() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(a))
	}
	b.WriteString(".\n\n")
	fmt.Fprintf(&b, "Time available: %s\n", input.TimeAvailable)
	fmt.Fprintf(&b, "Skill level: %s\n", input.SkillLevel)
	fmt.Fprintf(&b, "Project type: %s\n", input.ProjectType)
	fmt.Fprintf(&b, "Main goal: %s\n\n", input.MainGoal)
	b.WriteString("Return one entry per approach, using the approach names exactly as given.")
	return b.String()
}

func compareSchema() *genai.Schema {
	return &genai.Schema{
		Type: "array",
		Items: &genai.Schema{
			Type: "object",
			Properties: map[string]*genai.Schema{
				"approachName":    {Type: "string", Description: "One of the four approach names, verbatim"},
				"pros":            {Type: "array", Items: &genai.Schema{Type: "string"}},
				"cons":            {Type: "array", Items: &genai.Schema{Type: "string"}},
				"timeEstimate":    {Type: "string"},
				"learningValue":   {Type: "integer", Description: "1-10"},
				"difficulty":      {Type: "integer", Description: "1-10"},
				"customization":   {Type: "integer", Description: "1-10"},
				"risk":            {Type: "string"},
				"bestUseScenario": {Type: "string"},
				"toolExamples":    {Type: "array", Items: &genai.Schema{Type: "string"}},
			},
			Required: []string{
				"approachName", "pros", "cons", "timeEstimate",
				"learningValue", "difficulty", "customization",
				"risk", "bestUseScenario", "toolExamples",
			},
		},
	}
}
