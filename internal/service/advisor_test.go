package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/genai"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// newFakeProvider starts an httptest server that answers every generate call
// with the given model text and returns a client pointed at it.
func newFakeProvider(t *testing.T, modelText string) *genai.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"role":  "model",
						"parts": []any{map[string]any{"text": modelText}},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return genai.New(srv.URL, "", "test-model")
}

func fakeMetricsJSON(t *testing.T, approaches []domain.ProjectApproach, score int) string {
	t.Helper()
	metrics := make([]domain.ComparisonMetric, 0, len(approaches))
	for _, a := range approaches {
		metrics = append(metrics, domain.ComparisonMetric{
			ApproachName:    a,
			Pros:            []string{"a pro"},
			Cons:            []string{"a con"},
			TimeEstimate:    "2 weeks",
			LearningValue:   score,
			Difficulty:      score,
			Customization:   score,
			Risk:            "low",
			BestUseScenario: "learning",
			ToolExamples:    []string{"a tool"},
		})
	}
	data, err := json.Marshal(metrics)
	if err != nil {
		t.Fatalf("marshal metrics: %v", err)
	}
	return string(data)
}

func testProjectInput() domain.UserProjectInput {
	return domain.UserProjectInput{
		TimeAvailable: "2 weeks",
		SkillLevel:    "beginner",
		ProjectType:   "web app",
		MainGoal:      "learn by building",
	}
}

func TestAdvisor_Compare(t *testing.T) {
	// Reply in reversed order to prove the service reorders canonically.
	approaches := domain.Approaches()
	reversed := make([]domain.ProjectApproach, len(approaches))
	for i, a := range approaches {
		reversed[len(approaches)-1-i] = a
	}

	ai := newFakeProvider(t, fakeMetricsJSON(t, reversed, 7))
	advisor := service.NewAdvisorService(ai)

	metrics, err := advisor.Compare(context.Background(), testProjectInput())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(metrics) != len(approaches) {
		t.Fatalf("expected %d metrics, got %d", len(approaches), len(metrics))
	}
	for i, a := range approaches {
		if metrics[i].ApproachName != a {
			t.Fatalf("index %d: expected %q, got %q", i, a, metrics[i].ApproachName)
		}
	}
}

func TestAdvisor_Compare_ClampsScores(t *testing.T) {
	ai := newFakeProvider(t, fakeMetricsJSON(t, domain.Approaches(), 15))
	advisor := service.NewAdvisorService(ai)

	metrics, err := advisor.Compare(context.Background(), testProjectInput())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	for _, m := range metrics {
		if m.LearningValue != 10 || m.Difficulty != 10 || m.Customization != 10 {
			t.Fatalf("expected scores clamped to 10, got %+v", m)
		}
	}
}

func TestAdvisor_Compare_MissingApproach(t *testing.T) {
	partial := domain.Approaches()[:2]
	ai := newFakeProvider(t, fakeMetricsJSON(t, partial, 5))
	advisor := service.NewAdvisorService(ai)

	if _, err := advisor.Compare(context.Background(), testProjectInput()); err == nil {
		t.Fatal("expected error when an approach is missing from the reply")
	}
}

func TestAdvisor_Compare_RequiredFields(t *testing.T) {
	ai := newFakeProvider(t, "[]")
	advisor := service.NewAdvisorService(ai)

	input := testProjectInput()
	input.MainGoal = ""
	_, err := advisor.Compare(context.Background(), input)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
