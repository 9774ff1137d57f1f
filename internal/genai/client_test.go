package genai_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pathfinder-ai/pathfinder/internal/genai"
)

func textResponse(text string) string {
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestClient_Generate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if key := r.Header.Get("x-goog-api-key"); key != "test-key" {
			t.Errorf("expected api key header, got %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(textResponse("hello back")))
	}))
	defer srv.Close()

	client := genai.New(srv.URL, "test-key", "test-model")
	reply, err := client.Generate(context.Background(), []genai.Message{
		{Role: "user", Text: "hello"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "hello back" {
		t.Fatalf("expected %q, got %q", "hello back", reply)
	}
	if !strings.HasSuffix(gotPath, "/v1beta/models/test-model:generateContent") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	contents, ok := gotBody["contents"].([]any)
	if !ok || len(contents) != 1 {
		t.Fatalf("unexpected contents: %v", gotBody["contents"])
	}
}

func TestClient_GenerateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		cfg, ok := req["generationConfig"].(map[string]any)
		if !ok {
			t.Error("expected generationConfig in request")
		} else {
			if cfg["responseMimeType"] != "application/json" {
				t.Errorf("unexpected responseMimeType %v", cfg["responseMimeType"])
			}
			if cfg["responseSchema"] == nil {
				t.Error("expected responseSchema in request")
			}
		}
		w.Write([]byte(textResponse(`{"answer": 42}`)))
	}))
	defer srv.Close()

	client := genai.New(srv.URL, "", "test-model")
	schema := &genai.Schema{
		Type:       "object",
		Properties: map[string]*genai.Schema{"answer": {Type: "integer"}},
	}

	var out struct {
		Answer int `json:"answer"`
	}
	err := client.GenerateJSON(context.Background(), []genai.Message{{Role: "user", Text: "q"}}, schema, &out)
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if out.Answer != 42 {
		t.Fatalf("expected 42, got %d", out.Answer)
	}
}

func TestClient_GenerateJSON_MalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("this is not json")))
	}))
	defer srv.Close()

	client := genai.New(srv.URL, "", "test-model")
	var out map[string]any
	err := client.GenerateJSON(context.Background(), []genai.Message{{Role: "user", Text: "q"}}, &genai.Schema{Type: "object"}, &out)
	if err == nil {
		t.Fatal("expected error for malformed structured reply")
	}
}

func TestClient_GenerateImage(t *testing.T) {
	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		cfg, _ := req["generationConfig"].(map[string]any)
		if cfg == nil || cfg["imageSize"] != "2K" {
			t.Errorf("expected imageSize 2K, got %v", cfg)
		}
		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{
							map[string]any{"inlineData": map[string]any{
								"mimeType": "image/png",
								"data":     base64.StdEncoding.EncodeToString(imageBytes),
							}},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := genai.New(srv.URL, "", "test-model")
	data, mime, err := client.GenerateImage(context.Background(), "a lighthouse", "2K", nil, "")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("expected image/png, got %q", mime)
	}
	if string(data) != string(imageBytes) {
		t.Fatalf("image bytes do not round-trip")
	}
}

func TestClient_GenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := genai.New(srv.URL, "", "test-model")
	if _, err := client.Generate(context.Background(), []genai.Message{{Role: "user", Text: "q"}}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestClient_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	client := genai.New(srv.URL, "", "test-model")
	if !client.Healthy(context.Background()) {
		t.Fatal("expected healthy")
	}

	srv.Close()
	if client.Healthy(context.Background()) {
		t.Fatal("expected unhealthy after server shutdown")
	}
}
