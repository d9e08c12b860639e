package synth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/config"
)

func testConfig(baseURL string) config.SynthesizerConfig {
	return config.SynthesizerConfig{
		BaseURL:        baseURL,
		APIKey:         "test",
		Model:          "llama3",
		TimeoutSeconds: 2,
		Temperature:    0.2,
	}
}

func completionResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "llama3",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			},
		},
	}
}

func TestSynthesize_ReturnsModelAnswer(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("The hostel has Wi-Fi.\n\n\nRooms are shared."))
	}))
	defer srv.Close()

	s := NewOpenAISynthesizer(testConfig(srv.URL), zap.NewNop())
	got := s.Synthesize(context.Background(), "[Curated: Hostel]\nWi-Fi available.", "hostel internet")

	if got != "The hostel has Wi-Fi.\nRooms are shared." {
		t.Errorf("got %q", got)
	}
	if gotBody.Model != "llama3" {
		t.Errorf("model=%s", gotBody.Model)
	}
	if len(gotBody.Messages) != 1 {
		t.Fatalf("messages=%d", len(gotBody.Messages))
	}
	prompt := gotBody.Messages[0].Content
	if !strings.Contains(prompt, "Wi-Fi available.") || !strings.Contains(prompt, "hostel internet") {
		t.Error("prompt must embed both context and question")
	}
	if !strings.Contains(prompt, "Use ONLY the information provided in the Context.") {
		t.Error("grounding instructions missing from prompt")
	}
}

func TestSynthesize_UnreachableServerFallsBack(t *testing.T) {
	// Port is taken from a server that is already closed.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewOpenAISynthesizer(testConfig(url), zap.NewNop())
	if got := s.Synthesize(context.Background(), "ctx", "q"); got != FallbackText {
		t.Errorf("got %q", got)
	}
}

func TestSynthesize_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewOpenAISynthesizer(testConfig(srv.URL), zap.NewNop())
	if got := s.Synthesize(context.Background(), "ctx", "q"); got != FallbackText {
		t.Errorf("got %q", got)
	}
}

func TestSynthesize_EmptyCompletionFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("   \n  "))
	}))
	defer srv.Close()

	s := NewOpenAISynthesizer(testConfig(srv.URL), zap.NewNop())
	if got := s.Synthesize(context.Background(), "ctx", "q"); got != FallbackText {
		t.Errorf("got %q", got)
	}
}
