package evidence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/factify/factify/internal/model"
)

func newGenerativeAdapter(t *testing.T, content string) *GenerativeAdapter {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected Authorization Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index:        0,
					Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	return NewGenerativeAdapter(model.LLMConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
	}, model.AdapterConfig{OutboundRPS: 100, OutboundBurst: 10})
}

func TestGenerativeAdapter_ParsesJudgment(t *testing.T) {
	adapter := newGenerativeAdapter(t, `{
		"label": "refutes",
		"confidence": 0.9,
		"explanation": "Satellite imagery and physics contradict this claim.",
		"sources": [{"title": "NASA", "url": "https://www.nasa.gov/earth"}]
	}`)

	found, err := adapter.Query(context.Background(), model.Claim{Text: "The Earth is flat"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if found.Label != model.LabelRefutes {
		t.Errorf("expected refutes, got %s", found.Label)
	}
	if found.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", found.Confidence)
	}
	if len(found.Citations) != 1 || found.Citations[0].URL != "https://www.nasa.gov/earth" {
		t.Errorf("unexpected citations: %v", found.Citations)
	}
}

func TestGenerativeAdapter_StripsCodeFence(t *testing.T) {
	adapter := newGenerativeAdapter(t, "```json\n{\"label\": \"supports\", \"confidence\": 0.7, \"explanation\": \"ok\"}\n```")

	found, err := adapter.Query(context.Background(), model.Claim{Text: "water is wet"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if found.Label != model.LabelSupports {
		t.Errorf("expected supports, got %s", found.Label)
	}
}

func TestGenerativeAdapter_UnparseableKeepsRawText(t *testing.T) {
	raw := "I think this claim is probably true but I cannot be sure."
	adapter := newGenerativeAdapter(t, raw)

	found, err := adapter.Query(context.Background(), model.Claim{Text: "some claim"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if found.Label != model.LabelError {
		t.Errorf("expected error label for unparseable response, got %s", found.Label)
	}
	if found.Explanation != raw {
		t.Errorf("expected raw text preserved, got %q", found.Explanation)
	}
	if found.Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", found.Confidence)
	}
}

func TestGenerativeAdapter_ClampsAndSanitizes(t *testing.T) {
	adapter := newGenerativeAdapter(t, `{
		"label": "definitely-true",
		"confidence": 4.2,
		"explanation": "overconfident and mislabelled",
		"sources": [{"title": "not a link", "url": "garbage"}]
	}`)

	found, err := adapter.Query(context.Background(), model.Claim{Text: "a claim"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if found.Label != model.LabelInsufficient {
		t.Errorf("expected unknown label mapped to insufficient, got %s", found.Label)
	}
	if found.Confidence != 1 {
		t.Errorf("expected confidence clamped to 1, got %f", found.Confidence)
	}
	if len(found.Citations) != 0 {
		t.Errorf("expected non-http source dropped, got %v", found.Citations)
	}
}

func TestGenerativeAdapter_TransportErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	adapter := NewGenerativeAdapter(model.LLMConfig{APIKey: "test-key", BaseURL: server.URL},
		model.AdapterConfig{OutboundRPS: 100, OutboundBurst: 10})

	_, err := adapter.Query(context.Background(), model.Claim{Text: "anything"})
	if err == nil {
		t.Fatalf("expected error for upstream failure")
	}
}
