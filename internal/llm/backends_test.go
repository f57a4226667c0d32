package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// These tests point each SDK at an httptest server that speaks just enough of
// the provider's wire format, so the request mapping is checked without network I/O.

func testRequest() Request {
	return Request{
		Model:       "test-model",
		Temperature: 0.5,
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hello"},
		},
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Quote: Test"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL+"/v1")
	text, err := client.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if text != "Quote: Test" {
		t.Errorf("expected %q, got %q", "Quote: Test", text)
	}
	if got.Model != "test-model" || got.Temperature != 0.5 {
		t.Errorf("unexpected model/temperature: %s %v", got.Model, got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hello" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIClient("sk-test", srv.URL+"/v1").Complete(context.Background(), testRequest())
	if err != ErrEmptyCompletion {
		t.Errorf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestAnthropicClient_Complete(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		System      []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"test-model",` +
			`"content":[{"type":"text","text":"Quote: Test"}],"stop_reason":"end_turn",` +
			`"usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient("a-test", srv.URL, 256)
	text, err := client.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if text != "Quote: Test" {
		t.Errorf("expected %q, got %q", "Quote: Test", text)
	}
	if len(got.System) != 1 || got.System[0].Text != "be brief" {
		t.Errorf("expected system prompt in system field, got %+v", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("expected one user message, got %+v", got.Messages)
	}
	if got.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %v", got.Temperature)
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Quote: "},{"text":"Test"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), "g-test", srv.URL)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	text, err := client.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "Quote: Test" {
		t.Errorf("expected parts to be joined, got %q", text)
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Errorf("expected systemInstruction in request, got keys %v", body)
	}
}
