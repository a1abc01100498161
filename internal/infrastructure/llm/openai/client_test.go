package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contextlab/internal/core/domain"
)

func TestCompleteSendsPromptAndAuth(t *testing.T) {
	var capturedAuth string
	var capturedReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		capturedAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&capturedReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"sentiment\":\"negative\"} \n"}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "sk-test", "gpt-4o-mini")
	reply, err := client.Complete(context.Background(), "Analyze this review.")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != `{"sentiment":"negative"}` {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
	if capturedAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", capturedAuth)
	}
	if len(capturedReq.Messages) != 1 || capturedReq.Messages[0].Content != "Analyze this review." {
		t.Fatalf("unexpected messages: %+v", capturedReq.Messages)
	}
	if capturedReq.Temperature != 0.3 {
		t.Fatalf("unexpected temperature: %f", capturedReq.Temperature)
	}
}

func TestCompleteIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "", "gpt-4o-mini")
	_, err := client.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("503 should be wrapped as temporary, got %v", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "", "gpt-4o-mini")
	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestClassifyProviderError(t *testing.T) {
	retryable := classifyProviderError(&HTTPStatusError{StatusCode: http.StatusTooManyRequests})
	if !retryable.Retryable || !retryable.RecordFailure {
		t.Fatalf("429 should be retryable: %+v", retryable)
	}

	permanent := classifyProviderError(&HTTPStatusError{StatusCode: http.StatusUnauthorized})
	if permanent.Retryable || permanent.RecordFailure {
		t.Fatalf("401 should not retry or trip the breaker: %+v", permanent)
	}

	canceled := classifyProviderError(context.Canceled)
	if canceled.Retryable || canceled.RecordFailure {
		t.Fatalf("cancellation should not count as failure: %+v", canceled)
	}
}
