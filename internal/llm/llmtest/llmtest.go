// Package llmtest provides a scripted fake of the Anthropic Messages endpoint
// for tests that exercise the real SDK client.
package llmtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/cortexai/research-agent/internal/llm"
)

// ToolUse is one tool_use block in a scripted reply.
type ToolUse struct {
	ID    string
	Name  string
	Input map[string]any
}

// Server replays scripted Messages API replies in order and records the
// decoded request bodies it received.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  []string
	requests []map[string]any
}

// NewServer starts a fake that answers each request with the next reply.
// Once the script is exhausted every further request gets a 400.
func NewServer(t *testing.T, replies ...string) *Server {
	t.Helper()
	s := &Server{replies: replies}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Client returns an SDK client pointed at the fake.
func (s *Server) Client() *anthropic.Client {
	return llm.NewAnthropicClient("test-key", s.URL+"/")
}

// Requests returns the request bodies received so far.
func (s *Server) Requests() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req map[string]any
	_ = json.Unmarshal(body, &req)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	var reply string
	if len(s.replies) > 0 {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if reply == "" {
		// 400 is not retried by the SDK
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"script exhausted"}}`)
		return
	}
	_, _ = io.WriteString(w, reply)
}

// TextMessage is a final assistant reply.
func TextMessage(text string) string {
	return message([]map[string]any{{"type": "text", "text": text}}, "end_turn")
}

// ToolUseMessage is an assistant reply that requests tool calls.
func ToolUseMessage(text string, calls ...ToolUse) string {
	var content []map[string]any
	if text != "" {
		content = append(content, map[string]any{"type": "text", "text": text})
	}
	for _, c := range calls {
		input := c.Input
		if input == nil {
			input = map[string]any{}
		}
		content = append(content, map[string]any{
			"type":  "tool_use",
			"id":    c.ID,
			"name":  c.Name,
			"input": input,
		})
	}
	return message(content, "tool_use")
}

func message(content []map[string]any, stopReason string) string {
	b, err := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-test",
		"content":       content,
		"stop_reason":   stopReason,
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 12, "output_tokens": 7},
	})
	if err != nil {
		panic(fmt.Sprintf("llmtest: marshal: %v", err))
	}
	return string(b)
}
