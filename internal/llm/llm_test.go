package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cortexai/research-agent/internal/llm"
	"github.com/cortexai/research-agent/internal/llm/llmtest"
)

func TestAnthropicCompleterReturnsTextVerbatim(t *testing.T) {
	srv := llmtest.NewServer(t, llmtest.TextMessage("Go is a compiled language."))
	c := llm.NewAnthropicCompleter(srv.Client(), "claude-default", 256)

	got, err := c.Complete(context.Background(), "tell me about Go", "claude-custom")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Go is a compiled language." {
		t.Errorf("got %q", got)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0]["model"] != "claude-custom" {
		t.Errorf("model not passed through: %v", reqs[0]["model"])
	}
	if _, ok := reqs[0]["tools"]; ok {
		t.Error("completion request should not advertise tools")
	}
}

func TestAnthropicCompleterDefaultModel(t *testing.T) {
	srv := llmtest.NewServer(t, llmtest.TextMessage("ok"))
	c := llm.NewAnthropicCompleter(srv.Client(), "claude-default", 0)

	if _, err := c.Complete(context.Background(), "hi", ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := srv.Requests()[0]["model"]; got != "claude-default" {
		t.Errorf("model = %v, want claude-default", got)
	}
}

func TestAnthropicCompleterError(t *testing.T) {
	srv := llmtest.NewServer(t) // empty script answers 400
	c := llm.NewAnthropicCompleter(srv.Client(), "m", 0)

	if _, err := c.Complete(context.Background(), "hi", ""); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

// ─── Router ───────────────────────────────────────────────────────────────────

func TestRouterDispatchByModel(t *testing.T) {
	var hit string
	mk := func(name string) llm.Completer {
		return llm.CompleterFunc(func(ctx context.Context, prompt, model string) (string, error) {
			hit = name
			return name + ":" + model, nil
		})
	}
	r := &llm.Router{Default: mk("anthropic"), Gemini: mk("gemini")}

	tests := []struct {
		model string
		want  string
	}{
		{"claude-3-5-haiku-latest", "anthropic"},
		{"gemini-1.5-flash", "gemini"},
		{"Gemini-Pro", "gemini"},
		{"co/gpt-4o-mini", "anthropic"},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			out, err := r.Complete(context.Background(), "p", tt.model)
			if err != nil {
				t.Fatal(err)
			}
			if hit != tt.want {
				t.Errorf("routed to %s, want %s", hit, tt.want)
			}
			if !strings.HasSuffix(out, tt.model) {
				t.Errorf("model string altered: %q", out)
			}
		})
	}
}

func TestRouterMissingGemini(t *testing.T) {
	r := &llm.Router{Default: llm.CompleterFunc(func(ctx context.Context, p, m string) (string, error) {
		return "", errors.New("should not be called")
	})}
	if _, err := r.Complete(context.Background(), "p", "gemini-1.5-flash"); err == nil ||
		!strings.Contains(err.Error(), "Gemini") {
		t.Errorf("expected Gemini configuration error, got %v", err)
	}
}
