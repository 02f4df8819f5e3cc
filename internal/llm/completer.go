// Package llm holds the single-shot text generation primitive used by the
// research tools. One call sends one prompt to a hosted model and returns the
// generated text verbatim.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Completer sends a prompt to the model identified by model and returns the
// generated text. Implementations do not retry; deadlines come from ctx.
type Completer interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt, model string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt, model string) (string, error) {
	return f(ctx, prompt, model)
}

// Router dispatches by model identifier: names starting with "gemini" go to
// Gemini, everything else to Default. Model strings are passed through unchanged.
type Router struct {
	Default Completer
	Gemini  Completer
}

func (r *Router) Complete(ctx context.Context, prompt, model string) (string, error) {
	if strings.HasPrefix(strings.ToLower(model), "gemini") {
		if r.Gemini == nil {
			return "", fmt.Errorf("model %q requires a Gemini API key", model)
		}
		return r.Gemini.Complete(ctx, prompt, model)
	}
	if r.Default == nil {
		return "", fmt.Errorf("no completer configured for model %q", model)
	}
	return r.Default.Complete(ctx, prompt, model)
}
