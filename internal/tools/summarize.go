package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/cortexai/research-agent/internal/llm"
)

type Style string

const (
	StyleBrief    Style = "brief"
	StyleDetailed Style = "detailed"
	StyleBullets  Style = "bullets"
)

var ErrUnknownStyle = errors.New("unknown summary style")

var stylePrompts = map[Style]string{
	StyleBrief:    "Summarize in 2-3 sentences",
	StyleDetailed: "Provide a comprehensive summary with context",
	StyleBullets:  "Summarize as 5 bullet points",
}

// ParseStyle maps s to a known style, or returns ErrUnknownStyle.
func ParseStyle(s string) (Style, error) {
	st := Style(s)
	if _, ok := stylePrompts[st]; !ok {
		return "", fmt.Errorf("%w: %q (want brief, detailed or bullets)", ErrUnknownStyle, s)
	}
	return st, nil
}

// SummarizePrompt composes the instruction for style with text. Unknown styles
// use the brief instruction.
func SummarizePrompt(text string, style Style) string {
	instruction, ok := stylePrompts[style]
	if !ok {
		instruction = stylePrompts[StyleBrief]
	}
	return fmt.Sprintf("%s:\n\n%s", instruction, text)
}

// SummarizeTool summarizes text in a style. style defaults to brief; an
// unrecognized style falls back to brief unless strict is set, in which case
// the call fails with ErrUnknownStyle.
func SummarizeTool(c llm.Completer, model string, strict bool) Tool {
	return Tool{
		Name:        "summarize",
		Description: "Summarize text in a specific style: 'brief', 'detailed', or 'bullets'.",
		Kind:        KindText,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": stringProp("Content to summarize"),
				"style": map[string]interface{}{
					"type":        "string",
					"description": "'brief', 'detailed', or 'bullets' (default: brief)",
					"enum":        []string{string(StyleBrief), string(StyleDetailed), string(StyleBullets)},
				},
			},
			"required": []string{"text"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			text, err := requiredString(input, "text")
			if err != nil {
				return "", err
			}
			style := StyleBrief
			if s, ok := input["style"].(string); ok && s != "" {
				parsed, err := ParseStyle(s)
				switch {
				case err == nil:
					style = parsed
				case strict:
					return "", err
				}
			}
			return c.Complete(ctx, SummarizePrompt(text, style), model)
		},
	}
}
