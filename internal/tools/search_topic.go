package tools

import (
	"context"
	"fmt"

	"github.com/cortexai/research-agent/internal/llm"
)

// SearchTopicPrompt builds the overview prompt sent for a query.
func SearchTopicPrompt(query string) string {
	return fmt.Sprintf("Provide a brief, factual summary about: %s. "+
		"Include 3-4 key points with recent developments.", query)
}

// SearchTopicTool answers a search query with a model-written overview. There
// is no search backend and no caching: every call reaches the model.
func SearchTopicTool(c llm.Completer, model string) Tool {
	return Tool{
		Name:        "search_topic",
		Description: "Search for information on a topic. Returns a factual summary with 3-4 key points.",
		Kind:        KindText,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": stringProp("What to search for"),
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			query, err := requiredString(input, "query")
			if err != nil {
				return "", err
			}
			return c.Complete(ctx, SearchTopicPrompt(query), model)
		},
	}
}
