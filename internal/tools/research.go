package tools

import (
	"github.com/cortexai/research-agent/internal/llm"
	"github.com/cortexai/research-agent/internal/notes"
)

// ResearchTools returns the research assistant's tool set in its fixed order.
func ResearchTools(c llm.Completer, model string, store notes.Store, strictStyles bool) []Tool {
	return []Tool{
		SearchTopicTool(c, model),
		SummarizeTool(c, model, strictStyles),
		SaveNoteTool(store),
		GetNotesTool(store),
	}
}
