package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// AgentResponse is returned by POST /api/v1/agent
type AgentResponse struct {
	Status       string   `json:"status"`
	RunID        string   `json:"run_id"`
	Prompt       string   `json:"prompt"`
	Response     string   `json:"response"`
	Model        string   `json:"model"`
	ToolsUsed    []string `json:"tools_used"`
	LLMCalls     int      `json:"llm_calls"`
	InputTokens  int64    `json:"input_tokens"`
	OutputTokens int64    `json:"output_tokens"`
	DurationMs   int64    `json:"duration_ms"`
}

// NoteResponse is returned by the /api/v1/notes/{topic} routes
type NoteResponse struct {
	Status  string `json:"status"`
	Topic   string `json:"topic"`
	Key     string `json:"key"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}
