package models

// AgentRequest for POST /api/v1/agent
type AgentRequest struct {
	Prompt  string `json:"prompt"`
	Timeout int    `json:"timeout"` // seconds
}

func (r *AgentRequest) SetDefaults(defaultTimeout int) {
	if r.Timeout == 0 {
		r.Timeout = defaultTimeout
	}
	if r.Timeout < 10 {
		r.Timeout = 10
	}
	if r.Timeout > 600 {
		r.Timeout = 600
	}
}

// NoteRequest for PUT /api/v1/notes/{topic}
type NoteRequest struct {
	Content string `json:"content"`
}
