package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs security-relevant events with hashed identifiers
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogAgentRun records one agent request. Prompts and API keys are hashed.
func (a *AuditLogger) LogAgentRun(
	runID, prompt, apiKey string,
	toolsUsed []string,
	success bool,
	durationMs int64,
	errMsg string,
) {
	if !a.enabled {
		return
	}
	evt := log.Info().
		Str("event", "agent_audit").
		Str("run_id", runID).
		Str("prompt_hash", HashID(prompt)).
		Str("api_key_hash", HashID(apiKey)).
		Strs("tools_used", toolsUsed).
		Bool("success", success).
		Int64("duration_ms", durationMs)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("agent audit")
}

// LogNoteAccess records a note read or write made through the API.
func (a *AuditLogger) LogNoteAccess(action, key, apiKey string, size int, success bool) {
	if !a.enabled {
		return
	}
	log.Info().
		Str("event", "note_audit").
		Str("action", action).
		Str("key", key).
		Str("api_key_hash", HashID(apiKey)).
		Int("size", size).
		Bool("success", success).
		Msg("note audit")
}

// HashID returns the first 16 hex chars of the SHA-256 of s.
func HashID(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)[:16]
}
