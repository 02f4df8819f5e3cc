package security

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// UsageTracker logs per-run token usage and flags runs over a token budget.
type UsageTracker struct {
	maxTokens int64
}

// NewUsageTracker returns a tracker; maxTokens <= 0 disables the budget.
func NewUsageTracker(maxTokens int64) *UsageTracker {
	return &UsageTracker{maxTokens: maxTokens}
}

// CheckLimits reports whether the total token count is within budget.
func (ut *UsageTracker) CheckLimits(inputTokens, outputTokens int64) (bool, string) {
	total := inputTokens + outputTokens
	if ut.maxTokens <= 0 || total <= ut.maxTokens {
		return true, ""
	}
	return false, fmt.Sprintf("token budget exceeded. Used: %d, Limit: %d", total, ut.maxTokens)
}

// LogRunUsage logs token usage for one run with a hashed API key.
func (ut *UsageTracker) LogRunUsage(runID, model string, inputTokens, outputTokens int64, apiKey string, durationMs int64) {
	evt := log.Info()
	if ok, msg := ut.CheckLimits(inputTokens, outputTokens); !ok {
		evt = log.Warn().Str("budget", msg)
	}
	evt.
		Str("event", "token_usage").
		Str("run_id", runID).
		Str("model", model).
		Str("api_key_hash", HashID(apiKey)).
		Int64("input_tokens", inputTokens).
		Int64("output_tokens", outputTokens).
		Int64("duration_ms", durationMs).
		Msgf("Token usage: %d in / %d out | Duration: %dms", inputTokens, outputTokens, durationMs)
}
