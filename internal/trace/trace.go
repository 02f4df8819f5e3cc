// Package trace records the ordered events of one agent run.
package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryType tags the variant held by an Entry.
type EntryType string

const (
	TypeUserInput     EntryType = "user_input"
	TypeLLMCall       EntryType = "llm_call"
	TypeToolExecution EntryType = "tool_execution"
)

// Status of a tool execution.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusNotFound Status = "not_found"
)

// Entry is one trace record. Which fields are set depends on Type:
// tool executions fill ToolName/Args/Result/Status, LLM calls fill
// Model/InputTokens/OutputTokens, user input fills Content.
type Entry struct {
	Type      EntryType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Timing    time.Duration  `json:"timing"`
	Content   string         `json:"content,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
	Result    string         `json:"result,omitempty"`
	Status    Status         `json:"status,omitempty"`
	Error     string         `json:"error,omitempty"`

	Model        string `json:"model,omitempty"`
	InputTokens  int64  `json:"input_tokens,omitempty"`
	OutputTokens int64  `json:"output_tokens,omitempty"`
}

// Trace is safe for concurrent use.
type Trace struct {
	ID      string
	Agent   string
	Input   string
	Started time.Time

	mu      sync.RWMutex
	entries []Entry
}

func New(agent, input string) *Trace {
	t := &Trace{
		ID:      uuid.NewString(),
		Agent:   agent,
		Input:   input,
		Started: time.Now(),
	}
	t.Append(Entry{Type: TypeUserInput, Content: input})
	return t
}

// Append adds e, stamping the timestamp when unset.
func (t *Trace) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.mu.Unlock()
}

// Last returns the most recent entry.
func (t *Trace) Last() (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Entries returns a copy of all entries in order.
func (t *Trace) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Counts tallies entries by type.
func (t *Trace) Counts() map[EntryType]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	counts := make(map[EntryType]int)
	for _, e := range t.entries {
		counts[e.Type]++
	}
	return counts
}

// ToolsUsed lists tool names in execution order.
func (t *Trace) ToolsUsed() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var names []string
	for _, e := range t.entries {
		if e.Type == TypeToolExecution {
			names = append(names, e.ToolName)
		}
	}
	return names
}

// Usage sums token usage over all LLM calls.
func (t *Trace) Usage() (input, output int64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries {
		if e.Type == TypeLLMCall {
			input += e.InputTokens
			output += e.OutputTokens
		}
	}
	return input, output
}
