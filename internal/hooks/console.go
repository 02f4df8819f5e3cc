// Package hooks provides console observers for agent runs.
package hooks

import (
	"fmt"
	"io"

	"github.com/cortexai/research-agent/internal/trace"
)

// Console prints one line per tool execution and per completed run.
type Console struct {
	Out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

// LogToolExecution prints the status, name and elapsed time of the most
// recent tool execution. Other entry types are ignored.
func (c *Console) LogToolExecution(tr *trace.Trace) {
	last, ok := tr.Last()
	if !ok || last.Type != trace.TypeToolExecution {
		return
	}
	icon := "✓"
	if last.Status != trace.StatusSuccess {
		icon = "✗"
	}
	fmt.Fprintf(c.Out, "%s %s (%dms)\n", icon, last.ToolName, last.Timing.Milliseconds())
}

// LogCompletion prints how many tool executions and LLM calls the run made.
func (c *Console) LogCompletion(tr *trace.Trace) {
	counts := tr.Counts()
	fmt.Fprintf(c.Out, "✓ Complete: %d tool calls, %d LLM calls\n",
		counts[trace.TypeToolExecution], counts[trace.TypeLLMCall])
}
