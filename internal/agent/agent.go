package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog/log"

	"github.com/cortexai/research-agent/internal/tools"
	"github.com/cortexai/research-agent/internal/trace"
)

const (
	DefaultMaxIterations = 5
	DefaultMaxTokens     = 1024

	finalAnswerPrompt = "You have enough information. Please provide your final answer now without calling any more tools."
)

// ToolCall represents a tool invocation request from the LLM
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]interface{}
}

// Hook observes a run through its trace.
type Hook func(tr *trace.Trace)

// Hooks are called after every tool execution and after a run completes.
type Hooks struct {
	AfterTool []Hook
	AfterRun  []Hook
}

// Options configure an Agent.
type Options struct {
	Name          string
	SystemPrompt  string
	Model         string
	MaxIterations int
	MaxTokens     int
	Tools         []tools.Tool
	Hooks         Hooks
}

// Agent runs a multi-turn tool-calling loop against the Anthropic Messages API.
type Agent struct {
	client   *anthropic.Client
	opts     Options
	registry *tools.Registry
	params   []anthropic.ToolUnionUnionParam
}

// Result is the outcome of one run.
type Result struct {
	Response string
	Trace    *trace.Trace
}

func New(client *anthropic.Client, opts Options) *Agent {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Agent{
		client:   client,
		opts:     opts,
		registry: tools.NewRegistry(opts.Tools...),
		params:   toolParams(opts.Tools),
	}
}

func (a *Agent) Name() string  { return a.opts.Name }
func (a *Agent) Model() string { return a.opts.Model }

// Input answers one user turn and returns the final text.
func (a *Agent) Input(ctx context.Context, prompt string) (string, error) {
	res, err := a.Run(ctx, prompt)
	if err != nil {
		return "", err
	}
	return res.Response, nil
}

// Run executes the agent loop: the LLM calls tools until it stops asking for
// them. After MaxIterations tool-requesting calls, one more call asks the
// model for its final answer, so a run that hits the cap makes
// MaxIterations+1 LLM calls. If that last call returns no text the response
// is the "Task incomplete" message.
func (a *Agent) Run(ctx context.Context, prompt string) (*Result, error) {
	tr := trace.New(a.opts.Name, prompt)
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}

	for iter := 0; iter < a.opts.MaxIterations; iter++ {
		resp, err := a.call(ctx, tr, messages)
		if err != nil {
			return nil, err
		}

		text, pending := splitContent(resp)

		log.Debug().
			Str("run_id", tr.ID).
			Int("iter", iter).
			Str("stop_reason", string(resp.StopReason)).
			Int("tool_calls", len(pending)).
			Msg("agent iteration")

		if len(pending) == 0 || resp.StopReason != "tool_use" {
			return a.finish(tr, text), nil
		}

		messages = append(messages, resp.ToParam())
		results := a.executeTools(ctx, tr, pending)

		if iter == a.opts.MaxIterations-1 {
			results = append(results, anthropic.NewTextBlock(finalAnswerPrompt))
			messages = append(messages, anthropic.NewUserMessage(results...))
			break
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}

	log.Debug().Str("run_id", tr.ID).Int("max_iterations", a.opts.MaxIterations).Msg("forcing final answer")
	resp, err := a.call(ctx, tr, messages)
	if err != nil {
		return nil, fmt.Errorf("final answer call failed: %w", err)
	}
	text, _ := splitContent(resp)
	if text == "" {
		text = fmt.Sprintf("Task incomplete: maximum iterations (%d) reached.", a.opts.MaxIterations)
	}
	return a.finish(tr, text), nil
}

func (a *Agent) call(ctx context.Context, tr *trace.Trace, messages []anthropic.MessageParam) (*anthropic.Message, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(a.opts.Model)),
		MaxTokens: anthropic.F(int64(a.opts.MaxTokens)),
		Messages:  anthropic.F(messages),
	}
	if len(a.params) > 0 {
		params.Tools = anthropic.F(a.params)
	}
	if a.opts.SystemPrompt != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(a.opts.SystemPrompt),
		})
	}

	start := time.Now()
	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	tr.Append(trace.Entry{
		Type:         trace.TypeLLMCall,
		Timestamp:    start,
		Timing:       time.Since(start),
		Model:        a.opts.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	})
	return resp, nil
}

func (a *Agent) executeTools(ctx context.Context, tr *trace.Trace, pending []ToolCall) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion
	for _, tc := range pending {
		start := time.Now()
		entry := trace.Entry{
			Type:      trace.TypeToolExecution,
			Timestamp: start,
			ToolName:  tc.Name,
			Args:      tc.Input,
			Status:    trace.StatusSuccess,
		}

		var result string
		var execErr error
		if t, ok := a.registry.Get(tc.Name); ok {
			result, execErr = t.Execute(ctx, tc.Input)
			if execErr != nil {
				entry.Status = trace.StatusError
			}
		} else {
			execErr = fmt.Errorf("unknown tool: %s", tc.Name)
			entry.Status = trace.StatusNotFound
		}
		entry.Timing = time.Since(start)

		if execErr != nil {
			log.Warn().Err(execErr).Str("tool", tc.Name).Msg("tool execution error")
			result = fmt.Sprintf("error: %v", execErr)
			entry.Error = execErr.Error()
		}
		entry.Result = result
		tr.Append(entry)
		a.fire(a.opts.Hooks.AfterTool, tr)

		results = append(results, anthropic.NewToolResultBlock(tc.ID, result, execErr != nil))
	}
	return results
}

func (a *Agent) finish(tr *trace.Trace, text string) *Result {
	a.fire(a.opts.Hooks.AfterRun, tr)
	return &Result{Response: text, Trace: tr}
}

func (a *Agent) fire(hooks []Hook, tr *trace.Trace) {
	for _, h := range hooks {
		h(tr)
	}
}

// splitContent collects the text and tool calls of a response.
func splitContent(resp *anthropic.Message) (string, []ToolCall) {
	var text string
	var pending []ToolCall
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			text += b.Text
		case anthropic.ToolUseBlock:
			var input map[string]interface{}
			if err := json.Unmarshal(b.Input, &input); err != nil {
				log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
				input = map[string]interface{}{}
			}
			pending = append(pending, ToolCall{ID: b.ID, Name: b.Name, Input: input})
		}
	}
	return text, pending
}

func toolParams(ts []tools.Tool) []anthropic.ToolUnionUnionParam {
	params := make([]anthropic.ToolUnionUnionParam, len(ts))
	for i, t := range ts {
		schema := map[string]interface{}{
			"type":       "object",
			"properties": t.InputSchema["properties"],
		}
		if required, ok := t.InputSchema["required"]; ok {
			schema["required"] = required
		}
		params[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Name),
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.F[interface{}](schema),
		}
	}
	return params
}
