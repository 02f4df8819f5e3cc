package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/research-agent/internal/agent"
	"github.com/cortexai/research-agent/internal/config"
	"github.com/cortexai/research-agent/internal/hooks"
	"github.com/cortexai/research-agent/internal/llm"
	"github.com/cortexai/research-agent/internal/notes"
	"github.com/cortexai/research-agent/internal/tools"
)

// app holds the wired agent and the resources it owns.
type app struct {
	agent   *agent.Agent
	store   notes.Store
	closers []io.Closer
}

// buildApp wires the LLM clients, note store, tools and agent from cfg.
// Console hooks write to out unless cfg.Quiet is set.
func buildApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required")
	}
	systemPrompt, err := cfg.ResolveSystemPrompt()
	if err != nil {
		return nil, err
	}

	a := &app{}
	client := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL)
	router := &llm.Router{Default: llm.NewAnthropicCompleter(client, cfg.ToolModel, cfg.MaxTokens)}

	if cfg.GoogleAPIKey != "" {
		gem, err := llm.NewGeminiCompleter(ctx, cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		router.Gemini = gem
		a.closers = append(a.closers, gem)
	} else if strings.HasPrefix(strings.ToLower(cfg.ToolModel), "gemini") {
		return nil, fmt.Errorf("tool model %q requires GOOGLE_API_KEY", cfg.ToolModel)
	}

	store, err := notes.Open(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open note store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store)

	var h agent.Hooks
	if !cfg.Quiet {
		console := hooks.NewConsole(out)
		h.AfterTool = []agent.Hook{console.LogToolExecution}
		h.AfterRun = []agent.Hook{console.LogCompletion}
	}

	a.agent = agent.New(client, agent.Options{
		Name:          cfg.AgentName,
		SystemPrompt:  systemPrompt,
		Model:         cfg.Model,
		MaxIterations: cfg.MaxIterations,
		MaxTokens:     cfg.MaxTokens,
		Tools:         tools.ResearchTools(router, cfg.ToolModel, store, cfg.StrictStyles),
		Hooks:         h,
	})

	log.Debug().
		Str("agent", cfg.AgentName).
		Str("model", cfg.Model).
		Str("tool_model", cfg.ToolModel).
		Str("note_store", cfg.NoteStore).
		Msg("agent ready")
	return a, nil
}

// Close releases the resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}
