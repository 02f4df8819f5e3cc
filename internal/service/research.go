package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cortexai/research-agent/internal/agent"
	"github.com/cortexai/research-agent/internal/models"
	"github.com/cortexai/research-agent/internal/notes"
	"github.com/cortexai/research-agent/internal/security"
	"github.com/cortexai/research-agent/internal/tools"
	"github.com/cortexai/research-agent/internal/trace"
	"github.com/rs/zerolog/log"
)

// ErrRejected wraps every validation failure so handlers can answer 400.
var ErrRejected = errors.New("request rejected")

// ErrNoteNotFound is returned by GetNote when the key holds no note.
var ErrNoteNotFound = errors.New("note not found")

// Runner is the slice of *agent.Agent the service needs.
type Runner interface {
	Run(ctx context.Context, prompt string) (*agent.Result, error)
	Model() string
}

// ResearchService runs agent prompts and note operations behind the
// security checks shared by every API caller.
type ResearchService struct {
	agent       Runner
	store       notes.Store
	registry    *tools.Registry
	piiDetector *security.PIIDetector // nil when PII detection is disabled
	promptVal   *security.PromptValidator
	auditLogger *security.AuditLogger
	usage       *security.UsageTracker
}

func NewResearchService(
	runner Runner,
	store notes.Store,
	piiDetector *security.PIIDetector,
	promptVal *security.PromptValidator,
	auditLogger *security.AuditLogger,
	usage *security.UsageTracker,
) *ResearchService {
	return &ResearchService{
		agent:       runner,
		store:       store,
		registry:    tools.NewRegistry(tools.SaveNoteTool(store)),
		piiDetector: piiDetector,
		promptVal:   promptVal,
		auditLogger: auditLogger,
		usage:       usage,
	}
}

// Ask validates the prompt, runs the agent under timeout and reports the run.
func (s *ResearchService) Ask(ctx context.Context, req *models.AgentRequest, apiKey string) (*models.AgentResponse, error) {
	start := time.Now()

	// 1. PII detection
	if s.piiDetector != nil {
		if found, kw := s.piiDetector.Detect(req.Prompt); found {
			s.auditLogger.LogAgentRun("", req.Prompt, apiKey, nil, false, 0, "pii: "+kw)
			return nil, fmt.Errorf("%w: PII detected in prompt: %s", ErrRejected, kw)
		}
	}

	// 2. Prompt validation
	if vr := s.promptVal.Validate(req.Prompt); !vr.Valid {
		s.auditLogger.LogAgentRun("", req.Prompt, apiKey, nil, false, 0, vr.Message)
		return nil, fmt.Errorf("%w: prompt validation failed: %s", ErrRejected, vr.Message)
	}

	// 3. Run agent loop
	agentCtx, cancel := context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
	defer cancel()

	res, err := s.agent.Run(agentCtx, req.Prompt)
	durationMs := time.Since(start).Milliseconds()
	if err != nil {
		s.auditLogger.LogAgentRun("", req.Prompt, apiKey, nil, false, durationMs, err.Error())
		return nil, fmt.Errorf("agent run: %w", err)
	}

	// 4. Audit and usage
	tr := res.Trace
	toolsUsed := tr.ToolsUsed()
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	in, out := tr.Usage()
	s.auditLogger.LogAgentRun(tr.ID, req.Prompt, apiKey, toolsUsed, true, durationMs, "")
	s.usage.LogRunUsage(tr.ID, s.agent.Model(), in, out, apiKey, durationMs)

	return &models.AgentResponse{
		Status:       "success",
		RunID:        tr.ID,
		Prompt:       req.Prompt,
		Response:     res.Response,
		Model:        s.agent.Model(),
		ToolsUsed:    toolsUsed,
		LLMCalls:     tr.Counts()[trace.TypeLLMCall],
		InputTokens:  in,
		OutputTokens: out,
		DurationMs:   durationMs,
	}, nil
}

// SaveNote stores content under the topic through the save_note tool.
func (s *ResearchService) SaveNote(ctx context.Context, topic, content, apiKey string) (*models.NoteResponse, error) {
	key := notes.NormalizeKey(topic)
	if s.piiDetector != nil {
		if found, kw := s.piiDetector.Detect(topic, content); found {
			s.auditLogger.LogNoteAccess("write", key, apiKey, len(content), false)
			return nil, fmt.Errorf("%w: PII detected in note: %s", ErrRejected, kw)
		}
	}

	msg, err := s.registry.Invoke(ctx, "save_note", map[string]interface{}{
		"topic":   topic,
		"content": content,
	})
	s.auditLogger.LogNoteAccess("write", key, apiKey, len(content), err == nil)
	if err != nil {
		if errors.Is(err, notes.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return nil, err
	}
	log.Debug().Str("key", key).Int("size", len(content)).Msg("note saved")

	return &models.NoteResponse{Status: "success", Topic: topic, Key: key, Message: msg}, nil
}

// GetNote reads the note for topic from the store. A missing key is
// ErrNoteNotFound whatever the stored notes contain.
func (s *ResearchService) GetNote(ctx context.Context, topic, apiKey string) (*models.NoteResponse, error) {
	key := notes.NormalizeKey(topic)
	content, err := s.store.Read(ctx, key)
	if err != nil {
		s.auditLogger.LogNoteAccess("read", key, apiKey, 0, false)
		switch {
		case errors.Is(err, notes.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, key)
		case errors.Is(err, notes.ErrInvalidKey):
			return nil, fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	s.auditLogger.LogNoteAccess("read", key, apiKey, len(content), true)

	return &models.NoteResponse{Status: "success", Topic: topic, Key: key, Content: content}, nil
}

// Ping checks the note store.
func (s *ResearchService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
