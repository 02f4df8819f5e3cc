// Package tools defines the Tool type and the research tools exposed to the
// agent.
package tools

import (
	"context"
	"fmt"
)

// Kind distinguishes pure text tools from tools backed by the note store.
type Kind string

const (
	KindText  Kind = "text"
	KindStore Kind = "store"
)

// Tool represents a callable function the LLM can invoke
type Tool struct {
	Name        string
	Description string
	Kind        Kind
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, input map[string]interface{}) (string, error)
}

// Registry holds tools in registration order.
type Registry struct {
	tools []Tool
	index map[string]int
}

func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

// Register adds t, replacing any tool with the same name in place.
func (r *Registry) Register(t Tool) {
	if i, ok := r.index[t.Name]; ok {
		r.tools[i] = t
		return
	}
	r.index[t.Name] = len(r.tools)
	r.tools = append(r.tools, t)
}

func (r *Registry) Get(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// All returns the tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Invoke runs the named tool.
func (r *Registry) Invoke(ctx context.Context, name string, input map[string]interface{}) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return t.Execute(ctx, input)
}

func requiredString(input map[string]interface{}, name string) (string, error) {
	v, ok := input[name].(string)
	if !ok {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	return v, nil
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}
