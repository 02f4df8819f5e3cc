package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/cortexai/research-agent/internal/notes"
)

// NotFoundMessage is what get_notes returns for a key with no stored note.
func NotFoundMessage(key string) string {
	return fmt.Sprintf("Memory not found: %s", key)
}

// SaveNoteTool writes content under the normalized topic key.
func SaveNoteTool(store notes.Store) Tool {
	return Tool{
		Name:        "save_note",
		Description: "Save research notes for later. The topic name is used as the key.",
		Kind:        KindStore,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"topic":   stringProp("Topic name (used as key)"),
				"content": stringProp("Notes to save"),
			},
			"required": []string{"topic", "content"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			topic, err := requiredString(input, "topic")
			if err != nil {
				return "", err
			}
			content, err := requiredString(input, "content")
			if err != nil {
				return "", err
			}
			if err := store.Write(ctx, notes.NormalizeKey(topic), content); err != nil {
				return "", fmt.Errorf("save note: %w", err)
			}
			return fmt.Sprintf("Saved notes on '%s'", topic), nil
		},
	}
}

// GetNotesTool reads the note stored under the normalized topic key.
func GetNotesTool(store notes.Store) Tool {
	return Tool{
		Name:        "get_notes",
		Description: "Retrieve saved notes on a topic.",
		Kind:        KindStore,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"topic": stringProp("Topic to look up"),
			},
			"required": []string{"topic"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			topic, err := requiredString(input, "topic")
			if err != nil {
				return "", err
			}
			key := notes.NormalizeKey(topic)
			content, err := store.Read(ctx, key)
			if errors.Is(err, notes.ErrNotFound) {
				return NotFoundMessage(key), nil
			}
			if err != nil {
				return "", fmt.Errorf("get notes: %w", err)
			}
			return content, nil
		},
	}
}
