package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cortexai/research-agent/internal/config"
)

// Open creates the store selected by cfg.NoteStore.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.NoteStore) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		s, err := NewFileStore(cfg.NotesDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("note_store=postgres requires postgres_dsn or DATABASE_URL")
		}
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN, cfg.NotesTable)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "elasticsearch":
		if cfg.ElasticsearchHost == "" {
			return nil, fmt.Errorf("note_store=elasticsearch requires elasticsearch_host")
		}
		s, err := NewElasticsearchStore(ElasticsearchConfig{
			Addresses: []string{fmt.Sprintf("%s://%s:%d",
				cfg.ElasticsearchScheme, cfg.ElasticsearchHost, cfg.ElasticsearchPort)},
			Username:   cfg.ElasticsearchUser,
			Password:   cfg.ElasticsearchPassword,
			MaxRetries: cfg.ElasticsearchMaxRetries,
			Index:      cfg.NotesIndex,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown note store %q", cfg.NoteStore)
	}
}
