package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchConfig describes the cluster holding the notes index.
type ElasticsearchConfig struct {
	Addresses  []string
	Username   string
	Password   string
	MaxRetries int
	Index      string
	Transport  http.RoundTripper
}

// ElasticsearchStore keeps one document per note in a single index. The
// document id is the (path-escaped) note key.
type ElasticsearchStore struct {
	client *elasticsearch.Client
	index  string
}

type noteDocument struct {
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewElasticsearchStore(cfg ElasticsearchConfig) (*ElasticsearchStore, error) {
	esCfg := elasticsearch.Config{
		Addresses:  cfg.Addresses,
		MaxRetries: cfg.MaxRetries,
		Transport:  cfg.Transport,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}
	return &ElasticsearchStore{client: client, index: cfg.Index}, nil
}

func (s *ElasticsearchStore) Write(ctx context.Context, key, value string) error {
	body, err := json.Marshal(noteDocument{Key: key, Content: value, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(url.PathEscape(key)),
		s.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index note %s: %w", key, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index note %s: elasticsearch error: %s", key, res.Status())
	}
	return nil
}

func (s *ElasticsearchStore) Read(ctx context.Context, key string) (string, error) {
	res, err := s.client.Get(
		s.index,
		url.PathEscape(key),
		s.client.Get.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("get note %s: %w", key, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if res.IsError() {
		return "", fmt.Errorf("get note %s: elasticsearch error: %s", key, res.Status())
	}

	var doc struct {
		Found  bool         `json:"found"`
		Source noteDocument `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode note %s: %w", key, err)
	}
	if !doc.Found {
		return "", ErrNotFound
	}
	return doc.Source.Content, nil
}

// Ping checks the cluster is reachable.
func (s *ElasticsearchStore) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping error: %s", res.Status())
	}
	return nil
}

func (s *ElasticsearchStore) Close() error { return nil }
