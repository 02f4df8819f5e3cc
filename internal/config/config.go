package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	Environment string `json:"environment" yaml:"environment"`
	APIPrefix   string `json:"api_prefix" yaml:"api_prefix"`
	LogLevel    string `json:"log_level" yaml:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header" yaml:"api_key_header"`
	APIKeys      []string `json:"api_keys" yaml:"api_keys"`
	EnableAuth   bool     `json:"enable_auth" yaml:"enable_auth"`
	PublicPaths  []string `json:"public_paths" yaml:"public_paths"` // served without an API key

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`

	// Agent
	AgentName        string `json:"agent_name" yaml:"agent_name"`
	SystemPrompt     string `json:"system_prompt" yaml:"system_prompt"`
	SystemPromptFile string `json:"system_prompt_file" yaml:"system_prompt_file"`
	Model            string `json:"model" yaml:"model"`
	ToolModel        string `json:"tool_model" yaml:"tool_model"` // model used by search_topic / summarize
	MaxIterations    int    `json:"max_iterations" yaml:"max_iterations"`
	MaxTokens        int    `json:"max_tokens" yaml:"max_tokens"`
	AgentTimeout     int    `json:"agent_timeout" yaml:"agent_timeout"`
	StrictStyles     bool   `json:"strict_styles" yaml:"strict_styles"`
	Quiet            bool   `json:"quiet" yaml:"quiet"` // disables the console tool/run hooks

	// AI / LLM
	AnthropicAPIKey  string `json:"anthropic_api_key" yaml:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url" yaml:"anthropic_base_url"`
	GoogleAPIKey     string `json:"google_api_key" yaml:"google_api_key"`

	// Notes
	NoteStore   string `json:"note_store" yaml:"note_store"` // memory | file | postgres | elasticsearch
	NotesDir    string `json:"notes_dir" yaml:"notes_dir"`
	PostgresDSN string `json:"postgres_dsn" yaml:"postgres_dsn"`
	NotesTable  string `json:"notes_table" yaml:"notes_table"`

	// Elasticsearch
	ElasticsearchHost       string `json:"elasticsearch_host" yaml:"elasticsearch_host"`
	ElasticsearchPort       int    `json:"elasticsearch_port" yaml:"elasticsearch_port"`
	ElasticsearchScheme     string `json:"elasticsearch_scheme" yaml:"elasticsearch_scheme"`
	ElasticsearchUser       string `json:"elasticsearch_user" yaml:"elasticsearch_user"`
	ElasticsearchPassword   string `json:"elasticsearch_password" yaml:"elasticsearch_password"`
	ElasticsearchMaxRetries int    `json:"elasticsearch_max_retries" yaml:"elasticsearch_max_retries"`
	NotesIndex              string `json:"notes_index" yaml:"notes_index"`

	// Security
	MaxPromptLength    int      `json:"max_prompt_length" yaml:"max_prompt_length"`
	EnablePIIDetection bool     `json:"enable_pii_detection" yaml:"enable_pii_detection"`
	PIIKeywords        []string `json:"pii_keywords" yaml:"pii_keywords"`
	EnableAuditLogging bool     `json:"enable_audit_logging" yaml:"enable_audit_logging"`
	MaxRunTokens       int64    `json:"max_run_tokens" yaml:"max_run_tokens"` // 0 disables the per-run token budget warning
}

// Defaults returns a Config populated with the package defaults only. Slice
// fields are copies so decoding a file into them leaves the package vars intact.
func Defaults() *Config {
	return &Config{
		Host:                    DefaultHost,
		Port:                    DefaultPort,
		Environment:             DefaultEnvironment,
		APIPrefix:               DefaultAPIPrefix,
		LogLevel:                DefaultLogLevel,
		CORSOrigins:             append([]string(nil), DefaultCORSOrigins...),
		PublicPaths:             append([]string(nil), DefaultPublicPaths...),
		APIKeyHeader:            "X-API-Key",
		EnableAuth:              true,
		RateLimitPerMinute:      DefaultRateLimitPerMinute,
		AgentName:               DefaultAgentName,
		Model:                   DefaultModel,
		MaxIterations:           DefaultMaxIterations,
		MaxTokens:               DefaultMaxTokens,
		AgentTimeout:            DefaultAgentTimeout,
		NoteStore:               DefaultNoteStore,
		NotesDir:                DefaultNotesDir,
		NotesTable:              DefaultNotesTable,
		NotesIndex:              DefaultNotesIndex,
		ElasticsearchPort:       DefaultElasticsearchPort,
		ElasticsearchScheme:     DefaultElasticsearchScheme,
		ElasticsearchMaxRetries: DefaultElasticsearchMaxRetries,
		MaxPromptLength:         DefaultMaxPromptLength,
		EnablePIIDetection:      true,
		PIIKeywords:             append([]string(nil), DefaultPIIKeywords...),
		EnableAuditLogging:      true,
		MaxRunTokens:            DefaultMaxRunTokens,
	}
}

// Load builds the configuration from defaults, an optional config file and
// environment overrides, in that order. An explicit path wins over
// RESEARCH_AGENT_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = getEnv("RESEARCH_AGENT_CONFIG", "")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.ToolModel == "" {
		cfg.ToolModel = cfg.Model
	}
	return cfg, nil
}

// ResolveSystemPrompt returns the prompt text, reading system_prompt_file when set.
func (c *Config) ResolveSystemPrompt() (string, error) {
	if c.SystemPromptFile != "" {
		data, err := os.ReadFile(c.SystemPromptFile)
		if err != nil {
			return "", fmt.Errorf("read system prompt: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if c.SystemPrompt != "" {
		return c.SystemPrompt, nil
	}
	return DefaultSystemPrompt, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("RESEARCH_AGENT_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("RESEARCH_AGENT_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("RESEARCH_AGENT_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("RESEARCH_AGENT_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("RESEARCH_AGENT_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("RESEARCH_AGENT_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("RESEARCH_AGENT_TOOL_MODEL", ""); v != "" {
		cfg.ToolModel = v
	}
	if v := getEnv("RESEARCH_AGENT_MAX_ITERATIONS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxIterations = n
		}
	}
	if v := getEnv("RESEARCH_AGENT_SYSTEM_PROMPT_FILE", ""); v != "" {
		cfg.SystemPromptFile = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("GOOGLE_API_KEY", ""); v != "" {
		cfg.GoogleAPIKey = v
	}
	if v := getEnv("RESEARCH_AGENT_NOTE_STORE", ""); v != "" {
		cfg.NoteStore = v
	}
	if v := getEnv("RESEARCH_AGENT_NOTES_DIR", ""); v != "" {
		cfg.NotesDir = v
	}
	if v := getEnv("DATABASE_URL", ""); v != "" {
		cfg.PostgresDSN = v
	}
	if v := getEnv("ELASTICSEARCH_HOST", ""); v != "" {
		cfg.ElasticsearchHost = v
	}
	if v := getEnv("ELASTICSEARCH_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.ElasticsearchPort = p
		}
	}
	if v := getEnv("ELASTICSEARCH_SCHEME", ""); v != "" {
		cfg.ElasticsearchScheme = v
	}
	if v := getEnv("ELASTICSEARCH_USER", ""); v != "" {
		cfg.ElasticsearchUser = v
	}
	if v := getEnv("ELASTICSEARCH_PASSWORD", ""); v != "" {
		cfg.ElasticsearchPassword = v
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
