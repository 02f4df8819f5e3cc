package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultAgentName     = "research-assistant"
	DefaultModel         = "claude-3-5-haiku-latest"
	DefaultMaxIterations = 5
	DefaultMaxTokens     = 1024
	DefaultAgentTimeout  = 300 // seconds

	DefaultNoteStore  = "memory"
	DefaultNotesDir   = ".research-notes"
	DefaultNotesIndex = "research-notes"
	DefaultNotesTable = "notes"

	DefaultElasticsearchPort       = 9200
	DefaultElasticsearchScheme     = "http"
	DefaultElasticsearchMaxRetries = 3

	DefaultMaxPromptLength = 2000
	DefaultMaxRunTokens    = 50000
)

// DefaultSystemPrompt is used when neither system_prompt nor system_prompt_file is set.
const DefaultSystemPrompt = `You are a helpful research assistant.

Your job is to:
1. Search for information when asked about a topic
2. Summarize findings clearly
3. Save important notes for later reference

Be concise and factual. Always search before answering questions about current topics.`

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

// DefaultPublicPaths are the health routes.
var DefaultPublicPaths = []string{"/", "/health"}

var DefaultPIIKeywords = []string{
	"password", "ssn", "social security", "credit card",
	"bank account", "private key",
	"access token", "api key",
}
