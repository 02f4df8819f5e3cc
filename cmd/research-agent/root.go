package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cortexai/research-agent/internal/config"
)

var (
	configPath string
	logLevel   string
	modelFlag  string
	storeFlag  string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "research-agent",
	Short: "A research assistant that searches topics, summarizes and keeps notes",
	Long: `research-agent runs a tool-using LLM agent with four tools:
search_topic, summarize, save_note and get_notes.

Without a subcommand it starts the interactive chat.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (.json, .yaml); defaults to $RESEARCH_AGENT_CONFIG")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&modelFlag, "model", "m", "", "model driving the agent loop")
	pf.StringVar(&storeFlag, "store", "", "note store: memory, file, postgres, elasticsearch")
}

// loadConfig reads .env, the config file and env overrides, then applies flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if modelFlag != "" {
		if c.ToolModel == c.Model {
			c.ToolModel = modelFlag
		}
		c.Model = modelFlag
	}
	if storeFlag != "" {
		c.NoteStore = storeFlag
	}

	setupLogger(c)
	cfg = c
	return nil
}

// setupLogger configures the global zerolog logger: JSON in production,
// a console writer on stderr otherwise.
func setupLogger(c *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.Environment == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
