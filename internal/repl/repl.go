// Package repl drives an agent from a line-oriented console.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	Prompt   = "You: "
	Farewell = "Goodbye!"
)

var exitKeywords = map[string]bool{"quit": true, "exit": true, "q": true}

// Responder answers one user turn.
type Responder interface {
	Input(ctx context.Context, prompt string) (string, error)
}

// REPL reads from In, forwards non-empty lines to Agent and prints replies to Out.
type REPL struct {
	In     io.Reader
	Out    io.Writer
	Agent  Responder
	Banner string
}

// IsExit reports whether line is an exit keyword, ignoring case.
func IsExit(line string) bool {
	return exitKeywords[strings.ToLower(line)]
}

// Run loops until an exit keyword, end of input or ctx cancellation. A
// cancelled context (an interrupt) ends the loop cleanly with a farewell in
// either the reading or the dispatching state. Agent errors are returned.
func (r *REPL) Run(ctx context.Context) error {
	if r.Banner != "" {
		fmt.Fprint(r.Out, r.Banner)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r.In)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		fmt.Fprint(r.Out, Prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out, "\n"+Farewell)
			return nil
		case err := <-readErr:
			fmt.Fprintln(r.Out, "\n"+Farewell)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		case line = <-lines:
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if IsExit(input) {
			fmt.Fprintln(r.Out, Farewell)
			return nil
		}

		resp, err := r.Agent.Input(ctx, input)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				fmt.Fprintln(r.Out, "\n"+Farewell)
				return nil
			}
			log.Error().Err(err).Msg("agent run failed")
			return fmt.Errorf("agent: %w", err)
		}
		fmt.Fprintf(r.Out, "\nAgent: %s\n\n", resp)
	}
}

// DefaultBanner is printed before the first prompt.
const DefaultBanner = `
╔══════════════════════════════════════════════════╗
║  Research Assistant                              ║
║  search · summarize · take notes                 ║
╚══════════════════════════════════════════════════╝

Examples:
  • 'What are AI agents?'
  • 'Summarize the latest in machine learning'
  • 'Save a note about Python'
  • Type 'quit' to exit

`
