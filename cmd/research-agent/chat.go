package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cortexai/research-agent/internal/repl"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive research session",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	a, err := buildApp(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer a.Close()

	r := &repl.REPL{
		In:     cmd.InOrStdin(),
		Out:    out,
		Agent:  a.agent,
		Banner: repl.DefaultBanner,
	}
	return r.Run(ctx)
}
