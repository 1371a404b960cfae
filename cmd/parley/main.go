package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	chatcmder "github.com/ewittry/parley/cmd/parley/chat"
	historycmder "github.com/ewittry/parley/cmd/parley/history"
	"github.com/ewittry/parley/repl"
)

func main() {
	root := &cobra.Command{
		Use:   "parley",
		Short: "An interactive LLM chat CLI",
		Long: `parley is a line-oriented chat client for Ollama-compatible
completion providers, with optional content-addressed transcript
recording.`,
		// The loop prints its own errors; don't repeat them here
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(chatcmder.NewChatCmd())
	root.AddCommand(historycmder.NewHistoryCmd())

	if err := root.Execute(); err != nil {
		// A completion failure was already reported inside the session;
		// anything else still needs printing.
		if !errors.Is(err, repl.ErrCompletion) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
