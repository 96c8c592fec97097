package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shycli/shy/internal/config"
	"github.com/shycli/shy/internal/repl"
	"github.com/shycli/shy/internal/setup"
	"github.com/shycli/shy/internal/ui"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "shy",
		Short: "AI shell assistant",
		Long: `Shy is an interactive AI shell assistant. Describe what you want to
do and it suggests shell commands, which you can review, edit, and run
without leaving the prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssistant(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create or update the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setup.Run(ui.EffectiveBackend(), os.Stdin, os.Stdout)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shy %s\n", version)
		},
	})

	// Ctrl+C must never kill the assistant itself: readline handles it
	// at the prompt, chat calls arm their own cancellation, and a
	// foreground child receives it directly. Drain the signal here so
	// the default disposition never fires.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		for range interrupts {
		}
	}()

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "shy: %v\n", err)
		os.Exit(1)
	}
}

func runAssistant(ctx context.Context) error {
	if !config.Exists() {
		fmt.Println("Welcome to shy! Let's set things up.")
		if err := setup.Run(ui.EffectiveBackend(), os.Stdin, os.Stdout); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	return repl.New(cfg).Run(ctx)
}
