// Package main provides the contract CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/app"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/config"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// appOptions lets tests replace the OCR engine and LLM.
	appOptions app.Options
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "contract-cli",
		Short: "OCR scanned contracts and ask questions about them",
		Long: `contract-cli ingests scanned contracts (images or PDFs) into the document
store and answers questions about them with the configured LLM.

It uses the same configuration as contract-api (--config or environment
variables), so documents ingested here are visible to the server and vice
versa.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(newIngestCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newSummarizeCmd())
	root.AddCommand(newQueryCmd())

	return root
}

// buildApp loads configuration and wires services for one command.
func buildApp(ctx context.Context) (*app.App, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: "contract-cli",
	})

	return app.Build(ctx, cfg, logger, appOptions)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		NewUI(outputJSON, os.Stdout, os.Stderr).Error("%s", err)
		os.Exit(1)
	}
}
