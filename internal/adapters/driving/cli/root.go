// Package cli provides the cobra command tree for the sercha binary.
//
// Commands run against a Runtime assembled by the main package. The runtime
// is built lazily so that commands such as version never open storage.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Runtime is the assembled application the commands run against.
type Runtime struct {
	Search      driving.SearchService
	Health      driving.HealthService
	Credentials driving.CredentialService
	Config      driven.ConfigStore

	// Server configures the HTTP API started by serve.
	Server httpapi.Config

	// Watch applies configuration changes until ctx is done. Optional.
	Watch func(ctx context.Context)

	// ValidateLLM pings an LLM provider before its settings are saved. Optional.
	ValidateLLM func(settings domain.LLMSettings) error

	// Close releases storage and drains analytics. Optional.
	Close func(ctx context.Context) error
}

// RuntimeFactory builds the runtime on first use.
type RuntimeFactory func(ctx context.Context) (*Runtime, error)

var (
	newRuntime RuntimeFactory
	current    *Runtime

	verbose   bool
	logFormat string
	userID    string
	orgID     string
)

var rootCmd = &cobra.Command{
	Use:   "sercha",
	Short: "Federated search across your connected apps",
	Long: `Sercha sends one query to every provider you have connected (Gmail, Google
Drive, Google Calendar, Dropbox, Notion, Slack, GitHub, QuickBooks, Procore),
ranks the combined results and reports which providers failed.

Run 'sercha serve' for the HTTP API, 'sercha mcp serve' for AI assistants or
'sercha tui' for the terminal UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetFormat(logger.Format(logFormat))
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(logger.FormatConsole), "log format (console or json)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", os.Getenv("SERCHA_USER"), "user id to act as (default $SERCHA_USER)")
	rootCmd.PersistentFlags().StringVar(&orgID, "org", os.Getenv("SERCHA_ORG"), "organization id (default $SERCHA_ORG)")
}

// SetRuntimeFactory registers how the runtime is built.
func SetRuntimeFactory(f RuntimeFactory) {
	newRuntime = f
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases the runtime afterwards.
func Execute(ctx context.Context) error {
	defer closeRuntime()
	return rootCmd.ExecuteContext(ctx)
}

// loadRuntime returns the runtime, building it on first use.
func loadRuntime(cmd *cobra.Command) (*Runtime, error) {
	if current != nil {
		return current, nil
	}
	if newRuntime == nil {
		return nil, errors.New("application not configured")
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("starting sercha: %w", err)
	}
	current = rt
	return rt, nil
}

func closeRuntime() {
	if current == nil || current.Close == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := current.Close(ctx); err != nil {
		logger.Warn("shutdown: %v", err)
	}
	current = nil
}

// requireUser returns the --user value or an error explaining how to set it.
func requireUser() (string, error) {
	if userID == "" {
		userID = os.Getenv("SERCHA_USER")
	}
	if orgID == "" {
		orgID = os.Getenv("SERCHA_ORG")
	}
	if userID == "" {
		return "", fmt.Errorf("%w: a user id is required (--user or SERCHA_USER)", domain.ErrInvalidInput)
	}
	return userID, nil
}
