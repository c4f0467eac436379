package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure engine timeouts, health thresholds, the AI provider and
storage. Settings live in ~/.sercha/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a single configuration value by its dotted key.

Examples:
  sercha settings set engine.adapter_timeout 6s
  sercha settings set engine.health.unhealthy_after 4

  # Set the DSN before switching driver
  sercha settings set storage.dsn postgres://sercha@localhost/sercha
  sercha settings set storage.driver postgres

Values that would leave a section invalid are rejected and not saved.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM used for query rewriting and result ranking.
Without one, queries are searched as typed and results are ordered newest first.`,
	RunE: runSettingsLLM,
}

var stdinReader = bufio.NewReader(os.Stdin)

// settingsInput is where the wizard reads answers. Tests replace it.
var settingsInput = stdinReader

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if rt.Config == nil {
		return errors.New("settings store not configured")
	}

	engine, engineErr := file.LoadEngineSettings(rt.Config)
	if engineErr != nil {
		engine = domain.DefaultEngineSettings()
	}
	llm := file.LoadLLMSettings(rt.Config)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", rt.Config.Path())
	cmd.Println()

	cmd.Println("[Engine]")
	cmd.Printf("  Identity anchor: %s\n", engine.IdentityAnchor.Description())
	cmd.Printf("  Adapter timeout: %s\n", engine.AdapterTimeout)
	cmd.Printf("  Overall deadline: %s\n", engine.OverallDeadline)
	cmd.Printf("  Query / rank timeout: %s / %s\n", engine.QueryTimeout, engine.RankTimeout)
	cmd.Printf("  Max concurrency: %d\n", engine.MaxConcurrency)
	cmd.Printf("  Results per provider: %d\n", engine.ResultsPerProvider)
	cmd.Println()

	cmd.Println("[Health]")
	cmd.Printf("  Degraded after: %d failures\n", engine.Health.DegradedAfter)
	cmd.Printf("  Unhealthy after: %d failures\n", engine.Health.UnhealthyAfter)
	cmd.Printf("  Recover after: %d successes\n", engine.Health.RecoverAfter)
	cmd.Printf("  Unhealthy cooldown: %s\n", engine.Health.UnhealthyCooldown)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", llm.Provider.Description())
	cmd.Printf("  Model: %s\n", llm.Model)
	if llm.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", llm.BaseURL)
	}
	if llm.Provider.RequiresAPIKey() {
		if llm.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(llm.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !llm.IsConfigured() {
		status = "not configured (ranking falls back to newest first)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Storage]")
	if storage, err := file.LoadStorageSettings(rt.Config); err != nil {
		cmd.Printf("  Warning: %v\n", err)
	} else {
		cmd.Printf("  Driver: %s\n", storage.Driver)
	}
	cmd.Println()

	if engineErr != nil {
		cmd.Printf("Warning: %v\n", engineErr)
		cmd.Println("Defaults are shown; fix config.toml to apply your values.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if rt.Config == nil {
		return errors.New("settings store not configured")
	}

	key, raw := args[0], args[1]
	prev, had := rt.Config.Get(key)
	if err := rt.Config.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := validateSection(rt, key); err != nil {
		if had {
			_ = rt.Config.Set(key, prev)
		} else {
			_ = rt.Config.Delete(key)
		}
		return fmt.Errorf("rejected %s=%s: %w", key, raw, err)
	}
	if err := rt.Config.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

// validateSection re-reads the section a key belongs to.
func validateSection(rt *Runtime, key string) error {
	switch {
	case strings.HasPrefix(key, "engine."):
		_, err := file.LoadEngineSettings(rt.Config)
		return err
	case strings.HasPrefix(key, "storage."):
		_, err := file.LoadStorageSettings(rt.Config)
		return err
	case key == file.KeyAIProvider:
		if p := domain.AIProvider(rt.Config.GetString(key)); !p.IsValid() {
			return fmt.Errorf("%w: unknown AI provider %q", domain.ErrInvalidInput, p)
		}
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if rt.Config == nil {
		return errors.New("settings store not configured")
	}
	return configureLLMProvider(cmd, rt, settingsInput)
}

func configureLLMProvider(cmd *cobra.Command, rt *Runtime, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	settings := domain.LLMSettings{Provider: selected, Model: model}
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		settings.APIKey = readPassword(reader)
		cmd.Println()
		if settings.APIKey == "" {
			return errors.New("API key is required for this provider")
		}
	} else {
		cmd.Print("Enter base URL (blank for default): ")
		settings.BaseURL = readLine(reader)
	}

	if rt.ValidateLLM != nil {
		cmd.Print("Validating configuration... ")
		if err := rt.ValidateLLM(settings); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	values := map[string]any{
		file.KeyAIProvider: string(settings.Provider),
		file.KeyAIModel:    settings.Model,
		file.KeyAIAPIKey:   settings.APIKey,
		file.KeyAIBaseURL:  settings.BaseURL,
	}
	for k, v := range values {
		if err := rt.Config.Set(k, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	if err := rt.Config.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", selected.Description(), model)
	cmd.Println("Restart 'sercha serve' to use it.")
	return nil
}

// parseValue keeps integers and booleans typed so the TOML file stays tidy.
// Durations stay strings.
func parseValue(raw string) any {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(reader *bufio.Reader) string {
	// Try to read password without echo
	if reader == stdinReader && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
