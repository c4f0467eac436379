package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health [provider]",
	Short: "Show provider health",
	Long: `Shows the rolling health of each provider seen by this process.

Health is kept in memory, so a fresh CLI process only knows about providers
it searched itself. Query a running server with:
  curl http://localhost:8080/api/v1/health`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		p, err := domain.ParseProviderID(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", err, args[0])
		}
		h, ok := rt.Health.GetIntegrationHealth(p)
		if !ok {
			cmd.Printf("%s has not been searched yet.\n", p.Description())
			return nil
		}
		if healthJSON {
			return printJSON(cmd, h)
		}
		printProviderHealth(cmd, h)
		return nil
	}

	summary := rt.Health.GetHealthSummary()
	if healthJSON {
		return printJSON(cmd, summary)
	}
	if len(summary.Providers) == 0 {
		cmd.Println("No providers have been searched yet.")
		return nil
	}
	cmd.Printf("Overall: %s (%d healthy, %d degraded, %d unhealthy)\n\n",
		summary.Overall, summary.Healthy, summary.Degraded, summary.Unhealthy)
	if th := summary.Thresholds; th.UnhealthyAfter > 0 {
		cmd.Printf("Thresholds: degraded after %d, unhealthy after %d, recover after %d, cooldown %s\n\n",
			th.DegradedAfter, th.UnhealthyAfter, th.RecoverAfter, th.UnhealthyCooldown)
	}
	for _, h := range summary.Providers {
		printProviderHealth(cmd, h)
	}
	return nil
}

func printProviderHealth(cmd *cobra.Command, h domain.IntegrationHealth) {
	cmd.Printf("  %-16s %-10s failures=%d successes=%d", h.Provider, h.Status, h.ConsecutiveFailures, h.ConsecutiveSuccesses)
	if !h.LastCheckedAt.IsZero() {
		cmd.Printf(" checked=%s", h.LastCheckedAt.Format(time.RFC3339))
	}
	cmd.Println()
	if h.LastError != "" {
		cmd.Printf("  %-16s last error: %s\n", "", h.LastError)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
