package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var (
	credMetadata  []string
	credExpiresIn time.Duration
	credStdin     bool
)

var credentialsCmd = &cobra.Command{
	Use:     "credentials",
	Aliases: []string{"creds"},
	Short:   "Manage stored provider credentials",
	Long: `Store, list and remove the per-provider secrets the engine searches with.

Secrets normally arrive through your OAuth integration; these commands seed
the credential store directly for development and operations.

Examples:
  # Connect Gmail (prompts for the access and refresh secrets)
  sercha credentials connect gmail --user alice

  # QuickBooks needs the company realm id
  sercha credentials connect quickbooks --user alice --meta realm_id=9130350

  # Non-interactive: access secret on line 1, refresh secret on line 2
  printf '%s\n%s\n' "$ACCESS" "$REFRESH" | sercha credentials connect slack --user alice --stdin`,
}

var credentialsConnectCmd = &cobra.Command{
	Use:   "connect [provider]",
	Short: "Store credentials for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runCredentialsConnect,
}

var credentialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected providers",
	RunE:  runCredentialsList,
}

var credentialsDisconnectCmd = &cobra.Command{
	Use:   "disconnect [provider]",
	Short: "Remove credentials for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runCredentialsDisconnect,
}

// secretInput is where secrets are read from. Tests replace it.
var secretInput io.Reader = os.Stdin

func init() {
	credentialsConnectCmd.Flags().StringArrayVar(&credMetadata, "meta", nil, "provider metadata as key=value (repeatable)")
	credentialsConnectCmd.Flags().DurationVar(&credExpiresIn, "expires-in", 0, "access secret lifetime (0 = unknown)")
	credentialsConnectCmd.Flags().BoolVar(&credStdin, "stdin", false, "read secrets from stdin without prompting")
	credentialsCmd.AddCommand(credentialsConnectCmd)
	credentialsCmd.AddCommand(credentialsListCmd)
	credentialsCmd.AddCommand(credentialsDisconnectCmd)
	rootCmd.AddCommand(credentialsCmd)
}

func runCredentialsConnect(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	provider, err := domain.ParseProviderID(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	metadata, err := parseMetadata(credMetadata)
	if err != nil {
		return err
	}
	for _, key := range provider.RequiredMetadata() {
		if metadata[key] == "" {
			return fmt.Errorf("%s requires --meta %s=<value>", provider.Description(), key)
		}
	}

	access, refresh, err := readSecrets(cmd)
	if err != nil {
		return err
	}

	bundle := domain.CredentialBundle{
		UserID:        user,
		Provider:      provider,
		AccessSecret:  access,
		RefreshSecret: refresh,
		Metadata:      metadata,
	}
	if credExpiresIn > 0 {
		expiry := time.Now().Add(credExpiresIn)
		bundle.ExpiresAt = &expiry
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if err := rt.Credentials.Connect(cmd.Context(), bundle); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	cmd.Printf("Connected %s for %s.\n", provider.Description(), user)
	if refresh == "" {
		cmd.Println("Warning: no refresh secret given; searches will skip this provider until one is stored.")
	}
	return nil
}

func runCredentialsList(cmd *cobra.Command, _ []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	bundles, err := rt.Credentials.List(cmd.Context(), user)
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}
	if len(bundles) == 0 {
		cmd.Printf("No providers connected for %s.\n", user)
		cmd.Println("Connect one with: sercha credentials connect <provider> --user " + user)
		return nil
	}

	cmd.Printf("Connected providers for %s:\n\n", user)
	for i := range bundles {
		b := &bundles[i]
		status := "ok"
		switch {
		case !b.HasSecrets():
			status = "incomplete"
		case b.IsExpired():
			status = "expired"
		}
		cmd.Printf("  %-16s %-10s updated %s\n", b.Provider, status, b.UpdatedAt.Format(time.RFC3339))
		for k, v := range b.Metadata {
			cmd.Printf("  %-16s %s=%s\n", "", k, v)
		}
	}
	return nil
}

func runCredentialsDisconnect(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	provider, err := domain.ParseProviderID(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	if err := rt.Credentials.Disconnect(cmd.Context(), user, provider); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%s is not connected for %s", provider.Description(), user)
		}
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	cmd.Printf("Disconnected %s for %s.\n", provider.Description(), user)
	return nil
}

func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --meta %q (want key=value)", pair)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// readSecrets prompts for the access and refresh secrets without echo when
// stdin is a terminal, otherwise reads them as the first two lines.
func readSecrets(cmd *cobra.Command) (access, refresh string, err error) {
	if f, ok := secretInput.(*os.File); ok && !credStdin && term.IsTerminal(int(f.Fd())) {
		cmd.Print("Access secret: ")
		a, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", "", fmt.Errorf("reading access secret: %w", err)
		}
		cmd.Print("Refresh secret: ")
		r, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", "", fmt.Errorf("reading refresh secret: %w", err)
		}
		access, refresh = strings.TrimSpace(string(a)), strings.TrimSpace(string(r))
	} else {
		reader := bufio.NewReader(secretInput)
		access = readLine(reader)
		refresh = readLine(reader)
	}

	if access == "" {
		return "", "", errors.New("an access secret is required")
	}
	return access, refresh, nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
