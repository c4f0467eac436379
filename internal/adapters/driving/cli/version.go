package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and supported providers",
	Run: func(cmd *cobra.Command, _ []string) {
		if versionShort {
			cmd.Println(version)
			return
		}
		providers := make([]string, 0, len(domain.AllProviders()))
		for _, p := range domain.AllProviders() {
			providers = append(providers, string(p))
		}
		cmd.Printf("sercha version %s\n", version)
		cmd.Printf("  go:        %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  mcp:       %s\n", mcp.Version)
		cmd.Printf("  providers: %s\n", strings.Join(providers, ", "))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}
