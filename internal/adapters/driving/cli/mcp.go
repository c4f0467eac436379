package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve federated search to MCP clients",
	Long: `Serves the federated_search and provider_health tools plus the
sercha://health resources. Every call runs as --user.

Without --port the server speaks JSON-RPC over stdio, which is what desktop
assistants launch:

  {"mcpServers": {"sercha": {"command": "sercha", "args": ["mcp", "serve", "--user", "alice"]}}}

With --port it serves streamable HTTP on /mcp and a liveness probe on
/healthz, for the MCP Inspector or remote clients:

  sercha mcp serve --user alice --port 8081`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:         rt.Search,
		Health:         rt.Health,
		UserID:         user,
		OrganizationID: orgID,
	})
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		return server.Run(cmd.Context())
	}
	addr := fmt.Sprintf(":%d", mcpPort)
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s/mcp\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
