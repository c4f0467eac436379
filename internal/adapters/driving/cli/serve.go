package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the federated search HTTP API.

Routes:
  POST /api/v1/search             search (Authorization: Bearer <JWT>)
  GET  /api/v1/health             provider health summary
  GET  /api/v1/health/{provider}  one provider's health
  GET  /healthz                   liveness
  GET  /metrics                   Prometheus metrics

Session tokens are HS256 JWTs signed with server.jwt_secret; the "sub" claim
is the user id and "org" the optional organization. Changes to the [engine]
section of config.toml are applied without a restart.`,
	RunE: runServe,
}

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a session token for the HTTP API",
	Long: `Signs a session token with server.jwt_secret for local testing.

Example:
  curl -H "Authorization: Bearer $(sercha token --user alice)" \
       -d '{"query":"budget planning"}' http://localhost:8080/api/v1/search`,
	RunE: runToken,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server.addr or :8080)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	cfg := rt.Server
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if cfg.JWTSecret == "" {
		return errors.New("server.jwt_secret is not set in config.toml")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if rt.Watch != nil {
		go rt.Watch(ctx)
	}

	server := httpapi.New(cfg, rt.Search, rt.Health)
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func runToken(cmd *cobra.Command, _ []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if rt.Server.JWTSecret == "" {
		return errors.New("server.jwt_secret is not set in config.toml")
	}

	tok, err := httpapi.IssueToken(rt.Server.JWTSecret, user, orgID, tokenTTL)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	cmd.Println(tok)
	return nil
}
