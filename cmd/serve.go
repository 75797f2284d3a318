package cmd

import (
	"context"
	"fmt"

	"quiver/internal/app"
	"quiver/internal/cli"
	"quiver/internal/config"

	"github.com/spf13/cobra"
)

func newServeCmd(flags *cli.CommandFlags) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the command registry over HTTP and MCP",
		Long: `Starts the HTTP server exposing the command registry:

  GET  /api/extensions              extension catalog
  GET  /api/extensions/settings     extension and chain settings
  GET  /api/commands                every command name
  GET  /api/agents/:agent/commands  commands the agent may call
  POST /api/agents/:agent/command   execute a command
  GET  /api/chains/:chain/args      free variables of a chain
  /mcp                              MCP streamable HTTP endpoint

Configuration is read from config.yaml in --config-path and overridden by
environment variables (DISABLED_EXTENSIONS, DATABASE_URL, API_URL, ...).
With store.watch enabled, edits to config.yaml, chains, users and agents are
applied without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.NewConfig(flags.Debug, false, flags.ConfigPath)
			cfg.Version = version

			qc, err := config.LoadConfig(flags.ConfigPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if host != "" {
				qc.Server.Host = host
			}
			if port != 0 {
				qc.Server.Port = port
			}
			cfg.QuiverConfig = &qc

			application, err := app.NewApplication(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer application.Close(context.Background())
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides server.port)")
	return cmd
}
