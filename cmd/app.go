package cmd

import (
	"context"
	"fmt"

	"quiver/internal/app"
	"quiver/internal/cli"

	"github.com/spf13/cobra"
)

// loadServices bootstraps the component graph for a one-shot command. Logs
// are discarded unless --debug is set so stdout carries only the result.
func loadServices(cmd *cobra.Command, flags *cli.CommandFlags) (*app.Services, func(), error) {
	cfg := app.NewConfig(flags.Debug, !flags.Debug, flags.ConfigPath)
	cfg.Version = version

	application, err := app.NewApplication(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Services(), func() { _ = application.Close(context.Background()) }, nil
}

func newPrinter(cmd *cobra.Command, flags *cli.CommandFlags) (*cli.Printer, error) {
	format, err := cli.ParseOutputFormat(flags.OutputFormat)
	if err != nil {
		return nil, err
	}
	return cli.NewPrinter(cmd.OutOrStdout(), format, flags.NoHeaders), nil
}
