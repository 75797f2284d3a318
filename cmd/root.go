package cmd

import (
	"errors"
	"os"

	"quiver/internal/api"
	"quiver/internal/cli"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates an unknown command, chain, agent or extension.
	ExitCodeNotFound = 2
	// ExitCodeChainCycle indicates a chain that references itself.
	ExitCodeChainCycle = 3
)

// version is injected from main at build time.
var version = "dev"

// SetVersion sets the version reported by --version and the server.
func SetVersion(v string) {
	version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return version
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	rootCmd := &cobra.Command{
		Use:   "quiver",
		Short: "Registry and dispatcher for agent commands",
		Long: `quiver discovers the commands offered by its extensions and the chains
stored for the default user, decides which of them an agent may call, and
dispatches calls to the owning extension or to the chain runner.

Run 'quiver serve' to expose the registry over HTTP and MCP, or use the
commands, chains, extensions and agents subcommands to inspect and invoke
it directly.`,
		Version: version,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "quiver version %s\n" .Version}}`)

	cli.RegisterCommonFlags(rootCmd, flags)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(flags))
	rootCmd.AddCommand(newCommandsCmd(flags))
	rootCmd.AddCommand(newChainsCmd(flags))
	rootCmd.AddCommand(newExtensionsCmd(flags))
	rootCmd.AddCommand(newAgentsCmd(flags))
	return rootCmd
}

// Execute runs the CLI and exits with a semantic exit code on failure.
// This function is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if api.IsNotFound(err) {
		return ExitCodeNotFound
	}
	var cycle *api.ChainCycleError
	if errors.As(err, &cycle) {
		return ExitCodeChainCycle
	}
	return ExitCodeError
}
