package cmd

import (
	"strings"

	"quiver/internal/api"
	"quiver/internal/cli"

	"github.com/spf13/cobra"
)

type chainSummary struct {
	Name  string   `json:"chain_name"`
	Args  []string `json:"chain_args"`
	Error string   `json:"error,omitempty"`
}

func newChainsCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chains",
		Aliases: []string{"chain"},
		Short:   "Inspect stored chains",
	}
	cmd.AddCommand(newChainsListCmd(flags))
	cmd.AddCommand(newChainsArgsCmd(flags))
	return cmd
}

func newChainsListCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the default user's chains and global chains with their arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := newPrinter(cmd, flags)
			if err != nil {
				return err
			}
			s, done, err := loadServices(cmd, flags)
			if err != nil {
				return err
			}
			defer done()
			ctx := cmd.Context()

			names, err := s.Store.ListChainNames(ctx, s.OwnerID)
			if err != nil {
				return err
			}

			summaries := make([]chainSummary, 0, len(names))
			tbl := cli.Table{Headers: []string{"name", "args"}}
			for _, name := range names {
				summary := chainSummary{Name: name, Args: []string{}}
				chainArgs, err := s.Registry.ChainArgs(ctx, name)
				switch {
				case err == nil:
					summary.Args = chainArgs
				case api.IsChainCycle(err):
					summary.Error = err.Error()
				default:
					return err
				}
				summaries = append(summaries, summary)

				cell := strings.Join(summary.Args, ", ")
				if summary.Error != "" {
					cell = summary.Error
				}
				tbl.Rows = append(tbl.Rows, []string{name, cell})
			}
			return printer.Print(summaries, tbl)
		},
	}
}

func newChainsArgsCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "args <chain name>",
		Short: "Show the free variables of a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := newPrinter(cmd, flags)
			if err != nil {
				return err
			}
			s, done, err := loadServices(cmd, flags)
			if err != nil {
				return err
			}
			defer done()

			chainArgs, err := s.Registry.ChainArgs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if chainArgs == nil {
				chainArgs = []string{}
			}
			tbl := cli.Table{Headers: []string{"arg"}}
			for _, a := range chainArgs {
				tbl.Rows = append(tbl.Rows, []string{a})
			}
			return printer.Print(map[string]any{"chain_args": chainArgs}, tbl)
		},
	}
}
