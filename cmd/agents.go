package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"quiver/internal/api"
	"quiver/internal/cli"

	"github.com/spf13/cobra"
)

func newAgentsCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "Manage which commands agents may call",
	}
	cmd.AddCommand(newAgentsListCmd(flags))
	cmd.AddCommand(newAgentsToggleCmd(flags, true))
	cmd.AddCommand(newAgentsToggleCmd(flags, false))
	cmd.AddCommand(newAgentsDeleteCmd(flags))
	return cmd
}

func newAgentsDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <agent>...",
		Aliases: []string{"rm"},
		Short:   "Delete agent definitions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := loadServices(cmd, flags)
			if err != nil {
				return err
			}
			defer done()

			for _, name := range args {
				if err := s.Agents.DeleteAgent(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted agent %s\n", name)
			}
			return nil
		},
	}
}

func enabledCommands(agent api.AgentConfig) []string {
	var names []string
	for name, flag := range agent.Commands {
		if api.IsEnabledFlag(flag) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func newAgentsListCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured agents",
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

			names, err := s.Agents.ListAgents(ctx)
			if err != nil {
				return err
			}
			agents := make([]api.AgentConfig, 0, len(names))
			tbl := cli.Table{Headers: []string{"name", "id", "enabled", "commands"}}
			for _, name := range names {
				agent, err := s.Agents.GetAgentConfig(ctx, name)
				if err != nil {
					return err
				}
				agents = append(agents, agent)
				enabled := enabledCommands(agent)
				tbl.Rows = append(tbl.Rows, []string{agent.Name, agent.ID, strconv.Itoa(len(enabled)), strings.Join(enabled, ", ")})
			}
			return printer.Print(agents, tbl)
		},
	}
}

// newAgentsToggleCmd builds "enable" or "disable". Unknown agents are
// created; unknown commands are rejected.
func newAgentsToggleCmd(flags *cli.CommandFlags, enable bool) *cobra.Command {
	use, short := "disable", "Stop an agent from calling commands"
	if enable {
		use, short = "enable", "Allow an agent to call commands"
	}

	return &cobra.Command{
		Use:   use + " <agent> <friendly name>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
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

			agent, err := s.Agents.GetAgentConfig(ctx, args[0])
			if api.IsNotFound(err) {
				agent = api.AgentConfig{Name: args[0], Commands: map[string]any{}}
			} else if err != nil {
				return err
			}

			if agent.Commands == nil {
				agent.Commands = map[string]any{}
			}
			for _, name := range args[1:] {
				if _, err := s.Registry.FindCommandFor(ctx, name, agent.Settings); err != nil {
					return err
				}
				agent.Commands[name] = strconv.FormatBool(enable)
			}

			agent, err = s.Agents.SaveAgent(ctx, agent)
			if err != nil {
				return err
			}
			enabled := enabledCommands(agent)
			tbl := cli.Table{
				Headers: []string{"name", "id", "enabled", "commands"},
				Rows:    [][]string{{agent.Name, agent.ID, strconv.Itoa(len(enabled)), strings.Join(enabled, ", ")}},
			}
			return printer.Print(agent, tbl)
		},
	}
}
