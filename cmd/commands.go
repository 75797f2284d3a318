package cmd

import (
	"fmt"

	"quiver/internal/api"
	"quiver/internal/cli"
	"quiver/internal/dispatch"

	"github.com/spf13/cobra"
)

func newCommandsCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "commands",
		Aliases: []string{"command", "cmd"},
		Short:   "List, inspect and execute commands",
	}
	cmd.AddCommand(newCommandsListCmd(flags))
	cmd.AddCommand(newCommandsArgsCmd(flags))
	cmd.AddCommand(newCommandsExecCmd(flags))
	return cmd
}

func newCommandsListCmd(flags *cli.CommandFlags) *cobra.Command {
	var agentName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every command, or the commands an agent may call",
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

			if agentName != "" {
				agent, err := s.Agents.GetAgentConfig(ctx, agentName)
				if err != nil {
					return err
				}
				available, err := s.Registry.Available(ctx, agent)
				if err != nil {
					return err
				}
				tbl := cli.Table{Headers: []string{"friendly name", "name", "args"}}
				for _, c := range available {
					tbl.Rows = append(tbl.Rows, []string{c.FriendlyName, c.Name, cli.FormatParams(c.Args)})
				}
				return printer.Print(available, tbl)
			}

			entries, err := s.Registry.Load(ctx)
			if err != nil {
				return err
			}
			tbl := cli.Table{Headers: []string{"friendly name", "source", "args"}}
			for _, e := range entries {
				source := e.Extension
				if e.IsChain() {
					source = "chain"
				}
				tbl.Rows = append(tbl.Rows, []string{e.FriendlyName, source, cli.FormatParams(e.Params)})
			}
			return printer.Print(entries, tbl)
		},
	}

	cmd.Flags().StringVar(&agentName, "agent", "", "Only list commands enabled for this agent")
	return cmd
}

func newCommandsArgsCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "args <friendly name>",
		Short: "Show the parameters of a command",
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

			params, err := s.Registry.CommandArgs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tbl := cli.Table{Headers: []string{"name", "default"}}
			for pair := params.Oldest(); pair != nil; pair = pair.Next() {
				tbl.Rows = append(tbl.Rows, []string{pair.Key, defaultString(pair.Value)})
			}
			return printer.Print(map[string]any{"command_args": params}, tbl)
		},
	}
}

func defaultString(v any) string {
	switch d := v.(type) {
	case nil:
		return "null"
	case string:
		if d == "" {
			return "(required)"
		}
		return d
	default:
		return fmt.Sprint(d)
	}
}

func newCommandsExecCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		agentName    string
		conversation string
		pairs        []string
		jsonArgs     string
	)

	cmd := &cobra.Command{
		Use:   "exec <friendly name>",
		Short: "Execute a command as an agent",
		Long: `Executes a command the way an agent would. Arguments are passed as
repeated --arg key=value flags or as a JSON object with --args-json.
Arguments the command does not declare are dropped; declared arguments that
are missing are passed as null.`,
		Example: `  quiver commands exec "Add Numbers" --arg a=2 --arg b=3
  quiver commands exec "Write to File" --agent writer --args-json '{"filename":"a.txt","text":"hi"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := newPrinter(cmd, flags)
			if err != nil {
				return err
			}
			commandArgs, err := cli.ParseArgs(pairs, jsonArgs)
			if err != nil {
				return err
			}
			s, done, err := loadServices(cmd, flags)
			if err != nil {
				return err
			}
			defer done()

			result, err := s.Dispatcher.Execute(cmd.Context(), dispatch.Call{
				Agent:            agentName,
				ConversationName: conversation,
				Command:          args[0],
				Args:             commandArgs,
			})
			if err != nil {
				return err
			}
			return printer.PrintValue(result)
		},
	}

	cmd.Flags().StringVar(&agentName, "agent", api.DefaultAgentName, "Agent to run the command as")
	cmd.Flags().StringVar(&conversation, "conversation", "", "Conversation name (selects the workspace directory)")
	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "Command argument as key=value (repeatable)")
	cmd.Flags().StringVar(&jsonArgs, "args-json", "", "Command arguments as a JSON object")
	return cmd
}
