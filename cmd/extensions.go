package cmd

import (
	"sort"
	"strconv"
	"strings"

	"quiver/internal/cli"
	pkgstrings "quiver/pkg/strings"

	"github.com/spf13/cobra"
)

func newExtensionsCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "extensions",
		Aliases: []string{"extension", "ext"},
		Short:   "Inspect the extension catalog",
	}
	cmd.AddCommand(newExtensionsListCmd(flags))
	cmd.AddCommand(newExtensionsSettingsCmd(flags))
	return cmd
}

func newExtensionsListCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enabled extensions and their commands",
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

			extensions, err := s.Registry.Extensions()
			if err != nil {
				return err
			}
			tbl := cli.Table{Headers: []string{"extension", "commands", "settings", "description"}}
			for _, ext := range extensions {
				names := make([]string, 0, len(ext.Commands))
				for _, c := range ext.Commands {
					names = append(names, c.FriendlyName)
				}
				tbl.Rows = append(tbl.Rows, []string{
					ext.ExtensionName,
					strings.Join(names, ", "),
					strings.Join(ext.Settings, ", "),
					pkgstrings.TruncateDescription(ext.Description, pkgstrings.DefaultDescriptionMaxLen),
				})
			}
			return printer.Print(map[string]any{"extensions": extensions}, tbl)
		},
	}
}

func newExtensionsSettingsCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show extension settings and chain_<name> argument sets",
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

			settings, err := s.Registry.ExtensionSettings(cmd.Context())
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tbl := cli.Table{Headers: []string{"name", "count", "settings"}}
			for _, k := range keys {
				tbl.Rows = append(tbl.Rows, []string{k, strconv.Itoa(settings[k].Len()), cli.FormatParams(settings[k])})
			}
			return printer.Print(map[string]any{"extension_settings": settings}, tbl)
		},
	}
}
