package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"quiver/internal/config"

	"github.com/spf13/cobra"
)

// CommandFlags holds the flags shared by every quiver command.
type CommandFlags struct {
	// OutputFormat is one of table, json or yaml.
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Debug enables debug logging on stderr
	Debug bool
	// ConfigPath is the configuration directory
	ConfigPath string
}

// RegisterCommonFlags registers the shared flags as persistent flags of cmd:
//   - --output/-o: output format (table, json, yaml), default "table"
//   - --no-headers: suppress the table header row
//   - --debug: enable debug logging
//   - --config-path: configuration directory (default ~/.config/quiver)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	defaultPath, err := config.GetUserConfigDir()
	if err != nil {
		defaultPath = ""
	}
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", string(FormatTable), "Output format (table, json, yaml)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", defaultPath, "Configuration directory")
}

// ParseArgs builds a command argument map from key=value pairs and an
// optional JSON object. Pairs override keys of the JSON object. Values are
// kept as strings; commands coerce them.
func ParseArgs(pairs []string, jsonArgs string) (map[string]any, error) {
	args := make(map[string]any)
	if jsonArgs != "" {
		if err := json.Unmarshal([]byte(jsonArgs), &args); err != nil {
			return nil, fmt.Errorf("invalid --args-json: %w", err)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}
