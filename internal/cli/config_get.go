package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/kepler/internal/config"
)

// NewConfigGetCmd creates the config get command for reading one value.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long:  "Prints the effective value at a dotted key such as solver.tolerance or cache.",
		Example: `  # Get the Newton tolerance
  kepler config get solver.tolerance

  # Get a whole section
  kepler config get cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}

			switch v := value.(type) {
			case map[string]interface{}:
				data, marshalErr := yaml.Marshal(v)
				if marshalErr != nil {
					return fmt.Errorf("marshalling %s: %w", args[0], marshalErr)
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
			default:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command for printing the
// effective configuration.
func NewConfigListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Example: `  # List as YAML
  kepler config list

  # List as JSON
  kepler config list --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()

			var (
				data []byte
				err  error
			)
			switch format {
			case "yaml":
				data, err = yaml.Marshal(cfg)
			case "json":
				data, err = json.MarshalIndent(cfg, "", "  ")
				data = append(data, '\n')
			default:
				return fmt.Errorf("unsupported format: %s (want yaml or json)", format)
			}
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")

	return cmd
}
