package cmd

import (
	"context"
	"fmt"
	"io"

	"kuctl/internal/config"
	"kuctl/internal/protocol"
	"kuctl/internal/transport"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect kuctl and agent configuration",
	}
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	opts := &connectOptions{}
	cmd := &cobra.Command{
		Use:   "get [agent-url]",
		Short: "Print the agent configuration document as YAML",
		Long: `Fetches the configuration document from the agent and prints it as YAML.
Option keys kuctl does not edit are printed as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveSettings(opts, args)
			if err != nil {
				return err
			}
			client, err := transport.NewClient(cfg.Agent)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			doc, err := client.FetchConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch agent configuration: %w", err)
			}
			return writeDocumentYAML(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Read settings from this file instead of the user and project config")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective kuctl configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg config.KuctlConfig
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadConfigFile(configPath)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Read settings from this file instead of the user and project config")
	return cmd
}

// writeDocumentYAML goes through the wire encoding so unknown option keys
// are printed with the known ones.
func writeDocumentYAML(w io.Writer, doc protocol.ConfigDocument) error {
	raw, err := sonic.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to convert document: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	_, err = w.Write(out)
	return err
}
