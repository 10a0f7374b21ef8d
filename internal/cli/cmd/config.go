package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchview/benchview/internal/infrastructure/config"
)

var configWriteSchema bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
	Long:  `Inspect the configuration file and its JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE: func(_ *cobra.Command, _ []string) error {
		configFile, err := config.GetConfigFile()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		fmt.Println(configFile)
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	Long: `Print the JSON schema describing config.toml to stdout.

With --write, regenerate config.schema.json in the config directory instead;
editors pick it up for completion and validation.`,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSchemaCmd)

	configSchemaCmd.Flags().BoolVar(&configWriteSchema, "write", false, "write config.schema.json to the config directory")
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	if configWriteSchema {
		return config.GenerateSchemaFile()
	}

	data, err := config.SchemaJSON()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
