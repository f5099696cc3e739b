// ABOUTME: Config command printing the effective configuration.
// ABOUTME: Shows the merged file, environment, and flag values plus the supported variables.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/takubon0202/if-instagram-auto/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Print the configuration after file, environment, and flag overrides, and list the environment variables ifgram reads.",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(globalConfig)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if path, err := config.GetConfigPath(); err == nil {
		fmt.Printf("# %s\n", path)
	}
	fmt.Print(string(data))
	fmt.Println()
	fmt.Print(config.EnvHelp())
	return nil
}
