/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/scryptd/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default scryptd configuration as JSON.

The file goes to the path given with --config, or to
~/.config/scryptd/config.json. An existing file is left alone unless
--force is set.

Examples:
  scryptd init
  scryptd init -c /etc/scryptd/config.json --force`,
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")

		path, err := initConfig(configPath, force)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}

// initConfig bootstraps the config file and returns its path
func initConfig(configPath string, force bool) (string, error) {
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	if config.ConfigExists(configPath) && !force {
		return "", fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
	}
	if _, err := config.BootstrapConfig(configPath); err != nil {
		return "", err
	}
	return configPath, nil
}
