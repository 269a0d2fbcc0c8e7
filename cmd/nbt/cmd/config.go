/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/nbt/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the nbt configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Annotations: map[string]string{
		optionalConfig: "true",
	},
	Long: `Write a configuration file with default settings. An existing file is
left alone unless --force is given.

Example:
  nbt config init
  nbt config init --config ./nbt.yaml --snapshot-dir ./snapshots`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		snapshotDir, _ := cmd.Flags().GetString("snapshot-dir")
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(path) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", path)
			return nil
		}

		cfg := config.DefaultConfig()
		if snapshotDir != "" {
			cfg.SnapshotDir = snapshotDir
		}
		if err := config.SaveConfig(cfg, path); err != nil {
			return err
		}

		e.log.Info("configuration written", "path", path)
		status(cmd.OutOrStdout(), e.cfg.Output.Color, "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(e.cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().String("snapshot-dir", "", "Snapshot store directory to record")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
