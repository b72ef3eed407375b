// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"sdkops/internal/config"
)

var (
	// configCmd groups configuration utilities
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect and bootstrap sdkops configuration",
	}

	// configShowCmd prints the effective configuration
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE:  runConfigShow,
	}

	// configInitCmd writes a starter config file
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file with the built-in defaults",
		RunE:  runConfigInit,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	conf := loadedConfig()

	data, err := toml.Marshal(conf)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	path, err := config.ConfigFilePath()
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("# "+path))
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
