// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mysqlsync/cli/internal/config"
	"mysqlsync/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var configForce bool

// configCmd shows the resolved configuration and checks it.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `The config command prints the configuration after defaults, the config file and
MYSQLSYNC_* environment overrides have been applied, then checks that both MySQL
tools and the temp directory are usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		c := appConfig
		rows := pterm.TableData{
			{"Setting", "Value"},
			{"config file", p},
			{"mysql_dump_executable_path", c.MySQLDumpExecutablePath},
			{"mysql_executable_path", c.MySQLExecutablePath},
			{"temp_dir", c.TempDir},
			{"timeout", c.Timeout.Std().String()},
			{"connect_timeout", c.ConnectTimeout.Std().String()},
			{"log_level", c.LogLevel},
			{"log_format", c.LogFormat},
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
		pterm.Println()

		if err := c.Validate(); err != nil {
			pterm.Warning.Println(logging.Mask(err.Error()))
			return nil
		}
		pterm.Success.Println("Configuration is usable")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", p)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return err
		}
		if err := config.SaveFile(p, appConfig); err != nil {
			return err
		}
		pterm.Success.Println("Configuration written to " + p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}
