// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for mysqlsync.
// It wires the transfer orchestrator, configuration, saved connections and
// terminal UI together with the Cobra CLI framework.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mysqlsync/cli/internal/config"
	xerrors "mysqlsync/cli/internal/errors"
	"mysqlsync/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
	configPath  string
	logFormat   string

	// Populated by PersistentPreRunE before any subcommand runs.
	appConfig config.Config
	appLogger = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mysqlsync",
	Short: "Copy MySQL databases and SQL scripts between each other",
	Long: `mysqlsync moves content between MySQL databases and SQL script files.

A source or destination is either an absolute path to a .sql script or a
connection string such as server=host;database=app;uid=user;pwd=secret.
Saved connections can be referenced as @name.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv(config.EnvConfigPath, configPath); err != nil {
				return err
			}
		}
		c, err := config.Load()
		if err != nil {
			return err
		}
		if verbose {
			c.LogLevel = "debug"
		}
		if logFormat != "" {
			c.LogFormat = logFormat
		}
		appConfig = c
		appLogger = logging.NewLogger(os.Stderr, c.LogLevel, strings.EqualFold(c.LogFormat, "json"))
		appLogger.Debug("configuration loaded", appLogger.Args(
			"mysqldump", c.MySQLDumpExecutablePath,
			"mysql", c.MySQLExecutablePath,
			"temp_dir", c.TempDir,
		))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("mysqlsync %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. Interrupts cancel the running transfer,
// which terminates any external process it started.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	if xerrors.KindOf(err) != "" {
		logging.PresentTransferError(err)
		return
	}
	pterm.Error.Println(logging.Mask(err.Error()))
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/mysqlsync/config.json)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}
