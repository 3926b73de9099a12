// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"mysqlsync/cli/internal/dbconn"
	"mysqlsync/cli/internal/dsn"
	"mysqlsync/cli/internal/endpoint"
	"mysqlsync/cli/internal/keychain"
	"mysqlsync/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var connectSkipCheck bool

// connectCmd verifies a connection string and saves it in the OS keychain
// under a name that other commands accept as @name.
var connectCmd = &cobra.Command{
	Use:   "connect NAME [CONNECTION]",
	Short: "Verify and save a named MySQL connection",
	Long: `The connect command verifies a MySQL connection string and stores it in the OS
keychain. Afterwards it can be used anywhere an endpoint is expected as @NAME.

When CONNECTION is omitted it is read from the terminal without echo.

Example: server=db1;port=3306;database=app;uid=backup;pwd=secret`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := keychain.ValidateName(name); err != nil {
			return err
		}

		raw := ""
		if len(args) == 2 {
			raw = args[1]
		} else {
			var err error
			if raw, err = promptConnection(); err != nil {
				return err
			}
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return errors.New("connection string is required")
		}

		e := endpoint.Classify(raw)
		if e.IsFile() {
			return fmt.Errorf("%s is a script path; only connection strings can be saved", raw)
		}
		d, err := e.Descriptor()
		if err != nil {
			return err
		}

		if !connectSkipCheck {
			stop := startInlineSpinner(os.Stderr, "verifying connection", spinnerFrames, 100*time.Millisecond)
			ctx, cancel := context.WithTimeout(cmd.Context(), appConfig.ConnectTimeout.Std())
			err := dbconn.NewMySQLChecker(appConfig.ConnectTimeout.Std()).Check(ctx, d)
			cancel()
			stop()
			if err != nil {
				return err
			}
		}

		canonical, err := dsn.Normalize(d)
		if err != nil {
			return err
		}

		km, err := keychain.GetManager()
		if err != nil {
			pterm.Error.Println("Secure storage is not available on this system.")
			pterm.Println("   Connection verified but not saved.")
			return err
		}
		if err := km.SaveConnection(name, canonical); err != nil {
			pterm.Error.Println("Failed to save connection details securely.")
			return err
		}

		pterm.Success.Printf("Connection %s saved: %s\n", name, d.Redacted())
		pterm.Printf("   Use it as @%s, e.g. mysqlsync sync -s @%s -d /path/to/dump.sql\n", name, name)
		return nil
	},
}

func promptConnection() (string, error) {
	promptText := "Enter MySQL connection string (server=...;database=...;uid=...;pwd=...): "
	fmt.Print(promptText)

	if terminal.IsInteractive(os.Stdin) {
		return terminal.ReadSecret(os.Stdin)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	// clear the echoed prompt and input
	terminal.ClearPreviousLines(len(promptText) + len(line))
	return line, nil
}

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().BoolVar(&connectSkipCheck, "no-verify", false, "Save without opening a test connection")
}
