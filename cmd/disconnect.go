// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"mysqlsync/cli/internal/keychain"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var disconnectAll bool

// disconnectCmd removes saved connections from the OS keychain.
var disconnectCmd = &cobra.Command{
	Use:   "disconnect [NAME]",
	Short: "Remove a saved connection",
	Long: `The disconnect command removes a saved connection from the OS keychain.
With --all every saved connection is removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !disconnectAll && len(args) == 0 {
			return errors.New("give a connection NAME or --all")
		}
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}

		if disconnectAll {
			if err := km.ClearConnections(); err != nil {
				return err
			}
			pterm.Success.Println("All saved connections have been removed")
			return nil
		}
		if err := km.DeleteConnection(args[0]); err != nil {
			return err
		}
		pterm.Success.Printf("Connection %s removed\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
	disconnectCmd.Flags().BoolVar(&disconnectAll, "all", false, "Remove every saved connection")
}
