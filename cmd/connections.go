// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"mysqlsync/cli/internal/keychain"
	"mysqlsync/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// connectionsCmd lists saved connections with passwords masked.
var connectionsCmd = &cobra.Command{
	Use:     "connections",
	Aliases: []string{"ls"},
	Short:   "List saved connections",
	Long: `The connections command lists the connections saved with 'mysqlsync connect'.
Passwords are replaced with *** so the output is safe to share.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			pterm.Error.Println("Secure storage is not available on this system")
			return err
		}
		names, err := km.ListConnections()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			pterm.Warning.Println("No saved connections")
			pterm.Println("   Run: mysqlsync connect NAME")
			return nil
		}

		rows := pterm.TableData{{"Name", "Connection"}}
		for _, n := range names {
			conn, err := km.LoadConnection(n)
			if err != nil {
				conn = "<unreadable: " + err.Error() + ">"
			}
			rows = append(rows, []string{"@" + n, logging.Mask(conn)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(connectionsCmd)
}
