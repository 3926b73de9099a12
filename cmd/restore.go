// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"io"
	"os"

	xerrors "mysqlsync/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	restoreDest   string
	restoreInput  string
	restoreWhatIf bool
)

// restoreCmd applies a script read from stdin or a file to a destination.
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Apply a script from stdin or a file to a destination",
	Long: `The restore command reads SQL from stdin (or --input) and runs it against a
database destination, or appends it to a script destination.`,
	Example: `  mysqldump app | mysqlsync restore --dest @staging
  mysqlsync restore --dest /var/backups/all.sql --input part.sql`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreDest == "" {
			return errors.New("--dest is required")
		}
		dst, err := resolveEndpoint(restoreDest)
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if restoreInput != "" && restoreInput != "-" {
			f, err := os.Open(restoreInput)
			if err != nil {
				return xerrors.Wrap(xerrors.IOFailed, "cannot read "+restoreInput, err)
			}
			defer f.Close()
			in = f
		}

		if restoreWhatIf {
			pterm.Info.Println("What if: apply the input to " + dst.Summary())
		}

		// the spinner would fight with a reader on a terminal stdin
		spin := startStageSpinner(spinnerEnabled() && restoreInput != "")
		err = newService(appConfig, spin.Stage).Restore(cmd.Context(), in, dst, restoreWhatIf)
		spin.Stop()
		if err != nil {
			return err
		}
		if !restoreWhatIf {
			pterm.Success.Println("Restored into " + dst.Summary())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().StringVarP(&restoreDest, "dest", "d", "", "Destination script path, connection string or @name")
	restoreCmd.Flags().StringVarP(&restoreInput, "input", "i", "", "Read the script from this file instead of stdin")
	restoreCmd.Flags().BoolVar(&restoreWhatIf, "what-if", false, "Show what would happen without changing anything")
}
