// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"mysqlsync/cli/internal/endpoint"
	xerrors "mysqlsync/cli/internal/errors"
	"mysqlsync/cli/internal/transfer"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dumpOutput string

// dumpCmd writes the script form of an endpoint to stdout or appends it to a file.
var dumpCmd = &cobra.Command{
	Use:   "dump ENDPOINT",
	Short: "Write a database dump or script to stdout or a file",
	Long: `The dump command prints the SQL script for ENDPOINT. A database is dumped with
mysqldump; a script is copied as is. With --output the content is appended to
the given script instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := resolveEndpoint(args[0])
		if err != nil {
			return err
		}

		if dumpOutput != "" {
			out, err := absScriptPath(dumpOutput)
			if err != nil {
				return err
			}
			spin := startStageSpinner(spinnerEnabled())
			err = newService(appConfig, spin.Stage).Transfer(cmd.Context(), transfer.Request{
				Source:      src,
				Destination: endpoint.Classify(out),
			})
			spin.Stop()
			if err != nil {
				return err
			}
			pterm.Success.Println("Appended to " + out)
			return nil
		}

		// stdout carries the script, so no spinner here
		rc, err := newService(appConfig, nil).Stream(cmd.Context(), src)
		if err != nil {
			return err
		}
		defer rc.Close()
		if _, err := io.Copy(cmd.OutOrStdout(), rc); err != nil {
			return xerrors.Wrap(xerrors.IOFailed, "cannot write dump to stdout", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "Append to this script instead of writing to stdout")
}
