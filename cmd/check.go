// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"mysqlsync/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var checkAsDest bool

// checkCmd validates endpoints without transferring anything.
var checkCmd = &cobra.Command{
	Use:   "check ENDPOINT...",
	Short: "Validate scripts and connection strings",
	Long: `The check command validates each ENDPOINT the way sync would before a transfer:
scripts must exist (or, with --dest, be appendable) and connection strings must
parse and accept a connection.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o := newService(appConfig, nil)
		failed := 0
		for _, arg := range args {
			e, err := resolveEndpoint(arg)
			if err == nil {
				err = o.Check(cmd.Context(), e, !checkAsDest)
			}
			label := logging.Mask(arg)
			if err != nil {
				failed++
				pterm.Error.Println(logging.PresentError(label, err))
				continue
			}
			pterm.Success.Printf("%s (%s)\n", label, e.Kind)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d endpoints failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkAsDest, "dest", false, "Validate scripts as destinations instead of sources")
}
