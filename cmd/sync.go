// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"time"

	"mysqlsync/cli/internal/config"
	"mysqlsync/cli/internal/manifest"
	"mysqlsync/cli/internal/transfer"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	syncSource       string
	syncDest         string
	syncWhatIf       bool
	syncTimeout      time.Duration
	syncManifestPath string
	syncMySQLDump    string
	syncMySQL        string
)

// syncCmd copies a database or script into a database or script.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Transfer content from a source to a destination",
	Long: `The sync command moves content between MySQL databases and SQL scripts:

  script   → database   run the script against the database
  script   → script     append the source script to the destination
  database → script     dump the database and append the dump
  database → database   dump the source and run the dump against the destination

Scripts are appended to, never overwritten. Use --what-if to preview the route
without touching anything, or --manifest to run a batch from a YAML file.`,
	Example: `  mysqlsync sync -s "server=db1;database=app;uid=root;pwd=secret" -d /var/backups/app.sql
  mysqlsync sync -s @prod -d @staging --what-if
  mysqlsync sync --manifest nightly.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applySyncOverrides(cmd)

		if syncManifestPath != "" {
			return runManifest(cmd)
		}
		if syncSource == "" || syncDest == "" {
			return errors.New("both --source and --dest are required (or use --manifest)")
		}

		src, err := resolveEndpoint(syncSource)
		if err != nil {
			return err
		}
		dst, err := resolveEndpoint(syncDest)
		if err != nil {
			return err
		}
		req := transfer.Request{Source: src, Destination: dst, DryRun: syncWhatIf}
		route := transfer.SelectRoute(src, dst)

		if syncWhatIf {
			printWhatIf(req, route)
			return newService(appConfig, nil).Transfer(cmd.Context(), req)
		}

		spin := startStageSpinner(spinnerEnabled())
		start := time.Now()
		err = newService(appConfig, spin.Stage).Transfer(cmd.Context(), req)
		spin.Stop()
		if err != nil {
			return err
		}
		notifyTransferDone(route, time.Since(start))
		return nil
	},
}

func applySyncOverrides(cmd *cobra.Command) {
	if cmd.Flags().Changed("timeout") {
		appConfig.Timeout = config.Duration(syncTimeout)
	}
	if syncMySQLDump != "" {
		appConfig.MySQLDumpExecutablePath = syncMySQLDump
	}
	if syncMySQL != "" {
		appConfig.MySQLExecutablePath = syncMySQL
	}
}

func runManifest(cmd *cobra.Command) error {
	m, err := manifest.Load(syncManifestPath)
	if err != nil {
		return err
	}
	if syncWhatIf {
		for i := range m.Transfers {
			m.Transfers[i].WhatIf = true
		}
	}
	reqs, err := manifest.Plan(m, resolveArg)
	if err != nil {
		return err
	}
	for _, r := range reqs {
		if r.DryRun {
			printWhatIf(r, transfer.SelectRoute(r.Source, r.Destination))
		}
	}

	spin := startStageSpinner(spinnerEnabled())
	start := time.Now()
	done, err := manifest.Execute(cmd.Context(), reqs, newService(appConfig, spin.Stage))
	spin.Stop()
	if err != nil {
		pterm.Warning.Printf("%d of %d transfers completed before the failure\n", done, len(reqs))
		return err
	}
	pterm.Success.Printf("%d transfers completed in %s\n", done, time.Since(start).Round(time.Millisecond))
	return nil
}

func printWhatIf(req transfer.Request, route transfer.Route) {
	pterm.Info.Printf("What if: %s\n", route.Describe())
	pterm.Println("  source:      " + req.Source.Summary())
	pterm.Println("  destination: " + req.Destination.Summary())
}

func notifyTransferDone(route transfer.Route, elapsed time.Duration) {
	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Transfer Completed")
	details := fmt.Sprintf("Route: %s\nDuration: %s", route, elapsed.Round(time.Millisecond))
	pterm.Println(pterm.DefaultBox.WithTitle(title).WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).Sprint(details))
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVarP(&syncSource, "source", "s", "", "Source script path, connection string or @name")
	syncCmd.Flags().StringVarP(&syncDest, "dest", "d", "", "Destination script path, connection string or @name")
	syncCmd.Flags().BoolVar(&syncWhatIf, "what-if", false, "Show what would happen without changing anything")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", config.DefaultTimeout, "Maximum time to wait for mysqldump or mysql")
	syncCmd.Flags().StringVar(&syncManifestPath, "manifest", "", "Run the transfers listed in a YAML manifest")
	syncCmd.Flags().StringVar(&syncMySQLDump, "mysqldump", "", "Absolute path to mysqldump (overrides mysql_dump_executable_path)")
	syncCmd.Flags().StringVar(&syncMySQL, "mysql", "", "Absolute path to the mysql client (overrides mysql_executable_path)")
}
