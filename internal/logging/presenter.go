// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	xerrors "mysqlsync/cli/internal/errors"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Mask(err.Error())
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// FormatTransferError formats a fatal transfer failure in a user-friendly way,
// choosing the explanation from the error kind.
func FormatTransferError(err error) string {
	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Transfer aborted"))
	builder.WriteString("\n\n")

	switch xerrors.KindOf(err) {
	case xerrors.ValidationFailed:
		builder.WriteString("A source or destination path could not be used.\n")
		builder.WriteString("Check that:\n")
		builder.WriteString("  • the source script exists\n")
		builder.WriteString("  • the destination directory exists and is writable\n")

	case xerrors.ParseFailed:
		builder.WriteString("A connection string could not be parsed.\n")
		builder.WriteString("Expected format:\n")
		builder.WriteString("  server=<host>;database=<name>;uid=<user>;pwd=<password>\n")

	case xerrors.ConnectionFailed:
		builder.WriteString("A database could not be reached.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • the server name or port is wrong\n")
		builder.WriteString("  • the user or password was rejected\n")
		builder.WriteString("  • the database does not exist\n")

	case xerrors.DumpFailed:
		builder.WriteString("mysqldump did not complete. The destination was not modified.\n")
		builder.WriteString("Check the mysqldump path in your configuration and the output below.\n")

	case xerrors.ApplyFailed:
		builder.WriteString("The mysql client failed while running the script.\n")
		builder.WriteString("The destination database may be partially updated; there is no rollback.\n")

	case xerrors.IOFailed:
		builder.WriteString("A local file could not be read or written.\n")
		builder.WriteString("A script destination may hold a partial append.\n")

	case xerrors.ConfigInvalid:
		builder.WriteString("The configuration is not usable.\n")
		builder.WriteString("Run 'mysqlsync config' to inspect the resolved settings.\n")

	default:
		builder.WriteString("The transfer failed unexpectedly.\n")
	}

	if err != nil && strings.TrimSpace(err.Error()) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(err.Error())))
	}

	return builder.String()
}

// PresentTransferError displays a formatted transfer error
func PresentTransferError(err error) {
	pterm.Println()
	pterm.Println(FormatTransferError(err))
	pterm.Println()
}
