// Package main is the entry point for the mysqlsync CLI.
package main

import (
	"mysqlsync/cli/cmd"
)

func main() {
	cmd.Execute()
}
