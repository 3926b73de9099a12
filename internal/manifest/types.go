// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest runs batches of transfers described in a YAML file.
//
//	transfers:
//	  - source: /var/backups/schema/**/*.sql
//	    destination: "@staging"
//	  - source: "@prod"
//	    destination: /var/backups/prod.sql
//	    what_if: true
//
// Script sources may be glob patterns; every match becomes its own transfer.
package manifest

// Manifest is a list of transfers run in order.
type Manifest struct {
	Transfers []Entry `yaml:"transfers"`
}

// Entry describes one source/destination pair.
type Entry struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	WhatIf      bool   `yaml:"what_if"`
}
