// Package engines builds command lines for the external MySQL client tools.
package engines

import "mysqlsync/cli/internal/dsn"

// DatabaseEngine turns a connection descriptor into tool arguments. The program
// itself is configured separately, so only arguments are returned.
type DatabaseEngine interface {
	BuildDumpArgs(d *dsn.Descriptor) []string
	BuildApplyArgs(d *dsn.Descriptor) []string
	Name() string
}
