// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure in a transfer is fatal: the kind tells the CLI how to present it,
// never whether to retry it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ValidationFailed indicates a source or destination path that is missing or not writable.
	ValidationFailed Kind = "validation_error"
	// ParseFailed indicates a malformed or incomplete connection string.
	ParseFailed Kind = "parse_error"
	// DumpFailed indicates the external dump utility could not run or exited non-zero.
	DumpFailed Kind = "dump_error"
	// ApplyFailed indicates the external client could not run a script or exited non-zero.
	ApplyFailed Kind = "apply_error"
	// ConnectionFailed indicates a database connection could not be opened.
	ConnectionFailed Kind = "connection_error"
	// ConfigInvalid indicates an unusable configuration value.
	ConfigInvalid Kind = "config_error"
	// IOFailed indicates a local file could not be read, written or appended to.
	IOFailed Kind = "io_error"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
