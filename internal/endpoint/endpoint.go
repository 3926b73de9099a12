// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoint classifies the two sides of a transfer. A side is either an
// absolute path to a SQL script or a MySQL connection descriptor; nothing else
// is recognized, and classification itself never fails.
package endpoint

import (
	"fmt"
	"os"
	"path/filepath"

	"mysqlsync/cli/internal/dsn"
	xerrors "mysqlsync/cli/internal/errors"
	"mysqlsync/cli/internal/logging"
)

// Kind distinguishes script files from databases.
type Kind int

const (
	// KindConnection is a MySQL connection descriptor (parsed lazily).
	KindConnection Kind = iota
	// KindFile is an absolute filesystem path to a SQL script.
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "script"
	}
	return "database"
}

// Endpoint is one side of a transfer.
type Endpoint struct {
	Raw  string
	Kind Kind
}

// Classify returns a file endpoint when path is at least three characters long
// and starts with a drive letter followed by ':' and a separator, or with two
// separators (a UNC share). Everything else is a connection descriptor.
func Classify(path string) Endpoint {
	if IsAbsolutePhysicalPath(path) {
		return Endpoint{Raw: path, Kind: KindFile}
	}
	return Endpoint{Raw: path, Kind: KindConnection}
}

// IsAbsolutePhysicalPath reports whether path uses the drive-letter or share form.
func IsAbsolutePhysicalPath(path string) bool {
	if len(path) < 3 {
		return false
	}
	if isDriveLetter(path[0]) && path[1] == ':' && isSeparator(path[2]) {
		return true
	}
	if isSeparator(path[0]) && isSeparator(path[1]) {
		return true
	}
	// Rooted POSIX paths; on Windows a leading '/' is drive-relative and stays ambiguous.
	return filepath.Separator == '/' && path[0] == '/'
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSeparator(c byte) bool {
	return c == '\\' || c == '/'
}

// IsFile reports whether e is a script file.
func (e Endpoint) IsFile() bool { return e.Kind == KindFile }

// IsDatabase reports whether e is a connection descriptor.
func (e Endpoint) IsDatabase() bool { return e.Kind == KindConnection }

// Descriptor parses the connection descriptor and checks the required keys.
// Calling it on a file endpoint is a programming error and returns a parse error.
func (e Endpoint) Descriptor() (*dsn.Descriptor, error) {
	if e.IsFile() {
		return nil, xerrors.New(xerrors.ParseFailed, fmt.Sprintf("%s is a script path, not a connection string", e.Raw))
	}
	d, err := dsn.ParseRequired(e.Raw)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ParseFailed, "connection string "+logging.Mask(e.Raw)+" is not usable", err)
	}
	return d, nil
}

// Summary returns a display form of e with secrets masked.
func (e Endpoint) Summary() string {
	if e.IsFile() {
		return e.Raw
	}
	return logging.Mask(e.Raw)
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Summary())
}

// ValidateSource checks that a script source exists and is a regular file.
func ValidateSource(e Endpoint) error {
	if !e.IsFile() {
		return nil
	}
	info, err := os.Stat(e.Raw)
	if err != nil {
		return xerrors.Wrap(xerrors.ValidationFailed, "File "+e.Raw+" is not accessible", err)
	}
	if info.IsDir() {
		return xerrors.New(xerrors.ValidationFailed, "File "+e.Raw+" is a directory")
	}
	return nil
}

// ValidateDestination checks that a script destination can be appended to.
// An existing file is opened for append and closed without writing; a missing
// file is acceptable when its parent directory exists.
func ValidateDestination(e Endpoint) error {
	if !e.IsFile() {
		return nil
	}
	info, err := os.Stat(e.Raw)
	switch {
	case err == nil:
		if info.IsDir() {
			return xerrors.New(xerrors.ValidationFailed, "File "+e.Raw+" is a directory")
		}
		f, err := os.OpenFile(e.Raw, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return xerrors.Wrap(xerrors.ValidationFailed, "File "+e.Raw+" is not writable", err)
		}
		return f.Close()
	case os.IsNotExist(err):
		dir := filepath.Dir(e.Raw)
		if st, derr := os.Stat(dir); derr != nil || !st.IsDir() {
			return xerrors.New(xerrors.ValidationFailed, "Directory "+dir+" for "+e.Raw+" is not accessible")
		}
		return nil
	default:
		return xerrors.Wrap(xerrors.ValidationFailed, "File "+e.Raw+" is not accessible", err)
	}
}
