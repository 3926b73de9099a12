// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses MySQL connection descriptors. Two input forms are accepted:
// the semicolon-delimited connection string (server=h;database=d;uid=u;pwd=p)
// and a mysql:// URL.
package dsn

import (
	"fmt"
	"sort"
	"strings"
)

// Format identifies how a connection descriptor was written.
type Format string

const (
	FormatConnString Format = "connstring"
	FormatURL        Format = "url"
)

// Canonical keys of a connection string.
const (
	KeyServer   = "server"
	KeyDatabase = "database"
	KeyUser     = "uid"
	KeyPassword = "pwd"
	KeyPort     = "port"
)

// aliases maps historical key spellings to their canonical form.
var aliases = map[string]string{
	"user id":  KeyUser,
	"password": KeyPassword,
}

// Descriptor holds a parsed MySQL connection descriptor.
type Descriptor struct {
	Server   string
	Port     string
	Database string
	User     string
	Password string
	// Params holds unrecognized keys, lower-cased.
	Params   map[string]string
	Format   Format
	Original string

	// passwordSet records an explicit empty pwd, which MySQL accepts.
	passwordSet bool
}

// Require checks that server, database, uid and pwd were all supplied.
// An empty pwd value counts as supplied; a missing key does not.
func (d *Descriptor) Require() error {
	var missing []string
	if strings.TrimSpace(d.Server) == "" {
		missing = append(missing, KeyServer)
	}
	if strings.TrimSpace(d.Database) == "" {
		missing = append(missing, KeyDatabase)
	}
	if strings.TrimSpace(d.User) == "" {
		missing = append(missing, KeyUser)
	}
	if d.Password == "" && !d.passwordSet {
		missing = append(missing, KeyPassword)
	}
	if len(missing) > 0 {
		return NewParseError(d.Original,
			fmt.Sprintf("missing required keys: %s", strings.Join(missing, ", ")),
			"use server=<host>;database=<name>;uid=<user>;pwd=<password>")
	}
	return nil
}

// String renders the descriptor as a canonical connection string.
func (d *Descriptor) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+quote(v))
		}
	}
	add(KeyServer, d.Server)
	add(KeyPort, d.Port)
	add(KeyDatabase, d.Database)
	add(KeyUser, d.User)
	if d.Password != "" || d.passwordSet {
		parts = append(parts, KeyPassword+"="+quote(d.Password))
	}

	keys := make([]string, 0, len(d.Params))
	for k := range d.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, d.Params[k])
	}
	return strings.Join(parts, ";")
}

// Redacted renders the descriptor with the password replaced by ***.
func (d *Descriptor) Redacted() string {
	c := *d
	if c.Password != "" {
		c.Password = "***"
	}
	return c.String()
}

// quote wraps values containing separators in single quotes.
func quote(v string) string {
	if strings.ContainsAny(v, ";'\"") || strings.TrimSpace(v) != v {
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return v
}

// Resolver is an interface for format-specific descriptor parsing
type Resolver interface {
	// Parse parses a descriptor string
	Parse(s string) (*Descriptor, error)

	// Normalize renders a descriptor back into this resolver's format
	Normalize(d *Descriptor) (string, error)

	// Validate checks that the string parses and names every required key
	Validate(s string) error
}

// ParseError represents an error that occurred during descriptor parsing
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid connection string: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid connection string: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{
		DSN:    dsn,
		Reason: reason,
		Hint:   hint,
	}
}
