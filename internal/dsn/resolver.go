// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"fmt"
	"regexp"
	"strings"
)

var rePort = regexp.MustCompile(`^\d+$`)

// DetectFormat reports whether s is a mysql:// URL or a connection string.
func DetectFormat(s string) Format {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "mysql://") {
		return FormatURL
	}
	return FormatConnString
}

func resolverFor(f Format) Resolver {
	if f == FormatURL {
		return NewURLResolver()
	}
	return NewConnStringResolver()
}

// Parse parses s in whichever format it is written in. Missing required keys
// are not reported here; call Descriptor.Require or use ParseRequired.
func Parse(s string) (*Descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, NewParseError(s, "empty connection string", "provide a valid MySQL connection string")
	}
	return resolverFor(DetectFormat(s)).Parse(s)
}

// ParseRequired parses s and checks that server, database, uid and pwd are present.
func ParseRequired(s string) (*Descriptor, error) {
	d, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if err := d.Require(); err != nil {
		return nil, err
	}
	if err := validatePort(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate validates s without returning the descriptor
func Validate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewParseError(s, "empty connection string", "provide a valid MySQL connection string")
	}
	return resolverFor(DetectFormat(s)).Validate(s)
}

// Normalize renders d in its original format.
func Normalize(d *Descriptor) (string, error) {
	if d == nil {
		return "", NewParseError("", "nil descriptor", "")
	}
	return resolverFor(d.Format).Normalize(d)
}

func validatePort(d *Descriptor) error {
	_, port := d.HostPort()
	if port != "" && !rePort.MatchString(port) {
		return NewParseError(d.Original, fmt.Sprintf("invalid port number: %s", port), "port must be numeric")
	}
	return nil
}
