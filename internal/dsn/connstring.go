// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"fmt"
	"strings"
)

// ConnStringResolver handles semicolon-delimited key=value connection strings.
type ConnStringResolver struct{}

// NewConnStringResolver creates a new connection string resolver
func NewConnStringResolver() *ConnStringResolver {
	return &ConnStringResolver{}
}

// Parse splits s on ';' and each segment on its first '='. Keys are trimmed and
// lower-cased, and the legacy spellings "user id" and "password" become uid and pwd.
// Values may be wrapped in single or double quotes to carry ';'.
func (r *ConnStringResolver) Parse(s string) (*Descriptor, error) {
	if strings.TrimSpace(s) == "" {
		return nil, NewParseError(s, "empty connection string", "use server=<host>;database=<name>;uid=<user>;pwd=<password>")
	}

	segments, err := splitSegments(s)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Params:   make(map[string]string),
		Format:   FormatConnString,
		Original: s,
	}
	seen := make(map[string]bool)

	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		eq := strings.Index(seg, "=")
		if eq == -1 {
			return nil, NewParseError(s,
				fmt.Sprintf("segment %q has no '='", strings.TrimSpace(seg)),
				"every segment must be written as key=value")
		}
		key := strings.ToLower(strings.TrimSpace(seg[:eq]))
		if key == "" {
			return nil, NewParseError(s, "segment with empty key", "every segment must be written as key=value")
		}
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if seen[key] {
			return nil, NewParseError(s, fmt.Sprintf("duplicate key %q", key), "")
		}
		seen[key] = true

		value, err := unquote(strings.TrimSpace(seg[eq+1:]))
		if err != nil {
			return nil, NewParseError(s, err.Error(), "close every quoted value")
		}

		switch key {
		case KeyServer:
			d.Server = value
		case KeyPort:
			d.Port = value
		case KeyDatabase:
			d.Database = value
		case KeyUser:
			d.User = value
		case KeyPassword:
			d.Password = value
			d.passwordSet = true
		default:
			d.Params[key] = value
		}
	}

	return d, nil
}

// Normalize renders d as a canonical connection string.
func (r *ConnStringResolver) Normalize(d *Descriptor) (string, error) {
	if d == nil {
		return "", NewParseError("", "nil descriptor", "")
	}
	return d.String(), nil
}

// Validate checks that s parses and carries every required key.
func (r *ConnStringResolver) Validate(s string) error {
	d, err := r.Parse(s)
	if err != nil {
		return err
	}
	if err := d.Require(); err != nil {
		return err
	}
	return validatePort(d)
}

// splitSegments splits on ';' outside of quotes.
func splitSegments(s string) ([]string, error) {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)
	for _, c := range s {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteRune(c)
		case c == '\'' || c == '"':
			quote = c
			cur.WriteRune(c)
		case c == ';':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	if quote != 0 {
		return nil, NewParseError(s, "unterminated quoted value", "close every quoted value")
	}
	out = append(out, cur.String())
	return out, nil
}

// unquote strips one level of matching quotes; a doubled quote inside is an escaped quote.
func unquote(v string) (string, error) {
	if len(v) < 2 {
		return v, nil
	}
	q := v[0]
	if q != '\'' && q != '"' {
		return v, nil
	}
	if v[len(v)-1] != q {
		return "", fmt.Errorf("value %s has unbalanced quotes", v)
	}
	inner := v[1 : len(v)-1]
	return strings.ReplaceAll(inner, string(q)+string(q), string(q)), nil
}
