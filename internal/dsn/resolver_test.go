// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want Format
	}{
		{
			name: "connection string",
			dsn:  "server=h;database=d;uid=u;pwd=p",
			want: FormatConnString,
		},
		{
			name: "mysql url",
			dsn:  "mysql://u:p@h:3306/d",
			want: FormatURL,
		},
		{
			name: "mysql url uppercase",
			dsn:  "  MYSQL://u:p@h/d",
			want: FormatURL,
		},
		{
			name: "anything else",
			dsn:  "postgres://u:p@h/d",
			want: FormatConnString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.dsn); got != tt.want {
				t.Errorf("DetectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRequired(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		expectError bool
	}{
		{
			name: "complete connection string",
			dsn:  "server=h;database=d;uid=u;pwd=p",
		},
		{
			name: "complete url",
			dsn:  "mysql://u:p@h:3307/d",
		},
		{
			name: "explicit empty password",
			dsn:  "server=h;database=d;uid=root;pwd=",
		},
		{
			name:        "missing password key",
			dsn:         "server=h;database=d;uid=u",
			expectError: true,
		},
		{
			name:        "missing server",
			dsn:         "database=d;uid=u;pwd=p",
			expectError: true,
		},
		{
			name:        "non numeric port",
			dsn:         "server=h;port=abc;database=d;uid=u;pwd=p",
			expectError: true,
		},
		{
			name:        "empty",
			dsn:         "   ",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequired(tt.dsn)
			if tt.expectError {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := Validate(tt.dsn); err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestRequire_ListsMissingKeys(t *testing.T) {
	d, err := Parse("server=h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	err = d.Require()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"database", "uid", "pwd"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %q", err.Error(), key)
		}
	}
}

func TestNormalize_KeepsFormat(t *testing.T) {
	for _, raw := range []string{
		"server=h;database=d;uid=u;pwd=p",
		"mysql://u:p@h:3307/d",
	} {
		d, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", raw, err)
		}
		got, err := Normalize(d)
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if DetectFormat(got) != d.Format {
			t.Errorf("Normalize(%q) = %q changed format", raw, got)
		}
	}
}

func TestHostPort(t *testing.T) {
	tests := []struct {
		name     string
		desc     *Descriptor
		wantHost string
		wantPort string
	}{
		{name: "host only", desc: &Descriptor{Server: "h"}, wantHost: "h"},
		{name: "port key", desc: &Descriptor{Server: "h", Port: "3307"}, wantHost: "h", wantPort: "3307"},
		{name: "port inside server", desc: &Descriptor{Server: "h:3310"}, wantHost: "h", wantPort: "3310"},
		{name: "port key wins", desc: &Descriptor{Server: "h:3310", Port: "3307"}, wantHost: "h", wantPort: "3307"},
		{name: "bracketed ipv6", desc: &Descriptor{Server: "[::1]:3307"}, wantHost: "::1", wantPort: "3307"},
		{name: "bare ipv6", desc: &Descriptor{Server: "::1"}, wantHost: "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port := tt.desc.HostPort()
			if host != tt.wantHost || port != tt.wantPort {
				t.Errorf("HostPort() = %q, %q, want %q, %q", host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestParseRequired_PortInsideServer(t *testing.T) {
	if _, err := ParseRequired("server=h:3307;database=d;uid=u;pwd=p"); err != nil {
		t.Errorf("ParseRequired() error = %v", err)
	}
	if _, err := ParseRequired("server=h:abc;database=d;uid=u;pwd=p"); err == nil {
		t.Error("expected parse error for non numeric port inside server")
	}
}

func TestDriverDSN(t *testing.T) {
	tests := []struct {
		name       string
		desc       *Descriptor
		wantPrefix string
	}{
		{
			name:       "default port",
			desc:       &Descriptor{Server: "h", Database: "d", User: "u", Password: "p"},
			wantPrefix: "u:p@tcp(h:3306)/d",
		},
		{
			name:       "explicit port",
			desc:       &Descriptor{Server: "h", Port: "3307", Database: "d", User: "u", Password: "p"},
			wantPrefix: "u:p@tcp(h:3307)/d",
		},
		{
			name:       "port inside server",
			desc:       &Descriptor{Server: "h:3310", Database: "d", User: "u", Password: "p"},
			wantPrefix: "u:p@tcp(h:3310)/d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.desc.DriverDSN(5 * time.Second)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("DriverDSN() = %q, want prefix %q", got, tt.wantPrefix)
			}
			if !strings.Contains(got, "timeout=5s") {
				t.Errorf("DriverDSN() = %q, want timeout=5s", got)
			}
		})
	}
}
