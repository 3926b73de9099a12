// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"mysqlsync/cli/internal/endpoint"
	"mysqlsync/cli/internal/keychain"
)

func stubSaved(t *testing.T, saved map[string]string) {
	t.Helper()
	prev := loadSaved
	loadSaved = func(name string) (string, error) {
		if v, ok := saved[name]; ok {
			return v, nil
		}
		return "", keychain.ErrNotFound
	}
	t.Cleanup(func() { loadSaved = prev })
}

func TestResolveArg(t *testing.T) {
	stubSaved(t, map[string]string{"prod": "server=prod;database=app;uid=u;pwd=p"})

	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr string
	}{
		{name: "saved", arg: "@prod", want: "server=prod;database=app;uid=u;pwd=p"},
		{name: "literal", arg: "server=h;database=d;uid=u;pwd=p", want: "server=h;database=d;uid=u;pwd=p"},
		{name: "trimmed", arg: "  /tmp/a.sql ", want: "/tmp/a.sql"},
		{name: "unknown", arg: "@nope", wantErr: "mysqlsync connect nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveArg(tt.arg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("resolveArg(%q) error = %v, want %q", tt.arg, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveArg(%q) error = %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("resolveArg(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestResolveEndpoint_SavedIsDatabase(t *testing.T) {
	stubSaved(t, map[string]string{"prod": "server=prod;database=app;uid=u;pwd=p"})
	e, err := resolveEndpoint("@prod")
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != endpoint.KindConnection {
		t.Errorf("Kind = %v, want database", e.Kind)
	}
}

func TestAbsScriptPath(t *testing.T) {
	got, err := absScriptPath("out.sql")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "out.sql" {
		t.Errorf("absScriptPath() = %q", got)
	}
	if got, _ := absScriptPath(""); got != "" {
		t.Errorf("absScriptPath(\"\") = %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	t.Setenv("MYSQLSYNC_CONFIG", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "mysqlsync "+Version) {
		t.Errorf("output = %q", out.String())
	}
}
