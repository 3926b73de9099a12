// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	xerrors "mysqlsync/cli/internal/errors"
	"mysqlsync/cli/internal/transfer"
)

type recorder struct {
	reqs   []transfer.Request
	failAt int
}

func (r *recorder) Transfer(_ context.Context, req transfer.Request) error {
	r.reqs = append(r.reqs, req)
	if r.failAt > 0 && len(r.reqs) == r.failAt {
		return xerrors.New(xerrors.ApplyFailed, "boom")
	}
	return nil
}

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader(`
transfers:
  - source: "server=a;database=d;uid=u;pwd=p"
    destination: /tmp/out.sql
    what_if: true
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(m.Transfers) != 1 || !m.Transfers[0].WhatIf || m.Transfers[0].Destination != "/tmp/out.sql" {
		t.Errorf("Parse() = %+v", m)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no transfers", "transfers: []\n"},
		{"missing destination", "transfers:\n  - source: a\n"},
		{"unknown key", "transfers:\n  - source: a\n    destination: b\n    whatif: true\n"},
		{"not yaml", "transfers: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			if !xerrors.IsKind(err, xerrors.ConfigInvalid) {
				t.Errorf("got %v, want config_error", err)
			}
		})
	}
}

func TestPlan_ExpandsGlobsInOrder(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"b.sql", "a.sql", "sub/c.sql", "notes.txt"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := &Manifest{Transfers: []Entry{{
		Source:      filepath.Join(dir, "**", "*.sql"),
		Destination: "server=h;database=d;uid=u;pwd=p",
	}}}
	reqs, err := Plan(m, nil)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	var got []string
	for _, r := range reqs {
		rel, _ := filepath.Rel(dir, r.Source.Raw)
		got = append(got, filepath.ToSlash(rel))
		if !r.Destination.IsDatabase() {
			t.Errorf("destination classified as %v", r.Destination.Kind)
		}
	}
	if strings.Join(got, ",") != "a.sql,b.sql,sub/c.sql" {
		t.Errorf("sources = %v", got)
	}
}

func TestPlan_NoMatch(t *testing.T) {
	m := &Manifest{Transfers: []Entry{{
		Source:      filepath.Join(t.TempDir(), "*.sql"),
		Destination: "server=h;database=d;uid=u;pwd=p",
	}}}
	if _, err := Plan(m, nil); !xerrors.IsKind(err, xerrors.ValidationFailed) {
		t.Errorf("got %v, want validation_error", err)
	}
}

func TestPlan_ResolvesNames(t *testing.T) {
	m := &Manifest{Transfers: []Entry{{Source: "@prod", Destination: "@staging", WhatIf: true}}}
	resolve := func(s string) (string, error) {
		switch s {
		case "@prod":
			return "server=prod;database=d;uid=u;pwd=p", nil
		case "@staging":
			return "server=staging;database=d;uid=u;pwd=p", nil
		}
		return "", errors.New("unknown")
	}
	reqs, err := Plan(m, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 1 || !reqs[0].DryRun || !strings.Contains(reqs[0].Source.Raw, "server=prod") {
		t.Errorf("Plan() = %+v", reqs)
	}

	m.Transfers[0].Source = "@missing"
	if _, err := Plan(m, resolve); err == nil {
		t.Error("expected resolve error")
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	m := &Manifest{Transfers: []Entry{
		{Source: "server=a;database=d;uid=u;pwd=p", Destination: "server=b;database=d;uid=u;pwd=p"},
		{Source: "server=c;database=d;uid=u;pwd=p", Destination: "server=d;database=d;uid=u;pwd=p"},
		{Source: "server=e;database=d;uid=u;pwd=p", Destination: "server=f;database=d;uid=u;pwd=p"},
	}}
	rec := &recorder{failAt: 2}

	done, err := Run(context.Background(), m, rec, nil)
	if !xerrors.IsKind(err, xerrors.ApplyFailed) {
		t.Fatalf("got %v, want apply_error", err)
	}
	if done != 1 {
		t.Errorf("done = %d, want 1", done)
	}
	if len(rec.reqs) != 2 {
		t.Errorf("ran %d transfers, want 2", len(rec.reqs))
	}
	if strings.Contains(err.Error(), "pwd=p") {
		t.Errorf("error leaked password: %v", err)
	}
}

func TestRun_All(t *testing.T) {
	m := &Manifest{Transfers: []Entry{
		{Source: "server=a;database=d;uid=u;pwd=p", Destination: "server=b;database=d;uid=u;pwd=p"},
		{Source: "server=c;database=d;uid=u;pwd=p", Destination: "server=d;database=d;uid=u;pwd=p"},
	}}
	rec := &recorder{}
	done, err := Run(context.Background(), m, rec, nil)
	if err != nil || done != 2 {
		t.Errorf("Run() = %d, %v", done, err)
	}
}

func TestPlan_RejectsMalformedConnection(t *testing.T) {
	tests := []struct {
		name string
		dst  string
	}{
		{"missing database", "server=h;uid=u;pwd=p"},
		{"bad port", "server=h:abc;database=d;uid=u;pwd=p"},
		{"no key value", "not a connection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Transfers: []Entry{
				{Source: "server=a;database=d;uid=u;pwd=p", Destination: "/tmp/ok.sql"},
				{Source: "server=a;database=d;uid=u;pwd=p", Destination: tt.dst},
			}}
			rec := &recorder{}
			_, err := Run(context.Background(), m, rec, nil)
			if !xerrors.IsKind(err, xerrors.ParseFailed) {
				t.Fatalf("got %v, want parse_error", err)
			}
			if len(rec.reqs) != 0 {
				t.Errorf("ran %d transfers before rejecting the manifest", len(rec.reqs))
			}
		})
	}
}
