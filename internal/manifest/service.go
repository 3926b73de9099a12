// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"context"
	"fmt"
	"sort"

	"mysqlsync/cli/internal/dsn"
	"mysqlsync/cli/internal/endpoint"
	xerrors "mysqlsync/cli/internal/errors"
	"mysqlsync/cli/internal/transfer"

	"github.com/bmatcuk/doublestar/v4"
)

// Transferer runs a single transfer.
type Transferer interface {
	Transfer(ctx context.Context, req transfer.Request) error
}

// ResolveFunc maps a manifest value to an endpoint string, e.g. a saved
// connection name to its connection string.
type ResolveFunc func(string) (string, error)

// Plan expands m into concrete requests. Script sources containing glob
// metacharacters are expanded in lexical order; a pattern with no match fails.
func Plan(m *Manifest, resolve ResolveFunc) ([]transfer.Request, error) {
	if resolve == nil {
		resolve = func(s string) (string, error) { return s, nil }
	}

	var out []transfer.Request
	for i, e := range m.Transfers {
		src, err := resolve(e.Source)
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i+1, err)
		}
		dst, err := resolve(e.Destination)
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i+1, err)
		}
		if err := checkConnection(src); err != nil {
			return nil, fmt.Errorf("transfer %d source: %w", i+1, err)
		}
		if err := checkConnection(dst); err != nil {
			return nil, fmt.Errorf("transfer %d destination: %w", i+1, err)
		}
		dstEP := endpoint.Classify(dst)

		sources, err := expand(src)
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i+1, err)
		}
		for _, s := range sources {
			out = append(out, transfer.Request{
				Source:      endpoint.Classify(s),
				Destination: dstEP,
				DryRun:      e.WhatIf,
			})
		}
	}
	return out, nil
}

func expand(src string) ([]string, error) {
	ep := endpoint.Classify(src)
	if !ep.IsFile() || !hasMeta(src) {
		return []string{src}, nil
	}
	matches, err := doublestar.FilepathGlob(src, doublestar.WithFilesOnly())
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ValidationFailed, "bad pattern "+src, err)
	}
	if len(matches) == 0 {
		return nil, xerrors.New(xerrors.ValidationFailed, "no script matches "+src)
	}
	sort.Strings(matches)
	return matches, nil
}

// checkConnection rejects a malformed connection string while planning, so a
// typo in a later entry fails the batch before the first transfer runs.
func checkConnection(s string) error {
	e := endpoint.Classify(s)
	if e.IsFile() {
		return nil
	}
	if err := dsn.Validate(e.Raw); err != nil {
		return xerrors.Wrap(xerrors.ParseFailed, "connection string "+e.Summary()+" is not usable", err)
	}
	return nil
}

func hasMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// Run plans m and executes the result in order.
func Run(ctx context.Context, m *Manifest, t Transferer, resolve ResolveFunc) (int, error) {
	reqs, err := Plan(m, resolve)
	if err != nil {
		return 0, err
	}
	return Execute(ctx, reqs, t)
}

// Execute runs reqs sequentially and returns how many completed. The first
// failure stops the batch; transfers already run are not undone.
func Execute(ctx context.Context, reqs []transfer.Request, t Transferer) (int, error) {
	for i, r := range reqs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := t.Transfer(ctx, r); err != nil {
			return i, fmt.Errorf("transfer %d of %d (%s): %w", i+1, len(reqs), r.Source.Summary(), err)
		}
	}
	return len(reqs), nil
}
