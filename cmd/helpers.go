// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"mysqlsync/cli/internal/config"
	"mysqlsync/cli/internal/endpoint"
	"mysqlsync/cli/internal/keychain"
	"mysqlsync/cli/internal/transfer"
)

// savedPrefix marks an argument as the name of a saved connection.
const savedPrefix = "@"

// loadSaved is replaced in tests.
var loadSaved = func(name string) (string, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return "", fmt.Errorf("secure storage is not available: %w", err)
	}
	return km.LoadConnection(name)
}

// resolveArg expands @name to its saved connection string. Anything else is
// returned unchanged; classification happens later.
func resolveArg(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, savedPrefix) {
		return arg, nil
	}
	name := strings.TrimPrefix(arg, savedPrefix)
	conn, err := loadSaved(name)
	if errors.Is(err, keychain.ErrNotFound) {
		return "", fmt.Errorf("no saved connection named %q (run: mysqlsync connect %s)", name, name)
	}
	if err != nil {
		return "", err
	}
	return conn, nil
}

// resolveEndpoint resolves arg and classifies it.
func resolveEndpoint(arg string) (endpoint.Endpoint, error) {
	s, err := resolveArg(arg)
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	return endpoint.Classify(s), nil
}

// absScriptPath makes a relative --output/--input path absolute so it
// classifies as a script.
func absScriptPath(p string) (string, error) {
	if p == "" || filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Abs(p)
}

// transferService is what the commands need from the orchestrator.
type transferService interface {
	Transfer(ctx context.Context, req transfer.Request) error
	Stream(ctx context.Context, e endpoint.Endpoint) (io.ReadCloser, error)
	Restore(ctx context.Context, r io.Reader, dst endpoint.Endpoint, dryRun bool) error
	Check(ctx context.Context, e endpoint.Endpoint, asSource bool) error
}

// newService builds the orchestrator for one command run; replaced in tests.
var newService = func(cfg config.Config, progress func(transfer.Stage)) transferService {
	opts := []transfer.Option{transfer.WithLogger(appLogger)}
	if progress != nil {
		opts = append(opts, transfer.WithProgress(progress))
	}
	return transfer.New(cfg, opts...)
}

// spinnerEnabled reports whether interactive progress output is wanted.
func spinnerEnabled() bool {
	return !strings.EqualFold(appConfig.LogFormat, "json")
}
