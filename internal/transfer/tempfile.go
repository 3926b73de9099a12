// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transfer

import (
	"os"

	xerrors "mysqlsync/cli/internal/errors"
)

// tempScript is a dump buffer owned by exactly one transfer.
type tempScript struct {
	file *os.File
	path string
}

// createTempScript creates a uniquely named script under the configured temp dir.
// The run ID in the name ties leftovers from a crashed process to its log lines.
func (o *Orchestrator) createTempScript(runID string) (*tempScript, error) {
	if err := os.MkdirAll(o.cfg.TempDir, 0o700); err != nil {
		return nil, xerrors.Wrap(xerrors.IOFailed, "cannot create temp dir "+o.cfg.TempDir, err)
	}
	f, err := os.CreateTemp(o.cfg.TempDir, "mysqlsync-"+runID+"-*.sql")
	if err != nil {
		return nil, xerrors.Wrap(xerrors.IOFailed, "cannot create temporary script in "+o.cfg.TempDir, err)
	}
	return &tempScript{file: f, path: f.Name()}, nil
}

// release closes and deletes the script. Safe to call more than once.
func (t *tempScript) release() {
	if t == nil || t.file == nil {
		return
	}
	_ = t.file.Close()
	_ = os.Remove(t.path)
	t.file = nil
}
