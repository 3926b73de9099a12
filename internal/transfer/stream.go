// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transfer

import (
	"context"
	"io"
	"os"

	"mysqlsync/cli/internal/endpoint"
	xerrors "mysqlsync/cli/internal/errors"
)

// Stream returns the script content of e. A script file is opened directly; a
// database is dumped into a temporary script that is deleted on Close.
func (o *Orchestrator) Stream(ctx context.Context, e endpoint.Endpoint) (io.ReadCloser, error) {
	o.progress(StageValidate)
	d, err := o.validate(ctx, e, true)
	if err != nil {
		return nil, err
	}
	if e.IsFile() {
		f, err := os.Open(e.Raw)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.IOFailed, "cannot read "+e.Raw, err)
		}
		return f, nil
	}

	tmp, err := o.createTempScript(o.newRunID())
	if err != nil {
		return nil, err
	}
	if err := o.Dump(ctx, d, tmp.file); err != nil {
		tmp.release()
		return nil, err
	}
	if _, err := tmp.file.Seek(0, io.SeekStart); err != nil {
		tmp.release()
		return nil, xerrors.Wrap(xerrors.IOFailed, "cannot rewind "+tmp.path, err)
	}
	return &tempReader{tmp: tmp}, nil
}

// tempReader reads a temporary script and removes it on Close.
type tempReader struct {
	tmp *tempScript
}

func (r *tempReader) Read(p []byte) (int, error) {
	if r.tmp.file == nil {
		return 0, os.ErrClosed
	}
	return r.tmp.file.Read(p)
}

func (r *tempReader) Close() error {
	r.tmp.release()
	return nil
}

// Restore buffers script content from r into a temporary script, then appends
// it to a script destination or runs it against a database destination.
func (o *Orchestrator) Restore(ctx context.Context, r io.Reader, dst endpoint.Endpoint, dryRun bool) error {
	if dryRun {
		o.logger.Info("what-if: no changes made", o.logger.Args("destination", dst.Summary()))
		return nil
	}

	o.progress(StageValidate)
	d, err := o.validate(ctx, dst, false)
	if err != nil {
		return err
	}

	runID := o.newRunID()
	tmp, err := o.createTempScript(runID)
	if err != nil {
		return err
	}
	defer tmp.release()

	o.progress(StageBuffer)
	n, err := io.Copy(tmp.file, r)
	if err != nil {
		return xerrors.Wrap(xerrors.IOFailed, "cannot buffer input into "+tmp.path, err)
	}
	if err := tmp.file.Sync(); err != nil {
		return xerrors.Wrap(xerrors.IOFailed, "cannot flush "+tmp.path, err)
	}
	o.logger.Debug("buffered input", o.logger.Args("run", runID, "bytes", n))

	if dst.IsFile() {
		return o.appendScript(dst.Raw, tmp.path)
	}
	return o.Apply(ctx, tmp.path, d)
}
