// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transfer orchestrates a single synchronization between two endpoints.
//
// A transfer validates both sides, then runs exactly one route:
//   - script → database: the script is piped into the mysql client
//   - script → script: the source is appended to the destination
//   - database → script: mysqldump output is appended to the destination
//   - database → database: mysqldump output is piped into the mysql client
//
// Dumps always land in a per-transfer temporary script first, so a failing dump
// never touches the destination. Every failure is fatal; there is no retry and
// no rollback of whatever the mysql client already applied.
package transfer

import (
	"context"
	"fmt"
	"io"
	"os"

	"mysqlsync/cli/internal/config"
	"mysqlsync/cli/internal/dbconn"
	"mysqlsync/cli/internal/dsn"
	"mysqlsync/cli/internal/endpoint"
	"mysqlsync/cli/internal/engines"
	xerrors "mysqlsync/cli/internal/errors"
	"mysqlsync/cli/internal/logging"
	"mysqlsync/cli/internal/runner"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// Request pairs a source and destination for one transfer.
type Request struct {
	Source      endpoint.Endpoint
	Destination endpoint.Endpoint
	// DryRun reports the route and returns without touching anything.
	DryRun bool
}

// Stage names a step of a transfer, reported to the progress callback.
type Stage string

const (
	StageValidate Stage = "validating endpoints"
	StageDump     Stage = "dumping database"
	StageApply    Stage = "applying script"
	StageAppend   Stage = "appending script"
	StageBuffer   Stage = "buffering input"
)

// Orchestrator runs transfers with an explicit configuration.
type Orchestrator struct {
	cfg      config.Config
	engine   engines.DatabaseEngine
	runner   runner.Runner
	checker  dbconn.Checker
	logger   *pterm.Logger
	progress func(Stage)
	newRunID func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the process runner.
func WithRunner(r runner.Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithChecker replaces the connection checker.
func WithChecker(c dbconn.Checker) Option {
	return func(o *Orchestrator) { o.checker = c }
}

// WithEngine replaces the argument builder.
func WithEngine(e engines.DatabaseEngine) Option {
	return func(o *Orchestrator) { o.engine = e }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *pterm.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress registers a callback invoked as each stage starts.
func WithProgress(fn func(Stage)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// New creates an Orchestrator. Without options it runs the configured tools
// through os/exec and checks connections against live servers.
func New(cfg config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		engine:   engines.NewMySQLEngine(),
		logger:   logging.Discard(),
		progress: func(Stage) {},
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runner == nil {
		o.runner = runner.New(runner.WithTimeout(cfg.Timeout.Std()), runner.WithLogger(o.logger))
	}
	if o.checker == nil {
		o.checker = dbconn.NewMySQLChecker(cfg.ConnectTimeout.Std())
	}
	return o
}

// Transfer runs req to completion. A dry run returns immediately.
func (o *Orchestrator) Transfer(ctx context.Context, req Request) error {
	route := SelectRoute(req.Source, req.Destination)
	runID := o.newRunID()
	log := o.logger

	if req.DryRun {
		log.Info("what-if: no changes made", log.Args(
			"run", runID,
			"route", route.String(),
			"source", req.Source.Summary(),
			"destination", req.Destination.Summary(),
		))
		return nil
	}

	log.Info("transfer started", log.Args(
		"run", runID,
		"engine", o.engine.Name(),
		"route", route.String(),
		"source", req.Source.Summary(),
		"destination", req.Destination.Summary(),
	))

	o.progress(StageValidate)
	srcDesc, err := o.validate(ctx, req.Source, true)
	if err != nil {
		return err
	}
	dstDesc, err := o.validate(ctx, req.Destination, false)
	if err != nil {
		return err
	}

	switch route {
	case RouteScriptToDatabase:
		err = o.Apply(ctx, req.Source.Raw, dstDesc)
	case RouteScriptToScript:
		err = o.appendScript(req.Destination.Raw, req.Source.Raw)
	case RouteDatabaseToScript:
		err = o.withDump(ctx, runID, srcDesc, func(tmp string) error {
			return o.appendScript(req.Destination.Raw, tmp)
		})
	case RouteDatabaseToDatabase:
		err = o.withDump(ctx, runID, srcDesc, func(tmp string) error {
			return o.Apply(ctx, tmp, dstDesc)
		})
	}
	if err != nil {
		log.Error("transfer failed", log.Args("run", runID, "error", logging.Mask(err.Error())))
		return err
	}

	log.Info("transfer finished", log.Args("run", runID, "route", route.String()))
	return nil
}

// Check validates a single endpoint without transferring anything. Sources must
// exist; destinations must be writable. Databases must parse and accept a connection.
func (o *Orchestrator) Check(ctx context.Context, e endpoint.Endpoint, asSource bool) error {
	_, err := o.validate(ctx, e, asSource)
	return err
}

func (o *Orchestrator) validate(ctx context.Context, e endpoint.Endpoint, asSource bool) (*dsn.Descriptor, error) {
	if e.IsFile() {
		if asSource {
			return nil, endpoint.ValidateSource(e)
		}
		return nil, endpoint.ValidateDestination(e)
	}
	d, err := e.Descriptor()
	if err != nil {
		return nil, err
	}
	if err := o.checker.Check(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Dump runs mysqldump for d and streams its output into w. A missing
// executable or a non-zero exit is a dump_error.
func (o *Orchestrator) Dump(ctx context.Context, d *dsn.Descriptor, w io.Writer) error {
	o.progress(StageDump)
	if err := config.ValidateExecutable("mysql_dump_executable_path", o.cfg.MySQLDumpExecutablePath); err != nil {
		return xerrors.Wrap(xerrors.DumpFailed, "mysqldump is not available", err)
	}
	res, err := o.runner.Run(ctx, runner.Command{
		Path:   o.cfg.MySQLDumpExecutablePath,
		Args:   o.engine.BuildDumpArgs(d),
		Stdout: w,
	})
	if err != nil {
		return xerrors.Wrap(xerrors.DumpFailed, "mysqldump failed for "+d.Redacted(), err)
	}
	if res != nil && res.Stderr != "" {
		o.logger.Warn("mysqldump reported warnings", o.logger.Args("stderr", logging.Mask(res.Stderr)))
	}
	return nil
}

// Apply pipes the script at scriptPath into the mysql client for d. A missing
// executable or a non-zero exit is an apply_error.
func (o *Orchestrator) Apply(ctx context.Context, scriptPath string, d *dsn.Descriptor) error {
	o.progress(StageApply)
	if err := config.ValidateExecutable("mysql_executable_path", o.cfg.MySQLExecutablePath); err != nil {
		return xerrors.Wrap(xerrors.ApplyFailed, "mysql client is not available", err)
	}
	script, err := os.Open(scriptPath)
	if err != nil {
		return xerrors.Wrap(xerrors.IOFailed, "cannot read "+scriptPath, err)
	}
	defer script.Close()

	res, err := o.runner.Run(ctx, runner.Command{
		Path:   o.cfg.MySQLExecutablePath,
		Args:   o.engine.BuildApplyArgs(d),
		Stdin:  script,
		Stdout: io.Discard,
	})
	if err != nil {
		return xerrors.Wrap(xerrors.ApplyFailed, "mysql failed for "+d.Redacted(), err)
	}
	if res != nil && res.Stderr != "" {
		o.logger.Warn("mysql reported warnings", o.logger.Args("stderr", logging.Mask(res.Stderr)))
	}
	return nil
}

// withDump dumps d into a fresh temporary script, hands its path to next and
// removes it afterwards, whatever the outcome.
func (o *Orchestrator) withDump(ctx context.Context, runID string, d *dsn.Descriptor, next func(tmp string) error) error {
	tmp, err := o.createTempScript(runID)
	if err != nil {
		return err
	}
	defer tmp.release()

	if err := o.Dump(ctx, d, tmp.file); err != nil {
		return err
	}
	if err := tmp.file.Sync(); err != nil {
		return xerrors.Wrap(xerrors.IOFailed, "cannot flush "+tmp.path, err)
	}
	return next(tmp.path)
}

// appendScript appends the contents of src to dst, creating dst if needed.
func (o *Orchestrator) appendScript(dst, src string) error {
	o.progress(StageAppend)
	if same, err := sameFile(dst, src); err == nil && same {
		return xerrors.New(xerrors.ValidationFailed, fmt.Sprintf("source and destination are the same file: %s", dst))
	}

	in, err := os.Open(src)
	if err != nil {
		return xerrors.Wrap(xerrors.IOFailed, "cannot read "+src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return xerrors.Wrap(xerrors.IOFailed, "cannot open "+dst+" for append", err)
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return xerrors.Wrap(xerrors.IOFailed, "cannot append to "+dst, err)
	}
	o.logger.Debug("appended script", o.logger.Args("destination", dst, "bytes", n))
	return nil
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
