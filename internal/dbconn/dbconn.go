// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dbconn verifies that a MySQL connection descriptor is reachable by
// opening and immediately closing a connection through go-sql-driver/mysql.
// The driver registers itself as "mysql" with database/sql.
package dbconn

import (
	"context"
	"database/sql"
	"time"

	"mysqlsync/cli/internal/dsn"
	xerrors "mysqlsync/cli/internal/errors"

	_ "github.com/go-sql-driver/mysql"
)

// Checker verifies database reachability.
type Checker interface {
	Check(ctx context.Context, d *dsn.Descriptor) error
}

// MySQLChecker implements Checker against a live server.
type MySQLChecker struct {
	Timeout time.Duration
}

// NewMySQLChecker creates a checker whose dial and ping are bounded by timeout.
func NewMySQLChecker(timeout time.Duration) *MySQLChecker {
	return &MySQLChecker{Timeout: timeout}
}

// Check opens a connection, pings it and closes it. Any failure is a fatal
// connection_error naming the descriptor with its password masked.
func (c *MySQLChecker) Check(ctx context.Context, d *dsn.Descriptor) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	db, err := sql.Open("mysql", d.DriverDSN(c.Timeout))
	if err != nil {
		return xerrors.Wrap(xerrors.ConnectionFailed, "Could not access "+d.Redacted(), err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return xerrors.Wrap(xerrors.ConnectionFailed, "Could not access "+d.Redacted(), err)
	}
	return nil
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, d *dsn.Descriptor) error

func (f CheckerFunc) Check(ctx context.Context, d *dsn.Descriptor) error { return f(ctx, d) }
