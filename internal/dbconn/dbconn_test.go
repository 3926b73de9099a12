// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dbconn

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"mysqlsync/cli/internal/dsn"
	xerrors "mysqlsync/cli/internal/errors"
)

// closedPort returns a local port with nothing listening on it.
func closedPort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot bind local port: %v", err)
	}
	_, port, _ := net.SplitHostPort(l.Addr().String())
	l.Close()
	return port
}

func TestMySQLChecker_Unreachable(t *testing.T) {
	d := &dsn.Descriptor{
		Server:   "127.0.0.1",
		Port:     closedPort(t),
		Database: "app",
		User:     "root",
		Password: "topsecret",
	}

	err := NewMySQLChecker(2*time.Second).Check(context.Background(), d)
	if !xerrors.IsKind(err, xerrors.ConnectionFailed) {
		t.Fatalf("got %v, want connection_error", err)
	}
	if strings.Contains(err.Error(), "topsecret") {
		t.Errorf("error leaked password: %v", err)
	}
	if !strings.Contains(err.Error(), "server=127.0.0.1") {
		t.Errorf("error should name the connection: %v", err)
	}
}

func TestMySQLChecker_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &dsn.Descriptor{Server: "127.0.0.1", Port: closedPort(t), Database: "d", User: "u", Password: "p"}
	if err := NewMySQLChecker(0).Check(ctx, d); !xerrors.IsKind(err, xerrors.ConnectionFailed) {
		t.Errorf("got %v, want connection_error", err)
	}
}

func TestCheckerFunc(t *testing.T) {
	called := false
	var c Checker = CheckerFunc(func(ctx context.Context, d *dsn.Descriptor) error {
		called = d.Database == "app"
		return nil
	})
	if err := c.Check(context.Background(), &dsn.Descriptor{Database: "app"}); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("CheckerFunc did not receive the descriptor")
	}
}
