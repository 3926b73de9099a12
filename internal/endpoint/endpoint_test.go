// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoint

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	xerrors "mysqlsync/cli/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Kind
	}{
		{name: "empty", path: "", want: KindConnection},
		{name: "one char", path: "C", want: KindConnection},
		{name: "two chars drive", path: "C:", want: KindConnection},
		{name: "two separators only", path: `\\`, want: KindConnection},
		{name: "drive backslash", path: `C:\x`, want: KindFile},
		{name: "drive forward slash", path: "d:/dumps/app.sql", want: KindFile},
		{name: "unc share", path: `\\share\x`, want: KindFile},
		{name: "forward slash share", path: "//share/x", want: KindFile},
		{name: "drive without separator", path: "C:x.sql", want: KindConnection},
		{name: "connection string", path: "server=h;database=d;uid=u;pwd=p", want: KindConnection},
		{name: "mysql url", path: "mysql://u:p@h/d", want: KindConnection},
		{name: "relative path", path: "dumps/app.sql", want: KindConnection},
		{name: "digit before colon", path: `1:\x`, want: KindConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.path)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.path, got.Kind, tt.want)
			}
			if got.Raw != tt.path {
				t.Errorf("Classify(%q).Raw = %q", tt.path, got.Raw)
			}
		})
	}
}

func TestClassify_ShortStringsAreNeverFiles(t *testing.T) {
	for _, s := range []string{"", "a", "/", "//", `\\`, "C:", "/a", `\a`} {
		if Classify(s).IsFile() {
			t.Errorf("Classify(%q) classified as file", s)
		}
	}
}

func TestClassify_PosixRoot(t *testing.T) {
	got := Classify("/var/backups/app.sql")
	if runtime.GOOS == "windows" {
		if got.IsFile() {
			t.Error("drive-relative path must not classify as a file on Windows")
		}
		return
	}
	if !got.IsFile() {
		t.Error("rooted POSIX path should classify as a file")
	}
}

func TestDescriptor(t *testing.T) {
	d, err := Classify("server=h;database=d;user id=u;password=p").Descriptor()
	if err != nil {
		t.Fatalf("Descriptor() error = %v", err)
	}
	if d.Server != "h" || d.Database != "d" || d.User != "u" || d.Password != "p" {
		t.Errorf("Descriptor() = %+v", d)
	}

	_, err = Classify("server=h;database").Descriptor()
	if !xerrors.IsKind(err, xerrors.ParseFailed) {
		t.Errorf("malformed descriptor: got %v, want parse_error", err)
	}

	_, err = Classify("server=h;database=d").Descriptor()
	if !xerrors.IsKind(err, xerrors.ParseFailed) {
		t.Errorf("incomplete descriptor: got %v, want parse_error", err)
	}

	_, err = Classify(`C:\dump.sql`).Descriptor()
	if !xerrors.IsKind(err, xerrors.ParseFailed) {
		t.Errorf("file endpoint: got %v, want parse_error", err)
	}
}

func TestSummary_MasksPassword(t *testing.T) {
	s := Classify("server=h;database=d;uid=u;pwd=hunter2").Summary()
	if strings.Contains(s, "hunter2") {
		t.Errorf("Summary() leaked password: %q", s)
	}
	if got := Classify(`C:\a.sql`).Summary(); got != `C:\a.sql` {
		t.Errorf("Summary() = %q", got)
	}
}

func TestValidateSource(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "in.sql")
	if err := os.WriteFile(existing, []byte("SELECT 1;"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := ValidateSource(Endpoint{Raw: existing, Kind: KindFile}); err != nil {
		t.Errorf("existing file: unexpected error %v", err)
	}

	missing := filepath.Join(dir, "missing.sql")
	err := ValidateSource(Endpoint{Raw: missing, Kind: KindFile})
	if !xerrors.IsKind(err, xerrors.ValidationFailed) {
		t.Errorf("missing file: got %v, want validation_error", err)
	}
	if err != nil && !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q should name the path", err)
	}

	if err := ValidateSource(Endpoint{Raw: dir, Kind: KindFile}); !xerrors.IsKind(err, xerrors.ValidationFailed) {
		t.Errorf("directory: got %v, want validation_error", err)
	}

	if err := ValidateSource(Endpoint{Raw: "server=h", Kind: KindConnection}); err != nil {
		t.Errorf("connection endpoints are not validated here: %v", err)
	}
}

func TestValidateDestination(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "out.sql")
	if err := os.WriteFile(existing, []byte("-- keep\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := ValidateDestination(Endpoint{Raw: existing, Kind: KindFile}); err != nil {
		t.Errorf("existing file: unexpected error %v", err)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "-- keep\n" {
		t.Errorf("validation modified the file: %q", data)
	}

	if err := ValidateDestination(Endpoint{Raw: filepath.Join(dir, "new.sql"), Kind: KindFile}); err != nil {
		t.Errorf("new file in existing dir: unexpected error %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "new.sql")); !os.IsNotExist(err) {
		t.Error("validation must not create the destination")
	}

	err := ValidateDestination(Endpoint{Raw: filepath.Join(dir, "nope", "new.sql"), Kind: KindFile})
	if !xerrors.IsKind(err, xerrors.ValidationFailed) {
		t.Errorf("missing parent: got %v, want validation_error", err)
	}
}
