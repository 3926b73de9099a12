// Package config loads and stores CLI configuration in the XDG config dir.
// Connection strings are never kept here; named connections go to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	xerrors "mysqlsync/cli/internal/errors"
	"mysqlsync/cli/internal/xdg"
)

// Environment variables that override file settings.
const (
	EnvConfigPath = "MYSQLSYNC_CONFIG"
	EnvMySQLDump  = "MYSQLSYNC_MYSQLDUMP"
	EnvMySQL      = "MYSQLSYNC_MYSQL"
	EnvTempDir    = "MYSQLSYNC_TEMP_DIR"
)

// Defaults for the process and connection bounds.
const (
	DefaultTimeout        = 30 * time.Minute
	DefaultConnectTimeout = 10 * time.Second
)

// legacyServerDir is where MySQL Server 5.1 installs its client tools on Windows.
var legacyServerDir = filepath.Join("MySQL", "MySQL Server 5.1", "bin")

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	// MySQLDumpExecutablePath is the mysqlDumpExecutablePath setting.
	MySQLDumpExecutablePath string   `json:"mysql_dump_executable_path"`
	MySQLExecutablePath     string   `json:"mysql_executable_path"`
	TempDir                 string   `json:"temp_dir"`
	Timeout                 Duration `json:"timeout"`
	ConnectTimeout          Duration `json:"connect_timeout"`
}

// Duration is a time.Duration written as "30m" in JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30m\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Path returns the path to the config file, honoring MYSQLSYNC_CONFIG.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel:                "info",
		LogFormat:               "text",
		MySQLDumpExecutablePath: DefaultExecutablePath("mysqldump"),
		MySQLExecutablePath:     DefaultExecutablePath("mysql"),
		TempDir:                 DefaultTempDir(),
		Timeout:                 Duration(DefaultTimeout),
		ConnectTimeout:          Duration(DefaultConnectTimeout),
	}
}

// Load reads configuration from Path(); a missing file returns defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from p. Unset fields keep their defaults and
// environment overrides are applied last.
func LoadFile(p string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &c); err != nil {
			return c, xerrors.Wrap(xerrors.ConfigInvalid, "cannot parse "+p, err)
		}
	}
	c.applyEnv()
	c.fillBlanks()
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(p, c)
}

// SaveFile writes c to p with 0600 permissions.
func SaveFile(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvMySQLDump)); v != "" {
		c.MySQLDumpExecutablePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMySQL)); v != "" {
		c.MySQLExecutablePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTempDir)); v != "" {
		c.TempDir = v
	}
}

// fillBlanks restores defaults for fields a config file set to zero values.
func (c *Config) fillBlanks() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.MySQLDumpExecutablePath == "" {
		c.MySQLDumpExecutablePath = DefaultExecutablePath("mysqldump")
	}
	if c.MySQLExecutablePath == "" {
		c.MySQLExecutablePath = DefaultExecutablePath("mysql")
	}
	if c.TempDir == "" {
		c.TempDir = DefaultTempDir()
	}
	if c.Timeout <= 0 {
		c.Timeout = Duration(DefaultTimeout)
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = Duration(DefaultConnectTimeout)
	}
}

// Validate checks both executables and the temp dir.
func (c Config) Validate() error {
	if err := ValidateExecutable("mysql_dump_executable_path", c.MySQLDumpExecutablePath); err != nil {
		return err
	}
	if err := ValidateExecutable("mysql_executable_path", c.MySQLExecutablePath); err != nil {
		return err
	}
	info, err := os.Stat(c.TempDir)
	if err != nil {
		return xerrors.Wrap(xerrors.ConfigInvalid, "temp_dir "+c.TempDir+" is not accessible", err)
	}
	if !info.IsDir() {
		return xerrors.New(xerrors.ConfigInvalid, "temp_dir "+c.TempDir+" is not a directory")
	}
	return nil
}

// ValidateExecutable checks that p is an absolute path to an existing regular file.
func ValidateExecutable(setting, p string) error {
	if !filepath.IsAbs(p) {
		return xerrors.New(xerrors.ConfigInvalid, fmt.Sprintf("%s %q must be an absolute path", setting, p))
	}
	info, err := os.Stat(p)
	if err != nil {
		return xerrors.Wrap(xerrors.ConfigInvalid, fmt.Sprintf("%s %q does not exist", setting, p), err)
	}
	if info.IsDir() {
		return xerrors.New(xerrors.ConfigInvalid, fmt.Sprintf("%s %q is a directory", setting, p))
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return xerrors.New(xerrors.ConfigInvalid, fmt.Sprintf("%s %q is not executable", setting, p))
	}
	return nil
}

// DefaultExecutablePath resolves a MySQL client tool. On Windows it is looked up
// under %ProgramFiles%\MySQL\MySQL Server 5.1\bin; elsewhere on PATH, then /usr/bin.
func DefaultExecutablePath(name string) string {
	if runtime.GOOS == "windows" {
		programFiles := os.Getenv("ProgramFiles")
		if programFiles == "" {
			programFiles = `C:\Program Files`
		}
		return filepath.Join(programFiles, legacyServerDir, name+".exe")
	}
	if p, err := exec.LookPath(name); err == nil {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
	}
	return filepath.Join("/usr/bin", name)
}

// DefaultTempDir returns the XDG state dir, or the working directory when that
// cannot be created.
func DefaultTempDir() string {
	if dir, err := xdg.StateDir(); err == nil {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return os.TempDir()
}
