package engines

import (
	"mysqlsync/cli/internal/dsn"
)

type MySQLEngine struct{}

func NewMySQLEngine() *MySQLEngine {
	return &MySQLEngine{}
}

// BuildDumpArgs returns the mysqldump arguments in the order the dump has always
// used: --host=<server> <database> --user=<uid> --password=<pwd> --no-create-db.
// A port, whether from the port key or written as server=host:port, is passed
// as a trailing --port.
func (e *MySQLEngine) BuildDumpArgs(d *dsn.Descriptor) []string {
	host, port := d.HostPort()
	args := []string{
		"--host=" + host,
		d.Database,
		"--user=" + d.User,
		"--password=" + d.Password,
		"--no-create-db",
	}
	if port != "" {
		args = append(args, "--port="+port)
	}
	return args
}

// BuildApplyArgs returns mysql client arguments for running a script read from
// stdin in batch mode against the descriptor's database.
func (e *MySQLEngine) BuildApplyArgs(d *dsn.Descriptor) []string {
	host, port := d.HostPort()
	args := []string{
		"--host=" + host,
		"--user=" + d.User,
		"--password=" + d.Password,
		"--batch",
	}
	if port != "" {
		args = append(args, "--port="+port)
	}
	return append(args, d.Database)
}

func (e *MySQLEngine) Name() string {
	return "MySQL"
}
