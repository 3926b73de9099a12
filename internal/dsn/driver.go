// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DefaultPort is used when neither the port key nor the server value names one.
const DefaultPort = "3306"

// DriverConfig converts d into a go-sql-driver/mysql configuration.
// A zero timeout leaves the driver default in place.
func (d *Descriptor) DriverConfig(timeout time.Duration) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = d.Address()
	cfg.DBName = d.Database
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg
}

// DriverDSN renders d as a go-sql-driver/mysql DSN.
func (d *Descriptor) DriverDSN(timeout time.Duration) string {
	return d.DriverConfig(timeout).FormatDSN()
}

// HostPort splits the server value into host and port. A port key wins over a
// port written inside server (h:3307, [::1]:3307). The port is "" when neither
// names one, so callers decide on the default.
func (d *Descriptor) HostPort() (host, port string) {
	host = d.Server
	if h, p, err := net.SplitHostPort(d.Server); err == nil {
		host, port = h, p
	}
	if d.Port != "" {
		port = d.Port
	}
	return host, port
}

// Address returns host:port for the driver, defaulting the port to 3306.
func (d *Descriptor) Address() string {
	host, port := d.HostPort()
	if port == "" {
		port = DefaultPort
	}
	return net.JoinHostPort(host, port)
}
