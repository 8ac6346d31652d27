package connector

import (
	"context"
	"fmt"
	"net"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
)

const mysqlDefaultPort = "3306"

// MySQL connects to MySQL and MariaDB servers.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

// DSN renders "mysql:host=<host>[;port=<port>];dbname=<dbname>;charset=<charset>".
// Host and dbname are required; charset defaults to utf8.
func (MySQL) DSN(cfg Config) (string, error) {
	if err := requireField("host", cfg.Host); err != nil {
		return "", err
	}
	if err := requireField("dbname", cfg.DbName); err != nil {
		return "", err
	}

	charset := cfg.Charset
	if charset == "" {
		charset = DefaultCharset
	}

	if cfg.Port != "" {
		return fmt.Sprintf("mysql:host=%s;port=%s;dbname=%s;charset=%s", cfg.Host, cfg.Port, cfg.DbName, charset), nil
	}
	return fmt.Sprintf("mysql:host=%s;dbname=%s;charset=%s", cfg.Host, cfg.DbName, charset), nil
}

// DefaultOptions mirror the connection defaults used for MariaDB elsewhere:
// DATETIME columns scan into time.Time in the local zone.
func (MySQL) DefaultOptions() Options {
	return Options{
		"parseTime": "true",
		"loc":       "Local",
	}
}

// Connect opens a MySQL connection. Scalar options are passed to the driver as
// DSN parameters (timeout, readTimeout, tls, ...).
func (m MySQL) Connect(ctx context.Context, cfg Config) (*Conn, error) {
	descriptor, err := m.DSN(cfg)
	if err != nil {
		return nil, err
	}

	dsn, err := m.driverDSN(cfg)
	if err != nil {
		return nil, err
	}

	return open(ctx, mysql.Open(dsn), descriptor)
}

// driverDSN renders the go-sql-driver form:
// user:password@tcp(host:port)/dbname?charset=...&param=value
func (MySQL) driverDSN(cfg Config) (string, error) {
	port := cfg.Port
	if port == "" {
		port = mysqlDefaultPort
	}
	charset := cfg.Charset
	if charset == "" {
		charset = DefaultCharset
	}

	driverCfg := mysqldriver.NewConfig()
	driverCfg.User = cfg.Username
	driverCfg.Passwd = cfg.Password
	driverCfg.Net = "tcp"
	driverCfg.Addr = net.JoinHostPort(cfg.Host, port)
	driverCfg.DBName = cfg.DbName
	driverCfg.Params = scalarOptions(cfg.Options)
	driverCfg.Params["charset"] = charset

	// Round-trip through the parser so malformed options fail here with a
	// configuration error instead of at dial time.
	dsn := driverCfg.FormatDSN()
	if _, err := mysqldriver.ParseDSN(dsn); err != nil {
		return "", fmt.Errorf("%w: invalid mysql options: %w", ErrConfiguration, err)
	}
	return dsn, nil
}
