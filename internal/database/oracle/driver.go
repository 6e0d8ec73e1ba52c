// Package oracle implements database.Driver on top of the pure Go go-ora driver.
package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/joacominatel/alertsnap/internal/database"
	"github.com/joacominatel/alertsnap/internal/database/sqldb"
)

const defaultPort = 1521

// Target is the parsed form of an Oracle thin URL.
type Target struct {
	Host    string
	Port    int
	SID     string
	Service string
}

// Name returns the SID or service name.
func (t Target) Name() string {
	if t.SID != "" {
		return t.SID
	}
	return t.Service
}

// ParseURL accepts jdbc:oracle:thin:@host:port:SID,
// jdbc:oracle:thin:@host:port/service and jdbc:oracle:thin:@//host:port/service.
// The jdbc:oracle:thin: prefix is optional.
func ParseURL(url string) (Target, error) {
	s := strings.TrimSpace(url)
	s = strings.TrimPrefix(s, "jdbc:")
	s = strings.TrimPrefix(s, "oracle:thin:")
	s = strings.TrimPrefix(s, "oracle:")

	if !strings.HasPrefix(s, "@") {
		return Target{}, fmt.Errorf("not an Oracle thin url: %q", url)
	}
	s = strings.TrimPrefix(s, "@")

	var t Target
	if strings.HasPrefix(s, "//") || strings.Contains(s, "/") {
		s = strings.TrimPrefix(s, "//")
		hostPort, service, _ := strings.Cut(s, "/")
		t.Service = service
		s = hostPort
	} else {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return Target{}, fmt.Errorf("expected host:port:SID in %q", url)
		}
		t.SID = parts[2]
		s = parts[0] + ":" + parts[1]
	}

	host, port, hasPort := strings.Cut(s, ":")
	t.Host = host
	t.Port = defaultPort
	if hasPort {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 {
			return Target{}, fmt.Errorf("invalid port %q in %q", port, url)
		}
		t.Port = n
	}

	if t.Host == "" {
		return Target{}, fmt.Errorf("missing host in %q", url)
	}
	if t.Name() == "" {
		return Target{}, fmt.Errorf("missing SID or service in %q", url)
	}

	return t, nil
}

// Driver implements the database.Driver interface for Oracle.
type Driver struct{}

// New creates a new Oracle driver.
func New() *Driver {
	return &Driver{}
}

// Open establishes a connection to Oracle.
func (d *Driver) Open(ctx context.Context, url, username, password string) (database.Conn, error) {
	t, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("oracle", connString(t, username, password))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	return sqldb.Open(ctx, db, t.Name(), sqldb.Options{TrimTerminator: true})
}

func connString(t Target, username, password string) string {
	if t.SID != "" {
		return go_ora.BuildUrl(t.Host, t.Port, "", username, password, map[string]string{"SID": t.SID})
	}
	return go_ora.BuildUrl(t.Host, t.Port, t.Service, username, password, nil)
}
