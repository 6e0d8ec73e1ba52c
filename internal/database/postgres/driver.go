package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/joacominatel/alertsnap/internal/database"
)

// Driver implements the database.Driver interface for PostgreSQL.
type Driver struct{}

// New creates a new PostgreSQL driver.
func New() *Driver {
	return &Driver{}
}

// Conn is one dedicated PostgreSQL connection.
type Conn struct {
	conn   *pgx.Conn
	dbName string
}

// DSN turns a jdbc:postgresql:// URL into a connection string pgx accepts.
// Plain postgres:// and postgresql:// URLs are returned unchanged.
func DSN(url string) (string, error) {
	dsn := strings.TrimSpace(url)
	dsn = strings.TrimPrefix(dsn, "jdbc:")

	if !strings.HasPrefix(dsn, "postgresql://") && !strings.HasPrefix(dsn, "postgres://") {
		return "", fmt.Errorf("not a PostgreSQL url: %q", url)
	}

	return dsn, nil
}

// Open establishes a connection to PostgreSQL.
func (d *Driver) Open(ctx context.Context, url, username, password string) (database.Conn, error) {
	dsn, err := DSN(url)
	if err != nil {
		return nil, err
	}

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if username != "" {
		cfg.User = username
	}
	if password != "" {
		cfg.Password = password
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Conn{conn: conn, dbName: cfg.Database}, nil
}

// Execute runs a statement using the simple protocol, so every value arrives
// in its text form and NULL arrives as nil.
func (c *Conn) Execute(ctx context.Context, query string) (*database.QueryResult, error) {
	start := time.Now()

	rows, err := c.conn.Query(ctx, query, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	var resultRows [][]database.Cell
	for rows.Next() {
		raw := rows.RawValues()
		row := make([]database.Cell, len(raw))
		for i, v := range raw {
			if v == nil {
				row[i] = database.Null
			} else {
				row[i] = database.Text(string(v))
			}
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		return &database.QueryResult{
			UpdateCount: rows.CommandTag().RowsAffected(),
			Duration:    time.Since(start),
		}, nil
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	if resultRows == nil {
		resultRows = [][]database.Cell{}
	}

	return &database.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		HasRows:  true,
		Duration: time.Since(start),
	}, nil
}

// Ping checks if the connection is alive.
func (c *Conn) Ping(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	return c.conn.Ping(ctx)
}

// Close closes the connection.
func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return c.conn.Close(ctx)
}

// DatabaseName returns the name of the connected database.
func (c *Conn) DatabaseName() string {
	return c.dbName
}
