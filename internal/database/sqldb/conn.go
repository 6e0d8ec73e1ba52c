// Package sqldb adapts a database/sql driver to database.Conn.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/joacominatel/alertsnap/internal/database"
)

// Options tunes statement handling for an engine.
type Options struct {
	// TrimTerminator drops a trailing ";" from plain statements.
	TrimTerminator bool
}

// Conn is a single dedicated connection taken from a *sql.DB.
type Conn struct {
	db     *sql.DB
	conn   *sql.Conn
	dbName string
	opts   Options
}

// Open takes one connection from db and checks it is alive.
// On error db is closed.
func Open(ctx context.Context, db *sql.DB, dbName string, opts Options) (*Conn, error) {
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	err = conn.PingContext(ctx)
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Conn{db: db, conn: conn, dbName: dbName, opts: opts}, nil
}

// Execute runs a statement. Row returning statements are read to completion
// with every value converted to text; others report rows affected.
func (c *Conn) Execute(ctx context.Context, query string) (*database.QueryResult, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if c.opts.TrimTerminator && !IsBlock(query) {
		query = strings.TrimSpace(strings.TrimRight(query, ";"))
	}

	if !ReturnsRows(query) {
		res, err := c.conn.ExecContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("execute: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			affected = 0
		}

		return &database.QueryResult{
			UpdateCount: affected,
			Duration:    time.Since(start),
		}, nil
	}

	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	return readRows(rows, start)
}

// rowSource is the part of *sql.Rows that readRows needs.
type rowSource interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// readRows drains rows into a result. A statement that produced no columns
// is reported as an update count, since it has no row set to show.
func readRows(rows rowSource, start time.Time) (*database.QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	resultRows := [][]database.Cell{}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		err := rows.Scan(ptrs...)
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := make([]database.Cell, len(values))
		for i, v := range values {
			if v.Valid {
				row[i] = database.Text(v.String)
			} else {
				row[i] = database.Null
			}
		}
		resultRows = append(resultRows, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if len(columns) == 0 {
		return &database.QueryResult{Duration: time.Since(start)}, nil
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
	return c.conn.PingContext(ctx)
}

// Close releases the connection and its pool.
func (c *Conn) Close() error {
	connErr := c.conn.Close()
	dbErr := c.db.Close()
	if connErr != nil {
		return connErr
	}

	return dbErr
}

// DatabaseName returns the name of the connected database.
func (c *Conn) DatabaseName() string {
	return c.dbName
}

// ReturnsRows reports whether a statement produces a row set. This is
// judged from the statement text before running it: queries (SELECT and
// WITH ... SELECT) return rows, as does DML with a RETURNING clause that does
// not bind INTO variables. Everything else reports rows affected.
func ReturnsRows(query string) bool {
	switch firstKeyword(query) {
	case "select":
		return true
	case "with":
		return mainVerb(topLevelWords(query)) == "select"
	case "insert", "update", "delete", "merge":
		return returnsInline(topLevelWords(query))
	}

	return false
}

// mainVerb finds the statement verb that follows a WITH clause. A
// parenthesized body hides it, in which case it is taken as a query.
func mainVerb(words []string) string {
	for _, w := range words {
		switch w {
		case "select", "insert", "update", "delete", "merge":
			return w
		}
	}

	return "select"
}

func returnsInline(words []string) bool {
	for i, w := range words {
		if w != "returning" {
			continue
		}

		for _, rest := range words[i+1:] {
			if rest == "into" {
				return false
			}
		}

		return true
	}

	return false
}

// topLevelWords lists the lowercased words of query outside parentheses,
// string literals, quoted identifiers and comments.
func topLevelWords(query string) []string {
	words := []string{}
	depth := 0
	word := strings.Builder{}

	flush := func() {
		if word.Len() > 0 {
			if depth == 0 {
				words = append(words, strings.ToLower(word.String()))
			}
			word.Reset()
		}
	}

	for i := 0; i < len(query); i++ {
		ch := query[i]

		switch {
		case ch == '\'' || ch == '"':
			flush()
			end := strings.IndexByte(query[i+1:], ch)
			if end < 0 {
				return words
			}
			i += end + 1
		case strings.HasPrefix(query[i:], "--"):
			flush()
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				return words
			}
			i += end
		case strings.HasPrefix(query[i:], "/*"):
			flush()
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				return words
			}
			i += end + 3
		case ch == '(':
			flush()
			depth++
		case ch == ')':
			flush()
			if depth > 0 {
				depth--
			}
		case ch == '_' || ch == '$' || ch == '#' || (ch >= '0' && ch <= '9') ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80:
			word.WriteByte(ch)
		default:
			flush()
		}
	}
	flush()

	return words
}

// IsBlock reports whether the statement is a procedural block whose
// terminator must be kept.
func IsBlock(query string) bool {
	switch firstKeyword(query) {
	case "begin", "declare":
		return true
	case "create":
		lower := strings.Join(strings.Fields(strings.ToLower(query)), " ")
		for _, kind := range []string{" procedure ", " function ", " trigger ", " package ", " type body "} {
			if strings.Contains(lower, kind) {
				return true
			}
		}
	}

	return false
}

func firstKeyword(query string) string {
	s := stripLeading(query)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '_'
	})
	if end < 0 {
		end = len(s)
	}

	return strings.ToLower(s[:end])
}

// stripLeading removes whitespace, comments and "(" before the first token.
func stripLeading(s string) string {
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)

		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = s[idx+1:]
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = s[idx+2:]
		case strings.HasPrefix(s, "("):
			s = s[1:]
		default:
			return s
		}
	}
}
