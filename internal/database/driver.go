package database

import "context"

// Driver opens sessions for one database engine.
type Driver interface {
	// Open connects using an engine specific connection URL and credentials.
	Open(ctx context.Context, url, username, password string) (Conn, error)
}

// Conn is one live database connection.
// Implementations need not be safe for concurrent use; callers serialize.
type Conn interface {
	// Execute runs a single SQL statement and returns its row set or update count.
	Execute(ctx context.Context, query string) (*QueryResult, error)

	// Ping checks if the connection is alive.
	Ping(ctx context.Context) error

	// Close closes the connection.
	Close() error

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}
