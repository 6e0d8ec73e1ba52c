package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joacominatel/alertsnap/internal/database"
	"github.com/joacominatel/alertsnap/internal/logger"
	"github.com/joacominatel/alertsnap/internal/profile"
)

// Session is one open connection made from a profile. Statements issued on a
// session run one at a time in the order they acquire it.
type Session struct {
	ID        uuid.UUID
	Profile   profile.Profile
	StartedAt time.Time

	log    logger.Logger
	mu     sync.Mutex
	conn   database.Conn
	closed bool
}

func newSession(p profile.Profile, conn database.Conn) *Session {
	id := uuid.New()

	return &Session{
		ID:        id,
		Profile:   p,
		StartedAt: time.Now(),
		log:       logger.AddContext(logger.Ctx{"session": id.String(), "profile": p.Name}),
		conn:      conn,
	}
}

// DatabaseName returns the name of the connected database.
func (s *Session) DatabaseName() string {
	return s.conn.DatabaseName()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Close waits for the statement in flight, if any, and releases the connection.
// Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.log.Debug("Closing session", logger.Ctx{"age": time.Since(s.StartedAt).String()})
	return s.conn.Close()
}

// Ping checks the connection is still alive.
func (s *Session) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	return s.conn.Ping(ctx)
}

func (s *Session) execute(ctx context.Context, query string) (*database.QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	return s.conn.Execute(ctx, query)
}
