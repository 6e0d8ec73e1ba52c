package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joacominatel/alertsnap/internal/database"
	"github.com/joacominatel/alertsnap/internal/logger"
	"github.com/joacominatel/alertsnap/internal/profile"
)

// Service coordinates application-level operations between the front ends and
// the database drivers.
type Service struct {
	drivers        map[profile.Engine]database.Driver
	connectTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithConnectTimeout bounds how long Connect and Test may take. Zero means no bound.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.connectTimeout = d
	}
}

// NewService creates a new application service using one driver per engine.
func NewService(drivers map[profile.Engine]database.Driver, opts ...Option) *Service {
	s := &Service{drivers: drivers}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Connect opens a new session for the profile.
func (s *Service) Connect(ctx context.Context, p profile.Profile) (*Session, error) {
	conn, err := s.open(ctx, p)
	if err != nil {
		logger.Warn("Connection failed", logger.Ctx{"profile": p.Name, "err": err})
		return nil, err
	}

	sess := newSession(p, conn)
	sess.log.Info("Connected", logger.Ctx{"database": conn.DatabaseName()})

	return sess, nil
}

// Test opens a connection for the profile and closes it again.
func (s *Service) Test(ctx context.Context, p profile.Profile) error {
	conn, err := s.open(ctx, p)
	if err != nil {
		return err
	}

	err = conn.Close()
	if err != nil {
		logger.Debug("Closing test connection failed", logger.Ctx{"profile": p.Name, "err": err})
	}

	return nil
}

func (s *Service) open(ctx context.Context, p profile.Profile) (database.Conn, error) {
	err := p.Validate()
	if err != nil {
		return nil, &ErrConnection{Profile: p.Name, Cause: err}
	}

	driver, ok := s.drivers[p.Engine]
	if !ok {
		return nil, &ErrConnection{Profile: p.Name, Cause: fmt.Errorf("no driver for engine %q", p.Engine)}
	}

	if s.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.connectTimeout)
		defer cancel()
	}

	conn, err := driver.Open(ctx, p.URL, p.Username, p.Password)
	if err != nil {
		return nil, &ErrConnection{Profile: p.Name, Cause: err}
	}

	return conn, nil
}

// Execute runs one statement on the session and waits for its outcome.
// Statements on the same session never overlap.
func (s *Service) Execute(ctx context.Context, sess *Session, query string) (*database.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ErrQuery{Query: query, Cause: ErrEmptyQuery}
	}

	sess.log.Debug("Executing query", logger.Ctx{"query": query})

	result, err := sess.execute(ctx, query)
	if err != nil {
		sess.log.Warn("Query failed", logger.Ctx{"err": err})
		return nil, &ErrQuery{Query: query, Cause: err}
	}

	if result.HasRows {
		sess.log.Debug("Query returned rows", logger.Ctx{"rows": result.RowCount, "duration": result.Duration.String()})
	} else {
		sess.log.Debug("Query updated rows", logger.Ctx{"count": result.UpdateCount, "duration": result.Duration.String()})
	}

	return result, nil
}

// Submit runs one statement on its own goroutine and returns immediately.
// onDone, when set, is called exactly once with the finished task.
func (s *Service) Submit(ctx context.Context, sess *Session, query string, onDone func(*Task)) *Task {
	task := newTask(sess.ID, query, onDone)

	go func() {
		task.start()
		result, err := s.Execute(ctx, sess, query)
		task.complete(result, err)
	}()

	return task
}
