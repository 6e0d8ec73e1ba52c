package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/alertsnap/internal/database"
	"github.com/joacominatel/alertsnap/internal/profile"
)

type stubConn struct {
	results map[string]*database.QueryResult
	delay   time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
	closed    atomic.Bool
}

func (c *stubConn) Execute(ctx context.Context, query string) (*database.QueryResult, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		m := c.maxActive.Load()
		if n <= m || c.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	res, ok := c.results[query]
	if !ok {
		return nil, errors.New(`syntax error at or near "` + query + `"`)
	}

	return res, nil
}

func (c *stubConn) Ping(context.Context) error { return nil }

func (c *stubConn) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *stubConn) DatabaseName() string { return "stub" }

type stubDriver struct {
	conn *stubConn
	err  error

	lastURL  string
	lastUser string
	lastPass string
}

func (d *stubDriver) Open(_ context.Context, url, username, password string) (database.Conn, error) {
	d.lastURL, d.lastUser, d.lastPass = url, username, password
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

func newStub(delay time.Duration) (*Service, *stubDriver) {
	conn := &stubConn{
		delay: delay,
		results: map[string]*database.QueryResult{
			"SELECT 1 AS x": {
				Columns:  []string{"x"},
				Rows:     [][]database.Cell{{database.Text("1")}},
				RowCount: 1,
				HasRows:  true,
			},
			"DELETE FROM t": {UpdateCount: 3},
		},
	}
	driver := &stubDriver{conn: conn}

	return NewService(map[profile.Engine]database.Driver{profile.EnginePostgres: driver}), driver
}

func pgProfile() profile.Profile {
	return profile.Profile{
		Name:     "local",
		Engine:   profile.EnginePostgres,
		URL:      "jdbc:postgresql://localhost:5432/app",
		Username: "app",
		Password: "secret",
	}
}

func connect(t *testing.T, svc *Service) *Session {
	t.Helper()

	sess, err := svc.Connect(context.Background(), pgProfile())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	return sess
}

func TestConnectPassesCredentials(t *testing.T) {
	svc, driver := newStub(0)

	sess := connect(t, svc)
	assert.Equal(t, "jdbc:postgresql://localhost:5432/app", driver.lastURL)
	assert.Equal(t, "app", driver.lastUser)
	assert.Equal(t, "secret", driver.lastPass)
	assert.Equal(t, "stub", sess.DatabaseName())
	assert.Equal(t, "local", sess.Profile.Name)
}

func TestConnectFailure(t *testing.T) {
	svc, driver := newStub(0)
	driver.err = errors.New("password authentication failed")

	sess, err := svc.Connect(context.Background(), pgProfile())
	assert.Nil(t, sess)

	var cerr *ErrConnection
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "local", cerr.Profile)
	assert.Contains(t, err.Error(), "password authentication failed")
}

func TestConnectUnknownEngine(t *testing.T) {
	svc, _ := newStub(0)
	p := pgProfile()
	p.Engine = profile.EngineOracle
	p.URL = "jdbc:oracle:thin:@localhost:1521:XE"

	_, err := svc.Connect(context.Background(), p)
	var cerr *ErrConnection
	assert.ErrorAs(t, err, &cerr)
}

func TestConnectInvalidProfile(t *testing.T) {
	svc, _ := newStub(0)
	p := pgProfile()
	p.URL = ""

	_, err := svc.Connect(context.Background(), p)
	var cerr *ErrConnection
	assert.ErrorAs(t, err, &cerr)
}

func TestTestClosesConnection(t *testing.T) {
	svc, driver := newStub(0)

	require.NoError(t, svc.Test(context.Background(), pgProfile()))
	assert.True(t, driver.conn.closed.Load())
}

func TestExecuteRowSet(t *testing.T) {
	svc, _ := newStub(0)
	sess := connect(t, svc)

	res, err := svc.Execute(context.Background(), sess, "SELECT 1 AS x")
	require.NoError(t, err)
	assert.True(t, res.HasRows)
	assert.Equal(t, []string{"x"}, res.Columns)
	assert.Equal(t, [][]string{{"1"}}, res.StringRows())
}

func TestExecuteUpdateCount(t *testing.T) {
	svc, _ := newStub(0)
	sess := connect(t, svc)

	res, err := svc.Execute(context.Background(), sess, "DELETE FROM t")
	require.NoError(t, err)
	assert.False(t, res.HasRows)
	assert.EqualValues(t, 3, res.UpdateCount)
	assert.Empty(t, res.Columns)
}

func TestExecuteFailure(t *testing.T) {
	svc, _ := newStub(0)
	sess := connect(t, svc)

	res, err := svc.Execute(context.Background(), sess, "SELEC 1")
	assert.Nil(t, res)

	var qerr *ErrQuery
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "SELEC 1", qerr.Query)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestExecuteEmptyQuery(t *testing.T) {
	svc, _ := newStub(0)
	sess := connect(t, svc)

	_, err := svc.Execute(context.Background(), sess, "  \n ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestExecuteOnClosedSession(t *testing.T) {
	svc, driver := newStub(0)
	sess := connect(t, svc)

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
	assert.True(t, sess.Closed())
	assert.True(t, driver.conn.closed.Load())

	_, err := svc.Execute(context.Background(), sess, "SELECT 1 AS x")
	var qerr *ErrQuery
	assert.ErrorAs(t, err, &qerr)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, sess.Ping(context.Background()), ErrSessionClosed)
}

func TestSubmitSucceeds(t *testing.T) {
	svc, _ := newStub(0)
	sess := connect(t, svc)

	var calls atomic.Int32
	task := svc.Submit(context.Background(), sess, "SELECT 1 AS x", func(tk *Task) {
		calls.Add(1)
		assert.Equal(t, TaskSucceeded, tk.State())
	})

	res, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowCount)
	assert.Equal(t, TaskSucceeded, task.State())
	assert.Equal(t, sess.ID, task.SessionID)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmitFails(t *testing.T) {
	svc, _ := newStub(0)
	sess := connect(t, svc)

	var calls atomic.Int32
	task := svc.Submit(context.Background(), sess, "SELEC 1", func(*Task) {
		calls.Add(1)
	})

	res, err := task.Wait()
	assert.Nil(t, res)
	assert.Error(t, err)
	assert.Equal(t, TaskFailed, task.State())
	assert.Nil(t, task.Result())
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmitReportsRunning(t *testing.T) {
	svc, _ := newStub(50 * time.Millisecond)
	sess := connect(t, svc)

	task := svc.Submit(context.Background(), sess, "SELECT 1 AS x", nil)
	assert.Eventually(t, func() bool {
		return task.State() == TaskRunning
	}, time.Second, time.Millisecond)

	_, err := task.Wait()
	require.NoError(t, err)
	assert.True(t, task.State().Terminal())
}

func TestTaskCompletesOnce(t *testing.T) {
	var calls int
	task := newTask(uuid.New(), "q", func(*Task) { calls++ })
	task.start()
	task.complete(&database.QueryResult{}, nil)
	task.complete(nil, errors.New("late"))

	res, err := task.Wait()
	assert.NotNil(t, res)
	assert.NoError(t, err)
	assert.Equal(t, TaskSucceeded, task.State())
	assert.Equal(t, 1, calls)
}

func TestSubmitSerializesPerSession(t *testing.T) {
	svc, driver := newStub(10 * time.Millisecond)
	sess := connect(t, svc)

	var wg sync.WaitGroup
	tasks := make([]*Task, 8)
	for i := range tasks {
		wg.Add(1)
		tasks[i] = svc.Submit(context.Background(), sess, "SELECT 1 AS x", func(*Task) { wg.Done() })
	}
	wg.Wait()

	for _, task := range tasks {
		assert.Equal(t, TaskSucceeded, task.State())
	}
	assert.EqualValues(t, 1, driver.conn.maxActive.Load())
}

func TestCloseWaitsForInFlightQuery(t *testing.T) {
	svc, driver := newStub(50 * time.Millisecond)
	sess := connect(t, svc)

	task := svc.Submit(context.Background(), sess, "SELECT 1 AS x", nil)
	require.Eventually(t, func() bool {
		return driver.conn.active.Load() == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, sess.Close())
	assert.EqualValues(t, 0, driver.conn.active.Load())

	_, err := task.Wait()
	assert.NoError(t, err)
}

func TestTaskStateString(t *testing.T) {
	assert.Equal(t, "idle", TaskIdle.String())
	assert.Equal(t, "running", TaskRunning.String())
	assert.Equal(t, "succeeded", TaskSucceeded.String())
	assert.Equal(t, "failed", TaskFailed.String())
	assert.False(t, TaskRunning.Terminal())
}

func TestSessionLogsCarrySessionFields(t *testing.T) {
	hook := test.NewGlobal()
	t.Cleanup(hook.Reset)

	svc, _ := newStub(0)
	sess := connect(t, svc)

	_, err := svc.Execute(context.Background(), sess, "SELEC 1")
	require.Error(t, err)

	var failed *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "Query failed" {
			failed = e
		}
	}

	require.NotNil(t, failed)
	assert.Equal(t, logrus.WarnLevel, failed.Level)
	assert.Equal(t, sess.ID.String(), failed.Data["session"])
	assert.Equal(t, "local", failed.Data["profile"])
}
