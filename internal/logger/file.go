package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

var logFileRegex = regexp.MustCompile(`^(debug|error)-(\d{4}-\d{2}-\d{2})\.log$`)

// dailyFileHook appends every entry to <dir>/<kind>-<date>.log, where kind is
// "error" for warnings and above and "debug" for everything else.
type dailyFileHook struct {
	mu        sync.Mutex
	dir       string
	retention int
	formatter logrus.Formatter
	now       func() time.Time
}

func newDailyFileHook(dir string, retentionDays int) (*dailyFileHook, error) {
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	if retentionDays <= 0 {
		retentionDays = 2
	}

	return &dailyFileHook{
		dir:       dir,
		retention: retentionDays,
		formatter: &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		},
		now: time.Now,
	}, nil
}

// Levels implements logrus.Hook.
func (h *dailyFileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *dailyFileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	path := filepath.Join(h.dir, fmt.Sprintf("%s-%s.log", classify(entry.Level), now.Format(dateLayout)))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}

	_, err = f.Write(line)
	closeErr := f.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	h.prune(now)
	return nil
}

// prune removes log files dated before the retention window.
func (h *dailyFileHook) prune(now time.Time) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	cutoff := today.AddDate(0, 0, -h.retention)

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}

		m := logFileRegex.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		day, err := time.ParseInLocation(dateLayout, m[2], time.Local)
		if err != nil {
			continue
		}

		if day.Before(cutoff) {
			_ = os.Remove(filepath.Join(h.dir, e.Name()))
		}
	}
}

func classify(level logrus.Level) string {
	if level <= logrus.WarnLevel {
		return "error"
	}

	return "debug"
}
