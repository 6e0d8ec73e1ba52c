package savedquery

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joacominatel/alertsnap/internal/logger"
	"github.com/joacominatel/alertsnap/internal/storage"
)

var (
	// ErrExists is returned when a query with the same name and SQL is already stored.
	ErrExists = errors.New("query already exists")

	// ErrNotFound is returned when a query is not in the store.
	ErrNotFound = errors.New("query not found")
)

// Store is the ordered list of saved queries backed by a JSON file.
type Store struct {
	mu    sync.Mutex
	path  string
	items []Query

	// unreadable is set when the file exists but could not be loaded.
	unreadable bool
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file and replaces the in-memory list.
// A missing file is not an error and yields an empty list.
func (s *Store) Load() ([]Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loaded []Query
	found, err := storage.ReadJSON(s.path, &loaded)
	if err != nil {
		s.items = nil
		s.unreadable = true
		return []Query{}, err
	}

	s.unreadable = false

	if !found {
		logger.Info("Saved queries file not found", logger.Ctx{"path": s.path})
	}

	s.items = loaded
	logger.Debug("Loaded saved queries", logger.Ctx{"count": len(loaded)})

	return s.snapshot(), nil
}

// List returns a copy of the in-memory list.
func (s *Store) List() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Store) snapshot() []Query {
	out := make([]Query, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the most recently added query with the given name.
func (s *Store) Find(name string) (Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Name == name {
			return s.items[i], nil
		}
	}

	return Query{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Save replaces the whole list and writes it out.
func (s *Store) Save(queries []Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(queries)
}

// Add appends a query and writes the list.
func (s *Store) Add(q Query) error {
	err := q.Validate()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Equal(q) {
			return fmt.Errorf("%w: %s", ErrExists, q.Name)
		}
	}

	next := make([]Query, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, q)

	return s.saveLocked(next)
}

// Remove deletes the query equal to q and writes the list.
func (s *Store) Remove(q Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.items {
		if !existing.Equal(q) {
			continue
		}

		next := make([]Query, 0, len(s.items)-1)
		next = append(next, s.items[:i]...)
		next = append(next, s.items[i+1:]...)

		return s.saveLocked(next)
	}

	return fmt.Errorf("%w: %s", ErrNotFound, q.Name)
}

func (s *Store) saveLocked(queries []Query) error {
	out := make([]Query, len(queries))
	copy(out, queries)

	if s.unreadable {
		backup, err := storage.Backup(s.path)
		if err != nil {
			return err
		}

		if backup != "" {
			logger.Warn("Kept a copy of the unreadable saved queries file", logger.Ctx{"path": backup})
		}
		s.unreadable = false
	}

	err := storage.WriteJSON(s.path, out)
	if err != nil {
		return err
	}

	s.items = out
	return nil
}
