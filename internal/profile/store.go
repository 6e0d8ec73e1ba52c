package profile

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joacominatel/alertsnap/internal/logger"
	"github.com/joacominatel/alertsnap/internal/storage"
)

var (
	// ErrExists is returned when adding a profile whose identity is already stored.
	ErrExists = errors.New("profile already exists")

	// ErrNotFound is returned when a profile is not in the store.
	ErrNotFound = errors.New("profile not found")
)

// Store is the ordered list of profiles backed by a JSON file.
// All methods are safe for concurrent use; writes are serialized.
type Store struct {
	mu      sync.Mutex
	path    string
	secrets Secrets
	items   []Profile

	// held keeps the stored form of keychain passwords that could not be
	// resolved, so saving does not overwrite the marker with an empty value.
	held map[string]string

	// unreadable is set when the file exists but could not be loaded. The
	// next save keeps a copy of it first.
	unreadable bool
}

// Option configures a Store.
type Option func(*Store)

// WithSecrets selects where passwords are kept. The default is FileSecrets.
func WithSecrets(s Secrets) Option {
	return func(st *Store) {
		st.secrets = s
	}
}

// NewStore returns a store backed by the file at path. Nothing is read until Load.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		secrets: FileSecrets{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file and replaces the in-memory list.
//
// A missing file yields an empty list. A password that cannot be decoded is
// blanked and logged; the other profiles still load. A malformed file yields
// an empty list together with the *storage.PersistenceError.
func (s *Store) Load() ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored []Profile
	_, err := storage.ReadJSON(s.path, &stored)
	if err != nil {
		s.items = nil
		s.held = nil
		s.unreadable = true
		return []Profile{}, err
	}

	s.unreadable = false
	s.held = map[string]string{}
	for i := range stored {
		p := &stored[i]

		plain, err := s.secrets.Open(*p, p.Password)
		if err != nil {
			decodeErr := &CredentialDecodeError{Profile: p.Name, Cause: err}
			logger.Warn("Password could not be decoded, leaving it empty", logger.Ctx{"profile": p.Name, "err": decodeErr})
			plain = ""

			if p.Password == KeyringMarker {
				s.held[p.key()] = p.Password
			}
		}

		p.Password = plain
	}

	s.items = stored
	logger.Debug("Loaded connection profiles", logger.Ctx{"count": len(stored), "path": s.path})

	return s.snapshot(), nil
}

// List returns a copy of the in-memory list.
func (s *Store) List() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Store) snapshot() []Profile {
	out := make([]Profile, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the first profile with the given name.
func (s *Store) Find(name string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.items {
		if p.Name == name {
			return p, nil
		}
	}

	return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Save replaces the whole list and writes it out.
func (s *Store) Save(profiles []Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(profiles)
}

// Add appends a profile and writes the list.
func (s *Store) Add(p Profile) error {
	err := p.Validate()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Equal(p) {
			return fmt.Errorf("%w: %s", ErrExists, p)
		}
	}

	next := make([]Profile, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, p)

	return s.saveLocked(next)
}

// Remove deletes the profile with the same identity as p and writes the list.
func (s *Store) Remove(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.items {
		if existing.Equal(p) {
			idx = i
			break
		}
	}

	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p)
	}

	next := make([]Profile, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)

	err := s.saveLocked(next)
	if err != nil {
		return err
	}

	delete(s.held, p.key())

	err = s.secrets.Forget(p)
	if err != nil {
		logger.Warn("Failed to forget stored password", logger.Ctx{"profile": p.Name, "err": err})
	}

	return nil
}

func (s *Store) saveLocked(profiles []Profile) error {
	stored := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		raw, ok := s.held[p.key()]
		if !ok || p.Password != "" {
			sealed, err := s.secrets.Seal(p)
			if err != nil {
				return fmt.Errorf("seal password for %q: %w", p.Name, err)
			}
			raw = sealed
		}

		p.Password = raw
		stored = append(stored, p)
	}

	if s.unreadable {
		backup, err := storage.Backup(s.path)
		if err != nil {
			return err
		}

		if backup != "" {
			logger.Warn("Kept a copy of the unreadable profiles file", logger.Ctx{"path": backup})
		}
		s.unreadable = false
	}

	err := storage.WriteJSON(s.path, stored)
	if err != nil {
		return err
	}

	s.items = make([]Profile, len(profiles))
	copy(s.items, profiles)

	return nil
}
