// Package storage persists JSON documents to disk with atomic replacement.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// PersistenceError reports a file that could not be read, written or decoded.
type PersistenceError struct {
	Op    string
	Path  string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// ReadJSON decodes the file at path into v.
// It returns false and no error if the file does not exist.
func ReadJSON(path string, v any) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &PersistenceError{Op: "read", Path: path, Cause: err}
	}

	if err := json.Unmarshal(content, v); err != nil {
		return true, &PersistenceError{Op: "decode", Path: path, Cause: err}
	}

	return true, nil
}

// WriteJSON encodes v and replaces the file at path.
// The data goes to a temporary file in the same directory first, so a crash
// mid-write leaves the previous contents intact.
func WriteJSON(path string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "encode", Path: path, Cause: err}
	}
	content = append(content, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return &PersistenceError{Op: "create dir", Path: filepath.Dir(path), Cause: err}
	}

	if err := renameio.WriteFile(path, content, 0o600); err != nil {
		return &PersistenceError{Op: "write", Path: path, Cause: err}
	}

	return nil
}

// BackupSuffix is appended to a file kept aside by Backup.
const BackupSuffix = ".bak"

// Backup copies the file at path to path+BackupSuffix, replacing any older
// backup. It returns the backup path, or "" when there is no file to copy.
func Backup(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", &PersistenceError{Op: "backup", Path: path, Cause: err}
	}

	dst := path + BackupSuffix
	if err := renameio.WriteFile(dst, content, 0o600); err != nil {
		return "", &PersistenceError{Op: "backup", Path: dst, Cause: err}
	}

	return dst, nil
}
