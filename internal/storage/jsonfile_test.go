package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestReadJSONMissingFile(t *testing.T) {
	var out []doc
	found, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json"), &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, out)
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "docs.json")
	in := []doc{{Name: "a", Count: 1}, {Name: "b", Count: 2}}

	require.NoError(t, WriteJSON(path, in))

	var out []doc
	found, err := ReadJSON(path, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	in := []doc{{Name: "a", Count: 1}}

	require.NoError(t, WriteJSON(path, in))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteJSON(path, in))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var out []doc
	found, err := ReadJSON(path, &out)
	assert.True(t, found)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "decode", perr.Op)
	assert.Equal(t, path, perr.Path)
}

func TestWriteKeepsPreviousOnEncodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, WriteJSON(path, []doc{{Name: "keep"}}))

	err := WriteJSON(path, map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	var out []doc
	_, err = ReadJSON(path, &out)
	require.NoError(t, err)
	assert.Equal(t, []doc{{Name: "keep"}}, out)
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")

	dst, err := Backup(path)
	require.NoError(t, err)
	assert.Empty(t, dst)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	dst, err = Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+BackupSuffix, dst)

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(content))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
