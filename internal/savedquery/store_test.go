package savedquery

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/alertsnap/internal/storage"
)

func TestEqualIgnoresTimestamp(t *testing.T) {
	a := Query{Name: "q", SQL: "SELECT 1", CreatedAt: Timestamp{time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)}}
	b := Query{Name: "q", SQL: "SELECT 1", CreatedAt: Timestamp{time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)}}
	assert.True(t, a.Equal(b))

	c := b
	c.SQL = "SELECT 2"
	assert.False(t, a.Equal(c))
}

func TestNewStampsCreation(t *testing.T) {
	before := time.Now()
	q := New("q", "SELECT 1")
	assert.False(t, q.CreatedAt.Before(before))
	assert.Equal(t, "SELECT 1", q.SQL)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	content := `[{"name":"q1","sql":"SELECT 1","createdAt":"2024-01-01T00:00:00"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "q1", loaded[0].Name)
	assert.Equal(t, "SELECT 1", loaded[0].SQL)
	assert.True(t, loaded[0].CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
}

func TestTimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"local iso", `"2024-01-01T10:20:30"`, time.Date(2024, 1, 1, 10, 20, 30, 0, time.Local)},
		{"fractional", `"2024-01-01T10:20:30.123456789"`, time.Date(2024, 1, 1, 10, 20, 30, 123456789, time.Local)},
		{"minutes only", `"2024-01-01T10:20"`, time.Date(2024, 1, 1, 10, 20, 0, 0, time.Local)},
		{"rfc3339", `"2024-01-01T10:20:30Z"`, time.Date(2024, 1, 1, 10, 20, 30, 0, time.UTC)},
		{"array", `[2024,1,1,10,20,30,500]`, time.Date(2024, 1, 1, 10, 20, 30, 500, time.Local)},
		{"short array", `[2024,1,1,10,20]`, time.Date(2024, 1, 1, 10, 20, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, ts.Equal(tt.want), "got %s want %s", ts.Time, tt.want)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`[2024]`), &ts))
}

func TestTimestampNull(t *testing.T) {
	var q Query
	require.NoError(t, json.Unmarshal([]byte(`{"name":"q","sql":"x","createdAt":null}`), &q))
	assert.True(t, q.CreatedAt.IsZero())

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"q","sql":"x","createdAt":null}`, string(out))
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	in := []Query{
		New("first", "SELECT * FROM dual"),
		New("second", "UPDATE t SET x = 'ü'\nWHERE id = 1"),
	}

	require.NoError(t, NewStore(path).Save(in))

	out, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.True(t, in[i].Equal(out[i]))
		assert.True(t, in[i].CreatedAt.Equal(out[i].CreatedAt.Time))
	}

	var raw []map[string]any
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, &raw))
	created, ok := raw[0]["createdAt"].(string)
	require.True(t, ok)
	_, err = time.ParseInLocation(TimestampLayout, created, time.Local)
	assert.NoError(t, err)
}

func TestStoreLoadMissingFile(t *testing.T) {
	loaded, err := NewStore(filepath.Join(t.TempDir(), "queries.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStoreLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"not a list"}`), 0o600))

	loaded, err := NewStore(path).Load()
	assert.Empty(t, loaded)

	var perr *storage.PersistenceError
	assert.True(t, errors.As(err, &perr))
}

func TestStoreAddRemoveFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	store := NewStore(path)

	require.NoError(t, store.Add(New("q", "SELECT 1")))

	// Same name and SQL at a later time collides.
	later := New("q", "SELECT 1")
	later.CreatedAt = Timestamp{later.CreatedAt.Add(time.Hour)}
	assert.ErrorIs(t, store.Add(later), ErrExists)

	require.NoError(t, store.Add(New("q", "SELECT 2")))

	found, err := store.Find("q")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", found.SQL)

	require.NoError(t, store.Remove(Query{Name: "q", SQL: "SELECT 1"}))
	assert.ErrorIs(t, store.Remove(Query{Name: "q", SQL: "SELECT 1"}), ErrNotFound)

	reloaded, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, "SELECT 2", reloaded[0].SQL)

	_, err = store.Find("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreAddRejectsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "queries.json"))
	assert.Error(t, store.Add(New("", "SELECT 1")))
	assert.Error(t, store.Add(New("empty", "   ")))
}

func TestStoreBacksUpUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	broken := `{"name":"not a list"}`
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o600))

	store := NewStore(path)
	_, err := store.Load()
	require.Error(t, err)

	require.NoError(t, store.Add(New("one", "SELECT 1")))

	backup, err := os.ReadFile(path + storage.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, broken, string(backup))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
