// Package savedquery stores named SQL snippets.
package savedquery

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Query is a named SQL text.
type Query struct {
	Name      string    `json:"name"`
	SQL       string    `json:"sql"`
	CreatedAt Timestamp `json:"createdAt"`
}

// New returns a query stamped with the current time.
func New(name, sql string) Query {
	return Query{
		Name:      name,
		SQL:       sql,
		CreatedAt: Timestamp{time.Now()},
	}
}

// Equal reports whether two queries have the same name and SQL.
// The creation time is not compared.
func (q Query) Equal(o Query) bool {
	return q.Name == o.Name && q.SQL == o.SQL
}

// String returns the display label of the query.
func (q Query) String() string {
	if q.CreatedAt.IsZero() {
		return q.Name
	}

	return q.Name + " (" + q.CreatedAt.Format("2006-01-02") + ")"
}

// Validate checks that the query can be stored.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return fmt.Errorf("query name is required")
	}

	if strings.TrimSpace(q.SQL) == "" {
		return fmt.Errorf("query text is empty")
	}

	return nil
}

// TimestampLayout is the ISO-8601 local date-time written to disk.
const TimestampLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a local date-time serialized without a zone.
type Timestamp struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.Local().Format(TimestampLayout))
}

// UnmarshalJSON accepts an ISO-8601 string, with or without an offset, or an
// array of [year, month, day, hour, minute, second, nanos] components.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		t.Time = time.Time{}
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var parts []int
		err := json.Unmarshal(data, &parts)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", trimmed, err)
		}

		return t.fromParts(parts)
	}

	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", trimmed, err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}

	t.Time = parsed
	return nil
}

func (t *Timestamp) fromParts(parts []int) error {
	if len(parts) < 3 || len(parts) > 7 {
		return fmt.Errorf("invalid timestamp: %d components", len(parts))
	}

	v := make([]int, 7)
	copy(v, parts)

	t.Time = time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], v[6], time.Local)
	return nil
}

// ParseTimestamp parses the formats accepted in queries.json.
func ParseTimestamp(s string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return parsed, nil
	}

	for _, layout := range []string{TimestampLayout, "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
