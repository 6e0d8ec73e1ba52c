// Package profile stores named database connection profiles.
//
// Passwords are kept on disk either obscured ("ENC:" followed by the base64
// of the UTF-8 bytes) or in the OS keychain. The obscured form is a
// reversible encoding that keeps passwords from being read at a glance. It is
// not encryption and anyone with read access to the file can recover them.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// Engine identifies the database dialect a profile targets.
type Engine string

// Supported engines.
const (
	EngineOracle   Engine = "Oracle"
	EnginePostgres Engine = "PostgreSQL"
)

// Engines lists the supported engines in display order.
var Engines = []Engine{EngineOracle, EnginePostgres}

// ParseEngine matches a user supplied engine name.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oracle":
		return EngineOracle, nil
	case "postgresql", "postgres", "pg":
		return EnginePostgres, nil
	default:
		return "", fmt.Errorf("unsupported engine %q", s)
	}
}

// Profile is a named set of connection credentials.
type Profile struct {
	Name     string `json:"name"`
	Engine   Engine `json:"type"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Equal reports whether two profiles have the same identity. The password is
// not part of the identity, so changing it does not make a new profile.
func (p Profile) Equal(o Profile) bool {
	return p.Name == o.Name &&
		p.Engine == o.Engine &&
		p.URL == o.URL &&
		p.Username == o.Username
}

// key joins the identity fields.
func (p Profile) key() string {
	return strings.Join([]string{string(p.Engine), p.URL, p.Username, p.Name}, "|")
}

// String returns the display label of the profile.
func (p Profile) String() string {
	return p.Name + " (" + string(p.Engine) + ")"
}

// Validate checks the fields required to connect.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name is required")
	}

	if _, err := ParseEngine(string(p.Engine)); err != nil {
		return err
	}

	if strings.TrimSpace(p.URL) == "" {
		return fmt.Errorf("connection url is required")
	}

	return nil
}

// BuildURL builds the engine specific connection string for a host, port and
// database. For Oracle the database is the SID.
func BuildURL(engine Engine, host string, port int, database string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("host is required")
	}

	switch engine {
	case EngineOracle:
		if port == 0 {
			port = 1521
		}
		return "jdbc:oracle:thin:@" + host + ":" + strconv.Itoa(port) + ":" + database, nil
	case EnginePostgres:
		if port == 0 {
			port = 5432
		}
		return "jdbc:postgresql://" + host + ":" + strconv.Itoa(port) + "/" + database, nil
	default:
		return "", fmt.Errorf("unsupported engine %q", engine)
	}
}
