package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"jdbc:postgresql://localhost:5432/app", "postgresql://localhost:5432/app"},
		{"  jdbc:postgresql://db:6543/sales?sslmode=disable ", "postgresql://db:6543/sales?sslmode=disable"},
		{"postgres://localhost/app", "postgres://localhost/app"},
	}

	for _, tt := range tests {
		got, err := DSN(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got)
	}
}

func TestDSNRejectsOtherEngines(t *testing.T) {
	_, err := DSN("jdbc:oracle:thin:@localhost:1521:XE")
	assert.Error(t, err)

	_, err = DSN("")
	assert.Error(t, err)
}
