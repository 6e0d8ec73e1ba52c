package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIgnoresPassword(t *testing.T) {
	a := Profile{Name: "A", Engine: EnginePostgres, URL: "jdbc:postgresql://h:5432/db", Username: "u", Password: "one"}
	b := a
	b.Password = "two"
	assert.True(t, a.Equal(b))

	c := a
	c.Username = "other"
	assert.False(t, a.Equal(c))

	d := a
	d.Engine = EngineOracle
	assert.False(t, a.Equal(d))
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in   string
		want Engine
	}{
		{"Oracle", EngineOracle},
		{"oracle", EngineOracle},
		{"PostgreSQL", EnginePostgres},
		{"postgres", EnginePostgres},
		{" pg ", EnginePostgres},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEngine(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseEngine("mysql")
	assert.Error(t, err)
}

func TestBuildURL(t *testing.T) {
	url, err := BuildURL(EngineOracle, "db.local", 1521, "ORCL")
	require.NoError(t, err)
	assert.Equal(t, "jdbc:oracle:thin:@db.local:1521:ORCL", url)

	url, err = BuildURL(EnginePostgres, "h", 0, "db")
	require.NoError(t, err)
	assert.Equal(t, "jdbc:postgresql://h:5432/db", url)

	_, err = BuildURL(EnginePostgres, "", 5432, "db")
	assert.Error(t, err)

	_, err = BuildURL(Engine("SQLite"), "h", 1, "db")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	ok := Profile{Name: "A", Engine: EnginePostgres, URL: "jdbc:postgresql://h:5432/db"}
	assert.NoError(t, ok.Validate())

	noName := ok
	noName.Name = " "
	assert.Error(t, noName.Validate())

	noURL := ok
	noURL.URL = ""
	assert.Error(t, noURL.Validate())

	badEngine := ok
	badEngine.Engine = "DB2"
	assert.Error(t, badEngine.Validate())
}

func TestObscureReveal(t *testing.T) {
	for _, plain := range []string{"", "secret", "pä$$wörd", "пароль", "日本語🔑", "ENC:nested"} {
		t.Run(plain, func(t *testing.T) {
			stored := Obscure(plain)
			assert.Contains(t, stored, ObscuredPrefix)

			got, err := Reveal(stored)
			require.NoError(t, err)
			assert.Equal(t, plain, got)
		})
	}
}

func TestObscureFormat(t *testing.T) {
	assert.Equal(t, "ENC:c2VjcmV0", Obscure("secret"))
}

func TestRevealPassesThroughUnmarked(t *testing.T) {
	got, err := Reveal("plain-text")
	require.NoError(t, err)
	assert.Equal(t, "plain-text", got)
}

func TestRevealRejectsGarbage(t *testing.T) {
	_, err := Reveal("ENC:***not base64***")
	assert.Error(t, err)

	// 0xff 0xfe is not UTF-8.
	_, err = Reveal("ENC://4=")
	assert.Error(t, err)
}
