package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometuition/portal/core"
)

func TestDSN(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Database.Host = "db.local"
	conf.Database.Port = 5433
	conf.Database.User = "tuition"
	conf.Database.Password = "p@ss word"
	conf.Database.Name = "tuition_db"

	tests := []struct {
		disableTLS  bool
		wantSSLMode string
	}{
		{disableTLS: true, wantSSLMode: "disable"},
		{disableTLS: false, wantSSLMode: "require"},
	}
	for _, tt := range tests {
		conf.Database.DisableTLS = tt.disableTLS

		u, err := url.Parse(DSN(conf))
		require.NoError(t, err)
		assert.Equal(t, "postgres", u.Scheme)
		assert.Equal(t, "db.local:5433", u.Host)
		assert.Equal(t, "/tuition_db", u.Path)
		assert.Equal(t, "tuition", u.User.Username())
		pwd, _ := u.User.Password()
		assert.Equal(t, "p@ss word", pwd)
		assert.Equal(t, tt.wantSSLMode, u.Query().Get("sslmode"))
		assert.Equal(t, "utc", u.Query().Get("timezone"))
	}
}

func TestMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_inquiries.sql", "00003_create_teachers.sql"}, names)
}
