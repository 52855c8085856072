package database

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	dsn, err := sqliteDSN(Config{})
	require.NoError(t, err)
	require.Equal(t, sqliteMemoryDSN, dsn)

	dsn, err = sqliteDSN(Config{Path: ":MEMORY:"})
	require.NoError(t, err)
	require.Equal(t, sqliteMemoryDSN, dsn)

	path := filepath.Join(t.TempDir(), "nested", "ehome.sqlite")
	dsn, err = sqliteDSN(Config{Path: path})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dsn, "file:"+filepath.ToSlash(path)+"?"))
	require.Contains(t, dsn, "_busy_timeout=5000")
	require.Contains(t, dsn, "_foreign_keys=1")
	require.Contains(t, dsn, "_journal_mode=WAL")
	require.DirExists(t, filepath.Dir(path))
}

func TestMySQLDSNDefaults(t *testing.T) {
	dsn, err := mysqlDSN(Config{User: "ehome", Name: "ehome"})
	require.NoError(t, err)

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "ehome", parsed.User)
	require.Empty(t, parsed.Passwd)
	require.Equal(t, "tcp", parsed.Net)
	require.Equal(t, "127.0.0.1:3306", parsed.Addr)
	require.Equal(t, "ehome", parsed.DBName)
	require.True(t, parsed.ParseTime)
	require.Equal(t, time.UTC, parsed.Loc)
}

func TestMySQLDSNWithOptions(t *testing.T) {
	dsn, err := mysqlDSN(Config{
		User:     "user",
		Password: "secret",
		Name:     "db",
		Host:     "db.example.com",
		Port:     3307,
		Options:  map[string]string{"sql_mode": "TRADITIONAL"},
	})
	require.NoError(t, err)

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "secret", parsed.Passwd)
	require.Equal(t, "db.example.com:3307", parsed.Addr)
	require.Equal(t, "TRADITIONAL", parsed.Params["sql_mode"])
}

func TestPostgresDSNDefaults(t *testing.T) {
	dsn, err := postgresDSN(Config{User: "ehome", Name: "ehome"})
	require.NoError(t, err)
	require.Equal(t, "postgres://ehome@localhost:5432/ehome?TimeZone=UTC&sslmode=disable", dsn)

	parsed, err := pgconn.ParseConfig(dsn)
	require.NoError(t, err)
	require.Equal(t, "localhost", parsed.Host)
	require.EqualValues(t, 5432, parsed.Port)
	require.Equal(t, "ehome", parsed.Database)
	require.Nil(t, parsed.TLSConfig)
	require.Equal(t, "UTC", parsed.RuntimeParams["TimeZone"])
}

func TestPostgresDSNWithOptions(t *testing.T) {
	dsn, err := postgresDSN(Config{
		User:     "user",
		Password: "p@ss word",
		Name:     "db",
		Host:     "db.example.com",
		Port:     6543,
		Options:  map[string]string{"search_path": "listing"},
	})
	require.NoError(t, err)

	parsed, err := pgconn.ParseConfig(dsn)
	require.NoError(t, err)
	require.Equal(t, "db.example.com", parsed.Host)
	require.EqualValues(t, 6543, parsed.Port)
	require.Equal(t, "user", parsed.User)
	require.Equal(t, "p@ss word", parsed.Password)
	require.Equal(t, "listing", parsed.RuntimeParams["search_path"])
}

func TestDSNRequiresUserAndName(t *testing.T) {
	_, err := mysqlDSN(Config{Host: "localhost"})
	require.Error(t, err)

	_, err = postgresDSN(Config{User: "only-user"})
	require.Error(t, err)
}

func TestDSNOverrideWins(t *testing.T) {
	for _, build := range []func(Config) (string, error){sqliteDSN, mysqlDSN, postgresDSN} {
		dsn, err := build(Config{DSN: "custom"})
		require.NoError(t, err)
		require.Equal(t, "custom", dsn)
	}
}
