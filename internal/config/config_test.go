package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend":"redis","redis_url":"redis://localhost:6379/0","log_level":"debug"}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, c.Backend)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisURL)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "jobs", c.StorageKey)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"db_path":"from-file.db"}`), 0o644))
	t.Setenv("JOBBOARD_DB_PATH", "from-env.db")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", c.DBPath)
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"db_path":"from-file.db"}`), 0o644))
	t.Setenv("JOBBOARD_DB_PATH", "from-env.db")
	t.Setenv("JOBBOARD_LOG_LEVEL", "debug")

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", c.DBPath)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend":"postgres"}`), 0o644))

	_, err := Load(path)
	assert.EqualError(t, err, "postgres_url is required when backend is postgres")
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	c := Default()
	require.NoError(t, c.Set("backend", "memory"))
	require.NoError(t, c.Set("storage-key", "board"))
	require.NoError(t, c.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestSet(t *testing.T) {
	c := Default()
	assert.Error(t, c.Set("max-retries", "3"))
	assert.Error(t, c.Set("backend", "mongo"))
	assert.Equal(t, BackendSQLite, c.Backend, "failed Set must not modify config")

	require.NoError(t, c.Set("log_level", "warn"))
	v, err := c.Get("log_level")
	require.NoError(t, err)
	assert.Equal(t, "warn", v)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.LogLevel = "loud"
	assert.Error(t, c.Validate())

	c = Default()
	c.LogFormat = "xml"
	assert.Error(t, c.Validate())

	c = Default()
	c.StorageKey = ""
	assert.Error(t, c.Validate())
}

func TestLogger(t *testing.T) {
	c := Default()
	c.LogLevel = "debug"
	c.LogFormat = "json"
	l := c.Logger()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}
