package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/board"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/config"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

// newTestConfig writes a config pointing at a fresh sqlite file and returns
// its path.
func newTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "jobboard_config.json")
	_, err := run(cfgPath, "config", "set", "db_path", filepath.Join(dir, "jobs.db"))
	require.NoError(t, err)
	_, err = run(cfgPath, "config", "set", "log_level", "error")
	require.NoError(t, err)
	return cfgPath
}

func run(cfgPath string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	err := execute(context.Background(), append(args, "--config="+cfgPath), &out, &errOut)
	return out.String(), err
}

func TestConfigSetGet(t *testing.T) {
	cfgPath := newTestConfig(t)

	out, err := run(cfgPath, "config", "get", "log_level")
	require.NoError(t, err)
	assert.Equal(t, "error\n", out)

	out, err = run(cfgPath, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, `"backend": "sqlite"`)

	_, err = run(cfgPath, "config", "set", "backend", "mongo")
	assert.Error(t, err)
	_, err = run(cfgPath, "config", "set", "colour", "blue")
	assert.ErrorContains(t, err, "unknown config key")

	out, err = run(cfgPath, "config", "get", "backend")
	require.NoError(t, err)
	assert.Equal(t, "sqlite\n", out)
}

func TestConfigSetDoesNotSaveEnv(t *testing.T) {
	cfgPath := newTestConfig(t)
	t.Setenv("JOBBOARD_LOG_LEVEL", "debug")

	_, err := run(cfgPath, "config", "set", "storage_key", "board")
	require.NoError(t, err)

	cfg, err := config.LoadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "board", cfg.StorageKey)
}

func TestAddAndListPersist(t *testing.T) {
	cfgPath := newTestConfig(t)

	out, err := run(cfgPath, "add", "--title", "Scrape prices", "--category", "web parsing")
	require.NoError(t, err)
	assert.Contains(t, out, "added job 4 (Need to Start)")

	out, err = run(cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Parse Emails")
	assert.Contains(t, out, "Scrape prices")
	assert.Contains(t, out, "Web Parsing")

	out, err = run(cfgPath, "list", "--search", "SCRAPE")
	require.NoError(t, err)
	assert.Contains(t, out, "Scrape prices")
	assert.NotContains(t, out, "SAP Extraction")

	out, err = run(cfgPath, "list", "--search", "nothing like this")
	require.NoError(t, err)
	assert.Equal(t, "No jobs found.\n", out)
}

func TestAddValidation(t *testing.T) {
	cfgPath := newTestConfig(t)

	_, err := run(cfgPath, "add", "--title", "ab", "--category", "Read Emails")
	var verr *job.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, job.MsgTitleTooShort, verr.Message)

	_, err = run(cfgPath, "add", "--title", "Valid title")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, job.MsgCategoryRequired, verr.Message)

	_, err = run(cfgPath, "add", "--direct", "--title", "x")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, job.MsgJobCategory, verr.Message)

	_, err = run(cfgPath, "add", "--direct", "--title", "x", "--category", "Read Emails", "--status", "stopped")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, job.MsgStatusRequired, verr.Message)

	out, err := run(cfgPath, "add", "--direct", "--title", "x", "--category", "Read Emails")
	require.NoError(t, err)
	assert.Contains(t, out, "added job 4")
}

func TestAdvanceDeleteEdit(t *testing.T) {
	cfgPath := newTestConfig(t)

	out, err := run(cfgPath, "advance", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "job 1 is now In Progress")

	out, err = run(cfgPath, "advance", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "job 99 not found")

	out, err = run(cfgPath, "edit", "1", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "job 1 updated")

	out, err = run(cfgPath, "delete", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "job 3 deleted")
	out, err = run(cfgPath, "delete", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "job 3 not found")

	_, err = run(cfgPath, "delete", "abc")
	assert.ErrorContains(t, err, "invalid job id")

	out, err = run(cfgPath, "board")
	require.NoError(t, err)
	assert.Contains(t, out, "Need to Start (0)")
	assert.Contains(t, out, "Completed (1)")
	assert.Contains(t, out, "Mark as Incomplete")
}

func TestMove(t *testing.T) {
	cfgPath := newTestConfig(t)

	out, err := run(cfgPath, "move", "1", "--to", "stopped")
	require.NoError(t, err)
	assert.Contains(t, out, "job 1 moved to Stopped")

	out, err = run(cfgPath, "move", "1", "--to", "Stopped", "--to-index", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to do")

	_, err = run(cfgPath, "move", "2", "--to", "archive")
	assert.ErrorIs(t, err, board.ErrUnknownColumn)

	out, err = run(cfgPath, "move", "42", "--to", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "job 42 not found")

	out, err = run(cfgPath, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "Parse Emails")
	assert.Contains(t, last, "Stopped")

	out, err = run(cfgPath, "board")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped (1)")
}

func TestBoardSearch(t *testing.T) {
	cfgPath := newTestConfig(t)

	out, err := run(cfgPath, "board", "--search", "sap")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress (1)")
	assert.Contains(t, out, "Need to Start (0)")
	assert.Contains(t, out, "Complete")
	assert.NotContains(t, out, "Parse Emails")
}
