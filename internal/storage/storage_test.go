package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/config"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	f, err := os.CreateTemp("", "jobboard_test_*.db")
	if err != nil {
		t.Fatalf("tmp file: %v", err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(path) })

	s := NewSQLiteStorage("jobs")
	if err := s.Init(path); err != nil {
		t.Fatalf("init storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleJobs() []job.Job {
	return []job.Job{
		{ID: 1, Title: "Parse Emails", Status: job.StatusNeedToStart},
		{ID: 2, Title: "SAP Extraction", Status: job.StatusStopped, Category: job.CategoryWebParsing},
		{ID: 5, Title: "Send digest", Status: job.StatusCompleted, Category: job.CategorySendEmails},
	}
}

// exerciseRoundtrip checks the Storage contract shared by every backend.
func exerciseRoundtrip(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, found, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	want := sampleJobs()
	require.NoError(t, s.Save(ctx, want))
	got, found, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, s.Save(ctx, want[:1]))
	got, _, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want[:1], got)

	require.NoError(t, s.Save(ctx, nil))
	got, found, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found, "an empty board is still a saved board")
	assert.Empty(t, got)
}

func TestSQLiteRoundtrip(t *testing.T) {
	exerciseRoundtrip(t, newTestStorage(t))
}

func TestMemoryRoundtrip(t *testing.T) {
	s := NewMemoryStorage()
	exerciseRoundtrip(t, s)
	assert.Equal(t, 3, s.Saves())
	assert.JSONEq(t, `[]`, string(s.Blob()))
}

func TestSQLiteInitFailureReleasesHandle(t *testing.T) {
	s := NewSQLiteStorage("jobs")
	err := s.Init(filepath.Join(t.TempDir(), "missing", "jobs.db"))
	require.Error(t, err)
	assert.Nil(t, s.db)
	assert.NoError(t, s.Close())
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	a := newTestStorage(t)
	b := &SQLiteStorage{db: a.db, key: "other"}
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, sampleJobs()))
	_, found, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDecodeRepairsMissingStatus(t *testing.T) {
	jobs, err := Decode([]byte(`[{"id":1,"title":"Parse Emails"},{"id":2,"title":"x","status":"To Start","category":"Read Emails"}]`))
	require.NoError(t, err)
	assert.Equal(t, []job.Job{
		{ID: 1, Title: "Parse Emails", Status: job.StatusNeedToStart},
		{ID: 2, Title: "x", Status: job.StatusNeedToStart, Category: job.CategoryReadEmails},
	}, jobs)
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode([]byte(`[{"id":1,"title":"a"},{"id":1,"title":"b"}]`))
	assert.ErrorContains(t, err, "duplicate job id 1")

	_, err = Decode([]byte(`[{"id":1,"title":"a","status":"Archived"}]`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{not json`))
	assert.Error(t, err)
}

func TestEncodeFormat(t *testing.T) {
	b, err := Encode(sampleJobs()[:2])
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"title":"Parse Emails","status":"Need to Start"},
		{"id":2,"title":"SAP Extraction","status":"Stopped","category":"Web Parsing"}
	]`, string(b))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Backend = config.BackendMemory
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	cfg = config.Default()
	cfg.DBPath = t.TempDir() + "/open.db"
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	assert.IsType(t, &SQLiteStorage{}, s)

	cfg.Backend = "etcd"
	_, err = Open(ctx, cfg)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
