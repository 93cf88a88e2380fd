package service

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/endpoint/internal/database/repository"
)

func insert(t *testing.T, repo *repository.RequestRepo, name, team, request, date, status string) int64 {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	id, err := repo.Insert(context.Background(), repository.DataRequest{Name: name, Team: team, Request: request, Date: d, Status: status})
	require.NoError(t, err)
	return id
}

func TestStatusAdvance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewRequestRepo(db)
	svc := &StatusService{DB: db, Requests: repo}

	pending := insert(t, repo, "John Doe", "Marketing", "Data Analysis", "2023-06-01", "Pending")
	approved := insert(t, repo, "Jane Smith", "Sales", "Data Export", "2023-05-15", "Approved")
	done := insert(t, repo, "Bob Johnson", "IT", "Data Visualization", "2023-04-30", "Ready to analyze")

	n, err := svc.Advance(ctx, []int64{pending, approved, done, 999})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	for id, want := range map[int64]string{pending: "Evaluation", approved: "Ready to analyze", done: "Ready to analyze"} {
		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got.Status)
	}

	n, err = svc.Advance(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDuplicateFinder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewRequestRepo(db)

	insert(t, repo, "John Doe", "Marketing", "Data Analysis", "2023-06-01", "")
	insert(t, repo, "John Doe", "Marketing", "Data Analyses", "2023-06-10", "")
	insert(t, repo, "John Doe", "Sales", "Data Analysis", "2023-06-02", "")
	insert(t, repo, "John Doe", "Marketing", "Data Analysis", "2023-01-01", "")
	insert(t, repo, "Alice Green", "Marketing", "Data Architecture", "2023-06-03", "")

	pairs, err := (&DuplicateFinder{Requests: repo}).Find(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Equal(t, "Data Analysis", pairs[0].A.Request)
	require.Equal(t, "Data Analyses", pairs[0].B.Request)
	require.Greater(t, pairs[0].Similarity, 0.9)
}

func TestSimilarity(t *testing.T) {
	t.Parallel()
	require.InDelta(t, 1.0, similarity("", ""), 1e-9)
	require.InDelta(t, 1.0, similarity("ABC", "ABC"), 1e-9)
	require.InDelta(t, 0.0, similarity("ABC", "XYZ"), 1e-9)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewRequestRepo(db)
	insert(t, repo, "Someone", "Ops", "Extra", "2024-01-01", "")

	require.NoError(t, (&MaintenanceService{DB: db}).Reset(ctx))

	reqs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 10)
	for _, r := range reqs {
		require.NotEqual(t, "Someone", r.Name)
	}
	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}

func TestWatcherDebouncesWrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "requests.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	w := &Watcher{Path: path, Debounce: 100 * time.Millisecond}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func() { calls.Add(1) }) }()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("b\n"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0o600))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestScheduler(t *testing.T) {
	t.Parallel()

	_, err := NewScheduler("not a schedule", func() {}, nil)
	require.Error(t, err)

	idle, err := NewScheduler("", func() {}, nil)
	require.NoError(t, err)
	require.Zero(t, idle.Entries())

	s, err := NewScheduler("@every 1h", func() {}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, s.Entries())
	s.Start()
	s.Stop()
}
