package async

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/licitaciones/internal/core"
)

type recordingProcessor struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (r *recordingProcessor) Process(_ context.Context, req core.Request) (core.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen == nil {
		r.seen = map[string]bool{}
	}
	r.seen[req.Document.Path] = req.Force
	return core.Result{Path: req.Document.Path, Outcome: core.OutcomeProcessed}, nil
}

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	dir := t.TempDir()
	proc := &recordingProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(2), WithQueueSize(1), WithProcessTimeout(time.Second))

	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("Ciudad: Ponce\n"), 0o644))
		paths = append(paths, p)
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p, Force: name == "b.txt"}))
	}
	// unreadable files are logged and skipped
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: filepath.Join(dir, "missing.txt")}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	assert.Len(t, proc.seen, 3)
	for _, p := range paths {
		assert.Contains(t, proc.seen, p)
	}
	assert.True(t, proc.seen[paths[1]])
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&recordingProcessor{}, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Path: "x.txt"}), ErrClosed)
}

type blockingProcessor struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingProcessor) Process(_ context.Context, req core.Request) (core.Result, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return core.Result{Path: req.Document.Path, Outcome: core.OutcomeProcessed}, nil
}

func TestProcessorQueueShutdownReleasesBlockedEnqueue(t *testing.T) {
	dir := t.TempDir()
	proc := &blockingProcessor{started: make(chan struct{}), release: make(chan struct{})}
	defer close(proc.release)
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1), WithProcessTimeout(time.Second))

	job := func(name string) Job {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("Ciudad: Ponce\n"), 0o644))
		return Job{Path: p}
	}
	require.NoError(t, q.Enqueue(context.Background(), job("a.txt")))
	<-proc.started
	// the worker is busy and the buffer now holds the only free slot
	require.NoError(t, q.Enqueue(context.Background(), job("b.txt")))

	blocked := job("c.txt")
	enqueued := make(chan error, 1)
	go func() { enqueued <- q.Enqueue(context.Background(), blocked) }()
	time.Sleep(20 * time.Millisecond)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		q.Shutdown(ctx)
	}()

	select {
	case <-shutdownDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return while an Enqueue was blocked")
	}
	select {
	case err := <-enqueued:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Enqueue was not released")
	}
}
