package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSubmit_ReturnsResult(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	boom := errors.New("boom")
	assert.NoError(t, p.Submit(context.Background(), "ok", func(context.Context) error { return nil }))
	assert.ErrorIs(t, p.Submit(context.Background(), "fail", func(context.Context) error { return boom }), boom)
	assert.EqualValues(t, 1, p.GetMetrics().FailedCount)
}

func TestSubmit_RecoversPanic(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := New(&Config{MaxWorkers: 1}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), "panicky", func(context.Context) error { panic("oops") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")

	// the worker survives
	assert.NoError(t, p.Submit(context.Background(), "after", func(context.Context) error { return nil }))
}

func TestShutdown_DrainsAsyncTasks(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := New(&Config{MaxWorkers: 2, QueueSize: 32}, nil)

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.SubmitAsync(context.Background(), "broadcast", func(context.Context) error {
			time.Sleep(time.Millisecond)
			ran.Add(1)
			return nil
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
	assert.EqualValues(t, 10, ran.Load())

	assert.ErrorIs(t, p.SubmitAsync(context.Background(), "late", func(context.Context) error { return nil }), ErrWorkerPoolClosed)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSubmitAsync_QueueFull(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.SubmitAsync(context.Background(), "block", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	require.NoError(t, p.SubmitAsync(context.Background(), "queued", func(context.Context) error { return nil }))
	assert.ErrorIs(t, p.SubmitAsync(context.Background(), "overflow", func(context.Context) error { return nil }), ErrWorkerPoolFull)

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestCancelledTaskIsSkipped(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := New(&Config{MaxWorkers: 1}, nil)
	defer p.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := p.Submit(ctx, "cancelled", func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
