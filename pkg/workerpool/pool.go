// Package workerpool runs side-effect tasks (broadcasts, backups) on a bounded set of goroutines
// Package workerpool 在有限的 goroutine 上执行副作用任务（广播、备份）
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 任务队列已满
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed Worker Pool 已关闭
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 任务在执行前被取消
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config Worker Pool 配置
type Config struct {
	// MaxWorkers 最大并发 worker 数量，默认 8
	MaxWorkers int
	// QueueSize 任务队列大小，默认 256
	QueueSize int
	// WarningPercent 告警阈值百分比，默认 0.8
	WarningPercent float64
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxWorkers:     8,
		QueueSize:      256,
		WarningPercent: 0.8,
	}
}

type task struct {
	ctx  context.Context
	name string
	fn   func(context.Context) error
	done chan error
}

// Pool bounded worker pool
// Pool 有界 Worker Pool
type Pool struct {
	config Config
	logger *zap.Logger

	taskCh   chan task
	workerWg sync.WaitGroup

	activeCount atomic.Int64
	failedCount atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	// mu 保护 closed 以及对 taskCh 的发送，避免向已关闭通道写入
	mu     sync.RWMutex
	closed bool
}

// New 创建新的 Worker Pool，cfg 或 logger 为 nil 时使用默认值
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
		if cfg.WarningPercent > 0 && cfg.WarningPercent <= 1 {
			c.WarningPercent = cfg.WarningPercent
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		config: c,
		logger: logger,
		taskCh: make(chan task, c.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < c.MaxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))

	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.taskCh:
			if !ok {
				return
			}
			p.run(t)
		}
	}
}

func (p *Pool) run(t task) {
	active := p.activeCount.Add(1)
	defer p.activeCount.Add(-1)

	if threshold := int64(float64(p.config.MaxWorkers) * p.config.WarningPercent); active >= threshold && threshold > 0 {
		p.logger.Warn("worker pool approaching capacity",
			zap.Int64("activeCount", active),
			zap.Int("maxWorkers", p.config.MaxWorkers))
	}

	var err error
	if t.ctx.Err() != nil {
		err = ErrTaskCancelled
	} else {
		err = p.safeCall(t)
	}

	if err != nil {
		p.failedCount.Add(1)
	}

	if t.done != nil {
		t.done <- err
		return
	}
	if err != nil {
		p.logger.Warn("async task failed", zap.String("task", t.name), zap.Error(err))
	}
}

func (p *Pool) safeCall(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panic: %v", t.name, r)
		}
	}()
	return t.fn(t.ctx)
}

func (p *Pool) enqueue(t task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.taskCh <- t:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Submit 提交任务并等待完成
func (p *Pool) Submit(ctx context.Context, name string, fn func(context.Context) error) error {
	done := make(chan error, 1)
	if err := p.enqueue(task{ctx: ctx, name: name, fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrWorkerPoolClosed
	}
}

// SubmitAsync queues fn without waiting. Failures are logged.
// SubmitAsync 异步提交任务，不等待结果，失败仅记录日志
func (p *Pool) SubmitAsync(ctx context.Context, name string, fn func(context.Context) error) error {
	return p.enqueue(task{ctx: ctx, name: name, fn: fn})
}

// IsClosed 返回 Worker Pool 是否已关闭
func (p *Pool) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Shutdown stops intake and waits for queued tasks, or cancels them when ctx expires
// Shutdown 停止接收任务并等待队列执行完毕，ctx 超时则强制取消
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.taskCh)
	p.mu.Unlock()

	p.logger.Info("worker pool shutting down",
		zap.Int64("activeCount", p.activeCount.Load()),
		zap.Int("queuedCount", len(p.taskCh)))

	done := make(chan struct{})
	go func() {
		p.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn("worker pool shutdown timeout, forcing cancellation")
		return ctx.Err()
	}
}

// Metrics Worker Pool 指标
type Metrics struct {
	MaxWorkers    int
	ActiveCount   int64
	FailedCount   int64
	QueuedCount   int
	QueueCapacity int
	IsClosed      bool
}

// GetMetrics 获取当前指标
func (p *Pool) GetMetrics() Metrics {
	return Metrics{
		MaxWorkers:    p.config.MaxWorkers,
		ActiveCount:   p.activeCount.Load(),
		FailedCount:   p.failedCount.Load(),
		QueuedCount:   len(p.taskCh),
		QueueCapacity: p.config.QueueSize,
		IsClosed:      p.IsClosed(),
	}
}
