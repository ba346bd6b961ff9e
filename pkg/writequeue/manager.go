// Package writequeue serialises write operations per key.
// Package writequeue 按键串行化写操作
// Writes to the same storage key run in FIFO order on a single worker, which avoids
// "database is locked" on sqlite and keeps read-modify-write cycles atomic per key.
// 同一存储键的写操作在单个 worker 上按 FIFO 执行，避免 sqlite "database is locked"
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 写操作超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity 每个键的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout 空闲队列回收时间，默认 10 分钟
	IdleTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// keyQueue 单个键的写队列
type keyQueue struct {
	key      string
	ch       chan writeOp
	lastUsed atomic.Int64
	stopped  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	workerWg sync.WaitGroup
}

func (q *keyQueue) stop() {
	q.stopOnce.Do(func() {
		q.stopped.Store(true)
		close(q.stopCh)
	})
}

func (q *keyQueue) touch() {
	q.lastUsed.Store(time.Now().UnixNano())
}

// Manager owns one queue per key, created lazily and reclaimed when idle
// Manager 按键管理写队列，懒加载创建，空闲后回收
type Manager struct {
	config Config
	logger *zap.Logger

	queues sync.Map // map[string]*keyQueue

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	cleanupWg   sync.WaitGroup
	cleanupDone chan struct{}
}

// New creates a manager. A nil cfg or logger falls back to defaults.
// New 创建写队列管理器，cfg 或 logger 为 nil 时使用默认值
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config:      c,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupIdleQueues()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))

	return m
}

// Execute runs fn on the worker owning key and waits for its result.
// Execute 在 key 对应的 worker 上执行 fn 并等待结果
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	if m.IsClosed() {
		return ErrWriteQueueClosed
	}

	queue := m.getOrCreateQueue(key)
	if queue == nil {
		return ErrWriteQueueClosed
	}

	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}

	select {
	case queue.ch <- op:
	default:
		return ErrWriteQueueFull
	}

	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrWriteQueueClosed
	}
}

func (m *Manager) getOrCreateQueue(key string) *keyQueue {
	if v, ok := m.queues.Load(key); ok {
		q := v.(*keyQueue)
		if !q.stopped.Load() {
			q.touch()
			return q
		}
	}

	if m.IsClosed() {
		return nil
	}

	q := &keyQueue{
		key:    key,
		ch:     make(chan writeOp, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
	}
	q.touch()

	actual, loaded := m.queues.LoadOrStore(key, q)
	if loaded {
		existing := actual.(*keyQueue)
		if !existing.stopped.Load() {
			existing.touch()
			return existing
		}
		// 旧队列已被回收，替换为新队列
		m.queues.Store(key, q)
	}

	q.workerWg.Add(1)
	go m.worker(q)

	m.logger.Debug("created write queue", zap.String("key", key))
	return q
}

func (m *Manager) worker(q *keyQueue) {
	defer q.workerWg.Done()
	defer m.logger.Debug("write queue worker stopped", zap.String("key", q.key))

	for {
		select {
		case <-m.ctx.Done():
			m.drainQueue(q)
			return
		case <-q.stopCh:
			m.drainQueue(q)
			return
		case op := <-q.ch:
			m.executeOp(q, op)
		}
	}
}

func (m *Manager) executeOp(q *keyQueue, op writeOp) {
	q.touch()

	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	op.result <- op.fn()
}

func (m *Manager) drainQueue(q *keyQueue) {
	for {
		select {
		case op := <-q.ch:
			m.executeOp(q, op)
		default:
			return
		}
	}
}

func (m *Manager) cleanupIdleQueues() {
	defer m.cleanupWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.cleanupDone:
			return
		case <-ticker.C:
			m.doCleanup()
		}
	}
}

func (m *Manager) doCleanup() {
	now := time.Now().UnixNano()
	idle := m.config.IdleTimeout.Nanoseconds()

	m.queues.Range(func(k, v interface{}) bool {
		q := v.(*keyQueue)
		if now-q.lastUsed.Load() > idle && len(q.ch) == 0 && !q.stopped.Load() {
			m.logger.Debug("reclaiming idle write queue", zap.String("key", q.key))
			q.stop()
			m.queues.CompareAndDelete(k, q)
		}
		return true
	})
}

// Shutdown stops accepting writes and waits for queued ones to finish or ctx to expire.
// Shutdown 停止接收写操作，等待已排队的操作完成或 ctx 超时
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")
	close(m.cleanupDone)

	done := make(chan struct{})
	go func() {
		m.queues.Range(func(_, v interface{}) bool {
			v.(*keyQueue).stop()
			return true
		})
		m.queues.Range(func(_, v interface{}) bool {
			v.(*keyQueue).workerWg.Wait()
			return true
		})
		m.cleanupWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.cancel()
		m.logger.Warn("write queue manager shutdown timeout, forcing cancellation")
		return ctx.Err()
	}
}

// QueueCount 当前活跃队列数量
func (m *Manager) QueueCount() int {
	count := 0
	m.queues.Range(func(_, v interface{}) bool {
		if !v.(*keyQueue).stopped.Load() {
			count++
		}
		return true
	})
	return count
}

// QueuedCount 指定键队列中等待的操作数
func (m *Manager) QueuedCount(key string) int {
	if v, ok := m.queues.Load(key); ok {
		return len(v.(*keyQueue).ch)
	}
	return 0
}

// IsClosed 管理器是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Metrics 写队列指标
type Metrics struct {
	QueueCapacity int
	ActiveQueues  int
	IsClosed      bool
}

func (m *Manager) GetMetrics() Metrics {
	return Metrics{
		QueueCapacity: m.config.QueueCapacity,
		ActiveQueues:  m.QueueCount(),
		IsClosed:      m.IsClosed(),
	}
}
