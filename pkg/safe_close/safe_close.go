package safe_close

import (
	"sync"
)

// SafeClose coordinates graceful shutdown of attached goroutines.
// SafeClose 协调已挂载协程的优雅退出
type SafeClose struct {
	closeSignal chan struct{}
	once        sync.Once
	wg          sync.WaitGroup
	mu          sync.Mutex
	err         error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach runs fn in a goroutine. fn must call done once it has finished cleaning up.
// Attach 在协程中运行 fn，fn 清理完成后必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() { once.Do(s.wg.Done) }
	go fn(done, s.closeSignal)
}

// SendCloseSignal broadcasts the close signal. Only the first call records err.
// SendCloseSignal 广播关闭信号，仅首次调用的 err 会被记录
func (s *SafeClose) SendCloseSignal(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.closeSignal)
	})
}

// Done 关闭信号通道
func (s *SafeClose) Done() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed blocks until every attached goroutine called done
// WaitClosed 阻塞直到所有挂载的协程调用 done
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
