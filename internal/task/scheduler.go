package task

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Schedule() cron.Schedule       // 执行计划，nil 表示只在启动时执行
	IsStartupRun() bool            // 是否立即执行一次
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.startTask(task)
	}
}

// startTask runs task on its schedule until the close signal, cancelling a run in progress
// startTask 按计划执行任务直到收到关闭信号，关闭时取消正在执行的任务
func (s *Scheduler) startTask(task Task) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-closeSignal:
				cancel()
			case <-ctx.Done():
			}
		}()

		if task.IsStartupRun() {
			s.run(ctx, task, "startupRun")
		}

		schedule := task.Schedule()
		if schedule == nil {
			return
		}

		for {
			next := schedule.Next(time.Now())
			if next.IsZero() {
				return
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-timer.C:
				s.run(ctx, task, "loopRun")
			case <-closeSignal:
				timer.Stop()
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

func (s *Scheduler) run(ctx context.Context, task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	s.logger.Info("task running", zap.String("name", task.Name()), zap.String("mode", mode))
	if err := task.Run(ctx); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}
