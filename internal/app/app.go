package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/dao"
	"github.com/haierkeys/fast-note-keeper/internal/domain"
	"github.com/haierkeys/fast-note-keeper/internal/service"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"
	"github.com/haierkeys/fast-note-keeper/pkg/storage"
	"github.com/haierkeys/fast-note-keeper/pkg/workerpool"
	"github.com/haierkeys/fast-note-keeper/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	StorageRepo   domain.StorageRepository
	NoteStateRepo domain.NoteStateRepository

	// 备份存储，未启用时为 nil
	Storage storage.Storager

	// Service 层
	NoteService   service.NoteService
	BackupService service.BackupService

	startedAt time.Time

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		startedAt:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	// 初始化 DAO 与 Repository 层
	a.Dao = dao.New(db, a.writeQueueMgr, logger)
	a.StorageRepo = dao.NewStorageRepository(a.Dao)
	a.NoteStateRepo = dao.NewNoteStateRepository(a.StorageRepo)

	// 备份存储
	if cfg.Storage.IsEnabled {
		s, err := storage.NewClient(&cfg.Storage, logger)
		if err != nil {
			logger.Warn("backup storage unavailable", zap.String("type", cfg.Storage.Type), zap.Error(err))
		} else {
			a.Storage = s
		}
	}

	// 初始化 Service 层（依赖注入）
	svcConfig := cfg.GetServiceConfig()
	a.NoteService = service.NewNoteService(a.NoteStateRepo, &svcConfig.Note, logger)
	a.BackupService = service.NewBackupService(a.NoteService, a.Storage, &svcConfig.Backup, logger)

	logger.Info("App container initialized successfully",
		zap.String("database", cfg.Database.Type),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity),
		zap.Bool("backup", cfg.Backup.IsEnabled))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.Dao != nil {
		if err := a.Dao.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SubmitTaskAsync 异步提交任务到 Worker Pool（不等待结果）
// 返回错误如果池已满或已关闭
func (a *App) SubmitTaskAsync(ctx context.Context, name string, task func(context.Context) error) error {
	return a.workerPool.SubmitAsync(ctx, name, task)
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Uptime 运行时长
func (a *App) Uptime() time.Duration {
	return time.Since(a.startedAt)
}

// Ping 检查数据库连接
func (a *App) Ping(ctx context.Context) error {
	return a.Dao.Ping(ctx)
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown drains background work, then the worker pool and write queues, and closes the database.
// A nil ctx uses DefaultShutdownTimeout. Calling it twice is a no-op.
// Shutdown 依次等待后台操作、Worker Pool、写队列，最后关闭数据库
func (a *App) Shutdown(ctx context.Context) error {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}
	a.logger.Info("note keeper shutting down")

	var errs []error
	fail := func(stage string, err error) {
		a.logger.Warn("shutdown stage failed", zap.String(logger.FieldMethod, stage), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", stage, err))
	}

	// 定时备份等被跟踪的操作
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		fail("background operations", ctx.Err())
	}

	if err := a.workerPool.Shutdown(ctx); err != nil {
		fail("worker pool", err)
	}
	// 写队列排空后才能关闭数据库，否则尚未落盘的笔记集合会丢失
	if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
		fail("write queue", err)
	}
	if err := a.Close(); err != nil {
		fail("database", err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}
	a.logger.Info("note keeper stopped")
	return nil
}

// IsShuttingDown reports whether Shutdown has started
// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation registers a background operation that Shutdown waits for. Call the returned func when it ends.
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
