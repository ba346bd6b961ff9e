package task

import (
	"context"

	"github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/service"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronParser accepts standard 5-field expressions and descriptors such as @daily or @every 1h
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// BackupTask uploads a notes snapshot on the configured cron schedule
// BackupTask 按 cron 计划上传笔记快照
type BackupTask struct {
	backup     service.BackupService
	schedule   cron.Schedule
	runOnStart bool
	logger     *zap.Logger
	track      func() func()
}

// Name returns the task name
func (t *BackupTask) Name() string {
	return "BackupScheduled"
}

// Schedule 执行计划
func (t *BackupTask) Schedule() cron.Schedule {
	return t.schedule
}

// IsStartupRun returns whether to run on startup
func (t *BackupTask) IsStartupRun() bool {
	return t.runOnStart
}

// Run executes one backup
func (t *BackupTask) Run(ctx context.Context) error {
	if t.track != nil {
		defer t.track()()
	}
	result, err := t.backup.Run(ctx)
	if err != nil {
		return err
	}
	t.logger.Info("scheduled backup finished",
		zap.String("fileKey", result.FileKey),
		zap.Strings("pruned", result.Pruned))
	return nil
}

// NewBackupTask parses cfg.Cron. It returns a nil task when scheduled backups are disabled.
// NewBackupTask 解析备份计划，未启用定时备份时返回 nil
func NewBackupTask(cfg app.BackupConfig, backup service.BackupService, logger *zap.Logger) (*BackupTask, error) {
	if !cfg.IsEnabled || backup == nil {
		return nil, nil
	}
	schedule, err := cronParser.Parse(cfg.Cron)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backup cron %q", cfg.Cron)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupTask{
		backup:     backup,
		schedule:   schedule,
		runOnStart: cfg.RunOnStart,
		logger:     logger,
	}, nil
}

// init registers the backup task
func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		t, err := NewBackupTask(appContainer.Config().Backup, appContainer.BackupService, appContainer.Logger())
		if err != nil || t == nil {
			return nil, err
		}
		t.track = appContainer.TrackOperation
		return t, nil
	})
}
