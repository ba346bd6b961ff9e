package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/domain"
	"github.com/haierkeys/fast-note-keeper/internal/dto"
	"github.com/haierkeys/fast-note-keeper/pkg/code"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"
	pkgstorage "github.com/haierkeys/fast-note-keeper/pkg/storage"
	"github.com/haierkeys/fast-note-keeper/pkg/util"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// BackupService defines the business service interface for snapshot export and backup
// BackupService 定义快照导出与备份业务服务接口
type BackupService interface {
	// Export 将两个集合编码为 {"active":[...],"archive":[...]}
	Export(ctx context.Context) ([]byte, *dto.NotesExportDTO, error)

	// Run uploads one snapshot and prunes old ones beyond the configured keep count
	// Run 上传一次快照，并清理超出保留数量的旧快照
	Run(ctx context.Context) (*dto.BackupResultDTO, error)
}

type backupService struct {
	notes   NoteService
	storage pkgstorage.Storager
	config  *BackupServiceConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewBackupService creates BackupService instance. storage may be nil when no backend is configured.
// NewBackupService 创建 BackupService 实例，未配置存储时 storage 为 nil
func NewBackupService(notes NoteService, storage pkgstorage.Storager, config *BackupServiceConfig, logger *zap.Logger) BackupService {
	if config == nil {
		config = &BackupServiceConfig{}
	}
	if config.Prefix == "" {
		config.Prefix = "notes"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backupService{
		notes:   notes,
		storage: storage,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *backupService) toExportDTO(state domain.NotesState) *dto.NotesExportDTO {
	conv := func(list []*domain.Note) []*dto.NoteDTO {
		out := make([]*dto.NoteDTO, 0, len(list))
		for _, n := range list {
			out = append(out, &dto.NoteDTO{
				ID:           n.ID,
				Title:        n.Title,
				Slug:         n.Slug,
				Content:      n.Content,
				Category:     n.Category,
				CreationDate: n.CreationDate,
			})
		}
		return out
	}
	return &dto.NotesExportDTO{Active: conv(state.Active), Archive: conv(state.Archive)}
}

// Export 导出快照
func (s *backupService) Export(ctx context.Context) ([]byte, *dto.NotesExportDTO, error) {
	state, err := s.notes.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	export := s.toExportDTO(state)
	data, err := sonic.ConfigStd.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return data, export, nil
}

// Run 执行一次备份
func (s *backupService) Run(ctx context.Context) (*dto.BackupResultDTO, error) {
	if !s.config.IsEnabled {
		return nil, code.ErrorBackupDisabled
	}
	if s.storage == nil {
		return nil, code.ErrorStorageDisabled
	}

	data, export, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fileKey := util.BackupFileName(s.config.Prefix, now)
	location, err := s.storage.SendContent(ctx, fileKey, data, now)
	if err != nil {
		s.logger.Error("backup upload failed",
			zap.String(logger.FieldPath, fileKey),
			zap.String(logger.FieldMethod, "BackupService.Run"),
			zap.Error(err))
		return nil, code.ErrorBackupFailed.WithDetails(err.Error())
	}

	result := &dto.BackupResultDTO{
		FileKey:  fileKey,
		Location: location,
		Size:     len(data),
		Active:   len(export.Active),
		Archive:  len(export.Archive),
	}

	pruned, err := s.prune(ctx)
	if err != nil {
		// 上传已成功，清理失败只记录日志
		s.logger.Warn("backup prune failed", zap.String(logger.FieldMethod, "BackupService.prune"), zap.Error(err))
	}
	result.Pruned = pruned

	s.logger.Info("backup completed",
		zap.String(logger.FieldPath, location),
		zap.Int(logger.FieldSize, len(data)),
		zap.Int(logger.FieldCount, len(pruned)))
	return result, nil
}

// prune deletes the oldest snapshots so that at most Keep remain
// prune 删除最旧的快照，仅保留 Keep 个
func (s *backupService) prune(ctx context.Context) ([]string, error) {
	if s.config.Keep <= 0 {
		return nil, nil
	}
	keys, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	prefix := s.config.Prefix + "-"
	var snapshots []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) && strings.HasSuffix(k, ".json") {
			snapshots = append(snapshots, k)
		}
	}
	if len(snapshots) <= s.config.Keep {
		return nil, nil
	}
	// 文件名中的时间戳按字典序即为时间顺序
	sort.Strings(snapshots)

	var pruned []string
	for _, k := range snapshots[:len(snapshots)-s.config.Keep] {
		if err := s.storage.Delete(ctx, k); err != nil {
			return pruned, err
		}
		pruned = append(pruned, k)
	}
	return pruned, nil
}
