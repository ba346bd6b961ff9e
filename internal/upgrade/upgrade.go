// Package upgrade applies versioned schema and data migrations at startup
// Package upgrade 启动时执行带版本号的表结构与数据迁移
package upgrade

import (
	"context"
	"sort"
	"strings"

	"github.com/haierkeys/fast-note-keeper/internal/model"
	"github.com/haierkeys/fast-note-keeper/pkg/timex"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// Migration 定义升级接口
type Migration interface {
	Version() string
	Description() string
	Up(ctx context.Context, tx *gorm.DB) error
}

// MigrationManager 升级管理器
type MigrationManager struct {
	db             *gorm.DB
	logger         *zap.Logger
	runningVersion string
	migrations     []Migration
}

// NewMigrationManager 创建升级管理器，runningVersion 为当前程序版本
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, runningVersion string) *MigrationManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MigrationManager{
		db:             db,
		logger:         logger,
		runningVersion: canonical(runningVersion),
		migrations: []Migration{
			// 在这里注册所有的升级脚本
			&StorageItemMigrate{},
			&NullCollectionMigrate{},
		},
	}
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Pending 返回尚未执行且不高于当前程序版本的迁移，按版本升序
func (m *MigrationManager) Pending(ctx context.Context) ([]Migration, error) {
	if err := model.AutoMigrate(m.db.WithContext(ctx), "SchemaVersion"); err != nil {
		return nil, errors.Wrap(err, "failed to create schema_version table")
	}

	var rows []model.SchemaVersion
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to get applied versions")
	}
	applied := make(map[string]bool, len(rows))
	for _, r := range rows {
		applied[canonical(r.Version)] = true
	}

	var pending []Migration
	for _, mg := range m.migrations {
		v := canonical(mg.Version())
		if !semver.IsValid(v) {
			return nil, errors.Errorf("migration %q has an invalid version", mg.Version())
		}
		if applied[v] {
			continue
		}
		if semver.IsValid(m.runningVersion) && semver.Compare(v, m.runningVersion) > 0 {
			m.logger.Info("skip migration newer than running version",
				zap.String("scriptVersion", v),
				zap.String("runningVersion", m.runningVersion))
			continue
		}
		pending = append(pending, mg)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return semver.Compare(canonical(pending[i].Version()), canonical(pending[j].Version())) < 0
	})
	return pending, nil
}

// Run applies every pending migration, each in its own transaction together with its version record
// Run 执行所有待执行的迁移，每个迁移与其版本记录在同一事务中提交
func (m *MigrationManager) Run(ctx context.Context) (int, error) {
	m.logger.Info("Migration started", zap.String("runningVersion", m.runningVersion))

	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	executed := 0
	for _, migration := range pending {
		m.logger.Info("applying migration",
			zap.String("scriptVersion", migration.Version()),
			zap.String("desc", migration.Description()))

		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(ctx, tx); err != nil {
				return errors.Wrap(err, "migration failed")
			}
			record := &model.SchemaVersion{
				Version:     canonical(migration.Version()),
				Description: migration.Description(),
				CreatedAt:   timex.Now(),
			}
			return errors.Wrap(tx.Create(record).Error, "failed to record version")
		})
		if err != nil {
			return executed, errors.Wrapf(err, "failed to apply migration %s", migration.Version())
		}

		m.logger.Info("migration applied successfully", zap.String("scriptVersion", migration.Version()))
		executed++
	}

	if executed == 0 {
		m.logger.Info("database is already up to date")
	} else {
		m.logger.Info("upgrade completed", zap.Int("migrations_applied", executed))
	}
	return executed, nil
}

// Execute 执行升级(便捷方法)
func Execute(ctx context.Context, db *gorm.DB, logger *zap.Logger, runningVersion string) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	_, err := NewMigrationManager(db, logger, runningVersion).Run(ctx)
	return err
}
