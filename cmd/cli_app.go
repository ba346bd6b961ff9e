package cmd

import (
	"context"

	internalApp "github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/dao"
	"github.com/haierkeys/fast-note-keeper/internal/upgrade"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// addConfigFlag registers the persistent -c flag shared by the offline commands
func addConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "config file")
}

// openApp builds an App container for one-shot commands. The returned close func shuts it down.
// openApp 为一次性命令创建 App 容器，返回的 close 用于关闭
func openApp(cmd *cobra.Command) (*internalApp.App, func(), error) {
	configPath, _ := cmd.Flags().GetString("config")
	configPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, nil, err
	}

	cfg, _, err := internalApp.LoadConfig(configPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load config")
	}

	// 命令行输出优先，日志只记录警告以上级别
	logCfg := cfg.GetLoggerConfig()
	if logCfg.File == "" {
		logCfg.Level = zap.WarnLevel.String()
	}
	lg, err := logger.NewLogger(logCfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := dao.NewDBEngine(cfg.Database, false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initDatabase")
	}
	if err := upgrade.Execute(cmd.Context(), db, lg, internalApp.Version); err != nil {
		closeDB(db)
		return nil, nil, err
	}

	a, err := internalApp.NewApp(cfg, lg, db)
	if err != nil {
		closeDB(db)
		return nil, nil, err
	}

	return a, func() {
		ctx, cancel := context.WithTimeout(context.Background(), internalApp.DefaultShutdownTimeout)
		defer cancel()
		_ = a.Shutdown(ctx)
		_ = lg.Sync()
	}, nil
}
