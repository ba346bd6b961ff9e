package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // 项目根目录
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 指定要使用的配置文件路径
}

// serverHolder guards the running server, which is replaced when the config file changes
// serverHolder 保存当前运行的服务，配置文件变更时被替换
type serverHolder struct {
	mu sync.Mutex
	s  *Server
}

func (h *serverHolder) get() *Server {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s
}

// reload stops the current server and starts a new one from runEnv
// reload 停止当前服务并按最新配置重新启动
func (h *serverHolder) reload(runEnv *runFlags) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.s.sc.SendCloseSignal(nil)
	if err := h.s.sc.WaitClosed(); err != nil {
		h.s.logger.Error("Shutdown completed with error", zap.Error(err))
	}

	s, err := NewServer(runEnv)
	if err != nil {
		bootstrapLogger.Error("service restart err", zap.Error(err))
		return
	}
	h.s = s
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				} else {
					bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
				}
			}

			configPath, err := resolveConfigPath(runEnv.config)
			if err != nil {
				bootstrapLogger.Error("config file auto create error", zap.Error(err))
				return
			}
			runEnv.config = configPath

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}
			holder := &serverHolder{s: s}

			w := watcher.New()
			// 每个监听周期至多接收 1 个事件，只通知写入事件
			w.SetMaxEvents(1)
			w.FilterOps(watcher.Write)

			go func() {
				for {
					select {
					case event := <-w.Event:
						holder.get().logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
						holder.reload(runEnv)
					case err := <-w.Error:
						holder.get().logger.Error("config watcher error", zap.Error(err))
					case <-w.Closed:
						return
					}
				}
			}()

			if err := w.Add(runEnv.config); err != nil {
				s.logger.Error("config watcher file error", zap.Error(err))
			}
			go func() {
				if err := w.Start(5 * time.Second); err != nil {
					s.logger.Error("config watcher start error", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			w.Close()
			current := holder.get()
			current.logger.Info("Received shutdown signal, initiating graceful shutdown...")
			current.sc.SendCloseSignal(nil)

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := current.sc.WaitClosed(); err != nil {
				current.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				current.logger.Info("Service has been shut down gracefully.")
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}
