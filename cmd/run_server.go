package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	internalApp "github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/dao"
	"github.com/haierkeys/fast-note-keeper/internal/routers"
	"github.com/haierkeys/fast-note-keeper/internal/task"
	"github.com/haierkeys/fast-note-keeper/internal/upgrade"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/fileurl"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"
	"github.com/haierkeys/fast-note-keeper/pkg/safe_close"
	"github.com/haierkeys/fast-note-keeper/pkg/validator"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	logger            *zap.Logger             // 日志对象
	config            *internalApp.AppConfig  // 应用配置（注入的依赖）
	db                *gorm.DB                // 数据库连接
	ut                *ut.UniversalTranslator // 翻译器
	httpServer        *http.Server
	privateHttpServer *http.Server
	wss               *pkgapp.WebsocketServer
	sc                *safe_close.SafeClose
	app               *internalApp.App // App Container
}

// NewServer loads the configuration, prepares storage, database and migrations, then starts the listeners
// NewServer 加载配置，初始化存储目录、数据库与迁移，并启动监听
func NewServer(runEnv *runFlags) (*Server, error) {
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if len(runEnv.port) > 0 {
		appConfig.Server.HttpPort = runEnv.port
	}

	// 确定运行模式
	runMode := runEnv.runMode
	if len(runMode) <= 0 {
		runMode = appConfig.Server.RunMode
	}
	if len(runMode) <= 0 {
		runMode = gin.ReleaseMode
	}
	gin.SetMode(runMode)
	appConfig.Server.RunMode = runMode

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	if s.logger, err = logger.NewLogger(appConfig.GetLoggerConfig()); err != nil {
		return nil, errors.Wrap(err, "initLogger")
	}

	if err := initStorageWithConfig(appConfig); err != nil {
		return nil, errors.Wrap(err, "initStorage")
	}

	db, err := dao.NewDBEngine(appConfig.Database, runMode == gin.DebugMode)
	if err != nil {
		return nil, errors.Wrap(err, "initDatabase")
	}
	s.db = db

	// 自动执行迁移任务
	if err := upgrade.Execute(context.Background(), db, s.logger, internalApp.Version); err != nil {
		closeDB(db)
		return nil, errors.Wrap(err, "upgrade.Execute")
	}

	app, err := internalApp.NewApp(appConfig, s.logger, db)
	if err != nil {
		closeDB(db)
		return nil, errors.Wrap(err, "failed to create app container")
	}
	s.app = app

	s.ut, err = validator.Setup(appConfig.Note.Categories)
	if err != nil {
		_ = app.Close()
		return nil, errors.Wrap(err, "initValidator")
	}

	// 启动调度器
	manager := task.NewManager(s.logger, s.sc, s.app)
	if err := manager.RegisterTasks(); err != nil {
		_ = app.Close()
		return nil, errors.Wrap(err, "register tasks")
	}
	manager.Start()

	banner := `
    ______           __     _   __      __          __ __
   / ____/___ ______/ /_   / | / /___  / /____     / //_/__  ___  ____  ___  _____
  / /_  / __ '/ ___/ __/  /  |/ / __ \/ __/ _ \   / ,< / _ \/ _ \/ __ \/ _ \/ ___/
 / __/ / /_/ (__  ) /_   / /|  / /_/ / /_/  __/  / /| /  __/  __/ /_/ /  __/ /
/_/    \__,_/____/\__/  /_/ |_/\____/\__/\___/  /_/ |_\___/\___/ .___/\___/_/
                                                              /_/`
	s.logger.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))
	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	if httpAddr := appConfig.Server.HttpPort; len(httpAddr) > 0 {
		handler, wss := routers.NewRouter(s.app, s.ut)
		s.wss = wss
		s.httpServer = newHTTPServer(appConfig, httpAddr, handler)
		s.serve(s.httpServer, "api service")
	}

	if httpAddr := appConfig.Server.PrivateHttpListen; len(httpAddr) > 0 {
		s.privateHttpServer = newHTTPServer(appConfig, httpAddr, routers.NewPrivateRouterWithLogger(runMode, s.logger))
		s.serve(s.privateHttpServer, "private api service")
	}

	// 注册 App Container 的优雅关闭
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal

		if s.wss != nil {
			s.wss.CloseAll()
		}

		ctx, cancel := context.WithTimeout(context.Background(), internalApp.DefaultShutdownTimeout)
		defer cancel()
		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown app container", zap.Error(err))
		} else {
			s.logger.Info("App container shutdown gracefully")
		}
	})

	return s, nil
}

func newHTTPServer(cfg *internalApp.AppConfig, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

// serve runs srv until it fails or the close signal arrives
// serve 运行 HTTP 服务，出错时广播关闭信号，收到关闭信号时优雅停止
func (s *Server) serve(srv *http.Server, name string) {
	s.logger.Warn(name, zap.String("listen", srv.Addr))
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			s.logger.Error(name+" err", zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error(name+" shutdown error", zap.Error(err))
			}
		}
	})
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// initStorageWithConfig 初始化存储目录（使用注入的配置）
func initStorageWithConfig(cfg *internalApp.AppConfig) error {
	var paths []string
	if cfg.Log.File != "" {
		paths = append(paths, cfg.Log.File)
	}
	for _, p := range paths {
		if err := fileurl.CreatePath(p, 0o754); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", p)
		}
	}
	return nil
}

// GetApp 获取 App Container
func (s *Server) GetApp() *internalApp.App {
	return s.app
}
