// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/fileurl"
	"github.com/haierkeys/fast-note-keeper/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Config database configuration
// Config 数据库配置
type Config struct {
	// Type 数据库类型: sqlite, mysql, postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path sqlite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/notes.db"`
	// Host mysql/postgres 地址，host:port
	Host     string `yaml:"host"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// TablePrefix 表名前缀
	TablePrefix  string `yaml:"table-prefix"`
	Charset      string `yaml:"charset" default:"utf8mb4"`
	ParseTime    bool   `yaml:"parse-time" default:"true"`
	SSLMode      string `yaml:"ssl-mode" default:"disable"`
	MaxIdleConns int    `yaml:"max-idle-conns" default:"10"`
	MaxOpenConns int    `yaml:"max-open-conns" default:"100"`
}

// Dao wraps the gorm engine and routes writes through the write queue
// Dao 封装 gorm 引擎，写操作经由写队列串行执行
type Dao struct {
	db         *gorm.DB
	writeQueue *writequeue.Manager
	logger     *zap.Logger
}

// New 创建 Dao，writeQueue 为 nil 时写操作直接执行
func New(db *gorm.DB, writeQueue *writequeue.Manager, logger *zap.Logger) *Dao {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dao{db: db, writeQueue: writeQueue, logger: logger}
}

// DB 返回绑定 ctx 的数据库会话
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

func (d *Dao) Logger() *zap.Logger {
	return d.logger
}

// ExecuteWrite runs fn inside a transaction on the queue owning key
// ExecuteWrite 在 key 对应的写队列上以事务执行 fn
func (d *Dao) ExecuteWrite(ctx context.Context, key string, fn func(tx *gorm.DB) error) error {
	run := func() error {
		return d.db.WithContext(ctx).Transaction(fn)
	}
	if d.writeQueue == nil {
		return run()
	}
	return d.writeQueue.Execute(ctx, key, run)
}

// Ping 检查数据库连接
func (d *Dao) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (d *Dao) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return sqlDB.Close()
}

// NewDBEngine opens the database described by c. debug enables SQL logging.
// NewDBEngine 打开数据库连接，debug 为 true 时输出 SQL 日志
func NewDBEngine(c Config, debug bool) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", c.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	maxOpen := c.MaxOpenConns
	if c.Type == "sqlite" {
		// sqlite 单写连接
		maxOpen = 1
	}
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Minute * 10)

	return db, nil
}

func useDialector(c Config) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		)), nil
	case "postgres":
		host, port, err := net.SplitHostPort(c.Host)
		if err != nil {
			host, port = c.Host, "5432"
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, c.UserName, c.Password, c.Name, c.SSLMode,
		)), nil
	case "sqlite", "":
		if c.Path != ":memory:" && !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "create sqlite directory")
			}
		}
		dsn := c.Path
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
		return sqlite.Open(dsn), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}
