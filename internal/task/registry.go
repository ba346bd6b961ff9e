package task

import (
	"sync"

	"github.com/haierkeys/fast-note-keeper/internal/app"
)

// TaskFactory creates a task from the app container. A nil task means it is disabled by configuration.
// TaskFactory 任务工厂函数，返回 nil 任务表示配置未启用
type TaskFactory func(appContainer *app.App) (Task, error)

// taskRegistry 全局任务注册表
var (
	taskRegistry  []TaskFactory
	registryMutex sync.RWMutex
)

// RegisterWithApp 注册任务工厂函数
// 通常在各个任务文件的 init() 函数中调用
func RegisterWithApp(factory TaskFactory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	taskRegistry = append(taskRegistry, factory)
}

// GetFactories 获取所有已注册的任务工厂
func GetFactories() []TaskFactory {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	// 返回副本,避免外部修改
	factories := make([]TaskFactory, len(taskRegistry))
	copy(factories, taskRegistry)
	return factories
}
