package cmd

import (
	"github.com/haierkeys/fast-note-keeper/pkg/fileurl"

	"go.uber.org/zap"
)

// configCandidates are probed in order when no config file is given
var configCandidates = []string{
	"config/config-dev.yaml",
	"config.yaml",
	"config/config.yaml",
}

// resolveConfigPath returns path when set, otherwise the first existing candidate.
// When none exists the embedded default is written to config/config.yaml.
// resolveConfigPath 未指定配置文件时按顺序查找，都不存在则写出内嵌的默认配置
func resolveConfigPath(path string) (string, error) {
	if len(path) > 0 {
		return path, nil
	}
	for _, candidate := range configCandidates {
		if fileurl.IsExist(candidate) {
			return candidate, nil
		}
	}

	path = configCandidates[len(configCandidates)-1]
	bootstrapLogger.Warn("config file not found, creating default config", zap.String("path", path))
	if err := fileurl.WriteFile(path, []byte(configDefault)); err != nil {
		return "", err
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", path))
	return path, nil
}
