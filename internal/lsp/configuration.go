package lsp

import (
	"sync"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/config"
)

// settingsSection 客户端设置中的配置节
const settingsSection = "i18nLinter"

// clientSettings 客户端设置，字段结构与 config.Config 相同
//
// 额外支持顶层的 markStringLiterals 开关。
type clientSettings struct {
	config.Config
	MarkStringLiterals *bool `json:"markStringLiterals,omitempty"`
}

// ConfigurationManager 配置管理器
//
// base 来自工作区的 i18nlint.toml / .env / 环境变量，客户端设置覆盖在其上。
type ConfigurationManager struct {
	base   config.Config
	config config.Config
	mu     sync.RWMutex
}

// NewConfigurationManager 创建配置管理器
func NewConfigurationManager(base config.Config) *ConfigurationManager {
	return &ConfigurationManager{base: base, config: base}
}

// Get 获取配置
func (cm *ConfigurationManager) Get() config.Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// SetBase 替换基础配置并清除客户端覆盖
func (cm *ConfigurationManager) SetBase(base config.Config) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.base = base
	cm.config = base
}

// UpdateFromJSON 用客户端设置覆盖基础配置
//
// data 可以是 {"i18nLinter": {...}} 或直接是配置节内容。
func (cm *ConfigurationManager) UpdateFromJSON(data json.RawMessage) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if len(data) == 0 || string(data) == "null" {
		cm.config = cm.base
		return nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if section, ok := wrapped[settingsSection]; ok {
		data = section
	}

	settings := clientSettings{Config: cm.base}
	if err := json.Unmarshal(data, &settings); err != nil {
		return err
	}
	if settings.MarkStringLiterals != nil {
		settings.Scan.MarkStringLiterals = *settings.MarkStringLiterals
	}
	if err := settings.Config.Validate(); err != nil {
		return err
	}

	cm.config = settings.Config
	return nil
}

// handleConfigurationChanged 处理配置变更通知
func (s *Server) handleConfigurationChanged(params json.RawMessage) {
	var p struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("invalid didChangeConfiguration params", zap.Error(err))
		return
	}

	before := s.config.Get()
	if err := s.config.UpdateFromJSON(p.Settings); err != nil {
		s.log.Warn("invalid client settings", zap.Error(err))
		return
	}
	after := s.config.Get()
	s.log.Info("configuration updated")

	if before.Resource != after.Resource || before.Keys != after.Keys {
		s.openWorkspace()
	}

	// 重新诊断所有打开的文档
	for _, doc := range s.documents.GetAll() {
		s.publishDiagnostics(doc)
	}
}
