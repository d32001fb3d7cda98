// Package config 加载 i18nlint 的项目配置
//
// 加载顺序：默认值 → 工作区根目录下的 i18nlint.toml → .env → I18NLINT_* 环境变量。
// 语言服务器还会在此之上合并客户端下发的设置。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// 常量定义
const (
	ConfigFileName = "i18nlint.toml" // 配置文件名
	EnvFileName    = ".env"
	EnvPrefix      = "I18NLINT_"
)

// 匹配模式
const (
	MatchExact    = "exact"
	MatchContains = "contains"
)

// Config 项目配置
type Config struct {
	Resource ResourceConfig `toml:"resource" json:"resource"`
	Keys     KeyConfig      `toml:"keys" json:"keys"`
	Scan     ScanConfig     `toml:"scan" json:"scan"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// ResourceConfig 语言资源目录配置
type ResourceConfig struct {
	// Dir 资源目录，相对路径基于工作区根目录
	Dir string `toml:"dir" json:"dir"`

	// Pattern 目录下资源文件的 glob（不递归）
	Pattern string `toml:"pattern" json:"pattern"`

	// Extension 新建模块文件时使用的扩展名
	Extension string `toml:"extension" json:"extension"`

	// IndexModule 聚合导出模块名，不参与拍平
	IndexModule string `toml:"index_module" json:"indexModule"`

	// Watch 是否使用 fsnotify 监听资源目录
	Watch bool `toml:"watch" json:"watch"`
}

// KeyConfig 变量名相关配置
type KeyConfig struct {
	Prefix          string `toml:"prefix" json:"prefix"`
	CommonNamespace string `toml:"common_namespace" json:"commonNamespace"`
	TemplateFunc    string `toml:"template_func" json:"templateFunc"`
	MatchMode       string `toml:"match_mode" json:"matchMode"`
}

// ScanConfig 扫描配置
type ScanConfig struct {
	MarkStringLiterals bool     `toml:"mark_string_literals" json:"markStringLiterals"`
	DebounceMs         int      `toml:"debounce_ms" json:"debounceMs"`
	Languages          []string `toml:"languages" json:"languages"`
	Extensions         []string `toml:"extensions" json:"extensions"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// Default 默认配置
func Default() Config {
	return Config{
		Resource: ResourceConfig{
			Dir:         filepath.Join("langs", "zh_CN"),
			Pattern:     "*.ts",
			Extension:   ".ts",
			IndexModule: "index",
			Watch:       true,
		},
		Keys: KeyConfig{
			Prefix:          "I18N.",
			CommonNamespace: "common",
			TemplateFunc:    "I18N.template",
			MatchMode:       MatchExact,
		},
		Scan: ScanConfig{
			MarkStringLiterals: true,
			DebounceMs:         500,
			Languages:          []string{"typescriptreact", "javascriptreact", "typescript", "javascript", "vue"},
			Extensions:         []string{".tsx", ".jsx", ".ts", ".js", ".vue"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Debounce 返回重新扫描的防抖间隔
func (c Config) Debounce() time.Duration {
	if c.Scan.DebounceMs <= 0 {
		return 0
	}
	return time.Duration(c.Scan.DebounceMs) * time.Millisecond
}

// ResourceDir 返回资源目录的绝对路径
func (c Config) ResourceDir(root string) string {
	if filepath.IsAbs(c.Resource.Dir) {
		return c.Resource.Dir
	}
	return filepath.Join(root, c.Resource.Dir)
}

// HandlesLanguage 检查 languageId 是否需要扫描
func (c Config) HandlesLanguage(languageID string) bool {
	for _, l := range c.Scan.Languages {
		if l == languageID {
			return true
		}
	}
	return false
}

// HandlesFile 检查文件扩展名是否需要扫描（命令行使用）
func (c Config) HandlesFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Scan.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Validate 检查配置是否可用
func (c Config) Validate() error {
	if c.Resource.Dir == "" {
		return errors.New("resource.dir is empty")
	}
	if c.Resource.Pattern == "" {
		return errors.New("resource.pattern is empty")
	}
	if !strings.HasPrefix(c.Resource.Extension, ".") {
		return fmt.Errorf("resource.extension %q must start with '.'", c.Resource.Extension)
	}
	switch c.Keys.MatchMode {
	case MatchExact, MatchContains:
	default:
		return fmt.Errorf("keys.match_mode %q must be %q or %q", c.Keys.MatchMode, MatchExact, MatchContains)
	}
	return nil
}

// Load 从工作区根目录加载配置
func Load(root string) (Config, error) {
	cfg := Default()

	if err := loadFile(filepath.Join(root, ConfigFileName), &cfg); err != nil {
		return cfg, err
	}

	env, err := godotenv.Read(filepath.Join(root, EnvFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read %s: %w", EnvFileName, err)
	}
	applyEnvironment(&cfg, func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return env[key]
	})

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadFile 读取 TOML 配置文件，文件不存在时保持默认值
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnvironment 应用 I18NLINT_* 环境变量
func applyEnvironment(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvPrefix + "RESOURCE_DIR"); v != "" {
		cfg.Resource.Dir = v
	}
	if v := getenv(EnvPrefix + "RESOURCE_PATTERN"); v != "" {
		cfg.Resource.Pattern = v
	}
	if v := getenv(EnvPrefix + "KEY_PREFIX"); v != "" {
		cfg.Keys.Prefix = v
	}
	if v := getenv(EnvPrefix + "COMMON_NAMESPACE"); v != "" {
		cfg.Keys.CommonNamespace = v
	}
	if v := getenv(EnvPrefix + "MATCH_MODE"); v != "" {
		cfg.Keys.MatchMode = strings.ToLower(v)
	}
	if v := getenv(EnvPrefix + "DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.DebounceMs = n
		}
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvPrefix + "LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
