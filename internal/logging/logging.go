// Package logging 创建 i18nlint 使用的 zap 日志记录器
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv 开启语言服务器调试日志的环境变量
const DebugEnv = "I18NLINT_LSP_DEBUG"

// DebugEnabled 检查调试环境变量
func DebugEnabled() bool {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "1", "true", "on":
		return true
	}
	return false
}

// ParseLevel 解析日志级别，无法识别时使用 info
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// NewServerLogger 创建语言服务器日志记录器
//
// stdout 被 LSP 协议占用，日志写入 path 指定的文件（JSON 格式）。
// 未开启调试时文件只记录 level 及以上级别；Error 级别始终同时输出到 stderr。
func NewServerLogger(path string, level string, debug bool) (*zap.Logger, error) {
	fileLevel := ParseLevel(level)
	if debug {
		fileLevel = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.Lock(os.Stderr),
			zapcore.ErrorLevel,
		),
	}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(f),
			fileLevel,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// NewCLILogger 创建命令行日志记录器，输出到 stderr
func NewCLILogger(level string) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		ParseLevel(level),
	)
	return zap.New(core)
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = nil
	return cfg
}
