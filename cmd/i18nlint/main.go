// i18nlint 检查前端源码中的中文文案，并抽取为 I18N 变量
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/config"
	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/logging"
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

const Version = "0.1.0"

// 全局参数
var (
	rootDir  string
	lang     string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "i18nlint",
	Short: "i18nlint - Chinese literal linter and I18N extractor",
	Long: `i18nlint finds Chinese text in JS/TS/JSX/Vue sources and extracts it
into I18N language resource modules.

Run "i18nlint serve" to start the language server over stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLanguage()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "i18nlint v%s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "workspace root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "message language: zh or en (default: from LANG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initLanguage 根据 --lang 或 LANG/LC_ALL 选择提示语言
func initLanguage() {
	if lang != "" {
		i18n.SetLanguage(i18n.Match(lang))
		return
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" && v != "C" && v != "POSIX" {
			i18n.SetLanguageFromLocale(normalizeLocale(v))
			return
		}
	}
}

// normalizeLocale 将 zh_CN.UTF-8 转换为 zh-CN
func normalizeLocale(v string) string {
	for i := 0; i < len(v); i++ {
		if v[i] == '.' || v[i] == '@' {
			v = v[:i]
			break
		}
	}
	b := []byte(v)
	for i := range b {
		if b[i] == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

// workspaceRoot 返回 --root 或当前目录
func workspaceRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	return os.Getwd()
}

// openWorkspace 加载配置并打开工作区（命令行不监听资源目录）
func openWorkspace(ctx context.Context) (*workspace.Workspace, *zap.Logger, error) {
	root, err := workspaceRoot()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}
	cfg.Resource.Watch = false

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logging.NewCLILogger(level)

	ws, err := workspace.Open(ctx, root, cfg, log, workspace.Hooks{
		OnCreate: func(module, path string) {
			fmt.Fprintln(os.Stderr, i18n.T(i18n.MsgModuleCreated, path))
		},
	})
	if err != nil {
		return nil, nil, err
	}
	for _, w := range ws.Store.Snapshot().Warnings {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.MsgModuleParseFailed, w.Path))
	}
	return ws, log, nil
}
