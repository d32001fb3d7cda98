// Package watcher 监听语言资源目录，文件变化时（防抖后）通知重新加载
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/debounce"
)

// DefaultDebounce 默认防抖间隔
const DefaultDebounce = 100 * time.Millisecond

// 错误定义
var (
	ErrPathNotExist     = errors.New("watch path does not exist")
	ErrPathNotDirectory = errors.New("watch path is not a directory")
	ErrInvalidPattern   = errors.New("invalid watch pattern")
)

// Config 监听配置
type Config struct {
	// Dir 监听的目录（不递归）
	Dir string

	// Pattern 关心的文件名 glob，例如 *.ts
	Pattern string

	// Debounce 合并事件的间隔
	Debounce time.Duration
}

// Watcher 资源目录监听器
type Watcher struct {
	config   Config
	watcher  *fsnotify.Watcher
	pattern  glob.Glob
	debounce *debounce.Debouncer
	log      *zap.Logger

	stopOnce sync.Once
}

// New 创建监听器，onChange 在一串文件变化之后调用一次
func New(config Config, onChange func(), log *zap.Logger) (*Watcher, error) {
	if err := validateDir(config.Dir); err != nil {
		return nil, err
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	pattern, err := glob.Compile(config.Pattern)
	if err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:   config,
		watcher:  fw,
		pattern:  pattern,
		debounce: debounce.New(config.Debounce, onChange),
		log:      log.Named("watcher"),
	}, nil
}

func validateDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if !info.IsDir() {
		return ErrPathNotDirectory
	}
	return nil
}

// Start 开始监听，ctx 取消或 Close 后停止
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.config.Dir); err != nil {
		return err
	}
	w.log.Debug("watching resource dir", zap.String("dir", w.config.Dir), zap.String("pattern", w.config.Pattern))

	go w.processEvents(ctx)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.debounce.Cancel()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.pattern.Match(filepath.Base(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.log.Debug("resource file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.debounce.Trigger()
}

// Close 停止监听，可重复调用
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		w.debounce.Cancel()
		err = w.watcher.Close()
	})
	return err
}
