// Package workspace 组装一个项目的资源存储、抽取引擎和目录监听
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/config"
	"github.com/tangzhangming/i18nlint/internal/extract"
	"github.com/tangzhangming/i18nlint/internal/resource"
	"github.com/tangzhangming/i18nlint/internal/watcher"
)

// Hooks 工作区事件回调
type Hooks struct {
	// OnReload 资源目录变化并重新加载之后调用
	OnReload func(snap *resource.Snapshot)

	// OnCreate 新建模块文件之后调用
	OnCreate func(module, path string)
}

// Workspace 一个项目
type Workspace struct {
	Root   string
	Config config.Config
	Store  *resource.Store
	Engine *extract.Engine

	watcher *watcher.Watcher
	hooks   Hooks
	log     *zap.Logger
}

// Open 打开工作区并加载语言资源
//
// 配置开启监听且资源目录存在时，启动 fsnotify 监听；ctx 取消后监听停止。
func Open(ctx context.Context, root string, cfg config.Config, log *zap.Logger, hooks Hooks) (*Workspace, error) {
	if log == nil {
		log = zap.NewNop()
	}

	store, err := resource.NewStore(resource.Options{
		Dir:         cfg.ResourceDir(root),
		Pattern:     cfg.Resource.Pattern,
		Extension:   cfg.Resource.Extension,
		IndexModule: cfg.Resource.IndexModule,
		Logger:      log,
		OnCreate:    hooks.OnCreate,
	})
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		Root:   root,
		Config: cfg,
		Store:  store,
		Engine: extract.NewEngine(store, extract.Options{
			KeyPrefix:       cfg.Keys.Prefix,
			TemplateFunc:    cfg.Keys.TemplateFunc,
			CommonNamespace: cfg.Keys.CommonNamespace,
			IndexModule:     cfg.Resource.IndexModule,
		}, log),
		hooks: hooks,
		log:   log.Named("workspace"),
	}

	snap := store.Reload()
	ws.log.Info("workspace opened",
		zap.String("root", root),
		zap.String("resources", store.Dir()),
		zap.Int("keys", snap.Table.Len()),
		zap.Int("warnings", len(snap.Warnings)),
	)

	if cfg.Resource.Watch {
		if err := ws.watch(ctx); err != nil {
			ws.log.Warn("resource watcher disabled", zap.Error(err))
		}
	}
	return ws, nil
}

func (ws *Workspace) watch(ctx context.Context) error {
	w, err := watcher.New(watcher.Config{
		Dir:     ws.Store.Dir(),
		Pattern: ws.Config.Resource.Pattern,
	}, func() {
		ws.Reload()
	}, ws.log)
	if errors.Is(err, watcher.ErrPathNotExist) {
		return fmt.Errorf("resource dir %s does not exist yet", ws.Store.Dir())
	}
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		return err
	}
	ws.watcher = w
	return nil
}

// Reload 重新加载语言资源并通知回调
func (ws *Workspace) Reload() *resource.Snapshot {
	snap := ws.Store.Reload()
	if ws.hooks.OnReload != nil {
		ws.hooks.OnReload(snap)
	}
	return snap
}

// Watching 是否正在监听资源目录
func (ws *Workspace) Watching() bool {
	return ws.watcher != nil
}

// Close 停止监听
func (ws *Workspace) Close() error {
	if ws.watcher == nil {
		return nil
	}
	return ws.watcher.Close()
}

// ResourceDirExists 资源目录是否存在
func (ws *Workspace) ResourceDirExists() bool {
	info, err := os.Stat(ws.Store.Dir())
	return err == nil && info.IsDir()
}
