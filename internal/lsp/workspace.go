package lsp

import (
	"path/filepath"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/resource"
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

// workspace 返回当前工作区，未打开时为 nil
func (s *Server) workspace() *workspace.Workspace {
	s.wsMu.RLock()
	defer s.wsMu.RUnlock()
	return s.ws
}

// openWorkspace 按当前配置（重新）打开工作区
func (s *Server) openWorkspace() {
	cfg := s.config.Get()

	ws, err := workspace.Open(s.ctx, s.workspaceRoot, cfg, s.log, workspace.Hooks{
		OnReload: s.onReload,
		OnCreate: func(module, path string) {
			s.showMessage(protocol.MessageTypeInfo, i18n.T(i18n.MsgModuleCreated, filepath.Base(path)))
		},
	})
	if err != nil {
		s.log.Error("failed to open workspace", zap.String("root", s.workspaceRoot), zap.Error(err))
		return
	}

	s.wsMu.Lock()
	old := s.ws
	s.ws = ws
	s.wsMu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.log.Warn("failed to close previous workspace", zap.Error(err))
		}
	}
	if s.initialized.Load() {
		s.reportWarnings()
	}
}

// closeWorkspace 停止监听
func (s *Server) closeWorkspace() {
	s.wsMu.Lock()
	ws := s.ws
	s.ws = nil
	s.wsMu.Unlock()

	if ws != nil {
		if err := ws.Close(); err != nil {
			s.log.Warn("failed to close workspace", zap.Error(err))
		}
	}
}

// onReload 资源重新加载后提示解析失败的模块
func (s *Server) onReload(snap *resource.Snapshot) {
	s.log.Debug("resources reloaded", zap.Uint64("version", snap.Version), zap.Int("keys", snap.Table.Len()))
	s.notifyWarnings(snap)
}

// reportWarnings 提示当前快照中的加载警告
func (s *Server) reportWarnings() {
	ws := s.workspace()
	if ws == nil {
		return
	}
	s.notifyWarnings(ws.Store.Snapshot())
}

func (s *Server) notifyWarnings(snap *resource.Snapshot) {
	for _, err := range multierr.Errors(snap.Warning()) {
		if me, ok := err.(*resource.ModuleError); ok {
			s.showMessage(protocol.MessageTypeWarning, i18n.T(i18n.MsgModuleParseFailed, filepath.Base(me.Path)))
			continue
		}
		s.log.Warn("resource warning", zap.Error(err))
	}
}

// didChangeWatchedFilesParams 监听文件变化参数
type didChangeWatchedFilesParams struct {
	Changes []protocol.FileEvent `json:"changes"`
}

// handleDidChangeWatchedFiles 客户端通知资源文件变化，作为 fsnotify 之外的补充
func (s *Server) handleDidChangeWatchedFiles(params json.RawMessage) {
	var p didChangeWatchedFilesParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("invalid didChangeWatchedFiles params", zap.Error(err))
		return
	}

	ws := s.workspace()
	if ws == nil {
		return
	}
	for _, c := range p.Changes {
		if ws.Store.Matches(uriToPath(string(c.URI))) {
			ws.Reload()
			return
		}
	}
}
