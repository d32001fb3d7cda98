package lsp

import (
	"context"
	"errors"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/extract"
	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/resource"
	"github.com/tangzhangming/i18nlint/internal/scanner"
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

// ExtractArgs i18nLinter.extract 的参数
type ExtractArgs struct {
	URI     string           `json:"uri"`
	Version int              `json:"version"`
	Text    string           `json:"text"`
	Targets []scanner.Target `json:"targets"`

	// VarName 指定时直接使用该变量，否则询问用户
	VarName string `json:"varName,omitempty"`
}

// ReplaceCommonArgs i18nLinter.replaceCommon 的参数
type ReplaceCommonArgs struct {
	URI string `json:"uri"`
}

// CommandResult 命令执行结果
type CommandResult struct {
	Replaced int `json:"replaced"`
}

type executeCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments"`
}

// handleExecuteCommand 处理命令请求
//
// 命令在 worker 中依次执行，完成后才返回响应。
func (s *Server) handleExecuteCommand(id json.RawMessage, params json.RawMessage) {
	var p executeCommandParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendError(id, jsonrpc2.InvalidParams, "Invalid executeCommand params")
		return
	}

	switch p.Command {
	case CommandExtract:
		var args ExtractArgs
		if len(p.Arguments) == 0 || json.Unmarshal(p.Arguments[0], &args) != nil || args.URI == "" {
			s.sendError(id, jsonrpc2.InvalidParams, "Invalid arguments for "+p.Command)
			return
		}
		s.enqueue(func(ctx context.Context) {
			s.sendResult(id, CommandResult{Replaced: s.runExtract(ctx, args)})
		})

	case CommandReplaceCommon:
		args, ok := parseReplaceCommonArgs(p.Arguments)
		if !ok {
			s.sendError(id, jsonrpc2.InvalidParams, "Invalid arguments for "+p.Command)
			return
		}
		s.enqueue(func(ctx context.Context) {
			s.sendResult(id, CommandResult{Replaced: s.runReplaceCommon(ctx, args)})
		})

	default:
		s.sendError(id, jsonrpc2.InvalidParams, "Unknown command: "+p.Command)
	}
}

// parseReplaceCommonArgs 参数可以是 {"uri": ...} 或 URI 字符串
func parseReplaceCommonArgs(raw []json.RawMessage) (ReplaceCommonArgs, bool) {
	var args ReplaceCommonArgs
	if len(raw) == 0 {
		return args, false
	}
	if err := json.Unmarshal(raw[0], &args); err == nil && args.URI != "" {
		return args, true
	}
	if err := json.Unmarshal(raw[0], &args.URI); err == nil && args.URI != "" {
		return args, true
	}
	return args, false
}

// commandContext 命令执行需要的工作区和文档
func (s *Server) commandContext(uri string) (*workspace.Workspace, *Document, bool) {
	ws := s.workspace()
	if ws == nil {
		s.log.Warn("command without workspace", zap.String("uri", uri))
		s.showMessage(protocol.MessageTypeError, i18n.T(i18n.MsgExtractFailed, "workspace not initialized"))
		return nil, nil, false
	}
	doc := s.documents.Get(uri)
	if doc == nil {
		s.log.Warn("command on unknown document", zap.String("uri", uri))
		return nil, nil, false
	}
	return ws, doc, true
}

// runExtract 执行抽取，返回替换的数量
func (s *Server) runExtract(ctx context.Context, args ExtractArgs) int {
	ws, doc, ok := s.commandContext(args.URI)
	if !ok {
		return 0
	}

	content, version, current := doc.Targets()
	targets := resolveTargets(args, version, current)
	if len(targets) == 0 {
		s.log.Info("nothing to extract", zap.String("uri", args.URI), zap.String("text", args.Text))
		return 0
	}

	ed := newBufferEditor(s, args.URI, content)
	n, err := ws.Engine.Extract(ctx, ed, clientPrompter{s: s}, extract.Request{
		Targets: targets,
		Key:     args.VarName,
	})
	if n > 0 {
		s.showMessage(protocol.MessageTypeInfo, i18n.T(i18n.MsgReplaced, n))
	}
	s.reportCommandError(err)
	return n
}

// runReplaceCommon 执行公共文案替换，返回替换的数量
func (s *Server) runReplaceCommon(ctx context.Context, args ReplaceCommonArgs) int {
	ws, doc, ok := s.commandContext(args.URI)
	if !ok {
		return 0
	}

	content, _ := doc.Snapshot()
	ed := newBufferEditor(s, args.URI, content)
	res, err := ws.Engine.ReplaceCommon(ctx, ed, clientPrompter{s: s}, ws.Store.Table())
	switch {
	case err != nil:
		s.reportCommandError(err)
	case res.Found == 0:
		s.showMessage(protocol.MessageTypeInfo, i18n.T(i18n.MsgNoCommon))
	default:
		s.showMessage(protocol.MessageTypeInfo, i18n.T(i18n.MsgCommonDone))
	}
	return res.Replaced
}

// reportCommandError 向用户提示命令错误；取消不提示
func (s *Server) reportCommandError(err error) {
	if err == nil || errors.Is(err, extract.ErrCancelled) {
		return
	}

	var dup *resource.DuplicateKeyError
	if errors.As(err, &dup) {
		s.showMessage(protocol.MessageTypeError, i18n.T(i18n.MsgDuplicateKey, dup.File, dup.Key))
		return
	}
	s.log.Error("command failed", zap.Error(err))
	s.showMessage(protocol.MessageTypeError, i18n.T(i18n.MsgExtractFailed, err))
}

// resolveTargets 校正命令参数中的文案位置
//
// 文档在生成代码操作之后被修改过时，按文案内容在当前扫描结果中重新定位。
func resolveTargets(args ExtractArgs, version int, current []scanner.Target) []scanner.Target {
	if version == args.Version && len(args.Targets) > 0 {
		return args.Targets
	}

	same := scanner.SameText(current, args.Text)
	if len(args.Targets) != 1 || len(same) == 0 {
		return same
	}

	// 单处替换：取离原位置最近的一处
	want := args.Targets[0].Start
	best := same[0]
	for _, t := range same[1:] {
		if abs(t.Start-want) < abs(best.Start-want) {
			best = t
		}
	}
	return []scanner.Target{best}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
