// Package lsp 实现 i18n linter 语言服务器
//
// 打开的文档中包含中文的字符串和标签文本会被标记为诊断；代码操作提供抽取为
// I18N 变量的命令，命令在服务端执行：写入语言资源后通过 workspace/applyEdit
// 改写源码。
package lsp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/config"
	"github.com/tangzhangming/i18nlint/internal/debounce"
	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

// ServerName 服务器名称
const ServerName = "i18nlint"

// 命令
const (
	CommandExtract       = "i18nLinter.extract"
	CommandReplaceCommon = "i18nLinter.replaceCommon"
)

// Options 服务器选项
type Options struct {
	In  io.Reader
	Out io.Writer

	Logger  *zap.Logger
	Version string

	// Config 指定时不再从工作区加载配置
	Config *config.Config
}

// Server LSP 服务器
type Server struct {
	// 文档管理
	documents *DocumentManager

	// 配置
	config     *ConfigurationManager
	baseConfig *config.Config

	// 工作区
	workspaceRoot string
	ws            *workspace.Workspace
	wsMu          sync.RWMutex

	log     *zap.Logger
	version string

	// 输入输出
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	// 服务端发往客户端的请求
	nextID    atomic.Int64
	pending   map[string]chan *message
	pendingMu sync.Mutex

	// 命令串行执行
	jobs chan func(ctx context.Context)
	ctx  context.Context

	// 服务器状态
	initialized atomic.Bool
	shutdown    atomic.Bool
	exited      atomic.Bool
}

// message JSON-RPC 消息（请求、通知或响应）
type message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *responseError  `json:"error,omitempty"`
}

// responseError JSON-RPC 错误
type responseError struct {
	Code    jsonrpc2.Code `json:"code"`
	Message string        `json:"message"`
}

func (e *responseError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewServer 创建 LSP 服务器
func NewServer(opts Options) *Server {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		baseConfig: opts.Config,
		log:        opts.Logger.Named("lsp"),
		version:    opts.Version,
		reader:     bufio.NewReader(opts.In),
		writer:     opts.Out,
		pending:    make(map[string]chan *message),
		jobs:       make(chan func(ctx context.Context), 16),
		ctx:        context.Background(),
	}

	base := config.Default()
	if opts.Config != nil {
		base = *opts.Config
	}
	s.config = NewConfigurationManager(base)
	s.documents = NewDocumentManager(s.newRescan)
	return s
}

// newRescan 文档变更后的防抖诊断
func (s *Server) newRescan(doc *Document) *debounce.Debouncer {
	return debounce.New(s.config.Get().Debounce(), func() {
		s.publishDiagnostics(doc)
	})
}

// Run 启动 LSP 服务器主循环
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	s.log.Info("i18n linter server started", zap.String("version", s.version))
	go s.worker(ctx)
	defer s.closeWorkspace()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// 读取消息
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF || err == io.ErrClosedPipe {
				s.log.Info("client disconnected")
				return nil
			}
			s.log.Error("failed to read message", zap.Error(err))
			continue
		}

		// 处理消息
		s.handleMessage(ctx, msg)

		// 如果收到 exit 通知，退出
		if s.exited.Load() {
			s.log.Info("server exited")
			return nil
		}
	}
}

// worker 串行执行命令，读循环在此期间继续接收客户端的响应
func (s *Server) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			job(ctx)
		}
	}
}

// enqueue 提交命令
func (s *Server) enqueue(job func(ctx context.Context)) {
	select {
	case s.jobs <- job:
	case <-s.ctx.Done():
	}
}

// readMessage 读取 LSP 消息
func (s *Server) readMessage() ([]byte, error) {
	// 读取头部
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)

		if line == "" {
			// 头部结束
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %s", lengthStr)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	// 读取内容
	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}

	s.log.Debug("received", zap.ByteString("message", content))
	return content, nil
}

// sendMessage 发送 LSP 消息
func (s *Server) sendMessage(msg interface{}) error {
	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("sending", zap.ByteString("message", content))

	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(content)); err != nil {
		return err
	}
	_, err = s.writer.Write(content)
	return err
}

// handleMessage 处理收到的消息
func (s *Server) handleMessage(ctx context.Context, raw []byte) {
	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.log.Error("failed to parse message", zap.Error(err))
		s.sendError(json.RawMessage("null"), jsonrpc2.ParseError, "Parse error")
		return
	}

	// 客户端对服务端请求的响应
	if msg.Method == "" && msg.ID != nil {
		s.deliver(&msg)
		return
	}

	// 根据方法分发处理
	switch msg.Method {
	case "initialize":
		s.handleInitialize(msg.ID, msg.Params)
	case "initialized":
		s.handleInitialized()
	case "shutdown":
		s.handleShutdown(msg.ID)
	case "exit":
		s.handleExit()
	case "textDocument/didOpen":
		s.handleDidOpen(msg.Params)
	case "textDocument/didChange":
		s.handleDidChange(msg.Params)
	case "textDocument/didClose":
		s.handleDidClose(msg.Params)
	case "textDocument/didSave":
		s.handleDidSave(msg.Params)
	case "textDocument/hover":
		s.handleHover(msg.ID, msg.Params)
	case "textDocument/codeAction":
		s.handleCodeAction(msg.ID, msg.Params)
	case "workspace/executeCommand":
		s.handleExecuteCommand(msg.ID, msg.Params)
	case "workspace/didChangeConfiguration":
		s.handleConfigurationChanged(msg.Params)
	case "workspace/didChangeWatchedFiles":
		s.handleDidChangeWatchedFiles(msg.Params)
	case "$/cancelRequest", "$/setTrace":
		// 命令一旦开始不可取消
	default:
		s.log.Debug("unknown method", zap.String("method", msg.Method))
		// 如果有 ID，返回方法未找到错误
		if msg.ID != nil {
			s.sendError(msg.ID, jsonrpc2.MethodNotFound, "Method not found: "+msg.Method)
		}
	}
}

// initializeParams 初始化参数中用到的字段
type initializeParams struct {
	RootURI               protocol.DocumentURI       `json:"rootUri"`
	RootPath              string                     `json:"rootPath"`
	Locale                string                     `json:"locale"`
	InitializationOptions json.RawMessage            `json:"initializationOptions"`
	WorkspaceFolders      []protocol.WorkspaceFolder `json:"workspaceFolders"`
}

// handleInitialize 处理初始化请求
func (s *Server) handleInitialize(id json.RawMessage, params json.RawMessage) {
	var p initializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendError(id, jsonrpc2.InvalidParams, "Invalid initialize params")
		return
	}

	// 保存工作区根目录
	switch {
	case p.RootURI != "":
		s.workspaceRoot = uriToPath(string(p.RootURI))
	case len(p.WorkspaceFolders) > 0:
		s.workspaceRoot = uriToPath(string(p.WorkspaceFolders[0].URI))
	case p.RootPath != "":
		s.workspaceRoot = p.RootPath
	default:
		s.workspaceRoot, _ = os.Getwd()
	}

	i18n.SetLanguageFromLocale(p.Locale)

	// 加载工作区配置
	if s.baseConfig == nil {
		cfg, err := config.Load(s.workspaceRoot)
		if err != nil {
			s.log.Warn("failed to load workspace config, using defaults", zap.Error(err))
		} else {
			s.config.SetBase(cfg)
		}
	}
	if len(p.InitializationOptions) > 0 {
		if err := s.config.UpdateFromJSON(p.InitializationOptions); err != nil {
			s.log.Warn("invalid initialization options", zap.Error(err))
		}
	}

	s.log.Info("initialize", zap.String("root", s.workspaceRoot), zap.String("locale", p.Locale))
	s.openWorkspace()

	// 返回服务器能力
	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			// 文档同步：增量同步
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    2, // TextDocumentSyncKindIncremental
				"save": map[string]interface{}{
					"includeText": true,
				},
			},
			// 悬停提示
			"hoverProvider": true,
			// 代码操作
			"codeActionProvider": map[string]interface{}{
				"codeActionKinds": []string{string(protocol.QuickFix)},
			},
			// 命令
			"executeCommandProvider": map[string]interface{}{
				"commands": []string{CommandExtract, CommandReplaceCommon},
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    ServerName,
			"version": s.version,
		},
	}

	s.sendResult(id, result)
}

// handleInitialized 处理初始化完成通知
func (s *Server) handleInitialized() {
	s.initialized.Store(true)
	s.log.Info("server initialized")
	s.reportWarnings()
}

// handleShutdown 处理关闭请求
func (s *Server) handleShutdown(id json.RawMessage) {
	s.shutdown.Store(true)
	s.log.Info("shutdown requested")
	s.sendResult(id, nil)
}

// handleExit 处理退出通知
func (s *Server) handleExit() {
	s.exited.Store(true)
	s.log.Info("exit notification received")
}

// handleDidOpen 处理文档打开
func (s *Server) handleDidOpen(params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("invalid didOpen params", zap.Error(err))
		return
	}

	docURI := string(p.TextDocument.URI)
	s.log.Debug("document opened", zap.String("uri", docURI))

	doc := s.documents.Open(docURI, string(p.TextDocument.LanguageID), p.TextDocument.Text, int(p.TextDocument.Version))

	// 打开时立即诊断
	s.publishDiagnostics(doc)
}

// didChangeParams 文档变更参数
type didChangeParams struct {
	TextDocument   protocol.VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []contentChange                          `json:"contentChanges"`
}

// handleDidChange 处理文档变更
func (s *Server) handleDidChange(params json.RawMessage) {
	var p didChangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("invalid didChange params", zap.Error(err))
		return
	}

	doc := s.documents.ApplyChange(string(p.TextDocument.URI), p.ContentChanges, int(p.TextDocument.Version))
	if doc == nil {
		return
	}

	// 防抖后重新诊断
	doc.rescan.Trigger()
}

// handleDidClose 处理文档关闭
func (s *Server) handleDidClose(params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("invalid didClose params", zap.Error(err))
		return
	}

	docURI := string(p.TextDocument.URI)
	s.log.Debug("document closed", zap.String("uri", docURI))

	s.documents.Close(docURI)

	// 清除诊断
	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

// handleDidSave 处理文档保存
func (s *Server) handleDidSave(params json.RawMessage) {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("invalid didSave params", zap.Error(err))
		return
	}

	docURI := string(p.TextDocument.URI)

	// 资源文件保存后重新加载
	if ws := s.workspace(); ws != nil && ws.Store.Matches(uriToPath(docURI)) {
		ws.Reload()
	}

	doc := s.documents.Get(docURI)
	if doc == nil {
		return
	}
	if p.Text != "" {
		if content, _ := doc.Snapshot(); content != p.Text {
			s.documents.UpdateContent(docURI, p.Text)
		}
	}
	s.publishDiagnostics(doc)
}

// sendResult 发送成功响应
func (s *Server) sendResult(id json.RawMessage, result interface{}) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	if err := s.sendMessage(response); err != nil {
		s.log.Error("failed to send response", zap.Error(err))
	}
}

// sendError 发送错误响应
func (s *Server) sendError(id json.RawMessage, code jsonrpc2.Code, msg string) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": responseError{
			Code:    code,
			Message: msg,
		},
	}
	if err := s.sendMessage(response); err != nil {
		s.log.Error("failed to send error response", zap.Error(err))
	}
}

// sendNotification 发送通知
func (s *Server) sendNotification(method string, params interface{}) {
	notification := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	if err := s.sendMessage(notification); err != nil {
		s.log.Error("failed to send notification", zap.String("method", method), zap.Error(err))
	}
}

// uriToPath 将 URI 转换为文件路径
func uriToPath(docURI string) string {
	if !strings.HasPrefix(docURI, "file://") {
		return docURI
	}
	return uri.URI(docURI).Filename()
}
