package lsp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/i18n"
)

// 服务端发往客户端的请求
const (
	methodApplyEdit          = "workspace/applyEdit"
	methodShowMessage        = "window/showMessage"
	methodShowMessageRequest = "window/showMessageRequest"
	methodInputBox           = "i18nLinter/inputBox"
)

// call 向客户端发送请求并等待响应
//
// 只能在命令 worker 中调用；读循环负责把响应交给 deliver。
func (s *Server) call(ctx context.Context, method string, params, result interface{}) error {
	id := s.nextID.Inc()
	key := strconv.FormatInt(id, 10)
	ch := make(chan *message, 1)

	s.pendingMu.Lock()
	s.pending[key] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, key)
		s.pendingMu.Unlock()
	}()

	err := s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result == nil || len(resp.Result) == 0 || string(resp.Result) == "null" {
			return nil
		}
		return json.Unmarshal(resp.Result, result)
	}
}

// deliver 将客户端响应交给等待中的 call
func (s *Server) deliver(msg *message) {
	key := strings.Trim(string(msg.ID), `"`)

	s.pendingMu.Lock()
	ch, ok := s.pending[key]
	s.pendingMu.Unlock()

	if !ok {
		s.log.Debug("response for unknown request", zap.String("id", key))
		return
	}
	ch <- msg
}

// showMessage 在客户端显示提示
func (s *Server) showMessage(typ protocol.MessageType, text string) {
	s.sendNotification(methodShowMessage, protocol.ShowMessageParams{
		Type:    typ,
		Message: text,
	})
}

// bufferEditor 通过 workspace/applyEdit 修改客户端中的文档
//
// 本地保留一份文本，偏移按修改后的内容计算。
type bufferEditor struct {
	s    *Server
	uri  string
	text string
}

func newBufferEditor(s *Server, uri, text string) *bufferEditor {
	return &bufferEditor{s: s, uri: uri, text: text}
}

func (b *bufferEditor) Text() string {
	return b.text
}

func (b *bufferEditor) Replace(ctx context.Context, start, end int, newText string) error {
	if start < 0 || end > len(b.text) || start > end {
		return fmt.Errorf("edit [%d, %d) out of range", start, end)
	}

	params := protocol.ApplyWorkspaceEditParams{
		Label: i18n.T(i18n.MsgEditLabel),
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				protocol.DocumentURI(b.uri): {{
					Range:   RangeOf(b.text, start, end),
					NewText: newText,
				}},
			},
		},
	}

	var resp protocol.ApplyWorkspaceEditResponse
	if err := b.s.call(ctx, methodApplyEdit, params, &resp); err != nil {
		return err
	}
	if !resp.Applied {
		reason := resp.FailureReason
		if reason == "" {
			reason = "rejected by client"
		}
		return fmt.Errorf("workspace edit not applied: %s", reason)
	}

	b.text = b.text[:start] + newText + b.text[end:]
	return nil
}

// inputBoxParams i18nLinter/inputBox 请求参数；客户端返回输入的字符串，取消时返回 null
type inputBoxParams struct {
	Prompt            string `json:"prompt"`
	Value             string `json:"value"`
	ValidationMessage string `json:"validationMessage,omitempty"`
}

// clientPrompter 通过客户端与用户交互
type clientPrompter struct {
	s *Server
}

// InputKey 请求输入，输入不合法时带上校验提示重新询问
func (p clientPrompter) InputKey(ctx context.Context, prompt, initial string, validate func(string) string) (string, error) {
	params := inputBoxParams{Prompt: prompt, Value: initial}
	for {
		var value *string
		if err := p.s.call(ctx, methodInputBox, params, &value); err != nil {
			return "", err
		}
		if value == nil {
			return "", nil
		}

		msg := validate(*value)
		if msg == "" {
			return *value, nil
		}
		params.Value = *value
		params.ValidationMessage = msg
	}
}

// Confirm 通过 window/showMessageRequest 请求确认
func (p clientPrompter) Confirm(ctx context.Context, text string) (bool, error) {
	yes := i18n.T(i18n.MsgYes)
	params := protocol.ShowMessageRequestParams{
		Type:    protocol.MessageTypeInfo,
		Message: text,
		Actions: []protocol.MessageActionItem{
			{Title: yes},
			{Title: i18n.T(i18n.MsgNo)},
		},
	}

	var choice *protocol.MessageActionItem
	if err := p.s.call(ctx, methodShowMessageRequest, params, &choice); err != nil {
		return false, err
	}
	return choice != nil && choice.Title == yes, nil
}
