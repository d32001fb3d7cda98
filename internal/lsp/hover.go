package lsp

import (
	"strings"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/matcher"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

// handleHover 处理悬停请求
func (s *Server) handleHover(id json.RawMessage, params json.RawMessage) {
	var p protocol.HoverParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendError(id, jsonrpc2.InvalidParams, "Invalid hover params")
		return
	}

	doc := s.documents.Get(string(p.TextDocument.URI))
	if doc == nil || !s.scannable(doc) {
		s.sendResult(id, nil)
		return
	}

	content, _, targets := doc.Targets()
	t, ok := scanner.At(targets, OffsetAt(content, p.Position))
	if !ok {
		s.sendResult(id, nil)
		return
	}

	rng := RangeOf(content, t.Start, t.End)
	s.sendResult(id, &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: s.hoverText(t),
		},
		Range: &rng,
	})
}

// hoverText 悬停内容：文案本身和已有的对应变量
func (s *Server) hoverText(t scanner.Target) string {
	var b strings.Builder
	b.WriteString(i18n.T(i18n.MsgDetected, t.Text))

	ws := s.workspace()
	if ws == nil {
		return b.String()
	}
	keys := matcher.Find(ws.Store.Table(), t.Text, s.config.Get().Keys.MatchMode)
	if len(keys) == 0 {
		return b.String()
	}

	b.WriteString("\n\n")
	b.WriteString(i18n.T(i18n.MsgHoverKeys))
	for _, key := range keys {
		b.WriteString("\n- `")
		b.WriteString(ws.Engine.Ref(key))
		b.WriteString("`")
	}
	return b.String()
}
