package lsp

import (
	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/matcher"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

// handleCodeAction 处理代码操作请求
func (s *Server) handleCodeAction(id json.RawMessage, params json.RawMessage) {
	var p protocol.CodeActionParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendError(id, jsonrpc2.InvalidParams, "Invalid codeAction params")
		return
	}

	doc := s.documents.Get(string(p.TextDocument.URI))
	if doc == nil || !s.scannable(doc) {
		s.sendResult(id, []protocol.CodeAction{})
		return
	}

	s.sendResult(id, s.getCodeActions(doc, p.Range))
}

// getCodeActions 为选区内的每处文案生成抽取操作
func (s *Server) getCodeActions(doc *Document, rng protocol.Range) []protocol.CodeAction {
	content, version, targets := doc.Targets()
	start, end := OffsetAt(content, rng.Start), OffsetAt(content, rng.End)

	actions := []protocol.CodeAction{}
	ws := s.workspace()
	for _, t := range targets {
		if t.End < start || t.Start > end {
			continue
		}
		diag := targetDiagnostic(content, t)
		same := scanner.SameText(targets, t.Text)

		// 已有对应变量：直接使用该变量替换所有相同的文案
		if ws != nil {
			keys := matcher.Find(ws.Store.Table(), t.Text, s.config.Get().Keys.MatchMode)
			for i, key := range keys {
				ref := ws.Engine.Ref(key)
				actions = append(actions, protocol.CodeAction{
					Title:       i18n.T(i18n.MsgExtractAs, ref),
					Kind:        protocol.QuickFix,
					Diagnostics: []protocol.Diagnostic{diag},
					IsPreferred: i == 0,
					Command: extractCommand(i18n.T(i18n.MsgExtractAs, ref), ExtractArgs{
						URI:     doc.URI,
						Version: version,
						Text:    t.Text,
						Targets: same,
						VarName: ref,
					}),
				})
			}
		}

		// 自定义变量：同样替换所有相同的文案
		title := i18n.T(i18n.MsgExtractCustom, len(same))
		actions = append(actions, protocol.CodeAction{
			Title:       title,
			Kind:        protocol.QuickFix,
			Diagnostics: []protocol.Diagnostic{diag},
			Command: extractCommand(title, ExtractArgs{
				URI:     doc.URI,
				Version: version,
				Text:    t.Text,
				Targets: same,
			}),
		})
	}
	return actions
}

func extractCommand(title string, args ExtractArgs) *protocol.Command {
	return &protocol.Command{
		Title:     title,
		Command:   CommandExtract,
		Arguments: []interface{}{args},
	}
}
